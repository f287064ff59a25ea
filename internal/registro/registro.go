// Package registro expõe o cliente do armazém hierárquico de registros:
// uma árvore de nós nomeados, endereçados por caminho separado por
// barras, cada um guardando um documento JSON. O armazém não oferece
// transação entre caminhos; a única primitiva de concorrência é a
// gravação condicionada à revisão lida.
package registro

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAusente indica caminho sem registro. Condição esperada, não é
	// falha de transporte.
	ErrAusente = errors.New("caminho ausente")

	// ErrConflito indica gravação condicional com revisão desatualizada.
	ErrConflito = errors.New("revisão desatualizada")
)

// ErroStore embrulha falhas de transporte ou permissão do armazém.
type ErroStore struct {
	Op      string
	Caminho string
	Causa   error
}

func (e *ErroStore) Error() string {
	return fmt.Sprintf("registro: %s %s: %v", e.Op, e.Caminho, e.Causa)
}

func (e *ErroStore) Unwrap() error {
	return e.Causa
}

func falhaStore(op, caminho string, causa error) error {
	return &ErroStore{Op: op, Caminho: caminho, Causa: causa}
}

// Snapshot é o documento lido de um caminho, com a revisão observada
// para gravações condicionais.
type Snapshot struct {
	Valor json.RawMessage
	Rev   string
}

// Decodificar desserializa o documento no destino.
func (s Snapshot) Decodificar(dest any) error {
	return json.Unmarshal(s.Valor, dest)
}

// Store é o cliente injetável do armazém. Criado uma vez na subida do
// processo e passado a cada DAO, permitindo substituição por um armazém
// em memória nos testes.
type Store interface {
	// Obter lê o documento do caminho; ErrAusente quando não há registro.
	Obter(ctx context.Context, caminho string) (Snapshot, error)

	// Gravar sobrescreve integralmente o documento do caminho.
	Gravar(ctx context.Context, caminho string, valor any) error

	// GravarSeRev sobrescreve somente se a revisão do caminho ainda for a
	// informada; ErrConflito caso contrário.
	GravarSeRev(ctx context.Context, caminho string, valor any, rev string) error

	// Mesclar atualiza apenas os campos informados do documento.
	Mesclar(ctx context.Context, caminho string, campos map[string]any) error

	// Acrescentar cria um filho com chave nova sob o caminho e devolve a
	// chave gerada.
	Acrescentar(ctx context.Context, caminho string, valor any) (string, error)

	// Remover apaga o caminho e sua subárvore.
	Remover(ctx context.Context, caminho string) error
}

func validarCaminho(caminho string) ([]string, error) {
	if caminho == "" {
		return nil, errors.New("caminho vazio")
	}
	partes := strings.Split(strings.Trim(caminho, "/"), "/")
	for _, p := range partes {
		if p == "" {
			return nil, fmt.Errorf("caminho malformado: %q", caminho)
		}
	}
	return partes, nil
}

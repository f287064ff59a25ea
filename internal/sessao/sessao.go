// Package sessao reconcilia as duas árvores que formam a conta lógica
// (`usuarios/{uid}` e `alunos/{uid}`) no primeiro acesso e mantém a
// visão de sessão consumida pelas telas.
package sessao

import (
	"errors"

	"github.com/escolalivre/comunidade/internal/modelo"
)

// ErrInconsistente marca conta cuja variante exige perfil de aluno mas o
// registro vinculado não existe (ou o inverso). Fora do reparo
// idempotente do bootstrap, a condição é detectada e reportada, nunca
// remendada em silêncio.
var ErrInconsistente = errors.New("conta sem perfil de aluno vinculado")

// Estado da máquina de sessão.
type Estado int

const (
	Desconectado Estado = iota
	Carregando
	Pronto
	EmErro
)

func (e Estado) String() string {
	switch e {
	case Desconectado:
		return "desconectado"
	case Carregando:
		return "carregando"
	case Pronto:
		return "pronto"
	case EmErro:
		return "erro"
	}
	return "desconhecido"
}

// Visao é a fusão, em camadas, da identidade externa com os registros de
// usuário e de aluno. Camadas posteriores vencem em colisão de campo:
// identidade → usuário → perfil de aluno → alias MeusEsportes.
type Visao struct {
	UID             string
	Email           string
	Nome            string
	Foto            string
	EmailVerificado bool
	Tipo            modelo.Tipo
	Esportes        []string
	// MeusEsportes é o alias da lista de participação do perfil de
	// aluno, a consumida pelas telas.
	MeusEsportes []string
}

package registro

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/escolalivre/comunidade/internal/util"
)

// Memoria é o armazém em memória usado em desenvolvimento e nos testes.
// Guarda a árvore como mapas aninhados de valores JSON decodificados e
// mantém um contador de revisão por caminho.
type Memoria struct {
	mu   sync.RWMutex
	raiz map[string]any
	revs map[string]uint64
}

// NovaMemoria cria armazém vazio.
func NovaMemoria() *Memoria {
	return &Memoria{raiz: make(map[string]any), revs: make(map[string]uint64)}
}

func (m *Memoria) Obter(ctx context.Context, caminho string) (Snapshot, error) {
	partes, err := validarCaminho(caminho)
	if err != nil {
		return Snapshot{}, falhaStore("obter", caminho, err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	no, ok := m.navegar(partes)
	if !ok {
		return Snapshot{}, ErrAusente
	}

	bruto, err := json.Marshal(no)
	if err != nil {
		return Snapshot{}, falhaStore("obter", caminho, err)
	}
	return Snapshot{Valor: bruto, Rev: m.rev(partes)}, nil
}

func (m *Memoria) Gravar(ctx context.Context, caminho string, valor any) error {
	partes, err := validarCaminho(caminho)
	if err != nil {
		return falhaStore("gravar", caminho, err)
	}

	no, err := canonico(valor)
	if err != nil {
		return falhaStore("gravar", caminho, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.fixar(partes, no)
	return nil
}

func (m *Memoria) GravarSeRev(ctx context.Context, caminho string, valor any, rev string) error {
	partes, err := validarCaminho(caminho)
	if err != nil {
		return falhaStore("gravar-se-rev", caminho, err)
	}

	no, err := canonico(valor)
	if err != nil {
		return falhaStore("gravar-se-rev", caminho, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rev(partes) != rev {
		return ErrConflito
	}
	m.fixar(partes, no)
	return nil
}

func (m *Memoria) Mesclar(ctx context.Context, caminho string, campos map[string]any) error {
	partes, err := validarCaminho(caminho)
	if err != nil {
		return falhaStore("mesclar", caminho, err)
	}

	no, err := canonico(campos)
	if err != nil {
		return falhaStore("mesclar", caminho, err)
	}
	novos := no.(map[string]any)

	m.mu.Lock()
	defer m.mu.Unlock()

	atual := make(map[string]any)
	if existente, ok := m.navegar(partes); ok {
		if mapa, ok := existente.(map[string]any); ok {
			atual = mapa
		}
	}
	for chave, valor := range novos {
		atual[chave] = valor
	}
	m.fixar(partes, atual)
	return nil
}

func (m *Memoria) Acrescentar(ctx context.Context, caminho string, valor any) (string, error) {
	partes, err := validarCaminho(caminho)
	if err != nil {
		return "", falhaStore("acrescentar", caminho, err)
	}

	no, err := canonico(valor)
	if err != nil {
		return "", falhaStore("acrescentar", caminho, err)
	}

	chave := util.NovaChave()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.fixar(append(partes, chave), no)
	return chave, nil
}

func (m *Memoria) Remover(ctx context.Context, caminho string) error {
	partes, err := validarCaminho(caminho)
	if err != nil {
		return falhaStore("remover", caminho, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(partes) == 1 {
		delete(m.raiz, partes[0])
	} else {
		pai, ok := m.navegar(partes[:len(partes)-1])
		if !ok {
			return nil
		}
		mapa, ok := pai.(map[string]any)
		if !ok {
			return nil
		}
		delete(mapa, partes[len(partes)-1])
	}
	m.marcar(partes)
	return nil
}

// navegar percorre a árvore até o nó indicado. Exige lock.
func (m *Memoria) navegar(partes []string) (any, bool) {
	var atual any = m.raiz
	for _, p := range partes {
		mapa, ok := atual.(map[string]any)
		if !ok {
			return nil, false
		}
		filho, ok := mapa[p]
		if !ok {
			return nil, false
		}
		atual = filho
	}
	return atual, true
}

// fixar grava o nó no caminho, criando intermediários, e marca as
// revisões afetadas. Exige lock de escrita.
func (m *Memoria) fixar(partes []string, no any) {
	atual := m.raiz
	for _, p := range partes[:len(partes)-1] {
		filho, ok := atual[p].(map[string]any)
		if !ok {
			filho = make(map[string]any)
			atual[p] = filho
		}
		atual = filho
	}
	atual[partes[len(partes)-1]] = no
	m.marcar(partes)
}

// marcar avança a revisão do caminho, de todos os ancestrais e de todos
// os descendentes já observados. Exige lock de escrita.
func (m *Memoria) marcar(partes []string) {
	caminho := ""
	for _, p := range partes {
		if caminho == "" {
			caminho = p
		} else {
			caminho = caminho + "/" + p
		}
		m.revs[caminho]++
	}
	prefixo := caminho + "/"
	for existente := range m.revs {
		if len(existente) > len(prefixo) && existente[:len(prefixo)] == prefixo {
			m.revs[existente]++
		}
	}
}

func (m *Memoria) rev(partes []string) string {
	caminho := ""
	for _, p := range partes {
		if caminho == "" {
			caminho = p
		} else {
			caminho = caminho + "/" + p
		}
	}
	return strconv.FormatUint(m.revs[caminho], 10)
}

// canonico normaliza qualquer valor para a forma JSON decodificada que a
// árvore guarda.
func canonico(valor any) (any, error) {
	bruto, err := json.Marshal(valor)
	if err != nil {
		return nil, err
	}
	var no any
	if err := json.Unmarshal(bruto, &no); err != nil {
		return nil, err
	}
	return no, nil
}

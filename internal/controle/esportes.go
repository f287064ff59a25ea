package controle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/escolalivre/comunidade/internal/dao"
	"github.com/escolalivre/comunidade/internal/sessao"
)

const (
	chaveCacheAtivos = "esportes:ativos"
	ttlCacheAtivos   = time.Minute
)

// ControleEsportes orquestra o catálogo e a participação dos alunos.
type ControleEsportes struct {
	esportes *dao.DaoEsportes
	alunos   *dao.DaoAluno
	usuarios *dao.DaoUsuario
	cache    *redis.Client
}

func NovoControleEsportes(esportes *dao.DaoEsportes, alunos *dao.DaoAluno, usuarios *dao.DaoUsuario, cache *redis.Client) *ControleEsportes {
	return &ControleEsportes{esportes: esportes, alunos: alunos, usuarios: usuarios, cache: cache}
}

// ListarAtivos devolve os nomes do catálogo com flag verdadeira.
func (c *ControleEsportes) ListarAtivos(ctx context.Context) Resultado {
	if c.cache != nil {
		if corpo, err := c.cache.Get(ctx, chaveCacheAtivos).Bytes(); err == nil {
			var ativos []string
			if json.Unmarshal(corpo, &ativos) == nil {
				return sucesso("Esportes ativos listados com sucesso.", ativos)
			}
		}
	}

	catalogo, err := c.esportes.Obter(ctx)
	if err != nil {
		if errors.Is(err, dao.ErrNaoEncontrado) {
			return falha("Não há dados de esportes no banco.")
		}
		return normalizar(err)
	}

	ativos := catalogo.Ativos()
	if c.cache != nil {
		if corpo, err := json.Marshal(ativos); err == nil {
			c.cache.Set(ctx, chaveCacheAtivos, corpo, ttlCacheAtivos)
		}
	}
	return sucesso("Esportes ativos listados com sucesso.", ativos)
}

// Participar inscreve o aluno no esporte. Inscrição repetida é sucesso
// sem efeito. Conta sem perfil de aluno é estado inconsistente, não
// remendado aqui.
func (c *ControleEsportes) Participar(ctx context.Context, uid, esporte string) Resultado {
	if uid == "" {
		return falha("UID do usuário é obrigatório.")
	}

	esportes, err := c.alunos.ParticiparEsporte(ctx, uid, esporte)
	if err != nil {
		return c.normalizarParticipacao(ctx, uid, err)
	}
	return sucesso(fmt.Sprintf("Usuário inscrito em %s com sucesso.", esporte), esportes)
}

// Sair retira o aluno do esporte. Saída de esporte ausente é sucesso sem
// efeito.
func (c *ControleEsportes) Sair(ctx context.Context, uid, esporte string) Resultado {
	if uid == "" {
		return falha("UID do usuário é obrigatório.")
	}

	esportes, err := c.alunos.DeixarEsporte(ctx, uid, esporte)
	if err != nil {
		return c.normalizarParticipacao(ctx, uid, err)
	}
	return sucesso(fmt.Sprintf("Usuário saiu de %s com sucesso.", esporte), esportes)
}

// ListarDoUsuario devolve a lista de participação do aluno.
func (c *ControleEsportes) ListarDoUsuario(ctx context.Context, uid string) Resultado {
	if uid == "" {
		return falha("UID do usuário é obrigatório.")
	}

	perfil, err := c.alunos.ObterPorUID(ctx, uid)
	if err != nil {
		return c.normalizarParticipacao(ctx, uid, err)
	}
	return sucesso("Esportes do usuário listados com sucesso.", perfil.Esportes)
}

// normalizarParticipacao distingue aluno inexistente de conta existente
// sem perfil vinculado (inconsistência detectável).
func (c *ControleEsportes) normalizarParticipacao(ctx context.Context, uid string, err error) Resultado {
	if !errors.Is(err, dao.ErrNaoEncontrado) {
		return normalizar(err)
	}

	if _, uerr := c.usuarios.ObterPorUID(ctx, uid); uerr == nil {
		return normalizar(fmt.Errorf("conta %s: %w", uid, sessao.ErrInconsistente))
	}
	return falha(fmt.Sprintf("Usuário com ID %s não encontrado.", uid))
}

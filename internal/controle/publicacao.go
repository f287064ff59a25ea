package controle

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/escolalivre/comunidade/internal/dao"
	"github.com/escolalivre/comunidade/internal/modelo"
)

const (
	chaveCacheFeed = "publicacoes:todas"
	ttlCacheFeed   = 30 * time.Second
)

// DadosPublicacao é a forma de entrada de criação e edição.
type DadosPublicacao struct {
	Autor    string   `json:"autor"`
	Titulo   string   `json:"titulo"`
	Conteudo string   `json:"conteudo"`
	Esportes []string `json:"esportes"`
}

// PublicacaoSaida agrega a chave gerada ao corpo do registro.
type PublicacaoSaida struct {
	UID string `json:"uid"`
	modelo.RegistroPublicacao
}

// ControlePublicacao orquestra o feed. O cache Redis é opcional: com
// cliente nulo toda leitura vai direto ao armazém.
type ControlePublicacao struct {
	publicacoes *dao.DaoPublicacao
	cache       *redis.Client
}

func NovoControlePublicacao(publicacoes *dao.DaoPublicacao, cache *redis.Client) *ControlePublicacao {
	return &ControlePublicacao{publicacoes: publicacoes, cache: cache}
}

// Criar etiqueta a publicação com a data corrente e a acrescenta ao
// feed.
func (c *ControlePublicacao) Criar(ctx context.Context, dados DadosPublicacao) Resultado {
	if dados.Autor == "" || dados.Titulo == "" || dados.Conteudo == "" || len(dados.Esportes) == 0 {
		return falha("Todos os campos (autor, titulo, conteudo, esportes) são obrigatórios e esportes deve ter pelo menos um item.")
	}

	dataCriacao := time.Now().UTC().Format(time.RFC3339)
	pub, err := modelo.NovaPublicacao("", dados.Autor, dados.Titulo, dados.Conteudo, dataCriacao, dados.Esportes)
	if err != nil {
		return normalizar(err)
	}

	uid, err := c.publicacoes.Criar(ctx, pub)
	if err != nil {
		return normalizar(err)
	}

	c.invalidarCache(ctx)
	return sucesso("Publicação criada com sucesso.", PublicacaoSaida{UID: uid, RegistroPublicacao: pub.ParaRegistro()})
}

// Editar sobrescreve uma publicação existente preservando a data de
// criação original.
func (c *ControlePublicacao) Editar(ctx context.Context, uid string, dados DadosPublicacao) Resultado {
	if uid == "" {
		return falha("UID da publicação é obrigatório para edição.")
	}
	if dados.Autor == "" || dados.Titulo == "" || dados.Conteudo == "" || len(dados.Esportes) == 0 {
		return falha("Dados de edição (autor, titulo, conteudo, esportes) são obrigatórios e esportes deve ter pelo menos um item.")
	}

	// Qualquer data parseável serve aqui: o DAO relê a existente e a
	// preserva na gravação.
	rascunho, err := modelo.NovaPublicacao(uid, dados.Autor, dados.Titulo, dados.Conteudo, time.Now().UTC().Format(time.RFC3339), dados.Esportes)
	if err != nil {
		return normalizar(err)
	}

	editada, err := c.publicacoes.Editar(ctx, uid, rascunho)
	if err != nil {
		if errors.Is(err, dao.ErrNaoEncontrado) {
			return falha("Publicação não encontrada para edição.")
		}
		return normalizar(err)
	}

	c.invalidarCache(ctx)
	return sucesso("Publicação editada com sucesso.", PublicacaoSaida{UID: uid, RegistroPublicacao: editada.ParaRegistro()})
}

// Excluir apaga uma publicação existente.
func (c *ControlePublicacao) Excluir(ctx context.Context, uid string) Resultado {
	if uid == "" {
		return falha("UID da publicação é obrigatório para exclusão.")
	}

	if _, err := c.publicacoes.BuscarPorUID(ctx, uid); err != nil {
		if errors.Is(err, dao.ErrNaoEncontrado) {
			return falha("Publicação não encontrada para exclusão.")
		}
		return normalizar(err)
	}

	if err := c.publicacoes.Excluir(ctx, uid); err != nil {
		return normalizar(err)
	}

	c.invalidarCache(ctx)
	return sucesso("Publicação excluída com sucesso.", nil)
}

// ListarTodas devolve o feed completo, mais recentes primeiro.
func (c *ControlePublicacao) ListarTodas(ctx context.Context) Resultado {
	if saida, ok := c.lerCache(ctx); ok {
		return sucesso("Todas as publicações obtidas com sucesso.", saida)
	}

	lista, err := c.publicacoes.BuscarTodas(ctx)
	if err != nil {
		return normalizar(err)
	}

	saida := paraSaida(lista)
	c.gravarCache(ctx, saida)
	return sucesso("Todas as publicações obtidas com sucesso.", saida)
}

// ListarPorEsporte devolve o feed filtrado pela etiqueta, mais recentes
// primeiro.
func (c *ControlePublicacao) ListarPorEsporte(ctx context.Context, esporte string) Resultado {
	if esporte == "" {
		return falha("Esporte é obrigatório para listar publicações.")
	}

	lista, err := c.publicacoes.BuscarPorEsporte(ctx, esporte)
	if err != nil {
		return normalizar(err)
	}
	return sucesso("Publicações por esporte obtidas com sucesso.", paraSaida(lista))
}

// BuscarPorUID devolve uma publicação específica.
func (c *ControlePublicacao) BuscarPorUID(ctx context.Context, uid string) Resultado {
	if uid == "" {
		return falha("UID da publicação é obrigatório para busca.")
	}

	p, err := c.publicacoes.BuscarPorUID(ctx, uid)
	if err != nil {
		if errors.Is(err, dao.ErrNaoEncontrado) {
			return falha("Publicação não encontrada.")
		}
		return normalizar(err)
	}
	return sucesso("Publicação encontrada.", PublicacaoSaida{UID: p.UID, RegistroPublicacao: p.ParaRegistro()})
}

func paraSaida(lista []modelo.Publicacao) []PublicacaoSaida {
	saida := make([]PublicacaoSaida, 0, len(lista))
	for _, p := range lista {
		saida = append(saida, PublicacaoSaida{UID: p.UID, RegistroPublicacao: p.ParaRegistro()})
	}
	return saida
}

func (c *ControlePublicacao) lerCache(ctx context.Context) ([]PublicacaoSaida, bool) {
	if c.cache == nil {
		return nil, false
	}
	corpo, err := c.cache.Get(ctx, chaveCacheFeed).Bytes()
	if err != nil {
		return nil, false
	}
	var saida []PublicacaoSaida
	if json.Unmarshal(corpo, &saida) != nil {
		return nil, false
	}
	return saida, true
}

func (c *ControlePublicacao) gravarCache(ctx context.Context, saida []PublicacaoSaida) {
	if c.cache == nil {
		return
	}
	if corpo, err := json.Marshal(saida); err == nil {
		c.cache.Set(ctx, chaveCacheFeed, corpo, ttlCacheFeed)
	}
}

func (c *ControlePublicacao) invalidarCache(ctx context.Context) {
	if c.cache != nil {
		c.cache.Del(ctx, chaveCacheFeed)
	}
}

package dao

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/escolalivre/comunidade/internal/modelo"
	"github.com/escolalivre/comunidade/internal/registro"
)

const caminhoPublicacoes = "publicacoes"

// DaoPublicacao acessa os registros de `publicacoes/{uid}`.
type DaoPublicacao struct {
	store registro.Store
}

func NovoDaoPublicacao(store registro.Store) *DaoPublicacao {
	return &DaoPublicacao{store: store}
}

// Criar valida e acrescenta a publicação sob `publicacoes`, deixando o
// armazém gerar a chave. Devolve a chave gerada.
func (d *DaoPublicacao) Criar(ctx context.Context, p modelo.Publicacao) (string, error) {
	if err := p.Validar(); err != nil {
		return "", err
	}
	return d.store.Acrescentar(ctx, caminhoPublicacoes, p.ParaRegistro())
}

// Editar sobrescreve integralmente o corpo da publicação (sem merge
// profundo, para não vazar campos velhos), mas preserva a data de
// criação original relendo o registro existente antes.
func (d *DaoPublicacao) Editar(ctx context.Context, uid string, p modelo.Publicacao) (modelo.Publicacao, error) {
	existente, err := d.BuscarPorUID(ctx, uid)
	if err != nil {
		return modelo.Publicacao{}, err
	}

	preservada, err := modelo.NovaPublicacao(uid, p.Autor, p.Titulo, p.Conteudo, existente.DataCriacao, p.Esportes)
	if err != nil {
		return modelo.Publicacao{}, err
	}

	if err := d.store.Gravar(ctx, caminhoPublicacoes+"/"+uid, preservada.ParaRegistro()); err != nil {
		return modelo.Publicacao{}, err
	}
	return preservada, nil
}

// Excluir apaga a publicação.
func (d *DaoPublicacao) Excluir(ctx context.Context, uid string) error {
	if uid == "" {
		return modelo.NovoErroValidacao("uid inválido: deve ser string não vazia")
	}
	return d.store.Remover(ctx, caminhoPublicacoes+"/"+uid)
}

// BuscarPorUID carrega e valida a publicação; ErrNaoEncontrado quando o
// caminho está ausente.
func (d *DaoPublicacao) BuscarPorUID(ctx context.Context, uid string) (modelo.Publicacao, error) {
	if uid == "" {
		return modelo.Publicacao{}, modelo.NovoErroValidacao("uid inválido: deve ser string não vazia")
	}

	snap, err := d.store.Obter(ctx, caminhoPublicacoes+"/"+uid)
	if errors.Is(err, registro.ErrAusente) {
		return modelo.Publicacao{}, fmt.Errorf("publicação %s: %w", uid, ErrNaoEncontrado)
	}
	if err != nil {
		return modelo.Publicacao{}, err
	}

	var reg modelo.RegistroPublicacao
	if err := snap.Decodificar(&reg); err != nil {
		return modelo.Publicacao{}, modelo.NovoErroValidacao("registro de publicação malformado em %s", uid)
	}
	return modelo.PublicacaoDeRegistro(uid, reg)
}

// BuscarTodas lista todas as publicações, mais recentes primeiro.
// Registros inválidos são pulados com aviso no log.
func (d *DaoPublicacao) BuscarTodas(ctx context.Context) ([]modelo.Publicacao, error) {
	snap, err := d.store.Obter(ctx, caminhoPublicacoes)
	if errors.Is(err, registro.ErrAusente) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var regs map[string]modelo.RegistroPublicacao
	if err := snap.Decodificar(&regs); err != nil {
		return nil, modelo.NovoErroValidacao("coleção de publicações malformada")
	}

	lista := make([]modelo.Publicacao, 0, len(regs))
	for uid, reg := range regs {
		p, err := modelo.PublicacaoDeRegistro(uid, reg)
		if err != nil {
			log.Warn().Str("uid", uid).Err(err).Msg("publicação inválida ignorada na listagem")
			continue
		}
		lista = append(lista, p)
	}

	sort.Slice(lista, func(i, j int) bool {
		return lista[i].Instante().After(lista[j].Instante())
	})
	return lista, nil
}

// BuscarPorEsporte lê todas as publicações e filtra no cliente pela
// etiqueta. O armazém não oferece consulta indexada por esporte.
func (d *DaoPublicacao) BuscarPorEsporte(ctx context.Context, esporte string) ([]modelo.Publicacao, error) {
	if !modelo.EsporteValido(esporte) {
		return nil, modelo.NovoErroValidacao("esporte inválido: %s", esporte)
	}

	todas, err := d.BuscarTodas(ctx)
	if err != nil {
		return nil, err
	}

	var filtradas []modelo.Publicacao
	for _, p := range todas {
		if p.Etiquetada(esporte) {
			filtradas = append(filtradas, p)
		}
	}
	return filtradas, nil
}

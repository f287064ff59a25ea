package dao

import (
	"context"
	"errors"
	"fmt"

	"github.com/escolalivre/comunidade/internal/modelo"
	"github.com/escolalivre/comunidade/internal/registro"
)

const caminhoEsportes = "esportes"

// DaoEsportes acessa o catálogo único gravado no caminho `esportes`.
type DaoEsportes struct {
	store registro.Store
}

func NovoDaoEsportes(store registro.Store) *DaoEsportes {
	return &DaoEsportes{store: store}
}

// Obter carrega e valida o catálogo; ErrNaoEncontrado quando o nó ainda
// não foi semeado.
func (d *DaoEsportes) Obter(ctx context.Context) (modelo.CatalogoEsportes, error) {
	snap, err := d.store.Obter(ctx, caminhoEsportes)
	if errors.Is(err, registro.ErrAusente) {
		return modelo.CatalogoEsportes{}, fmt.Errorf("catálogo de esportes: %w", ErrNaoEncontrado)
	}
	if err != nil {
		return modelo.CatalogoEsportes{}, err
	}

	var reg modelo.RegistroEsportes
	if err := snap.Decodificar(&reg); err != nil {
		return modelo.CatalogoEsportes{}, modelo.NovoErroValidacao("registro de esportes malformado")
	}
	return modelo.CatalogoDeRegistro(reg)
}

// Gravar sobrescreve o catálogo completo.
func (d *DaoEsportes) Gravar(ctx context.Context, c modelo.CatalogoEsportes) error {
	return d.store.Gravar(ctx, caminhoEsportes, c.ParaRegistro())
}

// Atualizar mescla apenas as flags informadas no catálogo persistido.
func (d *DaoEsportes) Atualizar(ctx context.Context, flags map[string]bool) error {
	campos := make(map[string]any, len(flags))
	for nome, ativo := range flags {
		if !modelo.EsporteValido(nome) {
			return modelo.NovoErroValidacao("esporte inválido: %s", nome)
		}
		campos[nome] = ativo
	}
	return d.store.Mesclar(ctx, caminhoEsportes, campos)
}

// Remover apaga o nó do catálogo.
func (d *DaoEsportes) Remover(ctx context.Context) error {
	return d.store.Remover(ctx, caminhoEsportes)
}

// Semear grava o catálogo padrão caso o nó ainda não exista. Usada na
// subida do processo com o armazém em memória.
func (d *DaoEsportes) Semear(ctx context.Context) error {
	_, err := d.Obter(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNaoEncontrado) {
		return err
	}
	return d.Gravar(ctx, modelo.NovoCatalogoPadrao())
}

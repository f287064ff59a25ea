// Package dao mapeia cada tipo de entidade para seus caminhos no armazém
// de registros. Os DAOs validam antes de toda gravação e traduzem
// ausência de caminho em ErrNaoEncontrado; falhas de transporte passam
// adiante como *registro.ErroStore. Nenhum componente fora deste pacote
// toca caminhos do armazém.
package dao

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/escolalivre/comunidade/internal/modelo"
	"github.com/escolalivre/comunidade/internal/registro"
)

const caminhoUsuarios = "usuarios"

// DaoUsuario acessa os registros de `usuarios/{uid}`.
type DaoUsuario struct {
	store registro.Store
}

func NovoDaoUsuario(store registro.Store) *DaoUsuario {
	return &DaoUsuario{store: store}
}

// ObterPorUID carrega e valida o usuário; ErrNaoEncontrado quando o
// caminho está ausente. Nunca devolve entidade parcial.
func (d *DaoUsuario) ObterPorUID(ctx context.Context, uid string) (modelo.Usuario, error) {
	if uid == "" {
		return modelo.Usuario{}, modelo.NovoErroValidacao("uid inválido: deve ser string não vazia")
	}

	snap, err := d.store.Obter(ctx, caminhoUsuarios+"/"+uid)
	if errors.Is(err, registro.ErrAusente) {
		return modelo.Usuario{}, fmt.Errorf("usuário %s: %w", uid, ErrNaoEncontrado)
	}
	if err != nil {
		return modelo.Usuario{}, err
	}

	var reg modelo.RegistroUsuario
	if err := snap.Decodificar(&reg); err != nil {
		return modelo.Usuario{}, modelo.NovoErroValidacao("registro de usuário malformado em %s", uid)
	}
	return modelo.UsuarioDeRegistro(uid, reg)
}

// ObterTodos lista todos os usuários. Registros inválidos são pulados
// com aviso no log, como fazia o app original.
func (d *DaoUsuario) ObterTodos(ctx context.Context) ([]modelo.Usuario, error) {
	snap, err := d.store.Obter(ctx, caminhoUsuarios)
	if errors.Is(err, registro.ErrAusente) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var regs map[string]modelo.RegistroUsuario
	if err := snap.Decodificar(&regs); err != nil {
		return nil, modelo.NovoErroValidacao("coleção de usuários malformada")
	}

	lista := make([]modelo.Usuario, 0, len(regs))
	for uid, reg := range regs {
		u, err := modelo.UsuarioDeRegistro(uid, reg)
		if err != nil {
			log.Warn().Str("uid", uid).Err(err).Msg("usuário inválido ignorado na listagem")
			continue
		}
		lista = append(lista, u)
	}
	return lista, nil
}

// Criar grava o usuário em `usuarios/{uid}` e devolve o UID, que aqui é
// a própria chave da identidade (não há chave gerada pelo armazém).
func (d *DaoUsuario) Criar(ctx context.Context, u modelo.Usuario) (string, error) {
	if err := u.Validar(); err != nil {
		return "", err
	}
	if err := d.store.Gravar(ctx, caminhoUsuarios+"/"+u.UID, u.ParaRegistro()); err != nil {
		return "", err
	}
	return u.UID, nil
}

// Atualizar sobrescreve integralmente o registro do usuário.
func (d *DaoUsuario) Atualizar(ctx context.Context, uid string, u modelo.Usuario) error {
	if uid == "" {
		return modelo.NovoErroValidacao("uid inválido: deve ser string não vazia")
	}
	if err := u.Validar(); err != nil {
		return err
	}
	return d.store.Gravar(ctx, caminhoUsuarios+"/"+uid, u.ParaRegistro())
}

// Remover apaga o registro do usuário.
func (d *DaoUsuario) Remover(ctx context.Context, uid string) error {
	if uid == "" {
		return modelo.NovoErroValidacao("uid inválido: deve ser string não vazia")
	}
	return d.store.Remover(ctx, caminhoUsuarios+"/"+uid)
}

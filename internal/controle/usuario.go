package controle

import (
	"context"
	"errors"
	"fmt"

	"github.com/escolalivre/comunidade/internal/dao"
	"github.com/escolalivre/comunidade/internal/modelo"
)

// DadosUsuario é a forma de entrada das operações de usuário.
type DadosUsuario struct {
	UID      string   `json:"uid"`
	Nome     string   `json:"nome"`
	Email    string   `json:"email"`
	Tipo     string   `json:"tipo"`
	Esportes []string `json:"esportes"`
}

// ControleUsuario orquestra o cadastro de usuários.
type ControleUsuario struct {
	usuarios *dao.DaoUsuario
}

func NovoControleUsuario(usuarios *dao.DaoUsuario) *ControleUsuario {
	return &ControleUsuario{usuarios: usuarios}
}

// Criar valida a forma dos argumentos, recusa UID já ocupado e grava o
// novo usuário.
func (c *ControleUsuario) Criar(ctx context.Context, dados DadosUsuario) Resultado {
	if dados.UID == "" || dados.Nome == "" || dados.Email == "" || dados.Tipo == "" {
		return falha("Os campos 'uid', 'nome', 'email' e 'tipo' são obrigatórios.")
	}

	usuario, err := modelo.NovoUsuario(dados.UID, dados.Nome, dados.Email, modelo.Tipo(dados.Tipo), dados.Esportes)
	if err != nil {
		return normalizar(err)
	}

	_, err = c.usuarios.ObterPorUID(ctx, usuario.UID)
	if err == nil {
		return falha(fmt.Sprintf("Usuário com ID %s já existe.", usuario.UID))
	}
	if !errors.Is(err, dao.ErrNaoEncontrado) {
		return normalizar(err)
	}

	if _, err := c.usuarios.Criar(ctx, usuario); err != nil {
		return normalizar(err)
	}
	return sucesso("Usuário criado com sucesso.", usuario.ParaRegistro())
}

// Alterar sobrescreve um usuário existente.
func (c *ControleUsuario) Alterar(ctx context.Context, dados DadosUsuario) Resultado {
	if dados.UID == "" {
		return falha("UID do usuário é obrigatório para alteração.")
	}

	usuario, err := modelo.NovoUsuario(dados.UID, dados.Nome, dados.Email, modelo.Tipo(dados.Tipo), dados.Esportes)
	if err != nil {
		return normalizar(err)
	}

	if _, err := c.usuarios.ObterPorUID(ctx, usuario.UID); err != nil {
		if errors.Is(err, dao.ErrNaoEncontrado) {
			return falha(fmt.Sprintf("Usuário com ID %s não encontrado para alteração.", usuario.UID))
		}
		return normalizar(err)
	}

	if err := c.usuarios.Atualizar(ctx, usuario.UID, usuario); err != nil {
		return normalizar(err)
	}
	return sucesso("Usuário alterado com sucesso.", usuario.ParaRegistro())
}

// Remover apaga um usuário existente.
func (c *ControleUsuario) Remover(ctx context.Context, uid string) Resultado {
	if uid == "" {
		return falha("UID do usuário é obrigatório para remoção.")
	}

	if _, err := c.usuarios.ObterPorUID(ctx, uid); err != nil {
		if errors.Is(err, dao.ErrNaoEncontrado) {
			return falha(fmt.Sprintf("Usuário com ID %s não encontrado para remoção.", uid))
		}
		return normalizar(err)
	}

	if err := c.usuarios.Remover(ctx, uid); err != nil {
		return normalizar(err)
	}
	return sucesso("Usuário removido com sucesso.", nil)
}

// Listar devolve todos os usuários cadastrados.
func (c *ControleUsuario) Listar(ctx context.Context) Resultado {
	lista, err := c.usuarios.ObterTodos(ctx)
	if err != nil {
		return normalizar(err)
	}

	saida := make([]DadosUsuario, 0, len(lista))
	for _, u := range lista {
		saida = append(saida, DadosUsuario{
			UID:      u.UID,
			Nome:     u.Nome,
			Email:    u.Email,
			Tipo:     string(u.Tipo),
			Esportes: u.Esportes,
		})
	}
	return sucesso("Lista de usuários obtida com sucesso.", saida)
}

// BuscarPorUID devolve um usuário específico.
func (c *ControleUsuario) BuscarPorUID(ctx context.Context, uid string) Resultado {
	if uid == "" {
		return falha("UID do usuário é obrigatório para busca.")
	}

	u, err := c.usuarios.ObterPorUID(ctx, uid)
	if err != nil {
		if errors.Is(err, dao.ErrNaoEncontrado) {
			return falha(fmt.Sprintf("Usuário com ID %s não encontrado.", uid))
		}
		return normalizar(err)
	}
	return sucesso("Usuário encontrado.", DadosUsuario{
		UID:      u.UID,
		Nome:     u.Nome,
		Email:    u.Email,
		Tipo:     string(u.Tipo),
		Esportes: u.Esportes,
	})
}

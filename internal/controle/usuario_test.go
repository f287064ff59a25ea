package controle

import (
	"context"
	"testing"

	"github.com/escolalivre/comunidade/internal/dao"
	"github.com/escolalivre/comunidade/internal/registro"
)

func TestControleUsuarioCriar(t *testing.T) {
	c := NovoControleUsuario(dao.NovoDaoUsuario(registro.NovaMemoria()))
	ctx := context.Background()

	dados := DadosUsuario{UID: "uid-1", Nome: "Ana Souza", Email: "ana@example.com", Tipo: "aluno", Esportes: []string{"futsal"}}
	res := c.Criar(ctx, dados)
	if !res.OK {
		t.Fatalf("criação deveria ter sucesso: %q", res.Mensagem)
	}

	// UID ocupado é recusado com mensagem específica
	res = c.Criar(ctx, dados)
	if res.OK {
		t.Fatal("UID duplicado deveria falhar")
	}
	if res.Mensagem != "Usuário com ID uid-1 já existe." {
		t.Fatalf("mensagem errada: %q", res.Mensagem)
	}
}

func TestControleUsuarioCriarCamposObrigatorios(t *testing.T) {
	c := NovoControleUsuario(dao.NovoDaoUsuario(registro.NovaMemoria()))

	res := c.Criar(context.Background(), DadosUsuario{UID: "uid-1", Nome: "Ana"})
	if res.OK {
		t.Fatal("campos faltando deveriam falhar")
	}
	if res.Mensagem != "Os campos 'uid', 'nome', 'email' e 'tipo' são obrigatórios." {
		t.Fatalf("mensagem errada: %q", res.Mensagem)
	}
}

func TestControleUsuarioCriarInvalido(t *testing.T) {
	c := NovoControleUsuario(dao.NovoDaoUsuario(registro.NovaMemoria()))

	res := c.Criar(context.Background(), DadosUsuario{UID: "uid-1", Nome: "Jo", Email: "ana@example.com", Tipo: "aluno"})
	if res.OK {
		t.Fatal("nome curto deveria falhar")
	}
	if res.Mensagem == mensagemGenerica {
		t.Fatal("erro de validação deveria ter mensagem específica")
	}
}

func TestControleUsuarioAlterarERemover(t *testing.T) {
	c := NovoControleUsuario(dao.NovoDaoUsuario(registro.NovaMemoria()))
	ctx := context.Background()

	res := c.Alterar(ctx, DadosUsuario{UID: "fantasma", Nome: "Ana Souza", Email: "ana@example.com", Tipo: "aluno"})
	if res.OK || res.Mensagem != "Usuário com ID fantasma não encontrado para alteração." {
		t.Fatalf("alteração de ausente: %+v", res)
	}

	if res := c.Criar(ctx, DadosUsuario{UID: "uid-1", Nome: "Ana Souza", Email: "ana@example.com", Tipo: "aluno"}); !res.OK {
		t.Fatalf("Criar: %q", res.Mensagem)
	}

	res = c.Alterar(ctx, DadosUsuario{UID: "uid-1", Nome: "Ana Lima", Email: "ana@example.com", Tipo: "responsavel"})
	if !res.OK {
		t.Fatalf("Alterar: %q", res.Mensagem)
	}

	res = c.BuscarPorUID(ctx, "uid-1")
	if !res.OK {
		t.Fatalf("BuscarPorUID: %q", res.Mensagem)
	}
	dados, ok := res.Dados.(DadosUsuario)
	if !ok || dados.Nome != "Ana Lima" || dados.Tipo != "responsavel" {
		t.Fatalf("alteração não persistida: %+v", res.Dados)
	}

	if res := c.Remover(ctx, "uid-1"); !res.OK {
		t.Fatalf("Remover: %q", res.Mensagem)
	}
	if res := c.BuscarPorUID(ctx, "uid-1"); res.OK {
		t.Fatal("busca após remoção deveria falhar")
	}
}

func TestControleUsuarioListar(t *testing.T) {
	c := NovoControleUsuario(dao.NovoDaoUsuario(registro.NovaMemoria()))
	ctx := context.Background()

	res := c.Listar(ctx)
	if !res.OK {
		t.Fatalf("listagem vazia deveria ter sucesso: %q", res.Mensagem)
	}
	if lista, ok := res.Dados.([]DadosUsuario); !ok || len(lista) != 0 {
		t.Fatalf("lista vazia esperada: %+v", res.Dados)
	}

	c.Criar(ctx, DadosUsuario{UID: "uid-1", Nome: "Ana Souza", Email: "ana@example.com", Tipo: "aluno"})
	c.Criar(ctx, DadosUsuario{UID: "uid-2", Nome: "Bia Lima", Email: "bia@example.com", Tipo: "responsavel"})

	res = c.Listar(ctx)
	if !res.OK {
		t.Fatalf("Listar: %q", res.Mensagem)
	}
	if lista, ok := res.Dados.([]DadosUsuario); !ok || len(lista) != 2 {
		t.Fatalf("esperava 2 usuários: %+v", res.Dados)
	}
}

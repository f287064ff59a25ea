package controle

import (
	"context"
	"testing"

	"github.com/escolalivre/comunidade/internal/dao"
	"github.com/escolalivre/comunidade/internal/modelo"
	"github.com/escolalivre/comunidade/internal/registro"
)

func novoControleEsportesTeste(t *testing.T) (*ControleEsportes, registro.Store) {
	t.Helper()
	store := registro.NovaMemoria()
	esportes := dao.NovoDaoEsportes(store)
	if err := esportes.Semear(context.Background()); err != nil {
		t.Fatalf("Semear: %v", err)
	}
	return NovoControleEsportes(esportes, dao.NovoDaoAluno(store), dao.NovoDaoUsuario(store), nil), store
}

func criarContaCompleta(t *testing.T, store registro.Store, uid string) {
	t.Helper()
	ctx := context.Background()

	u, err := modelo.NovoUsuario(uid, "Ana Souza", uid+"@example.com", modelo.TipoAluno, nil)
	if err != nil {
		t.Fatalf("usuário: %v", err)
	}
	if _, err := dao.NovoDaoUsuario(store).Criar(ctx, u); err != nil {
		t.Fatalf("Criar usuário: %v", err)
	}
	p, err := modelo.NovoPerfilAluno(uid, "Ana Souza", nil, nil)
	if err != nil {
		t.Fatalf("perfil: %v", err)
	}
	if _, err := dao.NovoDaoAluno(store).Criar(ctx, p); err != nil {
		t.Fatalf("Criar perfil: %v", err)
	}
}

func TestControleEsportesListarAtivos(t *testing.T) {
	c, _ := novoControleEsportesTeste(t)

	res := c.ListarAtivos(context.Background())
	if !res.OK {
		t.Fatalf("ListarAtivos: %q", res.Mensagem)
	}
	ativos := res.Dados.([]string)
	if len(ativos) != len(modelo.EsportesValidos()) {
		t.Fatalf("catálogo padrão esperado: %v", ativos)
	}
}

func TestControleEsportesListarSemCatalogo(t *testing.T) {
	store := registro.NovaMemoria()
	c := NovoControleEsportes(dao.NovoDaoEsportes(store), dao.NovoDaoAluno(store), dao.NovoDaoUsuario(store), nil)

	res := c.ListarAtivos(context.Background())
	if res.OK || res.Mensagem != "Não há dados de esportes no banco." {
		t.Fatalf("catálogo ausente: %+v", res)
	}
}

func TestControleEsportesParticiparESair(t *testing.T) {
	c, store := novoControleEsportesTeste(t)
	ctx := context.Background()
	criarContaCompleta(t, store, "uid-1")

	res := c.Participar(ctx, "uid-1", "futsal")
	if !res.OK {
		t.Fatalf("Participar: %q", res.Mensagem)
	}
	if lista := res.Dados.([]string); len(lista) != 1 || lista[0] != "futsal" {
		t.Fatalf("lista errada: %v", res.Dados)
	}

	// repetição é sucesso sem efeito
	res = c.Participar(ctx, "uid-1", "futsal")
	if !res.OK || len(res.Dados.([]string)) != 1 {
		t.Fatalf("reinscrição: %+v", res)
	}

	res = c.Sair(ctx, "uid-1", "futsal")
	if !res.OK || len(res.Dados.([]string)) != 0 {
		t.Fatalf("Sair: %+v", res)
	}

	res = c.ListarDoUsuario(ctx, "uid-1")
	if !res.OK || len(res.Dados.([]string)) != 0 {
		t.Fatalf("ListarDoUsuario: %+v", res)
	}
}

func TestControleEsportesUsuarioInexistente(t *testing.T) {
	c, _ := novoControleEsportesTeste(t)

	res := c.Participar(context.Background(), "fantasma", "futsal")
	if res.OK || res.Mensagem != "Usuário com ID fantasma não encontrado." {
		t.Fatalf("usuário inexistente: %+v", res)
	}
}

func TestControleEsportesContaInconsistente(t *testing.T) {
	c, store := novoControleEsportesTeste(t)
	ctx := context.Background()

	// usuário existe, perfil de aluno não
	u, err := modelo.NovoUsuario("uid-1", "Ana Souza", "ana@example.com", modelo.TipoAluno, nil)
	if err != nil {
		t.Fatalf("usuário: %v", err)
	}
	if _, err := dao.NovoDaoUsuario(store).Criar(ctx, u); err != nil {
		t.Fatalf("Criar: %v", err)
	}

	res := c.Participar(ctx, "uid-1", "futsal")
	if res.OK {
		t.Fatal("conta inconsistente deveria falhar")
	}
	if res.Mensagem != "Conta sem perfil de aluno vinculado. Entre novamente para reparar." {
		t.Fatalf("mensagem errada: %q", res.Mensagem)
	}
}

func TestControleEsportesEsporteInvalido(t *testing.T) {
	c, store := novoControleEsportesTeste(t)
	criarContaCompleta(t, store, "uid-1")

	res := c.Participar(context.Background(), "uid-1", "xadrez")
	if res.OK {
		t.Fatal("esporte fora do catálogo deveria falhar")
	}
}

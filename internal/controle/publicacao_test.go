package controle

import (
	"context"
	"testing"
	"time"

	"github.com/escolalivre/comunidade/internal/dao"
	"github.com/escolalivre/comunidade/internal/registro"
)

func TestControlePublicacaoCriar(t *testing.T) {
	c := NovoControlePublicacao(dao.NovoDaoPublicacao(registro.NovaMemoria()), nil)
	ctx := context.Background()

	res := c.Criar(ctx, DadosPublicacao{Autor: "Ana Souza", Titulo: "Treino", Conteudo: "Conteúdo do treino", Esportes: []string{"futsal"}})
	if !res.OK {
		t.Fatalf("criação deveria ter sucesso: %q", res.Mensagem)
	}
	saida, ok := res.Dados.(PublicacaoSaida)
	if !ok || saida.UID == "" {
		t.Fatalf("saída deveria trazer a chave gerada: %+v", res.Dados)
	}
	if _, err := time.Parse(time.RFC3339, saida.DataCriacao); err != nil {
		t.Fatalf("data de criação fora do formato: %q", saida.DataCriacao)
	}
}

func TestControlePublicacaoCriarCamposObrigatorios(t *testing.T) {
	c := NovoControlePublicacao(dao.NovoDaoPublicacao(registro.NovaMemoria()), nil)

	res := c.Criar(context.Background(), DadosPublicacao{Autor: "Ana", Titulo: "Treino", Conteudo: "Conteúdo"})
	if res.OK {
		t.Fatal("esportes vazio deveria falhar")
	}
}

func TestControlePublicacaoEditarPreservaData(t *testing.T) {
	c := NovoControlePublicacao(dao.NovoDaoPublicacao(registro.NovaMemoria()), nil)
	ctx := context.Background()

	res := c.Criar(ctx, DadosPublicacao{Autor: "Ana Souza", Titulo: "Treino", Conteudo: "Conteúdo do treino", Esportes: []string{"futsal"}})
	if !res.OK {
		t.Fatalf("Criar: %q", res.Mensagem)
	}
	criada := res.Dados.(PublicacaoSaida)

	res = c.Editar(ctx, criada.UID, DadosPublicacao{Autor: "Ana Souza", Titulo: "Treino remarcado", Conteudo: "Novo conteúdo", Esportes: []string{"futsal", "volei"}})
	if !res.OK {
		t.Fatalf("Editar: %q", res.Mensagem)
	}
	editada := res.Dados.(PublicacaoSaida)
	if editada.DataCriacao != criada.DataCriacao {
		t.Fatalf("data de criação deveria ser preservada: %q vs %q", editada.DataCriacao, criada.DataCriacao)
	}
	if editada.Titulo != "Treino remarcado" {
		t.Fatalf("edição não aplicada: %+v", editada)
	}

	res = c.Editar(ctx, "fantasma", DadosPublicacao{Autor: "Ana Souza", Titulo: "Treino", Conteudo: "Conteúdo", Esportes: []string{"futsal"}})
	if res.OK || res.Mensagem != "Publicação não encontrada para edição." {
		t.Fatalf("edição de ausente: %+v", res)
	}
}

func TestControlePublicacaoExcluir(t *testing.T) {
	c := NovoControlePublicacao(dao.NovoDaoPublicacao(registro.NovaMemoria()), nil)
	ctx := context.Background()

	res := c.Criar(ctx, DadosPublicacao{Autor: "Ana Souza", Titulo: "Treino", Conteudo: "Conteúdo do treino", Esportes: []string{"futsal"}})
	if !res.OK {
		t.Fatalf("Criar: %q", res.Mensagem)
	}
	uid := res.Dados.(PublicacaoSaida).UID

	if res := c.Excluir(ctx, uid); !res.OK {
		t.Fatalf("Excluir: %q", res.Mensagem)
	}
	res = c.Excluir(ctx, uid)
	if res.OK || res.Mensagem != "Publicação não encontrada para exclusão." {
		t.Fatalf("exclusão repetida: %+v", res)
	}
}

func TestControlePublicacaoListarPorEsporte(t *testing.T) {
	c := NovoControlePublicacao(dao.NovoDaoPublicacao(registro.NovaMemoria()), nil)
	ctx := context.Background()

	c.Criar(ctx, DadosPublicacao{Autor: "Ana Souza", Titulo: "Só futsal", Conteudo: "Conteúdo", Esportes: []string{"futsal"}})
	c.Criar(ctx, DadosPublicacao{Autor: "Ana Souza", Titulo: "Só volei", Conteudo: "Conteúdo", Esportes: []string{"volei"}})

	res := c.ListarPorEsporte(ctx, "futsal")
	if !res.OK {
		t.Fatalf("ListarPorEsporte: %q", res.Mensagem)
	}
	lista := res.Dados.([]PublicacaoSaida)
	if len(lista) != 1 || lista[0].Titulo != "Só futsal" {
		t.Fatalf("filtro errado: %+v", lista)
	}

	if res := c.ListarPorEsporte(ctx, ""); res.OK {
		t.Fatal("esporte vazio deveria falhar")
	}
	if res := c.ListarPorEsporte(ctx, "xadrez"); res.OK {
		t.Fatal("esporte fora do catálogo deveria falhar")
	}
}

func TestControlePublicacaoListarTodas(t *testing.T) {
	c := NovoControlePublicacao(dao.NovoDaoPublicacao(registro.NovaMemoria()), nil)
	ctx := context.Background()

	res := c.ListarTodas(ctx)
	if !res.OK {
		t.Fatalf("feed vazio deveria ter sucesso: %q", res.Mensagem)
	}
	if lista := res.Dados.([]PublicacaoSaida); len(lista) != 0 {
		t.Fatalf("feed vazio esperado: %+v", lista)
	}

	c.Criar(ctx, DadosPublicacao{Autor: "Ana Souza", Titulo: "Primeira", Conteudo: "Conteúdo", Esportes: []string{"geral"}})
	res = c.ListarTodas(ctx)
	if !res.OK || len(res.Dados.([]PublicacaoSaida)) != 1 {
		t.Fatalf("feed com 1 publicação esperado: %+v", res)
	}
}

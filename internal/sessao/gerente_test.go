package sessao

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/escolalivre/comunidade/internal/dao"
	"github.com/escolalivre/comunidade/internal/identidade"
	"github.com/escolalivre/comunidade/internal/modelo"
	"github.com/escolalivre/comunidade/internal/registro"
)

func novoGerenteTeste(store registro.Store) (*Gerente, *identidade.ProviderLocal) {
	provider := identidade.NovoProviderLocal(store)
	return NovoGerente(provider, dao.NovoDaoUsuario(store), dao.NovoDaoAluno(store)), provider
}

func esperar(t *testing.T, cond func() bool) {
	t.Helper()
	prazo := time.Now().Add(2 * time.Second)
	for time.Now().Before(prazo) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condição não alcançada no prazo")
}

func identTeste(uid string) identidade.Identidade {
	return identidade.Identidade{
		UID:             uid,
		Email:           "ana@example.com",
		Nome:            "Ana Souza",
		EmailVerificado: true,
	}
}

func TestGerenteConectarPrimeiroAcesso(t *testing.T) {
	store := registro.NovaMemoria()
	g, _ := novoGerenteTeste(store)
	ctx := context.Background()

	visao, err := g.Conectar(ctx, identTeste("uid-1"))
	if err != nil {
		t.Fatalf("Conectar: %v", err)
	}
	if visao.Tipo != modelo.TipoAluno {
		t.Fatalf("conta padrão deveria ser aluno, obteve %q", visao.Tipo)
	}
	if len(visao.Esportes) != 0 || len(visao.MeusEsportes) != 0 {
		t.Fatalf("conta padrão deveria nascer sem esportes: %+v", visao)
	}

	// os dois registros devem existir no armazém
	usuarios := dao.NovoDaoUsuario(store)
	if _, err := usuarios.ObterPorUID(ctx, "uid-1"); err != nil {
		t.Fatalf("registro de usuário ausente: %v", err)
	}
	alunos := dao.NovoDaoAluno(store)
	if _, err := alunos.ObterPorUID(ctx, "uid-1"); err != nil {
		t.Fatalf("registro de aluno ausente: %v", err)
	}

	estado, atual := g.Atual()
	if estado != Pronto || atual == nil || atual.UID != "uid-1" {
		t.Fatalf("estado final errado: %v %+v", estado, atual)
	}
}

func TestGerenteConectarSemNome(t *testing.T) {
	g, _ := novoGerenteTeste(registro.NovaMemoria())

	ident := identTeste("uid-1")
	ident.Nome = "   "
	visao, err := g.Conectar(context.Background(), ident)
	if err != nil {
		t.Fatalf("Conectar: %v", err)
	}
	if visao.Nome != nomePadrao {
		t.Fatalf("nome ausente deveria cair no padrão, obteve %q", visao.Nome)
	}
}

func TestGerenteRecriaPerfilAusente(t *testing.T) {
	store := registro.NovaMemoria()
	g, _ := novoGerenteTeste(store)
	ctx := context.Background()

	// conta com usuário gravado mas perfil perdido (falha parcial antiga)
	u, err := modelo.NovoUsuario("uid-1", "Ana Souza", "ana@example.com", modelo.TipoAluno, []string{"futsal"})
	if err != nil {
		t.Fatalf("usuário: %v", err)
	}
	if _, err := dao.NovoDaoUsuario(store).Criar(ctx, u); err != nil {
		t.Fatalf("Criar: %v", err)
	}

	visao, err := g.Conectar(ctx, identTeste("uid-1"))
	if err != nil {
		t.Fatalf("Conectar deveria reparar o perfil: %v", err)
	}
	if _, err := dao.NovoDaoAluno(store).ObterPorUID(ctx, "uid-1"); err != nil {
		t.Fatalf("perfil deveria ter sido recriado: %v", err)
	}
	// o usuário existente não é sobrescrito pelo reparo
	if len(visao.Esportes) != 1 || visao.Esportes[0] != "futsal" {
		t.Fatalf("esportes do usuário deveriam sobreviver: %v", visao.Esportes)
	}
}

func TestGerenteResponsavelSemPerfil(t *testing.T) {
	store := registro.NovaMemoria()
	g, _ := novoGerenteTeste(store)
	ctx := context.Background()

	u, err := modelo.NovoUsuario("uid-1", "Ana Souza", "ana@example.com", modelo.TipoResponsavel, nil)
	if err != nil {
		t.Fatalf("usuário: %v", err)
	}
	if _, err := dao.NovoDaoUsuario(store).Criar(ctx, u); err != nil {
		t.Fatalf("Criar: %v", err)
	}

	visao, err := g.Conectar(ctx, identTeste("uid-1"))
	if err != nil {
		t.Fatalf("Conectar: %v", err)
	}
	if visao.Tipo != modelo.TipoResponsavel {
		t.Fatalf("tipo errado: %q", visao.Tipo)
	}
	if visao.MeusEsportes != nil {
		t.Fatalf("responsável não tem lista de participação: %v", visao.MeusEsportes)
	}
	// nenhum perfil deve ser criado para responsável
	if _, err := dao.NovoDaoAluno(store).ObterPorUID(ctx, "uid-1"); !errors.Is(err, dao.ErrNaoEncontrado) {
		t.Fatalf("perfil não deveria existir: %v", err)
	}
}

func TestGerenteFundirCamadas(t *testing.T) {
	store := registro.NovaMemoria()
	g, _ := novoGerenteTeste(store)
	ctx := context.Background()

	u, err := modelo.NovoUsuario("uid-1", "Nome do Usuário", "conta@example.com", modelo.TipoAluno, []string{"geral"})
	if err != nil {
		t.Fatalf("usuário: %v", err)
	}
	if _, err := dao.NovoDaoUsuario(store).Criar(ctx, u); err != nil {
		t.Fatalf("Criar usuário: %v", err)
	}
	foto := "https://cdn.example.com/perfil.png"
	p, err := modelo.NovoPerfilAluno("uid-1", "Nome do Perfil", &foto, []string{"futsal", "volei"})
	if err != nil {
		t.Fatalf("perfil: %v", err)
	}
	if _, err := dao.NovoDaoAluno(store).Criar(ctx, p); err != nil {
		t.Fatalf("Criar perfil: %v", err)
	}

	visao, err := g.Conectar(ctx, identTeste("uid-1"))
	if err != nil {
		t.Fatalf("Conectar: %v", err)
	}
	if visao.Nome != "Nome do Perfil" {
		t.Fatalf("nome do perfil deveria vencer, obteve %q", visao.Nome)
	}
	if visao.Email != "conta@example.com" {
		t.Fatalf("email do usuário deveria vencer, obteve %q", visao.Email)
	}
	if visao.Foto != foto {
		t.Fatalf("foto do perfil deveria vencer, obteve %q", visao.Foto)
	}
	if len(visao.MeusEsportes) != 2 {
		t.Fatalf("MeusEsportes deveria vir do perfil: %v", visao.MeusEsportes)
	}
	if len(visao.Esportes) != 1 || visao.Esportes[0] != "geral" {
		t.Fatalf("Esportes deveria vir do usuário: %v", visao.Esportes)
	}
}

func TestGerenteDesconectar(t *testing.T) {
	g, _ := novoGerenteTeste(registro.NovaMemoria())
	ctx := context.Background()

	if _, err := g.Conectar(ctx, identTeste("uid-1")); err != nil {
		t.Fatalf("Conectar: %v", err)
	}

	g.Desconectar()
	estado, visao := g.Atual()
	if estado != Desconectado || visao != nil {
		t.Fatalf("desconexão deveria limpar a visão: %v %+v", estado, visao)
	}
}

func TestGerenteAtualizar(t *testing.T) {
	store := registro.NovaMemoria()
	g, provider := novoGerenteTeste(store)
	ctx := context.Background()

	// sem identidade presente, Atualizar devolve false
	if g.Atualizar(ctx) {
		t.Fatal("sem identidade, Atualizar deveria devolver false")
	}

	if _, err := provider.Registrar(ctx, "ana@example.com", "segredo", "Ana Souza"); err != nil {
		t.Fatalf("Registrar: %v", err)
	}
	if !g.Atualizar(ctx) {
		t.Fatal("com identidade presente, Atualizar deveria ter sucesso")
	}
	estado, visao := g.Atual()
	if estado != Pronto || visao == nil {
		t.Fatalf("estado após Atualizar: %v %+v", estado, visao)
	}
}

func TestGerenteIniciarProcessaEventos(t *testing.T) {
	store := registro.NovaMemoria()
	g, provider := novoGerenteTeste(store)
	ctx := context.Background()

	g.Iniciar(ctx)
	defer g.Encerrar()

	ident, err := provider.Registrar(ctx, "ana@example.com", "segredo", "Ana Souza")
	if err != nil {
		t.Fatalf("Registrar: %v", err)
	}

	// o bootstrap roda em goroutine; espera pelo estado Pronto
	esperar(t, func() bool {
		estado, visao := g.Atual()
		return estado == Pronto && visao != nil && visao.UID == ident.UID
	})

	if err := provider.Sair(ctx); err != nil {
		t.Fatalf("Sair: %v", err)
	}
	esperar(t, func() bool {
		estado, _ := g.Atual()
		return estado == Desconectado
	})
}

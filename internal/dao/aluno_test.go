package dao

import (
	"context"
	"errors"
	"testing"

	"github.com/escolalivre/comunidade/internal/modelo"
	"github.com/escolalivre/comunidade/internal/registro"
)

// storeConflitante injeta conflitos de revisão nas primeiras gravações
// condicionais, simulando escritor concorrente.
type storeConflitante struct {
	registro.Store
	conflitos int
	chamadas  int
}

func (s *storeConflitante) GravarSeRev(ctx context.Context, caminho string, valor any, rev string) error {
	s.chamadas++
	if s.chamadas <= s.conflitos {
		return registro.ErrConflito
	}
	return s.Store.GravarSeRev(ctx, caminho, valor, rev)
}

func novoPerfilTeste(t *testing.T, uid string, esportes []string) modelo.PerfilAluno {
	t.Helper()
	p, err := modelo.NovoPerfilAluno(uid, "Ana Souza", nil, esportes)
	if err != nil {
		t.Fatalf("perfil de teste: %v", err)
	}
	return p
}

func TestDaoAlunoCriarIdempotente(t *testing.T) {
	d := NovoDaoAluno(registro.NovaMemoria())
	ctx := context.Background()

	p := novoPerfilTeste(t, "uid-1", []string{"futsal"})
	if _, err := d.Criar(ctx, p); err != nil {
		t.Fatalf("Criar: %v", err)
	}
	// recriar o mesmo perfil é seguro
	if _, err := d.Criar(ctx, p); err != nil {
		t.Fatalf("recriação deveria ser aceita: %v", err)
	}

	lido, err := d.ObterPorUID(ctx, "uid-1")
	if err != nil {
		t.Fatalf("ObterPorUID: %v", err)
	}
	if len(lido.Esportes) != 1 || lido.Esportes[0] != "futsal" {
		t.Fatalf("esportes alterados: %v", lido.Esportes)
	}
}

func TestDaoAlunoParticiparEsporte(t *testing.T) {
	d := NovoDaoAluno(registro.NovaMemoria())
	ctx := context.Background()

	if _, err := d.Criar(ctx, novoPerfilTeste(t, "uid-1", nil)); err != nil {
		t.Fatalf("Criar: %v", err)
	}

	lista, err := d.ParticiparEsporte(ctx, "uid-1", "futsal")
	if err != nil {
		t.Fatalf("ParticiparEsporte: %v", err)
	}
	if len(lista) != 1 || lista[0] != "futsal" {
		t.Fatalf("lista errada: %v", lista)
	}

	// inscrever de novo é sucesso sem efeito
	lista, err = d.ParticiparEsporte(ctx, "uid-1", "futsal")
	if err != nil {
		t.Fatalf("reinscrição deveria ser sucesso: %v", err)
	}
	if len(lista) != 1 {
		t.Fatalf("reinscrição não deveria duplicar: %v", lista)
	}

	lista, err = d.ParticiparEsporte(ctx, "uid-1", "volei")
	if err != nil {
		t.Fatalf("ParticiparEsporte: %v", err)
	}
	if len(lista) != 2 || lista[0] != "futsal" || lista[1] != "volei" {
		t.Fatalf("ordem de inclusão deveria ser preservada: %v", lista)
	}
}

func TestDaoAlunoDeixarEsporte(t *testing.T) {
	d := NovoDaoAluno(registro.NovaMemoria())
	ctx := context.Background()

	if _, err := d.Criar(ctx, novoPerfilTeste(t, "uid-1", []string{"futsal", "volei"})); err != nil {
		t.Fatalf("Criar: %v", err)
	}

	lista, err := d.DeixarEsporte(ctx, "uid-1", "futsal")
	if err != nil {
		t.Fatalf("DeixarEsporte: %v", err)
	}
	if len(lista) != 1 || lista[0] != "volei" {
		t.Fatalf("lista errada: %v", lista)
	}

	// sair de esporte ausente é sucesso sem efeito
	lista, err = d.DeixarEsporte(ctx, "uid-1", "futsal")
	if err != nil {
		t.Fatalf("saída repetida deveria ser sucesso: %v", err)
	}
	if len(lista) != 1 {
		t.Fatalf("lista errada: %v", lista)
	}
}

func TestDaoAlunoParticiparEsporteInvalido(t *testing.T) {
	d := NovoDaoAluno(registro.NovaMemoria())

	_, err := d.ParticiparEsporte(context.Background(), "uid-1", "xadrez")
	var ev *modelo.ErroValidacao
	if !errors.As(err, &ev) {
		t.Fatalf("esperava ErroValidacao, obteve %v", err)
	}

	_, err = d.ParticiparEsporte(context.Background(), "fantasma", "futsal")
	if !errors.Is(err, ErrNaoEncontrado) {
		t.Fatalf("esperava ErrNaoEncontrado, obteve %v", err)
	}
}

func TestDaoAlunoParticiparComConflito(t *testing.T) {
	base := registro.NovaMemoria()
	store := &storeConflitante{Store: base, conflitos: 2}
	d := NovoDaoAluno(store)
	ctx := context.Background()

	if err := base.Gravar(ctx, "alunos/uid-1", novoPerfilTeste(t, "uid-1", nil).ParaRegistro()); err != nil {
		t.Fatalf("Gravar: %v", err)
	}

	// dois conflitos seguidos ainda cabem no limite de tentativas
	lista, err := d.ParticiparEsporte(ctx, "uid-1", "futsal")
	if err != nil {
		t.Fatalf("deveria convergir após reler: %v", err)
	}
	if len(lista) != 1 || lista[0] != "futsal" {
		t.Fatalf("lista errada: %v", lista)
	}
	if store.chamadas != 3 {
		t.Fatalf("esperava 3 gravações condicionais, obteve %d", store.chamadas)
	}
}

func TestDaoAlunoParticiparConflitoPersistente(t *testing.T) {
	base := registro.NovaMemoria()
	store := &storeConflitante{Store: base, conflitos: tentativasCondicional}
	d := NovoDaoAluno(store)
	ctx := context.Background()

	if err := base.Gravar(ctx, "alunos/uid-1", novoPerfilTeste(t, "uid-1", nil).ParaRegistro()); err != nil {
		t.Fatalf("Gravar: %v", err)
	}

	_, err := d.ParticiparEsporte(ctx, "uid-1", "futsal")
	if !errors.Is(err, ErrConcorrencia) {
		t.Fatalf("esperava ErrConcorrencia, obteve %v", err)
	}
}

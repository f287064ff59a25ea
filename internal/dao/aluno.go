package dao

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/escolalivre/comunidade/internal/modelo"
	"github.com/escolalivre/comunidade/internal/registro"
)

const caminhoAlunos = "alunos"

// Limite de repetições do laço de gravação condicional. Cada conflito
// relê o registro e reaplica a mudança sobre a revisão nova.
const tentativasCondicional = 3

// DaoAluno acessa os registros de `alunos/{uid}`. A lista de esportes
// daqui é a autoritativa para participação.
type DaoAluno struct {
	store registro.Store
}

func NovoDaoAluno(store registro.Store) *DaoAluno {
	return &DaoAluno{store: store}
}

// ObterPorUID carrega e valida o perfil; ErrNaoEncontrado quando o
// caminho está ausente.
func (d *DaoAluno) ObterPorUID(ctx context.Context, uid string) (modelo.PerfilAluno, error) {
	perfil, _, err := d.obterComRev(ctx, uid)
	return perfil, err
}

func (d *DaoAluno) obterComRev(ctx context.Context, uid string) (modelo.PerfilAluno, string, error) {
	if uid == "" {
		return modelo.PerfilAluno{}, "", modelo.NovoErroValidacao("uid inválido: deve ser string não vazia")
	}

	snap, err := d.store.Obter(ctx, caminhoAlunos+"/"+uid)
	if errors.Is(err, registro.ErrAusente) {
		return modelo.PerfilAluno{}, "", fmt.Errorf("aluno %s: %w", uid, ErrNaoEncontrado)
	}
	if err != nil {
		return modelo.PerfilAluno{}, "", err
	}

	var reg modelo.RegistroAluno
	if err := snap.Decodificar(&reg); err != nil {
		return modelo.PerfilAluno{}, "", modelo.NovoErroValidacao("registro de aluno malformado em %s", uid)
	}
	perfil, err := modelo.PerfilAlunoDeRegistro(uid, reg)
	if err != nil {
		return modelo.PerfilAluno{}, "", err
	}
	return perfil, snap.Rev, nil
}

// ObterTodos lista todos os perfis, pulando registros inválidos com
// aviso no log.
func (d *DaoAluno) ObterTodos(ctx context.Context) ([]modelo.PerfilAluno, error) {
	snap, err := d.store.Obter(ctx, caminhoAlunos)
	if errors.Is(err, registro.ErrAusente) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var regs map[string]modelo.RegistroAluno
	if err := snap.Decodificar(&regs); err != nil {
		return nil, modelo.NovoErroValidacao("coleção de alunos malformada")
	}

	lista := make([]modelo.PerfilAluno, 0, len(regs))
	for uid, reg := range regs {
		p, err := modelo.PerfilAlunoDeRegistro(uid, reg)
		if err != nil {
			log.Warn().Str("uid", uid).Err(err).Msg("aluno inválido ignorado na listagem")
			continue
		}
		lista = append(lista, p)
	}
	return lista, nil
}

// Criar grava o perfil em `alunos/{uid}`. Recriar um perfil para um
// usuário existente é seguro (gravação idempotente da mesma forma).
func (d *DaoAluno) Criar(ctx context.Context, p modelo.PerfilAluno) (string, error) {
	if err := p.Validar(); err != nil {
		return "", err
	}
	if err := d.store.Gravar(ctx, caminhoAlunos+"/"+p.UID, p.ParaRegistro()); err != nil {
		return "", err
	}
	return p.UID, nil
}

// Atualizar sobrescreve integralmente o registro do perfil.
func (d *DaoAluno) Atualizar(ctx context.Context, uid string, p modelo.PerfilAluno) error {
	if uid == "" {
		return modelo.NovoErroValidacao("uid inválido: deve ser string não vazia")
	}
	if err := p.Validar(); err != nil {
		return err
	}
	return d.store.Gravar(ctx, caminhoAlunos+"/"+uid, p.ParaRegistro())
}

// Remover apaga o registro do perfil.
func (d *DaoAluno) Remover(ctx context.Context, uid string) error {
	if uid == "" {
		return modelo.NovoErroValidacao("uid inválido: deve ser string não vazia")
	}
	return d.store.Remover(ctx, caminhoAlunos+"/"+uid)
}

// ParticiparEsporte inclui o esporte na lista do perfil por leitura,
// reaplicação e gravação condicionada à revisão lida; conflito relê e
// tenta de novo. Inscrever-se em esporte já presente é sucesso sem
// efeito. Devolve a lista resultante.
func (d *DaoAluno) ParticiparEsporte(ctx context.Context, uid, esporte string) ([]string, error) {
	return d.mudarParticipacao(ctx, uid, esporte, true)
}

// DeixarEsporte remove o esporte da lista do perfil, com a mesma
// disciplina de concorrência. Sair de esporte ausente é sucesso sem
// efeito.
func (d *DaoAluno) DeixarEsporte(ctx context.Context, uid, esporte string) ([]string, error) {
	return d.mudarParticipacao(ctx, uid, esporte, false)
}

func (d *DaoAluno) mudarParticipacao(ctx context.Context, uid, esporte string, incluir bool) ([]string, error) {
	if !modelo.EsporteValido(esporte) {
		return nil, modelo.NovoErroValidacao("esporte inválido: %s", esporte)
	}

	for tentativa := 0; tentativa < tentativasCondicional; tentativa++ {
		perfil, rev, err := d.obterComRev(ctx, uid)
		if err != nil {
			return nil, err
		}

		if perfil.Participa(esporte) == incluir {
			return perfil.Esportes, nil
		}

		var esportes []string
		if incluir {
			esportes = append(append(esportes, perfil.Esportes...), esporte)
		} else {
			for _, e := range perfil.Esportes {
				if e != esporte {
					esportes = append(esportes, e)
				}
			}
		}

		novo, err := perfil.ComEsportes(esportes)
		if err != nil {
			return nil, err
		}

		err = d.store.GravarSeRev(ctx, caminhoAlunos+"/"+uid, novo.ParaRegistro(), rev)
		if errors.Is(err, registro.ErrConflito) {
			log.Debug().Str("uid", uid).Str("esporte", esporte).Int("tentativa", tentativa+1).
				Msg("conflito de revisão na participação; relendo")
			continue
		}
		if err != nil {
			return nil, err
		}
		return novo.Esportes, nil
	}

	return nil, fmt.Errorf("participação de %s em %s: %w", uid, esporte, ErrConcorrencia)
}

package sessao

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/escolalivre/comunidade/internal/dao"
	"github.com/escolalivre/comunidade/internal/identidade"
	"github.com/escolalivre/comunidade/internal/modelo"
)

// nomePadrao é usado quando a identidade externa não traz nome de
// exibição, como no app original.
const nomePadrao = "Novo Usuário"

// Gerente executa o bootstrap de sessão: carrega ou cria os registros da
// conta ao sinal de identidade presente e limpa a visão ao sinal de
// ausência.
type Gerente struct {
	provider identidade.Provider
	usuarios *dao.DaoUsuario
	alunos   *dao.DaoAluno

	mu     sync.RWMutex
	estado Estado
	visao  *Visao
	erro   error
	parar  func()
}

// NovoGerente cria o gerente ainda desconectado.
func NovoGerente(provider identidade.Provider, usuarios *dao.DaoUsuario, alunos *dao.DaoAluno) *Gerente {
	return &Gerente{provider: provider, usuarios: usuarios, alunos: alunos, estado: Desconectado}
}

// Iniciar assina os eventos de presença do provedor e processa cada um
// em uma goroutine própria. Encerrar cancela a assinatura.
func (g *Gerente) Iniciar(ctx context.Context) {
	eventos, cancelar := g.provider.Assinar()
	g.parar = cancelar

	go func() {
		for ev := range eventos {
			if ev.Presente && ev.Identidade != nil {
				if _, err := g.Conectar(ctx, *ev.Identidade); err != nil {
					log.Error().Err(err).Str("uid", ev.Identidade.UID).Msg("bootstrap de sessão falhou")
				}
			} else {
				g.Desconectar()
			}
		}
	}()
}

// Encerrar cancela a assinatura de eventos.
func (g *Gerente) Encerrar() {
	if g.parar != nil {
		g.parar()
	}
}

// Conectar executa o bootstrap para a identidade informada. O
// procedimento é reiniciável: repetir após falha parcial é seguro, pois
// recriar o perfil de um usuário existente grava a mesma forma.
func (g *Gerente) Conectar(ctx context.Context, ident identidade.Identidade) (Visao, error) {
	g.transicao(Carregando, nil, nil)

	visao, err := g.carregar(ctx, ident)
	if err != nil {
		g.transicao(EmErro, nil, err)
		return Visao{}, err
	}

	g.transicao(Pronto, &visao, nil)
	return visao, nil
}

// Desconectar limpa a visão sincronamente, sem tocar o armazém.
func (g *Gerente) Desconectar() {
	g.transicao(Desconectado, nil, nil)
}

// Atualizar reexecuta o carregamento contra a identidade atual do
// provedor. Falha vira false, nunca pânico, para simplificar as telas.
func (g *Gerente) Atualizar(ctx context.Context) bool {
	ident := g.provider.Atual()
	if ident == nil {
		return false
	}
	_, err := g.Conectar(ctx, *ident)
	return err == nil
}

// Atual devolve o estado corrente e, quando Pronto, a visão da sessão.
func (g *Gerente) Atual() (Estado, *Visao) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.visao == nil {
		return g.estado, nil
	}
	copia := *g.visao
	return g.estado, &copia
}

// Erro devolve a falha do último bootstrap, se houver.
func (g *Gerente) Erro() error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.erro
}

func (g *Gerente) transicao(estado Estado, visao *Visao, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.estado = estado
	g.visao = visao
	g.erro = err
}

// carregar busca os dois registros da conta, criando os ausentes. As
// duas gravações são independentes e não transacionais: o perfil só é
// gravado se (e depois que) o usuário foi gravado, e uma falha entre
// elas deixa a conta reparável por nova chamada.
func (g *Gerente) carregar(ctx context.Context, ident identidade.Identidade) (Visao, error) {
	usuario, err := g.usuarios.ObterPorUID(ctx, ident.UID)
	switch {
	case errors.Is(err, dao.ErrNaoEncontrado):
		usuario, err = g.criarPadrao(ctx, ident)
		if err != nil {
			return Visao{}, err
		}
	case err != nil:
		return Visao{}, err
	}

	var perfil *modelo.PerfilAluno
	if usuario.RequerPerfilAluno() {
		p, err := g.alunos.ObterPorUID(ctx, ident.UID)
		switch {
		case errors.Is(err, dao.ErrNaoEncontrado):
			// Reparo idempotente permitido: recria o perfil a partir dos
			// dados de exibição da identidade.
			log.Warn().Str("uid", ident.UID).Msg("perfil de aluno ausente; recriando")
			p, err = g.criarPerfil(ctx, ident, usuario)
			if err != nil {
				return Visao{}, err
			}
		case err != nil:
			return Visao{}, err
		}
		perfil = &p
	}

	return fundir(ident, usuario, perfil), nil
}

// criarPadrao sintetiza a conta padrão no primeiro acesso: tipo aluno,
// sem esportes, seguida do perfil vinculado.
func (g *Gerente) criarPadrao(ctx context.Context, ident identidade.Identidade) (modelo.Usuario, error) {
	log.Info().Str("uid", ident.UID).Msg("primeiro acesso; criando registros da conta")

	usuario, err := modelo.NovoUsuario(ident.UID, nomeExibicao(ident), ident.Email, modelo.TipoAluno, nil)
	if err != nil {
		return modelo.Usuario{}, err
	}
	if _, err := g.usuarios.Criar(ctx, usuario); err != nil {
		return modelo.Usuario{}, err
	}

	if _, err := g.criarPerfil(ctx, ident, usuario); err != nil {
		return modelo.Usuario{}, err
	}
	return usuario, nil
}

func (g *Gerente) criarPerfil(ctx context.Context, ident identidade.Identidade, usuario modelo.Usuario) (modelo.PerfilAluno, error) {
	var foto *string
	if ident.Foto != "" {
		f := ident.Foto
		foto = &f
	}

	perfil, err := modelo.NovoPerfilAluno(ident.UID, usuario.Nome, foto, nil)
	if err != nil {
		return modelo.PerfilAluno{}, err
	}
	if _, err := g.alunos.Criar(ctx, perfil); err != nil {
		return modelo.PerfilAluno{}, err
	}
	return perfil, nil
}

// fundir sobrepõe as camadas na ordem fixa: identidade, usuário, perfil
// de aluno e por fim o alias MeusEsportes. Campo de camada posterior
// vence o da anterior.
func fundir(ident identidade.Identidade, usuario modelo.Usuario, perfil *modelo.PerfilAluno) Visao {
	v := Visao{
		UID:             ident.UID,
		Email:           ident.Email,
		Nome:            ident.Nome,
		Foto:            ident.Foto,
		EmailVerificado: ident.EmailVerificado,
	}

	v.Nome = usuario.Nome
	v.Email = usuario.Email
	v.Tipo = usuario.Tipo
	v.Esportes = usuario.Esportes

	if perfil != nil {
		v.Nome = perfil.Nome
		if perfil.Foto != nil {
			v.Foto = *perfil.Foto
		}
		v.MeusEsportes = perfil.Esportes
	}
	return v
}

func nomeExibicao(ident identidade.Identidade) string {
	if strings.TrimSpace(ident.Nome) == "" {
		return nomePadrao
	}
	return ident.Nome
}

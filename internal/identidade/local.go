package identidade

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/escolalivre/comunidade/internal/auth"
	"github.com/escolalivre/comunidade/internal/registro"
	"github.com/escolalivre/comunidade/internal/util"
)

const caminhoContas = "contas"

// registroConta é a forma persistida em `contas/{uid}`.
type registroConta struct {
	Email      string `json:"email"`
	Nome       string `json:"nome"`
	Foto       string `json:"foto"`
	SenhaHash  string `json:"senha_hash"`
	Verificado bool   `json:"verificado"`
}

// ProviderLocal implementa a capacidade de autenticação sobre o próprio
// armazém de registros, com hashes Argon2id. Serve desenvolvimento,
// testes e implantações sem provedor gerenciado.
type ProviderLocal struct {
	store registro.Store

	mu         sync.Mutex
	atual      *Identidade
	assinantes map[int]chan Evento
	proximo    int
}

// NovoProviderLocal cria o provedor sobre o armazém informado.
func NovoProviderLocal(store registro.Store) *ProviderLocal {
	return &ProviderLocal{store: store, assinantes: make(map[int]chan Evento)}
}

// Registrar cria a conta, autentica e emite evento de presença. Contas
// locais nascem verificadas: não há entrega de e-mail neste provedor.
func (p *ProviderLocal) Registrar(ctx context.Context, email, senha, nome string) (Identidade, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := util.ValidarEmail(email); err != nil {
		return Identidade{}, ErrEmailInvalido
	}
	if err := util.ValidarSenha(senha); err != nil {
		return Identidade{}, ErrSenhaFraca
	}

	if _, _, err := p.buscarPorEmail(ctx, email); err == nil {
		return Identidade{}, ErrEmailEmUso
	} else if !errors.Is(err, registro.ErrAusente) {
		return Identidade{}, err
	}

	hash, err := auth.Hash(senha)
	if err != nil {
		return Identidade{}, err
	}

	uid := uuid.NewString()
	conta := registroConta{
		Email:      email,
		Nome:       strings.TrimSpace(nome),
		SenhaHash:  hash,
		Verificado: true,
	}
	if err := p.store.Gravar(ctx, caminhoContas+"/"+uid, conta); err != nil {
		return Identidade{}, err
	}

	ident := identidadeDe(uid, conta)
	p.definirAtual(&ident)
	log.Info().Str("uid", uid).Msg("conta local registrada")
	return ident, nil
}

// Entrar verifica credenciais e emite evento de presença.
func (p *ProviderLocal) Entrar(ctx context.Context, email, senha string) (Identidade, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || senha == "" {
		return Identidade{}, ErrCredenciaisInvalidas
	}

	uid, conta, err := p.buscarPorEmail(ctx, email)
	if errors.Is(err, registro.ErrAusente) {
		return Identidade{}, ErrCredenciaisInvalidas
	}
	if err != nil {
		return Identidade{}, err
	}

	ok, err := auth.Verificar(senha, conta.SenhaHash)
	if err != nil {
		return Identidade{}, err
	}
	if !ok {
		return Identidade{}, ErrCredenciaisInvalidas
	}
	if !conta.Verificado {
		return Identidade{}, ErrEmailNaoVerificado
	}

	ident := identidadeDe(uid, conta)
	p.definirAtual(&ident)
	return ident, nil
}

// Sair encerra a sessão e emite evento de ausência.
func (p *ProviderLocal) Sair(ctx context.Context) error {
	p.definirAtual(nil)
	return nil
}

// Atual devolve a identidade autenticada no momento, se houver.
func (p *ProviderLocal) Atual() *Identidade {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.atual == nil {
		return nil
	}
	copia := *p.atual
	return &copia
}

// Assinar registra um consumidor de eventos de presença. A função
// devolvida cancela a assinatura e fecha o canal.
func (p *ProviderLocal) Assinar() (<-chan Evento, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.proximo
	p.proximo++
	ch := make(chan Evento, 8)
	p.assinantes[id] = ch

	return ch, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if existente, ok := p.assinantes[id]; ok {
			delete(p.assinantes, id)
			close(existente)
		}
	}
}

func (p *ProviderLocal) definirAtual(ident *Identidade) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.atual = ident
	ev := Evento{Presente: ident != nil, Identidade: ident}
	for _, ch := range p.assinantes {
		select {
		case ch <- ev:
		default:
			// assinante lento perde o evento; o próximo o realinha
		}
	}
}

func (p *ProviderLocal) buscarPorEmail(ctx context.Context, email string) (string, registroConta, error) {
	snap, err := p.store.Obter(ctx, caminhoContas)
	if err != nil {
		return "", registroConta{}, err
	}

	var contas map[string]registroConta
	if err := snap.Decodificar(&contas); err != nil {
		return "", registroConta{}, err
	}
	for uid, conta := range contas {
		if strings.EqualFold(conta.Email, email) {
			return uid, conta, nil
		}
	}
	return "", registroConta{}, registro.ErrAusente
}

func identidadeDe(uid string, conta registroConta) Identidade {
	return Identidade{
		UID:             uid,
		Email:           conta.Email,
		Nome:            conta.Nome,
		Foto:            conta.Foto,
		EmailVerificado: conta.Verificado,
	}
}

// Package identidade descreve a capacidade externa de autenticação que o
// núcleo consome: verificar credenciais, criar conta, encerrar sessão e
// assinar eventos de presença de identidade. O transporte real
// (verificação de e-mail, redefinição de senha) fica fora deste núcleo.
package identidade

import (
	"context"
	"errors"
)

var (
	// ErrCredenciaisInvalidas indica e-mail ou senha incorretos.
	ErrCredenciaisInvalidas = errors.New("credenciais inválidas")
	// ErrEmailNaoVerificado indica conta existente sem e-mail confirmado.
	ErrEmailNaoVerificado = errors.New("email não verificado")
	// ErrEmailEmUso indica tentativa de registro com e-mail já cadastrado.
	ErrEmailEmUso = errors.New("email já está em uso")
	// ErrSenhaFraca indica senha abaixo dos requisitos mínimos.
	ErrSenhaFraca = errors.New("senha fraca")
	// ErrEmailInvalido indica e-mail malformado no registro.
	ErrEmailInvalido = errors.New("email inválido")
	// ErrLimiteExcedido indica bloqueio temporário do provedor.
	ErrLimiteExcedido = errors.New("limite de tentativas excedido")
)

// Identidade é o que o provedor externo sabe sobre a conta autenticada.
type Identidade struct {
	UID             string
	Email           string
	Nome            string
	Foto            string
	EmailVerificado bool
}

// Evento sinaliza presença ou ausência de identidade autenticada.
type Evento struct {
	Presente   bool
	Identidade *Identidade
}

// Provider é a capacidade consumida pelo núcleo. Assinar devolve o canal
// de eventos e a função de cancelamento explícito da assinatura.
type Provider interface {
	Entrar(ctx context.Context, email, senha string) (Identidade, error)
	Registrar(ctx context.Context, email, senha, nome string) (Identidade, error)
	Sair(ctx context.Context) error
	Atual() *Identidade
	Assinar() (<-chan Evento, func())
}

package controle

import (
	"context"

	"github.com/escolalivre/comunidade/internal/auth"
	"github.com/escolalivre/comunidade/internal/identidade"
	"github.com/escolalivre/comunidade/internal/sessao"
)

// SessaoSaida devolve a visão fundida da sessão com o token de acesso da
// API.
type SessaoSaida struct {
	Token  string       `json:"token,omitempty"`
	Sessao sessao.Visao `json:"sessao"`
}

// ControleAuth liga o provedor de identidade ao bootstrap de sessão. A
// verificação de credenciais em si é do provedor; aqui só orquestração e
// normalização.
type ControleAuth struct {
	provider identidade.Provider
	sessoes  *sessao.Gerente
	jwt      *auth.JWTManager
}

func NovoControleAuth(provider identidade.Provider, sessoes *sessao.Gerente, jwt *auth.JWTManager) *ControleAuth {
	return &ControleAuth{provider: provider, sessoes: sessoes, jwt: jwt}
}

// Login autentica e executa o bootstrap da sessão.
func (c *ControleAuth) Login(ctx context.Context, email, senha string) Resultado {
	if email == "" || senha == "" {
		return falha("Email e senha são obrigatórios.")
	}

	ident, err := c.provider.Entrar(ctx, email, senha)
	if err != nil {
		return normalizar(err)
	}

	visao, err := c.sessoes.Conectar(ctx, ident)
	if err != nil {
		return normalizar(err)
	}

	saida, err := c.comToken(visao)
	if err != nil {
		return normalizar(err)
	}
	return sucesso("Login realizado com sucesso.", saida)
}

// Registrar cria a conta no provedor e executa o primeiro bootstrap, que
// sintetiza os registros de usuário e de perfil.
func (c *ControleAuth) Registrar(ctx context.Context, email, senha, nome string) Resultado {
	if email == "" || senha == "" {
		return falha("Email e senha são obrigatórios.")
	}

	ident, err := c.provider.Registrar(ctx, email, senha, nome)
	if err != nil {
		return normalizar(err)
	}

	visao, err := c.sessoes.Conectar(ctx, ident)
	if err != nil {
		return normalizar(err)
	}

	saida, err := c.comToken(visao)
	if err != nil {
		return normalizar(err)
	}
	return sucesso("Cadastro realizado com sucesso.", saida)
}

// Sair encerra a sessão no provedor e limpa a visão local sincronamente.
func (c *ControleAuth) Sair(ctx context.Context) Resultado {
	if err := c.provider.Sair(ctx); err != nil {
		return normalizar(err)
	}
	c.sessoes.Desconectar()
	return sucesso("Sessão encerrada.", nil)
}

// Atualizar reexecuta o carregamento da sessão corrente.
func (c *ControleAuth) Atualizar(ctx context.Context) Resultado {
	if !c.sessoes.Atualizar(ctx) {
		return falha("Não foi possível atualizar a sessão.")
	}
	_, visao := c.sessoes.Atual()
	return sucesso("Sessão atualizada.", SessaoSaida{Sessao: *visao})
}

func (c *ControleAuth) comToken(visao sessao.Visao) (SessaoSaida, error) {
	saida := SessaoSaida{Sessao: visao}
	if c.jwt == nil {
		return saida, nil
	}
	token, err := c.jwt.GerarTokenAcesso(visao.UID, string(visao.Tipo))
	if err != nil {
		return SessaoSaida{}, err
	}
	saida.Token = token
	return saida, nil
}

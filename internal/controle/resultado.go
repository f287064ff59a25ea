// Package controle orquestra os DAOs por caso de uso e é a única camada
// que captura erros tipados, normalizando todo desfecho no valor
// uniforme Resultado. Nenhum erro cru de validação ou de armazém escapa
// daqui para quem chama.
package controle

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/escolalivre/comunidade/internal/dao"
	"github.com/escolalivre/comunidade/internal/identidade"
	"github.com/escolalivre/comunidade/internal/modelo"
	"github.com/escolalivre/comunidade/internal/registro"
	"github.com/escolalivre/comunidade/internal/sessao"
)

// Resultado é o valor uniforme devolvido por toda operação de controller.
type Resultado struct {
	OK       bool   `json:"ok"`
	Mensagem string `json:"mensagem"`
	Dados    any    `json:"dados,omitempty"`
}

const mensagemGenerica = "Erro inesperado. Tente novamente."

func sucesso(mensagem string, dados any) Resultado {
	return Resultado{OK: true, Mensagem: mensagem, Dados: dados}
}

func falha(mensagem string) Resultado {
	return Resultado{OK: false, Mensagem: mensagem}
}

// normalizar traduz a taxonomia de erros em mensagens curtas para o
// usuário. Erros não classificados caem na mensagem genérica, sem expor
// detalhe interno.
func normalizar(err error) Resultado {
	var validacao *modelo.ErroValidacao
	var store *registro.ErroStore

	switch {
	case errors.As(err, &validacao):
		return falha(validacao.Motivo)
	case errors.Is(err, dao.ErrNaoEncontrado):
		return falha("Registro não encontrado.")
	case errors.Is(err, sessao.ErrInconsistente):
		return falha("Conta sem perfil de aluno vinculado. Entre novamente para reparar.")
	case errors.Is(err, dao.ErrConcorrencia):
		return falha("Outra alteração aconteceu ao mesmo tempo. Tente novamente.")
	case errors.Is(err, identidade.ErrCredenciaisInvalidas):
		return falha("E-mail ou senha incorretos.")
	case errors.Is(err, identidade.ErrEmailNaoVerificado):
		return falha("Email não verificado. Por favor, verifique seu email.")
	case errors.Is(err, identidade.ErrEmailEmUso):
		return falha("Este e-mail já está em uso.")
	case errors.Is(err, identidade.ErrSenhaFraca):
		return falha("A senha deve ter pelo menos 6 caracteres.")
	case errors.Is(err, identidade.ErrEmailInvalido):
		return falha("E-mail inválido.")
	case errors.Is(err, identidade.ErrLimiteExcedido):
		return falha("Muitas tentativas. Aguarde um instante e tente de novo.")
	case errors.As(err, &store):
		return falha("Falha de comunicação com o banco de dados.")
	}

	log.Error().Err(err).Msg("erro não classificado em controller")
	return falha(mensagemGenerica)
}

package util

import (
	"errors"
	"net/mail"
	"strings"
)

// ValidarEmail retorna erro para e-mails inválidos.
func ValidarEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email obrigatório")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("email inválido")
	}
	return nil
}

// ValidarSenha verifica requisitos mínimos de senha.
func ValidarSenha(senha string) error {
	if len(senha) < 6 {
		return errors.New("senha deve ter pelo menos 6 caracteres")
	}
	return nil
}

// ExigirTexto garante string não vazia.
func ExigirTexto(valor, campo string) error {
	if strings.TrimSpace(valor) == "" {
		return errors.New(campo + " obrigatório")
	}
	return nil
}

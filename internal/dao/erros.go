package dao

import "errors"

var (
	// ErrNaoEncontrado é retornado quando a chave referenciada não tem
	// registro no armazém.
	ErrNaoEncontrado = errors.New("registro não encontrado")

	// ErrConcorrencia indica gravação condicional que continuou em
	// conflito após o limite de tentativas.
	ErrConcorrencia = errors.New("conflito de concorrência persistente")
)

package modelo

import "fmt"

// ErroValidacao indica campo malformado ou fora de faixa. É culpa do
// chamador e nunca deve ser retentado.
type ErroValidacao struct {
	Motivo string
}

func (e *ErroValidacao) Error() string {
	return e.Motivo
}

// NovoErroValidacao cria erro de validação com motivo legível.
func NovoErroValidacao(format string, args ...any) *ErroValidacao {
	return &ErroValidacao{Motivo: fmt.Sprintf(format, args...)}
}

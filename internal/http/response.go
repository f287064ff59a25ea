package http

import (
	"encoding/json"
	"net/http"

	"github.com/escolalivre/comunidade/internal/controle"
)

// EscreverResultado serializa o valor uniforme dos controllers. Sucesso
// sai com 200; falha sai com o status informado e a mensagem já
// normalizada.
func EscreverResultado(w http.ResponseWriter, res controle.Resultado, statusFalha int) {
	status := http.StatusOK
	if !res.OK {
		status = statusFalha
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(res)
}

// EscreverFalha responde falha avulsa no mesmo formato do Resultado.
func EscreverFalha(w http.ResponseWriter, status int, mensagem string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(controle.Resultado{OK: false, Mensagem: mensagem})
}

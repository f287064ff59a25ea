package http

import (
	"encoding/json"
	"net/http"
)

type credenciaisEntrada struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
	Nome  string `json:"nome"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var entrada credenciaisEntrada
	if err := json.NewDecoder(r.Body).Decode(&entrada); err != nil {
		EscreverFalha(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}

	res := h.autenticar.Login(r.Context(), entrada.Email, entrada.Senha)
	EscreverResultado(w, res, http.StatusUnauthorized)
}

func (h *Handler) handleRegistrar(w http.ResponseWriter, r *http.Request) {
	var entrada credenciaisEntrada
	if err := json.NewDecoder(r.Body).Decode(&entrada); err != nil {
		EscreverFalha(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}

	res := h.autenticar.Registrar(r.Context(), entrada.Email, entrada.Senha, entrada.Nome)
	EscreverResultado(w, res, http.StatusBadRequest)
}

func (h *Handler) handleSair(w http.ResponseWriter, r *http.Request) {
	res := h.autenticar.Sair(r.Context())
	EscreverResultado(w, res, http.StatusBadRequest)
}

func (h *Handler) handleAtualizarSessao(w http.ResponseWriter, r *http.Request) {
	res := h.autenticar.Atualizar(r.Context())
	EscreverResultado(w, res, http.StatusBadRequest)
}

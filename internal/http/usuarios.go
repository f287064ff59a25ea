package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/escolalivre/comunidade/internal/controle"
)

func (h *Handler) handleListarUsuarios(w http.ResponseWriter, r *http.Request) {
	EscreverResultado(w, h.usuarios.Listar(r.Context()), http.StatusInternalServerError)
}

func (h *Handler) handleCriarUsuario(w http.ResponseWriter, r *http.Request) {
	var dados controle.DadosUsuario
	if err := json.NewDecoder(r.Body).Decode(&dados); err != nil {
		EscreverFalha(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	EscreverResultado(w, h.usuarios.Criar(r.Context(), dados), http.StatusBadRequest)
}

func (h *Handler) handleBuscarUsuario(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	EscreverResultado(w, h.usuarios.BuscarPorUID(r.Context(), uid), http.StatusNotFound)
}

func (h *Handler) handleAlterarUsuario(w http.ResponseWriter, r *http.Request) {
	var dados controle.DadosUsuario
	if err := json.NewDecoder(r.Body).Decode(&dados); err != nil {
		EscreverFalha(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	dados.UID = chi.URLParam(r, "uid")
	EscreverResultado(w, h.usuarios.Alterar(r.Context(), dados), http.StatusBadRequest)
}

func (h *Handler) handleRemoverUsuario(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	EscreverResultado(w, h.usuarios.Remover(r.Context(), uid), http.StatusBadRequest)
}

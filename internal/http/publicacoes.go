package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/escolalivre/comunidade/internal/controle"
)

func (h *Handler) handleListarPublicacoes(w http.ResponseWriter, r *http.Request) {
	if esporte := r.URL.Query().Get("esporte"); esporte != "" {
		EscreverResultado(w, h.publicacoes.ListarPorEsporte(r.Context(), esporte), http.StatusBadRequest)
		return
	}
	EscreverResultado(w, h.publicacoes.ListarTodas(r.Context()), http.StatusInternalServerError)
}

func (h *Handler) handleCriarPublicacao(w http.ResponseWriter, r *http.Request) {
	var dados controle.DadosPublicacao
	if err := json.NewDecoder(r.Body).Decode(&dados); err != nil {
		EscreverFalha(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	EscreverResultado(w, h.publicacoes.Criar(r.Context(), dados), http.StatusBadRequest)
}

func (h *Handler) handleBuscarPublicacao(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	EscreverResultado(w, h.publicacoes.BuscarPorUID(r.Context(), uid), http.StatusNotFound)
}

func (h *Handler) handleEditarPublicacao(w http.ResponseWriter, r *http.Request) {
	var dados controle.DadosPublicacao
	if err := json.NewDecoder(r.Body).Decode(&dados); err != nil {
		EscreverFalha(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	uid := chi.URLParam(r, "uid")
	EscreverResultado(w, h.publicacoes.Editar(r.Context(), uid, dados), http.StatusBadRequest)
}

func (h *Handler) handleExcluirPublicacao(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	EscreverResultado(w, h.publicacoes.Excluir(r.Context(), uid), http.StatusBadRequest)
}

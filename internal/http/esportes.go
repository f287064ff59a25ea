package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	httpmiddleware "github.com/escolalivre/comunidade/internal/http/middleware"
)

func (h *Handler) handleListarEsportesAtivos(w http.ResponseWriter, r *http.Request) {
	EscreverResultado(w, h.esportes.ListarAtivos(r.Context()), http.StatusInternalServerError)
}

func (h *Handler) handleListarMeusEsportes(w http.ResponseWriter, r *http.Request) {
	uid := httpmiddleware.GetSubject(r.Context())
	EscreverResultado(w, h.esportes.ListarDoUsuario(r.Context(), uid), http.StatusNotFound)
}

func (h *Handler) handleParticiparEsporte(w http.ResponseWriter, r *http.Request) {
	uid := httpmiddleware.GetSubject(r.Context())
	nome := chi.URLParam(r, "nome")
	EscreverResultado(w, h.esportes.Participar(r.Context(), uid, nome), http.StatusBadRequest)
}

func (h *Handler) handleSairEsporte(w http.ResponseWriter, r *http.Request) {
	uid := httpmiddleware.GetSubject(r.Context())
	nome := chi.URLParam(r, "nome")
	EscreverResultado(w, h.esportes.Sair(r.Context(), uid, nome), http.StatusBadRequest)
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/escolalivre/comunidade/internal/auth"
	"github.com/escolalivre/comunidade/internal/config"
	"github.com/escolalivre/comunidade/internal/controle"
	httpmiddleware "github.com/escolalivre/comunidade/internal/http/middleware"
)

// Handler agrega os controllers expostos pela API.
type Handler struct {
	cfg         *config.Config
	autenticar  *controle.ControleAuth
	usuarios    *controle.ControleUsuario
	publicacoes *controle.ControlePublicacao
	esportes    *controle.ControleEsportes
}

// NewRouter devolve roteador configurado com middleware e rotas.
func NewRouter(
	cfg *config.Config,
	jwtManager *auth.JWTManager,
	autenticar *controle.ControleAuth,
	usuarios *controle.ControleUsuario,
	publicacoes *controle.ControlePublicacao,
	esportes *controle.ControleEsportes,
) http.Handler {
	h := &Handler{
		cfg:         cfg,
		autenticar:  autenticar,
		usuarios:    usuarios,
		publicacoes: publicacoes,
		esportes:    esportes,
	}

	publicLimiter := httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst)
	authLimiter := httpmiddleware.NewRateLimiter(cfg.RateLimitAuth.RequestsPerSecond, cfg.RateLimitAuth.Burst)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.Get("/saude", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(httpmiddleware.IPRateLimit(authLimiter))
		r.Post("/auth/login", h.handleLogin)
		r.Post("/auth/registrar", h.handleRegistrar)
	})

	r.Group(func(r chi.Router) {
		r.Use(httpmiddleware.Auth(jwtManager))
		r.Use(httpmiddleware.UserRateLimit(publicLimiter))

		r.Post("/auth/sair", h.handleSair)
		r.Post("/auth/atualizar", h.handleAtualizarSessao)

		r.Route("/usuarios", func(r chi.Router) {
			r.Get("/", h.handleListarUsuarios)
			r.Post("/", h.handleCriarUsuario)
			r.Get("/{uid}", h.handleBuscarUsuario)
			r.Put("/{uid}", h.handleAlterarUsuario)
			r.Delete("/{uid}", h.handleRemoverUsuario)
		})

		r.Route("/publicacoes", func(r chi.Router) {
			r.Get("/", h.handleListarPublicacoes)
			r.Post("/", h.handleCriarPublicacao)
			r.Get("/{uid}", h.handleBuscarPublicacao)
			r.Put("/{uid}", h.handleEditarPublicacao)
			r.Delete("/{uid}", h.handleExcluirPublicacao)
		})

		r.Route("/esportes", func(r chi.Router) {
			r.Get("/", h.handleListarEsportesAtivos)
			r.Get("/meus", h.handleListarMeusEsportes)
			r.Post("/{nome}/participar", h.handleParticiparEsporte)
			r.Post("/{nome}/sair", h.handleSairEsporte)
		})
	})

	return r
}

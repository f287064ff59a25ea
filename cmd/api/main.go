package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/escolalivre/comunidade/internal/auth"
	"github.com/escolalivre/comunidade/internal/config"
	"github.com/escolalivre/comunidade/internal/controle"
	"github.com/escolalivre/comunidade/internal/dao"
	internalhttp "github.com/escolalivre/comunidade/internal/http"
	"github.com/escolalivre/comunidade/internal/identidade"
	"github.com/escolalivre/comunidade/internal/registro"
	"github.com/escolalivre/comunidade/internal/sessao"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("api encerrada com erro")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := context.Background()

	store, fechar, err := abrirStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer fechar()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis parse: %w", err)
		}
		redisClient = redis.NewClient(redisOpts)
		defer redisClient.Close()
	}

	usuarios := dao.NovoDaoUsuario(store)
	alunos := dao.NovoDaoAluno(store)
	publicacoes := dao.NovoDaoPublicacao(store)
	esportes := dao.NovoDaoEsportes(store)

	if cfg.StoreBackend == config.StoreMemoria {
		if err := esportes.Semear(ctx); err != nil {
			return fmt.Errorf("semear esportes: %w", err)
		}
	}

	provider := identidade.NovoProviderLocal(store)
	gerente := sessao.NovoGerente(provider, usuarios, alunos)
	gerente.Iniciar(ctx)
	defer gerente.Encerrar()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTTL)

	handler := internalhttp.NewRouter(
		cfg,
		jwtManager,
		controle.NovoControleAuth(provider, gerente, jwtManager),
		controle.NovoControleUsuario(usuarios),
		controle.NovoControlePublicacao(publicacoes, redisClient),
		controle.NovoControleEsportes(esportes, alunos, usuarios, redisClient),
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("store", cfg.StoreBackend).Msgf("API ouvindo em :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("encerrando...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// abrirStore escolhe o backend do armazém conforme a configuração e
// devolve também a função de fechamento.
func abrirStore(ctx context.Context, cfg *config.Config) (registro.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreRTDB:
		store, err := registro.NovoRTDB(cfg.RTDBURL, cfg.RTDBToken)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case config.StorePostgres:
		pool, err := registro.NovoPool(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		store, err := registro.NovoPostgres(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	default:
		return registro.NovaMemoria(), func() {}, nil
	}
}

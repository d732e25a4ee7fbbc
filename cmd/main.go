package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	v1handlers "github.com/lumiere-skin/storefront/internal/api/v1/handlers"
	v1mware "github.com/lumiere-skin/storefront/internal/api/v1/middleware"
	"github.com/lumiere-skin/storefront/internal/config"
	"github.com/lumiere-skin/storefront/internal/services"
	"github.com/lumiere-skin/storefront/pkg/logger"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config.LoadDotEnv()
	logger.Init(config.IsProduction())
	config.WarnInsecureSessionSecret()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := services.InitializeServices()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis connection")
		}
	}()

	server := &http.Server{
		Addr:              ":" + config.GetPort(),
		Handler:           setupRouter(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := run(ctx, server); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		return
	}
	log.Info().Msg("Server exited gracefully")
}

func setupRouter(svc *services.Services) http.Handler {
	r := mux.NewRouter()
	v1handlers.RegisterRoutes(r, svc)
	return v1mware.CORS()(r)
}

func run(ctx context.Context, server *http.Server) error {
	errCh := make(chan error, 1)

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("frontend_url", config.GetFrontendURL()).
			Msg("Storefront gateway starting")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

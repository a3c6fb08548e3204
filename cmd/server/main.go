package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	registry "github.com/peerline/peerline/internal/adapter/driven/registry/memory"
	sessions "github.com/peerline/peerline/internal/adapter/driven/session/memory"
	handler "github.com/peerline/peerline/internal/adapter/driving/http"
	"github.com/peerline/peerline/internal/config"
	"github.com/peerline/peerline/internal/core/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	w := zerolog.ConsoleWriter{Out: os.Stdout}
	l := zerolog.New(w).With().Timestamp().Caller().Logger()
	log.Logger = l

	cfg, err := config.FromEnv()
	if err != nil {
		l.Fatal().Err(err).Msg("Invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	reg := registry.NewRegistry()
	table := sessions.NewTable()
	relay := service.NewRelayService(reg, table)
	h := handler.NewHandler(relay, reg, cfg)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: h.NewRouter(),
	}

	go func() {
		l.Info().Str("addr", cfg.ListenAddr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	l.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		l.Error().Err(err).Msg("Server forced to shutdown")
	}

	l.Info().Msg("Server exited")
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"MediBot/internal/config"
	"MediBot/internal/logging"
	"MediBot/internal/server"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("MediBot stopped with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	closer, err := logging.Setup(cfg.Log)
	if err != nil {
		log.Warn().Err(err).Msg("Log file unavailable, logging to stdout only")
	}
	defer closer.Close()

	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := server.NewDeps(ctx, cfg)
	if err != nil {
		return err
	}

	apiServer := server.NewServer(cfg, deps)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", apiServer.Addr).Msg("Starting MediBot")
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		log.Info().Msg("shutting down gracefully, press Ctrl+C again to force")
		stop() // Allow Ctrl+C to force shutdown

		// The server has shutdownTimeout to finish the requests it is handling.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Msg("Graceful shutdown complete.")
	return nil
}

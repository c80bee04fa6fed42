package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"centavo/internal/interfaces/scheduler"
)

// StartServer creates and starts the HTTP server in the background.
func StartServer(addr string, handler http.Handler, log zerolog.Logger) *http.Server {
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	return srv
}

// GracefulShutdown stops the scheduler, drains the worker pool and shuts the
// HTTP server down within the timeout.
func GracefulShutdown(srv *http.Server, cron *scheduler.Cron, pool *scheduler.WorkerPool, timeout time.Duration, log zerolog.Logger) {
	log.Info().Msg("Server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if cron != nil {
		cron.Stop()
	}
	if pool != nil {
		pool.ShutdownWithTimeout(timeout)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error shutting down HTTP server")
	}

	log.Info().Msg("Server stopped")
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"centavo/internal/interfaces/scheduler"
	"centavo/internal/shared/config"
	"centavo/internal/shared/logging"
	"centavo/internal/shared/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config failed before the logger exists.
		panic(err)
	}

	log := logging.New(cfg.Logging)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Application error")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry (optional)
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName:  cfg.Telemetry.ServiceName,
			Environment:  getEnvName(),
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			MetricsPort:  cfg.Telemetry.MetricsPort,
		}, log)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Telemetry shutdown error")
			}
		}()
	}

	deps, err := NewDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.Close()

	// Event dispatch loop
	go deps.Bus.Start(ctx)

	// Scheduler (optional)
	var cron *scheduler.Cron
	var pool *scheduler.WorkerPool
	if cfg.Scheduler.Enabled {
		pool = scheduler.NewWorkerPool(cfg.Scheduler.WorkerCount, cfg.Scheduler.QueueSize, log)
		pool.Start()

		checkJob := scheduler.NewConnectionCheckJob(deps.Guard)
		cleanupJob := scheduler.NewNotificationCleanupJob(deps.CleanupJob)
		pruneJob := scheduler.NewHistoryPruneJob(deps.HistoryRepo, cfg.Monitor.HistoryRetentionDays)

		cron = scheduler.NewCron(pool, log)
		if err := cron.AddJob(cfg.Monitor.CheckSchedule, checkJob); err != nil {
			return err
		}
		if err := cron.AddJob(cfg.Monitor.CleanupSchedule, cleanupJob); err != nil {
			return err
		}
		if err := cron.AddJob(cfg.Monitor.CleanupSchedule, pruneJob); err != nil {
			return err
		}
		cron.Start()

		if cfg.Monitor.RunOnStartup {
			if err := pool.Submit(checkJob); err != nil {
				log.Warn().Err(err).Msg("Failed to submit startup check")
			}
		}
	} else {
		log.Info().Msg("Scheduler is disabled")
	}

	handler := SetupRoutes(deps, log)
	srv := StartServer(cfg.Server.Host+":"+cfg.Server.Port, handler, log)

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	GracefulShutdown(srv, cron, pool, 30*time.Second, log)
	return nil
}

func getEnvName() string {
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		return env
	}
	return "development"
}

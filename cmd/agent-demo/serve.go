package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nmeisenzahl/ai-agent-demo/internal/pipeline"
	"github.com/nmeisenzahl/ai-agent-demo/internal/worker"
)

// newServeCommand runs the article worker against a Redis stream
func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Consume article requests from a Redis stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if err := cfg.ValidateServe(); err != nil {
				return err
			}

			logger.Info("starting article worker",
				zap.String("version", Version),
				zap.String("build_time", BuildTime),
				zap.String("worker_id", cfg.WorkerID),
			)
			logger.Info("configuration loaded", zap.String("config", cfg.String()))

			redisClient := redis.NewClient(&redis.Options{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			})

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			if err := redisClient.Ping(ctx).Err(); err != nil {
				logger.Fatal("failed to connect to redis", zap.Error(err))
			}
			logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))

			p, err := pipeline.New(cfg, logger)
			if err != nil {
				logger.Fatal("failed to build pipeline", zap.Error(err))
			}

			w := worker.NewWorker(cfg, redisClient, p, logger)
			if err := w.Start(); err != nil {
				logger.Fatal("failed to start worker", zap.Error(err))
			}

			healthServer := worker.NewHealthServer(cfg.HealthPort, redisClient, logger)
			if err := healthServer.Start(); err != nil {
				logger.Fatal("failed to start health server", zap.Error(err))
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			logger.Info("article worker running, press Ctrl+C to stop")
			<-sigChan

			logger.Info("shutdown signal received, stopping worker")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()

			if err := healthServer.Stop(); err != nil {
				logger.Error("failed to stop health server", zap.Error(err))
			}

			if err := w.Stop(); err != nil {
				logger.Error("failed to stop worker", zap.Error(err))
			}

			if err := redisClient.Close(); err != nil {
				logger.Error("failed to close redis connection", zap.Error(err))
			}

			select {
			case <-shutdownCtx.Done():
				logger.Warn("shutdown timeout exceeded, forcing exit")
			default:
				logger.Info("worker stopped gracefully")
			}

			return nil
		},
	}
}

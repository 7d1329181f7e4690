package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"moodtrack/internal/adapter/repo"
	"moodtrack/internal/inference"
	"moodtrack/internal/infra"
	"moodtrack/internal/storage"
	"moodtrack/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.ConnectPool(ctx, cfg, logger, cfg.WorkerConnectAttempts, cfg.WorkerConnectDelay)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)
	snapshots := repo.NewSnapshotRepository(runner)

	detector, classifier := initInference(cfg, &logger)

	var archive *storage.FileStore
	if cfg.ArchivePath != "" {
		archive, err = storage.NewFileStore(cfg.ArchivePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("worker: failed to configure archive storage")
		}
	}

	analyzer := worker.New(snapshots, detector, classifier, archive, logger, worker.Config{
		BatchSize:    cfg.WorkerBatchSize,
		PollInterval: cfg.WorkerPollInterval,
		ErrorBackoff: cfg.WorkerErrorBackoff,
	})

	if err := analyzer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

// initInference picks the model backend: the remote sidecar when configured,
// otherwise the deterministic synthetic implementation so the pipeline stays
// operational in local and CI environments.
func initInference(cfg *infra.Config, logger *infra.Logger) (inference.FaceDetector, inference.EmotionClassifier) {
	if cfg.InferenceBaseURL != "" {
		client, err := inference.NewClient(inference.Options{
			BaseURL: cfg.InferenceBaseURL,
			Logger:  logger,
		})
		if err == nil {
			logger.Info().Str("base_url", cfg.InferenceBaseURL).Msg("worker: using remote inference backend")
			return client, client
		}
		logger.Warn().Err(err).Msg("worker: failed to configure remote inference, using synthetic backend")
	} else {
		logger.Warn().Msg("worker: inference backend not configured, using synthetic detector")
	}
	synthetic := inference.NewSynthetic()
	return synthetic, synthetic
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mannyflugo/holiday-image-generation/internal/adapter/repo"
	"github.com/mannyflugo/holiday-image-generation/internal/domain"
	"github.com/mannyflugo/holiday-image-generation/internal/infra"
	"github.com/mannyflugo/holiday-image-generation/internal/replicate"
	"github.com/mannyflugo/holiday-image-generation/internal/storage"
	"github.com/mannyflugo/holiday-image-generation/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	if err := repo.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to ensure schema")
	}

	generations := repo.NewGenerationRepository(pool)
	products := repo.NewProductRepository(pool)

	generator := replicate.NewClient(replicate.Options{
		BaseURL:  cfg.ReplicateBaseURL,
		APIToken: cfg.ReplicateAPIToken,
		Model:    cfg.ReplicateModel,
	})
	if cfg.ReplicateAPIToken == "" {
		logger.Warn().Str("model", generator.Model()).Msg("worker: replicate api token missing, jobs will fail")
	}

	blobs := storage.NewClient(storage.ClientOptions{BaseURL: cfg.StorageBaseURL})
	httpClient := &http.Client{Timeout: 60 * time.Second}
	processor := worker.NewProcessor(generations, products, generator, blobs, httpClient, logger)

	logger.Info().Msg("worker: started")
	if err := run(ctx, generations, processor, cfg.WorkerPollInterval, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

// run claims pending generations and processes each in its own goroutine.
// Jobs do not coordinate with one another; the claim query keeps two
// workers from picking up the same job.
func run(ctx context.Context, generations domain.GenerationRepository, processor *worker.Processor, pollInterval time.Duration, logger infra.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		id, err := generations.ClaimNextPending(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				sleep(ctx, pollInterval)
				continue
			}
			logger.Error().Err(err).Msg("worker: failed to claim generation")
			sleep(ctx, pollInterval)
			continue
		}

		logger.Info().Str("generation_id", id).Msg("worker: picked generation")
		go processor.Process(ctx, id)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

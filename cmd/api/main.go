package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/mannyflugo/holiday-image-generation/internal/adapter/repo"
	"github.com/mannyflugo/holiday-image-generation/internal/http/handlers"
	httpapi "github.com/mannyflugo/holiday-image-generation/internal/http/httpapi"
	"github.com/mannyflugo/holiday-image-generation/internal/infra"
	"github.com/mannyflugo/holiday-image-generation/internal/infra/geoip"
	"github.com/mannyflugo/holiday-image-generation/internal/middleware"
	"github.com/mannyflugo/holiday-image-generation/internal/storage"
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
		logger.Fatal().Err(err).Msg("api: failed to connect database")
	}
	defer pool.Close()

	if err := repo.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("api: failed to ensure schema")
	}

	fileStore, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: failed to configure storage")
	}
	storageClient := storage.NewClient(storage.ClientOptions{BaseURL: cfg.StorageBaseURL})

	var country middleware.CountryLookup
	if resolver, err := geoip.NewResolver(cfg.GeoIPDBPath); err != nil {
		logger.Warn().Err(err).Msg("api: geoip disabled")
	} else if resolver != nil {
		country = resolver.CountryCode
	}

	app := handlers.NewApp(
		logger,
		repo.NewProductRepository(pool),
		repo.NewThemeRepository(pool),
		repo.NewGenerationRepository(pool),
		fileStore,
		storageClient,
		cfg.StorageBaseURL,
	)

	router := httpapi.NewRouter(app, cfg, logger, country)
	server := infra.NewHTTPServer(cfg, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("api: stopped with error")
		return
	}
	logger.Info().Msg("api: stopped")
}

package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/mannyflugo/holiday-image-generation/internal/http/handlers"
	"github.com/mannyflugo/holiday-image-generation/internal/infra"
	"github.com/mannyflugo/holiday-image-generation/internal/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config, logger zerolog.Logger, country middleware.CountryLookup) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP, middleware.RequestID, chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middleware.Logger(logger, country))
	r.Use(middleware.Auth(cfg.JWTSecret))

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/storage", func(r chi.Router) {
		r.Post("/upload-url", app.StorageUploadURL)
		r.Post("/upload/{token}", app.StorageUpload)
		r.Get("/{id}", app.StorageServe)
	})

	r.Route("/v1/products", func(r chi.Router) {
		r.Post("/", app.ProductsCreate)
		r.Get("/", app.ProductsList)
		r.Delete("/{id}", app.ProductsDelete)
	})

	r.Route("/v1/themes", func(r chi.Router) {
		r.Get("/", app.ThemesList)
		r.Post("/seed", app.ThemesSeed)
	})

	r.Route("/v1/generations", func(r chi.Router) {
		r.With(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute)).Post("/", app.GenerationsCreate)
		r.Get("/", app.GenerationsList)
	})

	return r
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mannyflugo/holiday-image-generation/internal/domain"
	"github.com/mannyflugo/holiday-image-generation/internal/middleware"
	"github.com/mannyflugo/holiday-image-generation/internal/storage"
)

// App bundles the handlers' collaborators.
type App struct {
	Logger         zerolog.Logger
	Products       domain.ProductRepository
	Themes         domain.ThemeRepository
	Generations    domain.GenerationRepository
	Blobs          *storage.FileStore
	Storage        *storage.Client
	StorageBaseURL string
}

func NewApp(
	logger zerolog.Logger,
	products domain.ProductRepository,
	themes domain.ThemeRepository,
	generations domain.GenerationRepository,
	blobs *storage.FileStore,
	storageClient *storage.Client,
	storageBaseURL string,
) *App {
	return &App{
		Logger:         logger,
		Products:       products,
		Themes:         themes,
		Generations:    generations,
		Blobs:          blobs,
		Storage:        storageClient,
		StorageBaseURL: storageBaseURL,
	}
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

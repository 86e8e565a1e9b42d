package handlers

import (
	"net/http"
	"time"

	"github.com/mannyflugo/holiday-image-generation/internal/catalog"
)

type themeResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Prompt      string    `json:"prompt"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ThemesList returns all active themes.
func (a *App) ThemesList(w http.ResponseWriter, r *http.Request) {
	themes, err := a.Themes.ListActive(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("themes: list failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list themes")
		return
	}
	items := make([]themeResponse, 0, len(themes))
	for _, t := range themes {
		items = append(items, themeResponse{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Prompt:      t.Prompt,
			IsActive:    t.IsActive,
			CreatedAt:   t.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// ThemesSeed installs the built-in theme catalog when no themes exist yet.
// Repeated calls are no-ops.
func (a *App) ThemesSeed(w http.ResponseWriter, r *http.Request) {
	seeded, err := catalog.SeedIfEmpty(r.Context(), a.Themes)
	if err != nil {
		a.Logger.Error().Err(err).Msg("themes: seed failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to seed themes")
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"seeded": seeded})
}

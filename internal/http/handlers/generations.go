package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mannyflugo/holiday-image-generation/internal/domain"
	"github.com/mannyflugo/holiday-image-generation/internal/prompt"
)

type generationCreateRequest struct {
	ProductIDs []string `json:"product_ids"`
	Theme      string   `json:"theme"`
	Style      string   `json:"style"`
}

type generationResponse struct {
	ID             string    `json:"id"`
	ProductIDs     []string  `json:"product_ids"`
	Theme          string    `json:"theme"`
	Style          string    `json:"style"`
	Prompt         string    `json:"prompt"`
	Status         string    `json:"status"`
	ResultImageURL *string   `json:"result_image_url"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// GenerationsCreate validates the request, renders the prompt, and inserts
// the job pending. The worker process picks it up; the caller never waits
// for the generation itself.
func (a *App) GenerationsCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthenticated", "not authenticated")
		return
	}
	var req generationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	// Ownership is checked in input order; the first violation rejects the
	// whole request before any row is written.
	for _, productID := range req.ProductIDs {
		product, err := a.Products.GetByID(r.Context(), productID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				a.error(w, http.StatusNotFound, "not_found", "product not found or not authorized")
				return
			}
			a.Logger.Error().Err(err).Msg("generations: product lookup failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to verify products")
			return
		}
		if product.UserID != userID {
			a.error(w, http.StatusNotFound, "not_found", "product not found or not authorized")
			return
		}
	}

	theme, err := a.Themes.GetActiveByName(r.Context(), req.Theme)
	if err != nil {
		if errors.Is(err, domain.ErrThemeNotFound) {
			a.error(w, http.StatusNotFound, "theme_not_found", "theme not found")
			return
		}
		a.Logger.Error().Err(err).Msg("generations: theme lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to resolve theme")
		return
	}

	generation := &domain.Generation{
		ID:         uuid.NewString(),
		UserID:     userID,
		ProductIDs: req.ProductIDs,
		Theme:      req.Theme,
		Style:      req.Style,
		Prompt:     prompt.Render(theme.Prompt, req.Style),
		Status:     domain.GenerationStatusPending,
	}
	if err := a.Generations.Create(r.Context(), generation); err != nil {
		a.Logger.Error().Err(err).Msg("generations: create failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create generation")
		return
	}
	a.json(w, http.StatusAccepted, map[string]string{
		"generation_id": generation.ID,
		"status":        string(generation.Status),
	})
}

// GenerationsList returns the caller's generations, newest first, with
// result references resolved to display URLs. Anonymous callers get an
// empty list.
func (a *App) GenerationsList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.json(w, http.StatusOK, map[string]any{"items": []generationResponse{}})
		return
	}
	generations, err := a.Generations.ListByUser(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("generations: list failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list generations")
		return
	}
	items := make([]generationResponse, 0, len(generations))
	for _, g := range generations {
		item := generationResponse{
			ID:           g.ID,
			ProductIDs:   g.ProductIDs,
			Theme:        g.Theme,
			Style:        g.Style,
			Prompt:       g.Prompt,
			Status:       string(g.Status),
			ErrorMessage: g.ErrorMessage,
			CreatedAt:    g.CreatedAt,
		}
		if g.ResultImageID != "" {
			url := a.Storage.ResolveURL(g.ResultImageID)
			item.ResultImageURL = &url
		}
		items = append(items, item)
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

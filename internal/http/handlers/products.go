package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mannyflugo/holiday-image-generation/internal/domain"
)

type productCreateRequest struct {
	ImageID     string `json:"image_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type productResponse struct {
	ID          string    `json:"id"`
	ImageID     string    `json:"image_id"`
	ImageURL    string    `json:"image_url"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductsCreate registers an uploaded image as a product.
func (a *App) ProductsCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthenticated", "not authenticated")
		return
	}
	var req productCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.ImageID) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "image_id required")
		return
	}
	product := &domain.Product{
		ID:          uuid.NewString(),
		UserID:      userID,
		ImageID:     req.ImageID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := a.Products.Create(r.Context(), product); err != nil {
		a.Logger.Error().Err(err).Msg("products: create failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create product")
		return
	}
	a.json(w, http.StatusCreated, map[string]string{"product_id": product.ID})
}

// ProductsList returns the caller's products with resolved image URLs.
// Anonymous callers get an empty list.
func (a *App) ProductsList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.json(w, http.StatusOK, map[string]any{"items": []productResponse{}})
		return
	}
	products, err := a.Products.ListByUser(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("products: list failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list products")
		return
	}
	items := make([]productResponse, 0, len(products))
	for _, p := range products {
		items = append(items, productResponse{
			ID:          p.ID,
			ImageID:     p.ImageID,
			ImageURL:    a.Storage.ResolveURL(p.ImageID),
			Name:        p.Name,
			Description: p.Description,
			CreatedAt:   p.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// ProductsDelete removes one of the caller's products. Generations keep any
// reference to the deleted product; the worker skips ids it cannot resolve.
func (a *App) ProductsDelete(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthenticated", "not authenticated")
		return
	}
	productID := chi.URLParam(r, "id")
	if err := a.Products.DeleteOwned(r.Context(), userID, productID); err != nil {
		if errors.Is(err, domain.ErrNotFoundOrUnauthorized) {
			a.error(w, http.StatusNotFound, "not_found", "product not found or not authorized")
			return
		}
		a.Logger.Error().Err(err).Msg("products: delete failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete product")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "deleted"})
}

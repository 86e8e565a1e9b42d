package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mannyflugo/holiday-image-generation/internal/storage"
)

const maxUploadBytes = 32 << 20

// StorageUploadURL issues a fresh upload destination. The token is opaque
// to callers; uploads name their blob independently of it.
func (a *App) StorageUploadURL(w http.ResponseWriter, r *http.Request) {
	uploadURL := strings.TrimRight(a.StorageBaseURL, "/") + "/v1/storage/upload/" + uuid.NewString()
	a.json(w, http.StatusOK, map[string]string{"uploadUrl": uploadURL})
}

// StorageUpload accepts raw bytes at an issued destination and answers with
// the opaque storage reference.
func (a *App) StorageUpload(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		a.error(w, http.StatusRequestEntityTooLarge, "too_large", "upload exceeds size limit")
		return
	}
	if len(data) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "empty upload")
		return
	}
	storageID, err := a.Blobs.Write(r.Context(), uuid.NewString(), data)
	if err != nil {
		a.Logger.Error().Err(err).Msg("storage: write upload failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store upload")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"storageId": storageID})
}

// StorageServe returns the bytes behind a storage reference.
func (a *App) StorageServe(w http.ResponseWriter, r *http.Request) {
	storageID := chi.URLParam(r, "id")
	data, err := a.Blobs.Read(r.Context(), storageID)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "blob not found")
			return
		}
		a.Logger.Error().Err(err).Str("storage_id", storageID).Msg("storage: read failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to read blob")
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

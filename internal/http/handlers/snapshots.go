package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"moodtrack/internal/domain"
)

type createSnapshotRequest struct {
	ImageData  string         `json:"image_data"`
	Properties map[string]any `json:"properties,omitempty"`
}

// SnapshotsCreate accepts a data-URL encoded image and enqueues it for
// analysis. The response only carries the id; clients poll SnapshotGet for
// the outcome.
func (a *App) SnapshotsCreate(w http.ResponseWriter, r *http.Request) {
	var req createSnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}

	id, err := a.Snapshots.Create(r.Context(), req.ImageData, req.Properties, clientIP(r))
	if err != nil {
		if errors.Is(err, domain.ErrEmptyImage) {
			a.error(w, http.StatusBadRequest, "image_data is required")
			return
		}
		a.Logger.Error().Err(err).Msg("snapshot create failed")
		a.error(w, http.StatusInternalServerError, "failed to create snapshot")
		return
	}

	a.json(w, http.StatusCreated, map[string]string{"id": id})
}

// SnapshotGet returns the client-facing view of one snapshot. Malformed ids
// are indistinguishable from unknown ones.
func (a *App) SnapshotGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := a.Snapshots.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not found")
			return
		}
		a.Logger.Error().Err(err).Str("snapshot_id", id).Msg("snapshot lookup failed")
		a.error(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}
	a.json(w, http.StatusOK, view)
}

// SnapshotsList returns the most recent snapshots, newest first.
func (a *App) SnapshotsList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	items, err := a.Snapshots.ListRecent(r.Context(), limit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("snapshot listing failed")
		a.error(w, http.StatusInternalServerError, "failed to list snapshots")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"count": len(items), "items": items})
}

package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"moodtrack/internal/domain"
	"moodtrack/internal/snapshot"
)

type fakeRepo struct {
	snaps   map[string]*domain.Snapshot
	created *domain.Snapshot
	recent  []domain.Snapshot
}

func (r *fakeRepo) Create(ctx context.Context, snap *domain.Snapshot) error {
	snap.ID = "19c2b6de-0000-0000-0000-000000000001"
	r.created = snap
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*domain.Snapshot, error) {
	snap, ok := r.snaps[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return snap, nil
}

func (r *fakeRepo) ListPending(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	return nil, nil
}

func (r *fakeRepo) ListRecent(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	return r.recent, nil
}

func (r *fakeRepo) MarkAnalyzed(ctx context.Context, id string, emotions map[string]float64, mood string) error {
	return nil
}

func (r *fakeRepo) MarkNoFace(ctx context.Context, id string) error { return nil }

func (r *fakeRepo) MarkFailed(ctx context.Context, id string, message string) error { return nil }

func newTestRouter(repo *fakeRepo) http.Handler {
	logger := zerolog.New(io.Discard)
	app := NewApp(snapshot.NewService(repo, nil, logger, 20), logger)

	r := chi.NewRouter()
	r.Post("/v1/snapshots", app.SnapshotsCreate)
	r.Get("/v1/snapshots", app.SnapshotsList)
	r.Get("/v1/snapshots/{id}", app.SnapshotGet)
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestSnapshotsCreate(t *testing.T) {
	repo := &fakeRepo{}
	router := newTestRouter(repo)

	payload := `{"image_data":"data:image/png;base64,abcd","properties":{"device":"kiosk-1"}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/snapshots", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["id"] == "" || body["id"] == nil {
		t.Fatalf("response missing id: %v", body)
	}
	if repo.created == nil || repo.created.Properties["device"] != "kiosk-1" {
		t.Fatalf("stored snapshot = %+v", repo.created)
	}
}

func TestSnapshotsCreateRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantMsg string
	}{
		{name: "broken json", payload: `{"image_data":`, wantMsg: "invalid payload"},
		{name: "missing image", payload: `{"properties":{}}`, wantMsg: "image_data is required"},
		{name: "blank image", payload: `{"image_data":"   "}`, wantMsg: "image_data is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			router := newTestRouter(repo)

			req := httptest.NewRequest(http.MethodPost, "/v1/snapshots", strings.NewReader(tt.payload))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if body := decodeBody(t, rec); body["error"] != tt.wantMsg {
				t.Fatalf("error = %v, want %q", body["error"], tt.wantMsg)
			}
			if repo.created != nil {
				t.Fatal("bad payload must not create a snapshot")
			}
		})
	}
}

func TestSnapshotGet(t *testing.T) {
	processedAt := time.Date(2024, 3, 1, 9, 31, 2, 0, time.UTC)
	yes := true
	id := "19c2b6de-0000-0000-0000-000000000002"
	repo := &fakeRepo{snaps: map[string]*domain.Snapshot{
		id: {
			ID:           id,
			Processed:    true,
			FaceDetected: &yes,
			Emotions:     map[string]float64{"happiness": 0.9, "neutral": 0.1},
			Mood:         "happy",
			CreatedAt:    time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
			ProcessedAt:  &processedAt,
		},
	}}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/v1/snapshots/"+id, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["status"] != domain.StatusDone || body["mood"] != "happy" {
		t.Fatalf("unexpected body: %v", body)
	}
	if body["face_detected"] != true {
		t.Fatalf("face_detected = %v, want true", body["face_detected"])
	}
}

func TestSnapshotGetNotFound(t *testing.T) {
	router := newTestRouter(&fakeRepo{snaps: map[string]*domain.Snapshot{}})

	req := httptest.NewRequest(http.MethodGet, "/v1/snapshots/does-not-exist", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "not found" {
		t.Fatalf("error = %v, want %q", body["error"], "not found")
	}
}

func TestSnapshotsList(t *testing.T) {
	repo := &fakeRepo{recent: []domain.Snapshot{
		{ID: "b", Processed: true, Mood: "happy", CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		{ID: "a", CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
	}}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/v1/snapshots?limit=5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["count"] != float64(2) {
		t.Fatalf("count = %v, want 2", body["count"])
	}
	items, ok := body["items"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("items = %v", body["items"])
	}
	first, _ := items[0].(map[string]any)
	if first["id"] != "b" || first["status"] != domain.StatusDone {
		t.Fatalf("unexpected first item: %v", first)
	}
}

package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

func boolPtr(b bool) *bool { return &b }

func TestSnapshotStatus(t *testing.T) {
	processedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		snap Snapshot
		want string
	}{
		{
			name: "unprocessed is pending",
			snap: Snapshot{Processed: false},
			want: StatusPending,
		},
		{
			name: "processed without error is done",
			snap: Snapshot{Processed: true, ProcessedAt: &processedAt},
			want: StatusDone,
		},
		{
			name: "processed with error is error",
			snap: Snapshot{Processed: true, Error: "decode failed", ProcessedAt: &processedAt},
			want: StatusError,
		},
		{
			name: "error set but unprocessed still pending",
			snap: Snapshot{Processed: false, Error: "leftover"},
			want: StatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.snap.Status(); got != tt.want {
				t.Fatalf("Status() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestViewPendingIsSparse(t *testing.T) {
	snap := Snapshot{
		ID:        "0c7f9d1e-0000-0000-0000-000000000001",
		ImageData: "data:image/png;base64,abcd",
		CreatedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}

	view := snap.View()
	if view.Status != StatusPending {
		t.Fatalf("status = %q, want %q", view.Status, StatusPending)
	}
	if view.Processed {
		t.Fatal("processed should be false")
	}
	if view.CreatedAt != "2024-03-01T09:30:00Z" {
		t.Fatalf("created_at = %q", view.CreatedAt)
	}

	raw, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal view: %v", err)
	}
	for _, field := range []string{"mood", "emotions", "face_detected", "error", "processed_at"} {
		if strings.Contains(string(raw), `"`+field+`"`) {
			t.Fatalf("pending view leaked field %q: %s", field, raw)
		}
	}
}

func TestViewAnalyzed(t *testing.T) {
	processedAt := time.Date(2024, 3, 1, 9, 31, 2, 0, time.UTC)
	snap := Snapshot{
		ID:           "0c7f9d1e-0000-0000-0000-000000000002",
		Processed:    true,
		FaceDetected: boolPtr(true),
		Emotions:     map[string]float64{"happiness": 0.9, "neutral": 0.1},
		Mood:         "happy",
		CreatedAt:    time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		ProcessedAt:  &processedAt,
	}

	view := snap.View()
	if view.Status != StatusDone {
		t.Fatalf("status = %q, want %q", view.Status, StatusDone)
	}
	if view.Mood != "happy" {
		t.Fatalf("mood = %q", view.Mood)
	}
	if view.FaceDetected == nil || !*view.FaceDetected {
		t.Fatalf("face_detected = %v, want true", view.FaceDetected)
	}
	if view.ProcessedAt != "2024-03-01T09:31:02Z" {
		t.Fatalf("processed_at = %q", view.ProcessedAt)
	}
	if len(view.Emotions) != 2 {
		t.Fatalf("emotions = %v", view.Emotions)
	}
}

func TestViewNoFaceKeepsExplicitFalse(t *testing.T) {
	processedAt := time.Date(2024, 3, 1, 9, 31, 2, 0, time.UTC)
	snap := Snapshot{
		ID:           "0c7f9d1e-0000-0000-0000-000000000003",
		Processed:    true,
		FaceDetected: boolPtr(false),
		ProcessedAt:  &processedAt,
	}

	view := snap.View()
	if view.Status != StatusDone {
		t.Fatalf("status = %q, want %q", view.Status, StatusDone)
	}
	if view.FaceDetected == nil || *view.FaceDetected {
		t.Fatalf("face_detected = %v, want explicit false", view.FaceDetected)
	}
	if view.Mood != "" || len(view.Emotions) != 0 {
		t.Fatalf("no-face view carries mood/emotions: %+v", view)
	}

	raw, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal view: %v", err)
	}
	if !strings.Contains(string(raw), `"face_detected":false`) {
		t.Fatalf("serialized view should keep face_detected=false: %s", raw)
	}
}

func TestViewErrorPrecedence(t *testing.T) {
	processedAt := time.Date(2024, 3, 1, 9, 31, 2, 0, time.UTC)
	snap := Snapshot{
		ID:          "0c7f9d1e-0000-0000-0000-000000000004",
		Processed:   true,
		Error:       "image decode failed",
		ProcessedAt: &processedAt,
	}

	view := snap.View()
	if view.Status != StatusError {
		t.Fatalf("status = %q, want %q", view.Status, StatusError)
	}
	if view.Error != "image decode failed" {
		t.Fatalf("error = %q", view.Error)
	}
}

func TestViewIdempotent(t *testing.T) {
	processedAt := time.Date(2024, 3, 1, 9, 31, 2, 0, time.UTC)
	snap := Snapshot{
		ID:           "0c7f9d1e-0000-0000-0000-000000000005",
		Processed:    true,
		FaceDetected: boolPtr(true),
		Emotions:     map[string]float64{"surprise": 0.7, "neutral": 0.3},
		Mood:         "focused",
		CreatedAt:    time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		ProcessedAt:  &processedAt,
	}

	first := snap.View()
	second := snap.View()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("View() not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestListItem(t *testing.T) {
	snap := Snapshot{
		ID:           "0c7f9d1e-0000-0000-0000-000000000006",
		Processed:    true,
		FaceDetected: boolPtr(true),
		Mood:         "neutral",
		CreatedAt:    time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}

	item := snap.ListItem()
	if item.ID != snap.ID || !item.Processed || item.Mood != "neutral" {
		t.Fatalf("unexpected list item: %+v", item)
	}
	if item.Status != StatusDone {
		t.Fatalf("status = %q, want %q", item.Status, StatusDone)
	}
	if item.CreatedAt != "2024-03-01T09:30:00Z" {
		t.Fatalf("created_at = %q", item.CreatedAt)
	}
}

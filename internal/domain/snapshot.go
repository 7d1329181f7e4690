package domain

import "time"

// Snapshot status values derived for API clients.
const (
	StatusPending = "pending"
	StatusDone    = "done"
	StatusError   = "error"
)

// Snapshot is one submitted image plus its processing outcome. A record is
// either pending (Processed false) or terminal; terminal records carry exactly
// one of three shapes: analyzed (FaceDetected true + Emotions + Mood), no face
// (FaceDetected false), or failed (Error set).
type Snapshot struct {
	ID           string
	ImageData    string
	Processed    bool
	FaceDetected *bool
	Emotions     map[string]float64
	Mood         string
	Error        string
	Properties   map[string]any
	CreatedAt    time.Time
	ProcessedAt  *time.Time
}

// SnapshotView is the client-facing projection of a snapshot. Optional fields
// are omitted rather than null-filled; their absence is meaningful.
type SnapshotView struct {
	ID           string             `json:"id"`
	Processed    bool               `json:"processed"`
	Status       string             `json:"status"`
	CreatedAt    string             `json:"created_at,omitempty"`
	ProcessedAt  string             `json:"processed_at,omitempty"`
	Mood         string             `json:"mood,omitempty"`
	Emotions     map[string]float64 `json:"emotions,omitempty"`
	FaceDetected *bool              `json:"face_detected,omitempty"`
	Error        string             `json:"error,omitempty"`
}

// SnapshotListItem is the reduced shape used by the recent-snapshots listing.
type SnapshotListItem struct {
	ID           string `json:"id"`
	Processed    bool   `json:"processed"`
	Mood         string `json:"mood,omitempty"`
	FaceDetected *bool  `json:"face_detected,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
	Status       string `json:"status"`
}

// View projects the raw record into its client-facing shape. This is the one
// place status is derived from raw fields: pending while unprocessed, then
// error if an error message is set, otherwise done.
func (s *Snapshot) View() *SnapshotView {
	v := &SnapshotView{
		ID:           s.ID,
		Processed:    s.Processed,
		Status:       s.Status(),
		FaceDetected: s.FaceDetected,
	}
	if !s.CreatedAt.IsZero() {
		v.CreatedAt = s.CreatedAt.UTC().Format(time.RFC3339)
	}
	if s.ProcessedAt != nil && !s.ProcessedAt.IsZero() {
		v.ProcessedAt = s.ProcessedAt.UTC().Format(time.RFC3339)
	}
	if s.Mood != "" {
		v.Mood = s.Mood
	}
	if len(s.Emotions) > 0 {
		v.Emotions = s.Emotions
	}
	if s.Error != "" {
		v.Error = s.Error
	}
	return v
}

// Status derives the client-facing status. Error takes precedence over done
// when a processed record also carries an error message.
func (s *Snapshot) Status() string {
	switch {
	case !s.Processed:
		return StatusPending
	case s.Error != "":
		return StatusError
	default:
		return StatusDone
	}
}

// ListItem reduces the snapshot for the recent listing.
func (s *Snapshot) ListItem() SnapshotListItem {
	item := SnapshotListItem{
		ID:           s.ID,
		Processed:    s.Processed,
		Mood:         s.Mood,
		FaceDetected: s.FaceDetected,
		Status:       s.Status(),
	}
	if !s.CreatedAt.IsZero() {
		item.CreatedAt = s.CreatedAt.UTC().Format(time.RFC3339)
	}
	return item
}

package domain

import "context"

// SnapshotRepository defines persistence for snapshot records. It is the
// rendezvous point between the API tier and the analyzer worker; the two never
// call each other directly.
type SnapshotRepository interface {
	// Create inserts a pending record and fills in the assigned id.
	Create(ctx context.Context, snap *Snapshot) error
	// GetByID returns ErrNotFound for unknown or structurally invalid ids.
	GetByID(ctx context.Context, id string) (*Snapshot, error)
	// ListPending returns up to limit unprocessed records, oldest first.
	ListPending(ctx context.Context, limit int) ([]Snapshot, error)
	// ListRecent returns up to limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]Snapshot, error)

	// Terminal transitions. Each is a single atomic update that also stamps
	// processed and processed_at; a record reaches exactly one of these.
	MarkAnalyzed(ctx context.Context, id string, emotions map[string]float64, mood string) error
	MarkNoFace(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, message string) error
}

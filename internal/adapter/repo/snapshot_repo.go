package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"moodtrack/internal/domain"
	"moodtrack/internal/infra"
	"moodtrack/internal/sqlinline"
)

// SnapshotRepositoryPG implements domain.SnapshotRepository on PostgreSQL.
type SnapshotRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewSnapshotRepository creates a snapshot repository backed by PostgreSQL.
func NewSnapshotRepository(sql infra.SQLExecutor) *SnapshotRepositoryPG {
	return &SnapshotRepositoryPG{sql: sql}
}

// Create inserts a pending snapshot and fills in the assigned id.
func (r *SnapshotRepositoryPG) Create(ctx context.Context, snap *domain.Snapshot) error {
	props := snap.Properties
	if props == nil {
		props = map[string]any{}
	}
	propsJSON, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("marshal properties: %w", err)
	}
	createdAt := snap.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
		snap.CreatedAt = createdAt
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertSnapshot, snap.ImageData, propsJSON, createdAt)
	if err := row.Scan(&snap.ID); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// GetByID fetches a snapshot. Structurally invalid ids short-circuit to
// ErrNotFound without a database round trip.
func (r *SnapshotRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Snapshot, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	row := r.sql.QueryRow(ctx, sqlinline.QGetSnapshot, id)
	snap, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return snap, nil
}

// ListPending returns up to limit unprocessed snapshots, oldest first.
func (r *SnapshotRepositoryPG) ListPending(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	return r.list(ctx, sqlinline.QListPendingSnapshots, limit)
}

// ListRecent returns up to limit snapshots, newest first.
func (r *SnapshotRepositoryPG) ListRecent(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	return r.list(ctx, sqlinline.QListRecentSnapshots, limit)
}

func (r *SnapshotRepositoryPG) list(ctx context.Context, query string, limit int) ([]domain.Snapshot, error) {
	rows, err := r.sql.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []domain.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snaps = append(snaps, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snaps, nil
}

// MarkAnalyzed records the analyzed terminal state: a face was found and an
// emotion distribution plus mood category were computed.
func (r *SnapshotRepositoryPG) MarkAnalyzed(ctx context.Context, id string, emotions map[string]float64, mood string) error {
	emotionsJSON, err := json.Marshal(emotions)
	if err != nil {
		return fmt.Errorf("marshal emotions: %w", err)
	}
	if _, err := r.sql.Exec(ctx, sqlinline.QMarkSnapshotAnalyzed, id, emotionsJSON, mood); err != nil {
		return fmt.Errorf("mark analyzed: %w", err)
	}
	return nil
}

// MarkNoFace records the terminal state for an image with no detectable face.
func (r *SnapshotRepositoryPG) MarkNoFace(ctx context.Context, id string) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QMarkSnapshotNoFace, id); err != nil {
		return fmt.Errorf("mark no face: %w", err)
	}
	return nil
}

// MarkFailed records the failed terminal state with the processing error.
func (r *SnapshotRepositoryPG) MarkFailed(ctx context.Context, id string, message string) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QMarkSnapshotFailed, id, message); err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*domain.Snapshot, error) {
	var (
		snap         domain.Snapshot
		emotionsJSON []byte
		moodVal      *string
		errMsg       *string
		propsJSON    []byte
	)
	if err := row.Scan(
		&snap.ID,
		&snap.ImageData,
		&snap.Processed,
		&snap.FaceDetected,
		&emotionsJSON,
		&moodVal,
		&errMsg,
		&propsJSON,
		&snap.CreatedAt,
		&snap.ProcessedAt,
	); err != nil {
		return nil, err
	}
	if len(emotionsJSON) > 0 {
		if err := json.Unmarshal(emotionsJSON, &snap.Emotions); err != nil {
			return nil, fmt.Errorf("unmarshal emotions: %w", err)
		}
	}
	if len(propsJSON) > 0 {
		if err := json.Unmarshal(propsJSON, &snap.Properties); err != nil {
			return nil, fmt.Errorf("unmarshal properties: %w", err)
		}
	}
	if moodVal != nil {
		snap.Mood = *moodVal
	}
	if errMsg != nil {
		snap.Error = *errMsg
	}
	return &snap, nil
}

var _ domain.SnapshotRepository = (*SnapshotRepositoryPG)(nil)

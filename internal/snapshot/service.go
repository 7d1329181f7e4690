// Package snapshot implements the lifecycle service for mood snapshots:
// creation on behalf of API clients and projection of raw records into their
// client-facing views.
package snapshot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"moodtrack/internal/domain"
	"moodtrack/internal/infra"
	"moodtrack/internal/infra/geoip"
)

const defaultListLimit = 20

// Service creates snapshots and serves their views. It owns no state beyond
// its collaborators; everything persistent lives in the repository.
type Service struct {
	repo      domain.SnapshotRepository
	geo       geoip.CountryResolver
	logger    infra.Logger
	listLimit int
}

// NewService constructs the lifecycle service. The country resolver may be
// nil; listLimit <= 0 falls back to the default of 20.
func NewService(repo domain.SnapshotRepository, geo geoip.CountryResolver, logger infra.Logger, listLimit int) *Service {
	if listLimit <= 0 {
		listLimit = defaultListLimit
	}
	return &Service{repo: repo, geo: geo, logger: logger, listLimit: listLimit}
}

// Create inserts a pending snapshot and returns its id. Empty image data is
// rejected with domain.ErrEmptyImage before anything touches the store. Caller
// properties are merged into the record; when a geoip database is configured
// the submitter country is stamped in as well.
func (s *Service) Create(ctx context.Context, imageData string, properties map[string]any, clientIP string) (string, error) {
	if strings.TrimSpace(imageData) == "" {
		return "", domain.ErrEmptyImage
	}

	props := make(map[string]any, len(properties)+1)
	for k, v := range properties {
		props[k] = v
	}
	if s.geo != nil && clientIP != "" {
		if code, err := s.geo.CountryCode(clientIP); err == nil && code != "" {
			props["country"] = code
		}
	}

	snap := &domain.Snapshot{
		ImageData:  imageData,
		Properties: props,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, snap); err != nil {
		return "", fmt.Errorf("create snapshot: %w", err)
	}

	s.logger.Info().Str("snapshot_id", snap.ID).Msg("snapshot created")
	return snap.ID, nil
}

// Get returns the client-facing view, or domain.ErrNotFound for unknown and
// malformed ids.
func (s *Service) Get(ctx context.Context, id string) (*domain.SnapshotView, error) {
	snap, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return snap.View(), nil
}

// ListRecent returns the most recent snapshots reduced to their listing
// shape, newest first.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]domain.SnapshotListItem, error) {
	if limit <= 0 || limit > s.listLimit {
		limit = s.listLimit
	}
	snaps, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent snapshots: %w", err)
	}
	items := make([]domain.SnapshotListItem, 0, len(snaps))
	for i := range snaps {
		items = append(items, snaps[i].ListItem())
	}
	return items, nil
}

// Package worker implements the analyzer loop that turns pending snapshots
// into terminal results. It shares no state with the API tier; the snapshots
// table is the only rendezvous point.
package worker

import (
	"context"
	"fmt"
	"image"
	"time"

	"moodtrack/internal/domain"
	"moodtrack/internal/imaging"
	"moodtrack/internal/inference"
	"moodtrack/internal/infra"
	"moodtrack/internal/mood"
	"moodtrack/internal/storage"
)

// Config holds the analyzer loop knobs.
type Config struct {
	// BatchSize bounds how many pending snapshots one cycle picks up.
	BatchSize int
	// PollInterval is the sleep between cycles.
	PollInterval time.Duration
	// ErrorBackoff is the longer sleep after a cycle-level failure.
	ErrorBackoff time.Duration
}

const (
	defaultBatchSize    = 10
	defaultPollInterval = 2 * time.Second
	defaultErrorBackoff = 5 * time.Second
)

// Analyzer polls the store for pending snapshots and drives each through
// decode, face detection, emotion classification and mood categorization.
type Analyzer struct {
	repo       domain.SnapshotRepository
	detector   inference.FaceDetector
	classifier inference.EmotionClassifier
	archive    *storage.FileStore
	logger     infra.Logger
	cfg        Config
}

// New constructs an analyzer. The archive store may be nil; zero config
// values fall back to the defaults.
func New(repo domain.SnapshotRepository, detector inference.FaceDetector, classifier inference.EmotionClassifier, archive *storage.FileStore, logger infra.Logger, cfg Config) *Analyzer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = defaultErrorBackoff
	}
	return &Analyzer{
		repo:       repo,
		detector:   detector,
		classifier: classifier,
		archive:    archive,
		logger:     logger,
		cfg:        cfg,
	}
}

// Run executes processing cycles until ctx is cancelled. Per-record failures
// are contained onto the record; a cycle-level failure (store unreachable,
// etc.) is logged and followed by a longer backoff, never a crash.
func (a *Analyzer) Run(ctx context.Context) error {
	a.logger.Info().
		Int("batch_size", a.cfg.BatchSize).
		Dur("poll_interval", a.cfg.PollInterval).
		Msg("analyzer: started")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := a.processPending(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			a.logger.Error().Err(err).Msg("analyzer: cycle failed")
			if !a.sleep(ctx, a.cfg.ErrorBackoff) {
				return ctx.Err()
			}
			continue
		}

		if !a.sleep(ctx, a.cfg.PollInterval) {
			return ctx.Err()
		}
	}
}

// processPending runs one cycle: fetch a bounded batch of pending snapshots
// and process each independently.
func (a *Analyzer) processPending(ctx context.Context) error {
	snaps, err := a.repo.ListPending(ctx, a.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("list pending snapshots: %w", err)
	}

	for i := range snaps {
		snap := &snaps[i]
		if snap.ImageData == "" {
			// Payload not there yet; leave the record pending for a later
			// cycle rather than failing it.
			continue
		}
		a.processOne(ctx, snap)
	}
	return nil
}

// processOne drives a single snapshot to a terminal state. Whatever happens,
// the record does not stay pending: decode, detection and classification
// failures (including panics) are recorded as the failed terminal shape.
func (a *Analyzer) processOne(ctx context.Context, snap *domain.Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error().
				Str("snapshot_id", snap.ID).
				Interface("panic", r).
				Msg("analyzer: panic while processing snapshot")
			a.markFailed(ctx, snap.ID, fmt.Sprintf("panic: %v", r))
		}
	}()

	img, err := imaging.DecodeDataURL(snap.ImageData)
	if err != nil {
		a.markFailed(ctx, snap.ID, err.Error())
		return
	}

	faces, err := a.detector.DetectFaces(ctx, img)
	if err != nil {
		a.markFailed(ctx, snap.ID, fmt.Sprintf("face detection: %v", err))
		return
	}

	if len(faces) == 0 {
		if err := a.repo.MarkNoFace(ctx, snap.ID); err != nil {
			a.logger.Error().Err(err).Str("snapshot_id", snap.ID).Msg("analyzer: mark no face failed")
			return
		}
		a.logger.Info().Str("snapshot_id", snap.ID).Msg("analyzer: no face detected")
		return
	}

	// Use the first detected face; the detector defines the ordering.
	face := imaging.Crop(img, faces[0].Rect())
	emotions, err := a.classifier.PredictEmotion(ctx, face)
	if err != nil {
		a.markFailed(ctx, snap.ID, fmt.Sprintf("emotion inference: %v", err))
		return
	}
	if len(emotions) == 0 {
		a.markFailed(ctx, snap.ID, "emotion inference returned no distribution")
		return
	}

	category := mood.Categorize(emotions)
	if err := a.repo.MarkAnalyzed(ctx, snap.ID, emotions, category); err != nil {
		a.logger.Error().Err(err).Str("snapshot_id", snap.ID).Msg("analyzer: mark analyzed failed")
		return
	}

	a.archiveImage(ctx, snap.ID, img)
	a.logger.Info().
		Str("snapshot_id", snap.ID).
		Str("mood", category).
		Int("faces", len(faces)).
		Msg("analyzer: snapshot processed")
}

// archiveImage stores the decoded image alongside the record when an archive
// store is configured. Failures are logged and otherwise ignored; archival is
// a convenience, not part of the processing contract.
func (a *Analyzer) archiveImage(ctx context.Context, id string, img image.Image) {
	if a.archive == nil {
		return
	}
	data, err := imaging.EncodePNG(img)
	if err != nil {
		a.logger.Warn().Err(err).Str("snapshot_id", id).Msg("analyzer: encode archive image failed")
		return
	}
	if _, err := a.archive.Write(ctx, "snapshots/"+id+".png", data); err != nil {
		a.logger.Warn().Err(err).Str("snapshot_id", id).Msg("analyzer: archive image failed")
	}
}

func (a *Analyzer) markFailed(ctx context.Context, id, message string) {
	a.logger.Error().Str("snapshot_id", id).Str("error", message).Msg("analyzer: snapshot failed")
	if err := a.repo.MarkFailed(ctx, id, message); err != nil {
		a.logger.Error().Err(err).Str("snapshot_id", id).Msg("analyzer: mark failed failed")
	}
}

// sleep waits for d or until ctx is cancelled; it reports whether the full
// interval elapsed.
func (a *Analyzer) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

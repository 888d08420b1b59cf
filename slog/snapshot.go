package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/uframe"
)

var _ uframe.SnapshotService = (*LoggingSnapshotService)(nil)

// LoggingSnapshotService wraps a SnapshotService with debug logging.
type LoggingSnapshotService struct {
	next   uframe.SnapshotService
	logger *slog.Logger
}

// NewLoggingSnapshotService creates a new LoggingSnapshotService.
func NewLoggingSnapshotService(next uframe.SnapshotService, logger *slog.Logger) *LoggingSnapshotService {
	return &LoggingSnapshotService{next: next, logger: logger}
}

func (s *LoggingSnapshotService) CreateSnapshot(ctx context.Context, snap *uframe.Snapshot) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("create snapshot",
			"id", snap.ID,
			"baseUrl", snap.BaseURL,
			"bytes", len(snap.Content),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateSnapshot(ctx, snap)
}

func (s *LoggingSnapshotService) FindSnapshotByID(ctx context.Context, id string) (snap *uframe.Snapshot, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find snapshot", "id", id, "duration", time.Since(begin), "err", err)
	}(time.Now())
	return s.next.FindSnapshotByID(ctx, id)
}

func (s *LoggingSnapshotService) FindSnapshots(ctx context.Context, filter uframe.SnapshotFilter) (snaps []*uframe.Snapshot, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find snapshots", "count", len(snaps), "duration", time.Since(begin), "err", err)
	}(time.Now())
	return s.next.FindSnapshots(ctx, filter)
}

func (s *LoggingSnapshotService) DeleteSnapshot(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("delete snapshot", "id", id, "duration", time.Since(begin), "err", err)
	}(time.Now())
	return s.next.DeleteSnapshot(ctx, id)
}

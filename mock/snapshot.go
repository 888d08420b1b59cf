package mock

import (
	"context"

	"github.com/fwojciec/uframe"
)

var _ uframe.SnapshotService = (*SnapshotService)(nil)

// SnapshotService is a mock implementation of uframe.SnapshotService.
type SnapshotService struct {
	CreateSnapshotFn   func(ctx context.Context, s *uframe.Snapshot) error
	FindSnapshotByIDFn func(ctx context.Context, id string) (*uframe.Snapshot, error)
	FindSnapshotsFn    func(ctx context.Context, filter uframe.SnapshotFilter) ([]*uframe.Snapshot, error)
	DeleteSnapshotFn   func(ctx context.Context, id string) error
}

func (s *SnapshotService) CreateSnapshot(ctx context.Context, snap *uframe.Snapshot) error {
	return s.CreateSnapshotFn(ctx, snap)
}

func (s *SnapshotService) FindSnapshotByID(ctx context.Context, id string) (*uframe.Snapshot, error) {
	return s.FindSnapshotByIDFn(ctx, id)
}

func (s *SnapshotService) FindSnapshots(ctx context.Context, filter uframe.SnapshotFilter) ([]*uframe.Snapshot, error) {
	return s.FindSnapshotsFn(ctx, filter)
}

func (s *SnapshotService) DeleteSnapshot(ctx context.Context, id string) error {
	return s.DeleteSnapshotFn(ctx, id)
}

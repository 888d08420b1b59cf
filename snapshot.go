package uframe

import (
	"context"
	"time"
)

// Snapshot is a stored copy of a UFrame table of contents. Loading a catalog
// from a snapshot avoids fetching the TOC, which can take minutes on a large
// instance.
type Snapshot struct {
	ID              string    `json:"id"`
	BaseURL         string    `json:"baseUrl"`
	ContentHash     string    `json:"contentHash"`
	InstrumentCount int       `json:"instrumentCount"`
	Content         []byte    `json:"-"`
	FetchedAt       time.Time `json:"fetchedAt"`
}

// Validate returns an error if the snapshot contains invalid fields.
func (s *Snapshot) Validate() error {
	if s.BaseURL == "" {
		return Errorf(EINVALID, "snapshot base URL required")
	}
	if len(s.Content) == 0 {
		return Errorf(EINVALID, "snapshot content required")
	}
	return nil
}

// SnapshotService represents a service for managing TOC snapshots.
type SnapshotService interface {
	// CreateSnapshot stores a new snapshot. When the content is identical
	// to the newest snapshot of the same base URL, that snapshot is loaded
	// into s instead and nothing is stored.
	CreateSnapshot(ctx context.Context, s *Snapshot) error

	// FindSnapshotByID retrieves a snapshot by ID, including its content.
	// Returns ENOTFOUND if the snapshot does not exist.
	FindSnapshotByID(ctx context.Context, id string) (*Snapshot, error)

	// FindSnapshots retrieves snapshots matching the filter, newest first.
	// Content is not loaded.
	FindSnapshots(ctx context.Context, filter SnapshotFilter) ([]*Snapshot, error)

	// DeleteSnapshot permanently removes a snapshot.
	// Returns ENOTFOUND if the snapshot does not exist.
	DeleteSnapshot(ctx context.Context, id string) error
}

// SnapshotFilter represents a filter for FindSnapshots.
type SnapshotFilter struct {
	BaseURL *string `json:"baseUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

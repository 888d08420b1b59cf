package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/uframe"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ uframe.SnapshotService = (*SnapshotService)(nil)

// SnapshotService implements uframe.SnapshotService using SQLite.
type SnapshotService struct {
	db  *DB
	now func() time.Time
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(db *DB) *SnapshotService {
	return &SnapshotService{db: db, now: time.Now}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content []byte) string {
	h := xxhash.Sum64(content)
	b := make([]byte, 8)
	b[0] = byte(h >> 56)
	b[1] = byte(h >> 48)
	b[2] = byte(h >> 40)
	b[3] = byte(h >> 32)
	b[4] = byte(h >> 24)
	b[5] = byte(h >> 16)
	b[6] = byte(h >> 8)
	b[7] = byte(h)
	return hex.EncodeToString(b)
}

// CreateSnapshot stores a new snapshot, unless its content is identical to
// the newest snapshot of the same base URL.
func (s *SnapshotService) CreateSnapshot(ctx context.Context, snap *uframe.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	hash := hashContent(snap.Content)
	latest, err := s.latest(ctx, snap.BaseURL)
	if err != nil {
		return err
	}
	if latest != nil && latest.ContentHash == hash && bytes.Equal(latest.Content, snap.Content) {
		*snap = *latest
		return nil
	}

	snap.ID = uuid.New().String()
	snap.ContentHash = hash
	snap.FetchedAt = s.now().UTC()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, base_url, content_hash, instrument_count, content, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, snap.ID, snap.BaseURL, snap.ContentHash, snap.InstrumentCount, snap.Content, formatTime(snap.FetchedAt))

	return err
}

// latest returns the newest snapshot for baseURL, or nil if there is none.
func (s *SnapshotService) latest(ctx context.Context, baseURL string) (*uframe.Snapshot, error) {
	snap, err := s.scanOne(s.db.QueryRowContext(ctx, `
		SELECT id, base_url, content_hash, instrument_count, content, fetched_at
		FROM snapshots
		WHERE base_url = ?
		ORDER BY fetched_at DESC, rowid DESC
		LIMIT 1
	`, baseURL))
	if uframe.ErrorCode(err) == uframe.ENOTFOUND {
		return nil, nil
	}
	return snap, err
}

// FindSnapshotByID retrieves a snapshot by ID, including its content.
func (s *SnapshotService) FindSnapshotByID(ctx context.Context, id string) (*uframe.Snapshot, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `
		SELECT id, base_url, content_hash, instrument_count, content, fetched_at
		FROM snapshots
		WHERE id = ?
	`, id))
}

func (s *SnapshotService) scanOne(row *sql.Row) (*uframe.Snapshot, error) {
	var snap uframe.Snapshot
	var fetchedAt string

	err := row.Scan(&snap.ID, &snap.BaseURL, &snap.ContentHash, &snap.InstrumentCount, &snap.Content, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, uframe.Errorf(uframe.ENOTFOUND, "snapshot not found")
	}
	if err != nil {
		return nil, err
	}

	if snap.FetchedAt, err = parseTime(fetchedAt, "fetched_at"); err != nil {
		return nil, err
	}
	return &snap, nil
}

// FindSnapshots retrieves snapshots matching the filter, newest first.
func (s *SnapshotService) FindSnapshots(ctx context.Context, filter uframe.SnapshotFilter) ([]*uframe.Snapshot, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, base_url, content_hash, instrument_count, fetched_at FROM snapshots WHERE 1=1")

	if filter.BaseURL != nil {
		query.WriteString(" AND base_url = ?")
		args = append(args, *filter.BaseURL)
	}

	query.WriteString(" ORDER BY fetched_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snaps := []*uframe.Snapshot{}
	for rows.Next() {
		var snap uframe.Snapshot
		var fetchedAt string

		if err := rows.Scan(&snap.ID, &snap.BaseURL, &snap.ContentHash, &snap.InstrumentCount, &fetchedAt); err != nil {
			return nil, err
		}
		if snap.FetchedAt, err = parseTime(fetchedAt, "fetched_at"); err != nil {
			return nil, err
		}

		snaps = append(snaps, &snap)
	}

	return snaps, rows.Err()
}

// DeleteSnapshot permanently removes a snapshot.
func (s *SnapshotService) DeleteSnapshot(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return uframe.Errorf(uframe.ENOTFOUND, "snapshot not found")
	}

	return nil
}

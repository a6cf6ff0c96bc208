package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/prontoxi/pricesync/pkg/errors"
	"github.com/prontoxi/pricesync/pkg/logging"
	"github.com/prontoxi/pricesync/pkg/pronto"
)

// Store loads and commits whole snapshots. Load returns an empty
// snapshot when no baseline exists yet; Commit replaces the baseline
// atomically or leaves it untouched.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Commit(ctx context.Context, snap Snapshot) error
}

// Locker is implemented by stores that support an exclusive run lock.
// The engine acquires the lock before its first store access and holds
// it for the whole run.
type Locker interface {
	Lock(ctx context.Context) (release func(), err error)
}

// fileFormatVersion guards against reading snapshots written by an
// incompatible release.
const fileFormatVersion = 1

// file is the on-disk document shape.
type file struct {
	Version     int         `yaml:"version"`
	CommittedAt time.Time   `yaml:"committed_at"`
	Items       []ItemState `yaml:"items"`
}

// FileStore persists snapshots as a single YAML document, committed via
// write-to-temp, fsync and rename so a crashed run can never leave a
// torn baseline behind.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)
var _ Locker = (*FileStore)(nil)

// NewFileStore creates a file store at the given snapshot path. The
// parent directory must exist before the first commit.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the snapshot file path.
func (s *FileStore) Path() string { return s.path }

// Load reads the baseline snapshot. A missing file is the first-run
// case and yields an empty snapshot; any other failure yields
// ErrSnapshotUnavailable.
func (s *FileStore) Load(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewSnapshotError("load", s.path, err)
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		logging.Ctx(ctx).Debug().Str("path", s.path).Msg("No baseline snapshot, starting empty")
		return Snapshot{}, nil
	}
	if err != nil {
		return nil, errors.NewSnapshotError("load", s.path, err)
	}

	var doc file
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewSnapshotError("load", s.path, err)
	}
	if doc.Version != fileFormatVersion {
		return nil, errors.NewSnapshotError("load", s.path,
			fmt.Errorf("unsupported snapshot version %d", doc.Version))
	}

	snap := make(Snapshot, len(doc.Items))
	for _, state := range doc.Items {
		snap[pronto.Key(state.ItemCode)] = state
	}
	return snap, nil
}

// Commit atomically replaces the baseline with snap. On any failure the
// previous baseline stays in force and the error matches
// ErrCommitFailed.
func (s *FileStore) Commit(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return errors.NewSnapshotError("commit", s.path, err)
	}

	doc := file{
		Version:     fileFormatVersion,
		CommittedAt: time.Now().UTC(),
		Items:       snap.States(),
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return errors.NewSnapshotError("commit", s.path, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.yaml")
	if err != nil {
		return errors.NewSnapshotError("commit", s.path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.NewSnapshotError("commit", s.path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.NewSnapshotError("commit", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewSnapshotError("commit", s.path, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return errors.NewSnapshotError("commit", s.path, err)
	}

	logging.Ctx(ctx).Info().
		Str("path", s.path).
		Int("items", len(snap)).
		Msg("Snapshot committed")
	return nil
}

// Lock takes the exclusive run lock by creating a lock file next to the
// snapshot. A held lock yields ErrStoreLocked; the caller releases it
// with the returned function.
func (s *FileStore) Lock(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lockPath := s.path + ".lock"
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if os.IsExist(err) {
		return nil, fmt.Errorf("%w: %s", errors.ErrStoreLocked, lockPath)
	}
	if err != nil {
		return nil, errors.WrapIO("create", lockPath, err)
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	f.Close()

	return func() {
		if err := os.Remove(lockPath); err != nil {
			logging.Default().Warn().Err(err).Str("path", lockPath).Msg("Failed to remove run lock")
		}
	}, nil
}

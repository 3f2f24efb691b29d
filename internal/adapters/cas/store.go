// Package cas implements the content-addressed local store for repeatable
// build records.
package cas

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"

	"github.com/weft-build/weft/internal/core/domain"
)

// recordFile is the canonical serialization inside each record directory.
const recordFile = "build.yaml"

// Store implements ports.MetadataRepository on a local directory. Records
// live at <dir>/<uuid>/build.yaml; the uuid is the content hash of the
// record, so a record can never change once written.
type Store struct {
	dir  string
	mu   sync.RWMutex
	sums map[string]uint64
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{
		dir:  filepath.Clean(dir),
		sums: make(map[string]uint64),
	}
}

// Publish persists rec's canonical serialization. Re-publishing identical
// content is a no-op; a different payload under an existing uuid fails with
// domain.ErrRecordConflict.
func (s *Store) Publish(ctx context.Context, rec *domain.RepeatableBuild) error {
	data, err := rec.Canonical()
	if err != nil {
		return err
	}
	sum := xxhash.Sum64(data)

	s.mu.Lock()
	defer s.mu.Unlock()

	if known, ok := s.sums[rec.UUID]; ok {
		if known == sum {
			return nil
		}
		return zerr.With(domain.ErrRecordConflict, "uuid", rec.UUID)
	}

	path, err := s.recordPath(rec.UUID)
	if err != nil {
		return err
	}

	//nolint:gosec // Path is derived from a validated content hash
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if xxhash.Sum64(existing) != sum {
			return zerr.With(domain.ErrRecordConflict, "uuid", rec.UUID)
		}
		s.sums[rec.UUID] = sum
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return zerr.Wrap(err, "failed to read existing build record")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create record directory")
	}
	//nolint:gosec // Path is derived from a validated content hash
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return zerr.Wrap(err, "failed to write build record")
	}

	s.sums[rec.UUID] = sum
	return nil
}

// Get retrieves a previously published record.
func (s *Store) Get(ctx context.Context, uuid string) (*domain.RepeatableBuild, error) {
	path, err := s.recordPath(uuid)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // Path is derived from a validated content hash
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(domain.ErrRecordNotFound, "uuid", uuid)
		}
		return nil, zerr.Wrap(err, "failed to read build record")
	}

	return domain.ParseRepeatable(data)
}

// recordPath validates uuid as a plain path segment and returns the record
// file path. The uuid may come from a command-line argument, so it must not
// be able to address anything outside the store.
func (s *Store) recordPath(uuid string) (string, error) {
	if uuid == "" || uuid == "." || uuid == ".." ||
		strings.ContainsAny(uuid, `/\`) {
		return "", zerr.With(domain.ErrRecordNotFound, "uuid", uuid)
	}
	return filepath.Join(s.dir, uuid, recordFile), nil
}

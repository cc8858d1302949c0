// Package blob persists the entire snapshot as a single JSON document on
// disk, the local-only deployment of the persistence collaborator. Ids are
// assigned sequentially per collection (max+1).
package blob

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/goelzer/oficina/internal/models"
	"github.com/goelzer/oficina/internal/storage"
	"github.com/goelzer/oficina/internal/validate"
)

// Store is a file-backed storage.Repository. All operations serialize on one
// mutex; the file write is atomic (temp file + rename).
type Store struct {
	path string
	log  *zap.Logger

	mu   sync.Mutex
	snap *models.Snapshot
}

// Open loads the snapshot file, creating an empty one when absent. Blobs
// written by older versions may lack collections; those default to empty.
// Integrity issues found on load are logged, never fatal.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{path: path, log: log, snap: models.NewSnapshot()}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if err := s.flushLocked(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	default:
		snap := &models.Snapshot{}
		if err := json.Unmarshal(data, snap); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		snap.Normalize()
		s.snap = snap
	}

	for _, issue := range validate.IntegrityIssues(s.snap) {
		log.Warn("integrity issue", zap.String("issue", issue))
	}
	return s, nil
}

// List implements storage.Repository.
func (s *Store) List(ctx context.Context, kind models.Kind) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.snap.Records(kind)
	out := make([]models.Record, 0, len(recs))
	for _, r := range recs {
		c, err := clone(r)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Get implements storage.Repository.
func (s *Store) Get(ctx context.Context, kind models.Kind, id int64) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.snap.Find(kind, id)
	if rec == nil {
		return nil, storage.ErrNotFound
	}
	return clone(rec)
}

// Create implements storage.Repository, assigning the next sequential id.
func (s *Store) Create(ctx context.Context, kind models.Kind, rec models.Record) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := clone(rec)
	if err != nil {
		return nil, err
	}
	stored.SetRecordID(s.nextIDLocked(kind))

	recs := append(s.snap.Records(kind), stored)
	s.snap.Replace(kind, recs)
	if err := s.flushLocked(); err != nil {
		return nil, err
	}
	return clone(stored)
}

// Update implements storage.Repository.
func (s *Store) Update(ctx context.Context, kind models.Kind, id int64, rec models.Record) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.snap.Records(kind)
	for i, existing := range recs {
		if existing.RecordID() != id {
			continue
		}
		stored, err := clone(rec)
		if err != nil {
			return nil, err
		}
		stored.SetRecordID(id)
		recs[i] = stored
		s.snap.Replace(kind, recs)
		if err := s.flushLocked(); err != nil {
			return nil, err
		}
		return clone(stored)
	}
	return nil, storage.ErrNotFound
}

// Delete implements storage.Repository.
func (s *Store) Delete(ctx context.Context, kind models.Kind, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.snap.Records(kind)
	kept := make([]models.Record, 0, len(recs))
	found := false
	for _, r := range recs {
		if r.RecordID() == id {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return storage.ErrNotFound
	}
	s.snap.Replace(kind, kept)
	return s.flushLocked()
}

// Snapshot implements storage.Repository.
func (s *Store) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(s.snap)
	if err != nil {
		return nil, err
	}
	out := &models.Snapshot{}
	if err := json.Unmarshal(data, out); err != nil {
		return nil, err
	}
	out.Normalize()
	return out, nil
}

func (s *Store) nextIDLocked(kind models.Kind) int64 {
	var max int64
	for _, r := range s.snap.Records(kind) {
		if r.RecordID() > max {
			max = r.RecordID()
		}
	}
	return max + 1
}

func (s *Store) flushLocked() error {
	data, err := json.MarshalIndent(s.snap, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func clone(rec models.Record) (models.Record, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	return models.Decode(rec.RecordKind(), data)
}

// Package store holds the UI's in-memory snapshot of every collection: the
// single read path for renderers and aggregations.
package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/goelzer/oficina/internal/client"
	"github.com/goelzer/oficina/internal/models"
	"github.com/goelzer/oficina/internal/validate"
)

// Store caches the collaborator's collections. RefreshAll swaps the whole
// snapshot atomically; readers never observe a partially refreshed state.
type Store struct {
	collab client.Collaborator
	log    *zap.Logger

	mu   sync.RWMutex
	snap *models.Snapshot
}

// New creates an empty store.
func New(collab client.Collaborator, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{collab: collab, log: log, snap: models.NewSnapshot()}
}

// RefreshAll fetches every collection in parallel and replaces the snapshot.
// It fails as a unit: if any fetch errors, the previous snapshot is kept and
// the first error is returned.
func (s *Store) RefreshAll(ctx context.Context) error {
	kinds := models.Kinds()
	results := make([][]models.Record, len(kinds))
	errs := make([]error, len(kinds))

	var wg sync.WaitGroup
	for i, kind := range kinds {
		wg.Add(1)
		go func(i int, kind models.Kind) {
			defer wg.Done()
			results[i], errs[i] = s.collab.List(ctx, kind)
		}(i, kind)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			s.log.Warn("refresh failed, keeping previous snapshot",
				zap.String("kind", string(kinds[i])), zap.Error(err))
			return err
		}
	}

	next := models.NewSnapshot()
	for i, kind := range kinds {
		next.Replace(kind, results[i])
	}
	for _, issue := range validate.IntegrityIssues(next) {
		s.log.Warn("integrity issue", zap.String("issue", issue))
	}

	s.mu.Lock()
	s.snap = next
	s.mu.Unlock()
	return nil
}

// Snapshot returns the current snapshot. Callers must treat it as
// read-only; a refresh replaces rather than mutates it.
func (s *Store) Snapshot() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Get returns the current collection for a kind, empty when nothing has
// been loaded.
func (s *Store) Get(kind models.Kind) []models.Record {
	return s.Snapshot().Records(kind)
}

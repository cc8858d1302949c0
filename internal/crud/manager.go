// Package crud orchestrates the save and remove cycle shared by every
// record kind: validate, persist through the collaborator, refresh the
// store, notify. One manager replaces the per-entity handler chains the
// screens used to carry.
package crud

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/goelzer/oficina/internal/client"
	"github.com/goelzer/oficina/internal/models"
	"github.com/goelzer/oficina/internal/store"
	"github.com/goelzer/oficina/internal/validate"
)

// ValidationError carries every violated field rule; the form stays open
// for correction.
type ValidationError struct{ Messages []string }

func (e *ValidationError) Error() string { return strings.Join(e.Messages, "; ") }

// BlockedError is a delete refused by a referential guard. No mutation was
// performed.
type BlockedError struct{ Reason string }

func (e *BlockedError) Error() string { return e.Reason }

// ErrNotConfirmed is returned when the confirmation step rejects a delete.
var ErrNotConfirmed = errors.New("deletion not confirmed")

// Confirmer asks the operator to approve a destructive action. Confirmation
// is a required precondition of Remove, not optional UX sugar.
type Confirmer interface {
	Confirm(message string) bool
}

// Confirmed is a Confirmer carrying an answer already given, e.g. a form
// checkbox the operator ticked.
type Confirmed bool

func (c Confirmed) Confirm(string) bool { return bool(c) }

// Notifier surfaces operation outcomes to the operator.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// LogNotifier is the default Notifier, writing outcomes to the log.
type LogNotifier struct{ Log *zap.Logger }

func (n LogNotifier) Success(message string) { n.Log.Info("notify", zap.String("message", message)) }
func (n LogNotifier) Error(message string)   { n.Log.Warn("notify", zap.String("message", message)) }

// Manager owns the mutation path for every kind. A single mutex serializes
// saves, removes, and refreshes, so a refresh triggered elsewhere queues
// behind an in-flight write instead of racing it.
type Manager struct {
	collab   client.Collaborator
	store    *store.Store
	notifier Notifier
	log      *zap.Logger

	mu sync.Mutex
}

// NewManager wires the mutation pipeline.
func NewManager(collab client.Collaborator, st *store.Store, notifier Notifier, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	if notifier == nil {
		notifier = LogNotifier{Log: log}
	}
	return &Manager{collab: collab, store: st, notifier: notifier, log: log}
}

// Save validates and persists a record, then refreshes the store. With
// existingID zero it creates; otherwise it updates that id. Validation
// failures abort before any network call and report every violated rule.
// Collaborator failures leave the store untouched so the form can retry.
func (m *Manager) Save(ctx context.Context, kind models.Kind, rec models.Record, existingID int64) (models.Record, error) {
	if errs := validate.Record(rec); len(errs) > 0 {
		return nil, &ValidationError{Messages: errs}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var (
		saved models.Record
		err   error
	)
	if existingID != 0 {
		saved, err = m.collab.Update(ctx, kind, existingID, rec)
	} else {
		saved, err = m.collab.Create(ctx, kind, rec)
	}
	if err != nil {
		m.notifier.Error("save failed: " + err.Error())
		return nil, err
	}

	m.refreshLocked(ctx)
	m.notifier.Success("record saved")
	return saved, nil
}

// Remove deletes a record after the referential guards pass and the
// operator confirms. It never proceeds without confirmation.
func (m *Manager) Remove(ctx context.Context, kind models.Kind, id int64, confirm Confirmer) error {
	if reason, blocked := validate.DeleteGuard(m.store.Snapshot(), kind, id); blocked {
		m.notifier.Error("delete blocked: " + reason)
		return &BlockedError{Reason: reason}
	}

	if confirm == nil || !confirm.Confirm("Delete this record? This cannot be undone.") {
		return ErrNotConfirmed
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.collab.Delete(ctx, kind, id); err != nil {
		m.notifier.Error("delete failed: " + err.Error())
		return err
	}

	m.refreshLocked(ctx)
	m.notifier.Success("record removed")
	return nil
}

// RefreshAll reloads the store, queued behind any in-flight write.
func (m *Manager) RefreshAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.RefreshAll(ctx)
}

func (m *Manager) refreshLocked(ctx context.Context) {
	if err := m.store.RefreshAll(ctx); err != nil {
		m.log.Warn("refresh after mutation failed", zap.Error(err))
	}
}

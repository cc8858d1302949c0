// Package storage defines the persistence contract shared by the PostgreSQL
// and file-blob backends.
package storage

import (
	"context"
	"errors"

	"github.com/goelzer/oficina/internal/models"
)

// ErrNotFound is returned when a record id does not exist within a kind.
var ErrNotFound = errors.New("record not found")

// Repository is the persistence collaborator. Create assigns the record id
// (sequential per collection) and returns the stored record.
type Repository interface {
	List(ctx context.Context, kind models.Kind) ([]models.Record, error)
	Get(ctx context.Context, kind models.Kind, id int64) (models.Record, error)
	Create(ctx context.Context, kind models.Kind, rec models.Record) (models.Record, error)
	Update(ctx context.Context, kind models.Kind, id int64, rec models.Record) (models.Record, error)
	Delete(ctx context.Context, kind models.Kind, id int64) error

	// Snapshot loads every collection at once.
	Snapshot(ctx context.Context) (*models.Snapshot, error)
}

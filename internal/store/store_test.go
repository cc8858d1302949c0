package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goelzer/oficina/internal/dashboard"
	"github.com/goelzer/oficina/internal/models"
)

// flakyCollab serves fixed collections and can be told to fail one kind.
type flakyCollab struct {
	data     map[models.Kind][]models.Record
	failKind models.Kind
}

func (f *flakyCollab) List(_ context.Context, kind models.Kind) ([]models.Record, error) {
	if kind == f.failKind {
		return nil, errors.New("backend unavailable")
	}
	return f.data[kind], nil
}

func (f *flakyCollab) Get(context.Context, models.Kind, int64) (models.Record, error) {
	return nil, errors.New("not implemented")
}

func (f *flakyCollab) Create(context.Context, models.Kind, models.Record) (models.Record, error) {
	return nil, errors.New("not implemented")
}

func (f *flakyCollab) Update(context.Context, models.Kind, int64, models.Record) (models.Record, error) {
	return nil, errors.New("not implemented")
}

func (f *flakyCollab) Delete(context.Context, models.Kind, int64) error {
	return errors.New("not implemented")
}

func (f *flakyCollab) Dashboard(context.Context) (dashboard.Summary, error) {
	return dashboard.Summary{}, nil
}

func TestRefreshAllLoadsEveryCollection(t *testing.T) {
	collab := &flakyCollab{data: map[models.Kind][]models.Record{
		models.KindCustomer: {&models.Customer{ID: 1, Name: "Maria"}},
		models.KindVehicle:  {&models.Vehicle{ID: 1, CustomerID: 1, Plate: "ABC-1234"}},
	}}
	st := New(collab, nil)

	require.NoError(t, st.RefreshAll(context.Background()))

	assert.Len(t, st.Get(models.KindCustomer), 1)
	assert.Len(t, st.Get(models.KindVehicle), 1)
	assert.Empty(t, st.Get(models.KindPart))
}

func TestRefreshAllKeepsPreviousSnapshotOnFailure(t *testing.T) {
	collab := &flakyCollab{data: map[models.Kind][]models.Record{
		models.KindCustomer: {&models.Customer{ID: 1, Name: "Maria"}},
	}}
	st := New(collab, nil)
	require.NoError(t, st.RefreshAll(context.Background()))

	collab.data[models.KindCustomer] = append(collab.data[models.KindCustomer],
		&models.Customer{ID: 2, Name: "João"})
	collab.failKind = models.KindPart

	err := st.RefreshAll(context.Background())
	require.Error(t, err)

	// The failed refresh must not leak any partial state.
	assert.Len(t, st.Get(models.KindCustomer), 1)
}

func TestSnapshotNeverNil(t *testing.T) {
	st := New(&flakyCollab{}, nil)
	snap := st.Snapshot()
	require.NotNil(t, snap)
	assert.Empty(t, snap.Customers)
}

func TestSnapshotSwapIsAtomic(t *testing.T) {
	collab := &flakyCollab{data: map[models.Kind][]models.Record{
		models.KindCustomer: {&models.Customer{ID: 1, Name: "Maria"}},
	}}
	st := New(collab, nil)

	before := st.Snapshot()
	require.NoError(t, st.RefreshAll(context.Background()))
	after := st.Snapshot()

	assert.NotSame(t, before, after)
	assert.Empty(t, before.Customers)
	assert.Len(t, after.Customers, 1)
}

package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goelzer/oficina/internal/models"
	"github.com/goelzer/oficina/internal/storage"
)

func openStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	s, err := Open(path, nil)
	require.NoError(t, err)
	return s, path
}

func TestOpenCreatesFile(t *testing.T) {
	_, path := openStore(t)
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()

	first, err := s.Create(ctx, models.KindCustomer, &models.Customer{Name: "Maria"})
	require.NoError(t, err)
	second, err := s.Create(ctx, models.KindCustomer, &models.Customer{Name: "João"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.RecordID())
	assert.Equal(t, int64(2), second.RecordID())
}

func TestCreateAfterDeleteDoesNotReuseLiveMax(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, models.KindCustomer, &models.Customer{Name: "Maria"})
	require.NoError(t, err)
	_, err = s.Create(ctx, models.KindCustomer, &models.Customer{Name: "João"})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, models.KindCustomer, 1))

	third, err := s.Create(ctx, models.KindCustomer, &models.Customer{Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), third.RecordID())
}

func TestGetMissingRecord(t *testing.T) {
	s, _ := openStore(t)
	_, err := s.Get(context.Background(), models.KindCustomer, 42)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateMissingRecord(t *testing.T) {
	s, _ := openStore(t)
	_, err := s.Update(context.Background(), models.KindCustomer, 42, &models.Customer{Name: "Maria"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteMissingRecord(t *testing.T) {
	s, _ := openStore(t)
	assert.ErrorIs(t, s.Delete(context.Background(), models.KindCustomer, 42), storage.ErrNotFound)
}

func TestUpdateKeepsID(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, models.KindService, &models.Service{Description: "Troca de óleo", LaborValue: 80})
	require.NoError(t, err)

	updated, err := s.Update(ctx, models.KindService, created.RecordID(),
		&models.Service{Description: "Troca de óleo e filtro", LaborValue: 120})
	require.NoError(t, err)
	assert.Equal(t, created.RecordID(), updated.RecordID())
	assert.Equal(t, "Troca de óleo e filtro", updated.(*models.Service).Description)
}

func TestPersistsAcrossReopen(t *testing.T) {
	s, path := openStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, models.KindCustomer, &models.Customer{Name: "Maria"})
	require.NoError(t, err)
	_, err = s.Create(ctx, models.KindPart, &models.Part{Description: "Filtro", UnitCost: 10, SalePrice: 20})
	require.NoError(t, err)

	reopened, err := Open(path, nil)
	require.NoError(t, err)

	customers, err := reopened.List(ctx, models.KindCustomer)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Maria", customers[0].(*models.Customer).Name)

	parts, err := reopened.List(ctx, models.KindPart)
	require.NoError(t, err)
	assert.Len(t, parts, 1)
}

func TestOpenDefaultsMissingCollections(t *testing.T) {
	// Blobs written before a collection existed must load with it empty.
	path := filepath.Join(t.TempDir(), "data.json")
	legacy := `{"clientes":[{"id":1,"name":"Maria"}]}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	s, err := Open(path, nil)
	require.NoError(t, err)

	ctx := context.Background()
	customers, err := s.List(ctx, models.KindCustomer)
	require.NoError(t, err)
	assert.Len(t, customers, 1)

	for _, kind := range models.Kinds() {
		recs, err := s.List(ctx, kind)
		require.NoError(t, err)
		assert.NotNil(t, recs, "collection %s", kind)
	}
}

func TestListReturnsCopies(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, models.KindCustomer, &models.Customer{Name: "Maria"})
	require.NoError(t, err)

	recs, err := s.List(ctx, models.KindCustomer)
	require.NoError(t, err)
	recs[0].(*models.Customer).Name = "mutated"

	again, err := s.List(ctx, models.KindCustomer)
	require.NoError(t, err)
	assert.Equal(t, "Maria", again[0].(*models.Customer).Name)
}

func TestBackupAndRestore(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()
	backupDir := filepath.Join(t.TempDir(), "backups")

	_, err := s.Create(ctx, models.KindCustomer, &models.Customer{Name: "Maria"})
	require.NoError(t, err)
	require.NoError(t, s.Backup(backupDir, 5))

	_, err = s.Create(ctx, models.KindCustomer, &models.Customer{Name: "João"})
	require.NoError(t, err)

	require.NoError(t, s.RestoreLatest(backupDir))

	customers, err := s.List(ctx, models.KindCustomer)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Maria", customers[0].(*models.Customer).Name)
}

func TestRestoreRejectsTamperedBackup(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()
	backupDir := filepath.Join(t.TempDir(), "backups")

	_, err := s.Create(ctx, models.KindCustomer, &models.Customer{Name: "Maria"})
	require.NoError(t, err)
	require.NoError(t, s.Backup(backupDir, 5))

	files, err := filepath.Glob(filepath.Join(backupDir, "backup_*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	tampered := strings.Replace(string(data), "Maria", "Corra", 1)
	require.NoError(t, os.WriteFile(files[0], []byte(tampered), 0o644))

	assert.Error(t, s.RestoreLatest(backupDir))
}

func TestRestoreWithNoBackups(t *testing.T) {
	s, _ := openStore(t)
	assert.Error(t, s.RestoreLatest(t.TempDir()))
}

package blob

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goelzer/oficina/internal/models"
)

// backupDocument wraps a snapshot with provenance so a restore can verify
// the payload was not truncated or edited by hand.
type backupDocument struct {
	ID        string           `json:"id"`
	CreatedAt string           `json:"createdAt"`
	Checksum  string           `json:"checksum"`
	Data      *models.Snapshot `json:"data"`
}

// Backup writes a timestamped copy of the current snapshot into dir and
// prunes the history down to keep files, oldest first.
func (s *Store) Backup(dir string, keep int) error {
	s.mu.Lock()
	payload, err := json.Marshal(s.snap)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	snap := &models.Snapshot{}
	if err := json.Unmarshal(payload, snap); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	sum := sha256.Sum256(payload)
	doc := backupDocument{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().Format(time.RFC3339),
		Checksum:  hex.EncodeToString(sum[:]),
		Data:      snap,
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	name := fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return err
	}
	s.log.Info("backup written", zap.String("file", name), zap.String("id", doc.ID))

	return pruneBackups(dir, keep)
}

// RestoreLatest loads the most recent backup from dir and replaces the
// current snapshot with its payload after verifying the checksum.
func (s *Store) RestoreLatest(dir string) error {
	files, err := backupFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no backups in %s", dir)
	}
	latest := files[len(files)-1]

	data, err := os.ReadFile(latest)
	if err != nil {
		return err
	}
	var doc backupDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode backup %s: %w", latest, err)
	}
	if doc.Data == nil {
		return fmt.Errorf("backup %s has no payload", latest)
	}

	payload, err := json.Marshal(doc.Data)
	if err != nil {
		return err
	}
	sum := sha256.Sum256(payload)
	if doc.Checksum != "" && doc.Checksum != hex.EncodeToString(sum[:]) {
		return fmt.Errorf("backup %s failed checksum verification", latest)
	}

	doc.Data.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = doc.Data
	return s.flushLocked()
}

func backupFiles(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "backup_*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

func pruneBackups(dir string, keep int) error {
	if keep <= 0 {
		return nil
	}
	files, err := backupFiles(dir)
	if err != nil {
		return err
	}
	for len(files) > keep {
		if err := os.Remove(files[0]); err != nil {
			return err
		}
		files = files[1:]
	}
	return nil
}

// Package backup keeps rotating JSON snapshots of the journal blob on disk,
// independent of which storage backend holds the live copy.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/murmur/internal/constants"
	"github.com/julianstephens/murmur/internal/logger"
	"github.com/julianstephens/murmur/internal/models"
	"github.com/julianstephens/murmur/internal/storage"
)

const timestampFormat = "20060102-150405"

// BackupInfo describes one snapshot file.
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

func (b BackupInfo) Name() string {
	return filepath.Base(b.Path)
}

// Manager handles snapshot operations for one journal.
type Manager struct {
	store     *storage.EntryStore
	backupDir string
	max       int
	now       func() time.Time
}

// NewManager stores snapshots under <dataDir>/backups and keeps at most max.
// A max below 1 falls back to the default.
func NewManager(store *storage.EntryStore, dataDir string, max int) *Manager {
	if max < 1 {
		max = constants.MaxBackups
	}
	return &Manager{
		store:     store,
		backupDir: filepath.Join(dataDir, constants.BackupDirName),
		max:       max,
		now:       time.Now,
	}
}

func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// CreateBackup snapshots the stored journal and rotates old snapshots. It
// returns "" when there is nothing stored yet.
func (m *Manager) CreateBackup(ctx context.Context) (string, error) {
	return m.createBackup(ctx, true)
}

func (m *Manager) createBackup(ctx context.Context, rotate bool) (string, error) {
	blob, err := m.store.Raw(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read journal: %w", err)
	}
	if blob == nil {
		return "", nil
	}

	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.nextPath()
	if err != nil {
		return "", err
	}
	if err := writeFileAtomic(path, blob); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	logger.Info("Backup created", "path", path, "bytes", len(blob))

	if rotate {
		if err := m.rotateBackups(); err != nil {
			// A rotation failure leaves extra files, not a broken backup
			logger.Warn("Failed to rotate old backups", "error", err)
		}
	}
	return path, nil
}

// nextPath picks an unused file name, adding a counter when two snapshots
// land in the same second.
func (m *Manager) nextPath() (string, error) {
	stamp := m.now().Format(timestampFormat)
	path := filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		name := fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, stamp, counter, constants.BackupFileSuffix)
		path = filepath.Join(m.backupDir, name)
	}
}

// ListBackups returns the snapshots newest first.
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stamp, counter, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: stamp.Add(time.Duration(counter) * time.Nanosecond),
			Size:      info.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseName extracts the timestamp and collision counter from a snapshot
// file name. The counter only orders snapshots within one second.
func parseName(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, 0, false
	}
	rest := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	counter := 0
	if len(rest) > len(timestampFormat) && rest[len(timestampFormat)] == '-' {
		n, err := strconv.Atoi(rest[len(timestampFormat)+1:])
		if err != nil {
			return time.Time{}, 0, false
		}
		counter = n
		rest = rest[:len(timestampFormat)]
	}

	stamp, err := time.ParseInLocation(timestampFormat, rest, time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	return stamp, counter, true
}

func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := m.max; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// RestoreBackup replaces the stored journal with the snapshot at path after
// validating it and snapshotting the current state. Callers holding a
// journal must reload it afterwards.
func (m *Manager) RestoreBackup(ctx context.Context, path string) ([]models.JournalEntry, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}

	if _, err := m.createBackup(ctx, false); err != nil {
		return nil, fmt.Errorf("failed to backup current journal before restore: %w", err)
	}

	entries, err := m.store.Replace(ctx, blob)
	if err != nil {
		return nil, fmt.Errorf("backup %s is invalid: %w", filepath.Base(path), err)
	}
	logger.Info("Backup restored", "path", path, "entries", len(entries))
	return entries, nil
}

// Resolve maps a snapshot name (or unique prefix of one) to its path. An
// existing file path is returned unchanged.
func (m *Manager) Resolve(nameOrPath string) (string, error) {
	if _, err := os.Stat(nameOrPath); err == nil {
		return nameOrPath, nil
	}

	backups, err := m.ListBackups()
	if err != nil {
		return "", err
	}
	var matches []string
	for _, b := range backups {
		if b.Name() == nameOrPath {
			return b.Path, nil
		}
		if strings.HasPrefix(b.Name(), nameOrPath) || strings.HasPrefix(b.Name(), constants.BackupFilePrefix+nameOrPath) {
			matches = append(matches, b.Path)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no backup matches %q", nameOrPath)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q matches %d backups, be more specific", nameOrPath, len(matches))
	}
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".backup-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

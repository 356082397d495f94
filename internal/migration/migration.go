// Package migration brings the key-value schema up to date from numbered SQL
// files (NNN_name.sql) embedded in the binary. Every applied file leaves a
// row in schema_version, so the highest row is the current version.
package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrSchemaTooNew = errors.New("database schema is newer than this build of murmur")
	ErrSchemaBehind = errors.New("database schema has unapplied migrations")
)

const historyTable = `CREATE TABLE IF NOT EXISTS schema_version (
	version    INTEGER PRIMARY KEY,
	applied_at TEXT NOT NULL
)`

type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Runner works against any sqlx driver; statements are rebound to the
// driver's placeholder style.
type Runner struct {
	db   *sqlx.DB
	fsys fs.FS
}

func NewRunner(db *sqlx.DB, fsys fs.FS) *Runner {
	return &Runner{db: db, fsys: fsys}
}

func parseFileName(name string) (int, string, error) {
	prefix, rest, ok := strings.Cut(strings.TrimSuffix(name, ".sql"), "_")
	if !ok || rest == "" {
		return 0, "", fmt.Errorf("migration %s: name must look like 001_description.sql", name)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil || version < 1 {
		return 0, "", fmt.Errorf("migration %s: %q is not a positive version", name, prefix)
	}
	return version, rest, nil
}

// Migrations lists the embedded files in version order.
func (r *Runner) Migrations() ([]Migration, error) {
	files, err := fs.ReadDir(r.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("listing migrations: %w", err)
	}

	var out []Migration
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".sql") {
			continue
		}
		version, name, err := parseFileName(f.Name())
		if err != nil {
			return nil, err
		}
		body, err := fs.ReadFile(r.fsys, f.Name())
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", f.Name(), err)
		}
		out = append(out, Migration{Version: version, Name: name, SQL: string(body)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	for i := 1; i < len(out); i++ {
		if out[i].Version == out[i-1].Version {
			return nil, fmt.Errorf("migrations %s and %s share version %d", out[i-1].Name, out[i].Name, out[i].Version)
		}
	}
	return out, nil
}

// Current is the highest applied version, 0 for an empty database.
func (r *Runner) Current() (int, error) {
	if _, err := r.db.Exec(historyTable); err != nil {
		return 0, fmt.Errorf("creating schema_version: %w", err)
	}
	var version int
	if err := r.db.Get(&version, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// status compares the database against the embedded files.
func (r *Runner) status() (current int, pending []Migration, latest int, err error) {
	if current, err = r.Current(); err != nil {
		return 0, nil, 0, err
	}
	all, err := r.Migrations()
	if err != nil {
		return 0, nil, 0, err
	}
	if len(all) > 0 {
		latest = all[len(all)-1].Version
	}
	if current > latest {
		return current, nil, latest, fmt.Errorf("%w (database %d, murmur %d)", ErrSchemaTooNew, current, latest)
	}
	for _, m := range all {
		if m.Version > current {
			pending = append(pending, m)
		}
	}
	return current, pending, latest, nil
}

// Apply runs every pending migration, each in its own transaction together
// with its schema_version row. It returns how many were applied; on failure
// the earlier ones stay applied.
func (r *Runner) Apply(progress func(string)) (int, error) {
	if progress == nil {
		progress = func(string) {}
	}

	current, pending, latest, err := r.status()
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		progress(fmt.Sprintf("Schema at version %d, nothing to apply", current))
		return 0, nil
	}

	progress(fmt.Sprintf("Migrating schema %d -> %d", current, latest))
	record := r.db.Rebind("INSERT INTO schema_version (version, applied_at) VALUES (?, ?)")
	for i, m := range pending {
		if err := r.applyOne(m, record); err != nil {
			return i, err
		}
		progress(fmt.Sprintf("Applied %03d_%s", m.Version, m.Name))
	}
	return len(pending), nil
}

func (r *Runner) applyOne(m Migration, record string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("migration %03d_%s: %w", m.Version, m.Name, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.SQL); err != nil {
		return fmt.Errorf("migration %03d_%s: %w", m.Version, m.Name, err)
	}
	if _, err := tx.Exec(record, m.Version, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("recording migration %03d_%s: %w", m.Version, m.Name, err)
	}
	return tx.Commit()
}

// Check fails with ErrSchemaTooNew or ErrSchemaBehind unless the database is
// exactly at the latest embedded version.
func (r *Runner) Check() error {
	current, pending, latest, err := r.status()
	if err != nil {
		return err
	}
	if len(pending) > 0 {
		return fmt.Errorf("%w (database %d, murmur %d): run 'murmur init'", ErrSchemaBehind, current, latest)
	}
	return nil
}

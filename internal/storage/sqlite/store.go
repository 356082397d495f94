package sqlite

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/murmur/internal/constants"
	"github.com/julianstephens/murmur/internal/logger"
	"github.com/julianstephens/murmur/internal/migration"
	"github.com/julianstephens/murmur/internal/storage/sqlkv"
	"github.com/julianstephens/murmur/migrations"
)

var ErrNotInitialized = errors.New("storage not initialized, run '" + constants.AppName + " init' first")

type Store struct {
	path string
	db   *sqlx.DB
	kv   *sqlkv.Table
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

// Init creates the database file if needed and applies pending migrations.
func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := s.open(); err != nil {
		return err
	}

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return ErrNotInitialized
	}

	if err := s.open(); err != nil {
		return err
	}

	return s.validateSchemaVersion()
}

func (s *Store) open() error {
	if s.db != nil {
		return nil
	}

	db, err := sqlx.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps the busy timeout and WAL pragma in effect for
	// every statement.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{"PRAGMA busy_timeout = 5000", "PRAGMA journal_mode = WAL"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return fmt.Errorf("failed to configure database: %w", err)
		}
	}

	s.db = db
	s.kv = sqlkv.New(db)
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.kv = nil
	return err
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS), nil
}

func (s *Store) runMigrations() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	_, err = runner.Apply(func(msg string) {
		logger.Info(msg, "backend", constants.BackendSQLite)
	})
	return err
}

func (s *Store) validateSchemaVersion() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.Check()
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying connection, nil before Init or Load.
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

func (s *Store) table() (*sqlkv.Table, error) {
	if s.kv == nil {
		return nil, ErrNotInitialized
	}
	return s.kv, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	t, err := s.table()
	if err != nil {
		return nil, err
	}
	return t.Get(ctx, key)
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	t, err := s.table()
	if err != nil {
		return err
	}
	return t.Set(ctx, key, value)
}

func (s *Store) Remove(ctx context.Context, key string) error {
	t, err := s.table()
	if err != nil {
		return err
	}
	return t.Remove(ctx, key)
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	t, err := s.table()
	if err != nil {
		return nil, err
	}
	return t.Keys(ctx)
}

func (s *Store) Records(ctx context.Context) ([]sqlkv.Record, error) {
	t, err := s.table()
	if err != nil {
		return nil, err
	}
	return t.Records(ctx)
}

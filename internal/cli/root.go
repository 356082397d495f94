package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/murmur/internal/backup"
	"github.com/julianstephens/murmur/internal/config"
	"github.com/julianstephens/murmur/internal/constants"
	"github.com/julianstephens/murmur/internal/journal"
	"github.com/julianstephens/murmur/internal/lock"
	"github.com/julianstephens/murmur/internal/logger"
	"github.com/julianstephens/murmur/internal/quota"
	"github.com/julianstephens/murmur/internal/retention"
	"github.com/julianstephens/murmur/internal/storage"
	"github.com/julianstephens/murmur/internal/storage/diskv"
	"github.com/julianstephens/murmur/internal/storage/postgres"
	"github.com/julianstephens/murmur/internal/storage/sqlite"
	"github.com/julianstephens/murmur/internal/subscription"
	"github.com/julianstephens/murmur/internal/utils"
)

type Context struct {
	Config       *config.Config
	Store        storage.Provider
	Entries      *storage.EntryStore
	Journal      *journal.Journal
	Subscription *subscription.Service
	Gate         *quota.Gate
	Backups      *backup.Manager
	Sweeper      *retention.Sweeper
	Lock         *lock.WriterLock
	Clock        utils.Clock
	// ConfigPath is where init writes the config file.
	ConfigPath string

	ctx context.Context
}

// NewProvider picks the storage backend named in cfg.
func NewProvider(cfg *config.Config) (storage.Provider, error) {
	switch cfg.Storage.Backend {
	case constants.BackendSQLite, "":
		return sqlite.NewStore(cfg.Storage.Path), nil
	case constants.BackendDiskv:
		return diskv.NewStore(cfg.Storage.Path), nil
	case constants.BackendPostgres:
		connStr, err := cfg.ConnectionString()
		if err != nil {
			return nil, err
		}
		// Passwords are only accepted from the environment or the keyring,
		// never from the config file.
		if err := postgres.ValidateConnString(connStr); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) || cfg.Storage.DSN != "" {
				return nil, err
			}
		}
		return postgres.New(connStr), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// NewContext wires the journal services over store. The store is not loaded.
func NewContext(ctx context.Context, cfg *config.Config, store storage.Provider) (*Context, error) {
	loc, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	clock := utils.NewSystemClock(loc)

	entries := storage.NewEntryStore(store)
	writerLock := lock.New(cfg.DataDir)
	j := journal.New(entries, clock, journal.WithLocker(writerLock))
	subs := subscription.NewService(store, clock)
	backups := backup.NewManager(entries, cfg.DataDir, cfg.Backup.Max)

	return &Context{
		Config:       cfg,
		Store:        store,
		Entries:      entries,
		Journal:      j,
		Subscription: subs,
		Gate:         quota.NewGate(subs, cfg.Quota.FreeDailyLimit),
		Backups:      backups,
		Sweeper:      retention.NewSweeper(j, clock, cfg.Retention.Days, backups),
		Lock:         writerLock,
		Clock:        clock,
		ctx:          ctx,
	}, nil
}

// Context returns the context commands should pass to blocking calls.
func (c *Context) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// LoadJournal reads the stored entries and, when enabled, purges expired
// deleted entries.
func (c *Context) LoadJournal() error {
	result, err := c.Journal.Load(c.Context())
	if err != nil {
		return err
	}
	if n := len(result.Quarantined); n > 0 {
		fmt.Fprintf(os.Stderr, "⚠ %d malformed journal record(s) were quarantined. Run '%s doctor' for details.\n", n, constants.AppName)
	}

	if c.Config != nil && c.Config.Retention.AutoPurge {
		purged, err := c.Sweeper.Sweep(c.Context())
		if err != nil {
			logger.Warn("Automatic purge failed", "error", err)
		} else if len(purged) > 0 {
			logger.Info("Purged expired deleted entries", "count", len(purged))
		}
	}
	return nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if _, err := c.Backups.CreateBackup(c.Context()); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

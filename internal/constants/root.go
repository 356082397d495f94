package constants

import "time"

const (
	AppName            = "murmur"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/murmur"
	DefaultConfigFile  = "config.yaml"
	DefaultDBPath      = "~/.config/murmur/murmur.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat is used for calendar month arguments (YYYY-MM)
	MonthFormat = "2006-01"

	// Storage keys
	EntriesKey      = "journal_entries"
	QuarantineKey   = "journal_entries.quarantine"
	SubscriptionKey = "subscription"

	// Storage backends
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendDiskv    = "diskv"

	// Quota constants
	DefaultFreeDailyLimit = 10

	// Retention constants
	DefaultRetentionDays = 30
	DefaultAutoPurge     = false

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "murmur-"
	BackupFileSuffix = ".json"

	// Lock constants
	WriterLockfileName = "murmur-writer.lock"
	LockRetryDelay     = 50 * time.Millisecond

	// TUIReloadInterval is how often the TUI picks up writes from other processes
	TUIReloadInterval = 2 * time.Second

	// Env
	EnvPrefix       = "MURMUR"
	EnvDBConnection = "MURMUR_DB_CONNECTION"
)

// Package config loads murmur's YAML configuration with environment
// overrides (MURMUR_STORAGE_BACKEND, MURMUR_QUOTA_FREE_DAILY_LIMIT, ...).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/julianstephens/murmur/internal/constants"
	"github.com/julianstephens/murmur/internal/keyring"
	"github.com/julianstephens/murmur/internal/utils"
)

type StorageConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
	// Path is the SQLite file or diskv directory. Empty picks a default
	// inside the data directory.
	Path string `mapstructure:"path" yaml:"path"`
	// DSN is a PostgreSQL connection string without a password.
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

type QuotaConfig struct {
	FreeDailyLimit int `mapstructure:"free_daily_limit" yaml:"free_daily_limit"`
}

type RetentionConfig struct {
	Days      int  `mapstructure:"days" yaml:"days"`
	AutoPurge bool `mapstructure:"auto_purge" yaml:"auto_purge"`
}

type BackupConfig struct {
	Max int `mapstructure:"max" yaml:"max"`
}

type LogConfig struct {
	Debug bool `mapstructure:"debug" yaml:"debug"`
}

type Config struct {
	DataDir   string          `mapstructure:"data_dir" yaml:"data_dir"`
	Timezone  string          `mapstructure:"timezone" yaml:"timezone"`
	Storage   StorageConfig   `mapstructure:"storage" yaml:"storage"`
	Quota     QuotaConfig     `mapstructure:"quota" yaml:"quota"`
	Retention RetentionConfig `mapstructure:"retention" yaml:"retention"`
	Backup    BackupConfig    `mapstructure:"backup" yaml:"backup"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`

	// File is the config file that was read, empty when defaults were used.
	File string `mapstructure:"-" yaml:"-"`
}

// DefaultPath returns ~/.config/murmur/config.yaml expanded.
func DefaultPath() string {
	path, err := homedir.Expand(filepath.Join(constants.DefaultConfigDir, constants.DefaultConfigFile))
	if err != nil {
		return constants.DefaultConfigFile
	}
	return path
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", constants.DefaultConfigDir)
	v.SetDefault("timezone", "Local")
	v.SetDefault("storage.backend", constants.BackendSQLite)
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.dsn", "")
	v.SetDefault("quota.free_daily_limit", constants.DefaultFreeDailyLimit)
	v.SetDefault("retention.days", constants.DefaultRetentionDays)
	v.SetDefault("retention.auto_purge", constants.DefaultAutoPurge)
	v.SetDefault("backup.max", constants.MaxBackups)
	v.SetDefault("log.debug", false)
}

// Load reads path (missing files are fine), applies MURMUR_* overrides and
// validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("failed to expand config path %s: %w", path, err)
		}
		v.SetConfigFile(expanded)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("reading config %s: %w", expanded, err)
			}
		} else {
			cfg.File = expanded
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) expandPaths() error {
	dataDir, err := homedir.Expand(c.DataDir)
	if err != nil {
		return fmt.Errorf("failed to expand data_dir: %w", err)
	}
	c.DataDir = dataDir

	if c.Storage.Path == "" {
		switch c.Storage.Backend {
		case constants.BackendSQLite:
			c.Storage.Path = filepath.Join(c.DataDir, constants.AppName+".db")
		case constants.BackendDiskv:
			c.Storage.Path = filepath.Join(c.DataDir, "journal")
		}
		return nil
	}

	path, err := homedir.Expand(c.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to expand storage.path: %w", err)
	}
	c.Storage.Path = path
	return nil
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case constants.BackendSQLite, constants.BackendPostgres, constants.BackendDiskv:
	default:
		return fmt.Errorf("invalid storage.backend %q (expected sqlite|postgres|diskv)", c.Storage.Backend)
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}
	if c.Quota.FreeDailyLimit < 1 {
		return fmt.Errorf("quota.free_daily_limit must be at least 1, got %d", c.Quota.FreeDailyLimit)
	}
	if c.Retention.Days < 0 {
		return fmt.Errorf("retention.days must not be negative, got %d", c.Retention.Days)
	}
	if c.Backup.Max < 1 {
		return fmt.Errorf("backup.max must be at least 1, got %d", c.Backup.Max)
	}
	return nil
}

// ConnectionString resolves the PostgreSQL DSN from, in order, the config
// file, MURMUR_DB_CONNECTION and the OS keyring.
func (c *Config) ConnectionString() (string, error) {
	if c.Storage.DSN != "" {
		return c.Storage.DSN, nil
	}
	if env := os.Getenv(constants.EnvDBConnection); env != "" {
		return env, nil
	}
	dsn, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("no PostgreSQL connection configured: set storage.dsn, %s, or run '%s keyring set'", constants.EnvDBConnection, constants.AppName)
		}
		return "", err
	}
	return dsn, nil
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.Set("data_dir", cfg.DataDir)
	v.Set("timezone", cfg.Timezone)
	v.Set("storage.backend", cfg.Storage.Backend)
	v.Set("storage.path", cfg.Storage.Path)
	v.Set("storage.dsn", cfg.Storage.DSN)
	v.Set("quota.free_daily_limit", cfg.Quota.FreeDailyLimit)
	v.Set("retention.days", cfg.Retention.Days)
	v.Set("retention.auto_purge", cfg.Retention.AutoPurge)
	v.Set("backup.max", cfg.Backup.Max)
	v.Set("log.debug", cfg.Log.Debug)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/murmur/internal/cli"
	"github.com/julianstephens/murmur/internal/cli/account"
	"github.com/julianstephens/murmur/internal/cli/backups"
	"github.com/julianstephens/murmur/internal/cli/entries"
	"github.com/julianstephens/murmur/internal/cli/system"
	"github.com/julianstephens/murmur/internal/config"
	"github.com/julianstephens/murmur/internal/constants"
	"github.com/julianstephens/murmur/internal/errors"
	"github.com/julianstephens/murmur/internal/journal"
	"github.com/julianstephens/murmur/internal/logger"
	"github.com/julianstephens/murmur/internal/storage"
	"github.com/julianstephens/murmur/internal/storage/postgres"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"~/.config/murmur/config.yaml"`
	Debug   bool   `help:"Enable debug logging to stderr."`

	Init     system.InitCmd      `cmd:"" help:"Initialize murmur storage and write a default config."`
	Add      entries.AddCmd      `cmd:"" help:"Add a journal entry."`
	List     entries.ListCmd     `cmd:"" help:"List entries for a day." default:"1"`
	Show     entries.ShowCmd     `cmd:"" help:"Show one entry."`
	Archive  entries.ArchiveCmd  `cmd:"" help:"Archive an entry to the calendar."`
	Delete   entries.DeleteCmd   `cmd:"" help:"Delete an entry."`
	Restore  entries.RestoreCmd  `cmd:"" help:"Restore a deleted entry."`
	Clear    entries.ClearCmd    `cmd:"" help:"Permanently remove every entry."`
	Purge    entries.PurgeCmd    `cmd:"" help:"Permanently remove entries deleted longer ago than the retention window."`
	Calendar entries.CalendarCmd `cmd:"" help:"Show a month with days marked by entry state."`
	Export   entries.ExportCmd   `cmd:"" help:"Export entries to a text or RTF document."`
	Quota    account.QuotaCmd    `cmd:"" help:"Show today's entry allowance."`

	Subscription account.SubscriptionCmd `cmd:"" help:"Manage the subscription plan."`
	Backup       struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage journal backups."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Browse the journal interactively."`
	Mcp     system.McpCmd     `cmd:"" help:"Serve the journal as MCP tools over stdio."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Voice journal entry lifecycle: capture, archive, delete, restore"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	command := ctx.Command()

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Debug {
		cfg.Log.Debug = true
	}
	if err := logger.Init(logger.Config{Debug: cfg.Log.Debug, DataDir: cfg.DataDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Keyring commands must work before a PostgreSQL connection exists
	var store storage.Provider
	store, err = cli.NewProvider(cfg)
	if err != nil && !strings.HasPrefix(command, "keyring") {
		errors.Fatal(withHint(err))
	}
	if store == nil {
		store = storage.NewMemoryStore()
	}
	defer store.Close()

	appCtx, err := cli.NewContext(runCtx, cfg, store)
	if err != nil {
		errors.Fatal(err)
	}
	appCtx.ConfigPath = CLI.Config

	// Init and doctor handle their own loading
	switch {
	case strings.HasPrefix(command, "init"), strings.HasPrefix(command, "doctor"), strings.HasPrefix(command, "keyring"):
	default:
		if err := store.Load(); err != nil {
			errors.Fatal(withHint(err))
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		errors.Fatal(withHint(err))
	}
}

// withHint attaches the next step a user can take for well-known failures.
func withHint(err error) error {
	switch {
	case stderrors.Is(err, journal.ErrQuotaExceeded):
		return errors.WithHint(err, "run 'murmur subscription upgrade' for unlimited entries")
	case stderrors.Is(err, postgres.ErrEmbeddedCredentials):
		return errors.WithHint(err, "store the password with 'murmur keyring set' or MURMUR_DB_CONNECTION instead")
	default:
		return err
	}
}

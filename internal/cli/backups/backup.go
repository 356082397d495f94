package backups

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/murmur/internal/cli"
)

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	backupPath, err := ctx.Backups.CreateBackup(ctx.Context())
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	if backupPath == "" {
		fmt.Println("Nothing to back up yet.")
		return nil
	}

	fmt.Printf("✓ Backup created: %s\n", backupPath)
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	backups, err := ctx.Backups.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Println("No backups found.")
		fmt.Printf("Backups are stored in: %s\n", ctx.Backups.GetBackupDir())
		return nil
	}

	fmt.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), ctx.Config.Backup.Max)
	for _, b := range backups {
		fmt.Printf("  %s  %s  (%s, %s)\n",
			b.Timestamp.Format("2006-01-02 15:04:05"),
			b.Name(),
			humanize.Bytes(uint64(b.Size)),
			humanize.Time(b.Timestamp),
		)
	}
	fmt.Printf("\nBackup directory: %s\n", ctx.Backups.GetBackupDir())

	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path, filename or timestamp prefix of the backup to restore."`
	Yes        bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	backupPath, err := ctx.Backups.Resolve(c.BackupFile)
	if err != nil {
		return err
	}

	if !c.Yes {
		confirmed := false
		err := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Replace the journal with this backup?").
				Description(fmt.Sprintf("Restore from: %s\nA backup of the current journal is created first.", backupPath)).
				Affirmative("Restore").
				Negative("Cancel").
				Value(&confirmed),
		)).WithTheme(huh.ThemeDracula()).Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Restore cancelled.")
			return nil
		}
	}

	unlock, err := ctx.Lock.Lock(ctx.Context())
	if err != nil {
		return err
	}
	restored, err := ctx.Backups.RestoreBackup(ctx.Context(), backupPath)
	unlock()
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	if _, err := ctx.Journal.Load(ctx.Context()); err != nil {
		return err
	}
	fmt.Printf("✓ Journal restored (%d entries)\n", len(restored))
	return nil
}

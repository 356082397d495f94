package system

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/murmur/internal/cli"
	"github.com/julianstephens/murmur/internal/constants"
	"github.com/julianstephens/murmur/internal/storage/sqlkv"
)

// recordLister is implemented by the SQL-backed stores.
type recordLister interface {
	Records(ctx context.Context) ([]sqlkv.Record, error)
}

type DoctorCmd struct{}

type check struct {
	name string
	// requiresStore skips the check when storage is unreachable.
	requiresStore bool
	// warnOnly reports a failure without failing the command.
	warnOnly bool
	run      func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Storage reachable", run: checkStoreReachable},
	{name: "Stored keys", requiresStore: true, run: checkStoredKeys},
	{name: "Journal integrity", requiresStore: true, run: checkJournalIntegrity},
	{name: "Quarantine empty", requiresStore: true, warnOnly: true, run: checkQuarantine},
	{name: "Backups present", requiresStore: true, warnOnly: true, run: checkBackupsPresent},
	{name: "Writer lock", warnOnly: true, run: checkWriterLock},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	storeReachable := true

	for _, c := range checks {
		if c.requiresStore && !storeReachable {
			fmt.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
			if c.name == "Storage reachable" {
				storeReachable = false
			}
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage at %s: %w", ctx.Store.GetConfigPath(), err)
	}
	return nil
}

func checkStoredKeys(ctx *cli.Context) error {
	if lister, ok := ctx.Store.(recordLister); ok {
		records, err := lister.Records(ctx.Context())
		if err != nil {
			return fmt.Errorf("failed to list records: %w", err)
		}
		for _, r := range records {
			fmt.Printf("   %s  rev %d  %s  updated %s\n", r.Key, r.Revision, humanize.Bytes(uint64(r.Size)), r.UpdatedAt)
		}
		return nil
	}

	keys, err := ctx.Store.Keys(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	for _, k := range keys {
		fmt.Printf("   %s\n", k)
	}
	return nil
}

func checkJournalIntegrity(ctx *cli.Context) error {
	result, err := ctx.Journal.Load(ctx.Context())
	if err != nil {
		return err
	}
	if n := len(result.Quarantined); n > 0 {
		fmt.Printf("   Quarantined %d malformed record(s) during this check\n", n)
	}
	fmt.Printf("   %d valid entries\n", len(result.Entries))
	return nil
}

func checkQuarantine(ctx *cli.Context) error {
	quarantined, err := ctx.Entries.Quarantine(ctx.Context())
	if err != nil {
		return err
	}
	if len(quarantined) == 0 {
		return nil
	}
	for _, q := range quarantined {
		fmt.Printf("   %s  %s\n", q.QuarantinedAt.Format(time.RFC3339), q.Reason)
	}
	return fmt.Errorf("%d record(s) held in %s", len(quarantined), constants.QuarantineKey)
}

func checkBackupsPresent(ctx *cli.Context) error {
	backups, err := ctx.Backups.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'murmur backup create'")
	}
	return nil
}

func checkWriterLock(ctx *cli.Context) error {
	held, err := ctx.Lock.Held()
	if err != nil {
		return fmt.Errorf("lock file %s is unusable: %w", ctx.Lock.Path(), err)
	}
	if !held {
		return nil
	}
	holder, err := ctx.Lock.Holder()
	if err != nil {
		return fmt.Errorf("held by an unrecorded process")
	}
	return fmt.Errorf("held by %s (pid %d) since %s", holder.Executable, holder.PID, humanize.Time(holder.AcquiredAt))
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Clock.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	fmt.Printf("   %s (%s)\n", now.Format(time.RFC3339), ctx.Clock.Location())
	return nil
}

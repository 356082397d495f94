package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/murmur/internal/cli"
	"github.com/julianstephens/murmur/internal/config"
	"github.com/julianstephens/murmur/internal/constants"
)

type InitCmd struct {
	Force bool `help:"Delete the existing local journal before initialization. A backup is taken first."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized murmur storage at: %s\n", ctx.Store.GetConfigPath())

	if ctx.ConfigPath != "" {
		if _, err := os.Stat(ctx.ConfigPath); os.IsNotExist(err) {
			if err := config.Save(ctx.ConfigPath, ctx.Config); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Printf("Wrote default config to: %s\n", ctx.ConfigPath)
		}
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if ctx.Config.Storage.Backend == constants.BackendPostgres {
		return fmt.Errorf("--force is not supported for the postgres backend; drop the %s schema manually", constants.AppName)
	}

	path := ctx.Store.GetConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to access existing journal: %w", err)
	}

	unlock, err := ctx.Lock.Lock(ctx.Context())
	if err != nil {
		return err
	}
	defer unlock()

	// The store may not be loaded yet
	if err := ctx.Store.Load(); err == nil {
		ctx.PerformAutomaticBackup()
	}
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing journal: %w", err)
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to delete existing journal: %w", err)
	}
	fmt.Printf("Deleted existing journal at: %s\n", path)
	return nil
}

package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/companion/internal/achievements"
	"github.com/julianstephens/companion/internal/cli"
	"github.com/julianstephens/companion/internal/constants"
	"github.com/julianstephens/companion/internal/storage"
)

// importedKeys are the values copied by init --source. The credential
// override is left behind on purpose: it lives in the keyring when possible.
var importedKeys = []string{
	constants.KeyMessages,
	constants.KeyUserStats,
	constants.KeyDailyChallenge,
	constants.KeyAPIKeyPrompted,
	constants.KeySettings,
}

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing store before initialization."`
	Source string `help:"Store file (.json or SQLite) to import conversation and progress from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	provider := ctx.Store.Provider()
	path := provider.GetConfigPath()

	if c.Force && path != constants.MemoryStorePath {
		if c.Source != "" {
			absPath, _ := filepath.Abs(path)
			absSource, _ := filepath.Abs(c.Source)
			if absPath == absSource {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", path)
			}
		}
		if _, err := os.Stat(path); err == nil {
			if err := provider.Close(); err != nil {
				return fmt.Errorf("failed to close existing store: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing store: %w", err)
			}
			fmt.Printf("Deleted existing store at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing store: %w", err)
		}
	}

	if err := provider.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized %s storage at: %s\n", constants.AppName, path)

	if c.Source != "" {
		fmt.Printf("Importing data from: %s\n", c.Source)
		n, err := importStore(provider, c.Source)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		fmt.Printf("Imported %d values.\n", n)

		// Older exports may predate some badges their stats already earn.
		unlocked, err := achievements.NewEngine(ctx.Store).Check(ctx.Now())
		if err != nil {
			return fmt.Errorf("failed to backfill achievements: %w", err)
		}
		for _, a := range unlocked {
			fmt.Printf("%s Unlocked %s\n", a.Icon, a.Title)
		}
	}
	return nil
}

func importStore(dst storage.Provider, sourcePath string) (int, error) {
	src := storage.NewProvider(sourcePath)
	if err := src.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source store: %w", err)
	}
	defer src.Close()

	copied := 0
	err := dst.Update(func(tx storage.Tx) error {
		for _, key := range importedKeys {
			value, ok, err := src.Get(key)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", key, err)
			}
			if !ok {
				continue
			}
			if err := tx.Set(key, value); err != nil {
				return fmt.Errorf("failed to write %s: %w", key, err)
			}
			copied++
		}
		return nil
	})
	return copied, err
}

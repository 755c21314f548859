package system

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"time"

	"github.com/julianstephens/companion/internal/backup"
	"github.com/julianstephens/companion/internal/cli"
	"github.com/julianstephens/companion/internal/constants"
	"github.com/julianstephens/companion/internal/migration"
	"github.com/julianstephens/companion/internal/models"
	"github.com/julianstephens/companion/internal/stats"
	"github.com/julianstephens/companion/internal/storage"
	"github.com/julianstephens/companion/internal/utils"
	"github.com/julianstephens/companion/migrations"
)

type DoctorCmd struct{}

type check struct {
	name    string
	run     func(ctx *cli.Context) error
	warning bool
}

var checks = []check{
	{name: "Store reachable", run: checkStoreReachable},
	{name: "Schema version", run: checkSchemaVersion},
	{name: "Backups present", run: checkBackupsPresent, warning: true},
	{name: "Data validation", run: checkValidation},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	for _, c := range checks {
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warning:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
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
	if sqliteStore, ok := ctx.Store.Provider().(*storage.SQLiteStore); ok {
		db := sqliteStore.DB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
		return nil
	}
	_, _, err := ctx.Store.Provider().Get(constants.KeyUserStats)
	return err
}

func checkSchemaVersion(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.Provider().(*storage.SQLiteStore)
	if !ok {
		// Only SQLite stores are versioned
		return nil
	}
	db := sqliteStore.DB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return err
	}
	runner := migration.NewRunner(db, subFS)

	current, err := runner.CurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err := runner.LatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}

	switch {
	case current > latest:
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	case current < latest:
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	path := ctx.Store.Provider().GetConfigPath()
	if path == constants.MemoryStorePath {
		return nil
	}
	backups, err := backup.NewManager(path).ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

// checkValidation verifies the invariants the engines rely on. Stats are
// decoded raw because the typed store repairs the level on read.
func checkValidation(ctx *cli.Context) error {
	st := models.DefaultUserStats()
	raw, ok, err := ctx.Store.Provider().Get(constants.KeyUserStats)
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}
	if ok {
		if err := json.Unmarshal(raw, &st); err != nil {
			return fmt.Errorf("stats are unreadable: %w", err)
		}
	}
	if want := stats.LevelFor(st.XP); st.Level != want {
		return fmt.Errorf("level %d does not match xp %d (expected level %d)", st.Level, st.XP, want)
	}
	if st.CurrentStreak > 0 && st.LastActiveDate == "" {
		return fmt.Errorf("streak of %d has no last active date", st.CurrentStreak)
	}

	seen := make(map[string]bool)
	for _, a := range st.Achievements {
		if seen[a.ID] {
			return fmt.Errorf("duplicate achievement found: %s", a.ID)
		}
		seen[a.ID] = true
	}

	seen = make(map[string]bool)
	for _, m := range ctx.Store.Messages() {
		if seen[m.ID] {
			return fmt.Errorf("duplicate message ID found: %s", m.ID)
		}
		seen[m.ID] = true
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	tz := ctx.Settings().Timezone
	if !utils.ValidateTimezone(tz) {
		return fmt.Errorf("invalid timezone %q", tz)
	}
	return nil
}

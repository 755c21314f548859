package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/companion/internal/cli"
	"github.com/julianstephens/companion/internal/cli/backups"
	"github.com/julianstephens/companion/internal/cli/conversation"
	"github.com/julianstephens/companion/internal/cli/credentials"
	"github.com/julianstephens/companion/internal/cli/progress"
	"github.com/julianstephens/companion/internal/cli/settings"
	"github.com/julianstephens/companion/internal/cli/system"
	"github.com/julianstephens/companion/internal/constants"
	"github.com/julianstephens/companion/internal/errors"
	"github.com/julianstephens/companion/internal/keyring"
	"github.com/julianstephens/companion/internal/logger"
	"github.com/julianstephens/companion/internal/storage"
)

var CLI struct {
	Version      kong.VersionFlag
	Config       string        `help:"Store path: a .json file, :memory:, or a SQLite database." default:"${config}" env:"COMPANION_CONFIG"`
	Debug        bool          `help:"Enable debug logging to stderr."`
	LogLevel     string        `name:"log-level" help:"Log file level (debug, info, warn, error)." env:"COMPANION_LOG_LEVEL"`
	Timezone     string        `help:"IANA timezone for streaks and challenges, or Local."`
	APIKey       string        `name:"api-key" help:"API key for this run; overrides the stored key." env:"COMPANION_API_KEY"`
	Provider     string        `help:"AI provider for this run (openrouter, gemini, local)."`
	Model        string        `help:"Model id for this run."`
	ReplyTimeout time.Duration `help:"How long to wait for a reply." default:"30s"`
	BaseURL      string        `name:"base-url" help:"Override the OpenRouter API base URL."`

	Init         system.InitCmd           `cmd:"" help:"Initialize companion storage."`
	Tui          system.TuiCmd            `cmd:"" help:"Launch the interactive chat." default:"1"`
	Send         conversation.SendCmd     `cmd:"" help:"Send one message and print the reply."`
	History      conversation.HistoryCmd  `cmd:"" help:"Show the conversation."`
	React        conversation.ReactCmd    `cmd:"" help:"Toggle an emoji reaction on a message."`
	Stats        progress.StatsCmd        `cmd:"" help:"Show level, XP and streak."`
	Achievements progress.AchievementsCmd `cmd:"" help:"List achievements."`
	Challenge    progress.ChallengeCmd    `cmd:"" help:"Show or complete today's challenge."`
	Key          credentials.KeyCmd       `cmd:"" help:"Manage your API key."`
	Models       credentials.ModelsCmd    `cmd:"" help:"List available models."`
	Settings     settings.SettingsCmd     `cmd:"" help:"Manage application settings."`
	Serve        system.ServeCmd          `cmd:"" help:"Serve the HTTP API for a browser front-end."`
	Backup       struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage store backups."`
	Reset  system.ResetCmd  `cmd:"" help:"Clear the conversation and progress."`
	Doctor system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Diag   system.DebugCmd  `cmd:"" name:"debug" hidden:"" help:"Debug commands for troubleshooting."`
}

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily Companion: a cheerful chat buddy that rewards daily check-ins"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"config":  constants.DefaultConfigPath,
		},
	)

	configPath := expandPath(CLI.Config)
	if err := logger.Init(logger.Config{Debug: CLI.Debug, Level: CLI.LogLevel, ConfigDir: logDir(configPath)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	if CLI.Provider != "" && !cli.ValidProvider(CLI.Provider) {
		errors.Fatal(fmt.Errorf("invalid provider: %s (expected openrouter, gemini or local)", CLI.Provider))
	}

	var vault storage.Vault
	if v := keyring.New(); v.IsAvailable() {
		vault = v
	} else {
		logger.Debug("OS keyring unavailable, keeping the api key in the store")
	}

	// Init handles its own loading; everything else opens (or creates) the store.
	var store *storage.Store
	if ctx.Selected() != nil && ctx.Selected().Name == "init" {
		store = storage.New(storage.NewProvider(configPath), vault)
	} else {
		var err error
		store, err = storage.Open(configPath, vault)
		if err != nil {
			errors.Fatal(errors.WithHint(err, fmt.Sprintf("run '%s init' or check --config", constants.AppName)))
		}
	}
	defer store.Close()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := &cli.Context{
		Ctx:   runCtx,
		Store: store,
		Options: cli.Options{
			APIKey:       CLI.APIKey,
			Provider:     CLI.Provider,
			Model:        CLI.Model,
			BaseURL:      CLI.BaseURL,
			Timezone:     CLI.Timezone,
			ReplyTimeout: CLI.ReplyTimeout,
		},
	}

	if err := ctx.Run(appCtx); err != nil {
		stop()
		store.Close()
		errors.Fatal(err)
	}
}

func expandPath(path string) string {
	if path == constants.MemoryStorePath {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// logDir keeps logs next to the store, or in the user config dir for the
// in-memory store.
func logDir(configPath string) string {
	if configPath != constants.MemoryStorePath {
		return filepath.Dir(configPath)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, constants.AppName)
	}
	return os.TempDir()
}

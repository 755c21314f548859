package settings

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/companion/internal/cli"
	"github.com/julianstephens/companion/internal/constants"
	"github.com/julianstephens/companion/internal/storage"
)

func setupTestDB(t *testing.T) *cli.Context {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	provider := storage.NewSQLiteStore(dbPath)
	if err := provider.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := provider.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	return &cli.Context{Store: storage.New(provider, nil)}
}

func ptr[T any](v T) *T { return &v }

func TestSettingsCmd_List(t *testing.T) {
	ctx := setupTestDB(t)

	cmd := &SettingsCmd{List: true}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("settings list failed: %v", err)
	}
}

func TestSettingsCmd_Update(t *testing.T) {
	ctx := setupTestDB(t)

	cmd := &SettingsCmd{
		Provider: ptr(constants.ProviderGemini),
		Model:    ptr(constants.DefaultGeminiModel),
		Timezone: ptr("America/New_York"),
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}

	s := ctx.Store.Settings()
	if s.Provider != constants.ProviderGemini {
		t.Errorf("Provider = %q, want %q", s.Provider, constants.ProviderGemini)
	}
	if s.Model != constants.DefaultGeminiModel {
		t.Errorf("Model = %q, want %q", s.Model, constants.DefaultGeminiModel)
	}
	if s.Timezone != "America/New_York" {
		t.Errorf("Timezone = %q, want America/New_York", s.Timezone)
	}
}

func TestSettingsCmd_InvalidTimezone(t *testing.T) {
	ctx := setupTestDB(t)

	cmd := &SettingsCmd{Timezone: ptr("Mars/Olympus_Mons")}
	if err := cmd.Run(ctx); err == nil {
		t.Error("expected an error for an invalid timezone")
	}
	if got := ctx.Store.Settings().Timezone; got != constants.DefaultTimezone {
		t.Errorf("expected timezone to stay %q, got %q", constants.DefaultTimezone, got)
	}
}

func TestSettingsCmd_FlagsOverrideStored(t *testing.T) {
	ctx := setupTestDB(t)
	if err := (&SettingsCmd{Model: ptr("gpt-4o-mini")}).Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}

	ctx.Options.Model = "deepseek/deepseek-chat"
	if got := ctx.Settings().Model; got != "deepseek/deepseek-chat" {
		t.Errorf("expected flag to win, got %q", got)
	}
	if got := ctx.Store.Settings().Model; got != "gpt-4o-mini" {
		t.Errorf("expected stored model to be unchanged, got %q", got)
	}
}

func TestSettingsCmd_InvalidProvider(t *testing.T) {
	ctx := setupTestDB(t)

	cmd := &SettingsCmd{Provider: ptr("carrier-pigeon")}
	if err := cmd.Run(ctx); err == nil {
		t.Error("expected an error for an unknown provider")
	}
}

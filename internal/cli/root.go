package cli

import (
	"context"
	"time"

	"github.com/julianstephens/companion/internal/ai"
	"github.com/julianstephens/companion/internal/backup"
	"github.com/julianstephens/companion/internal/challenge"
	"github.com/julianstephens/companion/internal/chat"
	"github.com/julianstephens/companion/internal/constants"
	"github.com/julianstephens/companion/internal/logger"
	"github.com/julianstephens/companion/internal/models"
	"github.com/julianstephens/companion/internal/notifier"
	"github.com/julianstephens/companion/internal/storage"
	"github.com/julianstephens/companion/internal/utils"
)

// Options are the global flags that shape how commands talk to the store
// and the AI collaborator. Empty values fall back to the stored settings.
type Options struct {
	APIKey       string
	Provider     string
	Model        string
	BaseURL      string
	Timezone     string
	ReplyTimeout time.Duration
}

type Context struct {
	Ctx     context.Context
	Store   *storage.Store
	Options Options

	// Notifier receives celebrations. Nil uses the tray notifier.
	Notifier chat.Notifier
	// Clock overrides the wall clock. Nil uses the configured timezone.
	Clock func() time.Time
}

// Context returns the command's context, never nil.
func (c *Context) Context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

// Settings returns the stored settings with flag overrides applied.
func (c *Context) Settings() models.Settings {
	s := c.Store.Settings()
	if c.Options.Provider != "" {
		s.Provider = c.Options.Provider
	}
	if c.Options.Model != "" {
		s.Model = c.Options.Model
	}
	if c.Options.Timezone != "" {
		s.Timezone = c.Options.Timezone
	}
	return s
}

// Now returns the current time in the configured timezone.
func (c *Context) Now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	tz := c.Settings().Timezone
	loc, err := utils.LoadLocation(tz)
	if err != nil {
		logger.Warn("invalid timezone, using local time", "timezone", tz, "err", err)
		return time.Now()
	}
	return time.Now().In(loc)
}

// Collaborator builds the AI collaborator for the current credential and settings.
// A key passed on the command line takes precedence over the stored override.
func (c *Context) Collaborator(ctx context.Context) (ai.Collaborator, error) {
	settings := c.Settings()
	flagKey := c.Options.APIKey
	f, err := ai.New(ctx, ai.Config{
		Provider: settings.Provider,
		Model:    settings.Model,
		BaseURL:  c.Options.BaseURL,
		Creds: ai.CredentialSource{
			Override: func() string {
				if flagKey != "" {
					return flagKey
				}
				return c.Store.APIKey()
			},
			Default: ai.DefaultCredential(),
		},
	}, nil)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Orchestrator wires the chat orchestrator to the store and the current collaborator.
func (c *Context) Orchestrator() (*chat.Orchestrator, error) {
	collab, err := c.Collaborator(c.Context())
	if err != nil {
		return nil, err
	}

	n := c.Notifier
	if n == nil {
		n = notifier.New()
	}
	timeout := c.Options.ReplyTimeout
	if timeout <= 0 {
		timeout = constants.DefaultReplyTimeout
	}

	return chat.New(c.Store, collab, challenge.NewGenerator(c.Store, nil), chat.Options{
		Timeout:  timeout,
		Clock:    c.Now,
		Notifier: n,
	}), nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	path := c.Store.Provider().GetConfigPath()
	if path == constants.MemoryStorePath {
		return
	}
	mgr := backup.NewManager(path)
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ValidProvider reports whether name selects a known collaborator.
func ValidProvider(name string) bool {
	switch name {
	case constants.ProviderOpenRouter, constants.ProviderGemini, constants.ProviderLocal:
		return true
	}
	return false
}

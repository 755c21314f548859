package ai

import (
	"context"
	"os"

	"github.com/julianstephens/companion/internal/constants"
)

// Fallback selects the network collaborator when one is configured and the
// local responder otherwise. Failures of the network collaborator are
// returned to the caller rather than papered over.
type Fallback struct {
	Primary Collaborator
	Local   *LocalResponder
}

func (f *Fallback) Name() string {
	if f.Primary != nil {
		return f.Primary.Name()
	}
	return f.Local.Name()
}

func (f *Fallback) Reply(ctx context.Context, turns []Turn) (Response, error) {
	if f.Primary == nil {
		return f.Local.Reply(ctx, turns)
	}
	return f.Primary.Reply(ctx, turns)
}

// CredentialSource resolves the API key: the user's override when set,
// otherwise the built-in default.
type CredentialSource struct {
	Override func() string
	Default  string
}

// DefaultCredential reads the built-in credential from the environment.
func DefaultCredential() string {
	return os.Getenv(constants.EnvDefaultAPIKey)
}

func (c CredentialSource) Key() string {
	if c.Override != nil {
		if key := c.Override(); key != "" {
			return key
		}
	}
	return c.Default
}

// Config selects and configures a collaborator.
type Config struct {
	Provider string
	Model    string
	BaseURL  string
	Creds    CredentialSource
}

// New builds the collaborator for cfg. Without a credential, or with the
// local provider, it answers from the local responder.
func New(ctx context.Context, cfg Config, local *LocalResponder) (*Fallback, error) {
	if local == nil {
		local = NewLocalResponder(nil)
	}
	f := &Fallback{Local: local}

	key := cfg.Creds.Key()
	if key == "" || cfg.Provider == constants.ProviderLocal {
		return f, nil
	}

	switch cfg.Provider {
	case constants.ProviderGemini:
		g, err := NewGeminiClient(ctx, key, cfg.Model)
		if err != nil {
			return nil, err
		}
		f.Primary = g
	default:
		f.Primary = NewOpenRouterClient(OpenRouterConfig{
			APIKey:  key,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
	}
	return f, nil
}

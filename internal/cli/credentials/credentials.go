// Package credentials manages the API key override and lists the models a
// key can be used with.
package credentials

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/companion/internal/ai"
	"github.com/julianstephens/companion/internal/cli"
	"github.com/julianstephens/companion/internal/keyring"
)

type KeyCmd struct {
	Set    KeySetCmd    `cmd:"" help:"Store your own API key."`
	Clear  KeyClearCmd  `cmd:"" help:"Remove the stored API key."`
	Status KeyStatusCmd `cmd:"" help:"Show which API key is in use." default:"1"`
}

type KeySetCmd struct {
	Key string `arg:"" optional:"" help:"API key. Prompted for when omitted."`
}

func (c *KeySetCmd) Run(ctx *cli.Context) error {
	key := strings.TrimSpace(c.Key)
	if key == "" {
		err := huh.NewInput().
			Title("OpenRouter API key").
			Description("Paste your key from openrouter.ai/keys.").
			EchoMode(huh.EchoModePassword).
			Value(&key).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("api key cannot be empty")
				}
				return nil
			}).
			Run()
		if err != nil {
			return err
		}
	}

	if err := ctx.Store.SaveAPIKey(key); err != nil {
		return fmt.Errorf("failed to store api key: %w", err)
	}
	fmt.Println("✓ API key stored")
	return nil
}

type KeyClearCmd struct{}

func (c *KeyClearCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.ClearAPIKey(); err != nil {
		return fmt.Errorf("failed to clear api key: %w", err)
	}
	fmt.Println("✓ API key removed")
	return nil
}

type KeyStatusCmd struct{}

func (c *KeyStatusCmd) Run(ctx *cli.Context) error {
	if keyring.New().IsAvailable() {
		fmt.Println("✓ OS keyring is available")
	} else {
		fmt.Println("ℹ OS keyring is not available; keys are kept in the store")
	}

	switch {
	case ctx.Options.APIKey != "":
		fmt.Printf("✓ Using the key passed on the command line (%s)\n", mask(ctx.Options.APIKey))
	case ctx.Store.APIKey() != "":
		fmt.Printf("✓ Using your stored key (%s)\n", mask(ctx.Store.APIKey()))
	case ai.DefaultCredential() != "":
		fmt.Println("ℹ Using the shared default key")
	default:
		fmt.Println("ℹ No API key configured; replies come from the offline companion")
	}

	if ctx.Store.Prompted() {
		fmt.Println("ℹ You have already been asked for a key once")
	}

	collab, err := ctx.Collaborator(ctx.Context())
	if err != nil {
		return err
	}
	settings := ctx.Settings()
	fmt.Printf("  Provider:     %s\n", settings.Provider)
	fmt.Printf("  Model:        %s\n", settings.Model)
	fmt.Printf("  Collaborator: %s\n", collab.Name())
	return nil
}

// mask keeps the first and last four characters of key.
func mask(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "…" + key[len(key)-4:]
}

type ModelsCmd struct{}

func (c *ModelsCmd) Run(ctx *cli.Context) error {
	current := ctx.Settings().Model
	for _, m := range ai.Models() {
		marker := " "
		if m.ID == current {
			marker = "*"
		}
		fmt.Printf("%s %-30s %-18s %-10s %s\n", marker, m.ID, m.Name, m.Provider, m.Description)
	}
	return nil
}

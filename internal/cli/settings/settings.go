package settings

import (
	"fmt"

	"github.com/julianstephens/companion/internal/ai"
	"github.com/julianstephens/companion/internal/cli"
	"github.com/julianstephens/companion/internal/constants"
	"github.com/julianstephens/companion/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Provider *string `help:"AI provider (openrouter, gemini, local)."`
	Model    *string `help:"Model id used by the provider."`
	Timezone *string `help:"IANA timezone for streaks and challenges, or Local."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings := ctx.Store.Settings()

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Provider:  %s\n", settings.Provider)
		fmt.Printf("  Model:     %s\n", settings.Model)
		fmt.Printf("  Timezone:  %s\n", settings.Timezone)
		return nil
	}

	updated := false
	if c.Provider != nil {
		if !cli.ValidProvider(*c.Provider) {
			return fmt.Errorf("invalid provider: %s (expected openrouter, gemini or local)", *c.Provider)
		}
		settings.Provider = *c.Provider
		updated = true
	}
	if c.Model != nil {
		if _, ok := ai.FindModel(*c.Model); !ok && settings.Provider == constants.ProviderOpenRouter {
			fmt.Printf("⚠️  Warning: %q is not in the model catalogue; see '%s models'.\n", *c.Model, constants.AppName)
		}
		settings.Model = *c.Model
		updated = true
	}
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone: %s", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}

package system

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/companion/internal/cli"
)

// ResetCmd clears the conversation and, unless --keep-progress is given,
// the gamification progress too.
type ResetCmd struct {
	Yes          bool `short:"y" help:"Skip the confirmation prompt."`
	KeepProgress bool `help:"Only clear the conversation; keep XP, streak and achievements."`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		what := "your conversation, XP, streak and achievements"
		if c.KeepProgress {
			what = "your conversation"
		}
		confirmed := false
		err := huh.NewConfirm().
			Title("Reset Daily Companion?").
			Description(fmt.Sprintf("This permanently deletes %s.", what)).
			Affirmative("Reset").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Reset cancelled.")
			return nil
		}
	}

	// Back up before destroying anything.
	ctx.PerformAutomaticBackup()

	if err := ctx.Store.ClearMessages(); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	if !c.KeepProgress {
		if err := ctx.Store.ResetStats(); err != nil {
			return fmt.Errorf("failed to reset stats: %w", err)
		}
	}
	if err := ctx.Store.ClearPrompted(); err != nil {
		return fmt.Errorf("failed to reset api key prompt: %w", err)
	}

	fmt.Println("✓ Reset complete.")
	return nil
}

package system

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/companion/internal/ai"
	"github.com/julianstephens/companion/internal/cli"
	"github.com/julianstephens/companion/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	orch, err := ctx.Orchestrator()
	if err != nil {
		return err
	}

	rebuild := func(rctx context.Context) (ai.Collaborator, error) {
		return ctx.Collaborator(rctx)
	}
	err = tui.Run(ctx.Context(), ctx.Store, orch, rebuild)
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Context().Err() != nil {
		return nil
	}
	return err
}

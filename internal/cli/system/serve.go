package system

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/companion/internal/ai"
	"github.com/julianstephens/companion/internal/cli"
	"github.com/julianstephens/companion/internal/logger"
	"github.com/julianstephens/companion/internal/server"
)

type ServeCmd struct {
	Addr    string `help:"Address to listen on." default:"127.0.0.1:8787"`
	Verbose bool   `help:"Log every request to stderr."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	if c.Verbose {
		logger.InitWriter(os.Stderr, log.DebugLevel)
	}

	ctx.PerformAutomaticBackup()

	orch, err := ctx.Orchestrator()
	if err != nil {
		return err
	}

	srv := server.New(ctx.Store, orch, server.Config{
		Addr: c.Addr,
		Rebuild: func(rctx context.Context) (ai.Collaborator, error) {
			return ctx.Collaborator(rctx)
		},
	})

	fmt.Printf("Daily Companion listening on http://%s (collaborator: %s)\n", srv.Addr(), orch.Collaborator().Name())
	fmt.Println("Press Ctrl+C to stop.")
	return srv.Run(ctx.Context())
}

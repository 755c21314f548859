package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/companion/internal/cli"
	"github.com/julianstephens/companion/internal/models"
)

type DebugCmd struct {
	DBPath *DebugDBPathCmd `cmd:"" help:"Show store path."`
	Dump   *DebugDumpCmd   `cmd:"" help:"Dump stored data as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	// Output in machine-readable format
	return printJSON(map[string]string{
		"path": ctx.Store.Provider().GetConfigPath(),
	})
}

type DebugDumpCmd struct {
	What string `arg:"" enum:"all,messages,stats,challenge,settings" default:"all" help:"What to dump (all, messages, stats, challenge, settings)."`
}

type dump struct {
	Messages  []models.Message       `json:"messages,omitempty"`
	Stats     *models.UserStats      `json:"stats,omitempty"`
	Challenge *models.DailyChallenge `json:"challenge,omitempty"`
	Settings  *models.Settings       `json:"settings,omitempty"`
}

func (cmd *DebugDumpCmd) Run(ctx *cli.Context) error {
	all := cmd.What == "all"
	var out dump
	if all || cmd.What == "messages" {
		out.Messages = ctx.Store.Messages()
	}
	if all || cmd.What == "stats" {
		st := ctx.Store.Stats()
		out.Stats = &st
	}
	if all || cmd.What == "challenge" {
		out.Challenge = ctx.Store.Challenge()
	}
	if all || cmd.What == "settings" {
		s := ctx.Store.Settings()
		out.Settings = &s
	}
	return printJSON(out)
}

func printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}

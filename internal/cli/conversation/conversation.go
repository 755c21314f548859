// Package conversation holds the commands that talk to the companion from
// the shell.
package conversation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/julianstephens/companion/internal/ai"
	"github.com/julianstephens/companion/internal/chat"
	"github.com/julianstephens/companion/internal/cli"
	"github.com/julianstephens/companion/internal/constants"
	"github.com/julianstephens/companion/internal/models"
)

// lastRef selects the newest assistant message in react.
const lastRef = "last"

type SendCmd struct {
	Text []string `arg:"" help:"Message to send. Slash commands like /mood are answered locally."`
	JSON bool     `help:"Print the turn result as JSON."`
}

func (c *SendCmd) Run(ctx *cli.Context) error {
	orch, err := ctx.Orchestrator()
	if err != nil {
		return err
	}
	// Seed the welcome message so a first send has the same history as the TUI.
	if _, err := orch.Bootstrap(); err != nil {
		return err
	}

	res, err := orch.Submit(ctx.Context(), strings.Join(c.Text, " "))
	if err != nil {
		if errors.Is(err, chat.ErrEmptyInput) {
			return fmt.Errorf("nothing to send: %w", err)
		}
		return err
	}

	if c.JSON {
		return printJSON(res)
	}

	if res.Apology != nil && res.Apology.ID != res.Assistant.ID {
		fmt.Println(render(res.Apology.Content))
	}
	fmt.Println(render(res.Assistant.Content))
	for _, n := range res.Notifications {
		fmt.Println(formatNotification(n))
	}
	if len(res.QuickReplies) > 0 {
		var replies []string
		for _, q := range res.QuickReplies {
			replies = append(replies, strings.TrimSpace(q.Icon+" "+q.Text))
		}
		fmt.Printf("\nTry: %s\n", strings.Join(replies, " · "))
	}
	if res.Failure != ai.KindNone {
		fmt.Printf("\n(%s reply failure)\n", res.Failure)
	}
	if res.PromptForKey {
		fmt.Printf("\nThe shared API key has reached its limit. Add your own with '%s key set'.\n", constants.AppName)
	}
	return nil
}

type HistoryCmd struct {
	Limit int  `short:"n" help:"Number of trailing messages to show (0 for all)." default:"20"`
	JSON  bool `help:"Print messages as JSON."`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	msgs := ctx.Store.Messages()
	if c.Limit > 0 && len(msgs) > c.Limit {
		msgs = msgs[len(msgs)-c.Limit:]
	}

	if c.JSON {
		return printJSON(msgs)
	}
	if len(msgs) == 0 {
		fmt.Println("No messages yet. Say hello with 'companion send hi'.")
		return nil
	}

	loc := ctx.Now().Location()
	for _, m := range msgs {
		who := "Companion"
		if m.Role == models.RoleUser {
			who = "You"
		}
		fmt.Printf("[%s] %s (%s)\n", m.Timestamp.In(loc).Format("2006-01-02 "+constants.TimeFormat), who, m.ID)
		fmt.Println(indent(m.Content))
		if len(m.Reactions) > 0 {
			fmt.Printf("  %s\n", strings.Join(m.Reactions, " "))
		}
	}
	return nil
}

type ReactCmd struct {
	ID    string `arg:"" help:"Message id, or 'last' for the newest companion message."`
	Emoji string `arg:"" help:"Emoji to toggle."`
}

func (c *ReactCmd) Run(ctx *cli.Context) error {
	id := c.ID
	if id == lastRef {
		id = lastAssistantID(ctx.Store.Messages())
		if id == "" {
			return errors.New("there is no companion message to react to")
		}
	}

	orch, err := ctx.Orchestrator()
	if err != nil {
		return err
	}
	msg, err := orch.React(id, c.Emoji)
	if err != nil {
		return err
	}

	if msg.HasReaction(c.Emoji) {
		fmt.Printf("✓ Added %s to %s\n", c.Emoji, msg.ID)
	} else {
		fmt.Printf("✓ Removed %s from %s\n", c.Emoji, msg.ID)
	}
	return nil
}

func lastAssistantID(msgs []models.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == models.RoleAssistant {
			return msgs[i].ID
		}
	}
	return ""
}

func formatNotification(n models.Notification) string {
	if n.Description == "" {
		return n.Title
	}
	return n.Title + " " + n.Description
}

func render(content string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(b))
	return nil
}

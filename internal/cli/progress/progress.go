// Package progress prints and advances the gamification state.
package progress

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/companion/internal/achievements"
	"github.com/julianstephens/companion/internal/cli"
	"github.com/julianstephens/companion/internal/constants"
	"github.com/julianstephens/companion/internal/stats"
	"github.com/julianstephens/companion/internal/tui/components/achievementlist"
)

type StatsCmd struct {
	JSON bool `help:"Print stats as JSON."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	st := ctx.Store.Stats()
	if c.JSON {
		return printJSON(st)
	}

	into := stats.LevelProgress(st)
	fmt.Println("Your Progress:")
	fmt.Printf("  Level:          %d\n", st.Level)
	fmt.Printf("  XP:             %d (%s to level %d)\n", st.XP,
		achievementlist.ProgressBar(float64(into)/float64(constants.XPPerLevel), 10), st.Level+1)
	fmt.Printf("  Streak:         🔥 %d day(s)\n", st.CurrentStreak)
	fmt.Printf("  Messages:       %d\n", st.TotalMessages)
	if st.LastActiveDate != "" {
		fmt.Printf("  Last active:    %s\n", st.LastActiveDate)
	}
	fmt.Printf("  Achievements:   %d/%d\n", len(st.Achievements), len(achievements.Definitions()))
	return nil
}

type AchievementsCmd struct {
	Locked bool `help:"Only show achievements that are still locked."`
	JSON   bool `help:"Print achievements as JSON."`
}

func (c *AchievementsCmd) Run(ctx *cli.Context) error {
	statuses := achievements.Statuses(ctx.Store.Stats())
	if c.Locked {
		locked := statuses[:0]
		for _, s := range statuses {
			if !s.Unlocked {
				locked = append(locked, s)
			}
		}
		statuses = locked
	}
	if c.JSON {
		return printJSON(statuses)
	}

	for _, s := range statuses {
		if s.Unlocked {
			fmt.Printf("%s %-20s %s (unlocked %s)\n", s.Icon, s.Title, s.Description, s.UnlockedAt.Format(constants.DateFormat))
			continue
		}
		fmt.Printf("🔒 %-20s %s %s\n", s.Title, s.Description, achievementlist.ProgressBar(s.Progress, 10))
	}
	return nil
}

type ChallengeCmd struct {
	Show     ChallengeShowCmd     `cmd:"" help:"Show today's challenge." default:"1"`
	Complete ChallengeCompleteCmd `cmd:"" help:"Mark today's challenge as complete."`
}

type ChallengeShowCmd struct {
	JSON bool `help:"Print the challenge as JSON."`
}

func (c *ChallengeShowCmd) Run(ctx *cli.Context) error {
	orch, err := ctx.Orchestrator()
	if err != nil {
		return err
	}
	ch, err := orch.Challenge()
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(ch)
	}

	status := "not completed"
	if ch.Completed {
		status = "✓ completed"
	}
	fmt.Printf("🎯 %s (+%d XP)\n", ch.Title, ch.XPReward)
	fmt.Printf("   %s\n", ch.Description)
	fmt.Printf("   %s · %s\n", ch.Date, status)
	return nil
}

type ChallengeCompleteCmd struct{}

func (c *ChallengeCompleteCmd) Run(ctx *cli.Context) error {
	orch, err := ctx.Orchestrator()
	if err != nil {
		return err
	}
	res, err := orch.CompleteChallenge(ctx.Context())
	if err != nil {
		return err
	}
	if !res.Completed {
		fmt.Printf("Today's challenge %q is already complete. Come back tomorrow!\n", res.Challenge.Title)
		return nil
	}
	for _, n := range res.Notifications {
		fmt.Printf("%s %s\n", n.Title, n.Description)
	}
	fmt.Printf("XP: %d → %d\n", res.Before.XP, res.After.XP)
	return nil
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(b))
	return nil
}

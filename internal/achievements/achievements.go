// Package achievements holds the badge rule table and unlocks badges as stats change.
package achievements

import (
	"time"

	"github.com/julianstephens/companion/internal/models"
	"github.com/julianstephens/companion/internal/stats"
)

// Rule is one unlockable badge and the condition that unlocks it.
type Rule struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Category    models.AchievementCategory
	// Unlocked is evaluated against the stats and the time of the check.
	Unlocked func(s models.UserStats, now time.Time) bool
}

func minStreak(n int) func(models.UserStats, time.Time) bool {
	return func(s models.UserStats, _ time.Time) bool { return s.CurrentStreak >= n }
}

func minMessages(n int) func(models.UserStats, time.Time) bool {
	return func(s models.UserStats, _ time.Time) bool { return s.TotalMessages >= n }
}

func minLevel(n int) func(models.UserStats, time.Time) bool {
	return func(s models.UserStats, _ time.Time) bool { return s.Level >= n }
}

// hourIn reports whether now's local hour is in [from, to).
func hourIn(from, to int) func(models.UserStats, time.Time) bool {
	return func(_ models.UserStats, now time.Time) bool {
		h := now.Hour()
		return h >= from && h < to
	}
}

// rules is evaluated in order; newly unlocked badges are appended in this order.
var rules = []Rule{
	{"streak_3", "Getting Started", "Maintain a 3-day streak", "🔥", models.CategoryStreak, minStreak(3)},
	{"streak_7", "Week Warrior", "Maintain a 7-day streak", "⚡", models.CategoryStreak, minStreak(7)},
	{"streak_30", "Monthly Master", "Maintain a 30-day streak", "👑", models.CategoryStreak, minStreak(30)},
	{"messages_10", "Chatterbox", "Send 10 messages", "💬", models.CategoryMessages, minMessages(10)},
	{"messages_50", "Conversationalist", "Send 50 messages", "🗣️", models.CategoryMessages, minMessages(50)},
	{"messages_100", "Chat Master", "Send 100 messages", "🎯", models.CategoryMessages, minMessages(100)},
	{"level_5", "Rising Star", "Reach level 5", "⭐", models.CategoryEngagement, minLevel(5)},
	{"level_10", "Elite Companion", "Reach level 10", "🌟", models.CategoryEngagement, minLevel(10)},
	{"first_chat", "Welcome!", "Send your first message", "👋", models.CategorySpecial, minMessages(1)},
	{"night_owl", "Night Owl", "Chat between midnight and 6 AM", "🦉", models.CategorySpecial, hourIn(0, 6)},
	{"early_bird", "Early Bird", "Chat between 5 AM and 8 AM", "🐦", models.CategorySpecial, hourIn(5, 8)},
}

// Definitions returns the rule table in evaluation order.
func Definitions() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Find returns the rule with the given id.
func Find(id string) (Rule, bool) {
	for _, r := range rules {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// Achievement builds the unlocked badge for r.
func (r Rule) Achievement(unlockedAt time.Time) models.Achievement {
	return models.Achievement{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Icon:        r.Icon,
		Category:    r.Category,
		UnlockedAt:  unlockedAt,
	}
}

// Evaluate returns the badges whose rules hold for s at now and that s does
// not already have. Existing badges are never re-checked.
func Evaluate(s models.UserStats, now time.Time) []models.Achievement {
	var unlocked []models.Achievement
	for _, r := range rules {
		if s.HasAchievement(r.ID) {
			continue
		}
		if r.Unlocked(s, now) {
			unlocked = append(unlocked, r.Achievement(now))
		}
	}
	return unlocked
}

// Apply appends the newly unlocked badges to s and returns both.
func Apply(s models.UserStats, now time.Time) (models.UserStats, []models.Achievement) {
	unlocked := Evaluate(s, now)
	if len(unlocked) == 0 {
		return s, nil
	}
	out := s.Clone()
	out.Achievements = append(out.Achievements, unlocked...)
	return out, unlocked
}

// Status is a rule as seen by a given profile.
type Status struct {
	ID          string                     `json:"id"`
	Title       string                     `json:"title"`
	Description string                     `json:"description"`
	Icon        string                     `json:"icon"`
	Category    models.AchievementCategory `json:"category"`
	Unlocked    bool                       `json:"unlocked"`
	UnlockedAt  *time.Time                 `json:"unlockedAt,omitempty"`
	// Progress is in [0, 1]. Time-of-day badges report 0 until unlocked.
	Progress float64 `json:"progress"`
}

// Statuses lists every rule in table order with s's unlock state and progress.
func Statuses(s models.UserStats) []Status {
	unlockedAt := make(map[string]time.Time, len(s.Achievements))
	for _, a := range s.Achievements {
		unlockedAt[a.ID] = a.UnlockedAt
	}
	progress := stats.Progress(s)

	out := make([]Status, 0, len(rules))
	for _, r := range rules {
		st := Status{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Icon:        r.Icon,
			Category:    r.Category,
			Progress:    progress[r.ID],
		}
		if at, ok := unlockedAt[r.ID]; ok {
			st.Unlocked = true
			st.UnlockedAt = &at
			st.Progress = 1
		}
		out = append(out, st)
	}
	return out
}

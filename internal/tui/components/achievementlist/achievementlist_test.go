package achievementlist

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/companion/internal/achievements"
	"github.com/julianstephens/companion/internal/models"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{0, "▱▱▱▱ 0%"},
		{0.5, "▰▰▱▱ 50%"},
		{1, "▰▰▰▰ 100%"},
		{3, "▰▰▰▰ 100%"},
		{-1, "▱▱▱▱ 0%"},
	}
	for _, tt := range tests {
		if got := ProgressBar(tt.ratio, 4); got != tt.want {
			t.Errorf("ProgressBar(%v) = %q, want %q", tt.ratio, got, tt.want)
		}
	}
}

func TestItems(t *testing.T) {
	first, _ := achievements.Find("first_chat")
	s := models.UserStats{
		TotalMessages: 1,
		Level:         1,
		Achievements:  []models.Achievement{first.Achievement(time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC))},
	}
	m := New(achievements.Statuses(s), 80, 20)

	if got := m.Unlocked(); got != 1 {
		t.Errorf("expected 1 unlocked, got %d", got)
	}

	for _, it := range m.list.Items() {
		item := it.(Item)
		switch item.Status.ID {
		case "first_chat":
			if !strings.HasPrefix(item.Title(), "👋") || !strings.Contains(item.Description(), "Mar 5, 2024") {
				t.Errorf("unexpected unlocked item %q / %q", item.Title(), item.Description())
			}
		case "messages_10":
			if !strings.HasPrefix(item.Title(), "🔒") || !strings.Contains(item.Description(), "10%") {
				t.Errorf("unexpected locked item %q / %q", item.Title(), item.Description())
			}
		}
	}
}

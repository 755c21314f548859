package stats

import (
	"testing"
	"time"

	"github.com/julianstephens/companion/internal/models"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{199, 2},
		{250, 3},
		{1000, 11},
		{-5, 1},
	}
	for _, tt := range tests {
		if got := LevelFor(tt.xp); got != tt.want {
			t.Errorf("LevelFor(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestAddExperience(t *testing.T) {
	tests := []struct {
		name      string
		xp        int
		amount    int
		wantXP    int
		wantLevel int
	}{
		{"first message", 0, 10, 10, 1},
		{"crosses level", 90, 10, 100, 2},
		{"stays in level", 100, 10, 110, 2},
		{"challenge reward", 180, 60, 240, 3},
		{"several levels", 50, 460, 510, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := models.UserStats{XP: tt.xp, Level: LevelFor(tt.xp), TotalMessages: 3}
			after := AddExperience(before, tt.amount)
			if after.XP != tt.wantXP {
				t.Errorf("XP = %d, want %d", after.XP, tt.wantXP)
			}
			if after.Level != tt.wantLevel {
				t.Errorf("Level = %d, want %d", after.Level, tt.wantLevel)
			}
			if after.Level != (tt.xp+tt.amount)/100+1 {
				t.Errorf("level invariant broken: %d", after.Level)
			}
			if after.TotalMessages != 4 {
				t.Errorf("TotalMessages = %d, want 4", after.TotalMessages)
			}
			if before.XP != tt.xp {
				t.Error("input stats were mutated")
			}
		})
	}
}

func TestLeveledUp(t *testing.T) {
	before := models.UserStats{XP: 90, Level: 1}
	after := AddExperience(before, 10)
	if !LeveledUp(before, after) {
		t.Error("expected level up at 100 XP")
	}
	if LeveledUp(after, AddExperience(after, 10)) {
		t.Error("unexpected level up within a level")
	}
}

func TestRecordActivityForToday(t *testing.T) {
	monday := time.Date(2024, 6, 3, 20, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		last       string
		streak     int
		now        time.Time
		wantStreak int
	}{
		{"first visit", "", 0, monday, 1},
		{"same day", "2024-06-03", 4, monday.Add(2 * time.Hour), 4},
		{"next day", "2024-06-03", 4, monday.Add(24 * time.Hour), 5},
		{"gap resets", "2024-06-03", 4, monday.Add(72 * time.Hour), 1},
		{"future date resets", "2024-06-10", 4, monday, 1},
		{"malformed resets", "yesterday-ish", 9, monday, 1},
		{"legacy same day", "Mon Jun 03 2024", 2, monday, 2},
		{"legacy next day", "Mon Jun 03 2024", 2, monday.Add(24 * time.Hour), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecordActivityForToday(models.UserStats{LastActiveDate: tt.last, CurrentStreak: tt.streak}, tt.now)
			if got.CurrentStreak != tt.wantStreak {
				t.Errorf("CurrentStreak = %d, want %d", got.CurrentStreak, tt.wantStreak)
			}
			if want := tt.now.Format("2006-01-02"); got.LastActiveDate != want {
				t.Errorf("LastActiveDate = %q, want %q", got.LastActiveDate, want)
			}
		})
	}
}

func TestRecordActivityUsesCalendarDays(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	late := time.Date(2024, 6, 3, 23, 59, 0, 0, loc)
	early := time.Date(2024, 6, 4, 0, 1, 0, 0, loc)

	s := RecordActivityForToday(models.UserStats{}, late)
	s = RecordActivityForToday(s, early)
	if s.CurrentStreak != 2 {
		t.Errorf("23:59 then 00:01 should span two days, streak = %d", s.CurrentStreak)
	}

	// Twenty hours apart on the same calendar day is still one day.
	morning := time.Date(2024, 6, 5, 1, 0, 0, 0, loc)
	night := time.Date(2024, 6, 5, 21, 0, 0, 0, loc)
	s = RecordActivityForToday(RecordActivityForToday(s, morning), night)
	if s.CurrentStreak != 3 {
		t.Errorf("streak = %d, want 3", s.CurrentStreak)
	}
}

func TestStreakChanged(t *testing.T) {
	now := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	fresh := models.UserStats{}
	first := RecordActivityForToday(fresh, now)
	if !StreakChanged(fresh, first) {
		t.Error("first activity should change the streak")
	}
	if StreakChanged(first, RecordActivityForToday(first, now.Add(time.Hour))) {
		t.Error("same-day activity should not change the streak")
	}
}

func TestProgress(t *testing.T) {
	s := models.UserStats{CurrentStreak: 2, TotalMessages: 60, Level: 3}
	p := Progress(s)

	tests := map[string]float64{
		"streak_3":     2.0 / 3.0,
		"streak_30":    2.0 / 30.0,
		"messages_10":  1,
		"messages_50":  1,
		"messages_100": 0.6,
		"level_5":      0.6,
		"level_10":     0.3,
	}
	for id, want := range tests {
		if got := p[id]; got < want-1e-9 || got > want+1e-9 {
			t.Errorf("Progress[%s] = %f, want %f", id, got, want)
		}
	}

	s.Achievements = []models.Achievement{{ID: "streak_30"}}
	if got := Progress(s)["streak_30"]; got != 1 {
		t.Errorf("unlocked achievement progress = %f, want 1", got)
	}
}

func TestLevelProgress(t *testing.T) {
	if got := LevelProgress(models.UserStats{XP: 245}); got != 45 {
		t.Errorf("LevelProgress = %d, want 45", got)
	}
}

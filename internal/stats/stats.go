// Package stats implements the streak, XP and level rules.
package stats

import (
	"time"

	"github.com/julianstephens/companion/internal/constants"
	"github.com/julianstephens/companion/internal/logger"
	"github.com/julianstephens/companion/internal/models"
	"github.com/julianstephens/companion/internal/utils"
)

// LevelFor returns the level reached with xp.
func LevelFor(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/constants.XPPerLevel + 1
}

// RecordActivityForToday updates the streak for activity at now. Calendar
// days are taken in now's location.
//
// Same day: unchanged. Previous day: streak+1. Anything else, including a
// first visit or an unreadable or future lastActiveDate: streak 1.
func RecordActivityForToday(s models.UserStats, now time.Time) models.UserStats {
	out := s.Clone()
	today := utils.DayString(now)

	if out.LastActiveDate == "" {
		out.CurrentStreak = 1
		out.LastActiveDate = today
		return out
	}

	days, err := utils.DaysBetween(out.LastActiveDate, now)
	if err != nil {
		logger.Warn("unreadable last active date, restarting streak", "date", out.LastActiveDate, "err", err)
		days = -1
	}

	switch days {
	case 0:
		// Normalize legacy day stamps without touching the streak.
		out.LastActiveDate = today
		return out
	case 1:
		out.CurrentStreak++
	default:
		out.CurrentStreak = 1
	}
	out.LastActiveDate = today
	return out
}

// AddExperience adds amount XP, recomputes the level and counts one message.
func AddExperience(s models.UserStats, amount int) models.UserStats {
	out := s.Clone()
	out.XP += amount
	if out.XP < 0 {
		out.XP = 0
	}
	out.Level = LevelFor(out.XP)
	out.TotalMessages++
	return out
}

// LeveledUp reports whether after is at a higher level than before.
func LeveledUp(before, after models.UserStats) bool {
	return after.Level > before.Level
}

// StreakChanged reports whether the streak count differs between before and after.
func StreakChanged(before, after models.UserStats) bool {
	return after.CurrentStreak != before.CurrentStreak
}

// LevelProgress returns the XP earned within the current level, 0..XPPerLevel-1.
func LevelProgress(s models.UserStats) int {
	if s.XP < 0 {
		return 0
	}
	return s.XP % constants.XPPerLevel
}

// Progress returns how close stats are to each threshold achievement, as a
// ratio capped at 1. Already unlocked achievements report 1.
func Progress(s models.UserStats) map[string]float64 {
	ratio := func(have, want int) float64 {
		if have >= want {
			return 1
		}
		if have <= 0 {
			return 0
		}
		return float64(have) / float64(want)
	}

	progress := map[string]float64{
		"streak_3":     ratio(s.CurrentStreak, 3),
		"streak_7":     ratio(s.CurrentStreak, 7),
		"streak_30":    ratio(s.CurrentStreak, 30),
		"messages_10":  ratio(s.TotalMessages, 10),
		"messages_50":  ratio(s.TotalMessages, 50),
		"messages_100": ratio(s.TotalMessages, 100),
		"level_5":      ratio(s.Level, 5),
		"level_10":     ratio(s.Level, 10),
	}
	for _, a := range s.Achievements {
		if _, ok := progress[a.ID]; ok {
			progress[a.ID] = 1
		}
	}
	return progress
}

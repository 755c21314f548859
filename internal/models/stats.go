package models

import "time"

type AchievementCategory string

const (
	CategoryStreak     AchievementCategory = "streak"
	CategoryMessages   AchievementCategory = "messages"
	CategoryEngagement AchievementCategory = "engagement"
	CategorySpecial    AchievementCategory = "special"
)

// Achievement is an unlocked badge. Once present in UserStats it is never removed.
type Achievement struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Icon        string              `json:"icon"`
	Category    AchievementCategory `json:"category"`
	UnlockedAt  time.Time           `json:"unlockedAt"`
}

// UserStats is the single gamification record for the local profile.
type UserStats struct {
	CurrentStreak  int           `json:"currentStreak"`
	TotalMessages  int           `json:"totalMessages"`
	XP             int           `json:"xp"`
	Level          int           `json:"level"`
	LastActiveDate string        `json:"lastActiveDate"` // YYYY-MM-DD format
	Achievements   []Achievement `json:"achievements"`
}

// DefaultUserStats returns the stats of a fresh profile.
func DefaultUserStats() UserStats {
	return UserStats{
		Level:        1,
		Achievements: []Achievement{},
	}
}

// HasAchievement reports whether the achievement id has been unlocked.
func (s UserStats) HasAchievement(id string) bool {
	for _, a := range s.Achievements {
		if a.ID == id {
			return true
		}
	}
	return false
}

// Clone returns a copy whose achievements slice does not alias the receiver's.
func (s UserStats) Clone() UserStats {
	out := s
	out.Achievements = make([]Achievement, len(s.Achievements))
	copy(out.Achievements, s.Achievements)
	return out
}

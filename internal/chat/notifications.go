package chat

import (
	"fmt"

	"github.com/julianstephens/companion/internal/models"
)

func streakNotification(streak int) (models.Notification, bool) {
	switch {
	case streak == 1:
		return models.Notification{
			Kind:        models.NotifyStreak,
			Title:       "🔥 Streak Started!",
			Description: "Great job starting your daily habit!",
		}, true
	case streak%7 == 0:
		return models.Notification{
			Kind:        models.NotifyStreak,
			Title:       fmt.Sprintf("🔥 %d Day Streak!", streak),
			Description: "You're on fire! Amazing consistency!",
		}, true
	case streak >= 3:
		return models.Notification{
			Kind:        models.NotifyStreak,
			Title:       fmt.Sprintf("🔥 %d Day Streak!", streak),
			Description: "Keep up the momentum!",
		}, true
	}
	return models.Notification{}, false
}

func levelUpNotification(level, xp int) models.Notification {
	return models.Notification{
		Kind:        models.NotifyLevelUp,
		Title:       "🎉 Level Up!",
		Description: fmt.Sprintf("You've reached level %d! (+%d XP)", level, xp),
	}
}

func xpNotification(xp int) models.Notification {
	return models.Notification{
		Kind:  models.NotifyXP,
		Title: fmt.Sprintf("⚡ +%d XP!", xp),
	}
}

func achievementNotification(a models.Achievement) models.Notification {
	return models.Notification{
		Kind:        models.NotifyAchievement,
		Title:       "🏆 Achievement Unlocked!",
		Description: fmt.Sprintf("%s %s: %s", a.Icon, a.Title, a.Description),
	}
}

func challengeNotification(xpReward int) models.Notification {
	return models.Notification{
		Kind:        models.NotifyChallenge,
		Title:       "🎯 Challenge Complete!",
		Description: fmt.Sprintf("You earned %d XP! Great work!", xpReward),
	}
}

func apiKeyNotification() models.Notification {
	return models.Notification{
		Kind:        models.NotifyAPIKeyRequired,
		Title:       "🔑 API Key Required",
		Description: "The shared key has reached its limit. Add your own OpenRouter key to keep chatting.",
	}
}

func welcomeNotification() models.Notification {
	return models.Notification{
		Kind:        models.NotifyWelcome,
		Title:       "👋 Welcome to Daily Companion!",
		Description: "Start chatting to build your streak and earn XP!",
	}
}

package models

type NotificationKind string

const (
	NotifyStreak         NotificationKind = "streak"
	NotifyLevelUp        NotificationKind = "level-up"
	NotifyXP             NotificationKind = "xp"
	NotifyAchievement    NotificationKind = "achievement"
	NotifyChallenge      NotificationKind = "challenge"
	NotifyAPIKeyRequired NotificationKind = "api-key-required"
	NotifyWelcome        NotificationKind = "welcome"
)

// Notification is a transient, user-facing toast produced by a turn.
type Notification struct {
	Kind        NotificationKind `json:"kind"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
}

// Celebratory reports whether the notification marks a milestone worth
// surfacing outside the app.
func (n Notification) Celebratory() bool {
	switch n.Kind {
	case NotifyLevelUp, NotifyAchievement, NotifyChallenge:
		return true
	}
	return false
}

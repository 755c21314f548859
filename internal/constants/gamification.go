package constants

import "time"

const (
	XPPerMessage = 10
	XPPerLevel   = 100

	// MaxQuickReplies caps the suggestions shown after an assistant turn.
	MaxQuickReplies = 4
	// Suggestions outside this word range are discarded.
	MinQuickReplyWords = 2
	MaxQuickReplyWords = 7

	DefaultReplyTimeout = 30 * time.Second

	// VisibleHistory is how many trailing messages the UI renders.
	VisibleHistory = 50

	WelcomeMessage = "Hey there! 👋 Welcome to Daily Companion! I'm here to chat, encourage, and help you build positive daily habits. What's on your mind today?"
	ApologyMessage = "Sorry, I'm having trouble responding right now. Please try again! 😅"
)

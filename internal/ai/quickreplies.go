package ai

import (
	"strconv"
	"strings"

	"github.com/julianstephens/companion/internal/models"
)

// FallbackQuickReplies picks a local suggestion set from the reply's wording.
func FallbackQuickReplies(content string) []string {
	text := strings.ToLower(content)
	switch {
	case strings.Contains(text, "question") || strings.Contains(text, "?"):
		return []string{"Yes, definitely", "Tell me more", "Not really", "I'm curious"}
	case strings.Contains(text, "congratulations") || strings.Contains(text, "great"):
		return []string{"Thank you!", "I'm proud too", "What's next?", "Keep going"}
	case strings.Contains(text, "suggestion") || strings.Contains(text, "try"):
		return []string{"Sounds good!", "I'll try that", "Any other tips?", "How do I start?"}
	default:
		return []string{"That's helpful", "Tell me more", "I agree", "What else?"}
	}
}

// DefaultQuickReplies are offered before the first assistant reply.
func DefaultQuickReplies() []models.QuickReply {
	return []models.QuickReply{
		{ID: "1", Text: "Tell me more", Icon: "💭"},
		{ID: "2", Text: "I'm feeling great!", Icon: "😊"},
		{ID: "3", Text: "What should I do today?", Icon: "🎯"},
		{ID: "4", Text: "Share a fun fact", Icon: "✨"},
		{ID: "5", Text: "Help me stay motivated", Icon: "💪"},
	}
}

// ReplyIcon chooses an icon for a suggestion from its wording.
func ReplyIcon(text string) string {
	t := strings.ToLower(text)
	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(t, w) {
				return true
			}
		}
		return false
	}

	switch {
	case has("thank", "great"):
		return "🙏"
	case has("more", "tell"):
		return "💭"
	case has("yes", "sure"):
		return "✅"
	case has("no", "not"):
		return "❌"
	case has("help", "how"):
		return "🤔"
	case has("try", "start"):
		return "🚀"
	case has("agree", "good"):
		return "👍"
	default:
		return "💬"
	}
}

// ToQuickReplies decorates suggestion texts with ids and icons.
func ToQuickReplies(texts []string) []models.QuickReply {
	out := make([]models.QuickReply, 0, len(texts))
	for i, text := range texts {
		out = append(out, models.QuickReply{
			ID:   "qr-" + strconv.Itoa(i+1),
			Text: text,
			Icon: ReplyIcon(text),
		})
	}
	return out
}

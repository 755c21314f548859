// Package ai defines the chat collaborator contract and its implementations:
// OpenRouter and Gemini network clients plus a deterministic local responder.
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/companion/internal/constants"
	"github.com/julianstephens/companion/internal/models"
)

// Turn is one message of the conversation sent to a collaborator.
type Turn struct {
	Role      models.Role
	Content   string
	Timestamp time.Time
}

// TurnsFrom converts stored messages to collaborator turns, keeping order.
func TurnsFrom(msgs []models.Message) []Turn {
	turns := make([]Turn, 0, len(msgs))
	for _, m := range msgs {
		turns = append(turns, Turn{Role: m.Role, Content: m.Content, Timestamp: m.Timestamp})
	}
	return turns
}

// Response is a successful reply. QuickReplies is nil when the collaborator
// could not suggest any; callers then use FallbackQuickReplies.
type Response struct {
	Content      string
	QuickReplies []string
	Source       string
}

// Collaborator produces assistant replies.
type Collaborator interface {
	Reply(ctx context.Context, turns []Turn) (Response, error)
	Name() string
}

// lastUserContent returns the newest user message in turns.
func lastUserContent(turns []Turn) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == models.RoleUser {
			return turns[i].Content
		}
	}
	return ""
}

// SystemPrompt is the instruction sent ahead of the conversation.
func SystemPrompt(modelID string) string {
	var b strings.Builder
	b.WriteString(`You are a helpful, encouraging, and empathetic AI companion in the "` + constants.AppTitle + `" app. Your role is to:

1. Provide supportive and positive responses that help users build healthy daily habits
2. Keep responses concise but meaningful (2-3 sentences max)
3. Be encouraging about their progress and streaks
4. Offer gentle motivation without being pushy
5. Use a warm, friendly tone that feels personal
6. Acknowledge their achievements and celebrate small wins
7. Provide practical advice when asked
8. Remember this is a daily habit-building app focused on wellness and positivity
`)
	if m, ok := FindModel(modelID); ok {
		fmt.Fprintf(&b, "\nCurrent model: %s (%s)\n", m.Name, m.Provider)
	}
	b.WriteString("\nKeep responses engaging and conversational while staying focused on personal growth and daily wellness.")
	return b.String()
}

const quickReplyPrompt = `Generate 3-4 contextual quick reply options for the user based on the AI response. These should be:
1. Natural conversation continuations
2. Relevant follow-up questions
3. Positive engagement options
4. Short (2-7 words each)

Return ONLY a JSON array of strings, no other text.
Example: ["Tell me more", "That's helpful!", "What about...", "I'd like to try that"]`

const quickReplyRequest = "Generate quick reply options for this response."

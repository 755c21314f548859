package models

import (
	"slices"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat turn. Only Reactions may change after creation.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
	Reactions []string  `json:"reactions,omitempty"`
}

// HasReaction reports whether emoji is already attached to the message.
func (m Message) HasReaction(emoji string) bool {
	return slices.Contains(m.Reactions, emoji)
}

// ToggleReaction adds emoji if absent and removes it otherwise.
// It reports whether the reaction is present afterwards.
func (m *Message) ToggleReaction(emoji string) bool {
	if i := slices.Index(m.Reactions, emoji); i >= 0 {
		m.Reactions = slices.Delete(slices.Clone(m.Reactions), i, i+1)
		if len(m.Reactions) == 0 {
			m.Reactions = nil
		}
		return false
	}
	m.Reactions = append(slices.Clone(m.Reactions), emoji)
	return true
}

// QuickReply is a suggested short response shown after an assistant turn
type QuickReply struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Icon string `json:"icon,omitempty"`
}

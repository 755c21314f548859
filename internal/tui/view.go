package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/companion/internal/constants"
	"github.com/julianstephens/companion/internal/models"
	"github.com/julianstephens/companion/internal/stats"
	"github.com/julianstephens/companion/internal/tui/components/achievementlist"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateAchievements:
		content = docStyle.Render(m.list.View())
	case constants.StateAPIKey:
		content = m.viewKeyForm()
	default:
		content = m.viewChat()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	achieved := fmt.Sprintf("Achievements (%d)", m.list.Unlocked())
	var tabs []string
	for _, t := range []struct {
		title string
		state constants.SessionState
	}{
		{"Chat", constants.StateChat},
		{achieved, constants.StateAchievements},
	} {
		if m.state == t.state {
			tabs = append(tabs, activeTabStyle.Render(t.title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(t.title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewChat() string {
	parts := []string{m.viewStats(), m.viewport.View()}
	if t := m.viewToasts(); t != "" {
		parts = append(parts, t)
	}
	if !m.waiting {
		if q := m.viewQuickReplies(); q != "" {
			parts = append(parts, q)
		}
	}
	if m.waiting {
		parts = append(parts, docStyle.Render(m.spinner.View()+" Thinking…"))
	} else {
		parts = append(parts, docStyle.Render(m.input.View()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewStats() string {
	ratio := float64(stats.LevelProgress(m.stats)) / float64(constants.XPPerLevel)
	level := fmt.Sprintf("Lv %d %s", m.stats.Level, xpBarStyle.Render(achievementlist.ProgressBar(ratio, 10)))
	streak := streakStyle.Render(fmt.Sprintf("🔥 %d", m.stats.CurrentStreak))

	challenge := ""
	if m.challenge.ID != "" {
		mark := "○"
		if m.challenge.Completed {
			mark = doneStyle.Render("✓")
		}
		challenge = challengeStyle.Render(fmt.Sprintf("🎯 %s (+%d XP) ", m.challenge.Title, m.challenge.XPReward)) + mark
	}

	return statsStyle.Render(strings.Join([]string{level, streak, challenge}, "  "))
}

func (m Model) viewToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	var out []string
	for _, n := range m.toasts {
		text := n.Title
		if n.Description != "" {
			text += " " + n.Description
		}
		out = append(out, toastStyleFor(n).Render(text))
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, out...))
}

func toastStyleFor(n models.Notification) lipgloss.Style {
	switch {
	case n.Celebratory():
		return celebrationStyle
	case n.Kind == "" || n.Kind == models.NotifyAPIKeyRequired:
		return warningStyle
	}
	return toastStyle
}

func (m Model) viewQuickReplies() string {
	if len(m.quickReplies) == 0 {
		return ""
	}
	var out []string
	for i, q := range m.quickReplies {
		label := fmt.Sprintf("[%d] %s", i+1, q.Text)
		if q.Icon != "" {
			label = fmt.Sprintf("[%d] %s %s", i+1, q.Icon, q.Text)
		}
		out = append(out, quickReplyStyle.Render(label))
	}
	return docStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, out...))
}

func (m Model) viewKeyForm() string {
	if m.form == nil {
		return ""
	}
	body := m.form.View()
	if m.formError != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", dangerStyle.Render(m.formError))
	}
	return lipgloss.Place(m.width, max(m.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		body,
	)
}

// renderHistory writes the trailing messages into the viewport and scrolls
// to the newest one.
func (m *Model) renderHistory() {
	msgs := m.messages
	if len(msgs) > constants.VisibleHistory {
		msgs = msgs[len(msgs)-constants.VisibleHistory:]
	}

	var b strings.Builder
	for _, msg := range msgs {
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m Model) renderMessage(msg models.Message) string {
	stamp := timeStyle.Render(msg.Timestamp.Local().Format(constants.TimeFormat))

	var label, body string
	if msg.Role == models.RoleUser {
		label = userLabelStyle.Render("You")
		body = docStyle.Render(msg.Content)
	} else {
		label = assistantLabelStyle.Render("Companion")
		body = m.renderMarkdown(msg.Content)
	}

	out := lipgloss.JoinVertical(lipgloss.Left, label+" "+stamp, body)
	if len(msg.Reactions) > 0 {
		out = lipgloss.JoinVertical(lipgloss.Left, out, docStyle.Render(reactionStyle.Render(strings.Join(msg.Reactions, " "))))
	}
	return out
}

func (m Model) renderMarkdown(s string) string {
	if m.renderer == nil {
		return docStyle.Render(s)
	}
	out, err := m.renderer.Render(s)
	if err != nil {
		return docStyle.Render(s)
	}
	return strings.TrimRight(out, "\n")
}

package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/companion/internal/achievements"
	"github.com/julianstephens/companion/internal/chat"
	"github.com/julianstephens/companion/internal/constants"
	"github.com/julianstephens/companion/internal/logger"
	"github.com/julianstephens/companion/internal/models"
	"github.com/julianstephens/companion/internal/storage"
)

// chrome is the number of rows used by everything except the viewport.
const chrome = 8

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}

	case greetingMsg:
		if msg.err != nil {
			logger.Warn("failed to load conversation", "err", msg.err)
		}
		m.messages = msg.greeting.Messages
		m.quickReplies = msg.greeting.QuickReplies
		m.pushToasts(msg.greeting.Notifications)
		m.renderHistory()
		return m, nil

	case turnDoneMsg:
		m.waiting = false
		if msg.err != nil {
			if !errors.Is(msg.err, chat.ErrBusy) && !errors.Is(msg.err, chat.ErrEmptyInput) {
				m.pushToasts([]models.Notification{{Title: "⚠ " + msg.err.Error()}})
			}
			return m, nil
		}
		m.messages = m.store.Messages()
		m.quickReplies = msg.result.QuickReplies
		m.stats = msg.result.After
		m.list.SetStatuses(achievements.Statuses(m.stats))
		m.pushToasts(msg.result.Notifications)
		m.renderHistory()
		if msg.result.PromptForKey {
			cmd := m.openKeyForm()
			return m, cmd
		}
		return m, nil

	case challengeDoneMsg:
		if msg.err != nil {
			logger.Warn("failed to complete challenge", "err", msg.err)
			return m, nil
		}
		m.challenge = msg.result.Challenge
		m.stats = msg.result.After
		m.list.SetStatuses(achievements.Statuses(m.stats))
		m.pushToasts(msg.result.Notifications)
		return m, nil

	case reactionMsg:
		if msg.err != nil {
			logger.Warn("failed to toggle reaction", "err", msg.err)
			return m, nil
		}
		for i := range m.messages {
			if m.messages[i].ID == msg.message.ID {
				m.messages[i] = msg.message
			}
		}
		m.renderHistory()
		return m, nil

	case collaboratorMsg:
		if msg.err != nil {
			m.formError = "Could not use that key: " + msg.err.Error()
			return m, nil
		}
		m.formError = ""
		return m, nil

	case storeEventMsg:
		m.refresh(msg.event)
		return m, waitForEvent(m.events)

	case storeClosedMsg:
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	switch m.state {
	case constants.StateAPIKey:
		cmd := m.updateKeyForm(msg)
		return m, cmd
	case constants.StateAchievements:
		if msg, ok := msg.(tea.KeyMsg); ok {
			if key.Matches(msg, m.keys.Tab) || key.Matches(msg, m.keys.Cancel) {
				m.state = constants.StateChat
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Tab):
			m.state = constants.StateAchievements
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.resize()
			return m, nil
		case key.Matches(msg, m.keys.APIKey):
			cmd := m.openKeyForm()
			return m, cmd
		case key.Matches(msg, m.keys.Challenge):
			return m, m.completeChallenge()
		case key.Matches(msg, m.keys.React):
			if id := m.lastAssistantID(); id != "" {
				return m, m.react(id, "❤️")
			}
			return m, nil
		case key.Matches(msg, m.keys.Send):
			return m.send(m.input.Value())
		case key.Matches(msg, m.keys.QuickReply) && m.input.Value() == "":
			if reply, ok := m.quickReply(msg.String()); ok {
				return m.send(reply.Text)
			}
		case key.Matches(msg, m.keys.ScrollUp, m.keys.ScrollDown):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// send starts a turn. Submissions while a reply is pending are dropped.
func (m Model) send(text string) (tea.Model, tea.Cmd) {
	text = strings.TrimSpace(text)
	if text == "" || m.waiting {
		return m, nil
	}
	m.waiting = true
	m.input.Reset()
	m.quickReplies = nil
	return m, tea.Batch(m.spinner.Tick, m.submit(text))
}

func (m Model) quickReply(digit string) (models.QuickReply, bool) {
	if len(digit) != 1 || digit[0] < '1' || digit[0] > '9' {
		return models.QuickReply{}, false
	}
	i := int(digit[0] - '1')
	if i >= len(m.quickReplies) {
		return models.QuickReply{}, false
	}
	return m.quickReplies[i], true
}

func (m Model) lastAssistantID() string {
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].Role == models.RoleAssistant {
			return m.messages[i].ID
		}
	}
	return ""
}

// refresh re-reads the parts of the store named by ev.
func (m *Model) refresh(ev storage.Event) {
	switch ev.Kind {
	case storage.EventStatsUpdated:
		m.stats = m.store.Stats()
		m.list.SetStatuses(achievements.Statuses(m.stats))
	case storage.EventChallengeUpdated:
		if c := m.store.Challenge(); c != nil {
			m.challenge = *c
		}
	case storage.EventMessagesUpdated:
		if !m.waiting {
			m.messages = m.store.Messages()
			m.renderHistory()
		}
	case storage.EventExternalChange:
		m.stats = m.store.Stats()
		m.list.SetStatuses(achievements.Statuses(m.stats))
		if c := m.store.Challenge(); c != nil {
			m.challenge = *c
		}
		if !m.waiting {
			m.messages = m.store.Messages()
			m.renderHistory()
		}
	}
}

func (m *Model) pushToasts(notes []models.Notification) {
	if len(notes) == 0 {
		return
	}
	m.toasts = append(m.toasts, notes...)
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
}

func (m *Model) resize() {
	m.input.Width = max(m.width-4, 10)
	height := m.height - chrome
	if m.help.ShowAll {
		height -= 3
	}
	m.viewport.Width = m.width
	m.viewport.Height = max(height, 3)
	m.list.SetSize(m.width, max(m.height-4, 3))

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(m.width-4, 20)),
	)
	if err != nil {
		logger.Warn("failed to create markdown renderer", "err", err)
	} else {
		m.renderer = r
	}
	m.renderHistory()
}

func newKeyForm(fm *APIKeyFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("OpenRouter API key").
				Description("The shared key has reached its limit. Paste your own key from openrouter.ai/keys.").
				EchoMode(huh.EchoModePassword).
				Value(&fm.APIKey).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("api key cannot be empty")
					}
					return nil
				}),
		),
	)
}

func (m *Model) openKeyForm() tea.Cmd {
	m.keyForm = &APIKeyFormModel{}
	m.form = newKeyForm(m.keyForm)
	m.formError = ""
	m.state = constants.StateAPIKey
	return m.form.Init()
}

func (m *Model) updateKeyForm(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Cancel) {
		m.formError = ""
		m.state = constants.StateChat
		return nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.store.SaveAPIKey(m.keyForm.APIKey); err != nil {
			m.formError = "Failed to save api key: " + err.Error()
			m.form.State = huh.StateNormal
			return tea.Batch(cmds...)
		}
		m.formError = ""
		m.state = constants.StateChat
		cmds = append(cmds, m.refreshCollaborator())
	case huh.StateAborted:
		m.formError = ""
		m.state = constants.StateChat
	}
	return tea.Batch(cmds...)
}

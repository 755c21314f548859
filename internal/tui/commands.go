package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/companion/internal/chat"
	"github.com/julianstephens/companion/internal/models"
	"github.com/julianstephens/companion/internal/storage"
)

type greetingMsg struct {
	greeting chat.Greeting
	err      error
}

type turnDoneMsg struct {
	result chat.TurnResult
	err    error
}

type challengeDoneMsg struct {
	result chat.ChallengeResult
	err    error
}

type reactionMsg struct {
	message models.Message
	err     error
}

type collaboratorMsg struct {
	name string
	err  error
}

type storeEventMsg struct {
	event storage.Event
}

// storeClosedMsg means the subscription ended.
type storeClosedMsg struct{}

func waitForEvent(events <-chan storage.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return storeClosedMsg{}
		}
		return storeEventMsg{event: ev}
	}
}

func (m Model) bootstrap() tea.Cmd {
	orch := m.chat
	return func() tea.Msg {
		g, err := orch.Bootstrap()
		return greetingMsg{greeting: g, err: err}
	}
}

func (m Model) submit(input string) tea.Cmd {
	ctx, orch := m.ctx, m.chat
	return func() tea.Msg {
		res, err := orch.Submit(ctx, input)
		return turnDoneMsg{result: res, err: err}
	}
}

func (m Model) completeChallenge() tea.Cmd {
	ctx, orch := m.ctx, m.chat
	return func() tea.Msg {
		res, err := orch.CompleteChallenge(ctx)
		return challengeDoneMsg{result: res, err: err}
	}
}

func (m Model) react(id, emoji string) tea.Cmd {
	orch := m.chat
	return func() tea.Msg {
		msg, err := orch.React(id, emoji)
		return reactionMsg{message: msg, err: err}
	}
}

func (m Model) refreshCollaborator() tea.Cmd {
	if m.rebuild == nil {
		return nil
	}
	ctx, orch, rebuild := m.ctx, m.chat, m.rebuild
	return func() tea.Msg {
		c, err := rebuild(ctx)
		if err != nil {
			return collaboratorMsg{err: err}
		}
		orch.SetCollaborator(c)
		return collaboratorMsg{name: orch.Collaborator().Name()}
	}
}

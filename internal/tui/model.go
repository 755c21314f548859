// Package tui is the terminal chat interface.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/companion/internal/achievements"
	"github.com/julianstephens/companion/internal/ai"
	"github.com/julianstephens/companion/internal/chat"
	"github.com/julianstephens/companion/internal/constants"
	"github.com/julianstephens/companion/internal/logger"
	"github.com/julianstephens/companion/internal/models"
	"github.com/julianstephens/companion/internal/storage"
	"github.com/julianstephens/companion/internal/tui/components/achievementlist"
)

// maxToasts is how many notifications stay on screen.
const maxToasts = 3

// Rebuild constructs the collaborator for the current credential.
type Rebuild func(ctx context.Context) (ai.Collaborator, error)

type APIKeyFormModel struct {
	APIKey string
}

type Model struct {
	ctx         context.Context
	store       *storage.Store
	chat        *chat.Orchestrator
	rebuild     Rebuild
	events      <-chan storage.Event
	unsubscribe func()

	state    constants.SessionState
	keys     KeyMap
	help     help.Model
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	list     achievementlist.Model
	form     *huh.Form
	keyForm  *APIKeyFormModel

	messages     []models.Message
	quickReplies []models.QuickReply
	toasts       []models.Notification
	stats        models.UserStats
	challenge    models.DailyChallenge
	waiting      bool
	formError    string
	quitting     bool
	width        int
	height       int
}

func NewModel(ctx context.Context, store *storage.Store, orch *chat.Orchestrator, rebuild Rebuild) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message... (/help for commands)"
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	events, unsubscribe := store.Subscribe()
	st := store.Stats()

	m := Model{
		ctx:          ctx,
		store:        store,
		chat:         orch,
		rebuild:      rebuild,
		events:       events,
		unsubscribe:  unsubscribe,
		state:        constants.StateChat,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		viewport:     viewport.New(0, 0),
		input:        ti,
		spinner:      sp,
		list:         achievementlist.New(achievements.Statuses(st), 0, 0),
		quickReplies: ai.DefaultQuickReplies(),
		stats:        st,
	}
	m.challenge, _ = orch.Challenge()
	return m
}

// Close ends the store subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case constants.StateAchievements:
		return []key.Binding{m.keys.Tab, m.keys.Quit}
	case constants.StateAPIKey:
		return []key.Binding{m.keys.Cancel}
	}
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.bootstrap(), waitForEvent(m.events))
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, store *storage.Store, orch *chat.Orchestrator, rebuild Rebuild) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewModel(ctx, store, orch, rebuild)
	defer m.Close()

	return runWithWatcher(ctx, store, func(ctx context.Context) error {
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
		_, err := p.Run()
		return err
	})
}

// runWithWatcher runs ui alongside a store file watcher so writes from other
// processes reach the open view. The watcher stops when ui returns.
func runWithWatcher(ctx context.Context, store *storage.Store, ui func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return ui(gctx)
	})
	g.Go(func() error {
		if err := storage.NewWatcher(store).Run(gctx); err != nil {
			logger.Warn("store watcher stopped", "err", err)
		}
		return nil
	})
	return g.Wait()
}

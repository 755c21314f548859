package achievementlist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/companion/internal/achievements"
)

const barWidth = 10

type Item struct {
	Status achievements.Status
}

func (i Item) Title() string {
	if i.Status.Unlocked {
		return i.Status.Icon + " " + i.Status.Title
	}
	return "🔒 " + i.Status.Title
}

func (i Item) Description() string {
	if i.Status.Unlocked && i.Status.UnlockedAt != nil {
		return fmt.Sprintf("%s | unlocked %s", i.Status.Description, i.Status.UnlockedAt.Format("Jan 2, 2006"))
	}
	return fmt.Sprintf("%s | %s", i.Status.Description, ProgressBar(i.Status.Progress, barWidth))
}

func (i Item) FilterValue() string { return i.Status.Title }

// ProgressBar renders ratio (0..1) as a fixed-width bar.
func ProgressBar(ratio float64, width int) string {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))
	return strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled) + fmt.Sprintf(" %d%%", int(ratio*100))
}

type Model struct {
	list list.Model
}

func New(statuses []achievements.Status, width, height int) Model {
	l := list.New(toItems(statuses), list.NewDefaultDelegate(), width, height)
	l.Title = "Achievements"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	return Model{list: l}
}

func toItems(statuses []achievements.Status) []list.Item {
	items := make([]list.Item, len(statuses))
	for i, s := range statuses {
		items[i] = Item{Status: s}
	}
	return items
}

func (m *Model) SetStatuses(statuses []achievements.Status) {
	m.list.SetItems(toItems(statuses))
}

// Unlocked counts the unlocked items.
func (m Model) Unlocked() int {
	n := 0
	for _, it := range m.list.Items() {
		if i, ok := it.(Item); ok && i.Status.Unlocked {
			n++
		}
	}
	return n
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No achievements defined."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

package tui

import "github.com/charmbracelet/lipgloss"

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	statsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	xpBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	streakStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")).
			Bold(true)

	challengeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("141"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	userLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			MarginTop(1)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				MarginTop(1)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	reactionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	quickReplyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("237")).
			Padding(0, 1).
			MarginRight(1)

	toastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1).
			MarginRight(1)

	celebrationStyle = toastStyle.
				Background(lipgloss.Color("35"))

	warningStyle = toastStyle.
			Background(lipgloss.Color("166"))

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	docStyle = lipgloss.NewStyle().Margin(0, 1)
)

package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1e1e2e")).
			Background(lipgloss.Color("#cba6f7")).
			Padding(0, 2)

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#89b4fa"))

	dirStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#89b4fa")).
			Bold(true)

	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cdd6f4"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1e1e2e")).
			Background(lipgloss.Color("#a6e3a1")).
			Bold(true)

	rangeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f9e2af")).
			Bold(true)

	inCartStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fab387"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#585b70"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94e2d5"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f38ba8")).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#b4befe")).
			Padding(1, 2)

	promptTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#b4befe")).
				Bold(true)
)

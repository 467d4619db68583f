package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#b8b8c8"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6a7284"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ea1f3")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e05561"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34d474"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8a92a4"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0a0a10")).
			Background(lipgloss.Color("#e05561")).
			Bold(true).
			Padding(0, 1)

	liveDotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34d474"))

	deadDotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e05561"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#8a92a4")).
				Bold(true)

	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	unreadMarkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ea1f3")).
			Bold(true)

	toastBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#34d474")).
			Padding(0, 1)

	toastFadeBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#1e3a2a")).
				Padding(0, 1)

	toastTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34d474")).
			Bold(true)
)

// priorityStyle colors a priority tag.
func priorityStyle(p string) lipgloss.Style {
	switch p {
	case "critical":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#e05561")).Bold(true)
	case "high":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#e8a33d"))
	case "medium":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#4ea1f3"))
	default:
		return dimStyle
	}
}

// statusStyle colors an issue status tag.
func statusStyle(s string) lipgloss.Style {
	switch s {
	case "open":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#34d474"))
	case "in_progress":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#e8a33d"))
	default:
		return dimStyle
	}
}

// renderLogo renders the header wordmark.
func renderLogo() string {
	return accentStyle.Render("TRACK") + selectedStyle.Render("DECK")
}

// helpEntry renders a "key label" pair for the help bar.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// truncateToHeight limits s to at most h lines.
func truncateToHeight(s string, h int) string {
	if h <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= h {
		return s
	}
	return strings.Join(lines[:h], "\n")
}

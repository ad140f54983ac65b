package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	cyan  = lipgloss.Color("#00F3FF")
	muted = lipgloss.Color("#6C7086")

	listStyle = lipgloss.NewStyle().
			Width(listWidth).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted)
	activeItemStyle = lipgloss.NewStyle().Foreground(cyan).Bold(true)
	itemStyle       = lipgloss.NewStyle().Foreground(muted)
	headerStyle     = lipgloss.NewStyle().Bold(true).Foreground(cyan).
			BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	outgoingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0AFF60"))
	incomingStyle = lipgloss.NewStyle()
	systemStyle   = lipgloss.NewStyle().Foreground(muted).Italic(true)
	statusStyle   = lipgloss.NewStyle().Foreground(muted)
)

func (m Model) View() string {
	var list strings.Builder
	for _, c := range m.chats {
		if c.Active {
			list.WriteString(activeItemStyle.Render("▸ " + c.Name))
		} else {
			list.WriteString(itemStyle.Render("  " + c.Name))
		}
		list.WriteString("\n")
	}

	right := lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(m.header),
		m.viewport.View(),
		m.input.View(),
		statusStyle.Render(m.status),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, listStyle.Render(list.String()), " ", right)
}

func renderBubbles(bubbles []Bubble, width int) string {
	lines := make([]string, 0, len(bubbles))
	for _, b := range bubbles {
		switch b.Direction {
		case Outgoing:
			lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Right, outgoingStyle.Render(b.String())))
		case System:
			lines = append(lines, systemStyle.Render(b.String()))
		default:
			lines = append(lines, incomingStyle.Render(b.String()))
		}
	}
	return strings.Join(lines, "\n")
}

package view

import "github.com/charmbracelet/lipgloss"

// Styles is the palette shared by all views. Two variants exist, mirroring
// the persisted dark/light theme.
type Styles struct {
	Dark bool

	Title   lipgloss.Style
	Border  lipgloss.Style
	Faint   lipgloss.Style
	Accent  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style

	StatusOverdue lipgloss.Style
	StatusDue     lipgloss.Style
	StatusPaid    lipgloss.Style

	TableHeader   lipgloss.Style
	TableSelected lipgloss.Style
}

func DarkStyles() Styles {
	return Styles{
		Dark:          true,
		Title:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Border:        lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")),
		Faint:         lipgloss.NewStyle().Faint(true),
		Accent:        lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
		Success:       lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		Error:         lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		StatusOverdue: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		StatusDue:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		StatusPaid:    lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		TableHeader:   lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).BorderBottom(true),
		TableSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")),
	}
}

func LightStyles() Styles {
	return Styles{
		Dark:          false,
		Title:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("25")),
		Border:        lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("250")),
		Faint:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Accent:        lipgloss.NewStyle().Foreground(lipgloss.Color("162")),
		Success:       lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		Error:         lipgloss.NewStyle().Foreground(lipgloss.Color("124")),
		StatusOverdue: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("124")),
		StatusDue:     lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
		StatusPaid:    lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		TableHeader:   lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("250")).BorderBottom(true),
		TableSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("61")),
	}
}

// StatusStyle picks the style for a ledger status string.
func (s Styles) StatusStyle(status string) lipgloss.Style {
	switch status {
	case "Overdue":
		return s.StatusOverdue
	case "Due":
		return s.StatusDue
	default:
		return s.StatusPaid
	}
}

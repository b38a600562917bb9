package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by View. All colors are ANSI
// 256-color codes.
type Styles struct {
	Title    lipgloss.Style
	Nav      lipgloss.Style
	NavOn    lipgloss.Style
	Menu     lipgloss.Style
	Row      lipgloss.Style
	Selected lipgloss.Style
	Done     lipgloss.Style
	Editing  lipgloss.Style
	Label    lipgloss.Style
	Error    lipgloss.Style
	Faint    lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles is the dark-terminal scheme.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Nav:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1),
		NavOn:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("62")).Padding(0, 1),
		Menu:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1),
		Row:      lipgloss.NewStyle().PaddingLeft(2),
		Selected: lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("237")),
		Done:     lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("242")),
		Editing:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Label:    lipgloss.NewStyle().Width(10).Foreground(lipgloss.Color("245")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Faint:    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

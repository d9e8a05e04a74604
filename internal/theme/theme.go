// Package theme turns configured colors into lipgloss styles.
package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/metcalfc/skim/internal/config"
	"github.com/metcalfc/skim/internal/document"
)

// Theme holds every style skim renders with.
type Theme struct {
	Title   lipgloss.Style
	H1      lipgloss.Style
	H2      lipgloss.Style
	Quote   lipgloss.Style
	Code    lipgloss.Style
	Rule    lipgloss.Style
	Status  lipgloss.Style
	Help    lipgloss.Style
	Border  lipgloss.Style
	Link    lipgloss.Style
	Active  lipgloss.Style
	Cursor  lipgloss.Style
	Faded   lipgloss.Style
	Summary lipgloss.Style
	Ring    lipgloss.Style
}

// New builds the styles for the configured accent and muted colors.
func New(c config.Theme) Theme {
	accent := lipgloss.Color(c.Accent)
	muted := lipgloss.Color(c.Muted)

	return Theme{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		H1:      lipgloss.NewStyle().Bold(true).Underline(true).Foreground(accent),
		H2:      lipgloss.NewStyle().Bold(true),
		Quote:   lipgloss.NewStyle().Italic(true).Foreground(muted),
		Code:    lipgloss.NewStyle().Foreground(lipgloss.Color("#9ECE6A")),
		Rule:    lipgloss.NewStyle().Foreground(muted),
		Status:  lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Padding(0, 1),
		Help:    lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Italic(true),
		Border:  lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, true, false, false).BorderForeground(muted),
		Link:    lipgloss.NewStyle(),
		Active:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		Cursor:  lipgloss.NewStyle().Reverse(true),
		Faded:   lipgloss.NewStyle().Faint(true),
		Summary: lipgloss.NewStyle().Bold(true),
		Ring:    lipgloss.NewStyle().Foreground(accent),
	}
}

// Block styles one laid-out line of a document block. It is meant to be
// passed to Document.Layout.
func (t Theme) Block(b document.Block, line string) string {
	switch b.Kind {
	case document.Heading:
		if b.Level <= 1 {
			return t.H1.Render(line)
		}
		return t.H2.Render(line)
	case document.Quote:
		return t.Quote.Render(line)
	case document.Code:
		return t.Code.Render(line)
	case document.Rule:
		return t.Rule.Render(line)
	}
	return line
}

package pane

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/metcalfc/skim/internal/toc"
)

var ringGlyphs = []string{"○", "◔", "◑", "◕", "●"}

// RingGlyph draws a progress ring stroke offset as a single glyph: an empty
// circle at offset == circumference, a full one at offset 0.
func RingGlyph(offset, circumference float64) string {
	if circumference <= 0 {
		return ringGlyphs[0]
	}
	fraction := 1 - offset/circumference
	fraction = math.Max(0, math.Min(1, fraction))
	return ringGlyphs[int(math.Round(fraction*float64(len(ringGlyphs)-1)))]
}

// SummaryStyles are the styles a Summary renders with.
type SummaryStyles struct {
	Text lipgloss.Style
	Ring lipgloss.Style
	Hint lipgloss.Style
}

// Summary is the compact layout's one-line header: a progress ring and the
// names of the sections on screen. It implements toc.TextSink and toc.Ring.
type Summary struct {
	text          string
	offset        float64
	circumference float64
	styles        SummaryStyles
}

var (
	_ toc.TextSink = (*Summary)(nil)
	_ toc.Ring     = (*Summary)(nil)
)

// NewSummary returns a summary whose ring has the given circumference. The
// ring starts empty.
func NewSummary(circumference float64, styles SummaryStyles) *Summary {
	return &Summary{offset: circumference, circumference: circumference, styles: styles}
}

// SetText implements toc.TextSink.
func (s *Summary) SetText(text string) { s.text = text }

// SetStrokeOffset implements toc.Ring.
func (s *Summary) SetStrokeOffset(offset float64) { s.offset = offset }

// Text returns the current label.
func (s *Summary) Text() string { return s.text }

// Glyph returns the current ring glyph.
func (s *Summary) Glyph() string { return RingGlyph(s.offset, s.circumference) }

// View renders the summary line in width columns, with a disclosure arrow
// reflecting whether the list is open.
func (s *Summary) View(width int, open bool) string {
	arrow := "▸"
	if open {
		arrow = "▾"
	}
	head := s.styles.Ring.Render(s.Glyph()) + " "
	tail := " " + s.styles.Hint.Render(arrow)
	room := width - ansi.StringWidth(head) - ansi.StringWidth(tail)
	label := ansi.Truncate(s.text, max(room, 0), "…")
	pad := strings.Repeat(" ", max(room-ansi.StringWidth(label), 0))
	return head + s.styles.Text.Render(label) + pad + tail
}

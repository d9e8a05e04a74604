package document

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/metcalfc/skim/internal/toc"
)

// MinWidth is the narrowest width a document is laid out at.
const MinWidth = 12

// Style decorates one rendered line of a block. A nil Style leaves lines
// plain.
type Style func(b Block, line string) string

// Page is a document laid out at a fixed width. Heading offsets and heights
// are in lines.
type Page struct {
	Width    int
	Lines    []string
	Headings []toc.Heading
}

// Layout wraps the document to width columns. Blocks are separated by one
// blank line; a heading's offset is the index of its first line.
func (d *Document) Layout(width int, style Style) *Page {
	if width < MinWidth {
		width = MinWidth
	}
	if style == nil {
		style = func(_ Block, line string) string { return line }
	}

	p := &Page{Width: width}
	for i, b := range d.Blocks {
		if i > 0 {
			p.Lines = append(p.Lines, "")
		}
		start := len(p.Lines)
		for _, line := range blockLines(b, width) {
			p.Lines = append(p.Lines, style(b, line))
		}
		if b.Kind == Heading {
			p.Headings = append(p.Headings, toc.Heading{
				ID:     b.ID,
				Text:   b.Text,
				Level:  b.Level,
				Offset: float64(start),
				Height: float64(len(p.Lines) - start),
			})
		}
	}
	return p
}

func blockLines(b Block, width int) []string {
	switch b.Kind {
	case Heading:
		return wrap(b.Text, width, "", "")
	case ListItem:
		return wrap(b.Text, width, "• ", "  ")
	case Quote:
		return wrap(b.Text, width, "│ ", "│ ")
	case Code:
		var out []string
		for _, line := range strings.Split(b.Text, "\n") {
			line = strings.ReplaceAll(line, "\t", "    ")
			out = append(out, ansi.Truncate("  "+line, width, "…"))
		}
		return out
	case Rule:
		return []string{strings.Repeat("─", width)}
	default:
		return wrap(b.Text, width, "", "")
	}
}

// wrap word-wraps text so that every line, prefix included, fits in width.
// Words longer than a line are broken.
func wrap(text string, width int, first, rest string) []string {
	limit := width - max(ansi.StringWidth(first), ansi.StringWidth(rest))
	wrapped := ansi.Wrap(text, limit, "-")
	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " ")
		if i == 0 {
			lines[i] = first + line
		} else {
			lines[i] = rest + line
		}
	}
	return lines
}

// Line returns the first line of the heading with the given id.
func (p *Page) Line(id string) (int, bool) {
	for _, h := range p.Headings {
		if h.ID == id {
			return int(h.Offset), true
		}
	}
	return 0, false
}

// Anchor describes a line as the closest heading at or above it plus the
// distance from that heading. Lines before the first heading anchor to "".
// Anchors survive relayout at a different width better than raw lines do.
func (p *Page) Anchor(line int) (id string, offset int) {
	base := 0
	for _, h := range p.Headings {
		if int(h.Offset) > line {
			break
		}
		id, base = h.ID, int(h.Offset)
	}
	return id, line - base
}

// Resolve turns an anchor back into a line, clamped to the page.
func (p *Page) Resolve(id string, offset int) int {
	base := 0
	if id != "" {
		if l, ok := p.Line(id); ok {
			base = l
		}
	}
	line := base + offset
	if line >= len(p.Lines) {
		line = len(p.Lines) - 1
	}
	if line < 0 {
		line = 0
	}
	return line
}

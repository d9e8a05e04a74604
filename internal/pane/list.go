package pane

import (
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/metcalfc/skim/internal/event"
	"github.com/metcalfc/skim/internal/keys"
	"github.com/metcalfc/skim/internal/toc"
)

// ListStyles are the styles a List renders with.
type ListStyles struct {
	Link   lipgloss.Style
	Active lipgloss.Style
	Cursor lipgloss.Style
	Faded  lipgloss.Style
}

// List is the table of contents: one line per heading, indented by level.
// It implements toc.Panel for the sidebar and compact layouts and
// toc.Disclosure for the compact layout's collapsible list. Units are
// lines; each link is one line tall.
type List struct {
	headings    []toc.Heading
	index       map[string]int
	width       int
	height      int
	top         int
	cursor      int
	focused     bool
	open        bool
	highlighted map[string]bool
	fadeTop     bool
	fadeBottom  bool
	keys        keys.Map
	styles      ListStyles

	scrolled event.Signal
	toggled  event.Emitter[bool]
	selected event.Emitter[string]
}

var (
	_ toc.Panel      = (*List)(nil)
	_ toc.Disclosure = (*List)(nil)
)

// NewList returns an empty list.
func NewList(km keys.Map, styles ListStyles) *List {
	return &List{
		index:       make(map[string]int),
		highlighted: make(map[string]bool),
		keys:        km,
		styles:      styles,
	}
}

// SetHeadings replaces the links. Highlights of ids that remain are kept.
func (l *List) SetHeadings(headings []toc.Heading) {
	l.headings = headings
	l.index = make(map[string]int, len(headings))
	for i, h := range headings {
		l.index[h.ID] = i
	}
	for id := range l.highlighted {
		if _, ok := l.index[id]; !ok {
			delete(l.highlighted, id)
		}
	}
	l.cursor = min(l.cursor, max(len(headings)-1, 0))
	l.setTop(l.top)
}

// SetSize sets the rendered size.
func (l *List) SetSize(width, height int) {
	l.width = width
	l.height = max(height, 0)
	l.setTop(l.top)
}

// Focus gives the list keyboard focus and puts the cursor on the first
// highlighted link.
func (l *List) Focus() {
	l.focused = true
	for i, h := range l.headings {
		if l.highlighted[h.ID] {
			l.cursor = i
			break
		}
	}
	l.follow()
}

// Blur removes keyboard focus.
func (l *List) Blur() { l.focused = false }

// Focused reports whether the list has keyboard focus.
func (l *List) Focused() bool { return l.focused }

// Open reports whether the compact list is expanded.
func (l *List) Open() bool { return l.open }

// Toggle opens a closed list and closes an open one.
func (l *List) Toggle() { l.SetOpen(!l.open) }

// Update handles navigation keys while the list is focused.
func (l *List) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok || !l.focused || len(l.headings) == 0 {
		return nil
	}
	switch {
	case key.Matches(km, l.keys.Up):
		l.cursor = max(l.cursor-1, 0)
		l.follow()
	case key.Matches(km, l.keys.Down):
		l.cursor = min(l.cursor+1, len(l.headings)-1)
		l.follow()
	case key.Matches(km, l.keys.Top):
		l.cursor = 0
		l.follow()
	case key.Matches(km, l.keys.Bottom):
		l.cursor = len(l.headings) - 1
		l.follow()
	case key.Matches(km, l.keys.Select):
		l.selected.Emit(l.headings[l.cursor].ID)
	}
	return nil
}

// follow scrolls just enough to keep the cursor visible.
func (l *List) follow() {
	switch {
	case l.cursor < l.top:
		l.setTop(l.cursor)
	case l.height > 0 && l.cursor >= l.top+l.height:
		l.setTop(l.cursor - l.height + 1)
	}
}

func (l *List) setTop(top int) {
	top = max(min(top, len(l.headings)-l.height), 0)
	if top != l.top {
		l.top = top
		l.scrolled.Emit()
	}
}

// View renders the visible links. The first or last row is drawn faded when
// more links lie beyond it.
func (l *List) View() string {
	if l.height <= 0 || l.width <= 0 {
		return ""
	}
	rows := make([]string, l.height)
	for row := range rows {
		i := l.top + row
		if i >= len(l.headings) {
			rows[row] = strings.Repeat(" ", l.width)
			continue
		}
		rows[row] = l.renderLink(i, row)
	}
	return strings.Join(rows, "\n")
}

func (l *List) renderLink(i, row int) string {
	h := l.headings[i]
	indent := strings.Repeat("  ", max(h.Level-1, 0))
	marker := "  "
	if l.highlighted[h.ID] {
		marker = "▌ "
	}
	text := ansi.Truncate(marker+indent+h.Text, l.width, "…")
	text += strings.Repeat(" ", max(l.width-ansi.StringWidth(text), 0))

	style := l.styles.Link
	if l.highlighted[h.ID] {
		style = l.styles.Active
	}
	if l.focused && i == l.cursor {
		style = style.Inherit(l.styles.Cursor)
	}
	if (row == 0 && l.fadeTop) || (row == l.height-1 && l.fadeBottom) {
		style = style.Inherit(l.styles.Faded)
	}
	return style.Render(text)
}

// ScrollTop implements toc.Panel.
func (l *List) ScrollTop() float64 { return float64(l.top) }

// SetScrollTop implements toc.Panel. Offsets round to whole lines.
func (l *List) SetScrollTop(top float64) { l.setTop(int(math.Round(top))) }

// ScrollHeight implements toc.Panel.
func (l *List) ScrollHeight() float64 { return float64(len(l.headings)) }

// ClientHeight implements toc.Panel.
func (l *List) ClientHeight() float64 { return float64(l.height) }

// LinkBounds implements toc.Panel.
func (l *List) LinkBounds(id string) (top, height float64, ok bool) {
	i, ok := l.index[id]
	if !ok {
		return 0, 0, false
	}
	return float64(i), 1, true
}

// LinkIDs implements toc.Panel.
func (l *List) LinkIDs() []string {
	ids := make([]string, len(l.headings))
	for i, h := range l.headings {
		ids[i] = h.ID
	}
	return ids
}

// SetHighlighted implements toc.Panel.
func (l *List) SetHighlighted(id string, on bool) {
	if _, ok := l.index[id]; !ok {
		return
	}
	if on {
		l.highlighted[id] = true
	} else {
		delete(l.highlighted, id)
	}
}

// Highlighted reports whether the link for id is highlighted.
func (l *List) Highlighted(id string) bool { return l.highlighted[id] }

// SetFade implements toc.Panel.
func (l *List) SetFade(top, bottom bool) {
	l.fadeTop, l.fadeBottom = top, bottom
}

// Fade returns the current fade flags.
func (l *List) Fade() (top, bottom bool) { return l.fadeTop, l.fadeBottom }

// OnScroll implements toc.Panel.
func (l *List) OnScroll(fn func()) (cancel func()) { return l.scrolled.Subscribe(fn) }

// SetOpen implements toc.Disclosure. A change of state emits a toggle.
func (l *List) SetOpen(open bool) {
	if open == l.open {
		return
	}
	l.open = open
	if open {
		l.Focus()
	} else {
		l.Blur()
	}
	l.toggled.Emit(open)
}

// OnToggle implements toc.Disclosure.
func (l *List) OnToggle(fn func(open bool)) (cancel func()) { return l.toggled.Subscribe(fn) }

// OnSelect implements toc.Disclosure. It also fires in the sidebar layout
// when a link is chosen.
func (l *List) OnSelect(fn func(id string)) (cancel func()) { return l.selected.Subscribe(fn) }

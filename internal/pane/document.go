// Package pane provides the bubbletea surfaces the table of contents
// controllers drive: the document viewport, the contents list and the
// compact summary line.
package pane

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/metcalfc/skim/internal/document"
	"github.com/metcalfc/skim/internal/event"
	"github.com/metcalfc/skim/internal/toc"
)

// Document is the scrolling document view. It implements toc.Host with
// lines as the unit: scroll and resize events are emitted synchronously
// from Update, ScrollTo and Reflow.
type Document struct {
	vp       viewport.Model
	page     *document.Page
	timers   *Timers
	scrolled event.Signal
	resized  event.Signal
}

var _ toc.Host = (*Document)(nil)

// NewDocument returns an empty document view that schedules timers on
// timers.
func NewDocument(timers *Timers) *Document {
	vp := viewport.New(0, 0)
	vp.MouseWheelDelta = 3
	return &Document{
		vp:     vp,
		page:   &document.Page{},
		timers: timers,
	}
}

// Reflow swaps in a page laid out for a new size and resizes the view. The
// top line keeps its section anchor across the reflow. A resize event is
// emitted afterwards.
func (d *Document) Reflow(page *document.Page, width, height int) {
	id, off := d.page.Anchor(d.vp.YOffset)
	keep := d.vp.YOffset > 0

	d.page = page
	d.vp.Width = width
	d.vp.Height = max(height, 1)
	d.vp.SetContent(strings.Join(page.Lines, "\n"))
	if keep {
		d.vp.SetYOffset(page.Resolve(id, off))
	}
	d.resized.Emit()
}

// Page returns the current layout.
func (d *Document) Page() *document.Page { return d.page }

// Update passes msg to the viewport and emits a scroll event when the
// offset moved.
func (d *Document) Update(msg tea.Msg) tea.Cmd {
	before := d.vp.YOffset
	var cmd tea.Cmd
	d.vp, cmd = d.vp.Update(msg)
	if d.vp.YOffset != before {
		d.scrolled.Emit()
	}
	return cmd
}

// ScrollTo moves the top of the view to line, clamped to the document.
func (d *Document) ScrollTo(line int) {
	before := d.vp.YOffset
	d.vp.SetYOffset(line)
	if d.vp.YOffset != before {
		d.scrolled.Emit()
	}
}

// JumpTo scrolls so the heading with id starts at row headerOffset of the
// view. It reports whether the heading exists.
func (d *Document) JumpTo(id string, headerOffset int) bool {
	line, ok := d.page.Line(id)
	if !ok {
		return false
	}
	d.ScrollTo(line - headerOffset)
	return true
}

// Anchor returns the section anchor of the top line.
func (d *Document) Anchor() (id string, offset int) {
	return d.page.Anchor(d.vp.YOffset)
}

// Restore scrolls to a saved section anchor.
func (d *Document) Restore(id string, offset int) {
	d.ScrollTo(d.page.Resolve(id, offset))
}

// Percent returns reading progress as a whole percentage.
func (d *Document) Percent() int {
	return int(math.Round(100 * toc.Progress(d.ScrollOffset(), d.ScrollHeight(), d.ViewportHeight())))
}

// View renders the visible lines.
func (d *Document) View() string { return d.vp.View() }

func (d *Document) Headings() []toc.Heading { return d.page.Headings }

func (d *Document) ScrollOffset() float64 { return float64(d.vp.YOffset) }

func (d *Document) ViewportHeight() float64 { return float64(d.vp.Height) }

func (d *Document) ScrollHeight() float64 { return float64(d.vp.TotalLineCount()) }

func (d *Document) OnScroll(fn func()) (cancel func()) { return d.scrolled.Subscribe(fn) }

func (d *Document) OnResize(fn func()) (cancel func()) { return d.resized.Subscribe(fn) }

func (d *Document) AfterFunc(dur time.Duration, fn func()) (cancel func()) {
	return d.timers.AfterFunc(dur, fn)
}

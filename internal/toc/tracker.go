package toc

import (
	"log/slog"
	"math"
	"slices"
	"time"
)

// Layout exposes the measured document. Headings is queried fresh on every
// rebuild because offsets move when the document reflows.
type Layout interface {
	Headings() []Heading
	ScrollOffset() float64
	ViewportHeight() float64
	ScrollHeight() float64
}

// Host is the page a controller attaches to. Callbacks registered here and
// timers started with AfterFunc must run on the host's UI loop.
type Host interface {
	Layout
	OnScroll(fn func()) (cancel func())
	OnResize(fn func()) (cancel func())
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

// Panel is a scrollable list of navigation links, one per heading id.
// LinkBounds is in the panel's content coordinates.
type Panel interface {
	ScrollTop() float64
	SetScrollTop(top float64)
	ScrollHeight() float64
	ClientHeight() float64
	LinkBounds(id string) (top, height float64, ok bool)
	LinkIDs() []string
	SetHighlighted(id string, on bool)
	SetFade(top, bottom bool)
	OnScroll(fn func()) (cancel func())
}

// Tracker holds the per-widget tracking state: the headings and regions of
// the last rebuild and the last resolved Active-Id Set.
type Tracker struct {
	layout   Layout
	opts     Options
	headings []Heading
	regions  []Region
	active   []string
}

// NewTracker returns a tracker over layout. Nothing is measured until
// Rebuild is called.
func NewTracker(layout Layout, opts Options) *Tracker {
	return newTracker(layout, opts.withDefaults())
}

// newTracker takes options that already went through withDefaults. A second
// pass would read an explicit zero as unset.
func newTracker(layout Layout, opts Options) *Tracker {
	return &Tracker{layout: layout, opts: opts}
}

// Rebuild re-measures headings and rebuilds the regions. Headings that
// cannot be placed are dropped.
func (t *Tracker) Rebuild() {
	docHeight := t.layout.ScrollHeight()
	t.headings = t.wellFormed(t.layout.Headings(), docHeight)
	t.regions = BuildRegions(t.headings, docHeight)
}

func (t *Tracker) wellFormed(in []Heading, docHeight float64) []Heading {
	out := make([]Heading, 0, len(in))
	seen := make(map[string]bool, len(in))
	prev := math.Inf(-1)
	for _, h := range in {
		reason := ""
		switch {
		case h.ID == "":
			reason = "missing id"
		case seen[h.ID]:
			reason = "duplicate id"
		case !finite(h.Offset) || !finite(h.Height):
			reason = "unmeasurable position"
		case h.Height < 0:
			reason = "negative height"
		case h.Offset < prev:
			reason = "out of document order"
		case h.Offset > docHeight:
			reason = "past document end"
		}
		if reason != "" {
			t.opts.Logger.Debug("skipping heading", slog.String("id", h.ID), slog.String("reason", reason), slog.Float64("offset", h.Offset))
			continue
		}
		seen[h.ID] = true
		prev = h.Offset
		out = append(out, h)
	}
	return out
}

// Resolve recomputes the Active-Id Set. changed is false when the set is
// equal to the previous one. The returned slice is the caller's.
func (t *Tracker) Resolve() (ids []string, changed bool) {
	w := ViewportWindow(t.layout.ScrollOffset(), t.layout.ViewportHeight(), t.opts.HeaderOffset)
	ids = VisibleIDs(t.headings, t.regions, w)
	changed = !slices.Equal(ids, t.active)
	t.active = ids
	return slices.Clone(ids), changed
}

// Headings returns the headings of the last rebuild.
func (t *Tracker) Headings() []Heading { return t.headings }

// Regions returns the regions of the last rebuild.
func (t *Tracker) Regions() []Region { return t.regions }

// Active returns a copy of the last resolved Active-Id Set.
func (t *Tracker) Active() []string { return slices.Clone(t.active) }

// Progress returns the document-wide scroll fraction.
func (t *Tracker) Progress() float64 {
	return Progress(t.layout.ScrollOffset(), t.layout.ScrollHeight(), t.layout.ViewportHeight())
}

// highlight clears every link and marks the active ones.
func highlight(p Panel, ids []string) {
	for _, id := range p.LinkIDs() {
		p.SetHighlighted(id, false)
	}
	for _, id := range ids {
		p.SetHighlighted(id, true)
	}
}

// scrollToActive centres the first active link in the panel unless the
// correction is inside the dead zone.
func scrollToActive(p Panel, ids []string, deadZone float64) {
	if len(ids) == 0 {
		return
	}
	top, height, ok := p.LinkBounds(ids[0])
	if !ok {
		return
	}
	target := CenterTarget(top, height, p.ClientHeight(), p.ScrollHeight())
	if math.Abs(target-p.ScrollTop()) > deadZone {
		p.SetScrollTop(target)
	}
}

func updateMask(p Panel, threshold float64) {
	m := MaskFor(p.ScrollTop(), p.ScrollHeight(), p.ClientHeight(), threshold)
	p.SetFade(m.Top, m.Bottom)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// subscriptions collects the cancel functions of one attachment.
type subscriptions struct {
	cancels  []func()
	detached bool
}

func (s *subscriptions) add(cancel func()) {
	if cancel != nil {
		s.cancels = append(s.cancels, cancel)
	}
}

// detach cancels in reverse registration order. Later calls do nothing.
func (s *subscriptions) detach() {
	if s.detached {
		return
	}
	s.detached = true
	for i := len(s.cancels) - 1; i >= 0; i-- {
		s.cancels[i]()
	}
	s.cancels = nil
}

package toc

import (
	"strings"
)

// TextSink receives the one-line section summary.
type TextSink interface {
	SetText(text string)
}

// Ring receives the stroke offset of the circular progress indicator.
type Ring interface {
	SetStrokeOffset(offset float64)
}

// Disclosure is the collapsible container around the compact list.
type Disclosure interface {
	SetOpen(open bool)
	OnToggle(fn func(open bool)) (cancel func())
	OnSelect(fn func(id string)) (cancel func())
}

// MobileSurfaces are the UI pieces of the compact TOC. Summary is required;
// the others may be nil.
type MobileSurfaces struct {
	Summary    TextSink
	Ring       Ring
	List       Panel
	Disclosure Disclosure
}

// Mobile drives the compact TOC: a summary of the active sections, a
// reading progress ring and a collapsible list.
type Mobile struct {
	host    Host
	ui      MobileSurfaces
	opts    Options
	tracker *Tracker
	subs    subscriptions
	settle  func()
}

// NewMobile binds a tracker for host to the compact surfaces.
func NewMobile(host Host, ui MobileSurfaces, opts Options) *Mobile {
	opts = opts.withDefaults()
	return &Mobile{
		host:    host,
		ui:      ui,
		opts:    opts,
		tracker: newTracker(host, opts),
	}
}

// Tracker exposes the controller's tracking state.
func (m *Mobile) Tracker() *Tracker { return m.tracker }

// Attach measures the document, renders the initial state and starts
// listening. Without headings only the progress ring is kept live.
func (m *Mobile) Attach() (detach func()) {
	if m.ui.Summary == nil {
		return func() {}
	}
	m.tracker.Rebuild()

	if len(m.tracker.Headings()) == 0 {
		m.ui.Summary.SetText(m.opts.Fallback)
		m.updateProgress()
		m.subs.add(m.host.OnScroll(m.updateProgress))
		m.subs.add(m.host.OnResize(m.updateProgress))
		return m.subs.detach
	}

	ids, _ := m.tracker.Resolve()
	m.reflect(ids)
	m.updateProgress()

	if m.ui.Disclosure != nil {
		m.subs.add(m.ui.Disclosure.OnSelect(func(string) {
			m.ui.Disclosure.SetOpen(false)
		}))
		m.subs.add(m.ui.Disclosure.OnToggle(m.handleToggle))
	}
	if m.ui.List != nil {
		m.subs.add(m.ui.List.OnScroll(m.updateMask))
	}
	m.subs.add(m.host.OnScroll(m.handleScroll))
	m.subs.add(m.host.OnResize(m.handleResize))
	m.subs.add(func() {
		if m.settle != nil {
			m.settle()
		}
	})
	return m.subs.detach
}

// Summary returns the label for a set of active ids: the text of those
// headings in document order, or the fallback when there is none.
func Summary(headings []Heading, ids []string, fallback string) string {
	if len(ids) == 0 {
		return fallback
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var texts []string
	for _, h := range headings {
		if !want[h.ID] {
			continue
		}
		if t := strings.TrimSpace(h.Text); t != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) == 0 {
		return fallback
	}
	return strings.Join(texts, ", ")
}

func (m *Mobile) handleScroll() {
	if m.subs.detached {
		return
	}
	if ids, changed := m.tracker.Resolve(); changed {
		m.reflect(ids)
	}
	m.updateProgress()
}

func (m *Mobile) handleResize() {
	if m.subs.detached {
		return
	}
	m.tracker.Rebuild()
	m.handleScroll()
	m.updateMask()
}

func (m *Mobile) handleToggle(open bool) {
	if m.subs.detached || !open {
		return
	}
	if m.settle != nil {
		m.settle()
	}
	m.settle = m.host.AfterFunc(m.opts.SettleDelay, m.updateMask)
}

func (m *Mobile) reflect(ids []string) {
	if m.ui.List != nil {
		highlight(m.ui.List, ids)
		scrollToActive(m.ui.List, ids, m.opts.DeadZone)
	}
	m.ui.Summary.SetText(Summary(m.tracker.Headings(), ids, m.opts.Fallback))
}

func (m *Mobile) updateProgress() {
	if m.subs.detached || m.ui.Ring == nil {
		return
	}
	m.ui.Ring.SetStrokeOffset(RingOffset(m.opts.Circumference, m.tracker.Progress()))
}

func (m *Mobile) updateMask() {
	if m.subs.detached || m.ui.List == nil {
		return
	}
	updateMask(m.ui.List, m.opts.MaskThreshold)
}

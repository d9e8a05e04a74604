package toc

import (
	"time"

	"github.com/metcalfc/skim/internal/event"
)

type fakeHost struct {
	headings []Heading
	scroll   float64
	viewport float64
	height   float64

	scrollSig event.Signal
	resizeSig event.Signal
	timers    []*fakeTimer
}

type fakeTimer struct {
	d         time.Duration
	fn        func()
	cancelled bool
}

func (h *fakeHost) Headings() []Heading { return append([]Heading(nil), h.headings...) }
func (h *fakeHost) ScrollOffset() float64 { return h.scroll }
func (h *fakeHost) ViewportHeight() float64 { return h.viewport }
func (h *fakeHost) ScrollHeight() float64 { return h.height }
func (h *fakeHost) OnScroll(fn func()) (cancel func()) { return h.scrollSig.Subscribe(fn) }
func (h *fakeHost) OnResize(fn func()) (cancel func()) { return h.resizeSig.Subscribe(fn) }

func (h *fakeHost) AfterFunc(d time.Duration, fn func()) (cancel func()) {
	t := &fakeTimer{d: d, fn: fn}
	h.timers = append(h.timers, t)
	return func() { t.cancelled = true }
}

func (h *fakeHost) scrollTo(y float64) {
	h.scroll = y
	h.scrollSig.Emit()
}

// fire runs every pending, uncancelled timer once.
func (h *fakeHost) fire() int {
	pending := h.timers
	h.timers = nil
	n := 0
	for _, t := range pending {
		if !t.cancelled {
			t.fn()
			n++
		}
	}
	return n
}

// threeSections is the 0/800/1600 layout used throughout.
func threeSections() *fakeHost {
	return &fakeHost{
		headings: []Heading{
			{ID: "intro", Text: "Intro", Offset: 0, Height: 40},
			{ID: "usage", Text: "Usage", Offset: 800, Height: 40},
			{ID: "faq", Text: "FAQ", Offset: 1600, Height: 40},
		},
		viewport: 800,
		height:   2400,
	}
}

type fakePanel struct {
	top         float64
	client      float64
	content     float64
	links       []string
	linkHeight  float64
	highlighted map[string]bool
	fadeTop     bool
	fadeBottom  bool
	fadeWrites  int
	scrollSets  int
	highlights  int
	scrollSig   event.Signal
}

func newFakePanel(ids []string, linkHeight, client float64) *fakePanel {
	return &fakePanel{
		links:       ids,
		linkHeight:  linkHeight,
		client:      client,
		content:     float64(len(ids)) * linkHeight,
		highlighted: map[string]bool{},
	}
}

func (p *fakePanel) ScrollTop() float64    { return p.top }
func (p *fakePanel) ScrollHeight() float64 { return p.content }
func (p *fakePanel) ClientHeight() float64 { return p.client }
func (p *fakePanel) LinkIDs() []string     { return p.links }

func (p *fakePanel) SetScrollTop(top float64) {
	p.top = top
	p.scrollSets++
}

func (p *fakePanel) LinkBounds(id string) (float64, float64, bool) {
	for i, l := range p.links {
		if l == id {
			return float64(i) * p.linkHeight, p.linkHeight, true
		}
	}
	return 0, 0, false
}

func (p *fakePanel) SetHighlighted(id string, on bool) {
	p.highlights++
	if on {
		p.highlighted[id] = true
	} else {
		delete(p.highlighted, id)
	}
}

func (p *fakePanel) SetFade(top, bottom bool) {
	p.fadeTop, p.fadeBottom = top, bottom
	p.fadeWrites++
}

func (p *fakePanel) OnScroll(fn func()) (cancel func()) { return p.scrollSig.Subscribe(fn) }

func (p *fakePanel) userScroll(top float64) {
	p.top = top
	p.scrollSig.Emit()
}

func (p *fakePanel) active() []string {
	var out []string
	for _, id := range p.links {
		if p.highlighted[id] {
			out = append(out, id)
		}
	}
	return out
}

// lineOptions are terminal settings: no header, no dead zone.
var lineOptions = Options{HeaderOffset: -1, DeadZone: -1}

// lineSections is a 100-line document with one-line headings at 0, 30 and
// 60 and a 10-line viewport.
func lineSections() *fakeHost {
	return &fakeHost{
		headings: []Heading{
			{ID: "one", Text: "One", Offset: 0, Height: 1},
			{ID: "two", Text: "Two", Offset: 30, Height: 1},
			{ID: "three", Text: "Three", Offset: 60, Height: 1},
		},
		viewport: 10,
		height:   100,
	}
}

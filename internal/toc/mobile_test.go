package toc

import (
	"testing"

	"github.com/metcalfc/skim/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeText struct{ text string }

func (f *fakeText) SetText(text string) { f.text = text }

type fakeRing struct {
	offset float64
	writes int
}

func (f *fakeRing) SetStrokeOffset(offset float64) {
	f.offset = offset
	f.writes++
}

type fakeDisclosure struct {
	open    bool
	toggled event.Emitter[bool]
	picked  event.Emitter[string]
}

func (d *fakeDisclosure) SetOpen(open bool) { d.open = open }

func (d *fakeDisclosure) OnToggle(fn func(open bool)) (cancel func()) {
	return d.toggled.Subscribe(fn)
}

func (d *fakeDisclosure) OnSelect(fn func(id string)) (cancel func()) {
	return d.picked.Subscribe(fn)
}

func (d *fakeDisclosure) userOpen() {
	d.open = true
	d.toggled.Emit(true)
}

type mobileFixture struct {
	host *fakeHost
	text *fakeText
	ring *fakeRing
	list *fakePanel
	disc *fakeDisclosure
	ctrl *Mobile
}

func newMobileFixture(host *fakeHost) *mobileFixture {
	f := &mobileFixture{
		host: host,
		text: &fakeText{},
		ring: &fakeRing{},
		list: newFakePanel([]string{"intro", "usage", "faq"}, 20, 40),
		disc: &fakeDisclosure{},
	}
	f.ctrl = NewMobile(host, MobileSurfaces{
		Summary:    f.text,
		Ring:       f.ring,
		List:       f.list,
		Disclosure: f.disc,
	}, Options{})
	return f
}

func TestMobileSummaryFollowsScroll(t *testing.T) {
	f := newMobileFixture(threeSections())
	defer f.ctrl.Attach()()

	assert.Equal(t, "Intro", f.text.text)
	assert.Equal(t, []string{"intro"}, f.list.active())

	f.host.scrollTo(900)
	assert.Equal(t, "Usage, FAQ", f.text.text)
	assert.Equal(t, []string{"usage", "faq"}, f.list.active())
	assert.Equal(t, 10.0, f.list.top)
}

func TestMobileProgressRing(t *testing.T) {
	f := newMobileFixture(threeSections())
	defer f.ctrl.Attach()()

	assert.InDelta(t, DefaultCircumference, f.ring.offset, 1e-9, "empty at the top")

	// Scrollable distance is 2400-800.
	f.host.scrollTo(800)
	assert.InDelta(t, DefaultCircumference/2, f.ring.offset, 1e-9)

	f.host.scrollTo(1600)
	assert.InDelta(t, 0, f.ring.offset, 1e-9, "full at the bottom")

	// Progress updates on every scroll, not only when the set changes.
	writes := f.ring.writes
	f.host.scrollTo(1590)
	assert.Equal(t, writes+1, f.ring.writes)
}

func TestMobileFallbackWithoutHeadings(t *testing.T) {
	host := &fakeHost{viewport: 800, height: 2000}
	f := newMobileFixture(host)
	detach := f.ctrl.Attach()

	assert.Equal(t, FallbackLabel, f.text.text)
	assert.InDelta(t, DefaultCircumference, f.ring.offset, 1e-9)

	host.scrollTo(1200)
	assert.Equal(t, FallbackLabel, f.text.text)
	assert.InDelta(t, 0, f.ring.offset, 1e-9)

	detach()
	assert.Equal(t, 0, host.scrollSig.Len())
	assert.Equal(t, 0, host.resizeSig.Len())
}

func TestMobileFallbackPastLastSection(t *testing.T) {
	host := threeSections()
	f := newMobileFixture(host)
	defer f.ctrl.Attach()()

	// Move the layout so nothing is in the window any more.
	host.headings = host.headings[:1]
	host.headings[0].Offset = 0
	host.height = 200
	host.viewport = 100
	host.scroll = 500
	host.resizeSig.Emit()

	assert.Equal(t, FallbackLabel, f.text.text)
}

func TestMobileSelectCollapses(t *testing.T) {
	f := newMobileFixture(threeSections())
	defer f.ctrl.Attach()()

	f.disc.userOpen()
	require.True(t, f.disc.open)

	f.disc.picked.Emit("usage")
	assert.False(t, f.disc.open)
}

func TestMobileReopenRefreshesMask(t *testing.T) {
	f := newMobileFixture(threeSections())
	defer f.ctrl.Attach()()

	assert.Empty(t, f.host.timers, "no settle timer until the list opens")
	f.disc.userOpen()
	require.Len(t, f.host.timers, 1)
	assert.Equal(t, 0, f.list.fadeWrites)

	// Toggling again before it settles replaces the pending timer.
	f.disc.userOpen()
	require.Len(t, f.host.timers, 2)
	assert.True(t, f.host.timers[0].cancelled)

	assert.Equal(t, 1, f.host.fire())
	assert.Equal(t, 1, f.list.fadeWrites)
	assert.False(t, f.list.fadeTop)
	assert.True(t, f.list.fadeBottom)

	f.disc.toggled.Emit(false)
	assert.Empty(t, f.host.timers, "closing does not schedule")
}

func TestMobileOptionalSurfaces(t *testing.T) {
	host := threeSections()
	text := &fakeText{}
	defer NewMobile(host, MobileSurfaces{Summary: text}, Options{}).Attach()()

	host.scrollTo(900)
	assert.Equal(t, "Usage, FAQ", text.text)
}

func TestMobileWithoutSummaryIsInert(t *testing.T) {
	host := threeSections()
	ring := &fakeRing{}
	NewMobile(host, MobileSurfaces{Ring: ring}, Options{}).Attach()()

	assert.Equal(t, 0, host.scrollSig.Len())
	assert.Equal(t, 0, ring.writes)
}

func TestMobileDetach(t *testing.T) {
	f := newMobileFixture(threeSections())
	detach := f.ctrl.Attach()
	f.disc.userOpen()
	timer := f.host.timers[0]

	detach()

	assert.True(t, timer.cancelled)
	assert.Equal(t, 0, f.host.scrollSig.Len())
	assert.Equal(t, 0, f.host.resizeSig.Len())
	assert.Equal(t, 0, f.list.scrollSig.Len())
	assert.Equal(t, 0, f.disc.toggled.Len())
	assert.Equal(t, 0, f.disc.picked.Len())

	text := f.text.text
	f.host.scrollTo(900)
	assert.Equal(t, text, f.text.text)
}

func TestSummary(t *testing.T) {
	headings := []Heading{
		{ID: "a", Text: " Alpha "},
		{ID: "b", Text: ""},
		{ID: "c", Text: "Gamma"},
	}
	tests := []struct {
		name string
		ids  []string
		want string
	}{
		{"none", nil, "Overview"},
		{"one", []string{"a"}, "Alpha"},
		{"document order", []string{"c", "a"}, "Alpha, Gamma"},
		{"blank text only", []string{"b"}, "Overview"},
		{"unknown id", []string{"zzz"}, "Overview"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summary(headings, tt.ids, FallbackLabel))
		})
	}
}

func TestMobileExplicitZeroOptions(t *testing.T) {
	host := lineSections()
	text := &fakeText{}
	list := newFakePanel([]string{"one", "two", "three"}, 20, 40)
	m := NewMobile(host, MobileSurfaces{Summary: text, List: list}, lineOptions)
	defer m.Attach()()

	assert.Zero(t, m.Tracker().opts.HeaderOffset)
	assert.Equal(t, "One", text.text)

	list.top = 9
	host.scrollTo(30)
	assert.Equal(t, "Two", text.text)
	assert.Equal(t, 10.0, list.top, "a one-unit correction is applied")
}

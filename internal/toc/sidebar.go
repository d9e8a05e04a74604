package toc

// Sidebar keeps a desktop navigation panel in sync with the document:
// active links are highlighted, the first one is kept centred, and the
// panel's edges fade while there is more to scroll.
type Sidebar struct {
	host    Host
	panel   Panel
	opts    Options
	tracker *Tracker
	subs    subscriptions
}

// NewSidebar binds a tracker for host to panel. Call Attach to start.
func NewSidebar(host Host, panel Panel, opts Options) *Sidebar {
	opts = opts.withDefaults()
	return &Sidebar{
		host:    host,
		panel:   panel,
		opts:    opts,
		tracker: newTracker(host, opts),
	}
}

// Tracker exposes the controller's tracking state.
func (s *Sidebar) Tracker() *Tracker { return s.tracker }

// Attach measures the document, seeds the highlight and starts listening.
// A document without headings leaves the sidebar inert. The returned
// function detaches every listener and pending timer.
func (s *Sidebar) Attach() (detach func()) {
	s.tracker.Rebuild()
	if len(s.tracker.Headings()) == 0 {
		return func() {}
	}

	ids, _ := s.tracker.Resolve()
	s.reflect(ids)

	s.subs.add(s.host.AfterFunc(s.opts.SettleDelay, s.updateMask))
	s.subs.add(s.host.OnScroll(s.handleScroll))
	s.subs.add(s.host.OnResize(s.handleResize))
	s.subs.add(s.panel.OnScroll(s.updateMask))
	return s.subs.detach
}

func (s *Sidebar) handleScroll() {
	if s.subs.detached {
		return
	}
	if ids, changed := s.tracker.Resolve(); changed {
		s.reflect(ids)
	}
}

func (s *Sidebar) handleResize() {
	if s.subs.detached {
		return
	}
	s.tracker.Rebuild()
	s.handleScroll()
	s.updateMask()
}

func (s *Sidebar) reflect(ids []string) {
	highlight(s.panel, ids)
	scrollToActive(s.panel, ids, s.opts.DeadZone)
}

func (s *Sidebar) updateMask() {
	if s.subs.detached {
		return
	}
	updateMask(s.panel, s.opts.MaskThreshold)
}

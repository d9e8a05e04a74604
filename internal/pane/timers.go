package pane

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type timerMsg struct{ id int }

// Timers runs delayed callbacks on the bubbletea loop. AfterFunc records a
// tea.Tick; the model collects it with Cmd and hands the resulting message
// back to Handle, which runs the callback unless it was cancelled.
type Timers struct {
	next    int
	pending map[int]func()
	queued  []tea.Cmd
}

// NewTimers returns an empty scheduler.
func NewTimers() *Timers {
	return &Timers{pending: make(map[int]func())}
}

// AfterFunc schedules fn to run after d.
func (t *Timers) AfterFunc(d time.Duration, fn func()) (cancel func()) {
	t.next++
	id := t.next
	t.pending[id] = fn
	t.queued = append(t.queued, tea.Tick(d, func(time.Time) tea.Msg {
		return timerMsg{id: id}
	}))
	return func() { delete(t.pending, id) }
}

// Cmd returns the ticks scheduled since the last call.
func (t *Timers) Cmd() tea.Cmd {
	cmd := tea.Batch(t.queued...)
	t.queued = nil
	return cmd
}

// Handle runs the callback msg belongs to. It reports whether msg was a
// timer message.
func (t *Timers) Handle(msg tea.Msg) bool {
	tm, ok := msg.(timerMsg)
	if !ok {
		return false
	}
	if fn, live := t.pending[tm.id]; live {
		delete(t.pending, tm.id)
		fn()
	}
	return true
}

// Pending returns the number of timers that have neither fired nor been
// cancelled.
func (t *Timers) Pending() int { return len(t.pending) }

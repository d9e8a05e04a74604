package event

import "testing"

func TestEmitterOrderAndCancel(t *testing.T) {
	var e Emitter[int]
	var got []string

	cancelA := e.Subscribe(func(v int) { got = append(got, "a") })
	e.Subscribe(func(v int) { got = append(got, "b") })

	e.Emit(1)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("got %v, want [a b]", got)
	}

	cancelA()
	cancelA()
	got = nil
	e.Emit(2)
	if len(got) != 1 || got[0] != "b" {
		t.Errorf("got %v after cancel, want [b]", got)
	}
	if e.Len() != 1 {
		t.Errorf("Len() = %d, want 1", e.Len())
	}
}

func TestEmitterSubscribeDuringEmit(t *testing.T) {
	var e Emitter[string]
	calls := 0
	e.Subscribe(func(string) {
		calls++
		e.Subscribe(func(string) { calls++ })
	})

	e.Emit("x")
	if calls != 1 {
		t.Errorf("late subscriber ran during the emit that added it: calls = %d", calls)
	}
	e.Emit("y")
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestSignal(t *testing.T) {
	var s Signal
	n := 0
	cancel := s.Subscribe(func() { n++ })
	s.Emit()
	s.Emit()
	cancel()
	s.Emit()
	if n != 2 {
		t.Errorf("n = %d, want 2", n)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

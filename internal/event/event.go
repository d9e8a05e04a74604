// Package event provides listener lists for single-threaded UI loops.
package event

// Emitter delivers values to its subscribers in registration order. It is
// not safe for concurrent use; hosts call it from their UI loop.
type Emitter[T any] struct {
	next int
	subs []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it. Calling
// the returned function more than once is harmless.
func (e *Emitter[T]) Subscribe(fn func(T)) (cancel func()) {
	e.next++
	id := e.next
	e.subs = append(e.subs, subscriber[T]{id: id, fn: fn})
	return func() {
		for i, s := range e.subs {
			if s.id == id {
				e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

// Emit calls every subscriber registered when Emit starts.
func (e *Emitter[T]) Emit(v T) {
	snapshot := append([]subscriber[T](nil), e.subs...)
	for _, s := range snapshot {
		s.fn(v)
	}
}

// Len returns the number of subscribers.
func (e *Emitter[T]) Len() int { return len(e.subs) }

// Signal is an Emitter without a payload.
type Signal struct {
	e Emitter[struct{}]
}

// Subscribe registers fn and returns a function that removes it.
func (s *Signal) Subscribe(fn func()) (cancel func()) {
	return s.e.Subscribe(func(struct{}) { fn() })
}

// Emit calls every subscriber.
func (s *Signal) Emit() { s.e.Emit(struct{}{}) }

// Len returns the number of subscribers.
func (s *Signal) Len() int { return s.e.Len() }

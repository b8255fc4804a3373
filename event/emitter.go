// Package event provides synchronous listener registries.
//
// Listeners run in registration order on the goroutine that fires the event.
// Emitters are not safe for concurrent use; they follow the single-goroutine
// update model of Bubble Tea components.
package event

// Disposable releases a registration. Dispose is idempotent.
type Disposable interface {
	Dispose()
}

// DisposableFunc adapts a func to Disposable.
type DisposableFunc func()

func (f DisposableFunc) Dispose() {
	if f != nil {
		f()
	}
}

type listener[T any] struct {
	fn       func(T)
	disposed bool
}

// Emitter fans a value out to registered listeners. The zero value is ready
// to use.
type Emitter[T any] struct {
	listeners []*listener[T]
}

// On registers fn and returns a handle that removes it.
func (e *Emitter[T]) On(fn func(T)) Disposable {
	if fn == nil {
		return DisposableFunc(nil)
	}
	l := &listener[T]{fn: fn}
	e.listeners = append(e.listeners, l)
	return DisposableFunc(func() { e.remove(l) })
}

// Fire invokes listeners registered before the call. Listeners disposed while
// firing are skipped if they have not run yet.
func (e *Emitter[T]) Fire(v T) {
	if len(e.listeners) == 0 {
		return
	}
	snapshot := append([]*listener[T](nil), e.listeners...)
	for _, l := range snapshot {
		if l.disposed {
			continue
		}
		l.fn(v)
	}
}

// Len returns the number of live listeners.
func (e *Emitter[T]) Len() int { return len(e.listeners) }

// Dispose drops every listener.
func (e *Emitter[T]) Dispose() {
	for _, l := range e.listeners {
		l.disposed = true
	}
	e.listeners = nil
}

func (e *Emitter[T]) remove(target *listener[T]) {
	if target.disposed {
		return
	}
	target.disposed = true
	for i, l := range e.listeners {
		if l == target {
			e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
			return
		}
	}
}

// Store collects disposables so they can be released together.
type Store struct {
	items    []Disposable
	disposed bool
}

// Add registers d with the store. Adding to a disposed store disposes d
// immediately.
func (s *Store) Add(d Disposable) {
	if d == nil {
		return
	}
	if s.disposed {
		d.Dispose()
		return
	}
	s.items = append(s.items, d)
}

// Dispose releases every collected disposable in registration order.
func (s *Store) Dispose() {
	s.disposed = true
	items := s.items
	s.items = nil
	for _, d := range items {
		d.Dispose()
	}
}

package event

import (
	"slices"
	"testing"
)

func TestEmitter_RegistrationOrder(t *testing.T) {
	var e Emitter[int]
	var got []string
	e.On(func(v int) { got = append(got, "first") })
	e.On(func(v int) { got = append(got, "second") })
	e.On(func(v int) { got = append(got, "third") })

	e.Fire(1)
	want := []string{"first", "second", "third"}
	if !slices.Equal(got, want) {
		t.Fatalf("call order: got %v, want %v", got, want)
	}
}

func TestEmitter_DisposeIsIdempotent(t *testing.T) {
	var e Emitter[string]
	calls := 0
	d := e.On(func(string) { calls++ })
	e.On(func(string) {})

	d.Dispose()
	d.Dispose()
	if got := e.Len(); got != 1 {
		t.Fatalf("listeners after dispose: got %d, want %d", got, 1)
	}
	e.Fire("x")
	if calls != 0 {
		t.Fatalf("disposed listener called %d times", calls)
	}
}

func TestEmitter_ChangesDuringFire(t *testing.T) {
	var e Emitter[int]
	var order []string
	var second Disposable

	e.On(func(int) {
		order = append(order, "a")
		second.Dispose()
		e.On(func(int) { order = append(order, "late") })
	})
	second = e.On(func(int) { order = append(order, "b") })

	e.Fire(0)
	if !slices.Equal(order, []string{"a"}) {
		t.Fatalf("first fire: got %v, want %v", order, []string{"a"})
	}

	order = nil
	e.Fire(0)
	if !slices.Equal(order, []string{"a", "late"}) {
		t.Fatalf("second fire: got %v, want %v", order, []string{"a", "late"})
	}
}

func TestEmitter_NilListener(t *testing.T) {
	var e Emitter[int]
	d := e.On(nil)
	d.Dispose()
	if e.Len() != 0 {
		t.Fatalf("nil listener must not register")
	}
	e.Fire(1)
}

func TestStore_DisposeAll(t *testing.T) {
	var e Emitter[int]
	var s Store
	calls := 0
	s.Add(e.On(func(int) { calls++ }))
	s.Add(e.On(func(int) { calls++ }))

	e.Fire(0)
	s.Dispose()
	e.Fire(0)
	if calls != 2 {
		t.Fatalf("calls: got %d, want %d", calls, 2)
	}

	late := false
	s.Add(DisposableFunc(func() { late = true }))
	if !late {
		t.Fatalf("adding to a disposed store must dispose immediately")
	}
}

package compose

import "reflect"

type refSlot[T any] struct {
	value      T
	generation uint64
}

type mutSlot[T any] struct {
	value      T
	generation uint64
}

func (s *mutSlot[T]) target() any { return &s.value }
func (s *mutSlot[T]) bump()       { s.generation++ }

// mutableSlot is the slot side of an Update.
type mutableSlot interface {
	target() any
	bump()
}

type memoSlot[T any] struct {
	value      T
	key        any
	generation uint64
}

type providerSlot[T any] struct {
	value *T
}

type dropSlot struct {
	fn   func()
	done bool
}

func (d *dropSlot) run() {
	if d.done {
		return
	}
	d.done = true
	d.fn()
}

// UseRef returns a reference to a value made by init on the first pass.
// init never runs again for this slot.
func UseRef[T any](cx scoped, init func() T) Ref[T] {
	s := cx.scopeState()
	slot, idx := useSlot(s, func() *refSlot[T] {
		return &refSlot[T]{value: init()}
	})
	return Ref[T]{
		scope:      s,
		slot:       idx,
		ptr:        &slot.value,
		generation: &slot.generation,
	}
}

// UseMut returns a mutable handle to a value made by init on the first pass.
func UseMut[T any](cx scoped, init func() T) Mut[T] {
	s := cx.scopeState()
	slot, idx := useSlot(s, func() *mutSlot[T] {
		return &mutSlot[T]{value: init()}
	})
	return Mut[T]{scope: s, slot: idx, cell: slot}
}

// Callback has the same identity on every pass while calling whichever
// closure was handed to UseCallback most recently.
type Callback[A, R any] struct {
	fn func(A) R
}

func (c *Callback[A, R]) Call(arg A) R {
	return c.fn(arg)
}

func (c *Callback[A, R]) Memoized() any {
	return c
}

// UseCallback returns a stable *Callback that dispatches to f.
func UseCallback[A, R any](cx scoped, f func(A) R) *Callback[A, R] {
	cb := UseRef(cx, func() *Callback[A, R] {
		return &Callback[A, R]{}
	}).Value()
	cb.fn = f
	return cb
}

// UseProvider makes a value with init on the first pass and provides it to
// this scope and every descendant, keyed by T.
func UseProvider[T any](cx scoped, init func() T) *T {
	s := cx.scopeState()
	slot, _ := useSlot(s, func() *providerSlot[T] {
		v := init()
		s.provide(reflect.TypeFor[T](), &v)
		return &providerSlot[T]{value: &v}
	})
	return slot.value
}

// UseContext returns the value of type T provided by the nearest enclosing
// UseProvider. The error is a *ContextError when no ancestor provides T.
func UseContext[T any](cx scoped) (*T, error) {
	s := cx.scopeState()
	t := reflect.TypeFor[T]()
	v, ok := s.contexts.lookup(t)
	if !ok {
		return nil, &ContextError{Type: t.String()}
	}
	return v.(*T), nil
}

// UseDrop registers f to run once when the scope is dropped. Only the
// closure passed on the first pass is kept.
func UseDrop(cx scoped, f func()) {
	s := cx.scopeState()
	useSlot(s, func() *dropSlot {
		s.drops = append(s.drops, s.cursor-1)
		return &dropSlot{fn: f}
	})
}

// UseMemo returns a value recomputed by compute only when the memo key of dep
// differs from the one seen on the previous pass. Recomputing replaces the
// stored value in place without marking the scope changed.
func UseMemo[T any](cx scoped, dep any, compute func() T) Ref[T] {
	s := cx.scopeState()
	key := memoKey(dep)

	fresh := false
	slot, idx := useSlot(s, func() *memoSlot[T] {
		fresh = true
		return &memoSlot[T]{value: compute(), key: key}
	})
	if !fresh && !sameKey(slot.key, key) {
		slot.value = compute()
		slot.key = key
	}

	return Ref[T]{
		scope:      s,
		slot:       idx,
		ptr:        &slot.value,
		generation: &slot.generation,
	}
}

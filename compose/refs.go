package compose

import (
	"fmt"
	"reflect"
)

// Memoize is implemented by dependencies whose memo key is not the value
// itself. Handles report their generation counter, which changes exactly when
// the value they point at is changed through Mut.Update.
type Memoize interface {
	Memoized() any
}

// memoKey maps a dependency to the comparable key UseMemo and Memo store.
func memoKey(dep any) any {
	if m, ok := dep.(Memoize); ok {
		return m.Memoized()
	}
	if dep == nil {
		return nil
	}
	switch t := reflect.TypeOf(dep); {
	case !t.Comparable():
		panic(notComparable(dep))
	case t.Kind() == reflect.Struct || t.Kind() == reflect.Array:
		// interface fields pass the type check but may hold a slice, map or func
		sameKey(dep, dep)
	}
	return dep
}

// sameKey compares two memo keys, reporting a key that is not comparable at
// runtime the same way memoKey does.
func sameKey(a, b any) bool {
	defer func() {
		if r := recover(); r != nil {
			panic(notComparable(b))
		}
	}()
	return a == b
}

func notComparable(dep any) string {
	return fmt.Sprintf("compose: memo dependency of type %T is not comparable", dep)
}

func loadGeneration(g *uint64) uint64 {
	if g == nil {
		return 0
	}
	return *g
}

// Ref is an immutable handle to a value owned by a scope. It is a small
// value, copy it freely. Dereferencing a Ref whose scope has been dropped
// panics with *StaleRefError.
type Ref[T any] struct {
	scope      *ScopeState
	slot       int
	ptr        *T
	generation *uint64
}

// Borrow wraps a value that is not owned by any scope. Its memo key never
// changes.
func Borrow[T any](v *T) Ref[T] {
	return Ref[T]{slot: -1, ptr: v}
}

func (r Ref[T]) deref() *T {
	if r.scope != nil && r.scope.Dropped() {
		panic(&StaleRefError{Slot: r.slot, Type: reflect.TypeFor[T]().String()})
	}
	return r.ptr
}

// Value returns a copy of the referenced value.
func (r Ref[T]) Value() T {
	return *r.deref()
}

// Generation is the counter that governs this value's identity.
func (r Ref[T]) Generation() uint64 {
	return loadGeneration(r.generation)
}

func (r Ref[T]) Memoized() any {
	return r.Generation()
}

// Map is a reference obtained by projecting another reference. The
// projection runs again on every dereference, so a Map never holds on to an
// address that the base value no longer has; an optional projection may
// report nothing on one pass and a value on the next.
type Map[T any] struct {
	scope      *ScopeState
	deref      func() *T
	generation *uint64
}

// MapRef projects a field out of r.
func MapRef[T, U any](r Ref[T], f func(*T) *U) Map[U] {
	return Map[U]{
		scope:      r.scope,
		deref:      func() *U { return f(r.deref()) },
		generation: r.generation,
	}
}

// MapMap projects a field out of an existing Map.
func MapMap[T, U any](m Map[T], f func(*T) *U) Map[U] {
	return Map[U]{
		scope: m.scope,
		deref: func() *U {
			base := m.deref()
			if base == nil {
				return nil
			}
			return f(base)
		},
		generation: m.generation,
	}
}

// Lookup dereferences the projection. ok is false when the projection
// yields nothing for the base's current value.
func (m Map[T]) Lookup() (v T, ok bool) {
	if m.deref == nil {
		return v, false
	}
	if m.scope != nil && m.scope.Dropped() {
		panic(&StaleRefError{Slot: -1, Type: reflect.TypeFor[T]().String()})
	}
	p := m.deref()
	if p == nil {
		return v, false
	}
	return *p, true
}

// Value dereferences the projection, panicking if it yields nothing.
func (m Map[T]) Value() T {
	v, ok := m.Lookup()
	if !ok {
		panic(fmt.Sprintf("compose: Map[%s] projection yielded no value", reflect.TypeFor[T]()))
	}
	return v
}

func (m Map[T]) Generation() uint64 {
	return loadGeneration(m.generation)
}

func (m Map[T]) Memoized() any {
	return m.Generation()
}

// RefMap holds either a Ref or a Map.
type RefMap[T any] struct {
	ref   Ref[T]
	m     Map[T]
	isMap bool
}

func RefMapOf[T any](r Ref[T]) RefMap[T] {
	return RefMap[T]{ref: r}
}

func RefMapOfMap[T any](m Map[T]) RefMap[T] {
	return RefMap[T]{m: m, isMap: true}
}

func (rm RefMap[T]) IsMap() bool { return rm.isMap }

func (rm RefMap[T]) Lookup() (T, bool) {
	if rm.isMap {
		return rm.m.Lookup()
	}
	if rm.ref.ptr == nil {
		var zero T
		return zero, false
	}
	return rm.ref.Value(), true
}

func (rm RefMap[T]) Value() T {
	if rm.isMap {
		return rm.m.Value()
	}
	return rm.ref.Value()
}

func (rm RefMap[T]) Generation() uint64 {
	if rm.isMap {
		return rm.m.Generation()
	}
	return rm.ref.Generation()
}

func (rm RefMap[T]) Memoized() any {
	return rm.Generation()
}

// Cloner is implemented by values that need a deep copy when a borrowed Cow
// is turned into an owned value.
type Cloner[T any] interface {
	Clone() T
}

// Cow holds either an owned value or a borrowed RefMap.
type Cow[T any] struct {
	borrowed RefMap[T]
	owned    T
	isOwned  bool
}

func Owned[T any](v T) Cow[T] {
	return Cow[T]{owned: v, isOwned: true}
}

func Borrowed[T any](rm RefMap[T]) Cow[T] {
	return Cow[T]{borrowed: rm}
}

func (c Cow[T]) IsOwned() bool { return c.isOwned }

func (c Cow[T]) Value() T {
	if c.isOwned {
		return c.owned
	}
	return c.borrowed.Value()
}

// IntoOwned returns an owned value, cloning a borrowed one. Values that
// implement Cloner are cloned with it; everything else is copied.
func (c Cow[T]) IntoOwned() T {
	if c.isOwned {
		return c.owned
	}
	v := c.borrowed.Value()
	if cl, ok := any(v).(Cloner[T]); ok {
		return cl.Clone()
	}
	return v
}

// Mut is a mutable handle to a UseMut slot. Mutations are never applied in
// the calling frame: they are sent to the scope's runtime as Updates.
type Mut[T any] struct {
	scope *ScopeState
	slot  int
	cell  *mutSlot[T]
}

func (m Mut[T]) runtime() *Runtime {
	if m.scope == nil {
		return Current()
	}
	return m.scope.runtime()
}

// Value returns a copy of the current value.
func (m Mut[T]) Value() T {
	if m.scope != nil && m.scope.Dropped() {
		panic(&StaleRefError{Slot: m.slot, Type: reflect.TypeFor[T]().String()})
	}
	return m.cell.value
}

// Update queues f. Once applied, the owning scope is marked changed and the
// value's generation increases by one.
func (m Mut[T]) Update(f func(*T)) {
	m.runtime().Update(Update{
		Scope: m.scope,
		Slot:  m.slot,
		Kind:  UpdateChange,
		apply: func(v any) { f(v.(*T)) },
	})
}

// Set queues an Update that replaces the value.
func (m Mut[T]) Set(v T) {
	m.Update(func(dst *T) { *dst = v })
}

// With queues f without marking the scope changed or touching the
// generation.
func (m Mut[T]) With(f func(*T)) {
	m.runtime().Update(Update{
		Scope: m.scope,
		Slot:  m.slot,
		Kind:  UpdateSilent,
		apply: func(v any) { f(v.(*T)) },
	})
}

// AsRef converts m to an immutable reference sharing its generation.
func (m Mut[T]) AsRef() Ref[T] {
	return Ref[T]{
		scope:      m.scope,
		slot:       m.slot,
		ptr:        &m.cell.value,
		generation: &m.cell.generation,
	}
}

func (m Mut[T]) Generation() uint64 {
	return m.cell.generation
}

func (m Mut[T]) Memoized() any {
	return m.cell.generation
}

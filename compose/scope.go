package compose

import (
	"fmt"
	"reflect"
)

type scopeFlags uint8

const (
	fChanged scopeFlags = 1 << iota
	fParentChanged
	fEmpty
	fContainer
	fPendingChild
	fDropped
)

// contexts is one link of the context chain. Every scope owns a link whose
// parent is the link of the scope that created it, so a provider registered
// on an ancestor after a child was created is still visible to that child.
type contexts struct {
	parent *contexts
	values map[reflect.Type]any
}

func (c *contexts) lookup(t reflect.Type) (any, bool) {
	for link := c; link != nil; link = link.parent {
		if v, ok := link.values[t]; ok {
			return v, true
		}
	}
	return nil, false
}

type child struct {
	typ   reflect.Type
	state *ScopeState
}

// ScopeState is the persistent state of one composable instance. It is
// created when the instance enters the tree, reused on every pass, and
// dropped when the instance leaves the tree.
type ScopeState struct {
	hooks      []any
	cursor     int
	flags      scopeFlags
	contexts   *contexts
	drops      []int
	generation uint64

	rt         *Runtime
	parent     *ScopeState
	me         any
	kids       []child
	wasPending bool
}

// NewScopeState returns a detached root scope. Hooks used on it resolve the
// runtime through Current.
func NewScopeState() *ScopeState {
	return &ScopeState{contexts: &contexts{}}
}

func newChildScope(parent *ScopeState) *ScopeState {
	s := &ScopeState{
		rt:       parent.rt,
		parent:   parent,
		contexts: &contexts{parent: parent.contexts},
	}
	if s.rt != nil {
		s.rt.scopeCreated(s)
	}
	return s
}

func (s *ScopeState) scopeState() *ScopeState { return s }

// SetChanged marks this scope changed for the current pass. The flag is
// consumed once the scope has composed its children.
func (s *ScopeState) SetChanged() { s.flags |= fChanged }

func (s *ScopeState) IsChanged() bool       { return s.flags&fChanged != 0 }
func (s *ScopeState) IsParentChanged() bool { return s.flags&fParentChanged != 0 }
func (s *ScopeState) IsEmpty() bool         { return s.flags&fEmpty != 0 }
func (s *ScopeState) IsContainer() bool     { return s.flags&fContainer != 0 }
func (s *ScopeState) Dropped() bool         { return s.flags&fDropped != 0 }

// Generation counts committed changes to this scope.
func (s *ScopeState) Generation() uint64 { return s.generation }

// HookCount is the number of allocated hook slots.
func (s *ScopeState) HookCount() int { return len(s.hooks) }

// Runtime returns the runtime this scope was composed under, or nil for a
// detached scope.
func (s *ScopeState) Runtime() *Runtime { return s.rt }

// Begin resets the hook cursor for a new pass. The composer calls it for
// every scope it composes; hosts driving a detached scope by hand call it
// once per pass.
func (s *ScopeState) Begin() {
	s.cursor = 0
}

func (s *ScopeState) runtime() *Runtime {
	if s.rt != nil {
		return s.rt
	}
	return Current()
}

func (s *ScopeState) setFlag(f scopeFlags, on bool) {
	if on {
		s.flags |= f
	} else {
		s.flags &^= f
	}
}

// markChanged commits a change: the scope is flagged, its generation bumped,
// and every ancestor learns that a descendant needs composing.
func (s *ScopeState) markChanged() {
	s.flags |= fChanged
	s.generation++
	for p := s.parent; p != nil; p = p.parent {
		p.flags |= fPendingChild
	}
}

// HasPendingChild reports whether a scope beneath s committed a change that
// has not been composed yet.
func (s *ScopeState) HasPendingChild() bool { return s.flags&fPendingChild != 0 }

func (s *ScopeState) provide(t reflect.Type, v any) {
	if s.contexts.values == nil {
		s.contexts.values = make(map[reflect.Type]any)
	}
	s.contexts.values[t] = v
}

// Drop runs every teardown hook registered with UseDrop, in registration
// order, then drops child scopes. Calling Drop again has no effect.
func (s *ScopeState) Drop() {
	if s.Dropped() {
		return
	}
	s.flags |= fDropped

	for _, idx := range s.drops {
		s.hooks[idx].(*dropSlot).run()
	}
	for _, k := range s.kids {
		if k.state != nil {
			k.state.Drop()
		}
	}
	s.kids = nil

	if s.rt != nil {
		s.rt.scopeDropped(s)
	}
}

// useSlot returns the slot at the cursor, allocating it with init on first use.
func useSlot[S any](s *ScopeState, init func() *S) (*S, int) {
	if s.Dropped() {
		panic(&StaleRefError{Slot: s.cursor, Type: fmt.Sprintf("%T", (*S)(nil))})
	}

	idx := s.cursor
	s.cursor++

	if idx >= len(s.hooks) {
		slot := init()
		s.hooks = append(s.hooks, slot)
		return slot, idx
	}

	slot, ok := s.hooks[idx].(*S)
	if !ok {
		panic(&HookMismatchError{
			Slot: idx,
			Want: fmt.Sprintf("%T", (*S)(nil)),
			Got:  fmt.Sprintf("%T", s.hooks[idx]),
		})
	}
	return slot, idx
}

// Scope is the capability token handed to Compose. It exposes the scope's
// flags and is accepted by every hook.
type Scope struct {
	*ScopeState
}

// Me returns a reference to the composable being composed in this pass.
func Me[C any](cx Scope) Ref[C] {
	s := cx.ScopeState
	c, ok := s.me.(C)
	if !ok {
		panic(fmt.Sprintf("compose: Me[%s] called from a scope composing %T", reflect.TypeFor[C](), s.me))
	}
	return Ref[C]{
		scope:      s,
		slot:       -1,
		ptr:        &c,
		generation: &s.generation,
	}
}

type scoped interface {
	scopeState() *ScopeState
}

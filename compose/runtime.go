package compose

import (
	"sync/atomic"

	"github.com/google/uuid"
)

var current atomic.Pointer[Runtime]

// scopeObserver is told when scopes enter and leave the tree.
type scopeObserver interface {
	scopeCreated(s *ScopeState)
	scopeDropped(s *ScopeState)
}

// Runtime routes deferred updates to an Updater. Scopes composed by a
// Composer carry their runtime, so hooks never depend on which runtime is
// current; Current is the fallback for detached scopes.
type Runtime struct {
	id       uuid.UUID
	updater  Updater
	observer scopeObserver
	active   bool
	updates  int64
}

// NewRuntime returns a runtime sending updates to updater. A nil updater
// selects a QueueUpdater.
func NewRuntime(updater Updater) *Runtime {
	if updater == nil {
		updater = NewQueueUpdater()
	}
	return &Runtime{
		id:      uuid.New(),
		updater: updater,
	}
}

// Current returns the runtime installed by the most recent Enter. The
// current runtime is process-wide, not per goroutine.
//
// Panics with ErrNoRuntime if no runtime is installed.
func Current() *Runtime {
	rt := current.Load()
	if rt == nil {
		panic(ErrNoRuntime)
	}
	return rt
}

// Enter installs rt as the current runtime and marks it active. The returned
// function restores the previous runtime. Since the current runtime is shared
// by the whole process, Enter and exit must only be called from one goroutine.
func (rt *Runtime) Enter() (exit func()) {
	prev := current.Swap(rt)
	rt.active = true
	return func() {
		rt.active = false
		current.Store(prev)
	}
}

// Active reports whether rt is between Enter and exit.
func (rt *Runtime) Active() bool { return rt.active }

func (rt *Runtime) ID() uuid.UUID { return rt.id }

func (rt *Runtime) Updater() Updater { return rt.updater }

// Update hands u to the updater.
func (rt *Runtime) Update(u Update) {
	rt.updates++
	rt.updater.Update(u)
}

// Updates is the number of updates requested through rt.
func (rt *Runtime) Updates() int64 { return rt.updates }

// Flush applies held updates if the updater holds any.
func (rt *Runtime) Flush() error {
	if f, ok := rt.updater.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

// Attach makes s and every scope it creates use rt.
func (rt *Runtime) Attach(s *ScopeState) {
	s.rt = rt
}

func (rt *Runtime) scopeCreated(s *ScopeState) {
	if rt.observer != nil {
		rt.observer.scopeCreated(s)
	}
}

func (rt *Runtime) scopeDropped(s *ScopeState) {
	if d, ok := rt.updater.(Discarder); ok {
		d.Discard(s)
	}
	if rt.observer != nil {
		rt.observer.scopeDropped(s)
	}
}

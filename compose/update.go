package compose

import (
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

type UpdateKind uint8

const (
	// UpdateChange marks the target scope changed and bumps the slot's
	// generation once applied.
	UpdateChange UpdateKind = iota
	// UpdateSilent only runs the mutation.
	UpdateSilent
)

func (k UpdateKind) String() string {
	switch k {
	case UpdateChange:
		return "change"
	case UpdateSilent:
		return "silent"
	default:
		return "unknown"
	}
}

// Update is a deferred mutation of one hook slot. It names its target rather
// than closing over a pointer into it, so applying it can check that the
// target is still alive.
type Update struct {
	Scope *ScopeState
	Slot  int
	Kind  UpdateKind

	apply func(any)
}

// NewUpdate builds an Update that runs f on the slot's value. f receives a
// pointer to the value held by a UseMut slot.
func NewUpdate(s *ScopeState, slot int, kind UpdateKind, f func(any)) Update {
	return Update{Scope: s, Slot: slot, Kind: kind, apply: f}
}

// Apply runs the mutation. It fails with ErrScopeDropped when the target
// scope has left the tree.
func (u Update) Apply() error {
	if u.Scope == nil || u.Scope.Dropped() {
		return &UpdateError{Slot: u.Slot, Err: ErrScopeDropped}
	}
	if u.Slot < 0 || u.Slot >= len(u.Scope.hooks) {
		return &UpdateError{Slot: u.Slot, Err: fmt.Errorf("slot out of range [0,%d)", len(u.Scope.hooks))}
	}
	cell, ok := u.Scope.hooks[u.Slot].(mutableSlot)
	if !ok {
		return &UpdateError{Slot: u.Slot, Err: fmt.Errorf("slot holds %T, not a mutable value", u.Scope.hooks[u.Slot])}
	}
	if u.apply != nil {
		u.apply(cell.target())
	}
	if u.Kind == UpdateChange {
		cell.bump()
		u.Scope.markChanged()
	}
	return nil
}

// Updater accepts deferred mutations.
type Updater interface {
	Update(u Update)
}

// Flusher is implemented by updaters that hold updates until asked. The
// composer flushes after every pass.
type Flusher interface {
	Flush() error
}

// Discarder is implemented by updaters that can forget the pending updates of
// a scope that has been dropped.
type Discarder interface {
	Discard(s *ScopeState)
}

// ImmediateUpdater applies every update the moment it is requested. Hooks
// read later in the same pass observe the new value. Failures are kept until
// the next Flush.
type ImmediateUpdater struct {
	errs []error
}

func NewImmediateUpdater() *ImmediateUpdater {
	return &ImmediateUpdater{}
}

func (u *ImmediateUpdater) Update(up Update) {
	if err := up.Apply(); err != nil {
		u.errs = append(u.errs, err)
	}
}

func (u *ImmediateUpdater) Flush() error {
	err := errors.Join(u.errs...)
	u.errs = nil
	return err
}

// QueueUpdater collects updates and applies them in enqueue order on Flush,
// so a pass never observes a half-applied state.
type QueueUpdater struct {
	queue   []Update
	targets mapset.Set[*ScopeState]
}

func NewQueueUpdater() *QueueUpdater {
	return &QueueUpdater{
		targets: mapset.NewThreadUnsafeSet[*ScopeState](),
	}
}

func (q *QueueUpdater) Update(u Update) {
	q.queue = append(q.queue, u)
	if u.Scope != nil {
		q.targets.Add(u.Scope)
	}
}

// Len is the number of queued updates.
func (q *QueueUpdater) Len() int {
	return len(q.queue)
}

// Pending reports whether any queued update targets s.
func (q *QueueUpdater) Pending(s *ScopeState) bool {
	return q.targets.Contains(s)
}

// Discard removes every queued update targeting s.
func (q *QueueUpdater) Discard(s *ScopeState) {
	if !q.targets.Contains(s) {
		return
	}
	kept := q.queue[:0]
	for _, u := range q.queue {
		if u.Scope != s {
			kept = append(kept, u)
		}
	}
	clear(q.queue[len(kept):])
	q.queue = kept
	q.targets.Remove(s)
}

// Flush applies queued updates in order. Updates queued while flushing are
// applied before Flush returns.
func (q *QueueUpdater) Flush() error {
	var errs []error
	for len(q.queue) > 0 {
		batch := q.queue
		q.queue = nil
		q.targets.Clear()
		for _, u := range batch {
			if err := u.Apply(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

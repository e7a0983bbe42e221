package compose

import (
	"errors"
	"fmt"
)

var (
	// ErrContextNotFound is matched by every *ContextError.
	ErrContextNotFound = errors.New("context value not found")
	// ErrNoRuntime is the panic value of Current when no runtime has been entered.
	ErrNoRuntime = errors.New("compose: Current() called outside of a runtime")
	// ErrScopeDropped is returned when an update targets a scope that left the tree.
	ErrScopeDropped = errors.New("scope has been dropped")
	// ErrClosed is returned by Compose after Close.
	ErrClosed = errors.New("composer is closed")
)

// ContextError reports a UseContext lookup that found no provider.
type ContextError struct {
	// Type is the Go type that was requested.
	Type string
}

func (e *ContextError) Error() string {
	return fmt.Sprintf("context value not found for type: %s", e.Type)
}

func (e *ContextError) Is(target error) bool {
	return target == ErrContextNotFound
}

// StaleRefError is the panic value when a handle outlives its scope.
type StaleRefError struct {
	Slot int
	Type string
}

func (e *StaleRefError) Error() string {
	return fmt.Sprintf("stale reference to slot %d (%s): scope has been dropped", e.Slot, e.Type)
}

func (e *StaleRefError) Unwrap() error {
	return ErrScopeDropped
}

// HookMismatchError is the panic value when a slot holds a different type than
// the hook at the same call position expects. It means hooks were called
// conditionally or in a different order than on a previous pass.
type HookMismatchError struct {
	Slot int
	Want string
	Got  string
}

func (e *HookMismatchError) Error() string {
	return fmt.Sprintf("hook slot %d holds %s, want %s: hooks must be called in the same order every pass", e.Slot, e.Got, e.Want)
}

// UpdateError wraps a failure to apply a deferred update.
type UpdateError struct {
	Slot int
	Err  error
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("apply update to slot %d: %v", e.Slot, e.Err)
}

func (e *UpdateError) Unwrap() error {
	return e.Err
}

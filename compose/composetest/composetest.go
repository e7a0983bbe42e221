// Package composetest holds composables and updaters for exercising
// compose trees in tests and benchmarks.
package composetest

import (
	"errors"

	"github.com/delaneyj/recompose/compose"
)

// Recorder is an Updater that keeps every update until Apply.
type Recorder struct {
	Updates []compose.Update
}

func (r *Recorder) Update(u compose.Update) {
	r.Updates = append(r.Updates, u)
}

// Apply applies recorded updates in order and forgets them.
func (r *Recorder) Apply() error {
	updates := r.Updates
	r.Updates = nil

	var errs []error
	for _, u := range updates {
		if err := u.Apply(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Counter increments *Count and marks its scope changed every time it composes.
type Counter struct {
	Count *int
}

func (c Counter) Compose(cx compose.Scope) compose.Composable {
	*c.Count++
	cx.SetChanged()
	return nil
}

// Wrap composes Child.
type Wrap struct {
	Child compose.Composable
}

func (w Wrap) Compose(cx compose.Scope) compose.Composable {
	return w.Child
}

// Chain nests leaf under depth Wraps.
func Chain(depth int, leaf compose.Composable) compose.Composable {
	c := leaf
	for i := 0; i < depth; i++ {
		c = Wrap{Child: c}
	}
	return c
}

// Ticker keeps a counter in a UseMut slot and queues an increment on every
// pass. Seen receives the value observed by the pass.
type Ticker struct {
	Seen *int
}

func (t Ticker) Compose(cx compose.Scope) compose.Composable {
	ticks := compose.UseMut(cx, func() int { return 0 })
	*t.Seen = ticks.Value()
	ticks.Update(func(n *int) { *n++ })
	return nil
}

// Grid is width chains of height Wraps, each ending in a leaf made by leaf.
func Grid(width, height int, leaf func(i int) compose.Composable) compose.Composable {
	children := make([]compose.Composable, width)
	for i := range children {
		children[i] = Chain(height, leaf(i))
	}
	return compose.Group(children...)
}

package compose_test

import (
	"github.com/delaneyj/recompose/compose"
)

type theme struct {
	name string
}

type provide struct {
	name  string
	child compose.Composable
}

func (p provide) Compose(cx compose.Scope) compose.Composable {
	compose.UseProvider(cx, func() theme { return theme{name: p.name} })
	return p.child
}

type readTheme struct {
	out *string
}

func (r readTheme) Compose(cx compose.Scope) compose.Composable {
	th, err := compose.UseContext[theme](cx)
	if err != nil {
		*r.out = err.Error()
		return nil
	}
	*r.out = th.name
	return nil
}

// dropper registers two teardown hooks that append to calls.
type dropper struct {
	name  string
	calls *[]string
}

func (d dropper) Compose(cx compose.Scope) compose.Composable {
	compose.UseDrop(cx, func() { *d.calls = append(*d.calls, d.name+".1") })
	compose.UseDrop(cx, func() { *d.calls = append(*d.calls, d.name+".2") })
	return nil
}

// toggle composes child while *show is true.
type toggle struct {
	show  *bool
	child compose.Composable
}

func (t toggle) Compose(cx compose.Scope) compose.Composable {
	if !*t.show {
		return nil
	}
	return t.child
}

// exposer hands its UseMut handle to the test and counts its passes.
type exposer struct {
	out      *compose.Mut[int]
	composes *int
}

func (e exposer) Compose(cx compose.Scope) compose.Composable {
	*e.out = compose.UseMut(cx, func() int { return 0 })
	*e.composes++
	return nil
}

// bumpRead queues an increment and then reads the value in the same pass.
type bumpRead struct {
	seen *int
}

func (b bumpRead) Compose(cx compose.Scope) compose.Composable {
	m := compose.UseMut(cx, func() int { return 0 })
	m.Update(func(n *int) { *n++ })
	*b.seen = m.Value()
	return nil
}

// list composes *n droppers in a group.
type list struct {
	n     *int
	calls *[]string
}

func (l list) Compose(cx compose.Scope) compose.Composable {
	children := make([]compose.Composable, *l.n)
	for i := range children {
		children[i] = dropper{name: string(rune('a' + i)), calls: l.calls}
	}
	return compose.Group(children...)
}

// optional composes child through a Map projection that yields nothing when
// child is nil.
type optional struct {
	child compose.Composable
}

func (o optional) Compose(cx compose.Scope) compose.Composable {
	m := compose.MapRef(compose.Me[optional](cx), func(o *optional) *compose.Composable {
		if o.child == nil {
			return nil
		}
		return &o.child
	})
	return compose.Live(compose.RefMapOfMap(m))
}

type maybe struct {
	show  *bool
	child compose.Composable
}

func (m maybe) Compose(cx compose.Scope) compose.Composable {
	if *m.show {
		return optional{child: m.child}
	}
	return optional{}
}

// watcher exposes its UseMut handle and records, for every pass that composes
// it, the value it read and whether its parent changed.
type watcher struct {
	out     *compose.Mut[int]
	seen    *[]int
	parents *[]bool
}

func (w watcher) Compose(cx compose.Scope) compose.Composable {
	*w.out = compose.UseMut(cx, func() int { return 0 })
	*w.seen = append(*w.seen, w.out.Value())
	*w.parents = append(*w.parents, cx.IsParentChanged())
	return nil
}

// marker marks its scope changed on passes where *changed is set.
type marker struct {
	changed *bool
	child   compose.Composable
}

func (m marker) Compose(cx compose.Scope) compose.Composable {
	if *m.changed {
		cx.SetChanged()
	}
	return m.child
}

// setter queues m.Set(3) on passes where *fire is set.
type setter struct {
	m    *compose.Mut[int]
	fire *bool
}

func (s setter) Compose(cx compose.Scope) compose.Composable {
	if *s.fire {
		s.m.Set(3)
	}
	return nil
}

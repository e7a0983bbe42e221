package compose

import "reflect"

// Composable is one node of a composition tree. Compose may use hooks on cx
// and returns the next level to compose, or nil when the node has nothing
// beneath it.
//
// Hooks must be called in the same order on every pass. Calling a hook
// conditionally shifts every later slot and is not detected reliably.
type Composable interface {
	Compose(cx Scope) Composable
}

// keep is returned by containers that composed their children themselves,
// and by Memo when nothing beneath it needs composing.
type keep struct{}

func (keep) Compose(Scope) Composable { return nil }

// composeNode runs one pass over c and everything beneath it.
func composeNode(c Composable, s *ScopeState) {
	s.cursor = 0
	s.me = c
	s.wasPending = s.flags&fPendingChild != 0
	s.flags &^= fPendingChild

	next := c.Compose(Scope{s})
	changed := s.flags&(fChanged|fParentChanged) != 0

	switch next.(type) {
	case keep:
	case nil:
		s.flags |= fEmpty
		s.truncate(0)
	default:
		s.flags &^= fEmpty
		s.composeChild(0, next, changed)
	}

	s.flags &^= fChanged
}

// composeChild composes c at position pos below s, reusing the scope already
// there when it last composed a value of the same type.
func (s *ScopeState) composeChild(pos int, c Composable, parentChanged bool) {
	for len(s.kids) <= pos {
		s.kids = append(s.kids, child{})
	}

	typ := reflect.TypeOf(c)
	k := &s.kids[pos]
	created := false
	if k.state == nil || k.typ != typ {
		if k.state != nil {
			k.state.Drop()
		}
		k.typ = typ
		k.state = newChildScope(s)
		created = true
	}

	k.state.setFlag(fParentChanged, parentChanged || created)
	composeNode(c, k.state)
}

// truncate drops every child scope at position n and beyond.
func (s *ScopeState) truncate(n int) {
	if n >= len(s.kids) {
		return
	}
	for _, k := range s.kids[n:] {
		if k.state != nil {
			k.state.Drop()
		}
	}
	clear(s.kids[n:])
	s.kids = s.kids[:n]
}

func (s *ScopeState) dropChild(pos int) {
	if pos >= len(s.kids) || s.kids[pos].state == nil {
		return
	}
	s.kids[pos].state.Drop()
	s.kids[pos] = child{}
}

type memo struct {
	dep     any
	content Composable
}

type memoState struct {
	key any
}

// Memo composes content only when the memo key of dep changes, or when a
// scope beneath it committed a change since the last pass. A change above the
// Memo does not recompose content on its own, but content that does recompose
// sees it through IsParentChanged.
func Memo(dep any, content Composable) Composable {
	return &memo{dep: dep, content: content}
}

func (m *memo) Compose(cx Scope) Composable {
	s := cx.ScopeState
	key := memoKey(m.dep)

	fresh := false
	last, _ := useSlot(s, func() *memoState {
		fresh = true
		return &memoState{key: key}
	})
	keyChanged := fresh || !sameKey(last.key, key)
	last.key = key

	if m.content == nil {
		s.flags |= fEmpty
		s.truncate(0)
		return keep{}
	}

	stale := len(s.kids) == 0 || s.kids[0].typ != reflect.TypeOf(m.content)
	if !keyChanged && !stale && !s.wasPending {
		return keep{}
	}

	s.flags &^= fEmpty
	s.composeChild(0, m.content, keyChanged || s.flags&(fChanged|fParentChanged) != 0)
	return keep{}
}

type group struct {
	children []Composable
}

// Group composes each child in its own scope. A nil child leaves its position
// empty; positions past the end of a shorter group are dropped.
func Group(children ...Composable) Composable {
	return &group{children: children}
}

func (g *group) Compose(cx Scope) Composable {
	s := cx.ScopeState
	s.flags |= fContainer
	changed := s.flags&(fChanged|fParentChanged) != 0

	for i, c := range g.children {
		if c == nil {
			s.dropChild(i)
			continue
		}
		s.composeChild(i, c, changed)
	}
	s.truncate(len(g.children))
	s.setFlag(fEmpty, len(g.children) == 0)
	return keep{}
}

type live[C Composable] struct {
	source RefMap[C]
}

// Live composes the value behind a Ref or Map, dereferencing it again on
// every pass. When a Map projection yields nothing, the node is empty and the
// previous child scope is dropped.
func Live[C Composable](source RefMap[C]) Composable {
	return &live[C]{source: source}
}

func (l *live[C]) Compose(cx Scope) Composable {
	s := cx.ScopeState
	s.flags |= fContainer
	changed := s.flags&(fChanged|fParentChanged) != 0

	c, ok := l.source.Lookup()
	if !ok || any(c) == nil {
		s.flags |= fEmpty
		s.truncate(0)
		return keep{}
	}

	s.flags &^= fEmpty
	s.composeChild(0, c, changed)
	return keep{}
}

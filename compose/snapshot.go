package compose

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Node describes one scope for debugging. IDs are derived from the path of
// positions and types from the root, so a scope keeps its ID across passes
// for as long as it stays in the tree.
type Node struct {
	ID            uint64 `yaml:"id"`
	Position      int    `yaml:"position"`
	Type          string `yaml:"type"`
	Hooks         int    `yaml:"hooks"`
	Generation    uint64 `yaml:"generation"`
	Changed       bool   `yaml:"changed,omitempty"`
	ParentChanged bool   `yaml:"parent_changed,omitempty"`
	PendingChild  bool   `yaml:"pending_child,omitempty"`
	Empty         bool   `yaml:"empty,omitempty"`
	Container     bool   `yaml:"container,omitempty"`
	Children      []Node `yaml:"children,omitempty"`
}

// Snapshot describes the tree as of the end of the last pass.
func (c *Composer) Snapshot() Node {
	return snapshot(c.root, 0, 0)
}

// Snapshot describes s and everything beneath it.
func (s *ScopeState) Snapshot() Node {
	return snapshot(s, 0, 0)
}

func snapshot(s *ScopeState, parentID uint64, pos int) Node {
	typ := "<nil>"
	if s.me != nil {
		typ = fmt.Sprintf("%T", s.me)
	}

	n := Node{
		ID:            nodeID(parentID, pos, typ),
		Position:      pos,
		Type:          typ,
		Hooks:         len(s.hooks),
		Generation:    s.generation,
		Changed:       s.IsChanged(),
		ParentChanged: s.IsParentChanged(),
		PendingChild:  s.HasPendingChild(),
		Empty:         s.IsEmpty(),
		Container:     s.IsContainer(),
	}
	for i, k := range s.kids {
		if k.state == nil {
			continue
		}
		n.Children = append(n.Children, snapshot(k.state, n.ID, i))
	}
	return n
}

func nodeID(parentID uint64, pos int, typ string) uint64 {
	buf := make([]byte, 0, 48+len(typ))
	buf = strconv.AppendUint(buf, parentID, 16)
	buf = append(buf, '/')
	buf = strconv.AppendInt(buf, int64(pos), 10)
	buf = append(buf, '/')
	buf = append(buf, typ...)
	return xxhash.Sum64(buf)
}

// Walk visits n and its descendants depth first, with their depth.
func (n Node) Walk(fn func(n Node, depth int)) {
	n.walk(fn, 0)
}

func (n Node) walk(fn func(Node, int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Count is the number of nodes in the subtree rooted at n.
func (n Node) Count() int {
	count := 0
	n.Walk(func(Node, int) { count++ })
	return count
}

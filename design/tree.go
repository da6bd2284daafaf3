package design

import (
	"fmt"
)

// Tree is a snapshot of a design: the top-level blocks in workspace order.
type Tree struct {
	Roots []*Node
}

// NewTree creates a tree from top-level blocks.
func NewTree(roots ...*Node) *Tree {
	return &Tree{Roots: roots}
}

// Visited guards one walk against reaching a node twice.
type Visited map[*Node]struct{}

// Enter marks n as visited. It fails with ErrMalformedTree if n was
// already entered during this walk.
func (v Visited) Enter(n *Node) error {
	if _, seen := v[n]; seen {
		return fmt.Errorf("%w: block %s (%s) reached twice", ErrMalformedTree, n.ID, n.Type)
	}
	v[n] = struct{}{}
	return nil
}

// Chain returns head and its Next siblings in order.
func Chain(head *Node) ([]*Node, error) {
	var out []*Node
	seen := make(Visited)
	for n := head; n != nil; n = n.Next {
		if err := seen.Enter(n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// All lists every node reachable from the roots, including blocks stacked
// below a root. Callers must not rely on the order, although it is stable
// for an unchanged tree.
func (t *Tree) All() ([]*Node, error) {
	var out []*Node
	seen := make(Visited)

	var visit func(n *Node) error
	visit = func(n *Node) error {
		if err := seen.Enter(n); err != nil {
			return err
		}
		out = append(out, n)
		for _, in := range n.Inputs {
			for c := in.Block; c != nil; c = c.Next {
				if err := visit(c); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for _, root := range t.Roots {
		for r := root; r != nil; r = r.Next {
			if err := visit(r); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// Parents maps every reachable node to its containing node. Top-level
// nodes map to nil.
func (t *Tree) Parents() (map[*Node]*Node, error) {
	parents := make(map[*Node]*Node)
	seen := make(Visited)

	var visit func(n, parent *Node) error
	visit = func(n, parent *Node) error {
		if err := seen.Enter(n); err != nil {
			return err
		}
		parents[n] = parent
		for _, in := range n.Inputs {
			for c := in.Block; c != nil; c = c.Next {
				if err := visit(c, n); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for _, root := range t.Roots {
		for r := root; r != nil; r = r.Next {
			if err := visit(r, nil); err != nil {
				return nil, err
			}
		}
	}
	return parents, nil
}

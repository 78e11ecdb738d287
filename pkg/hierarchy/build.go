package hierarchy

import (
	"github.com/matzehuels/influencemap/pkg/errors"
	"github.com/matzehuels/influencemap/pkg/stakeholder"
)

// VirtualRootID is the display id of a synthesized root. Identity is carried
// by [Node.Virtual], never by this string.
const VirtualRootID = "__virtual_root__"

// Node is one position in the reporting tree.
type Node struct {
	Stakeholder stakeholder.Stakeholder
	Virtual     bool
	Parent      *Node
	Children    []*Node
	Depth       int
}

// ID returns the stakeholder name, or [VirtualRootID] for the virtual root.
func (n *Node) ID() string {
	if n.Virtual {
		return VirtualRootID
	}
	return n.Stakeholder.Name
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.Parent == nil }

// Build converts set into a tree.
//
// An empty set yields (nil, nil). A single top-level stakeholder becomes the
// root; several top-level stakeholders become children of a virtual root in
// set order. Children always keep set order.
//
// Build fails when names are duplicated, when no stakeholder is top-level,
// when a manager name does not resolve (DANGLING_REFERENCE), or when a
// reporting cycle leaves stakeholders unreachable from the root.
func Build(set stakeholder.Set) (*Node, error) {
	if len(set) == 0 {
		return nil, nil
	}

	nodes := make(map[string]*Node, len(set))
	order := make([]*Node, 0, len(set))
	for _, s := range set {
		if _, dup := nodes[s.Name]; dup {
			return nil, errDuplicate(s.Name)
		}
		n := &Node{Stakeholder: s}
		nodes[s.Name] = n
		order = append(order, n)
	}

	var tops []*Node
	for _, n := range order {
		manager, ok := n.Stakeholder.ReportsTo.Name()
		if !ok {
			tops = append(tops, n)
			continue
		}
		parent, found := nodes[manager]
		if !found {
			return nil, errDangling(n.Stakeholder.Name, manager)
		}
		n.Parent = parent
		parent.Children = append(parent.Children, n)
	}

	var root *Node
	switch len(tops) {
	case 0:
		if cycle := FindCycle(set); cycle != nil {
			return nil, errUnreachable(cycle)
		}
		return nil, errNoRoot()
	case 1:
		root = tops[0]
	default:
		root = &Node{Virtual: true, Children: tops}
		for _, t := range tops {
			t.Parent = root
		}
	}

	reached := 0
	root.Walk(func(n *Node) bool {
		if n.Parent != nil {
			n.Depth = n.Parent.Depth + 1
		}
		if !n.Virtual {
			reached++
		}
		return true
	})
	if reached != len(set) {
		if cycle := FindCycle(set); cycle != nil {
			return nil, errUnreachable(cycle)
		}
		return nil, errors.New(errors.ErrCodeBuildFailure, "%d stakeholders unreachable from root", len(set)-reached)
	}
	return root, nil
}

// Walk visits the subtree in pre-order, parents before children and children
// in order. Returning false from fn skips the node's descendants.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the subtree, the virtual root included.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// Find returns the node for the named stakeholder. The virtual root is never
// returned.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(x *Node) bool {
		if found != nil {
			return false
		}
		if !x.Virtual && x.Stakeholder.Name == name {
			found = x
			return false
		}
		return true
	})
	return found
}

// Visible returns every non-virtual node in pre-order.
func (n *Node) Visible() []*Node {
	var out []*Node
	n.Walk(func(x *Node) bool {
		if !x.Virtual {
			out = append(out, x)
		}
		return true
	})
	return out
}

// Height returns the maximum depth below n, 0 for a leaf.
func (n *Node) Height() int {
	h := 0
	for _, c := range n.Children {
		if ch := c.Height() + 1; ch > h {
			h = ch
		}
	}
	return h
}

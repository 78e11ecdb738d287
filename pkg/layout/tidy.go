package layout

// tidyNode carries the per-node state of the Buchheim walk.
type tidyNode struct {
	out      *Node
	parent   *tidyNode
	children []*tidyNode

	ancestor *tidyNode // a: ancestor candidate for moveSubtree
	defAnc   *tidyNode // A: default ancestor of this node's children
	thread   *tidyNode // t: contour thread
	prelim   float64   // z
	mod      float64   // m
	change   float64   // c
	shift    float64   // s
	number   int       // i: index among siblings
}

func newTidyNode(n *Node, number int) *tidyNode {
	t := &tidyNode{out: n, number: number}
	t.ancestor = t
	for i, c := range n.Children {
		ct := newTidyNode(c, i)
		ct.parent = t
		t.children = append(t.children, ct)
	}
	return t
}

func separation(a, b *tidyNode) float64 {
	if a.parent == b.parent {
		return SiblingSeparation
	}
	return CousinSeparation
}

// tidy sets X on every node in units of NodeWidth, with the root at 0.
func tidy(root *Node) {
	t := newTidyNode(root, 0)
	sentinel := &tidyNode{children: []*tidyNode{t}}
	t.parent = sentinel

	postOrder(t, firstWalk)
	sentinel.mod = -t.prelim
	preOrder(t, func(v *tidyNode) {
		v.out.X = v.prelim + v.parent.mod
		v.mod += v.parent.mod
	})
}

func postOrder(v *tidyNode, fn func(*tidyNode)) {
	for _, c := range v.children {
		postOrder(c, fn)
	}
	fn(v)
}

func preOrder(v *tidyNode, fn func(*tidyNode)) {
	fn(v)
	for _, c := range v.children {
		preOrder(c, fn)
	}
}

func firstWalk(v *tidyNode) {
	siblings := v.parent.children
	var w *tidyNode
	if v.number > 0 {
		w = siblings[v.number-1]
	}

	if len(v.children) > 0 {
		executeShifts(v)
		mid := (v.children[0].prelim + v.children[len(v.children)-1].prelim) / 2
		if w != nil {
			v.prelim = w.prelim + separation(v, w)
			v.mod = v.prelim - mid
		} else {
			v.prelim = mid
		}
	} else if w != nil {
		v.prelim = w.prelim + separation(v, w)
	}

	anc := v.parent.defAnc
	if anc == nil {
		anc = siblings[0]
	}
	v.parent.defAnc = apportion(v, w, anc)
}

// apportion pushes the subtree of v right until its left contour clears the
// right contour of its left siblings, then threads the shorter contour.
func apportion(v, w, ancestor *tidyNode) *tidyNode {
	if w == nil {
		return ancestor
	}

	vip, vop := v, v
	vim := w
	vom := vip.parent.children[0]
	sip, sop := vip.mod, vop.mod
	sim, som := vim.mod, vom.mod

	for {
		vim = nextRight(vim)
		vip = nextLeft(vip)
		if vim == nil || vip == nil {
			break
		}
		vom = nextLeft(vom)
		vop = nextRight(vop)
		vop.ancestor = v
		shift := vim.prelim + sim - vip.prelim - sip + separation(vim, vip)
		if shift > 0 {
			moveSubtree(nextAncestor(vim, v, ancestor), v, shift)
			sip += shift
			sop += shift
		}
		sim += vim.mod
		sip += vip.mod
		som += vom.mod
		sop += vop.mod
	}

	if vim != nil && nextRight(vop) == nil {
		vop.thread = vim
		vop.mod += sim - sop
	}
	if vip != nil && nextLeft(vom) == nil {
		vom.thread = vip
		vom.mod += sip - som
		ancestor = v
	}
	return ancestor
}

func nextLeft(v *tidyNode) *tidyNode {
	if len(v.children) > 0 {
		return v.children[0]
	}
	return v.thread
}

func nextRight(v *tidyNode) *tidyNode {
	if len(v.children) > 0 {
		return v.children[len(v.children)-1]
	}
	return v.thread
}

func moveSubtree(wm, wp *tidyNode, shift float64) {
	change := shift / float64(wp.number-wm.number)
	wp.change -= change
	wp.shift += shift
	wm.change += change
	wp.prelim += shift
	wp.mod += shift
}

func executeShifts(v *tidyNode) {
	var shift, change float64
	for i := len(v.children) - 1; i >= 0; i-- {
		w := v.children[i]
		w.prelim += shift
		w.mod += shift
		change += w.change
		shift += w.shift + change
	}
}

func nextAncestor(vim, v, ancestor *tidyNode) *tidyNode {
	if vim.ancestor.parent == v.parent {
		return vim.ancestor
	}
	return ancestor
}

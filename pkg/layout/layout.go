package layout

import (
	"fmt"
	"math"

	"github.com/matzehuels/influencemap/pkg/hierarchy"
	"github.com/matzehuels/influencemap/pkg/stakeholder"
	"github.com/matzehuels/influencemap/pkg/viewport"
)

// Geometry in layout units.
const (
	NodeWidth  = 180.0 // horizontal spacing unit
	NodeHeight = 120.0 // vertical spacing per depth level

	BoxWidth  = 160.0 // drawn node rectangle
	BoxHeight = 80.0
	BoxRadius = 8.0

	SiblingSeparation = 1.5
	CousinSeparation  = 2.5

	DivisionLabelY = 30.0
	areaFraction   = 0.8
)

// Default viewport size when Options leaves it unset.
const (
	DefaultWidth  = 1200.0
	DefaultHeight = 800.0
)

// Options controls layout.
type Options struct {
	Width           float64
	Height          float64
	GroupByDivision bool

	// DivisionOrder fixes the slot order in grouping mode. Divisions missing
	// from it are appended in tree pre-order.
	DivisionOrder []string
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	return o
}

// Node is a positioned tree node.
type Node struct {
	Source   *hierarchy.Node
	X, Y     float64
	Parent   *Node
	Children []*Node
}

// ID returns the node's display id.
func (n *Node) ID() string { return n.Source.ID() }

// Virtual reports whether the node is the synthesized root.
func (n *Node) Virtual() bool { return n.Source.Virtual }

// Stakeholder returns the record behind the node. It is the zero value for
// the virtual root.
func (n *Node) Stakeholder() stakeholder.Stakeholder { return n.Source.Stakeholder }

// Box returns the drawn rectangle, centered on the node position.
func (n *Node) Box() viewport.Rect {
	return viewport.Rect{X: n.X - BoxWidth/2, Y: n.Y - BoxHeight/2, Width: BoxWidth, Height: BoxHeight}
}

// Edge is a parent-child link. Hidden edges touch the virtual root and are
// not drawn.
type Edge struct {
	Source *Node
	Target *Node
	Hidden bool
}

// DivisionLabel is a slot heading in grouping mode.
type DivisionLabel struct {
	Name string  `json:"name" bson:"name"`
	X    float64 `json:"x" bson:"x"`
	Y    float64 `json:"y" bson:"y"`
}

// Layout is a positioned tree.
type Layout struct {
	Root      *Node
	Width     float64 // 0.8 × viewport width
	Height    float64 // 0.8 × viewport height
	Divisions []DivisionLabel
	Options   Options

	nodes []*Node
}

// Compute lays out the tree rooted at root. A nil root yields an empty
// layout.
func Compute(root *hierarchy.Node, opts Options) *Layout {
	opts = opts.withDefaults()
	l := &Layout{
		Width:   opts.Width * areaFraction,
		Height:  opts.Height * areaFraction,
		Options: opts,
	}
	if root == nil {
		return l
	}

	l.Root = l.mirror(root, nil)
	tidy(l.Root)
	for _, n := range l.nodes {
		n.X *= NodeWidth
		n.Y = float64(n.Source.Depth) * NodeHeight
	}
	if opts.GroupByDivision {
		l.groupByDivision(opts)
	}
	return l
}

func (l *Layout) mirror(src *hierarchy.Node, parent *Node) *Node {
	n := &Node{Source: src, Parent: parent}
	l.nodes = append(l.nodes, n)
	for _, c := range src.Children {
		n.Children = append(n.Children, l.mirror(c, n))
	}
	return n
}

func (l *Layout) groupByDivision(opts Options) {
	index := make(map[string]int)
	var order []string
	add := func(d string) {
		if _, ok := index[d]; !ok {
			index[d] = len(order)
			order = append(order, d)
		}
	}
	for _, d := range opts.DivisionOrder {
		add(d)
	}
	for _, n := range l.Visible() {
		add(n.Stakeholder().Division)
	}

	spacing := opts.Width / float64(len(order)+1)
	for _, n := range l.nodes {
		if n.Virtual() {
			n.X = opts.Width / 2
			continue
		}
		n.X = spacing * float64(index[n.Stakeholder().Division]+1)
	}
	l.Divisions = make([]DivisionLabel, len(order))
	for i, d := range order {
		l.Divisions[i] = DivisionLabel{Name: d, X: spacing * float64(i+1), Y: DivisionLabelY}
	}
}

// Nodes returns every node in pre-order, the virtual root included.
func (l *Layout) Nodes() []*Node { return l.nodes }

// Visible returns every non-virtual node in pre-order.
func (l *Layout) Visible() []*Node {
	out := make([]*Node, 0, len(l.nodes))
	for _, n := range l.nodes {
		if !n.Virtual() {
			out = append(out, n)
		}
	}
	return out
}

// Find returns the node of the named stakeholder, never the virtual root.
func (l *Layout) Find(name string) *Node {
	for _, n := range l.nodes {
		if !n.Virtual() && n.Stakeholder().Name == name {
			return n
		}
	}
	return nil
}

// Edges returns parent-child links in pre-order of the parent.
func (l *Layout) Edges() []Edge {
	var edges []Edge
	for _, n := range l.nodes {
		for _, c := range n.Children {
			edges = append(edges, Edge{Source: n, Target: c, Hidden: n.Virtual() || c.Virtual()})
		}
	}
	return edges
}

// Bounds returns the box around every visible node rectangle. An empty
// layout has an empty box.
func (l *Layout) Bounds() viewport.Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range l.Visible() {
		b := n.Box()
		minX = math.Min(minX, b.X)
		minY = math.Min(minY, b.Y)
		maxX = math.Max(maxX, b.X+b.Width)
		maxY = math.Max(maxY, b.Y+b.Height)
	}
	if math.IsInf(minX, 1) {
		return viewport.Rect{}
	}
	return viewport.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// LinkPath returns the SVG path of a vertical cubic link from the source
// node to the target node.
func LinkPath(e Edge) string {
	x0, y0 := e.Source.X, e.Source.Y
	x1, y1 := e.Target.X, e.Target.Y
	ym := (y0 + y1) / 2
	return fmt.Sprintf("M%g,%gC%g,%g,%g,%g,%g,%g", x0, y0, x0, ym, x1, ym, x1, y1)
}

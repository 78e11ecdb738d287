// Package layout positions a reporting tree for drawing.
//
// # Algorithm
//
// [Compute] runs the Buchheim-Jünger-Leipert variant of the Reingold-Tilford
// tidy tree (linear time, same results as d3.tree) with a fixed node size
// of 180×120 layout units:
//
//   - x = breadth position × 180, root at x = 0
//   - y = depth × 120
//   - adjacent siblings are 1.5 node widths apart, cousins 2.5
//
// The requested 0.8·width × 0.8·height area is recorded in [Layout.Size];
// with a fixed node size it does not rescale positions.
//
// # Division Grouping
//
// With [Options.GroupByDivision] every node's x is replaced by the slot of
// its division: divisions are taken in first-seen order, slot i sits at
// width/(n+1) × (i+1), and y is unchanged. One [DivisionLabel] per slot is
// placed at y = 30. Links follow the moved nodes.
//
// # Drawing Helpers
//
// [Layout.Edges] lists parent-child pairs in pre-order; edges touching the
// virtual root are flagged Hidden. [Layout.Bounds] is the box around every
// visible node's 160×80 rectangle and feeds viewport fitting. [LinkPath]
// returns the vertical cubic link path between two nodes.
//
// Layout is a pure function of (tree, options). Pan and zoom never require a
// new layout.
package layout

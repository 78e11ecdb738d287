// Package history provides a generic undo/redo stack over immutable
// snapshots.
//
// A History holds a present value plus two stacks: past (undo) and future
// (redo). Push makes a new present and clears the future; Undo and Redo move
// the present between the stacks. Both are no-ops on an empty stack.
//
// Values are copied with the clone function on the way in and on the way
// out, so callers can never mutate a stored snapshot:
//
//	h := history.New(stakeholder.Set{}, stakeholder.Set.Clone)
//	h.Push(set.With(s))
//	prev := h.Undo()
//
// History is not safe for concurrent use; owners serialize access.
package history

// History is an undo/redo stack of snapshots of type T.
type History[T any] struct {
	past    []T
	present T
	future  []T
	clone   func(T) T
	limit   int
}

// Option configures a History.
type Option func(*options)

type options struct {
	limit int
}

// WithLimit bounds the undo stack. The oldest snapshots are dropped once more
// than n are stored. n <= 0 means unbounded.
func WithLimit(n int) Option {
	return func(o *options) { o.limit = n }
}

// New returns a History whose present is initial. clone copies a snapshot;
// nil means values are stored as-is, which is only correct for immutable T.
func New[T any](initial T, clone func(T) T, opts ...Option) *History[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &History[T]{present: clone(initial), clone: clone, limit: o.limit}
}

// Current returns a copy of the present snapshot.
func (h *History[T]) Current() T { return h.clone(h.present) }

// Push records v as the new present. The previous present moves to the undo
// stack and the redo stack is cleared.
func (h *History[T]) Push(v T) {
	h.past = append(h.past, h.present)
	if h.limit > 0 && len(h.past) > h.limit {
		drop := len(h.past) - h.limit
		clear(h.past[:drop])
		h.past = h.past[drop:]
	}
	h.present = h.clone(v)
	clear(h.future)
	h.future = h.future[:0]
}

// Undo restores the previous snapshot and returns the new present.
// With nothing to undo it returns the unchanged present.
func (h *History[T]) Undo() T {
	if len(h.past) == 0 {
		return h.Current()
	}
	last := len(h.past) - 1
	h.future = append(h.future, h.present)
	h.present = h.past[last]
	var zero T
	h.past[last] = zero
	h.past = h.past[:last]
	return h.Current()
}

// Redo re-applies the most recently undone snapshot and returns the new
// present. With nothing to redo it returns the unchanged present.
func (h *History[T]) Redo() T {
	if len(h.future) == 0 {
		return h.Current()
	}
	last := len(h.future) - 1
	h.past = append(h.past, h.present)
	h.present = h.future[last]
	var zero T
	h.future[last] = zero
	h.future = h.future[:last]
	return h.Current()
}

// CanUndo reports whether Undo would change the present.
func (h *History[T]) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether Redo would change the present.
func (h *History[T]) CanRedo() bool { return len(h.future) > 0 }

// Len returns the sizes of the undo and redo stacks.
func (h *History[T]) Len() (past, future int) { return len(h.past), len(h.future) }

// Limit returns the undo stack bound, 0 when unbounded.
func (h *History[T]) Limit() int { return h.limit }

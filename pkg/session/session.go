// Package session owns the stakeholder set being edited.
//
// A [Session] is the single owner of the influence map state: every change
// goes through it, is checked against the reporting rules, recorded in the
// undo history and written to the configured store. Rendering reads the
// current set through [Session.View].
//
// # Rules
//
//   - names are unique (DUPLICATE_NAME)
//   - a manager must exist (DANGLING_REFERENCE)
//   - no reporting cycles, including self-reporting (CYCLE_REJECTED)
//   - scores stay in range (INVALID_INPUT)
//
// A rejected change leaves the set and the history untouched.
//
// # Persistence
//
// Persistence is optimistic: the in-memory set changes first and the store
// write follows. A failed write is logged, reported to the session hooks and
// returned as a PERSISTENCE error, but the change is kept.
//
// # Usage
//
//	sess := session.New(session.WithStore(st), session.WithLogger(logger))
//	if err := sess.Load(ctx); err != nil {
//	    return err
//	}
//	err := sess.Add(ctx, stakeholder.Stakeholder{Name: "CEO", ...})
//	sess.Undo(ctx)
package session

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/influencemap/pkg/errors"
	"github.com/matzehuels/influencemap/pkg/hierarchy"
	"github.com/matzehuels/influencemap/pkg/history"
	pkgio "github.com/matzehuels/influencemap/pkg/io"
	"github.com/matzehuels/influencemap/pkg/observability"
	"github.com/matzehuels/influencemap/pkg/stakeholder"
	"github.com/matzehuels/influencemap/pkg/store"
	"github.com/matzehuels/influencemap/pkg/viewport"
)

// DefaultHistoryLimit bounds the undo stack when no limit is configured.
const DefaultHistoryLimit = 100

// Operation names reported to hooks and logs.
const (
	OpLoad   = "load"
	OpAdd    = "add"
	OpUpdate = "update"
	OpRename = "rename"
	OpImport = "import"
	OpReset  = "reset"
	OpUndo   = "undo"
	OpRedo   = "redo"
)

// Session is an editing session over one stakeholder set.
// It is safe for concurrent use.
type Session struct {
	ID string

	mu       sync.Mutex
	history  *history.History[stakeholder.Set]
	store    store.Store
	key      string
	limit    int
	logger   *log.Logger
	viewport *viewport.Controller
	lastView *View
	fit      fitState
}

// Option configures a Session.
type Option func(*Session)

// WithStore sets the persistence backend. Without one nothing is persisted.
func WithStore(st store.Store) Option { return func(s *Session) { s.store = st } }

// WithKey sets the store key. Defaults to [store.DefaultKey].
func WithKey(key string) Option { return func(s *Session) { s.key = key } }

// WithLogger sets the logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option { return func(s *Session) { s.logger = l } }

// WithHistoryLimit bounds the undo stack. n <= 0 means unbounded.
func WithHistoryLimit(n int) Option { return func(s *Session) { s.limit = n } }

// New returns a session over an empty set.
func New(opts ...Option) *Session {
	s := &Session{
		ID:    uuid.NewString(),
		key:   store.DefaultKey,
		limit: DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = store.NullStore{}
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.logger = s.logger.With("session", s.ID[:8])
	s.history = s.newHistory(stakeholder.Set{})
	s.viewport = viewport.NewController(0, 0)
	return s
}

func (s *Session) newHistory(initial stakeholder.Set) *history.History[stakeholder.Set] {
	return history.New(initial, stakeholder.Set.Clone, history.WithLimit(s.limit))
}

// Key returns the store key.
func (s *Session) Key() string { return s.key }

// Load replaces the set with the stored snapshot and clears the history.
// A missing snapshot leaves the empty set. An invalid snapshot is rejected
// with a PERSISTENCE error.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, found, err := s.store.Load(ctx, s.key)
	if err != nil {
		s.logger.Warn("load failed", "key", s.key, "error", err)
		return err
	}
	if !found {
		s.logger.Debug("no stored map", "key", s.key)
		return nil
	}
	if err := set.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "stored map %s is invalid", s.key)
	}
	if cycle := hierarchy.FindCycle(set); cycle != nil {
		return errors.New(errors.ErrCodePersistence, "stored map %s contains a reporting cycle through %s", s.key, cycle[0])
	}
	s.history = s.newHistory(set)
	s.lastView = nil
	s.logger.Debug("loaded map", "key", s.key, "stakeholders", len(set))
	observability.Session().OnMutation(ctx, OpLoad, len(set))
	return nil
}

// =============================================================================
// Queries
// =============================================================================

// Current returns a copy of the current set.
func (s *Session) Current() stakeholder.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Current()
}

// CanUndo reports whether there is a change to undo.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

// CanRedo reports whether there is an undone change to redo.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// Node returns the named stakeholder, the payload of a node click.
func (s *Session) Node(name string) (stakeholder.Stakeholder, error) {
	x, ok := s.Current().Lookup(name)
	if !ok {
		return stakeholder.Stakeholder{}, errNotFound(name)
	}
	return x, nil
}

// Stats summarizes the current set.
func (s *Session) Stats() stakeholder.Stats {
	return stakeholder.ComputeStats(s.Current())
}

// Hierarchy builds the reporting tree of the current set.
func (s *Session) Hierarchy() (*hierarchy.Node, error) {
	return hierarchy.Build(s.Current())
}

// =============================================================================
// Mutations
// =============================================================================

// Add appends a new stakeholder.
func (s *Session) Add(ctx context.Context, x stakeholder.Stakeholder) error {
	return s.mutate(ctx, OpAdd, func(cur stakeholder.Set) (stakeholder.Set, error) {
		if err := x.Validate(); err != nil {
			return nil, err
		}
		if cur.Has(x.Name) {
			return nil, errDuplicate(x.Name)
		}
		if err := checkManager(x, cur); err != nil {
			return nil, err
		}
		return cur.With(x), nil
	})
}

// Update replaces the stakeholder with the same name. Use [Session.Rename]
// to change a name.
func (s *Session) Update(ctx context.Context, x stakeholder.Stakeholder) error {
	return s.mutate(ctx, OpUpdate, func(cur stakeholder.Set) (stakeholder.Set, error) {
		if !cur.Has(x.Name) {
			return nil, errNotFound(x.Name)
		}
		if err := x.Validate(); err != nil {
			return nil, err
		}
		if err := checkManager(x, cur); err != nil {
			return nil, err
		}
		next, _ := cur.Replace(x)
		return next, nil
	})
}

// Rename changes a stakeholder's name and points every direct report at the
// new name, as one undoable change.
func (s *Session) Rename(ctx context.Context, oldName, newName string) error {
	return s.mutate(ctx, OpRename, func(cur stakeholder.Set) (stakeholder.Set, error) {
		if !cur.Has(oldName) {
			return nil, errNotFound(oldName)
		}
		if err := stakeholder.ValidateName(newName); err != nil {
			return nil, err
		}
		if newName == oldName {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s already has that name", oldName)
		}
		if cur.Has(newName) {
			return nil, errDuplicate(newName)
		}
		next, _ := cur.Rename(oldName, newName)
		// Imported records may already point at newName.
		if cycle := hierarchy.FindCycle(next); cycle != nil {
			return nil, errors.New(errors.ErrCodeCycleRejected,
				"renaming %s to %s would create a reporting cycle through %s", oldName, newName, cycle[0])
		}
		return next, nil
	})
}

// Import replaces the set with the records read from r. Nothing changes when
// the input cannot be parsed or contains a reporting cycle. Managers that are
// missing from the input are accepted here and reported by [Session.View].
func (s *Session) Import(ctx context.Context, r io.Reader, format pkgio.Format) error {
	return s.mutate(ctx, OpImport, func(stakeholder.Set) (stakeholder.Set, error) {
		set, err := pkgio.Read(r, format)
		if err != nil {
			return nil, err
		}
		if cycle := hierarchy.FindCycle(set); cycle != nil {
			return nil, errors.New(errors.ErrCodeCycleRejected, "imported data contains a reporting cycle through %s", cycle[0])
		}
		return set, nil
	})
}

// Reset replaces the set with the empty set. The previous set stays
// reachable through Undo.
func (s *Session) Reset(ctx context.Context) error {
	return s.mutate(ctx, OpReset, func(stakeholder.Set) (stakeholder.Set, error) {
		return stakeholder.Set{}, nil
	})
}

// Undo restores the previous set. It reports false when there was nothing to
// undo.
func (s *Session) Undo(ctx context.Context) (bool, error) {
	return s.step(ctx, OpUndo, (*history.History[stakeholder.Set]).CanUndo, (*history.History[stakeholder.Set]).Undo)
}

// Redo re-applies the last undone change. It reports false when there was
// nothing to redo.
func (s *Session) Redo(ctx context.Context) (bool, error) {
	return s.step(ctx, OpRedo, (*history.History[stakeholder.Set]).CanRedo, (*history.History[stakeholder.Set]).Redo)
}

func (s *Session) step(ctx context.Context, op string,
	can func(*history.History[stakeholder.Set]) bool,
	move func(*history.History[stakeholder.Set]) stakeholder.Set,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !can(s.history) {
		return false, nil
	}
	set := move(s.history)
	s.logger.Debug(op, "stakeholders", len(set))
	observability.Session().OnMutation(ctx, op, len(set))
	return true, s.persist(ctx, set)
}

// mutate applies fn to the current set. On success the result becomes the
// new present and is persisted; on failure nothing changes.
func (s *Session) mutate(ctx context.Context, op string, fn func(stakeholder.Set) (stakeholder.Set, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.history.Current())
	if err != nil {
		s.logger.Debug("rejected", "op", op, "error", err)
		observability.Session().OnRejected(ctx, op, err)
		return err
	}
	s.history.Push(next)
	s.logger.Debug(op, "stakeholders", len(next))
	observability.Session().OnMutation(ctx, op, len(next))
	return s.persist(ctx, next)
}

// persist writes set to the store. Callers hold s.mu.
func (s *Session) persist(ctx context.Context, set stakeholder.Set) error {
	start := time.Now()
	err := s.store.Save(ctx, s.key, set)
	observability.Session().OnPersist(ctx, s.key, time.Since(start), err)
	if err != nil {
		s.logger.Warn("save failed, keeping in-memory changes", "key", s.key, "error", err)
		if !errors.Is(err, errors.ErrCodePersistence) {
			err = errors.Wrap(errors.ErrCodePersistence, err, "save %s", s.key)
		}
		return err
	}
	return nil
}

// checkManager verifies that x's manager exists and that reporting to it
// does not close a cycle.
func checkManager(x stakeholder.Stakeholder, cur stakeholder.Set) error {
	manager, ok := x.ReportsTo.Name()
	if !ok {
		return nil
	}
	if manager != x.Name && !cur.Has(manager) {
		return errors.New(errors.ErrCodeDanglingReference, "%s cannot report to unknown stakeholder %q", x.Name, manager)
	}
	return hierarchy.ValidateEdge(x.Name, x.ReportsTo, cur)
}

func errNotFound(name string) error {
	return errors.New(errors.ErrCodeNotFound, "stakeholder %q not found", name)
}

func errDuplicate(name string) error {
	return errors.New(errors.ErrCodeDuplicateName, "a stakeholder named %q already exists", name)
}

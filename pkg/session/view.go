package session

import (
	"github.com/matzehuels/influencemap/pkg/color"
	"github.com/matzehuels/influencemap/pkg/hierarchy"
	"github.com/matzehuels/influencemap/pkg/layout"
	"github.com/matzehuels/influencemap/pkg/render"
	"github.com/matzehuels/influencemap/pkg/stakeholder"
	"github.com/matzehuels/influencemap/pkg/viewport"
)

// View is a laid-out influence map ready to draw.
type View struct {
	Root      *hierarchy.Node
	Layout    *layout.Layout
	Document  layout.Document
	Animation viewport.Animation // fit-to-content transition, empty when the fit is kept
}

// Transform returns the viewport transform the view is drawn under.
func (v *View) Transform() viewport.Transform { return v.Document.Transform }

// fitState records what the viewport was last fitted to. Pan and zoom
// survive until the set, the grouping mode or the viewport size changes.
type fitState struct {
	set             stakeholder.Set
	width, height   float64
	groupByDivision bool
	valid           bool
}

func (f fitState) matches(set stakeholder.Set, opts layout.Options) bool {
	return f.valid &&
		f.width == opts.Width && f.height == opts.Height &&
		f.groupByDivision == opts.GroupByDivision &&
		f.set.Equal(set)
}

// View builds and lays out the current set.
//
// The viewport is fitted to the content the first time and whenever the
// set, the grouping mode or the viewport size changed since the last fit.
// Otherwise the current pan/zoom is kept and the returned animation is
// empty. Document.Transform always carries the transform in effect.
//
// When the current set cannot be built (a dangling manager, no top-level
// stakeholder) View returns the last view that could be built together with
// the BUILD_FAILURE error. The returned view is nil if no view was ever
// built.
func (s *Session) View(opts layout.Options) (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.history.Current()
	root, err := hierarchy.Build(set)
	if err != nil {
		s.logger.Debug("build failed, keeping last view", "error", err)
		if s.lastView == nil {
			return nil, err
		}
		last := *s.lastView
		last.Document.Transform = s.viewport.Transform()
		return &last, err
	}

	opts.DivisionOrder = set.Divisions()
	l := layout.Compute(root, opts)
	v := &View{Root: root, Layout: l, Document: l.Export()}

	if s.fit.matches(set, l.Options) {
		t := s.viewport.Transform()
		v.Animation = viewport.Animation{From: t, To: t}
	} else {
		s.viewport.Resize(l.Options.Width, l.Options.Height)
		v.Animation = s.viewport.FitToBounds(l.Bounds())
		s.fit = fitState{
			set:             set,
			width:           l.Options.Width,
			height:          l.Options.Height,
			groupByDivision: l.Options.GroupByDivision,
			valid:           true,
		}
	}
	v.Document.Transform = v.Animation.To
	s.lastView = v
	return v, nil
}

// =============================================================================
// Viewport gestures
// =============================================================================

// Transform returns the current viewport transform.
func (s *Session) Transform() viewport.Transform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport.Transform()
}

// SetTransform replaces the viewport transform, as a drag or wheel gesture
// does. The scale is clamped to [viewport.MinScale, viewport.MaxScale].
func (s *Session) SetTransform(t viewport.Transform) viewport.Transform {
	return s.gesture(func(c *viewport.Controller) viewport.Transform { return c.Set(t) })
}

// Pan moves the viewport by (dx, dy) screen units.
func (s *Session) Pan(dx, dy float64) viewport.Transform {
	return s.gesture(func(c *viewport.Controller) viewport.Transform { return c.Pan(dx, dy) })
}

// Zoom scales the viewport by factor around the screen point (px, py).
func (s *Session) Zoom(factor, px, py float64) viewport.Transform {
	return s.gesture(func(c *viewport.Controller) viewport.Transform { return c.ZoomAt(factor, px, py) })
}

// Refit discards pan and zoom; the next [Session.View] fits the content
// again.
func (s *Session) Refit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fit = fitState{}
}

func (s *Session) gesture(fn func(*viewport.Controller) viewport.Transform) viewport.Transform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.viewport)
}

// Tooltip is the hover payload of a stakeholder.
type Tooltip struct {
	Name              string `json:"name"`
	Role              string `json:"role"`
	Division          string `json:"division"`
	RelationshipScore int    `json:"relationshipScore"`
	DecisionWeighting int    `json:"decisionWeighting"`
	Category          string `json:"category"`
	Fill              string `json:"fill"`
	Text              string `json:"text"`
}

// Tooltip returns the hover payload of the named stakeholder.
func (s *Session) Tooltip(name string) (Tooltip, error) {
	x, err := s.Node(name)
	if err != nil {
		return Tooltip{}, err
	}
	c := color.Classify(x.RelationshipScore, x.DecisionWeighting)
	return Tooltip{
		Name:              x.Name,
		Role:              x.Role,
		Division:          x.Division,
		RelationshipScore: x.RelationshipScore,
		DecisionWeighting: x.DecisionWeighting,
		Category:          c.Category.String(),
		Fill:              c.Fill,
		Text:              render.Tooltip(x),
	}, nil
}

package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/influencemap/pkg/hierarchy"
	"github.com/matzehuels/influencemap/pkg/layout"
	"github.com/matzehuels/influencemap/pkg/observability"
	"github.com/matzehuels/influencemap/pkg/stakeholder"
)

// =============================================================================
// Layout Generation
// =============================================================================

// Prepare applies the search filter to a set.
func Prepare(set stakeholder.Set, opts Options) stakeholder.Set {
	if opts.Filter == "" {
		return set
	}
	return set.Filter(opts.Filter)
}

// LayoutOptions maps pipeline options to layout options. Division slots
// follow the order in which divisions first appear in the set.
func LayoutOptions(set stakeholder.Set, opts Options) layout.Options {
	return layout.Options{
		Width:           opts.Width,
		Height:          opts.Height,
		GroupByDivision: opts.GroupByDivision,
		DivisionOrder:   set.Divisions(),
	}
}

// GenerateLayout builds the hierarchy of set and lays it out. Reporting
// problems surface as BUILD_FAILURE errors.
func GenerateLayout(ctx context.Context, set stakeholder.Set, opts Options) (*layout.Layout, error) {
	hooks := observability.Pipeline()

	root, err := hierarchy.Build(set)
	if err != nil {
		hooks.OnBuildComplete(ctx, 0, false, err)
		return nil, err
	}
	if root != nil {
		hooks.OnBuildComplete(ctx, root.Count(), root.Virtual, nil)
	} else {
		hooks.OnBuildComplete(ctx, 0, false, nil)
	}

	start := time.Now()
	hooks.OnLayoutStart(ctx, len(set))
	l := layout.Compute(root, LayoutOptions(set, opts))
	hooks.OnLayoutComplete(ctx, time.Since(start), nil)
	return l, nil
}

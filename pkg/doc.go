// Package pkg provides the core libraries for influencemap, an
// organizational influence map.
//
// # Overview
//
// An influence map arranges stakeholders by who reports to whom and colors
// each one by two scores: how good the relationship is (0-10) and how much
// weight they carry in decisions (0-100). The pkg directory is organized
// into four areas:
//
//  1. Domain: [stakeholder], [color], [hierarchy]
//  2. Layout and view state: [layout], [viewport], [history], [session]
//  3. Output: [render], [render/nodelink], [pipeline]
//  4. Infrastructure: [store], [cache], [io], [errors], [observability]
//
// # Architecture
//
// The typical data flow:
//
//	stakeholder.Set (edited through a session, undoable)
//	         ↓
//	    [hierarchy] package (reporting tree, virtual root, cycle checks)
//	         ↓
//	    [layout] package (tidy tree or division columns)
//	         ↓
//	    [viewport] package (fit-to-content transform)
//	         ↓
//	    SVG/PDF/PNG/JSON/DOT output
//
// # Quick Start
//
// Build and lay out a map:
//
//	set := stakeholder.Set{
//	    {Name: "CEO", Division: "Executive", RelationshipScore: 8, DecisionWeighting: 90},
//	    {Name: "CFO", Division: "Finance", ReportsTo: stakeholder.ReportsTo("CEO"),
//	        RelationshipScore: 2, DecisionWeighting: 80},
//	}
//	root, _ := hierarchy.Build(set)
//	l := layout.Compute(root, layout.Options{Width: 1200, Height: 800})
//
// Render through the cached pipeline:
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(64), nil, logger)
//	result, _ := runner.Execute(ctx, set, pipeline.Options{Formats: []string{"svg"}})
//	os.WriteFile("map.svg", result.Artifacts["svg"], 0o644)
//
// Edit with undo:
//
//	sess := session.New(session.WithStore(store.NewMemoryStore()))
//	_ = sess.Add(ctx, set[0])
//	_, _ = sess.Undo(ctx)
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test -run Example ./... # Examples only
//
// [stakeholder]: https://pkg.go.dev/github.com/matzehuels/influencemap/pkg/stakeholder
// [color]: https://pkg.go.dev/github.com/matzehuels/influencemap/pkg/color
// [hierarchy]: https://pkg.go.dev/github.com/matzehuels/influencemap/pkg/hierarchy
// [layout]: https://pkg.go.dev/github.com/matzehuels/influencemap/pkg/layout
// [viewport]: https://pkg.go.dev/github.com/matzehuels/influencemap/pkg/viewport
// [history]: https://pkg.go.dev/github.com/matzehuels/influencemap/pkg/history
// [session]: https://pkg.go.dev/github.com/matzehuels/influencemap/pkg/session
// [render]: https://pkg.go.dev/github.com/matzehuels/influencemap/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/influencemap/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/influencemap/pkg/pipeline
// [store]: https://pkg.go.dev/github.com/matzehuels/influencemap/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/influencemap/pkg/cache
// [io]: https://pkg.go.dev/github.com/matzehuels/influencemap/pkg/io
// [errors]: https://pkg.go.dev/github.com/matzehuels/influencemap/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/influencemap/pkg/observability
package pkg

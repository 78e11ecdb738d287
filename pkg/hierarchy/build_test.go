package hierarchy

import (
	"fmt"
	"slices"
	"testing"

	"github.com/matzehuels/influencemap/pkg/errors"
	"github.com/matzehuels/influencemap/pkg/stakeholder"
)

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID()
	}
	return out
}

func TestBuild_Empty(t *testing.T) {
	root, err := Build(nil)
	if root != nil || err != nil {
		t.Errorf("Build(nil) = %v, %v; want nil, nil", root, err)
	}
}

func TestBuild_SingleRoot(t *testing.T) {
	root, err := Build(chain())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if root.Virtual {
		t.Fatal("single top-level stakeholder produced a virtual root")
	}
	if root.ID() != "CEO" {
		t.Errorf("root = %s, want CEO", root.ID())
	}
	if got := names(root.Children); !slices.Equal(got, []string{"CFO", "VP Sales"}) {
		t.Errorf("CEO children = %v", got)
	}
	if got := root.Count(); got != 4 {
		t.Errorf("Count() = %d, want 4", got)
	}
	ctrl := root.Find("Controller")
	if ctrl == nil || ctrl.Depth != 2 || ctrl.Parent.ID() != "CFO" {
		t.Errorf("Controller = %+v", ctrl)
	}
	if got := root.Height(); got != 2 {
		t.Errorf("Height() = %d, want 2", got)
	}
}

func TestBuild_VirtualRoot(t *testing.T) {
	set := stakeholder.Set{person("CEO", "None"), person("COO", "None")}

	root, err := Build(set)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if !root.Virtual {
		t.Fatal("root is not virtual")
	}
	if root.ID() != VirtualRootID {
		t.Errorf("ID() = %q, want %q", root.ID(), VirtualRootID)
	}
	if got := names(root.Children); !slices.Equal(got, []string{"CEO", "COO"}) {
		t.Errorf("virtual root children = %v", got)
	}
	for _, c := range root.Children {
		if c.Parent != root || c.Depth != 1 {
			t.Errorf("%s: parent=%v depth=%d", c.ID(), c.Parent, c.Depth)
		}
	}
	if got := root.Count(); got != len(set)+1 {
		t.Errorf("Count() = %d, want %d", got, len(set)+1)
	}
	if got := names(root.Visible()); !slices.Equal(got, []string{"CEO", "COO"}) {
		t.Errorf("Visible() = %v", got)
	}
	if root.Find(VirtualRootID) != nil {
		t.Error("Find returned the virtual root")
	}
}

func TestBuild_StakeholderNamedLikeVirtualRoot(t *testing.T) {
	set := stakeholder.Set{person(VirtualRootID, "None"), person("COO", "None"), person("X", VirtualRootID)}

	root, err := Build(set)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	named := root.Find(VirtualRootID)
	if named == nil || named.Virtual {
		t.Fatalf("Find(%q) = %+v, want the named stakeholder", VirtualRootID, named)
	}
	if got := names(named.Children); !slices.Equal(got, []string{"X"}) {
		t.Errorf("children = %v", got)
	}
}

func TestBuild_Failures(t *testing.T) {
	tests := []struct {
		name string
		set  stakeholder.Set
		code errors.Code
	}{
		{
			name: "dangling reference",
			set:  stakeholder.Set{person("CEO", "None"), person("CFO", "Board")},
			code: errors.ErrCodeDanglingReference,
		},
		{
			name: "duplicate names",
			set:  stakeholder.Set{person("CEO", "None"), person("CEO", "None")},
			code: errors.ErrCodeDuplicateName,
		},
		{
			name: "no top-level stakeholder",
			set:  stakeholder.Set{person("A", "B"), person("B", "A")},
			code: errors.ErrCodeBuildFailure,
		},
		{
			name: "detached cycle",
			set:  stakeholder.Set{person("CEO", "None"), person("A", "B"), person("B", "A")},
			code: errors.ErrCodeBuildFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Build(tt.set)
			if root != nil {
				t.Errorf("Build() returned a partial tree")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Build() error = %v, want %s", err, tt.code)
			}
			if !errors.Is(err, errors.ErrCodeBuildFailure) {
				t.Errorf("Build() error = %v, want it to count as BUILD_FAILURE", err)
			}
		})
	}
}

func TestBuild_NodeCountProperty(t *testing.T) {
	// Random-shaped acyclic sets: every stakeholder reports to an earlier one
	// or to nobody.
	for seed := 1; seed <= 50; seed++ {
		var set stakeholder.Set
		tops := 0
		for i := 0; i < seed; i++ {
			manager := "None"
			if i > 0 && (i*7+seed)%5 != 0 {
				manager = fmt.Sprintf("s%d", (i*31+seed)%i)
			}
			if manager == "None" {
				tops++
			}
			set = append(set, person(fmt.Sprintf("s%d", i), manager))
		}

		root, err := Build(set)
		if err != nil {
			t.Fatalf("seed %d: Build() error: %v", seed, err)
		}
		want := len(set)
		if tops > 1 {
			want++
		}
		if got := root.Count(); got != want {
			t.Errorf("seed %d: Count() = %d, want %d", seed, got, want)
		}
		if tops > 1 && len(root.Children) != tops {
			t.Errorf("seed %d: virtual root has %d children, want %d", seed, len(root.Children), tops)
		}
	}
}

func TestWalk_SkipSubtree(t *testing.T) {
	root, _ := Build(chain())
	var seen []string
	root.Walk(func(n *Node) bool {
		seen = append(seen, n.ID())
		return n.ID() != "CFO"
	})
	if !slices.Equal(seen, []string{"CEO", "CFO", "VP Sales"}) {
		t.Errorf("Walk() visited %v", seen)
	}
}

func ExampleBuild() {
	set := stakeholder.Set{
		{Name: "CEO", ReportsTo: stakeholder.NoParent()},
		{Name: "COO", ReportsTo: stakeholder.NoParent()},
		{Name: "CFO", ReportsTo: stakeholder.ReportsTo("CEO")},
	}
	root, _ := Build(set)
	root.Walk(func(n *Node) bool {
		fmt.Printf("%*s%s\n", n.Depth*2, "", n.ID())
		return true
	})
	// Output:
	// __virtual_root__
	//   CEO
	//     CFO
	//   COO
}

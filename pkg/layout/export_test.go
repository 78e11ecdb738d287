package layout

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/influencemap/pkg/stakeholder"
)

func TestExport(t *testing.T) {
	set := stakeholder.Set{
		person("CEO", "None", "Executive"),
		person("COO", "None", "Executive"),
		person("CFO", "CEO", "Finance"),
	}
	set[2].RelationshipScore = 2
	set[2].DecisionWeighting = 90

	doc := Compute(build(t, set), Options{Width: 1000, Height: 800}).Export()

	if len(doc.Nodes) != 3 {
		t.Fatalf("len(Nodes) = %d, want 3 (virtual root omitted)", len(doc.Nodes))
	}
	if len(doc.Edges) != 1 || doc.Edges[0].Source != "CEO" || doc.Edges[0].Target != "CFO" {
		t.Errorf("Edges = %+v, want only CEO -> CFO", doc.Edges)
	}
	for _, n := range doc.Nodes {
		if n.Name == "CFO" && (n.Category != "Critical Risk" || n.Fill != "#dc2626") {
			t.Errorf("CFO = %+v", n)
		}
		if n.Name == "CEO" && n.ReportsTo != "None" {
			t.Errorf("CEO reportsTo = %q", n.ReportsTo)
		}
	}
	if doc.ViewWidth != 1000 || doc.Width != 800 {
		t.Errorf("ViewWidth = %v, Width = %v, want 1000 and 800", doc.ViewWidth, doc.Width)
	}
	if doc.Transform.K != 0.8 {
		t.Errorf("Transform.K = %v", doc.Transform.K)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := Compute(build(t, stakeholder.Set{
		person("CEO", "None", "Executive"),
		person("CFO", "CEO", "Finance"),
	}), Options{}).Export()

	var buf bytes.Buffer
	if err := WriteDocument(doc, &buf); err != nil {
		t.Fatalf("WriteDocument: %v", err)
	}
	got, err := UnmarshalDocument(buf.Bytes())
	if err != nil {
		t.Fatalf("UnmarshalDocument: %v", err)
	}
	if len(got.Nodes) != 2 || got.Edges[0].Path != doc.Edges[0].Path {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestUnmarshalDocument_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"not json", "{", "unmarshal layout"},
		{"unknown edge node", `{"nodes":[{"name":"A"}],"edges":[{"source":"A","target":"B"}]}`, "unknown node"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalDocument([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

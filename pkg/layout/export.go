package layout

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/matzehuels/influencemap/pkg/color"
	"github.com/matzehuels/influencemap/pkg/viewport"
)

// =============================================================================
// Document - Serialized Layout
// =============================================================================

// Document is the wire form of a layout, used for the JSON render format,
// the HTTP API and the layout cache.
type Document struct {
	ViewWidth       float64            `json:"view_width" bson:"view_width"`
	ViewHeight      float64            `json:"view_height" bson:"view_height"`
	Width           float64            `json:"width" bson:"width"`
	Height          float64            `json:"height" bson:"height"`
	GroupByDivision bool               `json:"group_by_division,omitempty" bson:"group_by_division,omitempty"`
	Nodes           []NodeDoc          `json:"nodes" bson:"nodes"`
	Edges           []EdgeDoc          `json:"edges" bson:"edges"`
	Divisions       []DivisionLabel    `json:"divisions,omitempty" bson:"divisions,omitempty"`
	Bounds          viewport.Rect      `json:"bounds" bson:"bounds"`
	Transform       viewport.Transform `json:"transform" bson:"transform"`
}

// NodeDoc is a visible node with its drawing attributes.
type NodeDoc struct {
	Name              string  `json:"name" bson:"name"`
	Role              string  `json:"role" bson:"role"`
	Division          string  `json:"division" bson:"division"`
	ReportsTo         string  `json:"reportsTo" bson:"reportsTo"`
	RelationshipScore int     `json:"relationshipScore" bson:"relationshipScore"`
	DecisionWeighting int     `json:"decisionWeighting" bson:"decisionWeighting"`
	X                 float64 `json:"x" bson:"x"`
	Y                 float64 `json:"y" bson:"y"`
	Depth             int     `json:"depth" bson:"depth"`
	Category          string  `json:"category" bson:"category"`
	Fill              string  `json:"fill" bson:"fill"`
}

// EdgeDoc is a drawn link between two visible nodes.
type EdgeDoc struct {
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
	Path   string `json:"path" bson:"path"`
}

// Export converts the layout into its wire form. The virtual root and its
// hidden edges are omitted. The transform is the fit of the layout bounds
// into the configured viewport.
func (l *Layout) Export() Document {
	doc := Document{
		ViewWidth:       l.Options.Width,
		ViewHeight:      l.Options.Height,
		Width:           l.Width,
		Height:          l.Height,
		GroupByDivision: l.Options.GroupByDivision,
		Nodes:           []NodeDoc{},
		Edges:           []EdgeDoc{},
		Divisions:       l.Divisions,
		Bounds:          l.Bounds(),
	}
	doc.Transform = viewport.Fit(doc.Bounds, l.Options.Width, l.Options.Height)

	for _, n := range l.Visible() {
		s := n.Stakeholder()
		c := color.Classify(s.RelationshipScore, s.DecisionWeighting)
		doc.Nodes = append(doc.Nodes, NodeDoc{
			Name:              s.Name,
			Role:              s.Role,
			Division:          s.Division,
			ReportsTo:         s.ReportsTo.String(),
			RelationshipScore: s.RelationshipScore,
			DecisionWeighting: s.DecisionWeighting,
			X:                 n.X,
			Y:                 n.Y,
			Depth:             n.Source.Depth,
			Category:          c.Category.String(),
			Fill:              c.Fill,
		})
	}
	for _, e := range l.Edges() {
		if e.Hidden {
			continue
		}
		doc.Edges = append(doc.Edges, EdgeDoc{Source: e.Source.ID(), Target: e.Target.ID(), Path: LinkPath(e)})
	}
	return doc
}

// =============================================================================
// Serialization API
// =============================================================================

// MarshalDocument serializes a Document to pretty-printed JSON bytes.
func MarshalDocument(d Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// UnmarshalDocument deserializes JSON bytes into a Document.
// Edges must reference nodes present in the document.
func UnmarshalDocument(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	names := make(map[string]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		names[n.Name] = true
	}
	for _, e := range d.Edges {
		if !names[e.Source] || !names[e.Target] {
			return Document{}, fmt.Errorf("layout edge %s -> %s references unknown node", e.Source, e.Target)
		}
	}
	return d, nil
}

// WriteDocument writes a Document as JSON to w.
func WriteDocument(d Document, w io.Writer) error {
	data, err := MarshalDocument(d)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteDocumentFile writes a Document to a JSON file.
func WriteDocumentFile(d Document, path string) error {
	data, err := MarshalDocument(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadDocumentFile reads a Document from a JSON file.
func ReadDocumentFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalDocument(data)
}

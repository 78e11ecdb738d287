package render

import (
	"fmt"

	"github.com/matzehuels/influencemap/pkg/layout"
	"github.com/matzehuels/influencemap/pkg/stakeholder"
)

const (
	maxLabel   = 20
	labelStart = 17
)

// Truncate shortens a box label: strings longer than 20 characters keep their
// first 17 characters followed by "...".
func Truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxLabel {
		return s
	}
	return string(r[:labelStart]) + "..."
}

// Tooltip returns the hover text of a stakeholder.
func Tooltip(s stakeholder.Stakeholder) string {
	return tooltip(s.Name, s.Role, s.Division, s.RelationshipScore, s.DecisionWeighting)
}

// DocTooltip returns the hover text of a serialized node.
func DocTooltip(n layout.NodeDoc) string {
	return tooltip(n.Name, n.Role, n.Division, n.RelationshipScore, n.DecisionWeighting)
}

func tooltip(name, role, division string, score, weight int) string {
	return fmt.Sprintf("Name: %s\nRole: %s\nDivision: %s\nRelationship Score: %d/10\nDecision Weight: %d%%",
		name, role, division, score, weight)
}

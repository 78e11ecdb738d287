package stakeholder

// Critical-risk thresholds on the normalized scales (score/10, weighting/100).
const (
	criticalWeighting    = 0.7
	criticalRelationship = 0.3
)

// DivisionCount is the number of stakeholders in one division.
type DivisionCount struct {
	Division string `json:"division"`
	Count    int    `json:"count"`
}

// Stats summarizes a stakeholder set.
type Stats struct {
	Total                    int             `json:"total"`
	AverageRelationship      float64         `json:"averageRelationshipScore"`
	AverageDecisionWeighting float64         `json:"averageDecisionWeighting"`
	Critical                 int             `json:"critical"`
	Divisions                []DivisionCount `json:"divisions"`
}

// IsCritical reports whether a stakeholder carries a high decision weighting
// combined with a weak relationship. It matches the critical-risk color
// category.
func (s Stakeholder) IsCritical() bool {
	r := float64(s.RelationshipScore) / 10
	d := float64(s.DecisionWeighting) / 100
	return d > criticalWeighting && r < criticalRelationship
}

// ComputeStats returns totals, averages, the critical count and the division
// breakdown in first-seen order. An empty set yields zero stats.
func ComputeStats(set Set) Stats {
	st := Stats{Total: len(set), Divisions: []DivisionCount{}}
	if len(set) == 0 {
		return st
	}

	index := make(map[string]int)
	var rel, weight int
	for _, x := range set {
		rel += x.RelationshipScore
		weight += x.DecisionWeighting
		if x.IsCritical() {
			st.Critical++
		}
		i, ok := index[x.Division]
		if !ok {
			i = len(st.Divisions)
			index[x.Division] = i
			st.Divisions = append(st.Divisions, DivisionCount{Division: x.Division})
		}
		st.Divisions[i].Count++
	}
	st.AverageRelationship = float64(rel) / float64(len(set))
	st.AverageDecisionWeighting = float64(weight) / float64(len(set))
	return st
}

package stakeholder

import (
	"math"
	"testing"
)

func TestComputeStats(t *testing.T) {
	st := ComputeStats(sample())

	if st.Total != 4 {
		t.Errorf("Total = %d, want 4", st.Total)
	}
	if math.Abs(st.AverageRelationship-6) > 1e-9 {
		t.Errorf("AverageRelationship = %v, want 6", st.AverageRelationship)
	}
	if math.Abs(st.AverageDecisionWeighting-60) > 1e-9 {
		t.Errorf("AverageDecisionWeighting = %v, want 60", st.AverageDecisionWeighting)
	}
	if st.Critical != 1 {
		t.Errorf("Critical = %d, want 1 (CFO)", st.Critical)
	}

	want := []DivisionCount{{"Executive", 1}, {"Finance", 2}, {"Sales", 1}}
	if len(st.Divisions) != len(want) {
		t.Fatalf("Divisions = %v, want %v", st.Divisions, want)
	}
	for i := range want {
		if st.Divisions[i] != want[i] {
			t.Errorf("Divisions[%d] = %v, want %v", i, st.Divisions[i], want[i])
		}
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	st := ComputeStats(nil)
	if st.Total != 0 || st.Critical != 0 || st.AverageRelationship != 0 {
		t.Errorf("ComputeStats(nil) = %+v, want zero", st)
	}
	if st.Divisions == nil {
		t.Error("Divisions = nil, want empty slice")
	}
}

func TestIsCritical(t *testing.T) {
	tests := []struct {
		score, weight int
		want          bool
	}{
		{2, 90, true},
		{0, 71, true},
		{3, 90, false},
		{2, 70, false},
		{9, 95, false},
	}
	for _, tt := range tests {
		s := Stakeholder{RelationshipScore: tt.score, DecisionWeighting: tt.weight}
		if got := s.IsCritical(); got != tt.want {
			t.Errorf("IsCritical(%d, %d) = %v, want %v", tt.score, tt.weight, got, tt.want)
		}
	}
}

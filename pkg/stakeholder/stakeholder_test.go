package stakeholder

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/influencemap/pkg/errors"
)

func TestParent(t *testing.T) {
	tests := []struct {
		name   string
		parent Parent
		none   bool
		wire   string
	}{
		{"zero value", Parent{}, true, "None"},
		{"no parent", NoParent(), true, "None"},
		{"empty name", ReportsTo(""), true, "None"},
		{"parsed none", ParseParent("None"), true, "None"},
		{"parsed empty", ParseParent(""), true, "None"},
		{"manager", ReportsTo("CEO"), false, "CEO"},
		{"parsed manager", ParseParent("CFO"), false, "CFO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.parent.IsNone(); got != tt.none {
				t.Errorf("IsNone() = %v, want %v", got, tt.none)
			}
			if got := tt.parent.String(); got != tt.wire {
				t.Errorf("String() = %q, want %q", got, tt.wire)
			}
		})
	}
}

func TestParentIs(t *testing.T) {
	p := ReportsTo("CEO")
	if !p.Is("CEO") {
		t.Error("ReportsTo(CEO).Is(CEO) = false")
	}
	if p.Is("CFO") {
		t.Error("ReportsTo(CEO).Is(CFO) = true")
	}
	if NoParent().Is("") || NoParent().Is("None") {
		t.Error("NoParent matched a name")
	}
	name, ok := p.Name()
	if !ok || name != "CEO" {
		t.Errorf("Name() = %q, %v", name, ok)
	}
}

func TestStakeholderJSON(t *testing.T) {
	in := `{"name":"CFO","role":"Chief Financial Officer","division":"Finance","reportsTo":"None","relationshipScore":4,"decisionWeighting":80}`

	var s Stakeholder
	if err := json.Unmarshal([]byte(in), &s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !s.ReportsTo.IsNone() {
		t.Errorf("ReportsTo = %v, want none", s.ReportsTo)
	}

	s.ReportsTo = ReportsTo("CEO")
	out, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"name":"CFO","role":"Chief Financial Officer","division":"Finance","reportsTo":"CEO","relationshipScore":4,"decisionWeighting":80}`
	if string(out) != want {
		t.Errorf("Marshal = %s\nwant      %s", out, want)
	}
}

func TestStakeholderValidate(t *testing.T) {
	valid := Stakeholder{Name: "CEO", RelationshipScore: 5, DecisionWeighting: 50}

	tests := []struct {
		name   string
		mutate func(*Stakeholder)
		code   errors.Code
	}{
		{"valid", func(*Stakeholder) {}, ""},
		{"empty name", func(s *Stakeholder) { s.Name = "" }, errors.ErrCodeInvalidInput},
		{"reserved name", func(s *Stakeholder) { s.Name = NoneLabel }, errors.ErrCodeInvalidInput},
		{"score too high", func(s *Stakeholder) { s.RelationshipScore = 11 }, errors.ErrCodeInvalidInput},
		{"weighting negative", func(s *Stakeholder) { s.DecisionWeighting = -1 }, errors.ErrCodeInvalidInput},
		{"self report", func(s *Stakeholder) { s.ReportsTo = ReportsTo("CEO") }, errors.ErrCodeCycleRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := s.Validate()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want code %s", err, tt.code)
			}
		})
	}
}

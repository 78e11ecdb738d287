package io

import (
	"github.com/matzehuels/influencemap/pkg/errors"
	"github.com/matzehuels/influencemap/pkg/stakeholder"
)

// record is the wire form of one stakeholder. Pointer fields detect missing
// values on import.
type record struct {
	Name              *string `json:"name" yaml:"name"`
	Role              *string `json:"role" yaml:"role"`
	Division          *string `json:"division" yaml:"division"`
	ReportsTo         *string `json:"reportsTo" yaml:"reportsTo"`
	RelationshipScore *int    `json:"relationshipScore" yaml:"relationshipScore"`
	DecisionWeighting *int    `json:"decisionWeighting" yaml:"decisionWeighting"`
}

func toRecord(s stakeholder.Stakeholder) record {
	reportsTo := s.ReportsTo.String()
	return record{
		Name:              &s.Name,
		Role:              &s.Role,
		Division:          &s.Division,
		ReportsTo:         &reportsTo,
		RelationshipScore: &s.RelationshipScore,
		DecisionWeighting: &s.DecisionWeighting,
	}
}

func (r record) stakeholder(i int) (stakeholder.Stakeholder, error) {
	missing := func(field string) error {
		return errors.New(errors.ErrCodeImportParse, "record %d: missing required field %q", i, field)
	}
	switch {
	case r.Name == nil:
		return stakeholder.Stakeholder{}, missing("name")
	case r.Role == nil:
		return stakeholder.Stakeholder{}, missing("role")
	case r.Division == nil:
		return stakeholder.Stakeholder{}, missing("division")
	case r.ReportsTo == nil:
		return stakeholder.Stakeholder{}, missing("reportsTo")
	case r.RelationshipScore == nil:
		return stakeholder.Stakeholder{}, missing("relationshipScore")
	case r.DecisionWeighting == nil:
		return stakeholder.Stakeholder{}, missing("decisionWeighting")
	}
	return stakeholder.Stakeholder{
		Name:              *r.Name,
		Role:              *r.Role,
		Division:          *r.Division,
		ReportsTo:         stakeholder.ParseParent(*r.ReportsTo),
		RelationshipScore: *r.RelationshipScore,
		DecisionWeighting: *r.DecisionWeighting,
	}, nil
}

func toRecords(set stakeholder.Set) []record {
	out := make([]record, len(set))
	for i, s := range set {
		out[i] = toRecord(s)
	}
	return out
}

// fromRecords converts decoded records and validates the resulting set.
func fromRecords(recs []record) (stakeholder.Set, error) {
	set := make(stakeholder.Set, 0, len(recs))
	for i, r := range recs {
		s, err := r.stakeholder(i)
		if err != nil {
			return nil, err
		}
		set = append(set, s)
	}
	if err := set.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeImportParse, err, "invalid stakeholder data")
	}
	return set, nil
}

// Package stakeholder defines the influence map data model.
//
// A [Stakeholder] is a person or role with a reporting relationship, a
// relationship score (0-10) and a decision weighting (0-100). A [Set] is the
// ordered list the user edits; insertion order is listing order and the
// stakeholder name is the primary key.
//
// Reporting relationships use the tagged [Parent] variant instead of a
// sentinel manager name. The textual form "None" only exists on the wire:
//
//	ceo := stakeholder.Stakeholder{Name: "CEO", ReportsTo: stakeholder.NoParent()}
//	cfo := stakeholder.Stakeholder{Name: "CFO", ReportsTo: stakeholder.ReportsTo("CEO")}
//
// Sets are values. Mutating helpers ([Set.With], [Set.Replace],
// [Set.Rename]) return new sets and never modify the receiver, so a set held
// in undo history is never changed behind its back.
package stakeholder

import (
	"github.com/matzehuels/influencemap/pkg/errors"
)

// NoneLabel is the wire representation of a stakeholder without a manager.
const NoneLabel = "None"

// Parent is the reporting target of a stakeholder: either nobody or the
// name of another stakeholder. The zero value is [NoParent].
type Parent struct {
	name string
	set  bool
}

// NoParent returns the Parent of a top-level stakeholder.
func NoParent() Parent { return Parent{} }

// ReportsTo returns a Parent pointing at the named manager.
// An empty name yields [NoParent].
func ReportsTo(name string) Parent {
	if name == "" {
		return Parent{}
	}
	return Parent{name: name, set: true}
}

// ParseParent converts the wire form into a Parent.
// "None" and the empty string both mean no manager.
func ParseParent(s string) Parent {
	if s == NoneLabel {
		return NoParent()
	}
	return ReportsTo(s)
}

// Name returns the manager name and whether one is set.
func (p Parent) Name() (string, bool) { return p.name, p.set }

// IsNone reports whether the stakeholder has no manager.
func (p Parent) IsNone() bool { return !p.set }

// Is reports whether p points at the named manager.
func (p Parent) Is(name string) bool { return p.set && p.name == name }

// String returns the wire form ("None" for top-level stakeholders).
func (p Parent) String() string {
	if !p.set {
		return NoneLabel
	}
	return p.name
}

// MarshalText implements encoding.TextMarshaler for JSON and YAML codecs.
func (p Parent) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for JSON and YAML codecs.
func (p *Parent) UnmarshalText(b []byte) error {
	*p = ParseParent(string(b))
	return nil
}

// ValidateName checks a stakeholder name. On top of the generic name rules,
// [NoneLabel] is reserved: it is how "no manager" is written to files and
// stores, so a stakeholder with that name could not be reported to.
func ValidateName(name string) error {
	if err := errors.ValidateName(name); err != nil {
		return err
	}
	if name == NoneLabel {
		return errors.New(errors.ErrCodeInvalidInput, "%q is reserved for stakeholders without a manager", NoneLabel)
	}
	return nil
}

// Stakeholder is a node of the influence map.
type Stakeholder struct {
	Name              string `json:"name" yaml:"name"`
	Role              string `json:"role" yaml:"role"`
	Division          string `json:"division" yaml:"division"`
	ReportsTo         Parent `json:"reportsTo" yaml:"reportsTo"`
	RelationshipScore int    `json:"relationshipScore" yaml:"relationshipScore"`
	DecisionWeighting int    `json:"decisionWeighting" yaml:"decisionWeighting"`
}

// Validate checks the stakeholder's own fields: a usable name, scores within
// range, and no self-reporting. References to other stakeholders are checked
// by the session and the hierarchy builder.
func (s Stakeholder) Validate() error {
	if err := ValidateName(s.Name); err != nil {
		return err
	}
	if err := errors.ValidateRelationshipScore(s.RelationshipScore); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "stakeholder %q: %s", s.Name, errors.UserMessage(err))
	}
	if err := errors.ValidateDecisionWeighting(s.DecisionWeighting); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "stakeholder %q: %s", s.Name, errors.UserMessage(err))
	}
	if s.ReportsTo.Is(s.Name) {
		return errors.New(errors.ErrCodeCycleRejected, "%s cannot report to itself", s.Name)
	}
	return nil
}

// Default form values for a new stakeholder.
const (
	DefaultRelationshipScore = 5
	DefaultDecisionWeighting = 50
)

// Divisions lists the division choices offered by the editor forms.
// Division is free text; this list only feeds pickers.
var Divisions = []string{"Executive", "Sales", "Marketing", "Finance", "Technology", "Other"}

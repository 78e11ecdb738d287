package stakeholder

import (
	"slices"
	"strings"

	"github.com/matzehuels/influencemap/pkg/errors"
)

// Set is an ordered list of stakeholders. Insertion order is listing order.
// Name uniqueness is checked by [Set.Validate] and enforced by the session;
// lookups return the first match.
type Set []Stakeholder

// Len returns the number of stakeholders.
func (s Set) Len() int { return len(s) }

// Index returns the position of the named stakeholder, or -1.
func (s Set) Index(name string) int {
	return slices.IndexFunc(s, func(x Stakeholder) bool { return x.Name == name })
}

// Lookup returns the named stakeholder.
func (s Set) Lookup(name string) (Stakeholder, bool) {
	if i := s.Index(name); i >= 0 {
		return s[i], true
	}
	return Stakeholder{}, false
}

// Has reports whether a stakeholder with the given name exists.
func (s Set) Has(name string) bool { return s.Index(name) >= 0 }

// Names returns stakeholder names in set order.
func (s Set) Names() []string {
	names := make([]string, len(s))
	for i, x := range s {
		names[i] = x.Name
	}
	return names
}

// Clone returns an independent copy. A nil set clones to an empty set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	copy(out, s)
	return out
}

// Equal reports whether both sets hold the same stakeholders in the same order.
func (s Set) Equal(other Set) bool {
	return slices.Equal(s, other)
}

// With returns a new set with x appended.
func (s Set) With(x Stakeholder) Set {
	out := make(Set, len(s), len(s)+1)
	copy(out, s)
	return append(out, x)
}

// Replace returns a new set where the stakeholder named x.Name is replaced
// by x, keeping its position. The second result is false when no stakeholder
// has that name; the returned set is then an unchanged copy.
func (s Set) Replace(x Stakeholder) (Set, bool) {
	out := s.Clone()
	i := out.Index(x.Name)
	if i < 0 {
		return out, false
	}
	out[i] = x
	return out, true
}

// Rename returns a new set where oldName becomes newName and every
// stakeholder reporting to oldName reports to newName instead.
func (s Set) Rename(oldName, newName string) (Set, bool) {
	out := s.Clone()
	i := out.Index(oldName)
	if i < 0 {
		return out, false
	}
	out[i].Name = newName
	for j := range out {
		if out[j].ReportsTo.Is(oldName) {
			out[j].ReportsTo = ReportsTo(newName)
		}
	}
	return out, true
}

// Reports returns the stakeholders that report directly to name, in set order.
func (s Set) Reports(name string) []Stakeholder {
	var out []Stakeholder
	for _, x := range s {
		if x.ReportsTo.Is(name) {
			out = append(out, x)
		}
	}
	return out
}

// TopLevel returns the stakeholders without a manager, in set order.
func (s Set) TopLevel() []Stakeholder {
	var out []Stakeholder
	for _, x := range s {
		if x.ReportsTo.IsNone() {
			out = append(out, x)
		}
	}
	return out
}

// Filter returns the stakeholders whose name, role or division contains
// term, case-insensitively. An empty term returns a copy of the set.
func (s Set) Filter(term string) Set {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return s.Clone()
	}
	out := Set{}
	for _, x := range s {
		if strings.Contains(strings.ToLower(x.Name), term) ||
			strings.Contains(strings.ToLower(x.Role), term) ||
			strings.Contains(strings.ToLower(x.Division), term) {
			out = append(out, x)
		}
	}
	return out
}

// Divisions returns the distinct division values in first-seen order.
func (s Set) Divisions() []string {
	seen := make(map[string]bool, len(s))
	var out []string
	for _, x := range s {
		if !seen[x.Division] {
			seen[x.Division] = true
			out = append(out, x.Division)
		}
	}
	return out
}

// Validate checks every stakeholder's fields and name uniqueness.
// Reporting references are not resolved here; see hierarchy.Build.
func (s Set) Validate() error {
	seen := make(map[string]bool, len(s))
	for _, x := range s {
		if err := x.Validate(); err != nil {
			return err
		}
		if seen[x.Name] {
			return errors.New(errors.ErrCodeDuplicateName, "duplicate stakeholder name %q", x.Name)
		}
		seen[x.Name] = true
	}
	return nil
}

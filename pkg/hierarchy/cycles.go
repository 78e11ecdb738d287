package hierarchy

import "github.com/matzehuels/influencemap/pkg/stakeholder"

// WouldCreateCycle reports whether making candidate report to proposed would
// create a cycle in set.
//
// The walk follows reporting links upward from proposed. It returns true when
// it reaches candidate (including proposed == candidate) or revisits a name,
// which also catches cycles already present in corrupt data. It returns false
// when the chain ends at a stakeholder without a manager or at a name that is
// not in set. The visited set bounds the walk to len(set) steps.
func WouldCreateCycle(candidate string, proposed stakeholder.Parent, set stakeholder.Set) bool {
	name, ok := proposed.Name()
	if !ok {
		return false
	}

	byName := make(map[string]stakeholder.Parent, len(set))
	for _, s := range set {
		if _, dup := byName[s.Name]; !dup {
			byName[s.Name] = s.ReportsTo
		}
	}

	visited := make(map[string]bool, len(set))
	for {
		if name == candidate || visited[name] {
			return true
		}
		visited[name] = true

		parent, found := byName[name]
		if !found {
			return false
		}
		if name, ok = parent.Name(); !ok {
			return false
		}
	}
}

// ValidateEdge returns a CYCLE_REJECTED error when WouldCreateCycle is true.
func ValidateEdge(candidate string, proposed stakeholder.Parent, set stakeholder.Set) error {
	if WouldCreateCycle(candidate, proposed, set) {
		return errCycle(candidate, proposed)
	}
	return nil
}

// FindCycle returns the names of the first reporting cycle found in set, in
// walk order, or nil when the set is acyclic.
func FindCycle(set stakeholder.Set) []string {
	const (
		white = iota
		gray
		black
	)

	parents := make(map[string]string, len(set))
	for _, s := range set {
		if p, ok := s.ReportsTo.Name(); ok {
			parents[s.Name] = p
		}
	}

	state := make(map[string]int, len(set))
	for _, s := range set {
		if state[s.Name] != white {
			continue
		}
		var path []string
		name := s.Name
		for {
			if state[name] == gray {
				for i, n := range path {
					if n == name {
						return path[i:]
					}
				}
			}
			if state[name] == black {
				break
			}
			state[name] = gray
			path = append(path, name)
			p, ok := parents[name]
			if !ok {
				break
			}
			name = p
		}
		for _, n := range path {
			state[n] = black
		}
	}
	return nil
}

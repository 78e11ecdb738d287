package hierarchy

import (
	"strings"

	"github.com/matzehuels/influencemap/pkg/errors"
	"github.com/matzehuels/influencemap/pkg/stakeholder"
)

func errCycle(candidate string, proposed stakeholder.Parent) error {
	if proposed.Is(candidate) {
		return errors.New(errors.ErrCodeCycleRejected, "%s cannot report to itself", candidate)
	}
	return errors.New(errors.ErrCodeCycleRejected, "%s cannot report to %s: reporting chain leads back to %s",
		candidate, proposed, candidate)
}

func errNoRoot() error {
	return errors.New(errors.ErrCodeBuildFailure, "no stakeholder is top-level (every stakeholder reports to someone)")
}

func errDangling(name, manager string) error {
	return errors.New(errors.ErrCodeDanglingReference, "%s reports to unknown stakeholder %q", name, manager)
}

func errDuplicate(name string) error {
	return errors.Wrap(errors.ErrCodeBuildFailure,
		errors.New(errors.ErrCodeDuplicateName, "duplicate stakeholder name %q", name),
		"cannot build hierarchy")
}

func errUnreachable(cycle []string) error {
	return errors.New(errors.ErrCodeBuildFailure, "reporting cycle: %s", strings.Join(append(cycle, cycle[0]), " -> "))
}

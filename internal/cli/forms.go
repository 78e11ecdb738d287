package cli

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	pkgerrors "github.com/matzehuels/influencemap/pkg/errors"
	"github.com/matzehuels/influencemap/pkg/stakeholder"
)

// errCancelled is returned when the user aborts a prompt.
var errCancelled = errors.New("cancelled")

// stakeholderInput holds form values as strings, the way huh binds them.
type stakeholderInput struct {
	name         string
	role         string
	division     string
	reportsTo    string // "" for no manager
	relationship string
	weighting    string
}

func newStakeholderInput(x stakeholder.Stakeholder) *stakeholderInput {
	manager, _ := x.ReportsTo.Name()
	division := x.Division
	if division == "" {
		division = stakeholder.Divisions[len(stakeholder.Divisions)-1]
	}
	return &stakeholderInput{
		name:         x.Name,
		role:         x.Role,
		division:     division,
		reportsTo:    manager,
		relationship: strconv.Itoa(x.RelationshipScore),
		weighting:    strconv.Itoa(x.DecisionWeighting),
	}
}

// form builds the add/edit form. The name field is only shown for new
// stakeholders; existing ones are renamed separately.
func (in *stakeholderInput) form(set stakeholder.Set, isNew bool) *huh.Form {
	var fields []huh.Field
	if isNew {
		fields = append(fields, huh.NewInput().
			Title("Name").
			Value(&in.name).
			Validate(func(s string) error {
				if err := stakeholder.ValidateName(s); err != nil {
					return errors.New(pkgerrors.UserMessage(err))
				}
				if set.Has(s) {
					return fmt.Errorf("%s already exists", s)
				}
				return nil
			}))
	}
	fields = append(fields,
		huh.NewInput().
			Title("Role").
			Value(&in.role),
		huh.NewSelect[string]().
			Title("Division").
			Options(huh.NewOptions(divisionChoices(in.division)...)...).
			Value(&in.division),
		huh.NewSelect[string]().
			Title("Reports To").
			Options(managerOptions(set, in.name, in.reportsTo)...).
			Value(&in.reportsTo),
		huh.NewInput().
			Title("Relationship Score (0-10)").
			Value(&in.relationship).
			Validate(intValidator(pkgerrors.ValidateRelationshipScore)),
		huh.NewInput().
			Title("Decision Weighting (0-100)").
			Value(&in.weighting).
			Validate(intValidator(pkgerrors.ValidateDecisionWeighting)),
	)
	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(huh.ThemeCharm()).
		WithShowHelp(false)
}

// stakeholder converts the form values. Validation already ran in the form;
// the session checks everything again.
func (in *stakeholderInput) stakeholder() (stakeholder.Stakeholder, error) {
	rel, err := strconv.Atoi(strings.TrimSpace(in.relationship))
	if err != nil {
		return stakeholder.Stakeholder{}, pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "relationship score %q is not a number", in.relationship)
	}
	weight, err := strconv.Atoi(strings.TrimSpace(in.weighting))
	if err != nil {
		return stakeholder.Stakeholder{}, pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "decision weighting %q is not a number", in.weighting)
	}
	return stakeholder.Stakeholder{
		Name:              strings.TrimSpace(in.name),
		Role:              strings.TrimSpace(in.role),
		Division:          in.division,
		ReportsTo:         stakeholder.ReportsTo(in.reportsTo),
		RelationshipScore: rel,
		DecisionWeighting: weight,
	}, nil
}

// divisionChoices returns the picker values, keeping a custom current value.
func divisionChoices(current string) []string {
	choices := slices.Clone(stakeholder.Divisions)
	if current != "" && !slices.Contains(choices, current) {
		choices = append(choices, current)
	}
	return choices
}

// managerOptions lists "None" and every other stakeholder. A manager that
// no longer exists stays selectable so the form opens on the stored value.
func managerOptions(set stakeholder.Set, self, current string) []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption(stakeholder.NoneLabel, "")}
	for _, name := range set.Names() {
		if name != self {
			opts = append(opts, huh.NewOption(name, name))
		}
	}
	if current != "" && !set.Has(current) {
		opts = append(opts, huh.NewOption(current+" (missing)", current))
	}
	return opts
}

func intValidator(check func(int) error) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return errors.New("enter a whole number")
		}
		if err := check(n); err != nil {
			return errors.New(pkgerrors.UserMessage(err))
		}
		return nil
	}
}

// promptStakeholder runs the stakeholder form in the terminal.
func promptStakeholder(x stakeholder.Stakeholder, set stakeholder.Set, isNew bool) (stakeholder.Stakeholder, error) {
	in := newStakeholderInput(x)
	if err := runForm(in.form(set, isNew)); err != nil {
		return stakeholder.Stakeholder{}, err
	}
	return in.stakeholder()
}

// confirmForm builds a yes/no form.
func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(false)
}

// confirm asks a yes/no question in the terminal.
func confirm(title string) (bool, error) {
	var ok bool
	if err := runForm(confirmForm(title, &ok)); err != nil {
		return false, err
	}
	return ok, nil
}

func runForm(f *huh.Form) error {
	if err := f.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errCancelled
		}
		return err
	}
	return nil
}

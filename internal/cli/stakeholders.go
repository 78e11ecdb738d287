package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/influencemap/pkg/errors"
	pkgio "github.com/matzehuels/influencemap/pkg/io"
	"github.com/matzehuels/influencemap/pkg/session"
	"github.com/matzehuels/influencemap/pkg/stakeholder"
)

// stakeholderFlags holds the field flags shared by add and update.
type stakeholderFlags struct {
	name         string
	role         string
	division     string
	reportsTo    string
	relationship int
	weighting    int
}

func (f *stakeholderFlags) register(c *CLI, cmd *cobra.Command, withName bool) {
	if withName {
		cmd.Flags().StringVarP(&f.name, "name", "n", "", "stakeholder name (prompts for all fields when omitted)")
	}
	cmd.Flags().StringVarP(&f.role, "role", "r", "", "role or title")
	cmd.Flags().StringVarP(&f.division, "division", "d", "Other", "division")
	cmd.Flags().StringVar(&f.reportsTo, "reports-to", stakeholder.NoneLabel, `manager name, or "None"`)
	cmd.Flags().IntVar(&f.relationship, "relationship", stakeholder.DefaultRelationshipScore, "relationship score (0-10)")
	cmd.Flags().IntVar(&f.weighting, "weighting", stakeholder.DefaultDecisionWeighting, "decision weighting (0-100)")
	_ = cmd.RegisterFlagCompletionFunc("reports-to", c.completeManager)
}

// changed reports whether any field flag was given.
func (f *stakeholderFlags) changed(cmd *cobra.Command) bool {
	for _, name := range []string{"role", "division", "reports-to", "relationship", "weighting"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// apply copies the flags the user set onto x.
func (f *stakeholderFlags) apply(cmd *cobra.Command, x *stakeholder.Stakeholder) {
	set := func(name string) bool { return cmd.Flags().Changed(name) }
	if set("role") {
		x.Role = f.role
	}
	if set("division") {
		x.Division = f.division
	}
	if set("reports-to") {
		x.ReportsTo = stakeholder.ParseParent(f.reportsTo)
	}
	if set("relationship") {
		x.RelationshipScore = f.relationship
	}
	if set("weighting") {
		x.DecisionWeighting = f.weighting
	}
}

func (f *stakeholderFlags) stakeholder() stakeholder.Stakeholder {
	return stakeholder.Stakeholder{
		Name:              f.name,
		Role:              f.role,
		Division:          f.division,
		ReportsTo:         stakeholder.ParseParent(f.reportsTo),
		RelationshipScore: f.relationship,
		DecisionWeighting: f.weighting,
	}
}

// addCommand creates the add command.
func (c *CLI) addCommand() *cobra.Command {
	var flags stakeholderFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a stakeholder",
		Example: `  influencemap add --name CEO --role "Chief Executive" --division Executive
  influencemap add -n CFO -r "Finance Lead" -d Finance --reports-to CEO --relationship 3 --weighting 80`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(sess *session.Session) error {
				x := flags.stakeholder()
				if x.Name == "" {
					var err error
					if x, err = promptStakeholder(x, sess.Current(), true); err != nil {
						return err
					}
				}
				if err := sess.Add(cmd.Context(), x); err != nil {
					return err
				}
				printSuccess("Added %s", StyleHighlight.Render(x.Name))
				if sess.Current().Len() == 1 {
					printNextStep("Render the map", appName+" render")
				}
				return nil
			})
		},
	}
	flags.register(c, cmd, true)
	return cmd
}

// updateCommand creates the update command.
func (c *CLI) updateCommand() *cobra.Command {
	var flags stakeholderFlags
	cmd := &cobra.Command{
		Use:               "update NAME",
		Short:             "Change a stakeholder's fields",
		Long:              `Change a stakeholder's fields. Only the flags given are changed; without flags a form opens with the current values. Use rename to change the name.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeNames(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(sess *session.Session) error {
				x, err := sess.Node(args[0])
				if err != nil {
					return err
				}
				if flags.changed(cmd) {
					flags.apply(cmd, &x)
				} else if x, err = promptStakeholder(x, sess.Current(), false); err != nil {
					return err
				}
				if err := sess.Update(cmd.Context(), x); err != nil {
					return err
				}
				printSuccess("Updated %s", StyleHighlight.Render(x.Name))
				return nil
			})
		},
	}
	flags.register(c, cmd, false)
	return cmd
}

// renameCommand creates the rename command.
func (c *CLI) renameCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "rename OLD NEW",
		Short:             "Rename a stakeholder and repoint their direct reports",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: c.completeNames(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(sess *session.Session) error {
				reports := len(sess.Current().Reports(args[0]))
				if err := sess.Rename(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				printSuccess("Renamed %s %s %s", args[0], iconArrow, StyleHighlight.Render(args[1]))
				if reports > 0 {
					printDetail("%d direct reports now report to %s", reports, args[1])
				}
				return nil
			})
		},
	}
}

// resetCommand creates the reset command.
func (c *CLI) resetCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove every stakeholder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(sess *session.Session) error {
				n := sess.Current().Len()
				if n == 0 {
					printInfo("Map is already empty")
					return nil
				}
				if !yes {
					ok, err := confirm(fmt.Sprintf("Remove all %d stakeholders?", n))
					if err != nil {
						return err
					}
					if !ok {
						printInfo("Cancelled")
						return nil
					}
				}
				if err := sess.Reset(cmd.Context()); err != nil {
					return err
				}
				printSuccess("Removed %d stakeholders", n)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the map with stakeholders from a JSON or YAML file",
		Long: `Replace the map with stakeholders from a JSON or YAML file.

The file holds a list of records with the fields name, role, division,
reportsTo ("None" for top-level), relationshipScore (0-10) and
decisionWeighting (0-100). Nothing changes when the file cannot be parsed
or contains a reporting cycle. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := importFormat(format, args[0])
			if err != nil {
				return err
			}
			in := cmd.InOrStdin()
			if args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", args[0])
				}
				defer file.Close()
				in = file
			}
			return c.withSession(cmd.Context(), func(sess *session.Session) error {
				if err := sess.Import(cmd.Context(), in, f); err != nil {
					return err
				}
				printSuccess("Imported %d stakeholders", sess.Current().Len())
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "input format: json, yaml (default: from file extension)")
	return cmd
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var output, format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the map as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := importFormat(format, output)
			if err != nil {
				return err
			}
			return c.withSession(cmd.Context(), func(sess *session.Session) error {
				set := sess.Current()
				if output == "" {
					return pkgio.Write(set, cmd.OutOrStdout(), f)
				}
				out, err := os.Create(output)
				if err != nil {
					return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", output)
				}
				if err := pkgio.Write(set, out, f); err != nil {
					out.Close()
					return err
				}
				if err := out.Close(); err != nil {
					return err
				}
				printSuccess("Exported %d stakeholders", len(set))
				printFile(output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json, yaml (default: from file extension, else json)")
	return cmd
}

// importFormat resolves an explicit --format or falls back to the path's
// extension.
func importFormat(flag, path string) (pkgio.Format, error) {
	if flag != "" {
		return pkgio.ParseFormat(flag)
	}
	if path == "" || path == "-" {
		return pkgio.FormatJSON, nil
	}
	return pkgio.FormatFromPath(path), nil
}

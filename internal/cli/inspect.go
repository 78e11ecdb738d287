package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/influencemap/pkg/hierarchy"
	pkgio "github.com/matzehuels/influencemap/pkg/io"
	"github.com/matzehuels/influencemap/pkg/session"
	"github.com/matzehuels/influencemap/pkg/stakeholder"
)

// listCommand creates the list command.
func (c *CLI) listCommand() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stakeholders",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(sess *session.Session) error {
				printStakeholders(cmd.OutOrStdout(), sess.Current().Filter(filter))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "only show stakeholders whose name, role or division contains this text")
	return cmd
}

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize relationship scores, decision weights and divisions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(sess *session.Session) error {
				printStatsTable(cmd.OutOrStdout(), sess.Stats())
				return nil
			})
		},
	}
}

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check that a map builds into a single reporting tree",
		Long: `Check that a map builds into a single reporting tree: names are unique,
scores are in range, every manager exists and there are no reporting cycles.
Without a file the stored map is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				set, err := pkgio.Import(args[0])
				if err != nil {
					return err
				}
				return validateSet(set)
			}
			return c.withSession(cmd.Context(), func(sess *session.Session) error {
				return validateSet(sess.Current())
			})
		},
	}
}

func validateSet(set stakeholder.Set) error {
	if err := set.Validate(); err != nil {
		return err
	}
	root, err := hierarchy.Build(set)
	if err != nil {
		return err
	}
	if root == nil {
		printInfo("Map is empty")
		return nil
	}
	printSuccess("Valid map: %d stakeholders", len(set))
	printDetail("depth %d, %d top-level", root.Height(), len(set.TopLevel()))
	return nil
}

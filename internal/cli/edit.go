package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/influencemap/pkg/session"
)

// editCommand creates the edit command, the interactive editor.
func (c *CLI) editCommand() *cobra.Command {
	var group bool
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the map interactively",
		Long: `Open the interactive editor. Stakeholders can be added, edited, renamed
and removed; every change is saved immediately and can be undone with u and
redone with Ctrl+R while the editor is open.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withSession(ctx, func(sess *session.Session) error {
				m := NewEditorModel(ctx, sess)
				if group {
					m.Group = true
					m.refresh()
				}
				p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
				if _, err := p.Run(); err != nil {
					return err
				}
				printInfo("%d stakeholders in %s", sess.Current().Len(), sess.Key())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&group, "group-by-division", false, "start with stakeholders grouped by division")
	return cmd
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	pkgerrors "github.com/matzehuels/influencemap/pkg/errors"
	"github.com/matzehuels/influencemap/pkg/hierarchy"
	"github.com/matzehuels/influencemap/pkg/layout"
	"github.com/matzehuels/influencemap/pkg/render"
	"github.com/matzehuels/influencemap/pkg/session"
	"github.com/matzehuels/influencemap/pkg/stakeholder"
)

// Editor styles
var (
	editorDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	editorErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	editorFilterStyle = lipgloss.NewStyle().Foreground(colorYellow)
	editorPaneStyle   = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

type editorMode int

const (
	modeBrowse  editorMode = iota // table navigation
	modeFilter                    // typing a filter term
	modeForm                      // huh form is active
	modeConfirm                   // awaiting y/n for reset
)

// defaultTableHeight is the number of rows shown before a window size
// message arrives.
const defaultTableHeight = 12

// =============================================================================
// EditorModel - Interactive map editor
// =============================================================================

// EditorModel is the bubbletea model behind the edit command. Every change
// goes through the session, so it is validated, recorded for undo and saved.
type EditorModel struct {
	ctx  context.Context
	sess *session.Session

	Cursor int
	Offset int
	Height int
	Filter string
	Group  bool

	mode     editorMode
	form     *huh.Form
	formDone func(*EditorModel) error

	view    *session.View
	viewErr error

	status    string
	statusErr bool
	quitting  bool
}

// NewEditorModel creates an editor over sess.
func NewEditorModel(ctx context.Context, sess *session.Session) EditorModel {
	m := EditorModel{ctx: ctx, sess: sess, Height: defaultTableHeight}
	m.refresh()
	return m
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

// visible returns the stakeholders matching the filter.
func (m *EditorModel) visible() stakeholder.Set {
	return m.sess.Current().Filter(m.Filter)
}

// selected returns the stakeholder under the cursor.
func (m *EditorModel) selected() (stakeholder.Stakeholder, bool) {
	set := m.visible()
	if m.Cursor < 0 || m.Cursor >= len(set) {
		return stakeholder.Stakeholder{}, false
	}
	return set[m.Cursor], true
}

// refresh rebuilds the view and keeps the cursor inside the visible rows.
func (m *EditorModel) refresh() {
	m.view, m.viewErr = m.sess.View(layout.Options{GroupByDivision: m.Group})

	n := len(m.visible())
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	if m.Offset > 0 && m.Offset+m.Height > n {
		m.Offset = max(0, n-m.Height)
	}
}

// report records the outcome of an operation in the status line. A
// persistence failure still leaves the change in place, so it is shown as
// a warning rather than a rejection.
func (m *EditorModel) report(err error, format string, args ...any) {
	switch {
	case err == nil:
		m.status, m.statusErr = fmt.Sprintf(format, args...), false
	case pkgerrors.Is(err, pkgerrors.ErrCodePersistence):
		m.status, m.statusErr = fmt.Sprintf(format, args...)+" (not saved: "+pkgerrors.UserMessage(err)+")", true
	default:
		m.status, m.statusErr = pkgerrors.UserMessage(err), true
	}
	m.refresh()
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-18, 5)
		if m.form != nil {
			m.form = m.form.WithWidth(msg.Width)
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeFilter:
			return m.updateFilter(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	if m.mode == modeForm && m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m EditorModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
		m.refresh()
	case "down", "j":
		if m.Cursor < len(m.visible())-1 {
			m.Cursor++
		}
		m.refresh()
	case "/":
		m.mode = modeFilter
	case "esc":
		m.Filter = ""
		m.refresh()
	case "a":
		cmd := m.startEdit(stakeholder.Stakeholder{
			Division:          stakeholder.Divisions[len(stakeholder.Divisions)-1],
			RelationshipScore: stakeholder.DefaultRelationshipScore,
			DecisionWeighting: stakeholder.DefaultDecisionWeighting,
		}, true)
		return m, cmd
	case "e", "enter":
		if x, ok := m.selected(); ok {
			cmd := m.startEdit(x, false)
			return m, cmd
		}
	case "r":
		if x, ok := m.selected(); ok {
			cmd := m.startRename(x.Name)
			return m, cmd
		}
	case "u":
		ok, err := m.sess.Undo(m.ctx)
		m.report(err, "%s", stepStatus("Undid last change", "Nothing to undo", ok))
	case "ctrl+r":
		ok, err := m.sess.Redo(m.ctx)
		m.report(err, "%s", stepStatus("Redid change", "Nothing to redo", ok))
	case "x":
		if m.sess.Current().Len() > 0 {
			m.mode = modeConfirm
		}
	case "g":
		m.Group = !m.Group
		m.refresh()
	case "+", "=":
		m.zoom(zoomStep)
	case "-":
		m.zoom(1 / zoomStep)
	case "0":
		m.sess.Refit()
		m.refresh()
	}
	return m, nil
}

// zoomStep is the scale factor of one zoom key press.
const zoomStep = 1.25

// zoom scales the map around the middle of the viewport. The zoom survives
// cursor moves and is reset by a data change or the refit key.
func (m *EditorModel) zoom(factor float64) {
	if m.view == nil {
		return
	}
	doc := m.view.Document
	m.sess.Zoom(factor, doc.ViewWidth/2, doc.ViewHeight/2)
	m.refresh()
}

func stepStatus(moved, stuck string, ok bool) string {
	if ok {
		return moved
	}
	return stuck
}

func (m EditorModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.mode = modeBrowse
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.Filter = ""
	case tea.KeyBackspace:
		if r := []rune(m.Filter); len(r) > 0 {
			m.Filter = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.Filter += string(msg.Runes)
	}
	m.Cursor, m.Offset = 0, 0
	m.refresh()
	return m, nil
}

func (m EditorModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeBrowse
	switch strings.ToLower(msg.String()) {
	case "y":
		n := m.sess.Current().Len()
		m.report(m.sess.Reset(m.ctx), "Removed %d stakeholders", n)
	default:
		m.status, m.statusErr = "Cancelled", false
	}
	return m, nil
}

// =============================================================================
// Forms
// =============================================================================

// startForm switches to form mode. done runs once the form completes.
func (m *EditorModel) startForm(form *huh.Form, done func(*EditorModel) error) tea.Cmd {
	m.mode = modeForm
	m.form = form
	m.formDone = done
	return m.form.Init()
}

func (m *EditorModel) startEdit(x stakeholder.Stakeholder, isNew bool) tea.Cmd {
	in := newStakeholderInput(x)
	return m.startForm(in.form(m.sess.Current(), isNew), func(m *EditorModel) error {
		y, err := in.stakeholder()
		if err != nil {
			return err
		}
		if isNew {
			err = m.sess.Add(m.ctx, y)
			m.report(err, "Added %s", y.Name)
		} else {
			err = m.sess.Update(m.ctx, y)
			m.report(err, "Updated %s", y.Name)
		}
		return nil
	})
}

func (m *EditorModel) startRename(oldName string) tea.Cmd {
	newName := new(string)
	*newName = oldName
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Rename " + oldName).
			Value(newName).
			Validate(func(s string) error {
				if err := stakeholder.ValidateName(s); err != nil {
					return errors.New(pkgerrors.UserMessage(err))
				}
				return nil
			}),
	)).WithTheme(huh.ThemeCharm()).WithShowHelp(false)

	return m.startForm(form, func(m *EditorModel) error {
		to := strings.TrimSpace(*newName)
		m.report(m.sess.Rename(m.ctx, oldName, to), "Renamed %s %s %s", oldName, iconArrow, to)
		return nil
	})
}

func (m EditorModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.closeForm()
		m.status, m.statusErr = "Cancelled", false
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		done := m.formDone
		m.closeForm()
		if err := done(&m); err != nil {
			m.report(err, "")
		}
		return m, nil
	case huh.StateAborted:
		m.closeForm()
		m.status, m.statusErr = "Cancelled", false
		return m, nil
	}
	return m, cmd
}

func (m *EditorModel) closeForm() {
	m.mode = modeBrowse
	m.form = nil
	m.formDone = nil
}

// =============================================================================
// View
// =============================================================================

func (m EditorModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Influence Map"))
	b.WriteString("  ")
	b.WriteString(editorDimStyle.Render(m.sess.Key()))
	b.WriteString("\n")

	if m.mode == modeForm && m.form != nil {
		b.WriteString(editorDimStyle.Render("esc cancel"))
		b.WriteString("\n\n")
		b.WriteString(m.form.View())
		return b.String()
	}

	b.WriteString(editorDimStyle.Render("↑/↓ move  a add  e edit  r rename  u undo  ^r redo  x reset  / filter  g group  +/- zoom  0 fit  q quit"))
	b.WriteString("\n\n")

	switch {
	case m.mode == modeFilter:
		b.WriteString(editorFilterStyle.Render("/" + m.Filter + "█"))
		b.WriteString("\n")
	case m.Filter != "":
		b.WriteString(editorFilterStyle.Render("filter: " + m.Filter))
		b.WriteString("\n")
	}

	set := m.visible()
	if len(set) == 0 {
		if m.sess.Current().Len() == 0 {
			b.WriteString(editorDimStyle.Render("No stakeholders yet. Press a to add one."))
		} else {
			b.WriteString(editorDimStyle.Render("No stakeholders match the filter."))
		}
		b.WriteString("\n")
	} else {
		end := min(m.Offset+m.Height, len(set))
		table := stakeholderTable(set[m.Offset:end], m.Cursor-m.Offset)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, table, " ", m.outline()))
		b.WriteString("\n")
		b.WriteString(editorDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(set))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(editorDimStyle.Render(statsSummary(m.sess.Stats())))
	b.WriteString("\n")

	if m.mode == modeConfirm {
		b.WriteString(StyleWarning.Render(fmt.Sprintf("Remove all %d stakeholders? (y/n)", m.sess.Current().Len())))
		b.WriteString("\n")
	} else if m.status != "" {
		if m.statusErr {
			b.WriteString(editorErrorStyle.Render(iconError + " " + m.status))
		} else {
			b.WriteString(StyleSuccess.Render(iconSuccess + " " + m.status))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// outline renders the reporting tree, or the division columns in group
// mode, next to the table.
func (m EditorModel) outline() string {
	var lines []string
	if m.viewErr != nil {
		lines = append(lines, editorErrorStyle.Render(pkgerrors.UserMessage(m.viewErr)))
		if m.view != nil {
			lines = append(lines, editorDimStyle.Render("showing last valid map"))
		}
	}
	if m.view == nil {
		if len(lines) == 0 {
			return ""
		}
		return editorPaneStyle.Render(strings.Join(lines, "\n"))
	}

	if m.Group {
		lines = append(lines, divisionOutline(m.view.Document)...)
	} else {
		lines = append(lines, treeOutline(m.view.Root)...)
	}
	t := m.view.Transform()
	lines = append(lines, "", editorDimStyle.Render(fmt.Sprintf("zoom %.2f", t.K)))
	return editorPaneStyle.Render(strings.Join(lines, "\n"))
}

// treeOutline lists the visible nodes indented by depth.
func treeOutline(root *hierarchy.Node) []string {
	var lines []string
	var walk func(n *hierarchy.Node, depth int)
	walk = func(n *hierarchy.Node, depth int) {
		next := depth
		if !n.Virtual {
			prefix := strings.Repeat("  ", depth)
			if depth > 0 {
				prefix = strings.Repeat("  ", depth-1) + "└ "
			}
			lines = append(lines, prefix+render.Truncate(n.Stakeholder.Name))
			next++
		}
		for _, c := range n.Children {
			walk(c, next)
		}
	}
	if root != nil {
		walk(root, 0)
	}
	return lines
}

// divisionOutline lists nodes under their division headings, in column
// order.
func divisionOutline(doc layout.Document) []string {
	var lines []string
	for _, d := range doc.Divisions {
		lines = append(lines, styleHeader.Render(d.Name))
		for _, n := range doc.Nodes {
			if n.Division == d.Name {
				lines = append(lines, "  "+render.Truncate(n.Name))
			}
		}
	}
	return lines
}

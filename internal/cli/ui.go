package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/influencemap/pkg/color"
	"github.com/matzehuels/influencemap/pkg/render"
	"github.com/matzehuels/influencemap/pkg/stakeholder"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)

	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleBorder = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// =============================================================================
// File Output
// =============================================================================

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints render statistics on a single line.
func printStats(nodeCount, edgeCount int, cached bool) {
	var parts []string
	if nodeCount > 0 {
		parts = append(parts, fmt.Sprintf("%d stakeholders", nodeCount))
	}
	if edgeCount > 0 {
		parts = append(parts, fmt.Sprintf("%d links", edgeCount))
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}
	parts = append(parts, statusStyle.Render(status))

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line)
}

// =============================================================================
// Tables
// =============================================================================

// swatch renders a colored block for a node fill.
func swatch(fill string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fill)).Render("■")
}

// stakeholderTable renders set as a bordered table with a color swatch per
// row. Long cells are truncated like the map labels. The row at index
// selected is highlighted; pass -1 for none.
func stakeholderTable(set stakeholder.Set, selected int) string {
	rows := make([][]string, 0, len(set))
	for _, x := range set {
		c := color.Classify(x.RelationshipScore, x.DecisionWeighting)
		rows = append(rows, []string{
			swatch(c.Hex()),
			render.Truncate(x.Name),
			render.Truncate(x.Role),
			render.Truncate(x.Division),
			render.Truncate(x.ReportsTo.String()),
			strconv.Itoa(x.RelationshipScore) + "/10",
			strconv.Itoa(x.DecisionWeighting) + "%",
			c.Category.String(),
		})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("", "Name", "Role", "Division", "Reports To", "Rel", "Weight", "Category").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if row == selected {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col == 1 {
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		}).
		Render()
}

// printStakeholders writes the stakeholder table to w.
func printStakeholders(w io.Writer, set stakeholder.Set) {
	if len(set) == 0 {
		fmt.Fprintln(w, StyleDim.Render("No stakeholders"))
		return
	}
	fmt.Fprintln(w, stakeholderTable(set, -1))
}

// statsSummary renders the one-line summary used by the editor footer.
func statsSummary(st stakeholder.Stats) string {
	return fmt.Sprintf("%d stakeholders · avg relationship %.1f/10 · avg weight %.0f%% · %d critical",
		st.Total, st.AverageRelationship, st.AverageDecisionWeighting, st.Critical)
}

// printStatsTable writes totals and the division breakdown to w.
func printStatsTable(w io.Writer, st stakeholder.Stats) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(24)
	line := func(k, v string) {
		fmt.Fprintln(w, keyStyle.Render(k)+" "+StyleValue.Render(v))
	}
	line("Stakeholders", strconv.Itoa(st.Total))
	line("Avg relationship score", fmt.Sprintf("%.1f/10", st.AverageRelationship))
	line("Avg decision weighting", fmt.Sprintf("%.0f%%", st.AverageDecisionWeighting))
	line("Critical", strconv.Itoa(st.Critical))

	if len(st.Divisions) == 0 {
		return
	}
	rows := make([][]string, len(st.Divisions))
	for i, d := range st.Divisions {
		rows[i] = []string{d.Division, strconv.Itoa(d.Count)}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("Division", "Count").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render())
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/pomrewrite/pkg/batch"
	"github.com/matzehuels/pomrewrite/pkg/transform"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
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

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

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
	iconSkipped = "-"
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

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printWarnings prints transformer warnings, one per line.
func printWarnings(ws []transform.Warning) {
	for _, w := range ws {
		printWarning("%s", w)
	}
}

// =============================================================================
// Stats Display
// =============================================================================

// changeParts renders the non-zero counters of c.
func changeParts(c transform.Changes) []string {
	var parts []string
	if c.Rewritten > 0 {
		parts = append(parts, fmt.Sprintf("%d rewritten", c.Rewritten))
	}
	if c.Dropped > 0 {
		parts = append(parts, fmt.Sprintf("%d dropped", c.Dropped))
	}
	if c.Filled > 0 {
		parts = append(parts, fmt.Sprintf("%d filled", c.Filled))
	}
	if c.ModulesRemoved > 0 {
		parts = append(parts, fmt.Sprintf("%d modules removed", c.ModulesRemoved))
	}
	if len(parts) == 0 {
		parts = append(parts, "unchanged")
	}
	return parts
}

// printChanges prints transformation counters on a single line.
func printChanges(c transform.Changes) {
	printDimParts(changeParts(c))
}

// printIndexStats prints repository index statistics on a single line.
func printIndexStats(artifacts int, cached bool) {
	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}
	printDimParts([]string{fmt.Sprintf("%d artifacts", artifacts), statusStyle.Render(status)})
}

func printDimParts(parts []string) {
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
// Batch Summary
// =============================================================================

// batchTable renders one row per manifest entry.
func batchTable(res *batch.Result) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(res.Entries))
	for _, e := range res.Entries {
		status := styleIconSuccess.Render(iconSuccess)
		var detail string
		switch {
		case e.Skipped:
			status = StyleDim.Render(iconSkipped)
			detail = "ignored"
		case e.Err != nil:
			status = styleIconError.Render(iconError)
			detail = e.Err.Error()
		default:
			detail = strings.Join(changeParts(e.Changes), ", ")
		}
		rows = append(rows, []string{status, e.Entry.Path, strconv.Itoa(len(e.Warnings)), detail})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "POM", "Warnings", "Result").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 2 && row < len(res.Entries) && len(res.Entries[row].Warnings) > 0 {
				return StyleWarning
			}
			return lipgloss.NewStyle()
		})
}

// printBatchSummary writes the batch table and a totals line to w.
func printBatchSummary(w io.Writer, res *batch.Result) {
	fmt.Fprintln(w, batchTable(res).Render())
	skipped := len(res.Entries) - len(res.Succeeded()) - len(res.Failed())
	fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("%d transformed · %d failed · %d skipped · %d warnings",
		len(res.Succeeded()), len(res.Failed()), skipped, res.Warnings())))
}

// =============================================================================
// Utilities
// =============================================================================

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}

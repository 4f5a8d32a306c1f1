package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/benchgraph/pkg/circuit"
	"github.com/matzehuels/benchgraph/pkg/pipeline"
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
// Styles
// =============================================================================

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	StyleError   = lipgloss.NewStyle().Foreground(colorRed)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented dim line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints record statistics on a single line.
func printStats(w io.Writer, st circuit.Stats, cached bool) {
	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}
	sep := StyleDim.Render(" · ")
	fmt.Fprintln(w, "  "+
		StyleDim.Render(fmt.Sprintf("%d nodes", st.Nodes))+sep+
		StyleDim.Render(fmt.Sprintf("%d edges", st.Edges))+sep+
		StyleDim.Render(fmt.Sprintf("depth %d", st.LongestPath))+sep+
		statusStyle.Render(status))
}

// statsRow is one line of the stats table.
type statsRow struct {
	name   string
	stats  circuit.Stats
	cached bool
}

// statsTable renders per-file statistics as a bordered table.
func statsTable(rows []statsRow) string {
	data := make([][]string, len(rows))
	for i, r := range rows {
		st := r.stats
		data[i] = []string{
			r.name,
			strconv.Itoa(st.Nodes),
			strconv.Itoa(st.Edges),
			strconv.Itoa(st.PrimaryInputs),
			strconv.Itoa(st.PrimaryOutputs),
			strconv.Itoa(st.Internal),
			strconv.Itoa(st.InvertedEdges),
			strconv.Itoa(st.LongestPath),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("File", "Nodes", "Edges", "PI", "PO", "AND", "NOT", "Depth").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader.Padding(0, 1)
			case col == 0 && rows[row].cached:
				return styleCached.Padding(0, 1)
			case col == 0:
				return StyleValue.Padding(0, 1)
			}
			return StyleNumber.Padding(0, 1).Align(lipgloss.Right)
		})
	return t.Render()
}

// printBatchSummary prints the outcome of a batch run.
func printBatchSummary(w io.Writer, r *pipeline.Report) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleTitle.Render("Batch summary"))
	printKeyValue(w, "Run", r.RunID)
	printKeyValue(w, "Total", strconv.Itoa(r.Total))
	printKeyValue(w, "Success", StyleSuccess.Render(strconv.Itoa(r.Success)))
	if r.Cached > 0 {
		printKeyValue(w, "Cached", strconv.Itoa(r.Cached))
	}
	if r.Failed > 0 {
		printKeyValue(w, "Failed", StyleError.Render(strconv.Itoa(r.Failed)))
	}
	if r.Skipped > 0 {
		printKeyValue(w, "Skipped", StyleWarning.Render(strconv.Itoa(r.Skipped)))
	}
	printKeyValue(w, "Duration", r.Duration.Round(time.Millisecond).String())

	for _, f := range r.Failures {
		printError(w, "%s", f.Name)
		printDetail(w, "%s", f.Message)
	}
}

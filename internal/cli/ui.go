package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/codescape/pkg/pipeline"
)

var (
	colorCyan  = lipgloss.Color("36")  // Teal - primary actions
	colorGreen = lipgloss.Color("35")  // Green - success
	colorAmber = lipgloss.Color("220") // Amber - warnings
	colorRed   = lipgloss.Color("167") // Soft red - errors, cycles
	colorWhite = lipgloss.Color("255") // Bright white - values
	colorGray  = lipgloss.Color("245") // Gray - secondary text
	colorDim   = lipgloss.Color("240") // Dim gray - muted text
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	styleWarning = lipgloss.NewStyle().Foreground(colorAmber)
	styleCycle   = lipgloss.NewStyle().Foreground(colorRed)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleHeader      = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
	iconArrow   = "→"
	iconPending = "·"
)

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}


func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+styleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output file.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

// printSummary prints the statistics of a finished run as a table.
func printSummary(w io.Writer, res *pipeline.Result) {
	s := res.Stats
	source := res.Source
	if source == "" {
		source = "none"
	}
	rows := [][]string{
		{"Files", strconv.Itoa(s.Files)},
		{"Artifacts", strconv.Itoa(s.Artifacts)},
		{"References", fmt.Sprintf("%d resolved, %d unlocated", s.Resolved, s.Unlocated)},
		{"Dependencies", fmt.Sprintf("%d (%d implied)", s.Edges, s.Inessential)},
		{"Cycles", strconv.Itoa(s.Cycles)},
		{"Symbol source", source},
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", res.Tree.Root().Name).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col == 0:
				return styleDim
			case rows[row][0] == "Cycles" && s.Cycles > 0:
				return styleCycle
			}
			return styleNumber
		})
	fmt.Fprintln(w, t.Render())
	printDurations(w, s.Durations)
}

// printDurations prints the time spent per step on one dim line.
func printDurations(w io.Writer, d map[pipeline.Step]time.Duration) {
	line := ""
	for _, step := range pipeline.Steps {
		took, ok := d[step]
		if !ok {
			continue
		}
		if line != "" {
			line += " · "
		}
		line += fmt.Sprintf("%s %s", step, took.Round(time.Millisecond))
	}
	if line != "" {
		printDetail(w, "%s", line)
	}
}

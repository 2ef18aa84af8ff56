package main

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rxtech-lab/argo-replay/internal/backtest/engine"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for secondary text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

var summaryHeaders = []string{"Run", "Bars", "Trades", "SL", "BE", "TSL", "Win rate", "Avg R", "Median R", "Sum R", "G"}

// RenderSummary formats the per run statistics as a table, sorted by run key,
// followed by any failed runs.
func RenderSummary(results engine.Results) string {
	keys := make([]string, 0, len(results.Summaries))
	for k := range results.Summaries {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(summaryHeaders...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TitleStyle.Padding(0, 1)
			}

			return lipgloss.NewStyle().Padding(0, 1)
		})

	for _, k := range keys {
		s := results.Summaries[k]
		t.Row(
			k,
			strconv.Itoa(s.Bars),
			strconv.Itoa(s.Trades),
			strconv.Itoa(s.Exits.SL),
			strconv.Itoa(s.Exits.BE),
			strconv.Itoa(s.Exits.TSL),
			fmt.Sprintf("%.2f%%", s.WinRate*100),
			fmt.Sprintf("%.3f", s.AvgR),
			fmt.Sprintf("%.3f", s.MedianR),
			fmt.Sprintf("%.3f", s.SumR),
			fmt.Sprintf("%.2f", s.G),
		)
	}

	out := t.Render() + "\n" + HelpStyle.Render(fmt.Sprintf("run %s, artifacts in %s", results.RunID, results.OutputDir))

	failed := make([]string, 0, len(results.Failed))
	for k := range results.Failed {
		failed = append(failed, k)
	}

	slices.Sort(failed)

	for _, k := range failed {
		out += "\n" + ErrorStyle.Render(fmt.Sprintf("%s failed: %v", k, results.Failed[k]))
	}

	return out
}

package types

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ExitCounts is the exit-reason histogram of a run.
type ExitCounts struct {
	SL  int `yaml:"SL" json:"SL"`
	BE  int `yaml:"BE" json:"BE"`
	TSL int `yaml:"TSL" json:"TSL"`
}

// Total returns the number of exits counted.
func (e ExitCounts) Total() int {
	return e.SL + e.BE + e.TSL
}

// Summary aggregates the closed trades of one symbol run.
type Summary struct {
	// RunID identifies the run that produced this summary.
	RunID  string `yaml:"run_id,omitempty" json:"run_id,omitempty"`
	Symbol string `yaml:"symbol,omitempty" json:"symbol,omitempty"`
	Bars   int    `yaml:"bars" json:"bars"`

	Trades int        `yaml:"trades" json:"trades"`
	Exits  ExitCounts `yaml:"exits" json:"exits"`
	// WinRate is the fraction of exits tagged BE or TSL.
	WinRate float64 `yaml:"win_rate" json:"win_rate"`
	AvgR    float64 `yaml:"avg_R" json:"avg_R"`
	MedianR float64 `yaml:"median_R" json:"median_R"`
	SumR    float64 `yaml:"sum_R" json:"sum_R"`
	// G is (BE+TSL) / max(1, SL).
	G float64 `yaml:"G" json:"G"`
	// SumPnL is the total quote-currency P&L of all trades.
	SumPnL float64 `yaml:"sum_pnl" json:"sum_pnl"`
}

// ComputeSummary builds the summary statistics for a list of closed trades.
func ComputeSummary(trades []Trade) Summary {
	summary := Summary{Trades: len(trades)}

	rs := make([]float64, 0, len(trades))
	sumPnL := decimal.Zero
	sumR := 0.0

	for i := range trades {
		switch trades[i].ExitReason {
		case ExitReasonBreakeven:
			summary.Exits.BE++
		case ExitReasonTrailingStop:
			summary.Exits.TSL++
		default:
			summary.Exits.SL++
		}

		rs = append(rs, trades[i].R)
		sumR += trades[i].R
		sumPnL = sumPnL.Add(trades[i].PnL())
	}

	wins := float64(summary.Exits.BE + summary.Exits.TSL)
	summary.WinRate = wins / float64(max(1, summary.Exits.Total()))
	summary.G = wins / float64(max(1, summary.Exits.SL))
	summary.SumPnL, _ = sumPnL.Float64()

	if len(rs) == 0 {
		return summary
	}

	summary.SumR = sumR
	summary.AvgR = sumR / float64(len(rs))
	summary.MedianR = median(rs)

	return summary
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}

	return (sorted[mid-1] + sorted[mid]) / 2
}

// WriteSummaries writes the run summaries keyed by symbol (or symbol/fold)
// as summary.json and summary.yaml into dir.
func WriteSummaries(dir string, summaries map[string]Summary) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create summary directory: %w", err)
	}

	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary to JSON: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "summary.json"), data, 0644); err != nil {
		return fmt.Errorf("failed to write summary JSON: %w", err)
	}

	data, err = yaml.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("failed to marshal summary to YAML: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "summary.yaml"), data, 0644); err != nil {
		return fmt.Errorf("failed to write summary YAML: %w", err)
	}

	return nil
}

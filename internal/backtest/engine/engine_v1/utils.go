package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-replay/internal/backtest/walkforward"
	"github.com/rxtech-lab/argo-replay/pkg/errors"
)

// fold is one evaluation range. Modes other than walkforward run a single
// fold with no window.
type fold struct {
	index  int
	window optional.Option[walkforward.Window]
	start  optional.Option[time.Time]
	end    optional.Option[time.Time]
}

func (f fold) isWalkForward() bool {
	return f.window.IsSome()
}

// getResultFolder returns <outputs>/backtest, or <outputs>/backtest/fold_N
// for walk-forward folds.
func getResultFolder(outputsDir string, f fold) string {
	base := filepath.Join(outputsDir, "backtest")
	if !f.isWalkForward() {
		return base
	}

	return filepath.Join(base, fmt.Sprintf("fold_%d", f.index))
}

// runKey names a run in the summary: SYMBOL or SYMBOL/fold_N.
func runKey(symbol string, f fold) string {
	if !f.isWalkForward() {
		return symbol
	}

	return fmt.Sprintf("%s/fold_%d", symbol, f.index)
}

func tradesCSVPath(dir, symbol string) string {
	return filepath.Join(dir, symbol+"_trades.csv")
}

func tradesParquetPath(dir, symbol string) string {
	return filepath.Join(dir, symbol+"_trades.parquet")
}

func timelinePath(dir, symbol string) string {
	return filepath.Join(dir, symbol+"_timeline.csv")
}

func partialPath(path string) string {
	return path + ".partial"
}

// isInterrupted reports whether err comes from a cancelled or expired context.
func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func logFilePath(outputsDir string) string {
	return filepath.Join(outputsDir, "logs", "backtest.log")
}

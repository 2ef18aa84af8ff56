package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/rxtech-lab/argo-replay/internal/backtest/engine"
	"github.com/rxtech-lab/argo-replay/internal/backtest/walkforward"
	"github.com/rxtech-lab/argo-replay/internal/types"
	"github.com/schollz/progressbar/v3"
)

const (
	progressOff    = "off"
	progressFold   = "fold"
	progressSymbol = "symbol"
	progressBar    = "bar"
)

// progressReporter turns engine lifecycle callbacks into a progress bar.
type progressReporter struct {
	mode string
	out  io.Writer

	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

func newProgressReporter(mode string, out io.Writer) *progressReporter {
	return &progressReporter{
		mode: mode,
		out:  out,
	}
}

func (p *progressReporter) newBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *progressReporter) add(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		_ = p.bar.Add(n)
	}
}

// Callbacks returns the callbacks for the configured mode. Off still reports
// the run boundaries.
func (p *progressReporter) Callbacks() engine.LifecycleCallbacks {
	onStart := engine.OnBacktestStartCallback(func(runID string, totalSymbols int, totalFolds int) error {
		fmt.Fprintf(p.out, "%s %s (%d symbols, %d folds)\n", TitleStyle.Render("Backtest"), runID, totalSymbols, totalFolds)

		switch p.mode {
		case progressFold:
			p.bar = p.newBar(totalFolds, "folds")
		case progressSymbol:
			p.bar = p.newBar(totalSymbols*totalFolds, "runs")
		case progressBar:
			p.bar = p.newBar(-1, "bars")
		}

		return nil
	})

	onEnd := engine.OnBacktestEndCallback(func(err error) {
		p.mu.Lock()
		defer p.mu.Unlock()

		if p.bar != nil {
			_ = p.bar.Finish()
		}

		if err != nil {
			fmt.Fprintln(p.out, ErrorStyle.Render(fmt.Sprintf("Backtest failed: %v", err)))
		}
	})

	callbacks := engine.LifecycleCallbacks{
		OnBacktestStart: &onStart,
		OnBacktestEnd:   &onEnd,
	}

	switch p.mode {
	case progressFold:
		onFoldEnd := engine.OnFoldEndCallback(func(foldIndex int) { p.add(1) })
		onFoldStart := engine.OnFoldStartCallback(func(foldIndex int, window walkforward.Window, totalFolds int) error {
			p.mu.Lock()
			defer p.mu.Unlock()

			if p.bar != nil {
				p.bar.Describe(fmt.Sprintf("fold %d/%d", foldIndex+1, totalFolds))
			}

			return nil
		})
		callbacks.OnFoldStart = &onFoldStart
		callbacks.OnFoldEnd = &onFoldEnd
	case progressSymbol:
		onRunEnd := engine.OnRunEndCallback(func(key string, symbol string, summary types.Summary, resultFolderPath string) {
			p.add(1)
		})
		callbacks.OnRunEnd = &onRunEnd
	case progressBar:
		onProcessData := engine.OnProcessDataCallback(func(key string, current int) error {
			p.add(1)

			return nil
		})
		callbacks.OnProcessData = &onProcessData
	}

	return callbacks
}

package writers

import (
	"encoding/csv"
	"os"

	"github.com/rxtech-lab/argo-replay/internal/types"
	"github.com/rxtech-lab/argo-replay/pkg/errors"
)

// TimelineColumns is the header of the timeline CSV.
var TimelineColumns = []string{
	"timestamp", "open", "high", "low", "close", "atr",
	"regime", "signal", "position", "sl", "tp",
}

// TimelineWriter streams one row per simulated bar to a CSV file.
type TimelineWriter struct {
	path   string
	file   *os.File
	csv    *csv.Writer
	closed bool
}

// NewTimelineWriter creates path and writes the header.
func NewTimelineWriter(path string) (*TimelineWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeBacktestWriteFailed, err, "failed to create %s", path)
	}

	w := &TimelineWriter{
		path: path,
		file: f,
		csv:  csv.NewWriter(f),
	}

	if err := w.csv.Write(TimelineColumns); err != nil {
		f.Close()

		return nil, errors.Wrapf(errors.ErrCodeBacktestWriteFailed, err, "failed to write %s", path)
	}

	return w, nil
}

// TimelineRecord renders a row in TimelineColumns order.
func TimelineRecord(row types.TimelineRow) []string {
	return []string{
		FormatTime(row.Time),
		FormatFloat(row.Open),
		FormatFloat(row.High),
		FormatFloat(row.Low),
		FormatFloat(row.Close),
		FormatOptional(row.ATR),
		string(row.Regime),
		string(row.Signal),
		string(row.Position),
		FormatOptional(row.StopLoss),
		FormatOptional(row.TakeProfit),
	}
}

// Write appends a row.
func (w *TimelineWriter) Write(row types.TimelineRow) error {
	if err := w.csv.Write(TimelineRecord(row)); err != nil {
		return errors.Wrapf(errors.ErrCodeBacktestWriteFailed, err, "failed to write %s", w.path)
	}

	return nil
}

// Close flushes buffered rows and closes the file. Later calls are no-ops.
func (w *TimelineWriter) Close() error {
	if w.closed {
		return nil
	}

	w.closed = true
	w.csv.Flush()

	if err := w.csv.Error(); err != nil {
		w.file.Close()

		return errors.Wrapf(errors.ErrCodeBacktestWriteFailed, err, "failed to flush %s", w.path)
	}

	return w.file.Close()
}

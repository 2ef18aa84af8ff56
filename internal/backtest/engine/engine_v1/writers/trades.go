package writers

import (
	"encoding/csv"
	"os"

	"github.com/rxtech-lab/argo-replay/internal/types"
	"github.com/rxtech-lab/argo-replay/pkg/errors"
)

// TradeColumns is the header of the trades CSV.
var TradeColumns = []string{
	"symbol", "entry_ts", "entry_price", "side", "sl", "tp",
	"exit_ts", "exit_price", "exit_reason", "R", "size", "pnl",
}

// TradeRecord renders a closed trade in TradeColumns order.
func TradeRecord(t types.Trade) []string {
	return []string{
		t.Symbol,
		FormatTime(t.EntryTime),
		FormatFloat(t.EntryPrice),
		string(t.Side),
		FormatFloat(t.StopLoss),
		FormatFloat(t.TakeProfit),
		FormatTime(t.ExitTime),
		FormatFloat(t.ExitPrice),
		string(t.ExitReason),
		FormatFloat(t.R),
		FormatFloat(t.Size),
		t.PnL().String(),
	}
}

// WriteTradesCSV writes the trades with a header row to path.
func WriteTradesCSV(path string, trades []types.Trade) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeBacktestWriteFailed, err, "failed to create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write(TradeColumns); err != nil {
		return errors.Wrapf(errors.ErrCodeBacktestWriteFailed, err, "failed to write %s", path)
	}

	for _, t := range trades {
		if err := w.Write(TradeRecord(t)); err != nil {
			return errors.Wrapf(errors.ErrCodeBacktestWriteFailed, err, "failed to write %s", path)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return errors.Wrapf(errors.ErrCodeBacktestWriteFailed, err, "failed to flush %s", path)
	}

	return f.Close()
}

package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// PositionType is the side of a position.
type PositionType string

const (
	PositionTypeLong  PositionType = "LONG"
	PositionTypeShort PositionType = "SHORT"
	// PositionTypeFlat is only used in timeline rows when no trade is open.
	PositionTypeFlat PositionType = "FLAT"
)

// ExitReason tags how a trade was closed.
type ExitReason string

const (
	// ExitReasonStopLoss is a stop hit before the trailing stop was active.
	ExitReasonStopLoss ExitReason = "SL"
	// ExitReasonBreakeven is only produced by the end-of-data force close.
	ExitReasonBreakeven ExitReason = "BE"
	// ExitReasonTrailingStop is a stop hit while trailing was active, and also
	// every take-profit hit: the target is treated as the terminal case of
	// the trailing exit even if trailing never activated.
	ExitReasonTrailingStop ExitReason = "TSL"
)

// Trade is a single position from entry to exit. It is mutated bar by bar
// while open and immutable once emitted.
type Trade struct {
	Symbol     string       `json:"symbol"`
	Side       PositionType `json:"side"`
	EntryTime  time.Time    `json:"entry_ts"`
	EntryPrice float64      `json:"entry_price"`
	StopLoss   float64      `json:"sl"`
	TakeProfit float64      `json:"tp"`
	Size       float64      `json:"size"`

	BreakevenMoved bool `json:"be_moved"`
	TrailingActive bool `json:"tsl_active"`

	ExitTime   time.Time  `json:"exit_ts"`
	ExitPrice  float64    `json:"exit_price"`
	ExitReason ExitReason `json:"exit_reason"`
	// R is the P&L normalized by the stop distance at exit.
	R float64 `json:"R"`
}

// IsClosed reports whether an exit has been recorded.
func (t *Trade) IsClosed() bool {
	return t.ExitReason != ""
}

// PnL returns the signed price move times size in quote currency.
// For example a LONG of 0.5 units from 100 to 110 returns 5.
func (t *Trade) PnL() decimal.Decimal {
	if !t.IsClosed() {
		return decimal.Zero
	}

	move := decimal.NewFromFloat(t.ExitPrice).Sub(decimal.NewFromFloat(t.EntryPrice))
	if t.Side == PositionTypeShort {
		move = move.Neg()
	}

	return move.Mul(decimal.NewFromFloat(t.Size))
}

// Close records the exit on the trade.
func (t *Trade) Close(at time.Time, price float64, reason ExitReason, r float64) {
	t.ExitTime = at
	t.ExitPrice = price
	t.ExitReason = reason
	t.R = r
}

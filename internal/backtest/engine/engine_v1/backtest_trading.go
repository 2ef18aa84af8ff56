package engine

import (
	"math"
	"time"

	"github.com/rxtech-lab/argo-replay/internal/trading"
	"github.com/rxtech-lab/argo-replay/internal/types"
	"github.com/rxtech-lab/argo-replay/pkg/errors"
)

// BacktestTrading is the default trade manager used by the simulation.
//
// A trade moves through OPEN, breakeven-moved and trailing states before it
// is closed. Trailing is only evaluated once breakeven has moved, so a trade
// can never start trailing directly from OPEN.
type BacktestTrading struct {
	symbol string
	params trading.ExitParams
	active *types.Trade
}

// NewBacktestTrading creates a trade manager for one symbol run.
func NewBacktestTrading(symbol string, params trading.ExitParams) *BacktestTrading {
	return &BacktestTrading{
		symbol: symbol,
		params: params,
		active: nil,
	}
}

// Active implements trading.TradeManager.
func (b *BacktestTrading) Active() *types.Trade {
	return b.active
}

// Open implements trading.TradeManager.
func (b *BacktestTrading) Open(ts time.Time, side types.PositionType, price, atr, size float64) (*types.Trade, error) {
	if b.active != nil {
		return nil, errors.Newf(errors.ErrCodeTradeAlreadyOpen, "a %s trade opened at %s is still open",
			b.active.Side, b.active.EntryTime.Format(types.TimestampLayout))
	}

	if side != types.PositionTypeLong && side != types.PositionTypeShort {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "cannot open a trade with side %q", side)
	}

	slDist := b.params.SLMult * atr
	tpDist := b.params.TPMult * atr

	trade := &types.Trade{
		Symbol:     b.symbol,
		Side:       side,
		EntryTime:  ts,
		EntryPrice: price,
		StopLoss:   price - slDist,
		TakeProfit: price + tpDist,
		Size:       size,
	}

	if side == types.PositionTypeShort {
		trade.StopLoss = price + slDist
		trade.TakeProfit = price - tpDist
	}

	b.active = trade

	return trade, nil
}

// OnBar implements trading.TradeManager.
// Exits are checked against the levels as they stood before this bar. When no
// exit fires the trailing step runs before the breakeven check.
func (b *BacktestTrading) OnBar(ts time.Time, high, low, close, atr float64) *types.Trade {
	t := b.active
	if t == nil {
		return nil
	}

	if price, reason, hit := b.exitHit(t, high, low); hit {
		t.Close(ts, price, reason, b.rMultiple(t, price, atr))
		b.active = nil

		return t
	}

	if t.BreakevenMoved {
		b.trail(t, close, atr)
	}

	if !t.BreakevenMoved && progress(t, close) >= b.params.BreakevenProgress {
		t.BreakevenMoved = true
		t.StopLoss = t.EntryPrice
	}

	return nil
}

// ForceClose implements trading.TradeManager.
func (b *BacktestTrading) ForceClose(ts time.Time, price float64) *types.Trade {
	t := b.active
	if t == nil {
		return nil
	}

	t.Close(ts, price, types.ExitReasonBreakeven, 0)
	b.active = nil

	return t
}

// exitHit checks the stop first, then the target. A stop hit while trailing
// is reported as TSL and a target hit always is.
func (b *BacktestTrading) exitHit(t *types.Trade, high, low float64) (float64, types.ExitReason, bool) {
	stopReason := types.ExitReasonStopLoss
	if t.TrailingActive {
		stopReason = types.ExitReasonTrailingStop
	}

	if t.Side == types.PositionTypeLong {
		if low <= t.StopLoss {
			return t.StopLoss, stopReason, true
		}

		if high >= t.TakeProfit {
			return t.TakeProfit, types.ExitReasonTrailingStop, true
		}

		return 0, "", false
	}

	if high >= t.StopLoss {
		return t.StopLoss, stopReason, true
	}

	if low <= t.TakeProfit {
		return t.TakeProfit, types.ExitReasonTrailingStop, true
	}

	return 0, "", false
}

// rMultiple normalizes the exit by the stop distance at the current ATR.
// A zero distance yields 0 instead of an infinity.
func (b *BacktestTrading) rMultiple(t *types.Trade, exitPrice, atr float64) float64 {
	slDist := math.Abs(b.params.SLMult * atr)
	if slDist == 0 {
		return 0
	}

	move := exitPrice - t.EntryPrice
	if t.Side == types.PositionTypeShort {
		move = -move
	}

	return move / slDist
}

// trail activates the trailing stop once close is a full step beyond entry
// and ratchets the stop toward price. The stop never loosens.
func (b *BacktestTrading) trail(t *types.Trade, close, atr float64) {
	step := b.params.TrailingStepMult * atr

	if t.Side == types.PositionTypeLong {
		if close >= t.EntryPrice+step {
			t.TrailingActive = true
			t.StopLoss = math.Max(t.StopLoss, close-step)
		}

		return
	}

	if close <= t.EntryPrice-step {
		t.TrailingActive = true
		t.StopLoss = math.Min(t.StopLoss, close+step)
	}
}

// progress is the fraction of the entry-to-target distance covered by price,
// 0 when the target is not beyond entry. It is not clamped: a price on the
// losing side of entry gives a negative value, so breakeven_progress 0 only
// arms once price is at or past entry.
func progress(t *types.Trade, price float64) float64 {
	if t.Side == types.PositionTypeLong {
		dist := t.TakeProfit - t.EntryPrice
		if dist <= 0 {
			return 0
		}

		return (price - t.EntryPrice) / dist
	}

	dist := t.EntryPrice - t.TakeProfit
	if dist <= 0 {
		return 0
	}

	return (t.EntryPrice - price) / dist
}

// Package strategy holds the entry-side components of the simulation: the
// regime classifier, the entry signal generator and the position sizer.
package strategy

import "github.com/rxtech-lab/argo-replay/internal/types"

// RegimeClassifier labels the market direction from closing prices.
type RegimeClassifier interface {
	// Update consumes the next close and returns the current regime.
	Update(close float64) types.Regime
	// Regime returns the last label without consuming a price.
	Regime() types.Regime
}

// SignalGenerator produces entry signals from prices and the regime.
//
// Observe must be called on every bar, also while a trade is open, so the
// moving average stays current. Evaluate is only called while flat and uses
// the window as left by the last Observe.
type SignalGenerator interface {
	Observe(price float64)
	Evaluate(price float64, regime types.Regime) types.Signal
}

// PositionSizer turns risk parameters into an order quantity.
type PositionSizer interface {
	// Size returns the quantity for an entry at price with the given ATR.
	// A zero size means no trade should be opened.
	Size(price, atr float64) float64
}

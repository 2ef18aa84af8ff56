package indicator

import "github.com/moznion/go-optional"

// VolatilityEstimator consumes one bar at a time and reports a volatility
// value once it has seen enough bars.
type VolatilityEstimator interface {
	// Update feeds the next bar and returns the current value, or None while
	// warming up.
	Update(open, high, low, close float64) optional.Option[float64]
	// Value returns the current value without consuming a bar.
	Value() optional.Option[float64]
}

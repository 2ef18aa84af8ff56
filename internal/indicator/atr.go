package indicator

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-replay/pkg/errors"
)

// ATR is an incremental Average True Range with Wilder smoothing.
//
// The first value is the arithmetic mean of the first period true ranges.
// Every later bar applies atr = (atr*(period-1) + tr) / period. There is no
// reset; one instance belongs to one symbol run.
type ATR struct {
	period    int
	trs       []float64
	prevClose optional.Option[float64]
	atr       optional.Option[float64]
}

// NewATR creates an ATR for the given period.
func NewATR(period int) (*ATR, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	return &ATR{
		period:    period,
		trs:       make([]float64, 0, period),
		prevClose: optional.None[float64](),
		atr:       optional.None[float64](),
	}, nil
}

// Period returns the smoothing period.
func (a *ATR) Period() int {
	return a.period
}

// Update implements VolatilityEstimator.
func (a *ATR) Update(_, high, low, close float64) optional.Option[float64] {
	tr := trueRange(high, low, a.prevClose)
	a.prevClose = optional.Some(close)

	if a.atr.IsNone() {
		a.trs = append(a.trs, tr)
		if len(a.trs) == a.period {
			sum := 0.0
			for _, v := range a.trs {
				sum += v
			}

			a.atr = optional.Some(sum / float64(a.period))
			a.trs = nil
		}

		return a.atr
	}

	prev := a.atr.Unwrap()
	a.atr = optional.Some((prev*float64(a.period-1) + tr) / float64(a.period))

	return a.atr
}

// Value implements VolatilityEstimator.
func (a *ATR) Value() optional.Option[float64] {
	return a.atr
}

// trueRange is high-low for the first bar, otherwise the largest of the bar
// range and the gaps against the previous close.
func trueRange(high, low float64, prevClose optional.Option[float64]) float64 {
	if prevClose.IsNone() {
		return high - low
	}

	pc := prevClose.Unwrap()

	return math.Max(high-low, math.Max(math.Abs(high-pc), math.Abs(low-pc)))
}

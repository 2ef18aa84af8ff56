package strategy

import (
	"github.com/rxtech-lab/argo-replay/internal/indicator"
	"github.com/rxtech-lab/argo-replay/internal/types"
)

// SlopeRegime is UP when the short moving average is above the long one,
// DOWN when below and FLAT when equal or while the long window is filling.
//
// Equality is exact float comparison; no tolerance is applied.
type SlopeRegime struct {
	short  *indicator.MovingAverage
	long   *indicator.MovingAverage
	regime types.Regime
}

// NewSlopeRegime creates a classifier with the given window lengths.
// nShort < nLong is the usual setup but is not enforced.
func NewSlopeRegime(nShort, nLong int) (*SlopeRegime, error) {
	short, err := indicator.NewMovingAverage(nShort)
	if err != nil {
		return nil, err
	}

	long, err := indicator.NewMovingAverage(nLong)
	if err != nil {
		return nil, err
	}

	return &SlopeRegime{
		short:  short,
		long:   long,
		regime: types.RegimeFlat,
	}, nil
}

// Update implements RegimeClassifier.
func (s *SlopeRegime) Update(close float64) types.Regime {
	s.short.Push(close)
	s.long.Push(close)

	if !s.long.Full() {
		s.regime = types.RegimeFlat

		return s.regime
	}

	shortMean := s.short.Mean().Unwrap()
	longMean := s.long.Mean().Unwrap()

	switch {
	case shortMean > longMean:
		s.regime = types.RegimeUp
	case shortMean < longMean:
		s.regime = types.RegimeDown
	default:
		s.regime = types.RegimeFlat
	}

	return s.regime
}

// Regime implements RegimeClassifier.
func (s *SlopeRegime) Regime() types.Regime {
	return s.regime
}

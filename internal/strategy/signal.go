package strategy

import (
	"github.com/rxtech-lab/argo-replay/internal/indicator"
	"github.com/rxtech-lab/argo-replay/internal/types"
)

// PullbackResumption waits for price to pull back against the regime and
// then resume in its direction.
//
// In an UP regime a close below the moving average marks a pullback; a later
// close at or above it fires LONG. DOWN is the mirror image and fires SHORT.
// A FLAT regime or an unfilled window discards any pending pullback.
type PullbackResumption struct {
	ma           *indicator.MovingAverage
	pullbackSeen bool
}

// NewPullbackResumption creates a generator averaging the last lookback prices.
func NewPullbackResumption(lookback int) (*PullbackResumption, error) {
	ma, err := indicator.NewMovingAverage(lookback)
	if err != nil {
		return nil, err
	}

	return &PullbackResumption{ma: ma}, nil
}

// Observe implements SignalGenerator.
func (p *PullbackResumption) Observe(price float64) {
	p.ma.Push(price)
}

// Evaluate implements SignalGenerator.
func (p *PullbackResumption) Evaluate(price float64, regime types.Regime) types.Signal {
	if !p.ma.Full() || regime == types.RegimeFlat {
		p.pullbackSeen = false

		return types.SignalNone
	}

	ma := p.ma.Mean().Unwrap()

	switch regime {
	case types.RegimeUp:
		if price < ma {
			p.pullbackSeen = true

			return types.SignalNone
		}

		if p.pullbackSeen {
			p.pullbackSeen = false

			return types.SignalLong
		}
	case types.RegimeDown:
		if price > ma {
			p.pullbackSeen = true

			return types.SignalNone
		}

		if p.pullbackSeen {
			p.pullbackSeen = false

			return types.SignalShort
		}
	}

	return types.SignalNone
}

// OnBar observes the price and evaluates it in one step.
func (p *PullbackResumption) OnBar(price float64, regime types.Regime) types.Signal {
	p.Observe(price)

	return p.Evaluate(price, regime)
}

// PullbackSeen reports whether a pullback is pending.
func (p *PullbackResumption) PullbackSeen() bool {
	return p.pullbackSeen
}

package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// TimelineRow is the per-bar record of what the simulation saw and did.
type TimelineRow struct {
	Time     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	ATR      optional.Option[float64]
	Regime   Regime
	Signal   Signal
	Position PositionType
	// StopLoss and TakeProfit are the open trade's levels after the bar,
	// None when flat.
	StopLoss   optional.Option[float64]
	TakeProfit optional.Option[float64]
}

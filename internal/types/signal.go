package types

// Regime is the directional market classification.
type Regime string

const (
	RegimeUp   Regime = "UP"
	RegimeDown Regime = "DOWN"
	// RegimeFlat is also reported while the classifier is warming up.
	RegimeFlat Regime = "FLAT"
)

// IsDirectional reports whether the regime allows entries.
func (r Regime) IsDirectional() bool {
	return r == RegimeUp || r == RegimeDown
}

// Matches reports whether an entry signal agrees with the regime direction.
func (r Regime) Matches(s Signal) bool {
	return (r == RegimeUp && s == SignalLong) || (r == RegimeDown && s == SignalShort)
}

// Signal is an entry signal emitted by a signal generator.
type Signal string

const (
	SignalNone  Signal = ""
	SignalLong  Signal = "LONG"
	SignalShort Signal = "SHORT"
)

// Side converts the signal into the side of the position it opens.
func (s Signal) Side() (PositionType, bool) {
	switch s {
	case SignalLong:
		return PositionTypeLong, true
	case SignalShort:
		return PositionTypeShort, true
	default:
		return "", false
	}
}

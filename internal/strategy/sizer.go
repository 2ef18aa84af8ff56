package strategy

// FixedRiskSizer sizes positions so that a stop-out loses RiskUSD:
// qty = risk / (atr * slMult) / price.
type FixedRiskSizer struct {
	RiskUSD float64
	SLMult  float64
}

// NewFixedRiskSizer creates a sizer for the given risk budget and stop multiple.
func NewFixedRiskSizer(riskUSD, slMult float64) *FixedRiskSizer {
	return &FixedRiskSizer{
		RiskUSD: riskUSD,
		SLMult:  slMult,
	}
}

// Size implements PositionSizer.
func (f *FixedRiskSizer) Size(price, atr float64) float64 {
	if atr <= 0 {
		return 0
	}

	slDist := atr * f.SLMult
	if slDist <= 0 || price <= 0 {
		return 0
	}

	return max(f.RiskUSD/slDist/price, 0)
}

package trading

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-replay/internal/types"
	"github.com/rxtech-lab/argo-replay/pkg/errors"
)

// TradeManager owns the lifecycle of the single open trade of a symbol run.
type TradeManager interface {
	// Open creates a trade with stop and target derived from atr.
	// It fails with ErrCodeTradeAlreadyOpen if a trade is already open.
	Open(ts time.Time, side types.PositionType, price, atr, size float64) (*types.Trade, error)
	// OnBar advances the open trade by one bar. It returns the trade when the
	// bar closed it and nil otherwise, including when no trade is open.
	OnBar(ts time.Time, high, low, close, atr float64) *types.Trade
	// Active returns the open trade or nil when flat.
	Active() *types.Trade
	// ForceClose closes the open trade at price with reason BE and R = 0.
	// It returns nil when flat.
	ForceClose(ts time.Time, price float64) *types.Trade
}

// ExitParams are the ATR multiples that drive stops and targets.
type ExitParams struct {
	SLMult float64 `yaml:"sl_mult" json:"sl_mult" jsonschema:"title=Stop Loss Multiple,description=Initial stop distance in ATRs,default=15" validate:"gt=0"`
	TPMult float64 `yaml:"tp_mult" json:"tp_mult" jsonschema:"title=Take Profit Multiple,description=Target distance in ATRs,default=60" validate:"gt=0"`
	// BreakevenProgress is the fraction of the way to the target at which
	// the stop moves to the entry price.
	BreakevenProgress float64 `yaml:"breakeven_progress" json:"breakeven_progress" jsonschema:"title=Breakeven Progress,description=Fraction of the target distance that moves the stop to entry,default=0.5" validate:"gte=0,lte=1"`
	TrailingStepMult  float64 `yaml:"tsl_step_atr_mult" json:"tsl_step_atr_mult" jsonschema:"title=Trailing Step Multiple,description=Trailing stop distance in ATRs,default=3" validate:"gt=0"`
}

// DefaultExitParams returns the stock exit configuration.
func DefaultExitParams() ExitParams {
	return ExitParams{
		SLMult:            15,
		TPMult:            60,
		BreakevenProgress: 0.5,
		TrailingStepMult:  3,
	}
}

// Validate validates the exit parameters.
func (p ExitParams) Validate() error {
	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid exit parameters", err)
	}

	return nil
}

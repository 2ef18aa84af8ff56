package engine

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-replay/internal/backtest/engine"
	"github.com/rxtech-lab/argo-replay/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-replay/internal/backtest/walkforward"
	"github.com/rxtech-lab/argo-replay/internal/trading"
	"github.com/rxtech-lab/argo-replay/internal/version"
	"github.com/rxtech-lab/argo-replay/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Mode string

const (
	ModeInSample    Mode = "insample"
	ModeOOS         Mode = "oos"
	ModeWalkForward Mode = "walkforward"
)

var AllModes = []any{ModeInSample, ModeOOS, ModeWalkForward}

const (
	DefaultATRPeriod = 14
	DefaultRiskUSD   = 1.0
)

var DefaultSymbols = []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"}

type BacktestSettings struct {
	Mode            Mode                       `yaml:"mode" json:"mode" jsonschema:"title=Mode,description=Run mode: insample, oos or walkforward" validate:"oneof=insample oos walkforward"`
	OOSLastKMonths  int                        `yaml:"oos_last_k_months" json:"oos_last_k_months" jsonschema:"title=OOS Months,description=Number of trailing months evaluated in oos mode,minimum=1" validate:"gt=0"`
	WalkForward     walkforward.Spec           `yaml:"walkforward" json:"walkforward" jsonschema:"title=Walk Forward,description=Fold layout in months"`
	Workers         int                        `yaml:"workers" json:"workers" jsonschema:"title=Workers,description=Number of symbols simulated in parallel,minimum=1" validate:"gt=0"`
	ContinueOnError bool                       `yaml:"continue_on_error" json:"continue_on_error" jsonschema:"title=Continue On Error,description=Keep running other symbols when one fails"`
	Start           optional.Option[time.Time] `yaml:"start" json:"start" jsonschema:"title=Start,description=Inclusive UTC start of the backtest window"`
	End             optional.Option[time.Time] `yaml:"end" json:"end" jsonschema:"title=End,description=Exclusive UTC end of the backtest window"`
}

// UnmarshalYAML decodes on top of the current values so omitted keys keep their defaults.
func (s *BacktestSettings) UnmarshalYAML(value *yaml.Node) error {
	type settings struct {
		Mode            Mode             `yaml:"mode"`
		OOSLastKMonths  int              `yaml:"oos_last_k_months"`
		WalkForward     walkforward.Spec `yaml:"walkforward"`
		Workers         int              `yaml:"workers"`
		ContinueOnError bool             `yaml:"continue_on_error"`
		Start           *string          `yaml:"start"`
		End             *string          `yaml:"end"`
	}

	raw := settings{
		Mode:            s.Mode,
		OOSLastKMonths:  s.OOSLastKMonths,
		WalkForward:     s.WalkForward,
		Workers:         s.Workers,
		ContinueOnError: s.ContinueOnError,
	}

	if err := value.Decode(&raw); err != nil {
		return err
	}

	s.Mode = raw.Mode
	s.OOSLastKMonths = raw.OOSLastKMonths
	s.WalkForward = raw.WalkForward
	s.Workers = raw.Workers
	s.ContinueOnError = raw.ContinueOnError

	if raw.Start != nil {
		t, err := datasource.ParseTimestamp(*raw.Start)
		if err != nil {
			return err
		}

		s.Start = optional.Some(t)
	}

	if raw.End != nil {
		t, err := datasource.ParseTimestamp(*raw.End)
		if err != nil {
			return err
		}

		s.End = optional.Some(t)
	}

	return nil
}

// MarshalYAML writes start and end as RFC 3339 strings, omitting unset ones.
func (s BacktestSettings) MarshalYAML() (any, error) {
	type settings struct {
		Mode            Mode             `yaml:"mode"`
		OOSLastKMonths  int              `yaml:"oos_last_k_months"`
		WalkForward     walkforward.Spec `yaml:"walkforward"`
		Workers         int              `yaml:"workers"`
		ContinueOnError bool             `yaml:"continue_on_error"`
		Start           string           `yaml:"start,omitempty"`
		End             string           `yaml:"end,omitempty"`
	}

	raw := settings{
		Mode:            s.Mode,
		OOSLastKMonths:  s.OOSLastKMonths,
		WalkForward:     s.WalkForward,
		Workers:         s.Workers,
		ContinueOnError: s.ContinueOnError,
	}

	if s.Start.IsSome() {
		raw.Start = s.Start.Unwrap().Format(time.RFC3339)
	}

	if s.End.IsSome() {
		raw.End = s.End.Unwrap().Format(time.RFC3339)
	}

	return raw, nil
}

type PathSettings struct {
	DataRoot   string `yaml:"data_root" json:"data_root" jsonschema:"title=Data Root,description=Directory holding one sub directory of data files per symbol" validate:"required"`
	OutputsDir string `yaml:"outputs_dir" json:"outputs_dir" jsonschema:"title=Outputs Dir,description=Directory receiving logs and artifacts" validate:"required"`
}

type SlopeSettings struct {
	NShort int `yaml:"n_short" json:"n_short" jsonschema:"title=Short Window,minimum=1" validate:"gt=0"`
	NLong  int `yaml:"n_long" json:"n_long" jsonschema:"title=Long Window,minimum=1" validate:"gt=0"`
}

type RegimeSettings struct {
	Slope SlopeSettings `yaml:"slope" json:"slope"`
}

type PullbackSettings struct {
	MALookback int `yaml:"ma_lookback" json:"ma_lookback" jsonschema:"title=MA Lookback,minimum=1" validate:"gt=0"`
}

type EntrySettings struct {
	PullbackResumption PullbackSettings `yaml:"pullback_resumption" json:"pullback_resumption"`
}

// SymbolExits overrides the exit parameters of one symbol. Nil fields fall back to the defaults.
type SymbolExits struct {
	SLMult            *float64 `yaml:"sl_mult" json:"sl_mult,omitempty" jsonschema:"title=Stop Loss ATR Multiple" validate:"omitempty,gt=0"`
	TPMult            *float64 `yaml:"tp_mult" json:"tp_mult,omitempty" jsonschema:"title=Take Profit ATR Multiple" validate:"omitempty,gt=0"`
	BreakevenProgress *float64 `yaml:"breakeven_progress" json:"breakeven_progress,omitempty" jsonschema:"title=Breakeven Progress,minimum=0,maximum=1" validate:"omitempty,gte=0,lte=1"`
	TrailingStepMult  *float64 `yaml:"tsl_step_atr_mult" json:"tsl_step_atr_mult,omitempty" jsonschema:"title=Trailing Step ATR Multiple" validate:"omitempty,gt=0"`
	ATRPeriod         *int     `yaml:"atr_period" json:"atr_period,omitempty" jsonschema:"title=ATR Period" validate:"omitempty,gt=0"`
}

type SymbolRisk struct {
	RiskUSD float64 `yaml:"risk_usd" json:"risk_usd" jsonschema:"title=Risk USD,description=Dollar risk per trade at the initial stop" validate:"gt=0"`
}

type OutputSettings struct {
	Parquet bool `yaml:"parquet" json:"parquet" jsonschema:"title=Parquet,description=Also write trades as parquet"`
}

type BacktestEngineV1Config struct {
	EngineVersion string                 `yaml:"engine_version" json:"engine_version,omitempty" jsonschema:"title=Engine Version,description=Semver constraint the engine version must satisfy"`
	Backtest      BacktestSettings       `yaml:"backtest" json:"backtest"`
	Paths         PathSettings           `yaml:"paths" json:"paths"`
	Symbols       []string               `yaml:"symbols" json:"symbols" jsonschema:"title=Symbols" validate:"required,min=1,dive,required"`
	Regime        RegimeSettings         `yaml:"regime" json:"regime"`
	Entry         EntrySettings          `yaml:"entry" json:"entry"`
	Exits         map[string]SymbolExits `yaml:"exits" json:"exits,omitempty" jsonschema:"title=Exits,description=Exit parameters per symbol" validate:"dive"`
	Risk          map[string]SymbolRisk  `yaml:"risk" json:"risk,omitempty" jsonschema:"title=Risk,description=Risk per symbol" validate:"dive"`
	Outputs       OutputSettings         `yaml:"outputs" json:"outputs"`
}

// DefaultConfig returns a BacktestEngineV1Config with default values
func DefaultConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		EngineVersion: "",
		Backtest: BacktestSettings{
			Mode:            ModeInSample,
			OOSLastKMonths:  1,
			WalkForward:     walkforward.DefaultSpec(),
			Workers:         1,
			ContinueOnError: false,
			Start:           optional.None[time.Time](),
			End:             optional.None[time.Time](),
		},
		Paths: PathSettings{
			DataRoot:   "data",
			OutputsDir: "outputs",
		},
		Symbols: append([]string(nil), DefaultSymbols...),
		Regime: RegimeSettings{
			Slope: SlopeSettings{NShort: 30, NLong: 120},
		},
		Entry: EntrySettings{
			PullbackResumption: PullbackSettings{MALookback: 20},
		},
		Exits:   map[string]SymbolExits{},
		Risk:    map[string]SymbolRisk{},
		Outputs: OutputSettings{Parquet: false},
	}
}

// LoadConfig decodes YAML on top of DefaultConfig.
func LoadConfig(content string) (BacktestEngineV1Config, error) {
	config := DefaultConfig()

	if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return BacktestEngineV1Config{}, errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse backtest config", err)
	}

	return config, nil
}

// Merge applies command line overrides. A walk-forward override also switches the mode.
func (c *BacktestEngineV1Config) Merge(overrides engine.Overrides) error {
	if overrides.Mode.IsSome() {
		c.Backtest.Mode = Mode(overrides.Mode.Unwrap())
	}

	if overrides.OOSLastKMonths.IsSome() {
		c.Backtest.OOSLastKMonths = overrides.OOSLastKMonths.Unwrap()
	}

	if overrides.WalkForward.IsSome() {
		spec, err := walkforward.ParseSpec(overrides.WalkForward.Unwrap())
		if err != nil {
			return err
		}

		c.Backtest.WalkForward = spec
		c.Backtest.Mode = ModeWalkForward
	}

	if overrides.DataRoot.IsSome() {
		c.Paths.DataRoot = overrides.DataRoot.Unwrap()
	}

	if overrides.OutputsDir.IsSome() {
		c.Paths.OutputsDir = overrides.OutputsDir.Unwrap()
	}

	if overrides.Workers.IsSome() {
		c.Backtest.Workers = overrides.Workers.Unwrap()
	}

	if len(overrides.Symbols) > 0 {
		c.Symbols = append([]string(nil), overrides.Symbols...)
	}

	if overrides.Start.IsSome() {
		c.Backtest.Start = overrides.Start
	}

	if overrides.End.IsSome() {
		c.Backtest.End = overrides.End
	}

	return nil
}

// Validate validates the BacktestEngineV1Config struct.
func (c *BacktestEngineV1Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid backtest config", err)
	}

	if c.Backtest.Mode == ModeWalkForward {
		if err := c.Backtest.WalkForward.Validate(); err != nil {
			return err
		}
	}

	for _, symbol := range c.Symbols {
		if err := c.ExitParamsFor(symbol).Validate(); err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "exits for %s", symbol)
		}
	}

	if c.EngineVersion != "" {
		if err := version.CheckConstraint(version.GetVersion(), c.EngineVersion); err != nil {
			return err
		}
	}

	return nil
}

// ExitParamsFor returns the exit parameters of symbol with defaults filled in.
func (c *BacktestEngineV1Config) ExitParamsFor(symbol string) trading.ExitParams {
	params := trading.DefaultExitParams()

	exits, ok := c.Exits[symbol]
	if !ok {
		return params
	}

	if exits.SLMult != nil {
		params.SLMult = *exits.SLMult
	}

	if exits.TPMult != nil {
		params.TPMult = *exits.TPMult
	}

	if exits.BreakevenProgress != nil {
		params.BreakevenProgress = *exits.BreakevenProgress
	}

	if exits.TrailingStepMult != nil {
		params.TrailingStepMult = *exits.TrailingStepMult
	}

	return params
}

func (c *BacktestEngineV1Config) ATRPeriodFor(symbol string) int {
	if exits, ok := c.Exits[symbol]; ok && exits.ATRPeriod != nil {
		return *exits.ATRPeriod
	}

	return DefaultATRPeriod
}

func (c *BacktestEngineV1Config) RiskFor(symbol string) float64 {
	if risk, ok := c.Risk[symbol]; ok {
		return risk.RiskUSD
	}

	return DefaultRiskUSD
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}

			if strings.HasSuffix(t.String(), "engine.Mode") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: AllModes,
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

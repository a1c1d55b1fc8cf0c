// Package config loads and validates the backtest configuration. The engine
// itself receives a fully-populated BacktestConfig value and never touches
// files; loading lives here, outside the simulation core.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"github.com/tickerlab/stratbench/internal/version"
	"github.com/tickerlab/stratbench/pkg/errors"
	"gopkg.in/yaml.v2"
)

type CommissionModel string

const (
	CommissionNone         CommissionModel = "none"
	CommissionFlat         CommissionModel = "flat"
	CommissionProportional CommissionModel = "proportional"
	CommissionPerShare     CommissionModel = "per_share"
)

var AllCommissionModels = []any{
	CommissionNone,
	CommissionFlat,
	CommissionProportional,
	CommissionPerShare,
}

// Commission configures the fee charged per simulated order.
type Commission struct {
	Model CommissionModel `yaml:"model" json:"model" jsonschema:"title=Model,description=Fee model applied per order"`
	// Rate is currency per order (flat), fraction of notional (proportional),
	// or currency per share (per_share). Ignored for the none model.
	Rate decimal.Decimal `yaml:"rate" json:"rate" jsonschema:"title=Rate,description=Fee rate interpreted by the model"`
	// Min is the per-order minimum charged by the per_share model.
	Min decimal.Decimal `yaml:"min" json:"min" jsonschema:"title=Minimum,description=Per-order minimum fee for the per_share model"`
}

// Strategy selects a registered strategy by name and carries its opaque
// parameters. The engine never inspects Params; they are handed to the
// strategy's Init.
type Strategy struct {
	Name   string         `yaml:"name" json:"name" validate:"required" jsonschema:"title=Name,description=Registered strategy name,required"`
	Params map[string]any `yaml:"params" json:"params" jsonschema:"title=Params,description=Opaque strategy parameters"`
}

// BacktestConfig is the external input describing one backtest. It is
// consumed read-only by the engine; all monetary fields are exact decimals.
type BacktestConfig struct {
	// SchemaVersion optionally pins the config schema; when set it must be
	// compatible with the library version (major.minor match).
	SchemaVersion string   `yaml:"schema_version" json:"schema_version" jsonschema:"title=Schema Version,description=Config schema version the file was written for"`
	Strategy      Strategy `yaml:"strategy" json:"strategy" jsonschema:"title=Strategy,description=Strategy selection,required"`
	Symbols       []string `yaml:"symbols" json:"symbols" validate:"min=1,dive,required" jsonschema:"title=Symbols,description=Symbols to simulate one run each,required"`
	// StartDate and EndDate bound the series loaded by the data collaborator.
	// None means unbounded on that side.
	StartDate      optional.Option[time.Time] `yaml:"start_date" json:"start_date" jsonschema:"title=Start Date,description=Optional inclusive lower bound for bar times"`
	EndDate        optional.Option[time.Time] `yaml:"end_date" json:"end_date" jsonschema:"title=End Date,description=Optional inclusive upper bound for bar times"`
	InitialCapital decimal.Decimal            `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Starting cash in USD,required"`
	Commission     Commission                 `yaml:"commission" json:"commission" jsonschema:"title=Commission,description=Per-order fee model"`
	SlippagePct    decimal.Decimal            `yaml:"slippage_pct" json:"slippage_pct" jsonschema:"title=Slippage,description=Adverse price adjustment fraction in [0;1)"`
	RiskFreeRate   decimal.Decimal            `yaml:"risk_free_rate" json:"risk_free_rate" jsonschema:"title=Risk-Free Rate,description=Annual risk-free rate used by the Sharpe ratio"`
	CacheEnabled   bool                       `yaml:"cache_enabled" json:"cache_enabled" jsonschema:"title=Cache Enabled,description=Cache loaded bar series in the data collaborator"`
}

// decimalValue parses quoted and bare YAML scalars into an exact decimal
// without a float round trip for quoted values.
type decimalValue struct {
	value decimal.Decimal
	set   bool
}

func (d *decimalValue) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}

	if raw == nil {
		return nil
	}

	parsed, err := decimal.NewFromString(fmt.Sprint(raw))
	if err != nil {
		return fmt.Errorf("invalid decimal value %q: %w", fmt.Sprint(raw), err)
	}

	d.value = parsed
	d.set = true

	return nil
}

// UnmarshalYAML implements custom unmarshaling for BacktestConfig so that
// optional dates and decimal fields round-trip exactly, and defaults apply
// for omitted fields.
func (c *BacktestConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type rawCommission struct {
		Model CommissionModel `yaml:"model"`
		Rate  decimalValue    `yaml:"rate"`
		Min   decimalValue    `yaml:"min"`
	}

	type rawConfig struct {
		SchemaVersion  string        `yaml:"schema_version"`
		Strategy       Strategy      `yaml:"strategy"`
		Symbols        []string      `yaml:"symbols"`
		StartDate      *time.Time    `yaml:"start_date"`
		EndDate        *time.Time    `yaml:"end_date"`
		InitialCapital decimalValue  `yaml:"initial_capital"`
		Commission     rawCommission `yaml:"commission"`
		SlippagePct    decimalValue  `yaml:"slippage_pct"`
		RiskFreeRate   decimalValue  `yaml:"risk_free_rate"`
		CacheEnabled   *bool         `yaml:"cache_enabled"`
	}

	var raw rawConfig
	if err := unmarshal(&raw); err != nil {
		return err
	}

	c.SchemaVersion = raw.SchemaVersion
	c.Strategy = raw.Strategy
	c.Symbols = raw.Symbols
	c.InitialCapital = raw.InitialCapital.value
	c.SlippagePct = raw.SlippagePct.value
	c.RiskFreeRate = raw.RiskFreeRate.value

	if raw.StartDate != nil {
		c.StartDate = optional.Some(*raw.StartDate)
	}

	if raw.EndDate != nil {
		c.EndDate = optional.Some(*raw.EndDate)
	}

	c.Commission = Commission{
		Model: raw.Commission.Model,
		Rate:  raw.Commission.Rate.value,
		Min:   raw.Commission.Min.value,
	}
	if c.Commission.Model == "" {
		c.Commission.Model = CommissionNone
	}

	// Caching defaults to on; it only affects the data collaborator.
	c.CacheEnabled = true
	if raw.CacheEnabled != nil {
		c.CacheEnabled = *raw.CacheEnabled
	}

	return nil
}

// Load reads and validates a config file.
func Load(path string) (BacktestConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return BacktestConfig{}, errors.Wrapf(errors.ErrCodeMalformedConfig, err, "failed to read config file %s", path)
	}

	return Parse(content)
}

// Parse unmarshals and validates config content.
func Parse(content []byte) (BacktestConfig, error) {
	var cfg BacktestConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return BacktestConfig{}, errors.Wrap(errors.ErrCodeMalformedConfig, "failed to parse config", err)
	}

	if err := cfg.Validate(); err != nil {
		return BacktestConfig{}, err
	}

	return cfg, nil
}

// Validate checks the config invariants. All violations are fatal config
// errors surfaced before any simulation state exists.
func (c *BacktestConfig) Validate() error {
	if len(c.Symbols) == 0 {
		return errors.New(errors.ErrCodeMissingSymbols, "config must name at least one symbol")
	}

	if !c.InitialCapital.IsPositive() {
		return errors.Newf(errors.ErrCodeInvalidInitialCapital, "initial capital must be positive, got %s", c.InitialCapital)
	}

	one := decimal.NewFromInt(1)
	if c.SlippagePct.IsNegative() || c.SlippagePct.GreaterThanOrEqual(one) {
		return errors.Newf(errors.ErrCodeInvalidSlippage, "slippage_pct must be in [0, 1), got %s", c.SlippagePct)
	}

	if c.StartDate.IsSome() && c.EndDate.IsSome() && !c.StartDate.Unwrap().Before(c.EndDate.Unwrap()) {
		return errors.Newf(errors.ErrCodeInvalidDateRange, "start_date %s must be before end_date %s",
			c.StartDate.Unwrap().Format(time.DateOnly), c.EndDate.Unwrap().Format(time.DateOnly))
	}

	switch c.Commission.Model {
	case CommissionNone, CommissionFlat, CommissionProportional, CommissionPerShare:
	default:
		return errors.Newf(errors.ErrCodeInvalidCommission, "unknown commission model %q", c.Commission.Model)
	}

	if c.Commission.Rate.IsNegative() || c.Commission.Min.IsNegative() {
		return errors.New(errors.ErrCodeInvalidCommission, "commission rate and min must be non-negative")
	}

	// A rate below -100% annually cannot be meant seriously.
	if c.RiskFreeRate.LessThanOrEqual(one.Neg()) {
		return errors.Newf(errors.ErrCodeInvalidRiskFreeRate, "risk_free_rate must be greater than -1, got %s", c.RiskFreeRate)
	}

	if c.SchemaVersion != "" {
		if err := version.CheckSchemaCompatibility(version.GetVersion(), c.SchemaVersion); err != nil {
			return errors.Wrap(errors.ErrCodeSchemaVersionMismatch, "config schema version is not supported", err)
		}
	}

	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid backtest config", err)
	}

	return nil
}

// GenerateSchema generates a JSON schema for the BacktestConfig.
func (c *BacktestConfig) GenerateSchema() (*jsonschema.Schema, error) {
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
			if t.String() == "decimal.Decimal" {
				return &jsonschema.Schema{
					Type:        "string",
					Description: "exact decimal encoded as a string",
				}
			}
			if strings.Contains(t.String(), "CommissionModel") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: AllCommissionModels,
				}
			}
			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "stratbench-backtest-config"
	schema.Description = "Configuration schema for a stratbench backtest run"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestConfig.
func (c *BacktestConfig) GenerateSchemaJSON() (string, error) {
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

// TestConfig returns a minimal valid config used by tests.
func TestConfig() BacktestConfig {
	return BacktestConfig{
		Strategy:       Strategy{Name: "buy_and_hold", Params: map[string]any{}},
		Symbols:        []string{"AAPL"},
		StartDate:      optional.None[time.Time](),
		EndDate:        optional.None[time.Time](),
		InitialCapital: decimal.NewFromInt(10000),
		Commission:     Commission{Model: CommissionNone},
		SlippagePct:    decimal.Zero,
		RiskFreeRate:   decimal.Zero,
		CacheEnabled:   true,
	}
}

// DefaultConfig returns the defaults applied when optional fields are omitted.
func DefaultConfig() BacktestConfig {
	return BacktestConfig{
		Strategy:       Strategy{},
		Symbols:        nil,
		StartDate:      optional.None[time.Time](),
		EndDate:        optional.None[time.Time](),
		InitialCapital: decimal.Zero,
		Commission:     Commission{Model: CommissionNone, Rate: decimal.Zero, Min: decimal.Zero},
		SlippagePct:    decimal.Zero,
		RiskFreeRate:   decimal.Zero,
		CacheEnabled:   true,
	}
}

// Package config loads and validates the run configuration of the screener.
//
// Values are resolved in this order, later sources winning: Default(), the
// YAML file, SCREENER_* environment variables, command line flags.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-screener/internal/indicator"
	"github.com/rxtech-lab/argo-screener/internal/version"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"github.com/rxtech-lab/argo-screener/pkg/marketdata"
	"github.com/rxtech-lab/argo-screener/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-screener/pkg/output"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. SCREENER_INTERVAL.
const EnvPrefix = "SCREENER"

// ProviderConfig selects the market data source.
type ProviderConfig struct {
	Type     provider.ProviderType `yaml:"type" json:"type" jsonschema:"title=Provider,enum=yahoo,enum=polygon,enum=binance,enum=duckdb,enum=csv,default=yahoo" validate:"required"`
	APIKey   string                `yaml:"api_key,omitempty" json:"api_key,omitempty" jsonschema:"title=API key,description=Required by polygon. Falls back to POLYGON_API_KEY"`
	DataPath string                `yaml:"data_path,omitempty" json:"data_path,omitempty" jsonschema:"title=Data path,description=Parquet or CSV file read by the duckdb and csv providers"`
	BaseURL  string                `yaml:"base_url,omitempty" json:"base_url,omitempty" jsonschema:"title=Base URL,description=Overrides the remote endpoint" validate:"omitempty,url"`
	Timeout  time.Duration         `yaml:"timeout,omitempty" json:"timeout,omitempty" jsonschema:"title=Request timeout,type=string" validate:"gte=0"`
}

// OutputConfig controls where the signal table goes.
type OutputConfig struct {
	Path     string             `yaml:"path" json:"path" jsonschema:"title=Output file,description=.csv or .xlsx,default=signals.csv" validate:"required"`
	Header   output.HeaderStyle `yaml:"header" json:"header" jsonschema:"title=Header style,enum=multi,enum=flat,default=multi"`
	Tail     int                `yaml:"tail" json:"tail" jsonschema:"title=Preview rows,default=5,minimum=0" validate:"gte=0"`
	Snapshot string             `yaml:"snapshot,omitempty" json:"snapshot,omitempty" jsonschema:"title=Snapshot,description=Parquet file receiving the fetched bars"`
}

// Config is the complete description of one screener run.
type Config struct {
	Version     string              `yaml:"version,omitempty" json:"version,omitempty" jsonschema:"title=Version,description=Screener version the file was written for"`
	Tickers     []string            `yaml:"tickers" json:"tickers" jsonschema:"title=Tickers,minItems=1" validate:"required,min=1,unique,dive,required"`
	Interval    marketdata.Interval `yaml:"interval" json:"interval" jsonschema:"title=Interval,default=1h"`
	Period      marketdata.Period   `yaml:"period" json:"period" jsonschema:"title=Period,default=1mo"`
	End         *time.Time          `yaml:"end,omitempty" json:"end,omitempty" jsonschema:"title=End,description=Closes the window. Defaults to now"`
	Timezone    string              `yaml:"timezone" json:"timezone" jsonschema:"title=Time zone,default=Asia/Kolkata" validate:"required"`
	Concurrency int                 `yaml:"concurrency" json:"concurrency" jsonschema:"title=Concurrent downloads,default=4,minimum=1" validate:"gte=1"`
	Provider    ProviderConfig      `yaml:"provider" json:"provider"`
	Indicators  Indicators          `yaml:"indicators" json:"indicators" validate:"min=1"`
	Output      OutputConfig        `yaml:"output" json:"output"`
	LogLevel    string              `yaml:"log_level" json:"log_level" jsonschema:"title=Log level,enum=debug,enum=info,enum=warn,enum=error,default=info"`
}

// envOverrides are read with envconfig under EnvPrefix. Unset variables
// leave the loaded value alone. POLYGON_API_KEY is also read unprefixed.
type envOverrides struct {
	Tickers       []string
	Interval      string
	Period        string
	Timezone      string
	Provider      string
	APIKey        string `split_words:"true"`
	PolygonAPIKey string `envconfig:"POLYGON_API_KEY"`
	DataPath      string `split_words:"true"`
	Output        string
	Header        string
	LogLevel      string `split_words:"true"`
}

// Default returns the reference run: two FX pairs, hourly bars over one
// month, every indicator with its default parameters.
func Default() *Config {
	return &Config{
		Tickers:     []string{"EURUSD=X", "USDJPY=X"},
		Interval:    marketdata.IntervalOneHour,
		Period:      marketdata.PeriodOneMonth,
		End:         nil,
		Timezone:    marketdata.DefaultTimezone,
		Concurrency: marketdata.DefaultConcurrency,
		Provider: ProviderConfig{
			Type: provider.ProviderYahoo,
		},
		Indicators: Indicators(indicator.Defaults()),
		Output: OutputConfig{
			Path:   "signals.csv",
			Header: output.HeaderMulti,
			Tail:   5,
		},
		LogLevel: "info",
	}
}

// Load builds a configuration from the defaults, the YAML file at path (if
// path is not empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
		}

		if err := cfg.decode(data); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse decodes YAML on top of Default() and validates the result. The
// environment is not consulted.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	if err := cfg.decode(data); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		if errors.GetCode(err) != errors.ErrCodeUnknown {
			return err
		}

		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	return nil
}

// ApplyEnv overlays SCREENER_* variables. POLYGON_API_KEY fills in a
// missing polygon API key.
func (c *Config) ApplyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to read environment", err)
	}

	if len(env.Tickers) > 0 {
		c.Tickers = trimAll(env.Tickers)
	}

	setString(&c.Timezone, env.Timezone)
	setString(&c.Provider.APIKey, env.APIKey)
	setString(&c.Provider.DataPath, env.DataPath)
	setString(&c.Output.Path, env.Output)
	setString(&c.LogLevel, env.LogLevel)

	if env.Interval != "" {
		c.Interval = marketdata.Interval(env.Interval)
	}

	if env.Period != "" {
		c.Period = marketdata.Period(env.Period)
	}

	if env.Provider != "" {
		c.Provider.Type = provider.ProviderType(env.Provider)
	}

	if env.Header != "" {
		c.Output.Header = output.HeaderStyle(env.Header)
	}

	if c.Provider.Type == provider.ProviderPolygon && c.Provider.APIKey == "" {
		c.Provider.APIKey = env.PolygonAPIKey
	}

	return nil
}

// Validate checks the whole configuration. It runs before any data is
// fetched; every failure carries a validation error code.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fe := validationErrors[0]
			if fe.StructField() == "Tickers" || strings.HasPrefix(fe.StructNamespace(), "Config.Tickers[") {
				return errors.Wrap(errors.ErrCodeInvalidInstrumentSet, "tickers must be a non-empty list of distinct symbols", err)
			}
		}

		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	if c.Version != "" {
		if err := version.CheckConfigCompatibility(version.GetVersion(), c.Version); err != nil {
			return err
		}
	}

	if !c.Interval.IsValid() {
		return errors.Newf(errors.ErrCodeInvalidInterval, "unknown interval %q", string(c.Interval))
	}

	if !c.Period.IsValid() {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "unknown period %q", string(c.Period))
	}

	if _, err := marketdata.LoadLocation(c.Timezone); err != nil {
		return err
	}

	if _, err := marketdata.GetProviderInfo(string(c.Provider.Type)); err != nil {
		return err
	}

	if c.Output.Header != "" && !c.Output.Header.IsValid() {
		return errors.Newf(errors.ErrCodeInvalidParameter, "unknown header style %q", string(c.Output.Header))
	}

	if c.LogLevel != "" {
		if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "unknown log level %q", c.LogLevel)
		}
	}

	for _, ind := range c.Indicators {
		if err := ind.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Registry builds the indicator registry in configuration order.
func (c *Config) Registry() (indicator.IndicatorRegistry, error) {
	return indicator.NewIndicatorRegistryWith(c.Indicators...)
}

// SupplierConfig returns the settings of the market data supplier.
func (c *Config) SupplierConfig() marketdata.SupplierConfig {
	return marketdata.SupplierConfig{
		ProviderType: c.Provider.Type,
		Options: provider.Options{
			APIKey:   c.Provider.APIKey,
			DataPath: c.Provider.DataPath,
			BaseURL:  c.Provider.BaseURL,
			Timeout:  c.Provider.Timeout,
		},
		Timezone:     c.Timezone,
		Concurrency:  c.Concurrency,
		SnapshotPath: c.Output.Snapshot,
	}
}

// FetchParams returns the download window of the run.
func (c *Config) FetchParams() marketdata.FetchParams {
	return marketdata.FetchParams{
		Tickers:  c.Tickers,
		Interval: c.Interval,
		Period:   c.Period,
		End:      c.EndTime(),
	}
}

// EndTime returns the configured end of the window, if any.
func (c *Config) EndTime() optional.Option[time.Time] {
	return optional.FromNillable(c.End)
}

// Location returns the reporting time zone.
func (c *Config) Location() (*time.Location, error) {
	return marketdata.LoadLocation(c.Timezone)
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func trimAll(values []string) []string {
	trimmed := make([]string, 0, len(values))
	for _, v := range values {
		trimmed = append(trimmed, strings.TrimSpace(v))
	}

	return trimmed
}

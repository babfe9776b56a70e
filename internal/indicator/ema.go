package indicator

import (
	"github.com/rxtech-lab/argo-screener/internal/types"
)

// EMA is the exponential moving-average crossover. Each average uses
// alpha = 2/(span+1) and is undefined for its first span-1 points.
type EMA struct {
	Slow int `yaml:"slow" json:"slow" jsonschema:"title=Slow span,default=20,minimum=2" validate:"min=1"`
	Fast int `yaml:"fast" json:"fast" jsonschema:"title=Fast span,default=10,minimum=1" validate:"min=1,ltfield=Slow"`
}

// NewEMA creates a new EMA crossover with default configuration.
func NewEMA() Indicator {
	return &EMA{
		Slow: 20,
		Fast: 10,
	}
}

// Name returns the name of the indicator.
func (e *EMA) Name() types.IndicatorType {
	return types.IndicatorTypeEMA
}

// Config expects parameters: slow (int), fast (int).
func (e *EMA) Config(params ...any) error {
	slow, fast, err := crossoverParams(e.Name(), params)
	if err != nil {
		return err
	}

	e.Slow, e.Fast = slow, fast

	return nil
}

// Validate checks 1 <= Fast < Slow.
func (e *EMA) Validate() error {
	return validateParams(e.Name(), e)
}

// WarmUp returns Slow-1.
func (e *EMA) WarmUp() int {
	return e.Slow - 1
}

// Compute classifies every bar by comparing the fast and slow EMA of close.
func (e *EMA) Compute(frame Frame) []types.Signal {
	return classifyPairs(crossoverRules, ema(frame.Close, e.Fast), ema(frame.Close, e.Slow))
}

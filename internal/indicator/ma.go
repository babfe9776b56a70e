package indicator

import (
	"github.com/rxtech-lab/argo-screener/internal/types"
)

// SMA is the simple moving-average crossover: +1 while the fast average is
// above the slow one, -1 otherwise.
type SMA struct {
	Slow int `yaml:"slow" json:"slow" jsonschema:"title=Slow window,default=20,minimum=2" validate:"min=1"`
	Fast int `yaml:"fast" json:"fast" jsonschema:"title=Fast window,default=10,minimum=1" validate:"min=1,ltfield=Slow"`
}

// NewSMA creates a new SMA crossover with default configuration.
func NewSMA() Indicator {
	return &SMA{
		Slow: 20,
		Fast: 10,
	}
}

// Name returns the name of the indicator.
func (m *SMA) Name() types.IndicatorType {
	return types.IndicatorTypeSMA
}

// Config expects parameters: slow (int), fast (int).
func (m *SMA) Config(params ...any) error {
	slow, fast, err := crossoverParams(m.Name(), params)
	if err != nil {
		return err
	}

	m.Slow, m.Fast = slow, fast

	return nil
}

// Validate checks 1 <= Fast < Slow.
func (m *SMA) Validate() error {
	return validateParams(m.Name(), m)
}

// WarmUp returns Slow-1.
func (m *SMA) WarmUp() int {
	return m.Slow - 1
}

// Compute classifies every bar by comparing the two rolling means of close.
func (m *SMA) Compute(frame Frame) []types.Signal {
	return classifyPairs(crossoverRules, rollingMean(frame.Close, m.Fast), rollingMean(frame.Close, m.Slow))
}

func crossoverParams(name types.IndicatorType, params []any) (int, int, error) {
	if err := expectParams(name, params, "slow", "fast"); err != nil {
		return 0, 0, err
	}

	slow, err := intParam(name, params, 0, "slow")
	if err != nil {
		return 0, 0, err
	}

	fast, err := intParam(name, params, 1, "fast")
	if err != nil {
		return 0, 0, err
	}

	return slow, fast, nil
}

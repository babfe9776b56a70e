package indicator

import (
	"github.com/rxtech-lab/argo-screener/internal/types"
)

// MACD compares the MACD line (fast EMA minus slow EMA of close) with its
// signal line (an EMA of the MACD line).
type MACD struct {
	Slow   int `yaml:"slow" json:"slow" jsonschema:"title=Slow span,default=26,minimum=2" validate:"min=1"`
	Fast   int `yaml:"fast" json:"fast" jsonschema:"title=Fast span,default=12,minimum=1" validate:"min=1,ltfield=Slow"`
	Signal int `yaml:"signal" json:"signal" jsonschema:"title=Signal span,default=9,minimum=1" validate:"min=1"`
}

// NewMACD creates a new MACD indicator with default configuration.
func NewMACD() Indicator {
	return &MACD{
		Slow:   26,
		Fast:   12,
		Signal: 9,
	}
}

// Name returns the name of the indicator.
func (m *MACD) Name() types.IndicatorType {
	return types.IndicatorTypeMACD
}

// Config expects parameters: slow (int), fast (int), signal (int).
func (m *MACD) Config(params ...any) error {
	if err := expectParams(m.Name(), params, "slow", "fast", "signal"); err != nil {
		return err
	}

	values := make([]int, len(params))
	for i, field := range []string{"slow", "fast", "signal"} {
		v, err := intParam(m.Name(), params, i, field)
		if err != nil {
			return err
		}

		values[i] = v
	}

	m.Slow, m.Fast, m.Signal = values[0], values[1], values[2]

	return nil
}

// Validate checks 1 <= Fast < Slow and Signal >= 1.
func (m *MACD) Validate() error {
	return validateParams(m.Name(), m)
}

// WarmUp returns Slow-1 + Signal-1: the signal line only starts counting once
// the MACD line is defined.
func (m *MACD) WarmUp() int {
	return m.Slow - 1 + m.Signal - 1
}

// Lines returns the MACD line and its signal line.
func (m *MACD) Lines(close []float64) ([]float64, []float64) {
	fast := ema(close, m.Fast)
	slow := ema(close, m.Slow)

	line := undefinedSeries(len(close))
	for t := range line {
		if allDefined(fast[t], slow[t]) {
			line[t] = fast[t] - slow[t]
		}
	}

	return line, ema(line, m.Signal)
}

// Compute classifies every bar by sign(macd - signal).
func (m *MACD) Compute(frame Frame) []types.Signal {
	line, signal := m.Lines(frame.Close)

	return classifyPairs(comparisonRules, line, signal)
}

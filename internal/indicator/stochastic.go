package indicator

import (
	"github.com/rxtech-lab/argo-screener/internal/types"
)

// stochasticSmoothing is the %D window.
const stochasticSmoothing = 3

// Stochastic is the stochastic oscillator: %K against its 3-bar mean %D.
type Stochastic struct {
	Period int `yaml:"period" json:"period" jsonschema:"title=Lookback,default=12,minimum=1" validate:"min=1"`
}

// NewStochastic creates a new stochastic oscillator with default configuration.
func NewStochastic() Indicator {
	return &Stochastic{
		Period: 12,
	}
}

// Name returns the name of the indicator.
func (s *Stochastic) Name() types.IndicatorType {
	return types.IndicatorTypeStochastic
}

// Config expects parameters: period (int).
func (s *Stochastic) Config(params ...any) error {
	if err := expectParams(s.Name(), params, "period"); err != nil {
		return err
	}

	period, err := intParam(s.Name(), params, 0, "period")
	if err != nil {
		return err
	}

	s.Period = period

	return nil
}

// Validate checks Period >= 1.
func (s *Stochastic) Validate() error {
	return validateParams(s.Name(), s)
}

// WarmUp returns the bars before the first %D value.
func (s *Stochastic) WarmUp() int {
	return s.Period - 1 + stochasticSmoothing - 1
}

// Lines returns %K and %D. %K is undefined over a flat range.
func (s *Stochastic) Lines(frame Frame) ([]float64, []float64) {
	highest := rollingMax(frame.High, s.Period)
	lowest := rollingMin(frame.Low, s.Period)
	k := undefinedSeries(frame.Len())

	for t, c := range frame.Close {
		span := highest[t] - lowest[t]
		if !defined(span) || span == 0 {
			continue
		}

		k[t] = 100 * (c - lowest[t]) / span
	}

	return k, rollingMean(k, stochasticSmoothing)
}

// Compute classifies every bar by sign(%K - %D).
func (s *Stochastic) Compute(frame Frame) []types.Signal {
	k, d := s.Lines(frame)

	return classifyPairs(comparisonRules, k, d)
}

package indicator

import (
	"github.com/rxtech-lab/argo-screener/internal/types"
)

// BollingerBands implements the Indicator interface for Bollinger Bands.
// The band width uses the sample standard deviation of close.
type BollingerBands struct {
	Window     int     `yaml:"window" json:"window" jsonschema:"title=Window,default=20,minimum=2" validate:"min=2"`
	Multiplier float64 `yaml:"multiplier" json:"multiplier" jsonschema:"title=Standard deviations,default=2,exclusiveMinimum=0" validate:"gt=0"`
}

type bollingerInput struct {
	close, upper, lower float64
}

// bollingerRules: the lower breach is tried first and wins any overlap.
// A close exactly on a band is neutral.
var bollingerRules = Rules[bollingerInput]{
	{Name: "below lower band", When: func(in bollingerInput) bool { return in.close < in.lower }, Emit: buy},
	{Name: "above upper band", When: func(in bollingerInput) bool { return in.close > in.upper }, Emit: sell},
	{Name: "inside bands", When: always[bollingerInput], Emit: neutral},
}

// NewBollingerBands creates a new Bollinger Bands indicator with default configuration.
func NewBollingerBands() Indicator {
	return &BollingerBands{
		Window:     20,
		Multiplier: 2.0,
	}
}

// Name returns the name of the indicator.
func (bb *BollingerBands) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

// Config expects parameters: window (int), multiplier (float64).
func (bb *BollingerBands) Config(params ...any) error {
	if err := expectParams(bb.Name(), params, "window", "multiplier"); err != nil {
		return err
	}

	window, err := intParam(bb.Name(), params, 0, "window")
	if err != nil {
		return err
	}

	multiplier, err := floatParam(bb.Name(), params, 1, "multiplier")
	if err != nil {
		return err
	}

	bb.Window, bb.Multiplier = window, multiplier

	return nil
}

// Validate checks Window >= 2 and Multiplier > 0.
func (bb *BollingerBands) Validate() error {
	return validateParams(bb.Name(), bb)
}

// WarmUp returns Window-1.
func (bb *BollingerBands) WarmUp() int {
	return bb.Window - 1
}

// Bands returns the upper, middle and lower bands.
func (bb *BollingerBands) Bands(close []float64) (upper, middle, lower []float64) {
	middle = rollingMean(close, bb.Window)
	std := rollingStd(close, bb.Window)
	upper = undefinedSeries(len(close))
	lower = undefinedSeries(len(close))

	for t := range close {
		if !allDefined(middle[t], std[t]) {
			continue
		}

		width := bb.Multiplier * std[t]
		upper[t] = middle[t] + width
		lower[t] = middle[t] - width
	}

	return upper, middle, lower
}

// Compute classifies every bar: above the upper band is -1, below the lower
// band is +1, else 0.
func (bb *BollingerBands) Compute(frame Frame) []types.Signal {
	upper, _, lower := bb.Bands(frame.Close)
	out := make([]types.Signal, frame.Len())

	for t, c := range frame.Close {
		if !allDefined(c, upper[t], lower[t]) {
			continue
		}

		out[t] = bollingerRules.Classify(bollingerInput{close: c, upper: upper[t], lower: lower[t]})
	}

	return out
}

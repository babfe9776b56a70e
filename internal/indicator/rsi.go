package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-screener/internal/types"
)

const (
	rsiUpperThreshold = 70.0
	rsiLowerThreshold = 30.0
)

// RSI represents the Relative Strength Index indicator.
type RSI struct {
	Period int `yaml:"period" json:"period" jsonschema:"title=Period,default=14,minimum=1" validate:"min=1"`
}

// rsiRules: oversold is tried before overbought so it wins any overlap.
// Exactly 30 or 70 falls through to neutral.
var rsiRules = Rules[float64]{
	{Name: "oversold", When: func(v float64) bool { return v < rsiLowerThreshold }, Emit: buy},
	{Name: "overbought", When: func(v float64) bool { return v > rsiUpperThreshold }, Emit: sell},
	{Name: "neutral", When: always[float64], Emit: neutral},
}

// NewRSI creates a new RSI indicator with default configuration.
func NewRSI() Indicator {
	return &RSI{
		Period: 14,
	}
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Config expects parameters: period (int).
func (r *RSI) Config(params ...any) error {
	if err := expectParams(r.Name(), params, "period"); err != nil {
		return err
	}

	period, err := intParam(r.Name(), params, 0, "period")
	if err != nil {
		return err
	}

	r.Period = period

	return nil
}

// Validate checks Period >= 1.
func (r *RSI) Validate() error {
	return validateParams(r.Name(), r)
}

// WarmUp returns 1: the first bar has no price change.
func (r *RSI) WarmUp() int {
	return 1
}

// Values returns the RSI series. Wilder smoothing of gains and losses is
// seeded with the first price change; a point where both averages are zero
// is undefined.
func (r *RSI) Values(close []float64) []float64 {
	delta := diff(close)
	gain := undefinedSeries(len(close))
	loss := undefinedSeries(len(close))

	for t, d := range delta {
		if !defined(d) {
			continue
		}

		gain[t] = math.Max(d, 0)
		loss[t] = math.Max(-d, 0)
	}

	avgGain := wilder(gain, r.Period, 1)
	avgLoss := wilder(loss, r.Period, 1)

	out := undefinedSeries(len(close))
	for t := range out {
		total := avgGain[t] + avgLoss[t]
		if !defined(total) || total == 0 {
			continue
		}

		out[t] = 100 * avgGain[t] / total
	}

	return out
}

// Compute classifies every bar: below 30 is +1, above 70 is -1, else 0.
func (r *RSI) Compute(frame Frame) []types.Signal {
	values := r.Values(frame.Close)
	out := make([]types.Signal, len(values))

	for t, v := range values {
		if defined(v) {
			out[t] = rsiRules.Classify(v)
		}
	}

	return out
}

package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-screener/internal/types"
)

// adxWarmUpFactor times the period is the number of defined DX values needed
// before ADX is reported.
const adxWarmUpFactor = 3

// ADX classifies trend strength into five bands. Both edges of every band are
// strict, so values exactly on 20, 25, 50, 75 or at 100 and above are not
// computed.
type ADX struct {
	Period int `yaml:"period" json:"period" jsonschema:"title=Period,default=14,minimum=1" validate:"min=1"`
}

func between(low, high float64) func(float64) bool {
	return func(v float64) bool { return v > low && v < high }
}

var adxRules = Rules[float64]{
	{Name: "sideways", When: func(v float64) bool { return v < 20 }, Emit: types.BandSignal(types.TrendBandSideways)},
	{Name: "developing trend", When: between(20, 25), Emit: types.BandSignal(types.TrendBandDevelopingTrend)},
	{Name: "strong trend", When: between(25, 50), Emit: types.BandSignal(types.TrendBandStrongTrend)},
	{Name: "extremely strong trend", When: between(50, 75), Emit: types.BandSignal(types.TrendBandExtremelyStrongTrend)},
	{Name: "near exhaustion", When: between(75, 100), Emit: types.BandSignal(types.TrendBandNearExhaustion)},
}

// NewADX creates a new ADX indicator with default configuration.
func NewADX() Indicator {
	return &ADX{
		Period: 14,
	}
}

// Name returns the name of the indicator.
func (a *ADX) Name() types.IndicatorType {
	return types.IndicatorTypeADX
}

// Config expects parameters: period (int).
func (a *ADX) Config(params ...any) error {
	if err := expectParams(a.Name(), params, "period"); err != nil {
		return err
	}

	period, err := intParam(a.Name(), params, 0, "period")
	if err != nil {
		return err
	}

	a.Period = period

	return nil
}

// Validate checks Period >= 1.
func (a *ADX) Validate() error {
	return validateParams(a.Name(), a)
}

// WarmUp returns the minimum number of unclassified leading bars. DX is
// undefined until some directional movement occurs, so the real warm-up can
// be longer.
func (a *ADX) WarmUp() int {
	return adxWarmUpFactor * a.Period
}

// Values returns the ADX series.
func (a *ADX) Values(frame Frame) []float64 {
	atr := averageTrueRange(frame, a.Period)
	plusDM, minusDM := directionalMovement(frame)
	plus := wilder(plusDM, a.Period, 1)
	minus := wilder(minusDM, a.Period, 1)

	dx := undefinedSeries(frame.Len())
	for t := range dx {
		if !defined(atr[t]) || atr[t] == 0 {
			continue
		}

		plusDI := 100 * plus[t] / atr[t]
		minusDI := 100 * minus[t] / atr[t]

		if sum := plusDI + minusDI; sum != 0 {
			dx[t] = 100 * math.Abs(plusDI-minusDI) / sum
		}
	}

	return wilder(dx, a.Period, adxWarmUpFactor*a.Period)
}

// Compute classifies every bar into a trend-strength band.
func (a *ADX) Compute(frame Frame) []types.Signal {
	values := a.Values(frame)
	out := make([]types.Signal, len(values))

	for t, v := range values {
		if defined(v) {
			out[t] = adxRules.Classify(v)
		}
	}

	return out
}

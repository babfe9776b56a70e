package types

// IndicatorType names an indicator kind. The string form is the key used in
// configuration files and in the signal table header.
type IndicatorType string

const (
	IndicatorTypeSMA            IndicatorType = "sma"
	IndicatorTypeEMA            IndicatorType = "ema"
	IndicatorTypeRSI            IndicatorType = "rsi"
	IndicatorTypeMACD           IndicatorType = "macd"
	IndicatorTypeBollingerBands IndicatorType = "bollinger_bands"
	IndicatorTypeStochastic     IndicatorType = "stochastic"
	IndicatorTypeADX            IndicatorType = "adx"
)

// IndicatorTypes lists every supported indicator in canonical order.
var IndicatorTypes = []IndicatorType{
	IndicatorTypeSMA,
	IndicatorTypeEMA,
	IndicatorTypeRSI,
	IndicatorTypeMACD,
	IndicatorTypeBollingerBands,
	IndicatorTypeStochastic,
	IndicatorTypeADX,
}

// IsValid reports whether t is a supported indicator.
func (t IndicatorType) IsValid() bool {
	for _, known := range IndicatorTypes {
		if known == t {
			return true
		}
	}

	return false
}

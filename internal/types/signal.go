package types

import (
	"strconv"

	"github.com/moznion/go-optional"
)

// Direction is the class emitted by directional indicators.
type Direction int

const (
	// DirectionSell means bearish or overbought
	DirectionSell Direction = -1
	// DirectionNeutral means no actionable condition
	DirectionNeutral Direction = 0
	// DirectionBuy means bullish or oversold
	DirectionBuy Direction = 1
)

// TrendBand is the trend-strength label emitted by ADX.
type TrendBand string

const (
	TrendBandSideways             TrendBand = "sideways"
	TrendBandDevelopingTrend      TrendBand = "developing trend"
	TrendBandStrongTrend          TrendBand = "strong trend"
	TrendBandExtremelyStrongTrend TrendBand = "extremely strong trend"
	TrendBandNearExhaustion       TrendBand = "near exhaustion"
)

// Signal is one cell of the signal table. It holds either a Direction, a
// TrendBand, or nothing at all when the value could not be computed at that
// timestamp (warm-up, flat range, boundary value). The zero Signal is not
// computed.
type Signal struct {
	direction optional.Option[Direction]
	band      optional.Option[TrendBand]
}

// NotComputed returns the explicit "not computed" marker.
func NotComputed() Signal {
	return Signal{}
}

// DirectionSignal returns a computed directional signal.
func DirectionSignal(d Direction) Signal {
	return Signal{direction: optional.Some(d)}
}

// BandSignal returns a computed trend-strength signal.
func BandSignal(b TrendBand) Signal {
	return Signal{band: optional.Some(b)}
}

// IsComputed reports whether the cell carries a value.
func (s Signal) IsComputed() bool {
	return s.direction.IsSome() || s.band.IsSome()
}

// Direction returns the directional class, if any.
func (s Signal) Direction() (Direction, bool) {
	d, err := s.direction.Take()
	if err != nil {
		return DirectionNeutral, false
	}

	return d, true
}

// Band returns the trend band, if any.
func (s Signal) Band() (TrendBand, bool) {
	b, err := s.band.Take()
	if err != nil {
		return "", false
	}

	return b, true
}

// String renders the cell for tabular output. Not computed cells render empty.
func (s Signal) String() string {
	if d, ok := s.Direction(); ok {
		return strconv.Itoa(int(d))
	}

	if b, ok := s.Band(); ok {
		return string(b)
	}

	return ""
}

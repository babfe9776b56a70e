package types

import (
	"math"
	"time"

	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

// MarketData is one OHLCV bar of an instrument.
type MarketData struct {
	Id     string    `csv:"id"`
	Symbol string    `csv:"symbol"`
	Time   time.Time `csv:"time"`
	Open   float64   `csv:"open"`
	High   float64   `csv:"high"`
	Low    float64   `csv:"low"`
	Close  float64   `csv:"close"`
	Volume float64   `csv:"volume"`
}

// Validate checks that every price is finite and that the OHLC relations hold:
// High is the largest price of the bar and Low the smallest.
func (m MarketData) Validate() error {
	for _, v := range []float64{m.Open, m.High, m.Low, m.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Newf(errors.ErrCodeInvalidBar, "bar %s at %s has a non-finite price", m.Symbol, m.Time.Format(time.RFC3339))
		}
	}

	if m.High < m.Low || m.High < m.Open || m.High < m.Close || m.Low > m.Open || m.Low > m.Close {
		return errors.Newf(errors.ErrCodeInvalidBar,
			"bar %s at %s violates OHLC bounds (o=%g h=%g l=%g c=%g)",
			m.Symbol, m.Time.Format(time.RFC3339), m.Open, m.High, m.Low, m.Close)
	}

	return nil
}

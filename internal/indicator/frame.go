package indicator

import (
	"math"
	"time"

	"github.com/rxtech-lab/argo-screener/internal/types"
)

// Frame is the per-instrument working set every indicator reads from.
type Frame struct {
	Time  []time.Time
	Open  []float64
	High  []float64
	Low   []float64
	Close []float64
	// Returns is the simple return close[t]/close[t-1], undefined (NaN) at t=0.
	Returns []float64
}

// NewFrame derives the working frame from an OHLC series.
func NewFrame(bars []types.MarketData) Frame {
	n := len(bars)
	frame := Frame{
		Time:    make([]time.Time, n),
		Open:    make([]float64, n),
		High:    make([]float64, n),
		Low:     make([]float64, n),
		Close:   make([]float64, n),
		Returns: make([]float64, n),
	}

	for i, bar := range bars {
		frame.Time[i] = bar.Time
		frame.Open[i] = bar.Open
		frame.High[i] = bar.High
		frame.Low[i] = bar.Low
		frame.Close[i] = bar.Close

		if i == 0 {
			frame.Returns[i] = math.NaN()
			continue
		}

		frame.Returns[i] = bar.Close / bars[i-1].Close
	}

	return frame
}

// Len returns the number of bars in the frame.
func (f Frame) Len() int {
	return len(f.Close)
}

package indicator

import (
	"math/rand/v2"
	"time"

	"github.com/rxtech-lab/argo-screener/internal/types"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// barsFromCloses builds hourly bars whose open is the previous close and
// whose high/low sit one unit around the body.
func barsFromCloses(closes ...float64) []types.MarketData {
	bars := make([]types.MarketData, len(closes))

	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}

		bars[i] = types.MarketData{
			Symbol: "TEST",
			Time:   testStart.Add(time.Duration(i) * time.Hour),
			Open:   open,
			High:   max(open, c) + 1,
			Low:    min(open, c) - 1,
			Close:  c,
		}
	}

	return bars
}

func uptrendFrame(n int) Frame {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	return NewFrame(barsFromCloses(closes...))
}

func flatFrame(n int) Frame {
	bars := make([]types.MarketData, n)
	for i := range bars {
		bars[i] = types.MarketData{
			Symbol: "FLAT",
			Time:   testStart.Add(time.Duration(i) * time.Hour),
			Open:   100,
			High:   100,
			Low:    100,
			Close:  100,
		}
	}

	return NewFrame(bars)
}

// alternatingFrame moves roughly +1%/-1% bar over bar: even bars close at 100
// inside [99, 101], odd bars close at 101 inside [100, 102].
func alternatingFrame(n int) Frame {
	bars := make([]types.MarketData, n)
	prev := 100.0

	for i := range bars {
		bar := types.MarketData{Symbol: "ALT", Time: testStart.Add(time.Duration(i) * time.Hour), Open: prev}
		if i%2 == 0 {
			bar.High, bar.Low, bar.Close = 101, 99, 100
		} else {
			bar.High, bar.Low, bar.Close = 102, 100, 101
		}

		bars[i] = bar
		prev = bar.Close
	}

	return NewFrame(bars)
}

func directions(signals []types.Signal) []any {
	out := make([]any, len(signals))

	for i, s := range signals {
		if d, ok := s.Direction(); ok {
			out[i] = int(d)
		}
	}

	return out
}

// randomWalkFrame is a reproducible random walk with valid OHLC bars.
func randomWalkFrame(n int, seed uint64) Frame {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	closes := make([]float64, n)
	price := 100.0

	for i := range closes {
		price *= 1 + (rng.Float64()-0.5)*0.04
		closes[i] = price
	}

	return NewFrame(barsFromCloses(closes...))
}

package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-screener/internal/types"
)

// DataGenerator generates market data for tests: random walks that look like
// real FX bars, plus fixed shapes whose indicator values are known.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how market data is generated.
type GeneratorConfig struct {
	// Symbol is the instrument (e.g., "EURUSD=X")
	Symbol string
	// StartTime is the beginning of the data series
	StartTime time.Time
	// Interval is the duration between each bar
	Interval time.Duration
	// Count is the number of data points to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% per bar)
	Volatility float64
	// Trend is the drift factor (-0.01 to 0.01 for bearish to bullish)
	Trend float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns one month of hourly bars.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "TEST",
		StartTime:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:       time.Hour,
		Count:          500,
		InitialPrice:   100.0,
		Volatility:     0.002, // 0.2% per bar
		Trend:          0.0,   // neutral
		VolumeBase:     10000,
		VolumeVariance: 0.3,
	}
}

// Generate creates a slice of MarketData based on the configuration.
// The generated data follows a geometric Brownian motion model for realistic price movements.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.MarketData {
	data := make([]types.MarketData, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	for i := 0; i < config.Count; i++ {
		open := currentPrice

		// Box-Muller transform for a normal draw
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		priceChange := config.Volatility * z
		drift := config.Trend / float64(config.Count)

		close := open * (1 + priceChange + drift)
		if close <= 0 {
			close = open * 0.99
		}

		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, close) + highExtension
		low := math.Min(open, close) - lowExtension
		if low <= 0 {
			low = math.Min(open, close) * 0.99
		}

		volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance
		volume := config.VolumeBase * volumeVariation
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		data[i] = types.MarketData{
			Id:     "",
			Symbol: config.Symbol,
			Time:   currentTime,
			Open:   roundToDecimals(open, 4),
			High:   roundToDecimals(high, 4),
			Low:    roundToDecimals(low, 4),
			Close:  roundToDecimals(close, 4),
			Volume: roundToDecimals(volume, 2),
		}

		currentPrice = close
		currentTime = currentTime.Add(config.Interval)
	}

	return data
}

// GenerateAligned generates one series per symbol on the same timestamps,
// the shape the screener expects.
func (g *DataGenerator) GenerateAligned(symbols []string, baseConfig GeneratorConfig) map[string][]types.MarketData {
	series := make(map[string][]types.MarketData, len(symbols))

	for _, symbol := range symbols {
		config := baseConfig
		config.Symbol = symbol
		// Vary initial price and volatility slightly per symbol
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		series[symbol] = g.Generate(config)
	}

	return series
}

// Uptrend returns count bars closing at 100, 101, 102, ... Each bar opens at
// the previous close and spans one unit around its body.
func Uptrend(symbol string, start time.Time, interval time.Duration, count int) []types.MarketData {
	closes := make([]float64, count)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	return FromCloses(symbol, start, interval, closes...)
}

// Flat returns count bars with every price at 100.
func Flat(symbol string, start time.Time, interval time.Duration, count int) []types.MarketData {
	data := make([]types.MarketData, count)
	for i := range data {
		data[i] = types.MarketData{Symbol: symbol, Time: start.Add(time.Duration(i) * interval), Open: 100, High: 100, Low: 100, Close: 100}
	}

	return data
}

// Alternating returns bars moving about +1%/-1% bar over bar: even bars
// close at 100 inside [99, 101], odd bars close at 101 inside [100, 102].
func Alternating(symbol string, start time.Time, interval time.Duration, count int) []types.MarketData {
	data := make([]types.MarketData, count)
	prev := 100.0

	for i := range data {
		bar := types.MarketData{Symbol: symbol, Time: start.Add(time.Duration(i) * interval), Open: prev}
		if i%2 == 0 {
			bar.High, bar.Low, bar.Close = 101, 99, 100
		} else {
			bar.High, bar.Low, bar.Close = 102, 100, 101
		}

		data[i] = bar
		prev = bar.Close
	}

	return data
}

// FromCloses builds bars from a close series.
func FromCloses(symbol string, start time.Time, interval time.Duration, closes ...float64) []types.MarketData {
	data := make([]types.MarketData, len(closes))

	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}

		data[i] = types.MarketData{
			Symbol: symbol,
			Time:   start.Add(time.Duration(i) * interval),
			Open:   open,
			High:   math.Max(open, c) + 1,
			Low:    math.Min(open, c) - 1,
			Close:  c,
		}
	}

	return data
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}

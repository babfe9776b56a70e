package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderYahoo   ProviderType = "yahoo"
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
	ProviderDuckDB  ProviderType = "duckdb"
	ProviderCSV     ProviderType = "csv"
)

// ProviderTypes lists every supported provider.
var ProviderTypes = []ProviderType{
	ProviderYahoo,
	ProviderPolygon,
	ProviderBinance,
	ProviderDuckDB,
	ProviderCSV,
}

// Request describes one instrument's bar download. The bar width is
// Multiplier x Timespan, e.g. 1 x hour or 90 x minute.
type Request struct {
	Ticker     string
	Start      time.Time
	End        time.Time
	Multiplier int
	Timespan   models.Timespan
}

// Validate checks the request before it reaches a remote API.
func (r Request) Validate() error {
	if r.Ticker == "" {
		return errors.New(errors.ErrCodeMissingParameter, "ticker is required")
	}

	if r.Multiplier < 1 {
		return errors.Newf(errors.ErrCodeInvalidInterval, "multiplier must be positive, got %d", r.Multiplier)
	}

	if !r.End.After(r.Start) {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "end %s is not after start %s",
			r.End.Format(time.RFC3339), r.Start.Format(time.RFC3339))
	}

	return nil
}

// Options carries the settings a provider may need. Unused fields are ignored.
type Options struct {
	// APIKey authenticates against polygon.
	APIKey string
	// DataPath is the local file read by the duckdb and csv providers.
	DataPath string
	// BaseURL overrides the remote endpoint (yahoo, binance).
	BaseURL string
	// Timeout bounds each HTTP request. Zero means the provider default.
	Timeout time.Duration
}

// Provider downloads historical bars for a single instrument.
type Provider interface {
	// Fetch returns the bars of req.Ticker within [req.Start, req.End),
	// ascending by time. Cancelling ctx aborts the download.
	// example:
	// Fetch(ctx, Request{Ticker: "AAPL", Start: start, End: end, Multiplier: 1, Timespan: models.Hour})
	Fetch(ctx context.Context, req Request) ([]types.MarketData, error)
}

// NewMarketDataProvider creates a new market data provider based on the provider type.
func NewMarketDataProvider(providerType ProviderType, opts Options) (Provider, error) {
	switch providerType {
	case ProviderYahoo:
		return NewYahooClient(opts), nil
	case ProviderPolygon:
		return NewPolygonClient(opts.APIKey)
	case ProviderBinance:
		return NewBinanceClient(opts), nil
	case ProviderDuckDB:
		return NewDuckDBClient(opts.DataPath)
	case ProviderCSV:
		return NewCSVClient(opts.DataPath)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}

// intervalLabel renders a bar width in the compact form used by yahoo
// ("1h", "90m", "1wk", "3mo").
func intervalLabel(multiplier int, timespan models.Timespan) (string, error) {
	switch timespan {
	case models.Minute:
		return fmt.Sprintf("%dm", multiplier), nil
	case models.Hour:
		return fmt.Sprintf("%dh", multiplier), nil
	case models.Day:
		return fmt.Sprintf("%dd", multiplier), nil
	case models.Week:
		return fmt.Sprintf("%dwk", multiplier), nil
	case models.Month:
		return fmt.Sprintf("%dmo", multiplier), nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidInterval, "unsupported timespan: %s", timespan)
	}
}

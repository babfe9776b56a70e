package provider

import (
	"context"
	"os"
	"sort"

	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

// CSVClient reads bars from a local CSV file with a header row of
// id,symbol,time,open,high,low,close,volume (id optional, time in RFC3339).
// Bars are returned at the width they were recorded with. Rows with an empty
// symbol belong to every ticker, so single-instrument files need no symbol column.
type CSVClient struct {
	path string
}

// NewCSVClient creates a CSV provider reading path.
func NewCSVClient(path string) (Provider, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "csv provider requires a data path")
	}

	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "csv file %s", path)
	}

	return &CSVClient{path: path}, nil
}

// Fetch implements Provider.
func (c *CSVClient) Fetch(ctx context.Context, req Request) ([]types.MarketData, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(c.path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "csv file %s", c.path)
	}
	defer file.Close()

	var rows []*types.MarketData
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "csv file %s", c.path)
	}

	bars := make([]types.MarketData, 0, len(rows))

	for _, row := range rows {
		if row.Symbol != "" && row.Symbol != req.Ticker {
			continue
		}

		if row.Time.Before(req.Start) || !row.Time.Before(req.End) {
			continue
		}

		bar := *row
		bar.Symbol = req.Ticker
		bar.Time = bar.Time.UTC()
		bars = append(bars, bar)
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	return bars, nil
}

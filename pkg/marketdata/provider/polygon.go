package provider

import (
	"context"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

const polygonPageLimit = 50000

// PolygonAggsIterator is the subset of the polygon aggregate iterator used here.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// PolygonAPIClient is the subset of the polygon REST client used here.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator
}

type polygonRESTClient struct {
	client *polygon.Client
}

func (p *polygonRESTClient) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator {
	return p.client.ListAggs(ctx, params, options...)
}

// PolygonClient downloads aggregates from polygon.io.
type PolygonClient struct {
	apiClient PolygonAPIClient
}

// NewPolygonClient creates a polygon provider. The API key is required.
func NewPolygonClient(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "polygon provider requires an api key")
	}

	return &PolygonClient{
		apiClient: &polygonRESTClient{client: polygon.New(apiKey)},
	}, nil
}

// NewPolygonClientWithAPI creates a polygon provider around an existing API client.
func NewPolygonClientWithAPI(apiClient PolygonAPIClient) *PolygonClient {
	return &PolygonClient{apiClient: apiClient}
}

// Fetch implements Provider.
func (c *PolygonClient) Fetch(ctx context.Context, req Request) ([]types.MarketData, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     req.Ticker,
		Multiplier: req.Multiplier,
		Timespan:   req.Timespan,
		From:       models.Millis(req.Start),
		To:         models.Millis(req.End),
	}.WithOrder(models.Asc).WithLimit(polygonPageLimit)

	it := c.apiClient.ListAggs(ctx, params)

	var bars []types.MarketData

	for it.Next() {
		agg := it.Item()

		ts := time.Time(agg.Timestamp)
		if !ts.Before(req.End) {
			continue
		}

		bars = append(bars, types.MarketData{
			Id:     "",
			Symbol: req.Ticker,
			Time:   ts.UTC(),
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		})
	}

	if err := it.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "polygon aggregates for %s", req.Ticker)
	}

	return bars, nil
}

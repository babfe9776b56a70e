package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	codes "github.com/rxtech-lab/argo-screener/pkg/errors"
	"github.com/stretchr/testify/suite"
)

// mockPolygonAPIClient implements PolygonAPIClient for testing.
type mockPolygonAPIClient struct {
	iterator   PolygonAggsIterator
	lastParams *models.ListAggsParams
}

func (m *mockPolygonAPIClient) ListAggs(_ context.Context, params *models.ListAggsParams, _ ...models.RequestOption) PolygonAggsIterator {
	m.lastParams = params
	return m.iterator
}

// mockPolygonIterator implements PolygonAggsIterator for testing.
type mockPolygonIterator struct {
	aggs  []models.Agg
	index int
	err   error
}

func (m *mockPolygonIterator) Next() bool {
	if m.index < len(m.aggs) {
		m.index++
		return true
	}
	return false
}

func (m *mockPolygonIterator) Item() models.Agg {
	if m.index > 0 && m.index <= len(m.aggs) {
		return m.aggs[m.index-1]
	}
	return models.Agg{}
}

func (m *mockPolygonIterator) Err() error {
	return m.err
}

func agg(ts time.Time, open, high, low, closePrice, volume float64) models.Agg {
	return models.Agg{
		Timestamp: models.Millis(ts),
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closePrice,
		Volume:    volume,
	}
}

type PolygonClientTestSuite struct {
	suite.Suite
}

func TestPolygonClientSuite(t *testing.T) {
	suite.Run(t, new(PolygonClientTestSuite))
}

func (suite *PolygonClientTestSuite) TestNewPolygonClient() {
	client, err := NewPolygonClient("test-api-key")
	suite.NoError(err)

	polygonClient, ok := client.(*PolygonClient)
	suite.True(ok)
	suite.NotNil(polygonClient.apiClient)

	_, err = NewPolygonClient("")
	suite.True(codes.HasCode(err, codes.ErrCodeMissingParameter))
}

func (suite *PolygonClientTestSuite) TestFetch() {
	req := validRequest()
	iterator := &mockPolygonIterator{aggs: []models.Agg{
		agg(req.Start, 100, 101, 99, 100.5, 1000),
		agg(req.Start.Add(time.Hour), 100.5, 102, 100, 101.5, 1500),
		agg(req.End, 1, 1, 1, 1, 1),
	}}
	api := &mockPolygonAPIClient{iterator: iterator}

	bars, err := NewPolygonClientWithAPI(api).Fetch(context.Background(), req)
	suite.Require().NoError(err)

	suite.Require().NotNil(api.lastParams)
	suite.Equal("AAPL", api.lastParams.Ticker)
	suite.Equal(1, api.lastParams.Multiplier)
	suite.Equal(models.Hour, api.lastParams.Timespan)

	// The bar stamped at End lies outside the half-open window.
	suite.Require().Len(bars, 2)
	suite.Equal(req.Start, bars[0].Time)
	suite.Equal(100.5, bars[0].Close)
	suite.Equal("AAPL", bars[1].Symbol)
	suite.Equal(1500.0, bars[1].Volume)
}

func (suite *PolygonClientTestSuite) TestFetchIteratorError() {
	api := &mockPolygonAPIClient{iterator: &mockPolygonIterator{err: errors.New("rate limited")}}

	_, err := NewPolygonClientWithAPI(api).Fetch(context.Background(), validRequest())
	suite.True(codes.HasCode(err, codes.ErrCodeMarketDataFetchFailed))
	suite.Contains(err.Error(), "rate limited")
}

func (suite *PolygonClientTestSuite) TestFetchInvalidRequest() {
	api := &mockPolygonAPIClient{iterator: &mockPolygonIterator{}}
	req := validRequest()
	req.Ticker = ""

	_, err := NewPolygonClientWithAPI(api).Fetch(context.Background(), req)
	suite.True(codes.HasCode(err, codes.ErrCodeMissingParameter))
	suite.Nil(api.lastParams)
}

package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"github.com/stretchr/testify/suite"
)

const yahooChartBody = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "AAPL", "currency": "USD", "exchangeTimezoneName": "America/New_York"},
      "timestamp": [1704074400, 1704070800, 1704078000],
      "indicators": {"quote": [{
        "open":   [101.0, 100.0, null],
        "high":   [102.0, 101.0, 103.0],
        "low":    [100.5, 99.0, 101.0],
        "close":  [101.5, 100.5, 102.0],
        "volume": [2000, null, 3000]
      }]}
    }],
    "error": null
  }
}`

type YahooClientTestSuite struct {
	suite.Suite
	server      *httptest.Server
	lastPath    string
	lastRequest *http.Request
	status      int
	body        string
}

func TestYahooClientSuite(t *testing.T) {
	suite.Run(t, new(YahooClientTestSuite))
}

func (suite *YahooClientTestSuite) SetupTest() {
	suite.status = http.StatusOK
	suite.body = yahooChartBody
	suite.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		suite.lastPath = r.URL.Path
		suite.lastRequest = r
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(suite.status)
		_, _ = w.Write([]byte(suite.body))
	}))
}

func (suite *YahooClientTestSuite) TearDownTest() {
	suite.server.Close()
}

func (suite *YahooClientTestSuite) client() Provider {
	return NewYahooClient(Options{BaseURL: suite.server.URL, Timeout: 5 * time.Second})
}

func (suite *YahooClientTestSuite) TestFetch() {
	req := validRequest()

	bars, err := suite.client().Fetch(context.Background(), req)
	suite.Require().NoError(err)

	suite.Equal("/v8/finance/chart/AAPL", suite.lastPath)
	query := suite.lastRequest.URL.Query()
	suite.Equal("1h", query.Get("interval"))
	suite.Equal("1704067200", query.Get("period1"))
	suite.Equal("1704153600", query.Get("period2"))
	suite.Equal("false", query.Get("includePrePost"))

	// The null open is dropped and the rest is sorted ascending.
	suite.Require().Len(bars, 2)
	suite.Equal(time.Unix(1704070800, 0).UTC(), bars[0].Time)
	suite.Equal(100.0, bars[0].Open)
	suite.Equal(0.0, bars[0].Volume)
	suite.Equal(time.Unix(1704074400, 0).UTC(), bars[1].Time)
	suite.Equal(101.5, bars[1].Close)
	suite.Equal(2000.0, bars[1].Volume)
	suite.Equal("AAPL", bars[1].Symbol)
}

func (suite *YahooClientTestSuite) TestFetchChartError() {
	suite.status = http.StatusNotFound
	suite.body = `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`

	_, err := suite.client().Fetch(context.Background(), validRequest())
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataFetchFailed))
	suite.Contains(err.Error(), "symbol may be delisted")
}

func (suite *YahooClientTestSuite) TestFetchServerError() {
	suite.status = http.StatusInternalServerError
	suite.body = `{}`

	_, err := suite.client().Fetch(context.Background(), validRequest())
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataFetchFailed))
	suite.Contains(err.Error(), "500")
}

func (suite *YahooClientTestSuite) TestFetchEmptyResult() {
	suite.body = `{"chart":{"result":[],"error":null}}`

	_, err := suite.client().Fetch(context.Background(), validRequest())
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotFound))
}

func (suite *YahooClientTestSuite) TestFetchMismatchedArrays() {
	suite.body = `{"chart":{"result":[{"timestamp":[1,2],"indicators":{"quote":[{"open":[1],"high":[1],"low":[1],"close":[1]}]}}],"error":null}}`

	_, err := suite.client().Fetch(context.Background(), validRequest())
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataParseFailed))
}

func (suite *YahooClientTestSuite) TestFetchUnsupportedTimespan() {
	req := validRequest()
	req.Timespan = models.Quarter

	_, err := suite.client().Fetch(context.Background(), req)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidInterval))
}

func (suite *YahooClientTestSuite) TestFetchCancelled() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := suite.client().Fetch(ctx, validRequest())
	suite.Error(err)
}

package provider

import (
	"context"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

// DefaultYahooBaseURL is the public Yahoo Finance chart host.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

const (
	yahooChartPath      = "/v8/finance/chart/{ticker}"
	yahooDefaultTimeout = 30 * time.Second
	yahooUserAgent      = "Mozilla/5.0 (compatible; argo-screener)"
)

// YahooClient downloads bars from the Yahoo Finance chart API.
type YahooClient struct {
	http *resty.Client
}

// NewYahooClient creates a Yahoo provider. opts.BaseURL points it at another
// host, which tests use for a local server.
func NewYahooClient(opts Options) Provider {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = yahooDefaultTimeout
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", yahooUserAgent).
		SetHeader("Accept", "application/json")

	return &YahooClient{http: client}
}

type yahooChartResponse struct {
	Chart struct {
		Result []yahooChartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type yahooChartResult struct {
	Meta struct {
		Symbol   string `json:"symbol"`
		Currency string `json:"currency"`
		Timezone string `json:"exchangeTimezoneName"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// Fetch implements Provider.
func (c *YahooClient) Fetch(ctx context.Context, req Request) ([]types.MarketData, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	interval, err := intervalLabel(req.Multiplier, req.Timespan)
	if err != nil {
		return nil, err
	}

	var body yahooChartResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("ticker", req.Ticker).
		SetQueryParams(map[string]string{
			"period1":        strconv.FormatInt(req.Start.Unix(), 10),
			"period2":        strconv.FormatInt(req.End.Unix(), 10),
			"interval":       interval,
			"includePrePost": "false",
		}).
		SetResult(&body).
		SetError(&body).
		Get(yahooChartPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "yahoo request for %s failed", req.Ticker)
	}

	if body.Chart.Error != nil {
		return nil, errors.Newf(errors.ErrCodeMarketDataFetchFailed, "yahoo error for %s: %s: %s",
			req.Ticker, body.Chart.Error.Code, body.Chart.Error.Description)
	}

	if resp.IsError() {
		return nil, errors.Newf(errors.ErrCodeMarketDataFetchFailed, "yahoo returned status %d for %s", resp.StatusCode(), req.Ticker)
	}

	return parseYahooChart(req.Ticker, body)
}

// parseYahooChart flattens the columnar chart payload into bars. Points with
// any null OHLC field are skipped; a null volume counts as zero.
func parseYahooChart(ticker string, body yahooChartResponse) ([]types.MarketData, error) {
	if len(body.Chart.Result) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "yahoo returned no result for %s", ticker)
	}

	result := body.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "yahoo returned no bars for %s", ticker)
	}

	quote := result.Indicators.Quote[0]
	n := len(result.Timestamp)

	if len(quote.Open) != n || len(quote.High) != n || len(quote.Low) != n || len(quote.Close) != n {
		return nil, errors.Newf(errors.ErrCodeMarketDataParseFailed,
			"yahoo quote arrays for %s do not match %d timestamps", ticker, n)
	}

	bars := make([]types.MarketData, 0, n)

	for i, ts := range result.Timestamp {
		if quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil || quote.Close[i] == nil {
			continue
		}

		volume := 0.0
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			volume = *quote.Volume[i]
		}

		bars = append(bars, types.MarketData{
			Id:     "",
			Symbol: ticker,
			Time:   time.Unix(ts, 0).UTC(),
			Open:   *quote.Open[i],
			High:   *quote.High[i],
			Low:    *quote.Low[i],
			Close:  *quote.Close[i],
			Volume: finiteOrZero(volume),
		})
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	return bars, nil
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	return v
}

package provider

import (
	"context"
	"fmt"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"github.com/shopspring/decimal"
)

// binancePageSize is the number of klines binance returns per request by default.
const binancePageSize = 500

// BinanceKlinesService is the subset of the binance klines request builder used here.
type BinanceKlinesService interface {
	Symbol(symbol string) BinanceKlinesService
	Interval(interval string) BinanceKlinesService
	StartTime(startTime int64) BinanceKlinesService
	EndTime(endTime int64) BinanceKlinesService
	Do(ctx context.Context) ([]*binance.Kline, error)
}

// BinanceAPIClient is the subset of the binance client used here.
type BinanceAPIClient interface {
	NewKlinesService() BinanceKlinesService
}

type binanceRESTClient struct {
	client *binance.Client
}

func (b *binanceRESTClient) NewKlinesService() BinanceKlinesService {
	return &binanceKlinesRequest{service: b.client.NewKlinesService()}
}

type binanceKlinesRequest struct {
	service *binance.KlinesService
}

func (r *binanceKlinesRequest) Symbol(symbol string) BinanceKlinesService {
	r.service.Symbol(symbol)
	return r
}

func (r *binanceKlinesRequest) Interval(interval string) BinanceKlinesService {
	r.service.Interval(interval)
	return r
}

func (r *binanceKlinesRequest) StartTime(startTime int64) BinanceKlinesService {
	r.service.StartTime(startTime)
	return r
}

func (r *binanceKlinesRequest) EndTime(endTime int64) BinanceKlinesService {
	r.service.EndTime(endTime)
	return r
}

func (r *binanceKlinesRequest) Do(ctx context.Context) ([]*binance.Kline, error) {
	return r.service.Do(ctx)
}

// BinanceClient downloads klines from the binance spot API. No key is needed
// for public market data.
type BinanceClient struct {
	apiClient BinanceAPIClient
}

// NewBinanceClient creates a binance provider. opts.BaseURL overrides the API host.
func NewBinanceClient(opts Options) Provider {
	client := binance.NewClient("", "")
	if opts.BaseURL != "" {
		client.BaseURL = opts.BaseURL
	}

	return &BinanceClient{apiClient: &binanceRESTClient{client: client}}
}

// NewBinanceClientWithAPI creates a binance provider around an existing API client.
func NewBinanceClientWithAPI(apiClient BinanceAPIClient) *BinanceClient {
	return &BinanceClient{apiClient: apiClient}
}

// Fetch implements Provider. Requests are paged by advancing the start time
// past the close of the last kline received.
func (c *BinanceClient) Fetch(ctx context.Context, req Request) ([]types.MarketData, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	interval, err := binanceInterval(req.Timespan, req.Multiplier)
	if err != nil {
		return nil, err
	}

	endMillis := req.End.UnixMilli() - 1
	cursor := req.Start.UnixMilli()

	var bars []types.MarketData

	for cursor <= endMillis {
		klines, err := c.apiClient.NewKlinesService().
			Symbol(req.Ticker).
			Interval(interval).
			StartTime(cursor).
			EndTime(endMillis).
			Do(ctx)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "binance klines for %s", req.Ticker)
		}

		for _, k := range klines {
			bar, err := klineToMarketData(req.Ticker, k)
			if err != nil {
				return nil, err
			}

			bars = append(bars, bar)
		}

		if len(klines) < binancePageSize {
			break
		}

		cursor = klines[len(klines)-1].CloseTime + 1
	}

	return bars, nil
}

// klineToMarketData converts a kline, whose prices are decimal strings, into a bar.
func klineToMarketData(ticker string, k *binance.Kline) (types.MarketData, error) {
	fields := []string{k.Open, k.High, k.Low, k.Close, k.Volume}
	values := make([]float64, len(fields))

	for i, field := range fields {
		d, err := decimal.NewFromString(field)
		if err != nil {
			return types.MarketData{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err,
				"binance kline for %s at %d has malformed value %q", ticker, k.OpenTime, field)
		}

		values[i] = d.InexactFloat64()
	}

	return types.MarketData{
		Id:     "",
		Symbol: ticker,
		Time:   time.UnixMilli(k.OpenTime).UTC(),
		Open:   values[0],
		High:   values[1],
		Low:    values[2],
		Close:  values[3],
		Volume: values[4],
	}, nil
}

// binanceInterval converts a bar width into a binance interval string.
// Binance intervals: 1m, 3m, 5m, 15m, 30m, 1h, 2h, 4h, 6h, 8h, 12h, 1d, 3d, 1w, 1M
// Ref: https://binance-docs.github.io/apidocs/spot/en/#kline-candlestick-data
func binanceInterval(timespan models.Timespan, multiplier int) (string, error) {
	supported := map[models.Timespan][]int{
		models.Minute: {1, 3, 5, 15, 30},
		models.Hour:   {1, 2, 4, 6, 8, 12},
		models.Day:    {1, 3},
		models.Week:   {1},
		models.Month:  {1},
	}

	suffix := map[models.Timespan]string{
		models.Minute: "m",
		models.Hour:   "h",
		models.Day:    "d",
		models.Week:   "w",
		models.Month:  "M",
	}

	for _, m := range supported[timespan] {
		if m == multiplier {
			return fmt.Sprintf("%d%s", multiplier, suffix[timespan]), nil
		}
	}

	return "", errors.Newf(errors.ErrCodeInvalidInterval, "binance does not support %d %s bars", multiplier, timespan)
}

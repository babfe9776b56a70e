package marketdata

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-screener/internal/logger"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"github.com/rxtech-lab/argo-screener/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-screener/pkg/marketdata/writer"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultTimezone is the zone signal timestamps are reported in unless configured otherwise.
const DefaultTimezone = "Asia/Kolkata"

// DefaultConcurrency bounds the number of instruments downloaded at once.
const DefaultConcurrency = 4

// OnFetchProgress is called after each instrument has been downloaded and
// cleaned. Calls are serialized.
type OnFetchProgress = func(ticker string, fetched int, total int)

// FetchParams describes one run's download.
type FetchParams struct {
	Tickers  []string `validate:"required,min=1,unique,dive,required"`
	Interval Interval
	Period   Period
	// End closes the window. None means now.
	End optional.Option[time.Time]
}

// Dataset is the aligned input of a screener run.
type Dataset struct {
	// Instruments keeps the order the tickers were requested in.
	Instruments []string
	// Series holds one bar series per instrument, all sharing the same timestamps.
	Series map[string][]types.MarketData
	Start  time.Time
	End    time.Time
}

// Len returns the number of aligned timestamps.
func (d *Dataset) Len() int {
	if len(d.Instruments) == 0 {
		return 0
	}

	return len(d.Series[d.Instruments[0]])
}

// SupplierConfig holds the configuration for building a Supplier.
type SupplierConfig struct {
	ProviderType provider.ProviderType `validate:"required"`
	Options      provider.Options
	// Timezone is an IANA zone name. Empty means DefaultTimezone.
	Timezone    string
	Concurrency int `validate:"gte=0"`
	// SnapshotPath, when set, receives a parquet copy of the aligned bars.
	SnapshotPath string
}

// Supplier downloads, cleans and aligns the bars of every instrument of a run.
type Supplier struct {
	provider    provider.Provider
	location    *time.Location
	concurrency int
	snapshot    writer.MarketDataWriter
	onProgress  OnFetchProgress
	log         *logger.Logger
	validate    *validator.Validate
	now         func() time.Time
}

// NewSupplier creates a supplier over p reporting timestamps in location.
func NewSupplier(p provider.Provider, location *time.Location, log *logger.Logger) *Supplier {
	if location == nil {
		location = time.UTC
	}

	if log == nil {
		log = logger.NewNop()
	}

	return &Supplier{
		provider:    p,
		location:    location,
		concurrency: DefaultConcurrency,
		snapshot:    nil,
		onProgress:  nil,
		log:         log,
		validate:    validator.New(),
		now:         time.Now,
	}
}

// NewSupplierFromConfig validates cfg and builds the provider, time zone and
// optional snapshot writer it names.
func NewSupplierFromConfig(cfg SupplierConfig, log *logger.Logger) (*Supplier, error) {
	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid supplier configuration", err)
	}

	location, err := LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	p, err := provider.NewMarketDataProvider(cfg.ProviderType, cfg.Options)
	if err != nil {
		return nil, err
	}

	s := NewSupplier(p, location, log)

	if cfg.Concurrency > 0 {
		s.WithConcurrency(cfg.Concurrency)
	}

	if cfg.SnapshotPath != "" {
		s.WithSnapshot(writer.NewParquetWriter(cfg.SnapshotPath, s.log))
	}

	return s, nil
}

// LoadLocation resolves an IANA zone name. Empty means DefaultTimezone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}

	location, err := time.LoadLocation(name)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidTimezone, err, "unknown time zone %q", name)
	}

	return location, nil
}

// WithConcurrency bounds the number of parallel downloads.
func (s *Supplier) WithConcurrency(n int) *Supplier {
	if n > 0 {
		s.concurrency = n
	}

	return s
}

// WithSnapshot writes every aligned bar to w after a successful fetch.
func (s *Supplier) WithSnapshot(w writer.MarketDataWriter) *Supplier {
	s.snapshot = w

	return s
}

// WithProgress registers a progress callback.
func (s *Supplier) WithProgress(fn OnFetchProgress) *Supplier {
	s.onProgress = fn

	return s
}

// Location returns the zone timestamps are converted to.
func (s *Supplier) Location() *time.Location {
	return s.location
}

// Fetch downloads every ticker concurrently, cleans each series, converts
// its timestamps to the supplier's zone and keeps only the timestamps every
// instrument has. Any provider error, an instrument without valid bars or an
// empty intersection fails the whole fetch.
func (s *Supplier) Fetch(ctx context.Context, params FetchParams) (*Dataset, error) {
	if err := s.validateParams(params); err != nil {
		return nil, err
	}

	end := params.End.TakeOr(s.now())

	start, err := params.Period.Start(end)
	if err != nil {
		return nil, err
	}

	s.log.Info("Fetching market data",
		zap.Strings("tickers", params.Tickers),
		zap.String("interval", params.Interval.String()),
		zap.String("period", params.Period.String()),
		zap.Time("start", start),
		zap.Time("end", end),
	)

	results := make([][]types.MarketData, len(params.Tickers))

	var (
		mu      sync.Mutex
		fetched int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, ticker := range params.Tickers {
		g.Go(func() error {
			bars, err := s.provider.Fetch(gctx, provider.Request{
				Ticker:     ticker,
				Start:      start,
				End:        end,
				Multiplier: params.Interval.Multiplier(),
				Timespan:   params.Interval.Timespan(),
			})
			if err != nil {
				return fmt.Errorf("fetch %s: %w", ticker, err)
			}

			cleaned, dropped := CleanSeries(ticker, bars)
			if len(cleaned) == 0 {
				return errors.Newf(errors.ErrCodeEmptySeries, "no valid bars for %s between %s and %s",
					ticker, start.Format(time.RFC3339), end.Format(time.RFC3339))
			}

			results[i] = cleaned

			s.log.Debug("Fetched instrument",
				zap.String("ticker", ticker),
				zap.Int("bars", len(cleaned)),
				zap.Int("dropped", dropped),
			)

			mu.Lock()
			fetched++
			if s.onProgress != nil {
				s.onProgress(ticker, fetched, len(params.Tickers))
			}
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	series := make(map[string][]types.MarketData, len(params.Tickers))
	for i, ticker := range params.Tickers {
		series[ticker] = results[i]
	}

	aligned := AlignSeries(params.Tickers, series)
	if len(aligned[params.Tickers[0]]) == 0 {
		return nil, errors.New(errors.ErrCodeEmptySeries, "no timestamp is shared by every instrument")
	}

	for ticker, bars := range aligned {
		for i := range bars {
			bars[i].Time = bars[i].Time.In(s.location)
		}

		aligned[ticker] = bars
	}

	dataset := &Dataset{
		Instruments: append([]string(nil), params.Tickers...),
		Series:      aligned,
		Start:       start,
		End:         end,
	}

	if s.snapshot != nil {
		if err := s.writeSnapshot(dataset); err != nil {
			return nil, err
		}
	}

	s.log.Info("Market data aligned",
		zap.Int("instruments", len(dataset.Instruments)),
		zap.Int("bars", dataset.Len()),
	)

	return dataset, nil
}

func (s *Supplier) validateParams(params FetchParams) error {
	if err := s.validate.Struct(params); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInstrumentSet, "invalid ticker list", err)
	}

	if !params.Interval.IsValid() {
		return errors.Newf(errors.ErrCodeInvalidInterval, "unsupported interval %q", params.Interval.String())
	}

	if !params.Period.IsValid() {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "unsupported period %q", params.Period.String())
	}

	return nil
}

func (s *Supplier) writeSnapshot(dataset *Dataset) (err error) {
	if err := s.snapshot.Initialize(); err != nil {
		return err
	}

	defer func() {
		if cerr := s.snapshot.Close(); cerr != nil && err == nil {
			err = errors.Wrap(errors.ErrCodeOutputWriteFailed, "failed to close snapshot writer", cerr)
		}
	}()

	for _, ticker := range dataset.Instruments {
		for _, bar := range dataset.Series[ticker] {
			if err := s.snapshot.Write(bar); err != nil {
				return err
			}
		}
	}

	_, err = s.snapshot.Finalize()

	return err
}

// CleanSeries drops bars with non-finite prices or broken OHLC relations,
// sorts the rest by time and keeps the first bar of every timestamp. It
// returns the cleaned series and the number of bars dropped.
func CleanSeries(ticker string, bars []types.MarketData) ([]types.MarketData, int) {
	valid := make([]types.MarketData, 0, len(bars))

	for _, bar := range bars {
		bar.Symbol = ticker
		if bar.Validate() != nil {
			continue
		}

		valid = append(valid, bar)
	}

	sort.SliceStable(valid, func(i, j int) bool { return valid[i].Time.Before(valid[j].Time) })

	cleaned := make([]types.MarketData, 0, len(valid))

	for _, bar := range valid {
		if n := len(cleaned); n > 0 && bar.Time.Equal(cleaned[n-1].Time) {
			continue
		}

		cleaned = append(cleaned, bar)
	}

	return cleaned, len(bars) - len(cleaned)
}

// AlignSeries keeps only the timestamps present in every instrument's series.
// Each input series must be sorted without duplicate timestamps.
func AlignSeries(instruments []string, series map[string][]types.MarketData) map[string][]types.MarketData {
	counts := make(map[int64]int)

	for _, instrument := range instruments {
		for _, bar := range series[instrument] {
			counts[bar.Time.UnixNano()]++
		}
	}

	aligned := make(map[string][]types.MarketData, len(instruments))

	for _, instrument := range instruments {
		kept := make([]types.MarketData, 0, len(series[instrument]))

		for _, bar := range series[instrument] {
			if counts[bar.Time.UnixNano()] == len(instruments) {
				kept = append(kept, bar)
			}
		}

		aligned[instrument] = kept
	}

	return aligned
}

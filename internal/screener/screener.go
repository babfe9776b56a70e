package screener

import (
	"context"
	"runtime"
	"time"

	"github.com/rxtech-lab/argo-screener/internal/indicator"
	"github.com/rxtech-lab/argo-screener/internal/logger"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Screener turns aligned OHLC series into a signal table.
type Screener interface {
	// Run validates the input, computes every configured indicator for every
	// instrument and merges the results. Instruments are columns in the
	// given order. Nothing is returned on error.
	Run(ctx context.Context, instruments []string, series map[string][]types.MarketData) (*SignalTable, error)
}

// ScreenerV1 computes instruments concurrently. Each instrument writes to
// its own column slots only, so the result does not depend on scheduling.
type ScreenerV1 struct {
	registry    indicator.IndicatorRegistry
	log         *logger.Logger
	concurrency int
}

// NewScreener creates a screener over the indicators of registry.
func NewScreener(registry indicator.IndicatorRegistry, log *logger.Logger) Screener {
	if log == nil {
		log = logger.NewNop()
	}

	return &ScreenerV1{
		registry:    registry,
		log:         log,
		concurrency: runtime.GOMAXPROCS(0),
	}
}

// Run implements Screener.
func (s *ScreenerV1) Run(ctx context.Context, instruments []string, series map[string][]types.MarketData) (*SignalTable, error) {
	index, err := ValidateInput(instruments, series)
	if err != nil {
		return nil, err
	}

	names := s.registry.ListIndicators()
	indicators := make([]indicator.Indicator, len(names))

	for i, name := range names {
		ind, err := s.registry.GetIndicator(name)
		if err != nil {
			return nil, err
		}

		indicators[i] = ind
	}

	table := &SignalTable{
		Index:   index,
		Columns: make([]Column, len(instruments)*len(indicators)),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, instrument := range instruments {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			start := time.Now()
			frame := indicator.NewFrame(series[instrument])

			for j, ind := range indicators {
				table.Columns[i*len(indicators)+j] = Column{
					Key:     ColumnKey{Instrument: instrument, Indicator: ind.Name()},
					Signals: ind.Compute(frame),
				}
			}

			s.log.Debug("Instrument screened",
				zap.String("instrument", instrument),
				zap.Int("bars", frame.Len()),
				zap.Int("indicators", len(indicators)),
				zap.Duration("elapsed", time.Since(start)),
			)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.log.Info("Signal table computed",
		zap.Int("rows", table.Len()),
		zap.Int("columns", len(table.Columns)),
	)

	return table, nil
}

// ValidateInput checks the instrument set and every series before anything
// is computed, and returns the shared time index.
//
// The instrument set must be non-empty without duplicates. Every instrument
// needs a non-empty series of valid bars with strictly increasing
// timestamps, and all series must share the same timestamps.
func ValidateInput(instruments []string, series map[string][]types.MarketData) ([]time.Time, error) {
	if len(instruments) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInstrumentSet, "instrument set is empty")
	}

	seen := make(map[string]struct{}, len(instruments))

	for _, instrument := range instruments {
		if instrument == "" {
			return nil, errors.New(errors.ErrCodeInvalidInstrumentSet, "instrument name is empty")
		}

		if _, dup := seen[instrument]; dup {
			return nil, errors.Newf(errors.ErrCodeInvalidInstrumentSet, "instrument %s is listed twice", instrument)
		}

		seen[instrument] = struct{}{}
	}

	var (
		index     []time.Time
		reference string
	)

	for _, instrument := range instruments {
		bars, ok := series[instrument]
		if !ok {
			return nil, errors.Newf(errors.ErrCodeMissingInstrument, "no series for instrument %s", instrument)
		}

		if len(bars) == 0 {
			return nil, errors.Newf(errors.ErrCodeEmptySeries, "series for instrument %s is empty", instrument)
		}

		for i, bar := range bars {
			if err := bar.Validate(); err != nil {
				return nil, errors.Wrapf(errors.ErrCodeInvalidBar, err, "instrument %s, bar %d", instrument, i)
			}

			if i > 0 && !bar.Time.After(bars[i-1].Time) {
				return nil, errors.Newf(errors.ErrCodeNonMonotonicTime,
					"instrument %s: timestamp %s at bar %d does not follow %s",
					instrument, bar.Time.Format(time.RFC3339), i, bars[i-1].Time.Format(time.RFC3339))
			}
		}

		if index == nil {
			index = make([]time.Time, len(bars))
			for i, bar := range bars {
				index[i] = bar.Time
			}

			reference = instrument

			continue
		}

		if len(bars) != len(index) {
			return nil, errors.Newf(errors.ErrCodeMisalignedSeries,
				"instrument %s has %d bars, %s has %d", instrument, len(bars), reference, len(index))
		}

		for i, bar := range bars {
			if !bar.Time.Equal(index[i]) {
				return nil, errors.Newf(errors.ErrCodeMisalignedSeries,
					"instrument %s bar %d at %s, %s has %s",
					instrument, i, bar.Time.Format(time.RFC3339), reference, index[i].Format(time.RFC3339))
			}
		}
	}

	return index, nil
}

package screener

import (
	"context"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-screener/internal/indicator"
	"github.com/rxtech-lab/argo-screener/internal/logger"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/mocks"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ScreenerTestSuite struct {
	suite.Suite
	start time.Time
}

func TestScreenerSuite(t *testing.T) {
	suite.Run(t, new(ScreenerTestSuite))
}

func (suite *ScreenerTestSuite) SetupTest() {
	suite.start = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
}

func (suite *ScreenerTestSuite) newScreener(indicators ...indicator.Indicator) Screener {
	registry, err := indicator.NewIndicatorRegistryWith(indicators...)
	suite.Require().NoError(err)

	return NewScreener(registry, logger.NewNop())
}

func (suite *ScreenerTestSuite) TestTwoInstrumentsTwoIndicators() {
	s := suite.newScreener(indicator.NewSMA(), indicator.NewRSI())
	series := map[string][]types.MarketData{
		"A": mocks.Uptrend("A", suite.start, time.Hour, 60),
		"B": mocks.Flat("B", suite.start, time.Hour, 60),
	}

	table, err := s.Run(context.Background(), []string{"A", "B"}, series)
	suite.Require().NoError(err)

	suite.Equal([]ColumnKey{
		{Instrument: "A", Indicator: types.IndicatorTypeSMA},
		{Instrument: "A", Indicator: types.IndicatorTypeRSI},
		{Instrument: "B", Indicator: types.IndicatorTypeSMA},
		{Instrument: "B", Indicator: types.IndicatorTypeRSI},
	}, table.Keys())

	suite.Equal(60, table.Len())
	for i, ts := range table.Index {
		suite.True(ts.Equal(suite.start.Add(time.Duration(i)*time.Hour)))
	}

	for _, c := range table.Columns {
		suite.Len(c.Signals, 60)
	}

	sma, ok := table.Column("A", types.IndicatorTypeSMA)
	suite.True(ok)
	suite.False(sma.Signals[18].IsComputed())
	d, _ := sma.Signals[19].Direction()
	suite.Equal(types.DirectionBuy, d)

	rsi, ok := table.Column("B", types.IndicatorTypeRSI)
	suite.True(ok)
	for _, cell := range rsi.Signals {
		suite.False(cell.IsComputed())
	}
}

func (suite *ScreenerTestSuite) TestInstrumentOrderIsPreserved() {
	s := suite.newScreener(indicator.NewRSI())
	gen := mocks.NewDataGenerator(1)
	config := mocks.DefaultConfig()
	config.Count = 100
	series := gen.GenerateAligned([]string{"Z", "M", "A"}, config)

	table, err := s.Run(context.Background(), []string{"Z", "M", "A"}, series)
	suite.Require().NoError(err)

	suite.Equal("Z", table.Columns[0].Key.Instrument)
	suite.Equal("M", table.Columns[1].Key.Instrument)
	suite.Equal("A", table.Columns[2].Key.Instrument)
}

func (suite *ScreenerTestSuite) TestMatchesSequentialComputation() {
	indicators := indicator.Defaults()
	s := suite.newScreener(indicators...)
	gen := mocks.NewDataGenerator(7)
	config := mocks.DefaultConfig()
	symbols := []string{"EURUSD=X", "USDJPY=X", "GBPUSD=X", "AUDUSD=X"}
	series := gen.GenerateAligned(symbols, config)

	table, err := s.Run(context.Background(), symbols, series)
	suite.Require().NoError(err)
	suite.Len(table.Columns, len(symbols)*len(indicators))

	for i, symbol := range symbols {
		frame := indicator.NewFrame(series[symbol])
		for j, ind := range indicators {
			suite.Equal(ind.Compute(frame), table.Columns[i*len(indicators)+j].Signals)
		}
	}
}

func (suite *ScreenerTestSuite) TestNoIndicators() {
	s := NewScreener(indicator.NewIndicatorRegistry(), nil)

	table, err := s.Run(context.Background(), []string{"A"}, map[string][]types.MarketData{
		"A": mocks.Flat("A", suite.start, time.Hour, 5),
	})
	suite.Require().NoError(err)
	suite.Equal(5, table.Len())
	suite.Empty(table.Columns)
}

func (suite *ScreenerTestSuite) TestCancelledContext() {
	s := suite.newScreener(indicator.NewSMA())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	table, err := s.Run(ctx, []string{"A"}, map[string][]types.MarketData{
		"A": mocks.Flat("A", suite.start, time.Hour, 5),
	})
	suite.ErrorIs(err, context.Canceled)
	suite.Nil(table)
}

func (suite *ScreenerTestSuite) TestInputErrors() {
	flat := mocks.Flat("A", suite.start, time.Hour, 10)
	shifted := mocks.Flat("B", suite.start.Add(time.Minute), time.Hour, 10)
	short := mocks.Flat("B", suite.start, time.Hour, 9)

	unordered := mocks.Flat("A", suite.start, time.Hour, 10)
	unordered[5].Time = unordered[3].Time

	broken := mocks.Flat("A", suite.start, time.Hour, 10)
	broken[4].High = 50

	testCases := []struct {
		name        string
		instruments []string
		series      map[string][]types.MarketData
		code        errors.ErrorCode
	}{
		{"empty set", nil, map[string][]types.MarketData{}, errors.ErrCodeInvalidInstrumentSet},
		{"duplicate", []string{"A", "A"}, map[string][]types.MarketData{"A": flat}, errors.ErrCodeInvalidInstrumentSet},
		{"missing", []string{"A", "B"}, map[string][]types.MarketData{"A": flat}, errors.ErrCodeMissingInstrument},
		{"empty series", []string{"A"}, map[string][]types.MarketData{"A": {}}, errors.ErrCodeEmptySeries},
		{"invalid bar", []string{"A"}, map[string][]types.MarketData{"A": broken}, errors.ErrCodeInvalidBar},
		{"non monotonic", []string{"A"}, map[string][]types.MarketData{"A": unordered}, errors.ErrCodeNonMonotonicTime},
		{"different length", []string{"A", "B"}, map[string][]types.MarketData{"A": flat, "B": short}, errors.ErrCodeMisalignedSeries},
		{"different timestamps", []string{"A", "B"}, map[string][]types.MarketData{"A": flat, "B": shifted}, errors.ErrCodeMisalignedSeries},
	}

	s := suite.newScreener(indicator.NewSMA())

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			table, err := s.Run(context.Background(), tc.instruments, tc.series)
			suite.Nil(table)
			suite.Require().Error(err)
			suite.True(errors.HasCode(err, tc.code), err.Error())
		})
	}
}

func (suite *ScreenerTestSuite) TestComputeCalledOncePerInstrument() {
	ctrl := gomock.NewController(suite.T())
	ind := mocks.NewMockIndicator(ctrl)

	ind.EXPECT().Name().Return(types.IndicatorTypeMACD).AnyTimes()
	ind.EXPECT().Validate().Return(nil).Times(1)
	ind.EXPECT().
		Compute(gomock.Any()).
		DoAndReturn(func(frame indicator.Frame) []types.Signal {
			suite.Equal(10, frame.Len())

			direction := types.DirectionSell
			if frame.Close[frame.Len()-1] > frame.Close[0] {
				direction = types.DirectionBuy
			}

			signals := make([]types.Signal, frame.Len())
			for i := range signals {
				signals[i] = types.DirectionSignal(direction)
			}

			return signals
		}).
		Times(2)

	s := suite.newScreener(ind)
	series := map[string][]types.MarketData{
		"UP":   mocks.Uptrend("UP", suite.start, time.Hour, 10),
		"FLAT": mocks.Flat("FLAT", suite.start, time.Hour, 10),
	}

	table, err := s.Run(context.Background(), []string{"FLAT", "UP"}, series)
	suite.Require().NoError(err)

	suite.Equal([]ColumnKey{
		{Instrument: "FLAT", Indicator: types.IndicatorTypeMACD},
		{Instrument: "UP", Indicator: types.IndicatorTypeMACD},
	}, table.Keys())

	up, ok := table.Column("UP", types.IndicatorTypeMACD)
	suite.Require().True(ok)
	suite.Len(up.Signals, 10)
	for _, cell := range up.Signals {
		d, _ := cell.Direction()
		suite.Equal(types.DirectionBuy, d)
	}

	flat, ok := table.Column("FLAT", types.IndicatorTypeMACD)
	suite.Require().True(ok)
	for _, cell := range flat.Signals {
		d, _ := cell.Direction()
		suite.Equal(types.DirectionSell, d)
	}
}

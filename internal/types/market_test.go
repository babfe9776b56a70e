package types

import (
	"math"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type MarketTestSuite struct {
	suite.Suite
}

func TestMarketSuite(t *testing.T) {
	suite.Run(t, new(MarketTestSuite))
}

func (suite *MarketTestSuite) bar() MarketData {
	return MarketData{
		Id:     "test-1",
		Symbol: "EURUSD=X",
		Time:   time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC),
		Open:   1.0850,
		High:   1.0870,
		Low:    1.0840,
		Close:  1.0860,
		Volume: 0,
	}
}

func (suite *MarketTestSuite) TestValidBar() {
	suite.NoError(suite.bar().Validate())
}

func (suite *MarketTestSuite) TestFlatBarIsValid() {
	bar := suite.bar()
	bar.Open, bar.High, bar.Low, bar.Close = 100, 100, 100, 100
	suite.NoError(bar.Validate())
}

func (suite *MarketTestSuite) TestInvalidBars() {
	testCases := []struct {
		name   string
		mutate func(*MarketData)
	}{
		{"nan close", func(m *MarketData) { m.Close = math.NaN() }},
		{"inf high", func(m *MarketData) { m.High = math.Inf(1) }},
		{"high below low", func(m *MarketData) { m.High, m.Low = 1.0, 2.0 }},
		{"close above high", func(m *MarketData) { m.Close = 1.1 }},
		{"open below low", func(m *MarketData) { m.Open = 1.0 }},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			bar := suite.bar()
			tc.mutate(&bar)

			err := bar.Validate()
			suite.Error(err)
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidBar))
			suite.True(errors.IsInputError(err))
		})
	}
}

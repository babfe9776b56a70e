package types

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type IndicatorTestSuite struct {
	suite.Suite
}

func TestIndicatorSuite(t *testing.T) {
	suite.Run(t, new(IndicatorTestSuite))
}

func (suite *IndicatorTestSuite) TestIndicatorTypeConstants() {
	suite.Equal(IndicatorType("sma"), IndicatorTypeSMA)
	suite.Equal(IndicatorType("ema"), IndicatorTypeEMA)
	suite.Equal(IndicatorType("rsi"), IndicatorTypeRSI)
	suite.Equal(IndicatorType("macd"), IndicatorTypeMACD)
	suite.Equal(IndicatorType("bollinger_bands"), IndicatorTypeBollingerBands)
	suite.Equal(IndicatorType("stochastic"), IndicatorTypeStochastic)
	suite.Equal(IndicatorType("adx"), IndicatorTypeADX)
}

func (suite *IndicatorTestSuite) TestIsValid() {
	for _, t := range IndicatorTypes {
		suite.True(t.IsValid(), string(t))
	}

	suite.False(IndicatorType("ichimoku").IsValid())
	suite.False(IndicatorType("").IsValid())
}

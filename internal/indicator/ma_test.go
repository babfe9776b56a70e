package indicator

import (
	"testing"

	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type CrossoverTestSuite struct {
	suite.Suite
}

func TestCrossoverSuite(t *testing.T) {
	suite.Run(t, new(CrossoverTestSuite))
}

func (suite *CrossoverTestSuite) TestDefaults() {
	sma := NewSMA().(*SMA)
	suite.Equal(20, sma.Slow)
	suite.Equal(10, sma.Fast)
	suite.Equal(types.IndicatorTypeSMA, sma.Name())
	suite.Equal(19, sma.WarmUp())

	ema := NewEMA().(*EMA)
	suite.Equal(20, ema.Slow)
	suite.Equal(10, ema.Fast)
	suite.Equal(types.IndicatorTypeEMA, ema.Name())
}

func (suite *CrossoverTestSuite) TestSMAUptrend() {
	signals := NewSMA().Compute(uptrendFrame(60))
	suite.Require().Len(signals, 60)

	for t, s := range signals {
		if t < 19 {
			suite.False(s.IsComputed(), "t=%d", t)
			continue
		}

		d, ok := s.Direction()
		suite.True(ok, "t=%d", t)
		suite.Equal(types.DirectionBuy, d, "t=%d", t)
	}
}

func (suite *CrossoverTestSuite) TestSMAFlatIsBearish() {
	// no neutral state: fast == slow is -1
	signals := NewSMA().Compute(flatFrame(30))

	for t := 19; t < 30; t++ {
		d, ok := signals[t].Direction()
		suite.True(ok)
		suite.Equal(types.DirectionSell, d)
	}
}

func (suite *CrossoverTestSuite) TestEMAUptrend() {
	signals := NewEMA().Compute(uptrendFrame(60))

	for t, s := range signals {
		if t < 19 {
			suite.False(s.IsComputed(), "t=%d", t)
			continue
		}

		d, _ := s.Direction()
		suite.Equal(types.DirectionBuy, d, "t=%d", t)
	}
}

func (suite *CrossoverTestSuite) TestNeverNeutralAfterWarmUp() {
	frame := randomWalkFrame(300, 7)

	for _, ind := range []Indicator{NewSMA(), NewEMA()} {
		for t, s := range ind.Compute(frame) {
			if t < ind.WarmUp() {
				suite.False(s.IsComputed(), "%s t=%d", ind.Name(), t)
				continue
			}

			d, ok := s.Direction()
			suite.True(ok, "%s t=%d", ind.Name(), t)
			suite.NotEqual(types.DirectionNeutral, d, "%s t=%d", ind.Name(), t)
		}
	}
}

func (suite *CrossoverTestSuite) TestConfig() {
	sma := NewSMA()
	suite.NoError(sma.Config(50, 20))
	suite.Equal(&SMA{Slow: 50, Fast: 20}, sma)

	// numbers decoded from YAML or JSON may arrive as float64
	ema := NewEMA()
	suite.NoError(ema.Config(30.0, 5.0))
	suite.Equal(&EMA{Slow: 30, Fast: 5}, ema)
}

func (suite *CrossoverTestSuite) TestConfigErrors() {
	sma := NewSMA()

	err := sma.Config(20)
	suite.True(errors.HasCode(err, errors.ErrCodeMissingParameter))

	err = sma.Config("20", 10)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	err = sma.Config(20.5, 10)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (suite *CrossoverTestSuite) TestValidate() {
	testCases := []struct {
		name string
		ind  Indicator
		code errors.ErrorCode
	}{
		{"fast equal slow", &SMA{Slow: 10, Fast: 10}, errors.ErrCodeInvalidCrossover},
		{"fast above slow", &EMA{Slow: 10, Fast: 20}, errors.ErrCodeInvalidCrossover},
		{"zero fast", &SMA{Slow: 10, Fast: 0}, errors.ErrCodeInvalidWindow},
		{"negative slow", &EMA{Slow: -1, Fast: 1}, errors.ErrCodeInvalidWindow},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			err := tc.ind.Validate()
			suite.Error(err)
			suite.True(errors.HasCode(err, tc.code), err.Error())
			suite.True(errors.IsParameterError(err))
		})
	}

	suite.NoError((&SMA{Slow: 2, Fast: 1}).Validate())
}

package types

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type SignalTestSuite struct {
	suite.Suite
}

func TestSignalSuite(t *testing.T) {
	suite.Run(t, new(SignalTestSuite))
}

func (suite *SignalTestSuite) TestNotComputed() {
	s := NotComputed()
	suite.False(s.IsComputed())
	suite.Equal("", s.String())

	_, ok := s.Direction()
	suite.False(ok)

	_, ok = s.Band()
	suite.False(ok)

	// the zero value is the same marker
	suite.Equal(NotComputed(), Signal{})
}

func (suite *SignalTestSuite) TestDirectionSignal() {
	testCases := []struct {
		direction Direction
		expected  string
	}{
		{DirectionSell, "-1"},
		{DirectionNeutral, "0"},
		{DirectionBuy, "1"},
	}

	for _, tc := range testCases {
		s := DirectionSignal(tc.direction)
		suite.True(s.IsComputed())
		suite.Equal(tc.expected, s.String())

		d, ok := s.Direction()
		suite.True(ok)
		suite.Equal(tc.direction, d)

		_, ok = s.Band()
		suite.False(ok)
	}
}

func (suite *SignalTestSuite) TestNeutralIsNotNotComputed() {
	suite.NotEqual(NotComputed(), DirectionSignal(DirectionNeutral))
}

func (suite *SignalTestSuite) TestBandSignal() {
	s := BandSignal(TrendBandStrongTrend)
	suite.True(s.IsComputed())
	suite.Equal("strong trend", s.String())

	b, ok := s.Band()
	suite.True(ok)
	suite.Equal(TrendBandStrongTrend, b)

	_, ok = s.Direction()
	suite.False(ok)
}

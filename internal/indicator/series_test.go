package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
)

type SeriesTestSuite struct {
	suite.Suite
}

func TestSeriesSuite(t *testing.T) {
	suite.Run(t, new(SeriesTestSuite))
}

func (suite *SeriesTestSuite) assertSeries(expected, actual []float64) {
	suite.Require().Len(actual, len(expected))

	for i := range expected {
		if math.IsNaN(expected[i]) {
			suite.True(math.IsNaN(actual[i]), "index %d: expected undefined, got %v", i, actual[i])
			continue
		}

		suite.InDelta(expected[i], actual[i], 1e-9, "index %d", i)
	}
}

func (suite *SeriesTestSuite) TestRollingMean() {
	nan := math.NaN()
	suite.assertSeries([]float64{nan, nan, 2, 3, 4}, rollingMean([]float64{1, 2, 3, 4, 5}, 3))
}

func (suite *SeriesTestSuite) TestRollingMeanPropagatesUndefined() {
	nan := math.NaN()
	suite.assertSeries([]float64{nan, nan, 2.5, 3.5, 4.5}, rollingMean([]float64{nan, 2, 3, 4, 5}, 2))
}

func (suite *SeriesTestSuite) TestRollingStdIsSample() {
	nan := math.NaN()
	// sample std of {2, 4, 4, 4, 5, 5, 7, 9} is sqrt(32/7)
	x := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	out := rollingStd(x, 8)
	suite.True(math.IsNaN(out[6]))
	suite.InDelta(math.Sqrt(32.0/7.0), out[7], 1e-12)

	suite.assertSeries([]float64{nan, nan}, rollingStd([]float64{1, 2}, 1))
}

func (suite *SeriesTestSuite) TestRollingMinMax() {
	nan := math.NaN()
	x := []float64{3, 1, 4, 1, 5}
	suite.assertSeries([]float64{nan, nan, 4, 4, 5}, rollingMax(x, 3))
	suite.assertSeries([]float64{nan, nan, 1, 1, 1}, rollingMin(x, 3))
}

func (suite *SeriesTestSuite) TestEwmSeedAndRecurrence() {
	nan := math.NaN()
	// alpha 0.5 seeded with the first observation
	suite.assertSeries([]float64{2, 3, 3.5}, ewm([]float64{2, 4, 4}, 0.5, 1))
	// leading undefined values are skipped, min periods counts defined values
	suite.assertSeries([]float64{nan, nan, 3, 3}, ewm([]float64{nan, 2, 4, nan}, 0.5, 2))
}

func (suite *SeriesTestSuite) TestEwmCarriesMeanAcrossInteriorGap() {
	nan := math.NaN()
	// The gap is skipped: 4 is blended with 2 at weight alpha, not
	// up-weighted for the missing step.
	suite.assertSeries([]float64{2, 2, 3}, ewm([]float64{2, nan, 4}, 0.5, 1))
	suite.assertSeries([]float64{2, 2, 2, 3}, ewm([]float64{2, nan, nan, 4}, 0.5, 1))
}

func (suite *SeriesTestSuite) TestEmaWarmUp() {
	x := []float64{1, 2, 3, 4, 5}
	out := ema(x, 3)

	suite.True(math.IsNaN(out[0]))
	suite.True(math.IsNaN(out[1]))
	// alpha = 0.5: 1 -> 1.5 -> 2.25
	suite.InDelta(2.25, out[2], 1e-12)
	suite.InDelta(3.125, out[3], 1e-12)
}

func (suite *SeriesTestSuite) TestDiff() {
	nan := math.NaN()
	suite.assertSeries([]float64{nan, 1, -3}, diff([]float64{1, 2, -1}))
}

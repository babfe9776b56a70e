package indicator

import (
	"math"
)

// trueRange returns max(high-low, |high-prev_close|, |low-prev_close|).
// The first bar has no previous close, so its true range is high-low.
func trueRange(frame Frame) []float64 {
	out := make([]float64, frame.Len())

	for t := range out {
		hl := frame.High[t] - frame.Low[t]
		if t == 0 {
			out[t] = hl
			continue
		}

		prevClose := frame.Close[t-1]
		out[t] = math.Max(hl, math.Max(math.Abs(frame.High[t]-prevClose), math.Abs(frame.Low[t]-prevClose)))
	}

	return out
}

// averageTrueRange is the Wilder-smoothed true range.
func averageTrueRange(frame Frame, period int) []float64 {
	return wilder(trueRange(frame), period, 1)
}

// directionalMovement returns +DM and -DM. A move counts only when it is
// positive and strictly larger than the opposite move; the first bar has
// neither.
func directionalMovement(frame Frame) (plus, minus []float64) {
	plus = make([]float64, frame.Len())
	minus = make([]float64, frame.Len())

	for t := 1; t < frame.Len(); t++ {
		up := frame.High[t] - frame.High[t-1]
		down := frame.Low[t-1] - frame.Low[t]

		if up > down && up > 0 {
			plus[t] = up
		}

		if down > up && down > 0 {
			minus[t] = down
		}
	}

	return plus, minus
}

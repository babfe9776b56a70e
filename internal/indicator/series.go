package indicator

import "math"

// Series helpers. Undefined points are NaN and propagate: a window that
// contains an undefined point is undefined.

func undefinedSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	return out
}

func defined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func allDefined(values ...float64) bool {
	for _, v := range values {
		if !defined(v) {
			return false
		}
	}

	return true
}

// rolling applies fn to every full window of x ending at t.
func rolling(x []float64, window int, fn func([]float64) float64) []float64 {
	out := undefinedSeries(len(x))

	for t := window - 1; t < len(x); t++ {
		w := x[t-window+1 : t+1]
		if !allDefined(w...) {
			continue
		}

		out[t] = fn(w)
	}

	return out
}

func rollingMean(x []float64, window int) []float64 {
	return rolling(x, window, mean)
}

// rollingStd uses the sample standard deviation (n-1 denominator).
func rollingStd(x []float64, window int) []float64 {
	if window < 2 {
		return undefinedSeries(len(x))
	}

	return rolling(x, window, func(w []float64) float64 {
		m := mean(w)

		var ss float64
		for _, v := range w {
			ss += (v - m) * (v - m)
		}

		return math.Sqrt(ss / float64(len(w)-1))
	})
}

func rollingMax(x []float64, window int) []float64 {
	return rolling(x, window, func(w []float64) float64 {
		m := w[0]
		for _, v := range w[1:] {
			m = math.Max(m, v)
		}

		return m
	})
}

func rollingMin(x []float64, window int) []float64 {
	return rolling(x, window, func(w []float64) float64 {
		m := w[0]
		for _, v := range w[1:] {
			m = math.Min(m, v)
		}

		return m
	})
}

func mean(w []float64) float64 {
	var sum float64
	for _, v := range w {
		sum += v
	}

	return sum / float64(len(w))
}

// ewm is the recursive exponentially weighted mean
//
//	m[t] = alpha*x[t] + (1-alpha)*m[t-1]
//
// seeded with the first defined observation. A point is defined once
// minPeriods defined observations have been seen. Undefined inputs after the
// seed leave the mean unchanged.
func ewm(x []float64, alpha float64, minPeriods int) []float64 {
	out := undefinedSeries(len(x))

	var (
		m      float64
		seeded bool
		seen   int
	)

	for t, v := range x {
		if defined(v) {
			seen++

			if !seeded {
				m = v
				seeded = true
			} else {
				m = alpha*v + (1-alpha)*m
			}
		}

		if seeded && seen >= minPeriods {
			out[t] = m
		}
	}

	return out
}

// ema smooths with alpha = 2/(span+1); the first span-1 points are undefined.
func ema(x []float64, span int) []float64 {
	return ewm(x, 2/(float64(span)+1), span)
}

// wilder smooths with alpha = 1/period.
func wilder(x []float64, period, minPeriods int) []float64 {
	return ewm(x, 1/float64(period), minPeriods)
}

// diff returns x[t]-x[t-1], undefined at t=0.
func diff(x []float64) []float64 {
	out := undefinedSeries(len(x))
	for t := 1; t < len(x); t++ {
		out[t] = x[t] - x[t-1]
	}

	return out
}

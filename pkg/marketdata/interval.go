package marketdata

import (
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

// Interval is the sampling interval of a bar, in the notation used by Yahoo
// Finance.
type Interval string

const (
	IntervalOneMinute      Interval = "1m"
	IntervalTwoMinutes     Interval = "2m"
	IntervalFiveMinutes    Interval = "5m"
	IntervalFifteenMinutes Interval = "15m"
	IntervalThirtyMinutes  Interval = "30m"
	IntervalSixtyMinutes   Interval = "60m"
	IntervalNinetyMinutes  Interval = "90m"
	IntervalOneHour        Interval = "1h"
	IntervalOneDay         Interval = "1d"
	IntervalFiveDays       Interval = "5d"
	IntervalOneWeek        Interval = "1wk"
	IntervalOneMonth       Interval = "1mo"
	IntervalThreeMonths    Interval = "3mo"
)

// Intervals lists every supported interval, shortest first.
var Intervals = []Interval{
	IntervalOneMinute,
	IntervalTwoMinutes,
	IntervalFiveMinutes,
	IntervalFifteenMinutes,
	IntervalThirtyMinutes,
	IntervalSixtyMinutes,
	IntervalNinetyMinutes,
	IntervalOneHour,
	IntervalOneDay,
	IntervalFiveDays,
	IntervalOneWeek,
	IntervalOneMonth,
	IntervalThreeMonths,
}

type barWidth struct {
	multiplier int
	timespan   models.Timespan
}

// 60m is the same bar as 1h and maps to it, so providers without minute
// multiples above 30 can still serve it.
var intervalWidths = map[Interval]barWidth{
	IntervalOneMinute:      {1, models.Minute},
	IntervalTwoMinutes:     {2, models.Minute},
	IntervalFiveMinutes:    {5, models.Minute},
	IntervalFifteenMinutes: {15, models.Minute},
	IntervalThirtyMinutes:  {30, models.Minute},
	IntervalSixtyMinutes:   {1, models.Hour},
	IntervalNinetyMinutes:  {90, models.Minute},
	IntervalOneHour:        {1, models.Hour},
	IntervalOneDay:         {1, models.Day},
	IntervalFiveDays:       {5, models.Day},
	IntervalOneWeek:        {1, models.Week},
	IntervalOneMonth:       {1, models.Month},
	IntervalThreeMonths:    {3, models.Month},
}

// ParseInterval returns the Interval named by s.
func ParseInterval(s string) (Interval, error) {
	i := Interval(s)
	if !i.IsValid() {
		return "", errors.Newf(errors.ErrCodeInvalidInterval, "unsupported interval %q", s)
	}

	return i, nil
}

// IsValid reports whether i is a supported interval.
func (i Interval) IsValid() bool {
	_, ok := intervalWidths[i]

	return ok
}

// Multiplier returns how many Timespan units make up one bar.
func (i Interval) Multiplier() int {
	if w, ok := intervalWidths[i]; ok {
		return w.multiplier
	}

	return 1
}

// Timespan returns the unit of the bar width.
func (i Interval) Timespan() models.Timespan {
	if w, ok := intervalWidths[i]; ok {
		return w.timespan
	}

	return models.Day
}

func (i Interval) String() string {
	return string(i)
}

package marketdata

import (
	"time"

	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

// Period is the look-back window of a fetch, ending at the fetch's end time.
type Period string

const (
	PeriodOneDay      Period = "1d"
	PeriodFiveDays    Period = "5d"
	PeriodOneMonth    Period = "1mo"
	PeriodThreeMonths Period = "3mo"
	PeriodSixMonths   Period = "6mo"
	PeriodOneYear     Period = "1y"
	PeriodTwoYears    Period = "2y"
	PeriodFiveYears   Period = "5y"
	PeriodTenYears    Period = "10y"
	PeriodYearToDate  Period = "ytd"
	PeriodMax         Period = "max"
)

// Periods lists every supported period, shortest first.
var Periods = []Period{
	PeriodOneDay,
	PeriodFiveDays,
	PeriodOneMonth,
	PeriodThreeMonths,
	PeriodSixMonths,
	PeriodOneYear,
	PeriodTwoYears,
	PeriodFiveYears,
	PeriodTenYears,
	PeriodYearToDate,
	PeriodMax,
}

// Epoch is the start of the max period.
var Epoch = time.Unix(0, 0).UTC()

var periodOffsets = map[Period][3]int{
	PeriodOneDay:      {0, 0, 1},
	PeriodFiveDays:    {0, 0, 5},
	PeriodOneMonth:    {0, 1, 0},
	PeriodThreeMonths: {0, 3, 0},
	PeriodSixMonths:   {0, 6, 0},
	PeriodOneYear:     {1, 0, 0},
	PeriodTwoYears:    {2, 0, 0},
	PeriodFiveYears:   {5, 0, 0},
	PeriodTenYears:    {10, 0, 0},
}

// ParsePeriod returns the Period named by s.
func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	if !p.IsValid() {
		return "", errors.Newf(errors.ErrCodeInvalidPeriod, "unsupported period %q", s)
	}

	return p, nil
}

// IsValid reports whether p is a supported period.
func (p Period) IsValid() bool {
	_, ok := periodOffsets[p]

	return ok || p == PeriodYearToDate || p == PeriodMax
}

// Start resolves the first instant of the window ending at end. Calendar
// periods step back in end's location, ytd starts on January 1st of end's
// year and max starts at the Unix epoch.
func (p Period) Start(end time.Time) (time.Time, error) {
	switch p {
	case PeriodYearToDate:
		return time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, end.Location()), nil
	case PeriodMax:
		return Epoch, nil
	}

	offset, ok := periodOffsets[p]
	if !ok {
		return time.Time{}, errors.Newf(errors.ErrCodeInvalidPeriod, "unsupported period %q", string(p))
	}

	return end.AddDate(-offset[0], -offset[1], -offset[2]), nil
}

func (p Period) String() string {
	return string(p)
}

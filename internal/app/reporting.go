package app

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"real_estate/internal/domain"
)

// Range is a reporting period. Start is inclusive; End is the last instant
// that still belongs to the period.
type Range struct {
	Start time.Time
	End   time.Time
}

// Open is the period as an open-ended filter (>= Start). Current periods are
// queried this way so rows written "now" are never missed.
func (r Range) Open() domain.Window { return domain.Since(r.Start) }

// Closed is the period as a bounded [Start, End] filter, used for
// historical periods.
func (r Range) Closed() domain.Window { return domain.Between(r.Start, r.End) }

type DateRanges struct {
	ThisMonth Range
	LastMonth Range
	ThisYear  Range
	LastYear  Range
}

// CalculateDateRanges derives the four reporting periods from now, in now's
// location.
func CalculateDateRanges(now time.Time) DateRanges {
	loc := now.Location()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	lastMonthStart := monthStart.AddDate(0, -1, 0)
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
	lastYearStart := yearStart.AddDate(-1, 0, 0)

	return DateRanges{
		ThisMonth: Range{Start: monthStart, End: now},
		LastMonth: Range{Start: lastMonthStart, End: monthStart.Add(-time.Nanosecond)},
		ThisYear:  Range{Start: yearStart, End: now},
		LastYear:  Range{Start: lastYearStart, End: yearStart.Add(-time.Nanosecond)},
	}
}

// CalculatePercentageChange is ((current-previous)/previous)*100. With no
// previous value it is 100 when anything happened and 0 otherwise.
func CalculatePercentageChange(current, previous int64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}

// FormatCurrency renders amount as whole US dollars, e.g. "$1,250,000".
// NaN and infinities render as "$0".
func FormatCurrency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	n := int64(math.Round(amount))
	p := message.NewPrinter(language.AmericanEnglish)
	if n < 0 {
		return p.Sprintf("-$%d", -n)
	}
	return p.Sprintf("$%d", n)
}

// SafeRatio is num/den, or 0 when den is 0.
func SafeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round0(v float64) int64 { return int64(math.Round(v)) }

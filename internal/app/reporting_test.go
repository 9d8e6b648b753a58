package app_test

import (
	"math"
	"testing"
	"time"

	"real_estate/internal/app"
)

func TestCalculatePercentageChange(t *testing.T) {
	cases := []struct {
		cur, prev int64
		want      float64
	}{
		{0, 0, 0},
		{10, 0, 100},
		{50, 100, -50},
		{150, 100, 50},
		{0, 4, -100},
	}
	for _, c := range cases {
		got := app.CalculatePercentageChange(c.cur, c.prev)
		if math.IsNaN(got) || math.IsInf(got, 0) || got != c.want {
			t.Errorf("CalculatePercentageChange(%d, %d) = %v, want %v", c.cur, c.prev, got, c.want)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1_000_000, "$1,000,000"},
		{0, "$0"},
		{999.6, "$1,000"},
		{1234567.4, "$1,234,567"},
		{-1234, "-$1,234"},
		{math.NaN(), "$0"},
		{math.Inf(1), "$0"},
	}
	for _, c := range cases {
		if got := app.FormatCurrency(c.in); got != c.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSafeRatio(t *testing.T) {
	if got := app.SafeRatio(7, 0); got != 0 {
		t.Fatalf("SafeRatio(7,0) = %v", got)
	}
	if got := app.SafeRatio(7, 10); got != 0.7 {
		t.Fatalf("SafeRatio(7,10) = %v", got)
	}
}

func TestCalculateDateRanges(t *testing.T) {
	now := time.Date(2025, time.January, 20, 9, 30, 0, 0, time.UTC)
	r := app.CalculateDateRanges(now)

	if want := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC); !r.ThisMonth.Start.Equal(want) {
		t.Errorf("this month start = %v", r.ThisMonth.Start)
	}
	if !r.ThisMonth.End.Equal(now) || !r.ThisYear.End.Equal(now) {
		t.Errorf("current periods must end at now")
	}
	// crosses the year boundary
	if want := time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC); !r.LastMonth.Start.Equal(want) {
		t.Errorf("last month start = %v", r.LastMonth.Start)
	}
	if want := time.Date(2024, time.December, 31, 23, 59, 59, 999999999, time.UTC); !r.LastMonth.End.Equal(want) {
		t.Errorf("last month end = %v", r.LastMonth.End)
	}
	if want := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC); !r.LastYear.Start.Equal(want) {
		t.Errorf("last year start = %v", r.LastYear.Start)
	}
	if !r.LastYear.End.Equal(r.LastMonth.End) {
		t.Errorf("last year end = %v", r.LastYear.End)
	}

	open := r.ThisMonth.Open()
	if !open.To.IsZero() || !open.From.Equal(r.ThisMonth.Start) {
		t.Errorf("open window = %+v", open)
	}
	closed := r.LastMonth.Closed()
	if !closed.From.Equal(r.LastMonth.Start) || !closed.To.Equal(r.LastMonth.End) {
		t.Errorf("closed window = %+v", closed)
	}
}

func TestCalculateDateRanges_EndOfMarch(t *testing.T) {
	// AddDate on the 31st must not skip February.
	now := time.Date(2025, time.March, 31, 23, 0, 0, 0, time.UTC)
	r := app.CalculateDateRanges(now)
	if want := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC); !r.LastMonth.Start.Equal(want) {
		t.Fatalf("last month start = %v, want %v", r.LastMonth.Start, want)
	}
}

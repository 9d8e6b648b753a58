package app_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"real_estate/internal/app"
	"real_estate/internal/domain"
)

func newReporting(stats *fakeStats, listings *fakeListings) *app.ReportingService {
	return app.NewReportingService(stats, listings, &fakeCache{}, 0).WithClock(clock)
}

func TestPropertyStats_PriceDistributionIsZeroFilled(t *testing.T) {
	stats := &fakeStats{
		buckets: []domain.PriceBucket{
			{PriceRange: "$1M-$2M", Count: 4},
			{PriceRange: "Under $500K", Count: 2},
		},
		properties: func(f domain.PropertyCount) int64 {
			if f.Created.To.IsZero() {
				return 6
			}
			return 3
		},
	}
	out, err := newReporting(stats, nil).PropertyStats(context.Background())
	require.NoError(t, err)

	require.Len(t, out.PriceDistribution, 5)
	labels := make([]string, 0, 5)
	for _, b := range out.PriceDistribution {
		labels = append(labels, b.PriceRange)
	}
	assert.Equal(t, []string{"Under $500K", "$500K-$1M", "$1M-$2M", "$2M-$5M", "Over $5M"}, labels)
	assert.Equal(t, int64(2), out.PriceDistribution[0].Count)
	assert.Equal(t, int64(0), out.PriceDistribution[1].Count)
	assert.Equal(t, int64(4), out.PriceDistribution[2].Count)

	assert.Equal(t, domain.Trend{ThisMonth: 6, LastMonth: 3, Change: 100}, out.MonthlyTrend)
}

func TestBlogStats_TrendUsesPublishedWindow(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []domain.BlogStatus
	)
	stats := &fakeStats{
		blogs: func(st domain.BlogStatus, w domain.Window) int64 {
			mu.Lock()
			seen = append(seen, st)
			mu.Unlock()
			if w.To.IsZero() {
				return 5
			}
			return 10
		},
	}
	out, err := newReporting(stats, nil).BlogStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Trend{ThisMonth: 5, LastMonth: 10, Change: -50}, out.MonthlyTrend)
	for _, st := range seen {
		assert.Equal(t, domain.BlogPublished, st)
	}
}

func TestUserStats(t *testing.T) {
	stats := &fakeStats{
		active: 4,
		daily:  []domain.DailyCount{{Date: "2025-03-01", NewUsers: 2}},
		users: func(w domain.Window) int64 {
			if w.To.IsZero() {
				return 2
			}
			return 0
		},
	}
	out, err := newReporting(stats, nil).UserStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), out.ActiveUsers)
	assert.Len(t, out.RegistrationTrend, 1)
	assert.Equal(t, domain.Trend{ThisMonth: 2, LastMonth: 0, Change: 100}, out.MonthlyGrowth)
}

func TestContentStats_AllStatusesPresent(t *testing.T) {
	stats := &fakeStats{
		commentStat: []domain.StatusCount{{Status: "approved", Count: 3}},
	}
	out, err := newReporting(stats, nil).ContentStats(context.Background())
	require.NoError(t, err)

	require.Len(t, out.Comments.StatusBreakdown, 4)
	assert.Equal(t, domain.StatusCount{Status: "pending", Count: 0}, out.Comments.StatusBreakdown[0])
	assert.Equal(t, domain.StatusCount{Status: "approved", Count: 3}, out.Comments.StatusBreakdown[1])
	require.Len(t, out.Reviews.StatusBreakdown, 4)
	assert.NotNil(t, out.Comments.PendingItems)
	assert.NotNil(t, out.Reviews.PendingItems)
}

func TestRevenueStats_ForbiddenForAdmin(t *testing.T) {
	stats := &fakeStats{}
	_, err := newReporting(stats, nil).RevenueStats(context.Background(), domain.Principal{ID: "a", Role: domain.RoleAdmin})

	var pe *domain.PermissionError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 403, domain.StatusOf(err))
	assert.Zero(t, stats.count("SoldRevenue"), "no query may run for a forbidden caller")
}

func TestRevenueStats_TwelveMonthsZeroFilled(t *testing.T) {
	stats := &fakeStats{
		revenue: func(domain.Window) (float64, int64) { return 2_500_000, 2 },
		months: []domain.RevenueMonth{
			{Month: "2025-03", Revenue: 1_500_000, Units: 1},
			{Month: "2024-06", Revenue: 1_000_000, Units: 1},
		},
		cityRevenue: []domain.CityRevenue{{City: "Austin", Revenue: 2_500_000, UnitsSold: 2, AveragePrice: 1_250_000}},
	}
	out, err := newReporting(stats, nil).RevenueStats(context.Background(), domain.Principal{ID: "s", Role: domain.RoleSuperAdmin})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), stats.monthsSince)
	require.Len(t, out.MonthlyTrend, 12)
	assert.Equal(t, "2024-04", out.MonthlyTrend[0].Month)
	assert.Equal(t, "2025-03", out.MonthlyTrend[11].Month)
	assert.Equal(t, "$1,500,000", out.MonthlyTrend[11].Revenue)
	assert.Equal(t, "$1,000,000", out.MonthlyTrend[2].Revenue)
	assert.Equal(t, "$0", out.MonthlyTrend[1].Revenue)

	assert.Equal(t, domain.RevenueOverview{
		TotalRevenue:         "$2,500,000",
		TotalPropertiesSold:  2,
		AveragePropertyPrice: "$1,250,000",
	}, out.Overview)
	assert.Equal(t, []domain.CityRevenueView{{City: "Austin", Revenue: "$2,500,000", UnitsSold: 2, AveragePrice: "$1,250,000"}}, out.ByCity)
}

func TestTopPerformers_FormatsCities(t *testing.T) {
	stats := &fakeStats{
		topReviewed: []domain.ReviewedProperty{{ID: "p1", Title: "Loft", ReviewCount: 3}},
		topCities:   []domain.CitySales{{City: "Denver", SoldCount: 2, TotalRevenue: 1_750_000}},
	}
	out, err := newReporting(stats, nil).TopPerformers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.CitySalesView{{City: "Denver", SoldCount: 2, TotalRevenue: "$1,750,000"}}, out.TopSellingCities)
	assert.Len(t, out.TopReviewedProperties, 1)
	assert.NotNil(t, out.TopBlogs)
}

func TestRecentActivity_DefaultsLimit(t *testing.T) {
	stats := &fakeStats{}
	_, err := newReporting(stats, nil).RecentActivity(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.count("RecentProperties"))
	assert.Equal(t, 1, stats.count("RecentReviews"))
}

func TestSegment_FailurePropagates(t *testing.T) {
	stats := &fakeStats{failOn: "PropertiesByCity"}
	_, err := newReporting(stats, nil).PropertyStats(context.Background())
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, 500, domain.StatusOf(err))
}

package app_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"real_estate/internal/app"
	"real_estate/internal/domain"
)

// tenWithThreeSold models an inventory of 10 listings of which 3 are sold,
// one of them this month for $1,000,000.
func tenWithThreeSold() *fakeStats {
	return &fakeStats{
		properties: func(f domain.PropertyCount) int64 {
			switch {
			case f.Status == domain.StatusSold && !f.Sold.IsZero() && f.Sold.To.IsZero():
				return 1
			case f.Status == domain.StatusSold && !f.Sold.IsZero():
				return 2
			case f.Status == domain.StatusSold:
				return 3
			case !f.Created.IsZero():
				return 4
			default:
				return 10
			}
		},
		revenue: func(w domain.Window) (float64, int64) {
			if w.IsZero() {
				return 3_000_000, 3
			}
			return 1_000_000, 1
		},
		blogs: func(st domain.BlogStatus, _ domain.Window) int64 {
			switch st {
			case domain.BlogPublished:
				return 3
			case domain.BlogDraft:
				return 1
			}
			return 4
		},
		blogViews: 100,
	}
}

func TestDashboard_InventoryFigures(t *testing.T) {
	svc := app.NewReportingService(tenWithThreeSold(), &fakeListings{}, &fakeCache{}, 0).WithClock(clock)

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(10), d.Properties.Total)
	assert.Equal(t, int64(3), d.Properties.Sold)
	assert.Equal(t, int64(7), d.Properties.Available)
	assert.Equal(t, 70.0, d.Properties.InventoryRate)
	assert.Equal(t, int64(1), d.Properties.SoldThisMonth)
	assert.Equal(t, int64(2), d.Properties.SoldLastMonth)
	assert.Equal(t, -50.0, d.Properties.SalesChange)
	assert.Equal(t, int64(33), d.Blogs.AverageViews)
}

func TestDashboard_EmptyInventoryHasZeroRates(t *testing.T) {
	svc := app.NewReportingService(&fakeStats{}, &fakeListings{}, &fakeCache{}, 0).WithClock(clock)

	d, err := svc.DashboardWithRevenue(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0.0, d.Properties.InventoryRate)
	assert.Equal(t, 0.0, d.Properties.SalesChange)
	assert.Equal(t, int64(0), d.Blogs.AverageViews)
	assert.Equal(t, "$0", d.Revenue.AveragePropertyPrice)
	assert.Equal(t, "$0", d.Revenue.TotalRevenue)
}

func TestDashboardFor_RevenueIsRoleGated(t *testing.T) {
	ctx := context.Background()
	svc := app.NewReportingService(tenWithThreeSold(), &fakeListings{}, &fakeCache{}, 0).WithClock(clock)

	v, err := svc.DashboardFor(ctx, domain.Principal{ID: "s", Role: domain.RoleSuperAdmin})
	require.NoError(t, err)
	rev, ok := v.(domain.RevenueDashboardStats)
	require.True(t, ok, "super_admin must get the revenue variant, got %T", v)
	assert.Equal(t, "$3,000,000", rev.Revenue.TotalRevenue)
	assert.Equal(t, "$1,000,000", rev.Revenue.MonthlyRevenue)
	assert.Equal(t, "$1,000,000", rev.Revenue.AveragePropertyPrice)

	body, _ := json.Marshal(v)
	assert.Contains(t, string(body), `"revenue"`)

	v, err = svc.DashboardFor(ctx, domain.Principal{ID: "a", Role: domain.RoleAdmin})
	require.NoError(t, err)
	_, ok = v.(domain.DashboardStats)
	require.True(t, ok, "admin must get the plain variant, got %T", v)

	body, _ = json.Marshal(v)
	assert.NotContains(t, string(body), `"revenue"`)
	assert.Contains(t, string(body), `"properties"`)
}

func TestDashboard_AnyFailureAbortsSnapshot(t *testing.T) {
	stats := tenWithThreeSold()
	stats.failOn = "CountNewsletterSubscribers"
	svc := app.NewReportingService(stats, &fakeListings{}, &fakeCache{}, 0).WithClock(clock)

	d, err := svc.Dashboard(context.Background())
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, domain.DashboardStats{}, d)
}

func TestDashboard_CacheMissThenHit(t *testing.T) {
	stats := tenWithThreeSold()
	cache := &fakeCache{}
	svc := app.NewReportingService(stats, &fakeListings{}, cache, time.Minute).WithClock(clock)

	first, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	calls := stats.count("CountProperties")

	// a changed repository must not be visible until the entry expires
	stats.properties = func(domain.PropertyCount) int64 { return 99 }
	second, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, calls, stats.count("CountProperties"))
}

func TestDashboard_ZeroTTLBypassesCache(t *testing.T) {
	stats := tenWithThreeSold()
	cache := &fakeCache{}
	svc := app.NewReportingService(stats, &fakeListings{}, cache, 0).WithClock(clock)

	_, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cache.store)
}

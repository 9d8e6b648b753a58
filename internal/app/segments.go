package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"real_estate/internal/domain"
)

const (
	topCitiesLimit     = 10
	topBlogsLimit      = 10
	topPropertiesLimit = 10
	topSellingLimit    = 5
	pendingItemsLimit  = 10
	trendMonths        = 12
	trailingDays       = 30
	defaultFeedLimit   = 5
)

func (s *ReportingService) PropertyStats(ctx context.Context) (domain.PropertyStats, error) {
	return cached(ctx, s.cache, s.cacheTTL, keyProperties, func(ctx context.Context) (domain.PropertyStats, error) {
		r := CalculateDateRanges(s.now())
		var (
			out     domain.PropertyStats
			buckets []domain.PriceBucket
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) { out.ByType, err = s.stats.PropertiesByType(gctx); return })
		g.Go(func() (err error) { out.ByCity, err = s.stats.PropertiesByCity(gctx, topCitiesLimit); return })
		g.Go(func() (err error) { buckets, err = s.stats.PriceDistribution(gctx); return })
		g.Go(func() (err error) {
			out.MonthlyTrend.ThisMonth, err = s.stats.CountProperties(gctx, domain.PropertyCount{Created: r.ThisMonth.Open()})
			return
		})
		g.Go(func() (err error) {
			out.MonthlyTrend.LastMonth, err = s.stats.CountProperties(gctx, domain.PropertyCount{Created: r.LastMonth.Closed()})
			return
		})
		if err := g.Wait(); err != nil {
			return domain.PropertyStats{}, fmt.Errorf("property stats: %w", err)
		}
		out.PriceDistribution = fillPriceBuckets(buckets)
		out.MonthlyTrend.Change = CalculatePercentageChange(out.MonthlyTrend.ThisMonth, out.MonthlyTrend.LastMonth)
		return out, nil
	})
}

// fillPriceBuckets returns every band in order, zero when absent from rows.
func fillPriceBuckets(rows []domain.PriceBucket) []domain.PriceBucket {
	byLabel := make(map[string]int64, len(rows))
	for _, r := range rows {
		byLabel[r.PriceRange] += r.Count
	}
	out := make([]domain.PriceBucket, 0, len(domain.PriceBands))
	for _, b := range domain.PriceBands {
		out = append(out, domain.PriceBucket{PriceRange: b.Label, Count: byLabel[b.Label]})
	}
	return out
}

func (s *ReportingService) BlogStats(ctx context.Context) (domain.BlogStats, error) {
	return cached(ctx, s.cache, s.cacheTTL, keyBlogs, func(ctx context.Context) (domain.BlogStats, error) {
		r := CalculateDateRanges(s.now())
		var out domain.BlogStats
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) { out.ByCategory, err = s.stats.BlogsByCategory(gctx); return })
		g.Go(func() (err error) { out.TopPerforming, err = s.stats.TopBlogs(gctx, topBlogsLimit); return })
		g.Go(func() (err error) { out.StatusBreakdown, err = s.stats.BlogStatusBreakdown(gctx); return })
		g.Go(func() (err error) {
			out.MonthlyTrend.ThisMonth, err = s.stats.CountBlogs(gctx, domain.BlogPublished, r.ThisMonth.Open())
			return
		})
		g.Go(func() (err error) {
			out.MonthlyTrend.LastMonth, err = s.stats.CountBlogs(gctx, domain.BlogPublished, r.LastMonth.Closed())
			return
		})
		if err := g.Wait(); err != nil {
			return domain.BlogStats{}, fmt.Errorf("blog stats: %w", err)
		}
		out.MonthlyTrend.Change = CalculatePercentageChange(out.MonthlyTrend.ThisMonth, out.MonthlyTrend.LastMonth)
		return out, nil
	})
}

func (s *ReportingService) UserStats(ctx context.Context) (domain.UserStats, error) {
	return cached(ctx, s.cache, s.cacheTTL, keyUsers, func(ctx context.Context) (domain.UserStats, error) {
		now := s.now()
		r := CalculateDateRanges(now)
		since := now.AddDate(0, 0, -trailingDays)
		var out domain.UserStats
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) { out.RegistrationTrend, err = s.stats.DailyRegistrations(gctx, since); return })
		g.Go(func() (err error) { out.ActiveUsers, err = s.stats.ActiveUsers(gctx, since); return })
		g.Go(func() (err error) {
			out.MonthlyGrowth.ThisMonth, err = s.stats.CountUsers(gctx, r.ThisMonth.Open())
			return
		})
		g.Go(func() (err error) {
			out.MonthlyGrowth.LastMonth, err = s.stats.CountUsers(gctx, r.LastMonth.Closed())
			return
		})
		if err := g.Wait(); err != nil {
			return domain.UserStats{}, fmt.Errorf("user stats: %w", err)
		}
		if out.RegistrationTrend == nil {
			out.RegistrationTrend = []domain.DailyCount{}
		}
		out.MonthlyGrowth.Change = CalculatePercentageChange(out.MonthlyGrowth.ThisMonth, out.MonthlyGrowth.LastMonth)
		return out, nil
	})
}

func (s *ReportingService) ContentStats(ctx context.Context) (domain.ContentStats, error) {
	return cached(ctx, s.cache, s.cacheTTL, keyContent, func(ctx context.Context) (domain.ContentStats, error) {
		var (
			out            domain.ContentStats
			comments, revs []domain.StatusCount
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) { comments, err = s.stats.CommentStatusBreakdown(gctx); return })
		g.Go(func() (err error) { revs, err = s.stats.ReviewStatusBreakdown(gctx); return })
		g.Go(func() (err error) {
			out.Comments.PendingItems, err = s.stats.PendingComments(gctx, pendingItemsLimit)
			return
		})
		g.Go(func() (err error) {
			out.Reviews.PendingItems, err = s.stats.PendingReviews(gctx, pendingItemsLimit)
			return
		})
		if err := g.Wait(); err != nil {
			return domain.ContentStats{}, fmt.Errorf("content stats: %w", err)
		}
		out.Comments.StatusBreakdown = fillModeration(comments)
		out.Reviews.StatusBreakdown = fillModeration(revs)
		if out.Comments.PendingItems == nil {
			out.Comments.PendingItems = []domain.CommentBrief{}
		}
		if out.Reviews.PendingItems == nil {
			out.Reviews.PendingItems = []domain.ReviewBrief{}
		}
		return out, nil
	})
}

// fillModeration lists every moderation status in canonical order.
func fillModeration(rows []domain.StatusCount) []domain.StatusCount {
	byStatus := make(map[string]int64, len(rows))
	for _, r := range rows {
		byStatus[r.Status] += r.Count
	}
	out := make([]domain.StatusCount, 0, len(domain.ModerationStatuses))
	for _, st := range domain.ModerationStatuses {
		out = append(out, domain.StatusCount{Status: string(st), Count: byStatus[string(st)]})
	}
	return out
}

func foldModeration(rows []domain.StatusCount) domain.ModerationCounts {
	var c domain.ModerationCounts
	for _, r := range rows {
		c.Total += r.Count
		switch domain.ModerationStatus(r.Status) {
		case domain.ModerationPending:
			c.Pending += r.Count
		case domain.ModerationApproved:
			c.Approved += r.Count
		case domain.ModerationRejected:
			c.Rejected += r.Count
		case domain.ModerationSpam:
			c.Spam += r.Count
		}
	}
	return c
}

// RevenueStats is restricted to principals that may view revenue.
func (s *ReportingService) RevenueStats(ctx context.Context, p domain.Principal) (domain.RevenueStats, error) {
	if !p.Can(domain.PermViewRevenue) {
		return domain.RevenueStats{}, domain.Forbidden("access denied: revenue statistics require super_admin")
	}
	return cached(ctx, s.cache, s.cacheTTL, keyRevenue, func(ctx context.Context) (domain.RevenueStats, error) {
		r := CalculateDateRanges(s.now())
		first := r.ThisMonth.Start.AddDate(0, -(trendMonths - 1), 0)
		var (
			total  float64
			units  int64
			months []domain.RevenueMonth
			cities []domain.CityRevenue
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) { total, units, err = s.stats.SoldRevenue(gctx, domain.Window{}); return })
		g.Go(func() (err error) { months, err = s.stats.RevenueByMonth(gctx, first); return })
		g.Go(func() (err error) { cities, err = s.stats.RevenueByCity(gctx, topCitiesLimit); return })
		if err := g.Wait(); err != nil {
			return domain.RevenueStats{}, fmt.Errorf("revenue stats: %w", err)
		}

		out := domain.RevenueStats{
			Overview: domain.RevenueOverview{
				TotalRevenue:         FormatCurrency(total),
				TotalPropertiesSold:  units,
				AveragePropertyPrice: FormatCurrency(SafeRatio(total, float64(units))),
			},
			MonthlyTrend: fillMonths(first, trendMonths, months),
			ByCity:       make([]domain.CityRevenueView, 0, len(cities)),
		}
		for _, c := range cities {
			out.ByCity = append(out.ByCity, domain.CityRevenueView{
				City:         c.City,
				Revenue:      FormatCurrency(c.Revenue),
				UnitsSold:    c.UnitsSold,
				AveragePrice: FormatCurrency(c.AveragePrice),
			})
		}
		return out, nil
	})
}

// fillMonths returns n consecutive YYYY-MM entries starting at first; months
// without sales are zero.
func fillMonths(first time.Time, n int, rows []domain.RevenueMonth) []domain.MonthlyRevenue {
	byMonth := make(map[string]domain.RevenueMonth, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r
	}
	out := make([]domain.MonthlyRevenue, 0, n)
	for i := 0; i < n; i++ {
		key := first.AddDate(0, i, 0).Format("2006-01")
		m := byMonth[key]
		out = append(out, domain.MonthlyRevenue{
			Month:          key,
			Revenue:        FormatCurrency(m.Revenue),
			PropertiesSold: m.Units,
		})
	}
	return out
}

// TopPerformers ranks blogs, properties and cities. Properties without any
// approved review are not ranked at all.
func (s *ReportingService) TopPerformers(ctx context.Context) (domain.TopPerformers, error) {
	return cached(ctx, s.cache, s.cacheTTL, keyTop, func(ctx context.Context) (domain.TopPerformers, error) {
		var (
			out    domain.TopPerformers
			cities []domain.CitySales
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) { out.TopBlogs, err = s.stats.TopBlogs(gctx, topBlogsLimit); return })
		g.Go(func() (err error) {
			out.TopReviewedProperties, err = s.stats.TopReviewedProperties(gctx, topPropertiesLimit)
			return
		})
		g.Go(func() (err error) { cities, err = s.stats.TopSellingCities(gctx, topSellingLimit); return })
		if err := g.Wait(); err != nil {
			return domain.TopPerformers{}, fmt.Errorf("top performers: %w", err)
		}
		if out.TopBlogs == nil {
			out.TopBlogs = []domain.BlogHighlight{}
		}
		if out.TopReviewedProperties == nil {
			out.TopReviewedProperties = []domain.ReviewedProperty{}
		}
		out.TopSellingCities = make([]domain.CitySalesView, 0, len(cities))
		for _, c := range cities {
			out.TopSellingCities = append(out.TopSellingCities, domain.CitySalesView{
				City:         c.City,
				SoldCount:    c.SoldCount,
				TotalRevenue: FormatCurrency(c.TotalRevenue),
			})
		}
		return out, nil
	})
}

// RecentActivity lists the newest properties, published blogs, comments and
// reviews. limit <= 0 uses the default of 5.
func (s *ReportingService) RecentActivity(ctx context.Context, limit int) (domain.RecentActivity, error) {
	if limit <= 0 || limit > 50 {
		limit = defaultFeedLimit
	}
	key := fmt.Sprintf("%s:%d", keyActivity, limit)
	return cached(ctx, s.cache, s.cacheTTL, key, func(ctx context.Context) (domain.RecentActivity, error) {
		var out domain.RecentActivity
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) { out.RecentProperties, err = s.stats.RecentProperties(gctx, limit); return })
		g.Go(func() (err error) { out.RecentBlogs, err = s.stats.RecentBlogs(gctx, limit); return })
		g.Go(func() (err error) { out.RecentComments, err = s.stats.RecentComments(gctx, limit); return })
		g.Go(func() (err error) { out.RecentReviews, err = s.stats.RecentReviews(gctx, limit); return })
		if err := g.Wait(); err != nil {
			return domain.RecentActivity{}, fmt.Errorf("recent activity: %w", err)
		}
		return out, nil
	})
}

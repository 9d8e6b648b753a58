package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"real_estate/internal/domain"
)

type ReportingService struct {
	stats    domain.StatsRepository
	listings domain.ListingRepository
	cache    domain.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewReportingService(s domain.StatsRepository, l domain.ListingRepository, c domain.Cache, ttl time.Duration) *ReportingService {
	return &ReportingService{
		stats:    s,
		listings: l,
		cache:    c,
		cacheTTL: ttl,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the wall clock; used by tests to pin "now".
func (s *ReportingService) WithClock(now func() time.Time) *ReportingService {
	s.now = now
	return s
}

// Dashboard is the snapshot without the revenue section.
func (s *ReportingService) Dashboard(ctx context.Context) (domain.DashboardStats, error) {
	return cached(ctx, s.cache, s.cacheTTL, keyDashboardAdmin, func(ctx context.Context) (domain.DashboardStats, error) {
		out, err := s.snapshot(ctx, false)
		return out.DashboardStats, err
	})
}

// DashboardWithRevenue is the snapshot including formatted revenue figures.
func (s *ReportingService) DashboardWithRevenue(ctx context.Context) (domain.RevenueDashboardStats, error) {
	return cached(ctx, s.cache, s.cacheTTL, keyDashboardRev, func(ctx context.Context) (domain.RevenueDashboardStats, error) {
		return s.snapshot(ctx, true)
	})
}

// DashboardFor picks the snapshot variant the principal is allowed to see.
func (s *ReportingService) DashboardFor(ctx context.Context, p domain.Principal) (domain.DashboardView, error) {
	if p.Can(domain.PermViewRevenue) {
		d, err := s.DashboardWithRevenue(ctx)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	d, err := s.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// snapshot runs every counter concurrently. The first failure cancels the
// rest and nothing partial is returned.
func (s *ReportingService) snapshot(ctx context.Context, withRevenue bool) (domain.RevenueDashboardStats, error) {
	now := s.now()
	r := CalculateDateRanges(now)
	weekAgo := domain.Since(now.AddDate(0, 0, -7))

	var (
		out      domain.RevenueDashboardStats
		revTotal float64
		revUnits int64
		revMonth float64
	)
	p := &out.Properties
	st := &out.SellingToUs
	b := &out.Blogs
	u := &out.Users
	e := &out.Engagement
	a := &out.RecentActivity

	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int64, f func(context.Context) (int64, error)) {
		g.Go(func() error {
			n, err := f(gctx)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}
	props := func(f domain.PropertyCount) func(context.Context) (int64, error) {
		return func(ctx context.Context) (int64, error) { return s.stats.CountProperties(ctx, f) }
	}
	sells := func(status domain.OfferStatus, w domain.Window) func(context.Context) (int64, error) {
		return func(ctx context.Context) (int64, error) { return s.stats.CountSellSubmissions(ctx, status, w) }
	}
	blogs := func(status domain.BlogStatus) func(context.Context) (int64, error) {
		return func(ctx context.Context) (int64, error) { return s.stats.CountBlogs(ctx, status, domain.Window{}) }
	}
	users := func(w domain.Window) func(context.Context) (int64, error) {
		return func(ctx context.Context) (int64, error) { return s.stats.CountUsers(ctx, w) }
	}
	comments := func(status domain.ModerationStatus, w domain.Window) func(context.Context) (int64, error) {
		return func(ctx context.Context) (int64, error) { return s.stats.CountComments(ctx, status, w) }
	}
	reviews := func(status domain.ModerationStatus, w domain.Window) func(context.Context) (int64, error) {
		return func(ctx context.Context) (int64, error) { return s.stats.CountReviews(ctx, status, w) }
	}

	// properties
	count(&p.Total, props(domain.PropertyCount{}))
	count(&p.Sold, props(domain.PropertyCount{Status: domain.StatusSold}))
	count(&p.AddedThisMonth, props(domain.PropertyCount{Created: r.ThisMonth.Open()}))
	count(&p.SoldThisMonth, props(domain.PropertyCount{Status: domain.StatusSold, Sold: r.ThisMonth.Open()}))
	count(&p.SoldLastMonth, props(domain.PropertyCount{Status: domain.StatusSold, Sold: r.LastMonth.Closed()}))

	// selling to us
	count(&st.ThisYear, sells("", r.ThisYear.Open()))
	count(&st.LastYear, sells("", r.LastYear.Closed()))
	count(&st.ThisMonth, sells("", r.ThisMonth.Open()))
	count(&st.LastMonth, sells("", r.LastMonth.Closed()))
	count(&st.Total, sells("", domain.Window{}))
	count(&st.Pending, sells(domain.OfferPending, domain.Window{}))
	count(&st.OfferSent, sells(domain.OfferSent, domain.Window{}))
	count(&st.Accepted, sells(domain.OfferAccepted, domain.Window{}))
	count(&st.Rejected, sells(domain.OfferRejected, domain.Window{}))

	// blogs
	count(&b.Total, blogs(""))
	count(&b.Published, blogs(domain.BlogPublished))
	count(&b.Drafts, blogs(domain.BlogDraft))
	count(&b.TotalViews, s.stats.SumBlogViews)

	// users
	count(&u.Total, users(domain.Window{}))
	count(&u.NewThisMonth, users(r.ThisMonth.Open()))

	// engagement
	count(&e.TotalComments, comments("", domain.Window{}))
	count(&e.PendingComments, comments(domain.ModerationPending, domain.Window{}))
	count(&e.TotalReviews, reviews("", domain.Window{}))
	count(&e.PendingReviews, reviews(domain.ModerationPending, domain.Window{}))
	count(&e.NewsletterSubscribers, s.stats.CountNewsletterSubscribers)

	// recent activity
	count(&a.NewCommentsThisWeek, comments("", weekAgo))
	count(&a.NewReviewsThisWeek, reviews("", weekAgo))

	if withRevenue {
		g.Go(func() error {
			var err error
			revTotal, revUnits, err = s.stats.SoldRevenue(gctx, domain.Window{})
			return err
		})
		g.Go(func() error {
			var err error
			revMonth, _, err = s.stats.SoldRevenue(gctx, r.ThisMonth.Open())
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return domain.RevenueDashboardStats{}, fmt.Errorf("dashboard snapshot: %w", err)
	}

	p.Available = p.Total - p.Sold
	p.InventoryRate = round1(SafeRatio(float64(p.Available), float64(p.Total)) * 100)
	p.SalesChange = CalculatePercentageChange(p.SoldThisMonth, p.SoldLastMonth)

	st.Change = CalculatePercentageChange(st.ThisMonth, st.LastMonth)
	st.YearlyChange = CalculatePercentageChange(st.ThisYear, st.LastYear)

	b.AverageViews = round0(SafeRatio(float64(b.TotalViews), float64(b.Published)))

	a.NewUsersThisMonth = u.NewThisMonth

	if withRevenue {
		out.Revenue = domain.RevenueSummary{
			TotalRevenue:         FormatCurrency(revTotal),
			MonthlyRevenue:       FormatCurrency(revMonth),
			AveragePropertyPrice: FormatCurrency(SafeRatio(revTotal, float64(revUnits))),
		}
	}
	return out, nil
}

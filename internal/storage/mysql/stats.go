package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"real_estate/internal/domain"
)

func (r *Repo) CountProperties(ctx context.Context, f domain.PropertyCount) (int64, error) {
	var w where
	if f.Status != "" {
		w.add("status = ?", string(f.Status))
	}
	w.window("created_at", f.Created)
	w.window("sold_at", f.Sold)
	return r.count(ctx, "count_properties", countPropertiesSQL+w.sql(), w.args...)
}

// SoldRevenue sums prices of Sold properties whose sale falls in the window.
func (r *Repo) SoldRevenue(ctx context.Context, sold domain.Window) (float64, int64, error) {
	var w where
	w.window("sold_at", sold)
	var (
		total float64
		units int64
	)
	err := r.one(ctx, "sold_revenue", soldRevenueSQL+w.and(), w.args, &total, &units)
	return total, units, err
}

func (r *Repo) CountSellSubmissions(ctx context.Context, status domain.OfferStatus, created domain.Window) (int64, error) {
	var w where
	if status != "" {
		w.add("offer_status = ?", string(status))
	}
	w.window("created_at", created)
	return r.count(ctx, "count_sell_submissions", countSellSQL+w.sql(), w.args...)
}

func (r *Repo) CountBlogs(ctx context.Context, status domain.BlogStatus, published domain.Window) (int64, error) {
	var w where
	if status != "" {
		w.add("status = ?", string(status))
	}
	w.window("published_at", published)
	return r.count(ctx, "count_blogs", countBlogsSQL+w.sql(), w.args...)
}

func (r *Repo) SumBlogViews(ctx context.Context) (int64, error) {
	return r.count(ctx, "sum_blog_views", sumBlogViewsSQL)
}

func (r *Repo) CountUsers(ctx context.Context, created domain.Window) (int64, error) {
	var w where
	w.window("created_at", created)
	return r.count(ctx, "count_users", countUsersSQL+w.sql(), w.args...)
}

func (r *Repo) CountComments(ctx context.Context, status domain.ModerationStatus, created domain.Window) (int64, error) {
	var w where
	if status != "" {
		w.add("status = ?", string(status))
	}
	w.window("created_at", created)
	return r.count(ctx, "count_comments", countCommentsSQL+w.sql(), w.args...)
}

func (r *Repo) CountReviews(ctx context.Context, status domain.ModerationStatus, created domain.Window) (int64, error) {
	var w where
	if status != "" {
		w.add("status = ?", string(status))
	}
	w.window("created_at", created)
	return r.count(ctx, "count_reviews", countReviewsSQL+w.sql(), w.args...)
}

func (r *Repo) CountNewsletterSubscribers(ctx context.Context) (int64, error) {
	return r.count(ctx, "count_subscribers", countSubscribersSQL)
}

func (r *Repo) PropertiesByType(ctx context.Context) ([]domain.TypeCount, error) {
	return list(ctx, r, "properties_by_type", propertiesByTypeSQL, nil, func(s scanner) (domain.TypeCount, error) {
		var t domain.TypeCount
		err := s.Scan(&t.Type, &t.Count, &t.AveragePrice)
		return t, err
	})
}

func (r *Repo) PropertiesByCity(ctx context.Context, limit int) ([]domain.CityCount, error) {
	return list(ctx, r, "properties_by_city", propertiesByCitySQL, []any{limit}, func(s scanner) (domain.CityCount, error) {
		var c domain.CityCount
		err := s.Scan(&c.City, &c.Count, &c.SoldCount)
		return c, err
	})
}

// priceDistributionSQL buckets prices with the bands from the domain so the
// histogram and PriceBandOf cannot drift apart.
func priceDistributionSQL() (string, []any) {
	var (
		b    strings.Builder
		args []any
	)
	b.WriteString("SELECT CASE")
	for _, band := range domain.PriceBands {
		switch {
		case band.Unbounded():
			b.WriteString(" ELSE ?")
			args = append(args, band.Label)
		case band.Inclusive:
			b.WriteString(" WHEN price <= ? THEN ?")
			args = append(args, band.Max, band.Label)
		default:
			b.WriteString(" WHEN price < ? THEN ?")
			args = append(args, band.Max, band.Label)
		}
	}
	b.WriteString(" END AS price_range, COUNT(*) FROM properties GROUP BY price_range")
	return b.String(), args
}

func (r *Repo) PriceDistribution(ctx context.Context) ([]domain.PriceBucket, error) {
	q, args := priceDistributionSQL()
	return list(ctx, r, "price_distribution", q, args, func(s scanner) (domain.PriceBucket, error) {
		var p domain.PriceBucket
		err := s.Scan(&p.PriceRange, &p.Count)
		return p, err
	})
}

func (r *Repo) BlogsByCategory(ctx context.Context) ([]domain.CategoryViews, error) {
	return list(ctx, r, "blogs_by_category", blogsByCategorySQL, nil, func(s scanner) (domain.CategoryViews, error) {
		var c domain.CategoryViews
		err := s.Scan(&c.Category, &c.Count, &c.TotalViews)
		return c, err
	})
}

func scanStatusCount(s scanner) (domain.StatusCount, error) {
	var c domain.StatusCount
	err := s.Scan(&c.Status, &c.Count)
	return c, err
}

func (r *Repo) BlogStatusBreakdown(ctx context.Context) ([]domain.StatusCount, error) {
	return list(ctx, r, "blog_status", blogStatusBreakdownSQL, nil, scanStatusCount)
}

func scanBlogHighlight(s scanner) (domain.BlogHighlight, error) {
	var (
		b   domain.BlogHighlight
		pub sql.NullTime
	)
	err := s.Scan(&b.ID, &b.Title, &b.ViewCount, &b.Category, &pub)
	b.PublishedAt = ptrTime(pub)
	return b, err
}

func (r *Repo) TopBlogs(ctx context.Context, limit int) ([]domain.BlogHighlight, error) {
	return list(ctx, r, "top_blogs", topBlogsSQL, []any{limit}, scanBlogHighlight)
}

func (r *Repo) RecentBlogs(ctx context.Context, limit int) ([]domain.BlogHighlight, error) {
	return list(ctx, r, "recent_blogs", recentBlogsSQL, []any{limit}, scanBlogHighlight)
}

func (r *Repo) DailyRegistrations(ctx context.Context, since time.Time) ([]domain.DailyCount, error) {
	return list(ctx, r, "daily_registrations", dailyRegistrationsSQL, []any{since.UTC()}, func(s scanner) (domain.DailyCount, error) {
		var d domain.DailyCount
		err := s.Scan(&d.Date, &d.NewUsers)
		return d, err
	})
}

func (r *Repo) ActiveUsers(ctx context.Context, since time.Time) (int64, error) {
	return r.count(ctx, "active_users", activeUsersSQL, since.UTC())
}

func (r *Repo) CommentStatusBreakdown(ctx context.Context) ([]domain.StatusCount, error) {
	return list(ctx, r, "comment_status_breakdown", commentStatusBreakdownSQL, nil, scanStatusCount)
}

func (r *Repo) ReviewStatusBreakdown(ctx context.Context) ([]domain.StatusCount, error) {
	return list(ctx, r, "review_status_breakdown", reviewStatusBreakdownSQL, nil, scanStatusCount)
}

func scanCommentBrief(s scanner) (domain.CommentBrief, error) {
	var c domain.CommentBrief
	err := s.Scan(&c.ID, &c.BlogID, &c.Content, &c.Username, &c.Status, &c.CreatedAt)
	return c, err
}

func (r *Repo) PendingComments(ctx context.Context, limit int) ([]domain.CommentBrief, error) {
	return list(ctx, r, "pending_comments", pendingCommentsSQL, []any{limit}, scanCommentBrief)
}

func (r *Repo) RecentComments(ctx context.Context, limit int) ([]domain.CommentBrief, error) {
	return list(ctx, r, "recent_comments", recentCommentsSQL, []any{limit}, scanCommentBrief)
}

func scanReviewBrief(s scanner) (domain.ReviewBrief, error) {
	var (
		rv   domain.ReviewBrief
		name sql.NullString
	)
	err := s.Scan(&rv.ID, &rv.PropertyID, &rv.Content, &name, &rv.Status, &rv.CreatedAt)
	rv.Name = ptrStr(name)
	return rv, err
}

func (r *Repo) PendingReviews(ctx context.Context, limit int) ([]domain.ReviewBrief, error) {
	return list(ctx, r, "pending_reviews", pendingReviewsSQL, []any{limit}, scanReviewBrief)
}

func (r *Repo) RecentReviews(ctx context.Context, limit int) ([]domain.ReviewBrief, error) {
	return list(ctx, r, "recent_reviews", recentReviewsSQL, []any{limit}, scanReviewBrief)
}

func (r *Repo) ApprovedRatingAverages(ctx context.Context) (domain.RatingAverages, error) {
	var a domain.RatingAverages
	err := r.one(ctx, "approved_rating_averages", approvedRatingAveragesSQL, nil,
		&a.Location, &a.Condition, &a.Value, &a.Amenities)
	return a, err
}

func (r *Repo) RevenueByMonth(ctx context.Context, since time.Time) ([]domain.RevenueMonth, error) {
	return list(ctx, r, "revenue_by_month", revenueByMonthSQL, []any{since.UTC()}, func(s scanner) (domain.RevenueMonth, error) {
		var m domain.RevenueMonth
		err := s.Scan(&m.Month, &m.Revenue, &m.Units)
		return m, err
	})
}

func (r *Repo) RevenueByCity(ctx context.Context, limit int) ([]domain.CityRevenue, error) {
	return list(ctx, r, "revenue_by_city", revenueByCitySQL, []any{limit}, func(s scanner) (domain.CityRevenue, error) {
		var c domain.CityRevenue
		err := s.Scan(&c.City, &c.Revenue, &c.UnitsSold, &c.AveragePrice)
		return c, err
	})
}

func (r *Repo) TopReviewedProperties(ctx context.Context, limit int) ([]domain.ReviewedProperty, error) {
	return list(ctx, r, "top_reviewed_properties", topReviewedPropertiesSQL, []any{limit}, func(s scanner) (domain.ReviewedProperty, error) {
		var p domain.ReviewedProperty
		err := s.Scan(&p.ID, &p.Title, &p.City, &p.Price, &p.ReviewCount)
		return p, err
	})
}

func (r *Repo) TopSellingCities(ctx context.Context, limit int) ([]domain.CitySales, error) {
	return list(ctx, r, "top_selling_cities", topSellingCitiesSQL, []any{limit}, func(s scanner) (domain.CitySales, error) {
		var c domain.CitySales
		err := s.Scan(&c.City, &c.SoldCount, &c.TotalRevenue)
		return c, err
	})
}

func (r *Repo) RecentProperties(ctx context.Context, limit int) ([]domain.PropertyBrief, error) {
	return list(ctx, r, "recent_properties", recentPropertiesSQL, []any{limit}, func(s scanner) (domain.PropertyBrief, error) {
		var p domain.PropertyBrief
		err := s.Scan(&p.ID, &p.Title, &p.City, &p.Price, &p.CreatedAt)
		return p, err
	})
}

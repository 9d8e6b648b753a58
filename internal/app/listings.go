package app

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/sync/errgroup"

	"real_estate/internal/domain"
)

const (
	defaultListingLimit = 20
	maxListingLimit     = 100
)

// normalizePage applies defaults: page 1 and def items per page, capped at
// max. A page whose offset does not fit in an int is rejected.
func normalizePage(p domain.Page, def, max int) (domain.Page, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = def
	}
	if p.Limit > max {
		p.Limit = max
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return p, &domain.ValidationError{Message: "invalid pagination", Fields: map[string]string{"page": "out of range"}}
	}
	return p, nil
}

// Listings pages through properties with their review rollup. The total is
// counted on properties alone so the review join never inflates it.
func (s *ReportingService) Listings(ctx context.Context, q domain.ListingsQuery) (domain.ListingsPage, error) {
	page, err := normalizePage(q.Page, defaultListingLimit, maxListingLimit)
	if err != nil {
		return domain.ListingsPage{}, err
	}
	q.Page = page
	if err := validateListingsQuery(q); err != nil {
		return domain.ListingsPage{}, err
	}

	return cached(ctx, s.cache, s.cacheTTL, queryKey(keyListings, q), func(ctx context.Context) (domain.ListingsPage, error) {
		var (
			total int64
			rows  []domain.Listing
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) { total, err = s.listings.CountListings(gctx, q); return })
		g.Go(func() (err error) { rows, err = s.listings.ListListings(gctx, q); return })
		if err := g.Wait(); err != nil {
			return domain.ListingsPage{}, fmt.Errorf("listings: %w", err)
		}
		if rows == nil {
			rows = []domain.Listing{}
		}
		for i := range rows {
			if r := rows[i].AverageRating; r != nil {
				v := round2(*r)
				rows[i].AverageRating = &v
			}
		}
		return domain.ListingsPage{
			TotalItems:  total,
			TotalPages:  domain.TotalPages(total, q.Limit),
			CurrentPage: q.Page.Page,
			Listings:    rows,
		}, nil
	})
}

func validateListingsQuery(q domain.ListingsQuery) error {
	fields := map[string]string{}
	if q.Type != "" {
		if _, ok := domain.ParsePropertyType(q.Type); !ok {
			fields["type"] = "unknown property type"
		}
	}
	for _, t := range q.Types {
		if _, ok := domain.ParsePropertyType(t); !ok {
			fields["type"] = "unknown property type " + strconv.Quote(t)
		}
	}
	if q.Status != "" {
		if _, ok := domain.ParsePropertyStatus(q.Status); !ok {
			fields["status"] = "unknown property status"
		}
	}
	if q.Condition != "" {
		if _, ok := domain.ParsePropertyCondition(q.Condition); !ok {
			fields["condition"] = "unknown property condition"
		}
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		fields["minPrice"] = "must not exceed maxPrice"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Message: "invalid listing filters", Fields: fields}
	}
	return nil
}

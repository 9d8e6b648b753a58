package mysql

import (
	"context"
	"database/sql"

	"real_estate/internal/domain"
)

func listingFilters(q domain.ListingsQuery) *where {
	w := &where{}
	eq := func(col, v string) {
		if v != "" {
			w.add(col+" = ?", v)
		}
	}
	eq("p.type", q.Type)
	eq("p.status", q.Status)
	eq("p.`condition`", q.Condition)
	eq("p.city", q.City)
	eq("p.state", q.State)
	eq("p.zip_code", q.ZipCode)
	if q.Bedrooms != nil {
		w.add("p.bedrooms = ?", *q.Bedrooms)
	}
	if q.Bathrooms != nil {
		w.add("p.bathrooms = ?", *q.Bathrooms)
	}
	if q.MinPrice != nil {
		w.add("p.price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		w.add("p.price <= ?", *q.MaxPrice)
	}
	if len(q.Types) > 0 {
		w.in("p.type", anySlice(q.Types))
	}
	if len(q.BedroomsIn) > 0 {
		w.in("p.bedrooms", anySlice(q.BedroomsIn))
	}
	if q.MinBedrooms != nil {
		w.add("p.bedrooms >= ?", *q.MinBedrooms)
	}
	if q.MinBathrooms != nil {
		w.add("p.bathrooms >= ?", *q.MinBathrooms)
	}
	if q.MinSqft != nil {
		w.add("p.sqft >= ?", *q.MinSqft)
	}
	if q.Search != "" {
		like := "%" + escapeLike(q.Search) + "%"
		w.add("(p.title LIKE ? OR p.address LIKE ? OR p.city LIKE ? OR p.description LIKE ?)", like, like, like, like)
	}
	return w
}

func anySlice[T any](vs []T) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

// CountListings counts properties only; joining reviews here would count
// one row per review.
func (r *Repo) CountListings(ctx context.Context, q domain.ListingsQuery) (int64, error) {
	w := listingFilters(q)
	return r.count(ctx, "count_listings", countListingsSQL+w.sql(), w.args...)
}

func (r *Repo) ListListings(ctx context.Context, q domain.ListingsQuery) ([]domain.Listing, error) {
	w := listingFilters(q)
	args := append(w.args, q.Limit, q.Offset())
	return list(ctx, r, "list_listings", listListingsSelect+w.sql()+listListingsTail, args, func(s scanner) (domain.Listing, error) {
		var (
			avg sql.NullFloat64
			l   domain.Listing
		)
		p, err := scanProperty(s, &avg, &l.ReviewCount)
		if err != nil {
			return domain.Listing{}, err
		}
		l.Property = p
		l.AverageRating = ptrF64(avg)
		return l, nil
	})
}

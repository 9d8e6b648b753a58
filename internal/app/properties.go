package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"real_estate/internal/domain"
)

type PropertyService struct {
	repo  domain.PropertyRepository
	cache domain.Cache
	now   func() time.Time
}

func NewPropertyService(r domain.PropertyRepository, c domain.Cache) *PropertyService {
	return &PropertyService{repo: r, cache: c, now: func() time.Time { return time.Now().UTC() }}
}

func (s *PropertyService) Create(ctx context.Context, p domain.Property) (domain.Property, error) {
	if err := validateProperty(p); err != nil {
		return domain.Property{}, err
	}
	now := s.now()
	p.ID = uuid.NewString()
	if p.Status == "" {
		p.Status = domain.StatusForSale
	}
	if p.Condition == "" {
		p.Condition = domain.ConditionUsed
	}
	p.SoldAt = nil
	if p.Status == domain.StatusSold {
		p.SoldAt = &now
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	p.CreatedAt, p.UpdatedAt = now, now
	if err := s.repo.InsertProperty(ctx, p); err != nil {
		return domain.Property{}, fmt.Errorf("insert property: %w", err)
	}
	invalidate(ctx, s.cache, propertyWriteKeys)
	return p, nil
}

func validateProperty(p domain.Property) error {
	fields := map[string]string{}
	if strings.TrimSpace(p.Title) == "" {
		fields["title"] = "required"
	}
	if p.Price < 0 {
		fields["price"] = "must not be negative"
	}
	if strings.TrimSpace(p.City) == "" {
		fields["city"] = "required"
	}
	if _, ok := domain.ParsePropertyType(string(p.Type)); !ok {
		fields["type"] = "unknown property type"
	}
	if p.Status != "" {
		if _, ok := domain.ParsePropertyStatus(string(p.Status)); !ok {
			fields["status"] = "unknown property status"
		}
	}
	if p.Condition != "" {
		if _, ok := domain.ParsePropertyCondition(string(p.Condition)); !ok {
			fields["condition"] = "unknown property condition"
		}
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Message: "invalid property", Fields: fields}
	}
	return nil
}

// UpdateStatus changes a listing's status. sold_at is stamped on the move
// into Sold, kept while it stays Sold and cleared when it leaves Sold.
func (s *PropertyService) UpdateStatus(ctx context.Context, id, status string) (domain.Property, error) {
	st, ok := domain.ParsePropertyStatus(status)
	if !ok {
		return domain.Property{}, domain.Invalid("invalid status %q: must be one of For Sale, For Rent, Sold, Pending", status)
	}
	cur, err := s.repo.GetProperty(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Property{}, domain.NotFound("property")
		}
		return domain.Property{}, fmt.Errorf("load property: %w", err)
	}

	soldAt := soldAtFor(cur, st, s.now())
	if err := s.repo.UpdatePropertyStatus(ctx, id, st, soldAt); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Property{}, domain.NotFound("property")
		}
		return domain.Property{}, fmt.Errorf("update property status: %w", err)
	}
	invalidate(ctx, s.cache, propertyWriteKeys)

	cur.Status, cur.SoldAt = st, soldAt
	return cur, nil
}

func soldAtFor(cur domain.Property, next domain.PropertyStatus, now time.Time) *time.Time {
	switch {
	case next != domain.StatusSold:
		return nil
	case cur.Status == domain.StatusSold && cur.SoldAt != nil:
		return cur.SoldAt
	default:
		return &now
	}
}

// Update applies an admin edit. Omitted fields keep their value and sold_at
// follows the same rule as UpdateStatus.
func (s *PropertyService) Update(ctx context.Context, id string, patch domain.PropertyPatch) (domain.Property, error) {
	cur, err := s.repo.GetProperty(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Property{}, domain.NotFound("property")
		}
		return domain.Property{}, fmt.Errorf("load property: %w", err)
	}
	next := patch.Apply(cur)
	next.Title = strings.TrimSpace(next.Title)
	next.City = strings.TrimSpace(next.City)
	if err := validateProperty(next); err != nil {
		return domain.Property{}, err
	}
	now := s.now()
	next.SoldAt = soldAtFor(cur, next.Status, now)
	next.UpdatedAt = now
	if err := s.repo.UpdateProperty(ctx, next); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Property{}, domain.NotFound("property")
		}
		return domain.Property{}, fmt.Errorf("update property: %w", err)
	}
	invalidate(ctx, s.cache, propertyWriteKeys)
	return next, nil
}

func (s *PropertyService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteProperty(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound("property")
		}
		return fmt.Errorf("delete property: %w", err)
	}
	invalidate(ctx, s.cache, propertyWriteKeys)
	return nil
}

const (
	defaultCatalogLimit = 20
	maxCatalogLimit     = 100
	relatedLimit        = 4
	searchLimit         = 20
)

// List pages through the public catalog, newest first.
func (s *PropertyService) List(ctx context.Context, q domain.ListingsQuery) (domain.PropertyPage, error) {
	page, err := normalizePage(q.Page, defaultCatalogLimit, maxCatalogLimit)
	if err != nil {
		return domain.PropertyPage{}, err
	}
	q.Page = page
	q.Search = strings.TrimSpace(q.Search)
	if err := validateListingsQuery(q); err != nil {
		return domain.PropertyPage{}, err
	}

	var (
		total int64
		rows  []domain.Property
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { total, err = s.repo.CountListings(gctx, q); return })
	g.Go(func() (err error) { rows, err = s.repo.ListProperties(gctx, q); return })
	if err := g.Wait(); err != nil {
		return domain.PropertyPage{}, fmt.Errorf("list properties: %w", err)
	}
	if rows == nil {
		rows = []domain.Property{}
	}
	return domain.PropertyPage{
		TotalItems:  total,
		TotalPages:  domain.TotalPages(total, q.Limit),
		CurrentPage: q.Page.Page,
		Properties:  rows,
	}, nil
}

// Get loads one property with its related listings and approved reviews.
func (s *PropertyService) Get(ctx context.Context, id string) (domain.PropertyDetail, error) {
	p, err := s.repo.GetProperty(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.PropertyDetail{}, domain.NotFound("property")
		}
		return domain.PropertyDetail{}, fmt.Errorf("load property: %w", err)
	}

	out := domain.PropertyDetail{Property: p}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.RelatedProperties, err = s.repo.RelatedProperties(gctx, p, relatedLimit)
		return
	})
	g.Go(func() (err error) { out.Reviews, err = s.repo.ApprovedReviews(gctx, p.ID); return })
	if err := g.Wait(); err != nil {
		return domain.PropertyDetail{}, fmt.Errorf("property detail: %w", err)
	}
	if out.RelatedProperties == nil {
		out.RelatedProperties = []domain.Property{}
	}
	if out.Reviews == nil {
		out.Reviews = []domain.PublicReview{}
	}
	return out, nil
}

// Search matches term against title, description, address, city and zip code.
func (s *PropertyService) Search(ctx context.Context, term string) ([]domain.Property, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, domain.Invalid("search query is required")
	}
	rows, err := s.repo.SearchProperties(ctx, term, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search properties: %w", err)
	}
	if rows == nil {
		rows = []domain.Property{}
	}
	return rows, nil
}

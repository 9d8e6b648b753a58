package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"real_estate/internal/domain"
)

type ReviewService struct {
	reviews    domain.ReviewRepository
	properties domain.PropertyRepository
	cache      domain.Cache
	now        func() time.Time
}

func NewReviewService(r domain.ReviewRepository, p domain.PropertyRepository, c domain.Cache) *ReviewService {
	return &ReviewService{reviews: r, properties: p, cache: c, now: func() time.Time { return time.Now().UTC() }}
}

// Submit records a pending review by userID. A second review of the same
// property by the same user fails with a DuplicateReviewError.
func (s *ReviewService) Submit(ctx context.Context, userID string, in domain.NewReview) (domain.Review, error) {
	in.PropertyID = strings.TrimSpace(in.PropertyID)
	in.Content = strings.TrimSpace(in.Content)
	if err := validateReview(in); err != nil {
		return domain.Review{}, err
	}
	if _, err := s.properties.GetProperty(ctx, in.PropertyID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Review{}, domain.NotFound("property")
		}
		return domain.Review{}, fmt.Errorf("load property: %w", err)
	}

	now := s.now()
	rv := domain.Review{
		ID:              uuid.NewString(),
		PropertyID:      in.PropertyID,
		UserID:          userID,
		Name:            in.Name,
		Content:         in.Content,
		LocationRating:  in.LocationRating,
		ConditionRating: in.ConditionRating,
		ValueRating:     in.ValueRating,
		AmenitiesRating: in.AmenitiesRating,
		Status:          domain.ModerationPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.reviews.InsertReview(ctx, rv); err != nil {
		if errors.Is(err, domain.ErrDuplicateReview) || errors.Is(err, domain.ErrNotFound) {
			return domain.Review{}, err
		}
		return domain.Review{}, fmt.Errorf("insert review: %w", err)
	}
	invalidate(ctx, s.cache, reviewWriteKeys)
	return rv, nil
}

func validateReview(in domain.NewReview) error {
	fields := map[string]string{}
	if in.PropertyID == "" {
		fields["propertyId"] = "required"
	}
	if n := utf8.RuneCountInString(in.Content); n < 1 || n > 1000 {
		fields["content"] = "must be between 1 and 1000 characters"
	}
	if in.Name != nil {
		if n := utf8.RuneCountInString(*in.Name); n < 1 || n > 100 {
			fields["name"] = "must be between 1 and 100 characters"
		}
	}
	ratings := map[string]*int{
		"locationRating":  in.LocationRating,
		"conditionRating": in.ConditionRating,
		"valueRating":     in.ValueRating,
		"amenitiesRating": in.AmenitiesRating,
	}
	for name, r := range ratings {
		if r != nil && (*r < 1 || *r > 5) {
			fields[name] = "must be between 1 and 5"
		}
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Message: "invalid review", Fields: fields}
	}
	return nil
}

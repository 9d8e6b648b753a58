package app

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"real_estate/internal/domain"
)

const (
	defaultModerationLimit = 10
	maxModerationLimit     = 100
)

type ModerationService struct {
	repo  domain.ModerationRepository
	stats domain.StatsRepository
	cache domain.Cache
}

func NewModerationService(r domain.ModerationRepository, s domain.StatsRepository, c domain.Cache) *ModerationService {
	return &ModerationService{repo: r, stats: s, cache: c}
}

func (s *ModerationService) UpdateCommentStatus(ctx context.Context, id, status string) (domain.ModerationStatus, error) {
	return s.transition(ctx, "comment", id, status, s.repo.SetCommentStatus, s.repo.CommentStatus)
}

func (s *ModerationService) UpdateReviewStatus(ctx context.Context, id, status string) (domain.ModerationStatus, error) {
	return s.transition(ctx, "review", id, status, s.repo.SetReviewStatus, s.repo.ReviewStatus)
}

// transition applies pending -> status as one conditional write; when no
// row moves it tells "missing" from "already moderated".
func (s *ModerationService) transition(
	ctx context.Context,
	entity, id, raw string,
	set func(context.Context, string, domain.ModerationStatus, domain.ModerationStatus) (bool, error),
	current func(context.Context, string) (domain.ModerationStatus, error),
) (domain.ModerationStatus, error) {
	to, ok := domain.ParseModerationStatus(raw)
	if !ok {
		return "", domain.Invalid("invalid status %q: must be one of pending, approved, rejected, spam", raw)
	}
	if !domain.CanTransition(domain.ModerationPending, to) {
		return "", domain.Invalid("a %s cannot be moved back to pending", entity)
	}

	changed, err := set(ctx, id, domain.ModerationPending, to)
	if err != nil {
		return "", fmt.Errorf("update %s status: %w", entity, err)
	}
	if !changed {
		cur, err := current(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.NotFound(entity)
		}
		if err != nil {
			return "", fmt.Errorf("load %s status: %w", entity, err)
		}
		return "", domain.Invalid("%s has already been moderated (status %s)", entity, cur)
	}

	invalidate(ctx, s.cache, moderationWriteKeys)
	return to, nil
}

type CommentList struct {
	Comments   []domain.CommentRow `json:"comments"`
	Pagination domain.Pagination   `json:"pagination"`
}

type ReviewList struct {
	Reviews    []domain.ReviewRow `json:"reviews"`
	Pagination domain.Pagination  `json:"pagination"`
}

// statusFilter accepts "" or "all" as no filter.
func statusFilter(raw string) (string, error) {
	if raw == "" || raw == "all" {
		return "", nil
	}
	st, ok := domain.ParseModerationStatus(raw)
	if !ok {
		return "", domain.Invalid("invalid status filter %q", raw)
	}
	return string(st), nil
}

func (s *ModerationService) ListComments(ctx context.Context, q domain.CommentsQuery) (CommentList, error) {
	st, err := statusFilter(q.Status)
	if err != nil {
		return CommentList{}, err
	}
	q.Status = st
	if q.Page, err = normalizePage(q.Page, defaultModerationLimit, maxModerationLimit); err != nil {
		return CommentList{}, err
	}

	rows, total, err := s.repo.ListComments(ctx, q)
	if err != nil {
		return CommentList{}, fmt.Errorf("list comments: %w", err)
	}
	if rows == nil {
		rows = []domain.CommentRow{}
	}
	return CommentList{Comments: rows, Pagination: domain.NewPagination(total, q.Page)}, nil
}

func (s *ModerationService) ListReviews(ctx context.Context, q domain.ReviewsQuery) (ReviewList, error) {
	st, err := statusFilter(q.Status)
	if err != nil {
		return ReviewList{}, err
	}
	q.Status = st
	if q.Page, err = normalizePage(q.Page, defaultModerationLimit, maxModerationLimit); err != nil {
		return ReviewList{}, err
	}

	rows, total, err := s.repo.ListReviews(ctx, q)
	if err != nil {
		return ReviewList{}, fmt.Errorf("list reviews: %w", err)
	}
	if rows == nil {
		rows = []domain.ReviewRow{}
	}
	return ReviewList{Reviews: rows, Pagination: domain.NewPagination(total, q.Page)}, nil
}

func (s *ModerationService) CommentCounts(ctx context.Context) (domain.ModerationCounts, error) {
	rows, err := s.stats.CommentStatusBreakdown(ctx)
	if err != nil {
		return domain.ModerationCounts{}, fmt.Errorf("comment counts: %w", err)
	}
	return foldModeration(rows), nil
}

// ReviewCounts adds the average of each rating category over approved
// reviews, to one decimal.
func (s *ModerationService) ReviewCounts(ctx context.Context) (domain.ReviewCounts, error) {
	var (
		rows []domain.StatusCount
		avg  domain.RatingAverages
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { rows, err = s.stats.ReviewStatusBreakdown(gctx); return })
	g.Go(func() (err error) { avg, err = s.stats.ApprovedRatingAverages(gctx); return })
	if err := g.Wait(); err != nil {
		return domain.ReviewCounts{}, fmt.Errorf("review counts: %w", err)
	}
	return domain.ReviewCounts{
		ModerationCounts: foldModeration(rows),
		AverageRatings: domain.RatingAverages{
			Location:  round1(avg.Location),
			Condition: round1(avg.Condition),
			Value:     round1(avg.Value),
			Amenities: round1(avg.Amenities),
		},
	}, nil
}

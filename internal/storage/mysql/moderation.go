package mysql

import (
	"context"
	"database/sql"

	"real_estate/internal/domain"
)

func (r *Repo) SetCommentStatus(ctx context.Context, id string, from, to domain.ModerationStatus) (bool, error) {
	n, err := r.exec(ctx, "set_comment_status", setCommentStatusSQL, string(to), id, string(from))
	return n > 0, err
}

func (r *Repo) CommentStatus(ctx context.Context, id string) (domain.ModerationStatus, error) {
	var st domain.ModerationStatus
	err := r.one(ctx, "comment_status", commentStatusSQL, []any{id}, &st)
	return st, err
}

func (r *Repo) SetReviewStatus(ctx context.Context, id string, from, to domain.ModerationStatus) (bool, error) {
	n, err := r.exec(ctx, "set_review_status", setReviewStatusSQL, string(to), id, string(from))
	return n > 0, err
}

func (r *Repo) ReviewStatus(ctx context.Context, id string) (domain.ModerationStatus, error) {
	var st domain.ModerationStatus
	err := r.one(ctx, "review_status", reviewStatusSQL, []any{id}, &st)
	return st, err
}

func (r *Repo) ListComments(ctx context.Context, q domain.CommentsQuery) ([]domain.CommentRow, int64, error) {
	var w where
	if q.Status != "" {
		w.add("c.status = ?", q.Status)
	}
	if q.BlogID != "" {
		w.add("c.blog_id = ?", q.BlogID)
	}
	total, err := r.count(ctx, "count_comments_list", countCommentsListSQL+w.sql(), w.args...)
	if err != nil {
		return nil, 0, err
	}
	query := listCommentsSelect + w.sql() + " ORDER BY c.created_at DESC, c.id LIMIT ? OFFSET ?"
	rows, err := list(ctx, r, "list_comments", query, append(w.args, q.Limit, q.Offset()), func(s scanner) (domain.CommentRow, error) {
		var c domain.CommentRow
		err := s.Scan(&c.ID, &c.BlogID, &c.UserID, &c.Username, &c.Content, &c.Status, &c.CreatedAt, &c.UpdatedAt, &c.BlogTitle)
		return c, err
	})
	return rows, total, err
}

func scanReview(s scanner, extra ...any) (domain.Review, error) {
	var (
		rv                               domain.Review
		name                             sql.NullString
		location, condition, value, amen sql.NullInt64
	)
	dest := []any{
		&rv.ID, &rv.PropertyID, &rv.UserID, &name, &rv.Content,
		&location, &condition, &value, &amen,
		&rv.Status, &rv.CreatedAt, &rv.UpdatedAt,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return domain.Review{}, err
	}
	rv.Name = ptrStr(name)
	rv.LocationRating = ptrInt(location)
	rv.ConditionRating = ptrInt(condition)
	rv.ValueRating = ptrInt(value)
	rv.AmenitiesRating = ptrInt(amen)
	return rv, nil
}

func (r *Repo) ListReviews(ctx context.Context, q domain.ReviewsQuery) ([]domain.ReviewRow, int64, error) {
	var w where
	if q.Status != "" {
		w.add("r.status = ?", q.Status)
	}
	if q.PropertyID != "" {
		w.add("r.property_id = ?", q.PropertyID)
	}
	total, err := r.count(ctx, "count_reviews_list", countReviewsListSQL+w.sql(), w.args...)
	if err != nil {
		return nil, 0, err
	}
	query := listReviewsSelect + w.sql() + " ORDER BY r.created_at DESC, r.id LIMIT ? OFFSET ?"
	rows, err := list(ctx, r, "list_reviews", query, append(w.args, q.Limit, q.Offset()), func(s scanner) (domain.ReviewRow, error) {
		var row domain.ReviewRow
		rv, err := scanReview(s, &row.PropertyTitle, &row.PropertyCity, &row.Username, &row.UserEmail)
		row.Review = rv
		return row, err
	})
	return rows, total, err
}

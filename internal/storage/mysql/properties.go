package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"

	"real_estate/internal/domain"
)

const (
	errDuplicateEntry = 1062
	errNoParentRow    = 1452
)

func isDuplicate(err error) bool {
	var me *mysqldrv.MySQLError
	return errors.As(err, &me) && me.Number == errDuplicateEntry
}

// missingParent names the entity behind a failed foreign key, or "" when err
// is not an FK violation. The constraint name is part of the server message.
func missingParent(err error, byConstraint map[string]string) string {
	var me *mysqldrv.MySQLError
	if !errors.As(err, &me) || me.Number != errNoParentRow {
		return ""
	}
	for constraint, entity := range byConstraint {
		if strings.Contains(me.Message, constraint) {
			return entity
		}
	}
	return "record"
}

var reviewParents = map[string]string{
	"fk_reviews_user":     "user",
	"fk_reviews_property": "property",
}

func (r *Repo) InsertProperty(ctx context.Context, p domain.Property) error {
	_, err := r.exec(ctx, "insert_property", insertPropertySQL,
		p.ID, p.Title, p.Description, p.Price,
		p.Address, p.City, p.State, p.ZipCode,
		string(p.Type), string(p.Status),
		valInt(p.Bedrooms), valF64(p.Bathrooms), valInt(p.Sqft), valInt(p.YearBuilt),
		conditionOrDefault(p.Condition),
		valJSON(p.Features), valJSON(p.Images),
		valTime(p.SoldAt), p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	)
	return err
}

func conditionOrDefault(c domain.PropertyCondition) string {
	if c == "" {
		return string(domain.ConditionUsed)
	}
	return string(c)
}

func scanProperty(s scanner, extra ...any) (domain.Property, error) {
	var (
		p                     domain.Property
		bedrooms, sqft, built sql.NullInt64
		bathrooms             sql.NullFloat64
		features, images      []byte
		soldAt                sql.NullTime
	)
	dest := []any{
		&p.ID, &p.Title, &p.Description, &p.Price, &p.Address, &p.City, &p.State, &p.ZipCode,
		&p.Type, &p.Status, &bedrooms, &bathrooms, &sqft, &built, &p.Condition,
		&features, &images, &soldAt, &p.CreatedAt, &p.UpdatedAt,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return domain.Property{}, err
	}
	p.Bedrooms = ptrInt(bedrooms)
	p.Bathrooms = ptrF64(bathrooms)
	p.Sqft = ptrInt(sqft)
	p.YearBuilt = ptrInt(built)
	p.Features = jsonList(features, "properties", "features", p.ID)
	p.Images = jsonList(images, "properties", "images", p.ID)
	p.SoldAt = ptrTime(soldAt)
	return p, nil
}

func (r *Repo) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	out, err := list(ctx, r, "get_property", getPropertySQL, []any{id}, func(s scanner) (domain.Property, error) {
		return scanProperty(s)
	})
	if err != nil {
		return domain.Property{}, err
	}
	if len(out) == 0 {
		return domain.Property{}, domain.ErrNotFound
	}
	return out[0], nil
}

func (r *Repo) UpdatePropertyStatus(ctx context.Context, id string, status domain.PropertyStatus, soldAt *time.Time) error {
	n, err := r.exec(ctx, "update_property_status", updatePropertyStatusSQL, string(status), valTime(soldAt), id)
	if err != nil {
		return err
	}
	if n == 0 {
		ok, err := r.exists(ctx, "properties", id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNotFound
		}
	}
	return nil
}

func (r *Repo) DeleteProperty(ctx context.Context, id string) error {
	n, err := r.exec(ctx, "delete_property", deletePropertySQL, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// InsertReview relies on uq_reviews_property_user; a second review by the
// same user surfaces as DuplicateReviewError instead of a pre-check race.
func (r *Repo) InsertReview(ctx context.Context, rv domain.Review) error {
	_, err := r.exec(ctx, "insert_review", insertReviewSQL,
		rv.ID, rv.PropertyID, rv.UserID, valStr(rv.Name), rv.Content,
		valInt(rv.LocationRating), valInt(rv.ConditionRating), valInt(rv.ValueRating), valInt(rv.AmenitiesRating),
		string(rv.Status), rv.CreatedAt.UTC(), rv.UpdatedAt.UTC(),
	)
	if isDuplicate(err) {
		return &domain.DuplicateReviewError{PropertyID: rv.PropertyID, UserID: rv.UserID}
	}
	// Accounts are created at the auth provider; a token subject may have
	// no local users row yet.
	if entity := missingParent(err, reviewParents); entity != "" {
		return domain.NotFound(entity)
	}
	return err
}

func (r *Repo) UpdateProperty(ctx context.Context, p domain.Property) error {
	n, err := r.exec(ctx, "update_property", updatePropertySQL,
		p.Title, p.Description, p.Price, p.Address, p.City, p.State, p.ZipCode,
		string(p.Type), string(p.Status),
		valInt(p.Bedrooms), valF64(p.Bathrooms), valInt(p.Sqft), valInt(p.YearBuilt),
		conditionOrDefault(p.Condition),
		valJSON(p.Features), valJSON(p.Images),
		valTime(p.SoldAt), p.UpdatedAt.UTC(),
		p.ID,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		ok, err := r.exists(ctx, "properties", p.ID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNotFound
		}
	}
	return nil
}

func scanPlainProperty(s scanner) (domain.Property, error) { return scanProperty(s) }

func (r *Repo) ListProperties(ctx context.Context, q domain.ListingsQuery) ([]domain.Property, error) {
	w := listingFilters(q)
	args := append(w.args, q.Limit, q.Offset())
	return list(ctx, r, "list_properties", listPropertiesSelect+w.sql()+listPropertiesTail, args, scanPlainProperty)
}

func (r *Repo) SearchProperties(ctx context.Context, term string, limit int) ([]domain.Property, error) {
	like := "%" + escapeLike(term) + "%"
	return list(ctx, r, "search_properties", searchPropertiesSQL,
		[]any{like, like, like, like, like, limit}, scanPlainProperty)
}

func (r *Repo) RelatedProperties(ctx context.Context, p domain.Property, limit int) ([]domain.Property, error) {
	return list(ctx, r, "related_properties", relatedPropertiesSQL,
		[]any{p.ID, p.City, string(p.Type), p.ZipCode, limit}, scanPlainProperty)
}

func (r *Repo) ApprovedReviews(ctx context.Context, propertyID string) ([]domain.PublicReview, error) {
	return list(ctx, r, "approved_reviews", approvedReviewsSQL, []any{propertyID}, func(s scanner) (domain.PublicReview, error) {
		var out domain.PublicReview
		rv, err := scanReview(s, &out.Username)
		out.Review = rv
		return out, err
	})
}

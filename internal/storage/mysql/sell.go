package mysql

import (
	"context"
	"database/sql"

	"real_estate/internal/domain"
)

func (r *Repo) InsertSubmission(ctx context.Context, s domain.SellSubmission) error {
	_, err := r.exec(ctx, "insert_sell_submission", insertSubmissionSQL,
		s.ID, s.FullName, s.PhoneNumber, s.EmailAddress, s.PropertyType,
		s.Address, s.City, s.State, s.ZipCode,
		valInt(s.Bedrooms), valF64(s.Bathrooms), valInt(s.Sqft), valF64(s.AskingPrice),
		s.Condition, valJSON(s.Images), valStr(s.AdditionalNotes),
		string(s.OfferStatus), s.CreatedAt.UTC(), s.UpdatedAt.UTC(),
	)
	return err
}

func scanSubmission(sc scanner) (domain.SellSubmission, error) {
	var (
		s              domain.SellSubmission
		bedrooms, sqft sql.NullInt64
		bathrooms, ask sql.NullFloat64
		images         []byte
		notes          sql.NullString
	)
	err := sc.Scan(
		&s.ID, &s.FullName, &s.PhoneNumber, &s.EmailAddress, &s.PropertyType,
		&s.Address, &s.City, &s.State, &s.ZipCode,
		&bedrooms, &bathrooms, &sqft, &ask,
		&s.Condition, &images, &notes, &s.OfferStatus, &s.CreatedAt, &s.UpdatedAt,
	)
	s.Bedrooms = ptrInt(bedrooms)
	s.Bathrooms = ptrF64(bathrooms)
	s.Sqft = ptrInt(sqft)
	s.AskingPrice = ptrF64(ask)
	s.Images = jsonList(images, "sell_submissions", "images", s.ID)
	s.AdditionalNotes = ptrStr(notes)
	return s, err
}

func (r *Repo) ListSubmissions(ctx context.Context, q domain.SellQuery) ([]domain.SellSubmission, int64, error) {
	var w where
	if q.Status != "" {
		w.add("offer_status = ?", q.Status)
	}
	total, err := r.count(ctx, "count_sell_list", countSellSQL+w.sql(), w.args...)
	if err != nil {
		return nil, 0, err
	}
	query := listSubmissionsSelect + w.sql() + " ORDER BY created_at DESC, id LIMIT ? OFFSET ?"
	rows, err := list(ctx, r, "list_sell_submissions", query, append(w.args, q.Limit, q.Offset()), scanSubmission)
	return rows, total, err
}

func (r *Repo) UpdateOfferStatus(ctx context.Context, id string, status domain.OfferStatus) error {
	n, err := r.exec(ctx, "update_offer_status", updateOfferStatusSQL, string(status), id)
	if err != nil {
		return err
	}
	if n == 0 {
		ok, err := r.exists(ctx, "sell_submissions", id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNotFound
		}
	}
	return nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"real_estate/internal/domain"
)

var phonePattern = regexp.MustCompile(`^\+?\d{10,15}$`)

type SellService struct {
	repo  domain.SellRepository
	cache domain.Cache
	now   func() time.Time
}

func NewSellService(r domain.SellRepository, c domain.Cache) *SellService {
	return &SellService{repo: r, cache: c, now: func() time.Time { return time.Now().UTC() }}
}

// Submit stores an owner's offer to sell. New submissions start Pending.
func (s *SellService) Submit(ctx context.Context, in domain.SellSubmission) (domain.SellSubmission, error) {
	if err := validateSubmission(in); err != nil {
		return domain.SellSubmission{}, err
	}
	now := s.now()
	in.ID = uuid.NewString()
	in.OfferStatus = domain.OfferPending
	in.CreatedAt, in.UpdatedAt = now, now
	if in.Images == nil {
		in.Images = []string{}
	}
	if err := s.repo.InsertSubmission(ctx, in); err != nil {
		return domain.SellSubmission{}, fmt.Errorf("insert sell submission: %w", err)
	}
	invalidate(ctx, s.cache, sellWriteKeys)
	return in, nil
}

func validateSubmission(in domain.SellSubmission) error {
	fields := map[string]string{}
	required := map[string]string{
		"fullName":     in.FullName,
		"phoneNumber":  in.PhoneNumber,
		"emailAddress": in.EmailAddress,
		"propertyType": in.PropertyType,
		"address":      in.Address,
		"condition":    in.Condition,
	}
	for name, v := range required {
		if strings.TrimSpace(v) == "" {
			fields[name] = "required"
		}
	}
	if in.PhoneNumber != "" && !phonePattern.MatchString(in.PhoneNumber) {
		fields["phoneNumber"] = "must be 10 to 15 digits, optionally prefixed with +"
	}
	if in.AskingPrice != nil && *in.AskingPrice < 0 {
		fields["askingPrice"] = "must not be negative"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Message: "missing essential required fields for property submission", Fields: fields}
	}
	return nil
}

func (s *SellService) Stats(ctx context.Context) (domain.SellStats, error) {
	r := CalculateDateRanges(s.now())
	var out domain.SellStats
	g, gctx := errgroup.WithContext(ctx)
	counts := []struct {
		dst    *int64
		status domain.OfferStatus
		w      domain.Window
	}{
		{&out.Total, "", domain.Window{}},
		{&out.ThisMonth, "", r.ThisMonth.Open()},
		{&out.Pending, domain.OfferPending, domain.Window{}},
		{&out.OfferSent, domain.OfferSent, domain.Window{}},
		{&out.Accepted, domain.OfferAccepted, domain.Window{}},
		{&out.Rejected, domain.OfferRejected, domain.Window{}},
	}
	for _, c := range counts {
		c := c
		g.Go(func() (err error) {
			*c.dst, err = s.repo.CountSellSubmissions(gctx, c.status, c.w)
			return
		})
	}
	if err := g.Wait(); err != nil {
		return domain.SellStats{}, fmt.Errorf("sell stats: %w", err)
	}
	return out, nil
}

type SellList struct {
	Submissions []domain.SellSubmission `json:"submissions"`
	Pagination  domain.Pagination       `json:"pagination"`
}

func (s *SellService) List(ctx context.Context, q domain.SellQuery) (SellList, error) {
	if q.Status == "all" {
		q.Status = ""
	}
	if q.Status != "" {
		if _, ok := domain.ParseOfferStatus(q.Status); !ok {
			return SellList{}, domain.Invalid("invalid status filter %q", q.Status)
		}
	}
	page, err := normalizePage(q.Page, defaultModerationLimit, maxModerationLimit)
	if err != nil {
		return SellList{}, err
	}
	q.Page = page
	rows, total, err := s.repo.ListSubmissions(ctx, q)
	if err != nil {
		return SellList{}, fmt.Errorf("list sell submissions: %w", err)
	}
	if rows == nil {
		rows = []domain.SellSubmission{}
	}
	return SellList{Submissions: rows, Pagination: domain.NewPagination(total, q.Page)}, nil
}

// UpdateStatus sets the offer status. Any OfferStatus value is accepted.
func (s *SellService) UpdateStatus(ctx context.Context, id, status string) (domain.OfferStatus, error) {
	st, ok := domain.ParseOfferStatus(status)
	if !ok {
		return "", domain.Invalid("invalid status %q: must be one of Pending, Offer Sent, Accepted, Rejected", status)
	}
	if err := s.repo.UpdateOfferStatus(ctx, id, st); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.NotFound("sell submission")
		}
		return "", fmt.Errorf("update offer status: %w", err)
	}
	invalidate(ctx, s.cache, sellWriteKeys)
	return st, nil
}

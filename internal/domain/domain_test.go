package domain_test

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"testing"

	"real_estate/internal/domain"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to domain.ModerationStatus
		want     bool
	}{
		{domain.ModerationPending, domain.ModerationApproved, true},
		{domain.ModerationPending, domain.ModerationRejected, true},
		{domain.ModerationPending, domain.ModerationSpam, true},
		{domain.ModerationPending, domain.ModerationPending, false},
		{domain.ModerationApproved, domain.ModerationPending, false},
		{domain.ModerationApproved, domain.ModerationRejected, false},
		{domain.ModerationSpam, domain.ModerationApproved, false},
	}
	for _, c := range cases {
		if got := domain.CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestParseModerationStatus(t *testing.T) {
	for _, s := range []string{"pending", "approved", "rejected", "spam"} {
		if _, ok := domain.ParseModerationStatus(s); !ok {
			t.Errorf("%q should parse", s)
		}
	}
	for _, s := range []string{"", "Approved", "deleted"} {
		if _, ok := domain.ParseModerationStatus(s); ok {
			t.Errorf("%q should not parse", s)
		}
	}
}

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{domain.Invalid("bad"), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", domain.Invalid("bad")), http.StatusBadRequest},
		{&domain.DuplicateReviewError{PropertyID: "p", UserID: "u"}, http.StatusBadRequest},
		{domain.Forbidden("no"), http.StatusForbidden},
		{domain.NotFound("property"), http.StatusNotFound},
		{domain.ErrNotFound, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := domain.StatusOf(c.err); got != c.want {
			t.Errorf("StatusOf(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &domain.ValidationError{
		Message: "invalid request",
		Fields:  map[string]string{"limit": "max", "email": "email"},
	}
	want := "invalid request (email: email; limit: max)"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestRolePermissions(t *testing.T) {
	if domain.RoleAdmin.Can(domain.PermViewRevenue) {
		t.Fatal("admin must not view revenue")
	}
	if !domain.RoleSuperAdmin.Can(domain.PermViewRevenue) || !domain.RoleSuperAdmin.Can(domain.PermManageAdmins) {
		t.Fatal("super_admin must hold every permission")
	}
	if domain.Role("guest").Can(domain.PermViewRevenue) {
		t.Fatal("unknown role must hold nothing")
	}
}

func TestPriceBandOf(t *testing.T) {
	cases := map[float64]string{
		0:         "Under $500K",
		499_999:   "Under $500K",
		500_000:   "$500K-$1M",
		1_000_000: "$500K-$1M",
		1_000_001: "$1M-$2M",
		2_000_000: "$1M-$2M",
		5_000_000: "$2M-$5M",
		5_000_001: "Over $5M",
	}
	for price, want := range cases {
		if got := domain.PriceBandOf(price); got != want {
			t.Errorf("PriceBandOf(%v) = %q, want %q", price, got, want)
		}
	}
}

func TestPagination(t *testing.T) {
	if got := domain.TotalPages(25, 10); got != 3 {
		t.Fatalf("TotalPages(25,10) = %d", got)
	}
	if got := domain.TotalPages(0, 10); got != 0 {
		t.Fatalf("TotalPages(0,10) = %d", got)
	}
	p := domain.NewPagination(25, domain.Page{Page: 3, Limit: 10})
	if p.HasNextPage || !p.HasPrevPage || p.TotalPages != 3 {
		t.Fatalf("unexpected pagination: %+v", p)
	}
	if off := (domain.Page{Page: 3, Limit: 10}).Offset(); off != 20 {
		t.Fatalf("offset = %d", off)
	}
}

func TestPageOffset_Saturates(t *testing.T) {
	huge := domain.Page{Page: math.MaxInt64 / 50, Limit: 100}
	if off := huge.Offset(); off != math.MaxInt {
		t.Fatalf("offset = %d, want MaxInt", off)
	}
	if off := (domain.Page{Page: 0, Limit: 10}).Offset(); off != 0 {
		t.Fatalf("offset = %d", off)
	}
}

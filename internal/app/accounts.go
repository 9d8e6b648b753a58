package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"real_estate/internal/domain"
)

const (
	defaultAccountLimit = 10
	maxAccountLimit     = 100
	rollbackTimeout     = 10 * time.Second
)

var userSortColumns = map[string]bool{"createdAt": true, "username": true, "email": true}

type AccountService struct {
	repo  domain.AccountRepository
	auth  domain.AuthProvider
	cache domain.Cache
	now   func() time.Time
}

func NewAccountService(r domain.AccountRepository, a domain.AuthProvider, c domain.Cache) *AccountService {
	return &AccountService{repo: r, auth: a, cache: c, now: func() time.Time { return time.Now().UTC() }}
}

type UserList struct {
	Users      []domain.User     `json:"users"`
	Pagination domain.Pagination `json:"pagination"`
}

type StaffList struct {
	Staff      []domain.Admin    `json:"staff"`
	Pagination domain.Pagination `json:"pagination"`
}

func (s *AccountService) ListUsers(ctx context.Context, q domain.UsersQuery) (UserList, error) {
	page, err := normalizePage(q.Page, defaultAccountLimit, maxAccountLimit)
	if err != nil {
		return UserList{}, err
	}
	q.Page = page
	q.Search = strings.TrimSpace(q.Search)
	if q.SortBy == "" {
		q.SortBy = "createdAt"
	}
	if !userSortColumns[q.SortBy] {
		return UserList{}, domain.Invalid("invalid sortBy %q: must be createdAt, username or email", q.SortBy)
	}
	switch strings.ToUpper(q.SortOrder) {
	case "":
		q.SortOrder = "DESC"
	case "ASC", "DESC":
		q.SortOrder = strings.ToUpper(q.SortOrder)
	default:
		return UserList{}, domain.Invalid("invalid sortOrder %q: must be asc or desc", q.SortOrder)
	}

	users, total, err := s.repo.ListUsers(ctx, q)
	if err != nil {
		return UserList{}, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return UserList{Users: users, Pagination: domain.NewPagination(total, q.Page)}, nil
}

// UserDetails loads a user with their comments, reviews and newsletter
// subscription.
func (s *AccountService) UserDetails(ctx context.Context, id string) (domain.UserDetails, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.UserDetails{}, domain.NotFound("user")
		}
		return domain.UserDetails{}, fmt.Errorf("load user: %w", err)
	}

	out := domain.UserDetails{User: u}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { out.Comments, err = s.repo.UserComments(gctx, id); return })
	g.Go(func() (err error) { out.Reviews, err = s.repo.UserReviews(gctx, id); return })
	g.Go(func() (err error) { out.Newsletter, err = s.repo.NewsletterByEmail(gctx, u.Email); return })
	if err := g.Wait(); err != nil {
		return domain.UserDetails{}, fmt.Errorf("user details: %w", err)
	}
	if out.Comments == nil {
		out.Comments = []domain.Comment{}
	}
	if out.Reviews == nil {
		out.Reviews = []domain.Review{}
	}
	return out, nil
}

func (s *AccountService) ListStaff(ctx context.Context, p domain.Page) (StaffList, error) {
	p, err := normalizePage(p, defaultAccountLimit, maxAccountLimit)
	if err != nil {
		return StaffList{}, err
	}
	staff, total, err := s.repo.ListAdmins(ctx, p)
	if err != nil {
		return StaffList{}, fmt.Errorf("list staff: %w", err)
	}
	if staff == nil {
		staff = []domain.Admin{}
	}
	return StaffList{Staff: staff, Pagination: domain.NewPagination(total, p)}, nil
}

// GetStaff returns an admin profile; admins may read their own, managers any.
func (s *AccountService) GetStaff(ctx context.Context, by domain.Principal, id string) (domain.Admin, error) {
	if by.ID != id && !by.Can(domain.PermManageAdmins) {
		return domain.Admin{}, domain.Forbidden("insufficient permissions to view this admin account")
	}
	return s.getAdmin(ctx, id)
}

// Principal resolves an authenticated user id to an admin principal. Users
// without an admin profile are forbidden.
func (s *AccountService) Principal(ctx context.Context, userID string) (domain.Principal, error) {
	a, err := s.repo.GetAdmin(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Principal{}, domain.Forbidden("admin access required")
		}
		return domain.Principal{}, fmt.Errorf("load admin: %w", err)
	}
	return domain.Principal{ID: a.ID, Role: a.Role}, nil
}

func (s *AccountService) getAdmin(ctx context.Context, id string) (domain.Admin, error) {
	a, err := s.repo.GetAdmin(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Admin{}, domain.NotFound("admin account")
		}
		return domain.Admin{}, fmt.Errorf("load admin: %w", err)
	}
	return a, nil
}

// CreateStaff registers the identity with the auth provider and then stores
// the admin profile under the provider's id. The identity is removed again
// if the profile cannot be stored.
func (s *AccountService) CreateStaff(ctx context.Context, by domain.Principal, in domain.NewStaff) (domain.Admin, error) {
	if !by.Can(domain.PermManageAdmins) {
		return domain.Admin{}, domain.Forbidden("insufficient permissions to create admin accounts")
	}
	if in.Role == "" {
		in.Role = domain.RoleAdmin
	}
	if _, ok := domain.ParseRole(string(in.Role)); !ok {
		return domain.Admin{}, domain.Invalid("invalid role %q", in.Role)
	}
	if err := s.checkConflict(ctx, in.Email, in.Username, ""); err != nil {
		return domain.Admin{}, err
	}

	id, err := s.auth.CreateUser(ctx, in.Email, in.Password, map[string]any{
		"username": in.Username,
		"role":     string(in.Role),
		"position": in.Position,
	})
	if err != nil {
		return domain.Admin{}, fmt.Errorf("create auth identity: %w", err)
	}

	now := s.now()
	a := domain.Admin{
		ID:        id,
		Username:  in.Username,
		Email:     in.Email,
		Position:  in.Position,
		Role:      in.Role,
		Avatar:    in.Avatar,
		Bio:       in.Bio,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.InsertAdmin(ctx, a); err != nil {
		s.rollbackIdentity(ctx, id)
		return domain.Admin{}, fmt.Errorf("insert admin: %w", err)
	}
	return a, nil
}

// rollbackIdentity removes an auth identity whose admin row never landed. It
// outlives the request so a cancelled or timed-out insert still cleans up.
func (s *AccountService) rollbackIdentity(ctx context.Context, id string) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
	defer cancel()
	if err := s.auth.DeleteUser(rctx, id); err != nil {
		log.Error().Err(err).Str("id", id).Msg("rollback of auth identity failed")
	}
}

// UpdateStaff edits a profile. Admins may edit their own; only managers may
// edit others or change a role.
func (s *AccountService) UpdateStaff(ctx context.Context, by domain.Principal, id string, u domain.StaffUpdate) (domain.Admin, error) {
	manager := by.Can(domain.PermManageAdmins)
	if by.ID != id && !manager {
		return domain.Admin{}, domain.Forbidden("insufficient permissions to update this admin account")
	}
	cur, err := s.getAdmin(ctx, id)
	if err != nil {
		return domain.Admin{}, err
	}
	if u.Role != nil {
		if !manager {
			return domain.Admin{}, domain.Forbidden("only super_admin can change roles")
		}
		if _, ok := domain.ParseRole(string(*u.Role)); !ok {
			return domain.Admin{}, domain.Invalid("invalid role %q", *u.Role)
		}
	}

	var email, username string
	if u.Email != nil && *u.Email != cur.Email {
		email = *u.Email
	}
	if u.Username != nil && *u.Username != cur.Username {
		username = *u.Username
	}
	if err := s.checkConflict(ctx, email, username, id); err != nil {
		return domain.Admin{}, err
	}

	if err := s.repo.UpdateAdmin(ctx, id, u); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Admin{}, domain.NotFound("admin account")
		}
		return domain.Admin{}, fmt.Errorf("update admin: %w", err)
	}
	return s.getAdmin(ctx, id)
}

// DeleteStaff removes another admin's profile and auth identity.
func (s *AccountService) DeleteStaff(ctx context.Context, by domain.Principal, id string) error {
	if !by.Can(domain.PermManageAdmins) {
		return domain.Forbidden("insufficient permissions to delete admin accounts")
	}
	if by.ID == id {
		return domain.Invalid("you cannot delete your own account")
	}
	if err := s.repo.DeleteAdmin(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound("admin account")
		}
		return fmt.Errorf("delete admin: %w", err)
	}
	if err := s.auth.DeleteUser(ctx, id); err != nil {
		log.Warn().Err(err).Str("id", id).Msg("auth identity not removed")
	}
	return nil
}

func (s *AccountService) checkConflict(ctx context.Context, email, username, exceptID string) error {
	if email == "" && username == "" {
		return nil
	}
	field, err := s.repo.AdminConflict(ctx, email, username, exceptID)
	if err != nil {
		return fmt.Errorf("check admin uniqueness: %w", err)
	}
	switch field {
	case "email":
		return domain.Invalid("email already in use by another admin")
	case "username":
		return domain.Invalid("username already taken")
	}
	return nil
}

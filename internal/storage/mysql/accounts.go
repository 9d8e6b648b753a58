package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"real_estate/internal/domain"
)

// userSortColumns maps the API sort keys onto columns; anything else has
// been rejected by the service already.
var userSortColumns = map[string]string{
	"createdAt": "created_at",
	"username":  "username",
	"email":     "email",
}

func scanUser(s scanner) (domain.User, error) {
	var (
		u     domain.User
		phone sql.NullString
	)
	err := s.Scan(&u.ID, &u.Username, &u.Email, &phone, &u.CreatedAt, &u.UpdatedAt)
	u.PhoneNumber = ptrStr(phone)
	return u, err
}

func (r *Repo) ListUsers(ctx context.Context, q domain.UsersQuery) ([]domain.User, int64, error) {
	var w where
	if q.Search != "" {
		like := "%" + escapeLike(q.Search) + "%"
		w.add("(username LIKE ? OR email LIKE ?)", like, like)
	}
	total, err := r.count(ctx, "count_users_list", countUsersSQL+w.sql(), w.args...)
	if err != nil {
		return nil, 0, err
	}

	col, ok := userSortColumns[q.SortBy]
	if !ok {
		col = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(q.SortOrder, "ASC") {
		order = "ASC"
	}
	query := "SELECT " + userColumns + " FROM users" + w.sql() +
		" ORDER BY " + col + " " + order + ", id LIMIT ? OFFSET ?"
	users, err := list(ctx, r, "list_users", query, append(w.args, q.Limit, q.Offset()), scanUser)
	return users, total, err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *Repo) GetUser(ctx context.Context, id string) (domain.User, error) {
	out, err := list(ctx, r, "get_user", getUserSQL, []any{id}, scanUser)
	if err != nil {
		return domain.User{}, err
	}
	if len(out) == 0 {
		return domain.User{}, domain.ErrNotFound
	}
	return out[0], nil
}

func (r *Repo) UserComments(ctx context.Context, userID string) ([]domain.Comment, error) {
	return list(ctx, r, "user_comments", userCommentsSQL, []any{userID}, func(s scanner) (domain.Comment, error) {
		var c domain.Comment
		err := s.Scan(&c.ID, &c.BlogID, &c.UserID, &c.Username, &c.Content, &c.Status, &c.CreatedAt, &c.UpdatedAt)
		return c, err
	})
}

func (r *Repo) UserReviews(ctx context.Context, userID string) ([]domain.Review, error) {
	return list(ctx, r, "user_reviews", userReviewsSQL, []any{userID}, func(s scanner) (domain.Review, error) {
		return scanReview(s)
	})
}

// NewsletterByEmail returns nil when the address never subscribed.
func (r *Repo) NewsletterByEmail(ctx context.Context, email string) (*domain.NewsletterSubscription, error) {
	var (
		n     domain.NewsletterSubscription
		unsub sql.NullTime
	)
	err := r.one(ctx, "newsletter_by_email", newsletterByEmailSQL, []any{email}, &n.ID, &n.Email, &n.SubscribedAt, &unsub)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	n.UnsubscribedAt = ptrTime(unsub)
	return &n, nil
}

func scanAdmin(s scanner) (domain.Admin, error) {
	var (
		a           domain.Admin
		avatar, bio sql.NullString
	)
	err := s.Scan(&a.ID, &a.Username, &a.Email, &a.Position, &a.Role, &avatar, &bio, &a.CreatedAt, &a.UpdatedAt)
	a.Avatar = ptrStr(avatar)
	a.Bio = ptrStr(bio)
	return a, err
}

func (r *Repo) ListAdmins(ctx context.Context, p domain.Page) ([]domain.Admin, int64, error) {
	total, err := r.count(ctx, "count_admins", countAdminsSQL)
	if err != nil {
		return nil, 0, err
	}
	admins, err := list(ctx, r, "list_admins", listAdminsSQL, []any{p.Limit, p.Offset()}, scanAdmin)
	return admins, total, err
}

func (r *Repo) GetAdmin(ctx context.Context, id string) (domain.Admin, error) {
	out, err := list(ctx, r, "get_admin", getAdminSQL, []any{id}, scanAdmin)
	if err != nil {
		return domain.Admin{}, err
	}
	if len(out) == 0 {
		return domain.Admin{}, domain.ErrNotFound
	}
	return out[0], nil
}

func (r *Repo) AdminConflict(ctx context.Context, email, username, exceptID string) (string, error) {
	var gotEmail, gotUsername string
	err := r.one(ctx, "admin_conflict", adminConflictSQL, []any{email, username, exceptID}, &gotEmail, &gotUsername)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "", nil
	case err != nil:
		return "", err
	case email != "" && strings.EqualFold(gotEmail, email):
		return "email", nil
	default:
		return "username", nil
	}
}

func (r *Repo) InsertAdmin(ctx context.Context, a domain.Admin) error {
	_, err := r.exec(ctx, "insert_admin", insertAdminSQL,
		a.ID, a.Username, a.Email, a.Position, string(a.Role),
		valStr(a.Avatar), valStr(a.Bio), a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
	)
	if isDuplicate(err) {
		return domain.Invalid("email or username already in use by another admin")
	}
	return err
}

// UpdateAdmin writes only the fields set in u.
func (r *Repo) UpdateAdmin(ctx context.Context, id string, u domain.StaffUpdate) error {
	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if u.Username != nil {
		set("username", *u.Username)
	}
	if u.Email != nil {
		set("email", *u.Email)
	}
	if u.Position != nil {
		set("position", *u.Position)
	}
	if u.Role != nil {
		set("role", string(*u.Role))
	}
	if u.Avatar != nil {
		set("avatar", *u.Avatar)
	}
	if u.Bio != nil {
		set("bio", *u.Bio)
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at = CURRENT_TIMESTAMP(3)")
		query := "UPDATE admins SET " + strings.Join(sets, ", ") + " WHERE id = ?"
		n, err := r.exec(ctx, "update_admin", query, append(args, id)...)
		if isDuplicate(err) {
			return domain.Invalid("email or username already in use by another admin")
		}
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
	}
	ok, err := r.exists(ctx, "admins", id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteAdmin(ctx context.Context, id string) error {
	n, err := r.exec(ctx, "delete_admin", deleteAdminSQL, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

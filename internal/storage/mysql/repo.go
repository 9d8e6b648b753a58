package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"real_estate/internal/adapters/observability"
	"real_estate/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.UTC()
}
func valJSON(v []string) any {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func ptrStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
func ptrInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	i := int(ni.Int64)
	return &i
}
func ptrF64(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}
func ptrTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
// jsonList decodes a JSON string array column. A corrupt value reads as an
// empty list so one bad row does not fail a whole page; it is logged.
func jsonList(raw []byte, table, column, id string) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Warn().Err(err).Str("table", table).Str("column", column).Str("id", id).
			Msg("corrupt JSON list column")
		return []string{}
	}
	return out
}

// Repo implements every storage port on one *sql.DB. It is built once in
// main and handed to each service.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

type scanner interface{ Scan(dest ...any) error }

// one runs a single-row query and scans it into dest.
func (r *Repo) one(ctx context.Context, name, query string, args []any, dest ...any) error {
	start := time.Now()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		observability.ObserveDB(name, start, nil)
		return domain.ErrNotFound
	}
	observability.ObserveDB(name, start, err)
	return err
}

func (r *Repo) count(ctx context.Context, name, query string, args ...any) (int64, error) {
	var n int64
	err := r.one(ctx, name, query, args, &n)
	return n, err
}

func (r *Repo) exec(ctx context.Context, name, query string, args ...any) (int64, error) {
	start := time.Now()
	res, err := r.db.ExecContext(ctx, query, args...)
	observability.ObserveDB(name, start, err)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// exists tells an untouched row apart from a missing one after an UPDATE
// that affected nothing.
func (r *Repo) exists(ctx context.Context, table, id string) (bool, error) {
	var one int
	err := r.one(ctx, "exists_"+table, "SELECT 1 FROM "+table+" WHERE id = ?", []any{id}, &one)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// list runs a multi-row query. The result is never nil.
func list[T any](ctx context.Context, r *Repo, name, query string, args []any, scan func(scanner) (T, error)) ([]T, error) {
	start := time.Now()
	out := []T{}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		observability.ObserveDB(name, start, err)
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			observability.ObserveDB(name, start, err)
			return nil, err
		}
		out = append(out, v)
	}
	err = rows.Err()
	observability.ObserveDB(name, start, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// where accumulates AND-ed predicates with their arguments.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, args ...any) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

// in adds "col IN (?, ...)" for a non-empty value list.
func (w *where) in(col string, vals []any) {
	w.add(col+" IN ("+strings.TrimSuffix(strings.Repeat("?, ", len(vals)), ", ")+")", vals...)
}

func (w *where) window(col string, win domain.Window) {
	if !win.From.IsZero() {
		w.add(col+" >= ?", win.From.UTC())
	}
	if !win.To.IsZero() {
		w.add(col+" <= ?", win.To.UTC())
	}
}

func (w *where) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// and appends the predicates to a query that already has a WHERE.
func (w *where) and() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " AND " + strings.Join(w.clauses, " AND ")
}

var (
	_ domain.StatsRepository      = (*Repo)(nil)
	_ domain.ListingRepository    = (*Repo)(nil)
	_ domain.ModerationRepository = (*Repo)(nil)
	_ domain.AccountRepository    = (*Repo)(nil)
	_ domain.SellRepository       = (*Repo)(nil)
	_ domain.PropertyRepository   = (*Repo)(nil)
	_ domain.ReviewRepository     = (*Repo)(nil)
)

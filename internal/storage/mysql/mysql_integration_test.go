//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"real_estate/internal/domain"
	mysqlrepo "real_estate/internal/storage/mysql"
)

// ---------- small helpers ----------
func pint(i int) *int { return &i }

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=estate",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Skipf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "estate")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applied, err := mysqlrepo.Migrate(context.Background(), db)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if len(applied) == 0 {
		t.Fatalf("expected migrations to run on a fresh database")
	}
	again, err := mysqlrepo.Migrate(context.Background(), db)
	if err != nil || len(again) != 0 {
		t.Fatalf("second migrate should be a no-op, got %v %v", again, err)
	}
	return db
}

func mustProperty(t *testing.T, repo *mysqlrepo.Repo, title, city string, price float64, status domain.PropertyStatus, soldAt *time.Time) domain.Property {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	p := domain.Property{
		ID: uuid.NewString(), Title: title, Description: "d", Price: price,
		City: city, Type: domain.TypeHouse, Status: status, Condition: domain.ConditionUsed,
		SoldAt: soldAt, CreatedAt: now, UpdatedAt: now,
	}
	if err := repo.InsertProperty(context.Background(), p); err != nil {
		t.Fatalf("InsertProperty: %v", err)
	}
	return p
}

func mustUser(t *testing.T, db *sql.DB, name string) string {
	t.Helper()
	id := uuid.NewString()
	if _, err := db.Exec(`INSERT INTO users (id, username, email) VALUES (?, ?, ?)`, id, name, name+"@example.com"); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}

func review(propertyID, userID string, status domain.ModerationStatus, rating int) domain.Review {
	now := time.Now().UTC()
	return domain.Review{
		ID: uuid.NewString(), PropertyID: propertyID, UserID: userID, Content: "ok",
		LocationRating: pint(rating), ConditionRating: pint(rating), ValueRating: pint(rating), AmenitiesRating: pint(rating),
		Status: status, CreatedAt: now, UpdatedAt: now,
	}
}

// ---------- the test ----------
func TestRepo_MySQL_Reporting(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	soldAt := time.Now().UTC().Truncate(time.Millisecond)
	villa := mustProperty(t, repo, "Villa", "Beverly Hills", 1_000_000, domain.StatusSold, &soldAt)
	flat := mustProperty(t, repo, "Flat", "New York", 450_000, domain.StatusForSale, nil)
	for i := 0; i < 23; i++ {
		mustProperty(t, repo, fmt.Sprintf("Lot %d", i), "Austin", 80_000, domain.StatusForSale, nil)
	}

	alice := mustUser(t, db, "alice")
	bob := mustUser(t, db, "bob")
	carol := mustUser(t, db, "carol")
	for _, u := range []string{alice, bob, carol} {
		if err := repo.InsertReview(ctx, review(flat.ID, u, domain.ModerationApproved, 4)); err != nil {
			t.Fatalf("InsertReview: %v", err)
		}
	}

	t.Run("listing total ignores review fan-out", func(t *testing.T) {
		q := domain.ListingsQuery{Page: domain.Page{Page: 1, Limit: 10}}
		total, err := repo.CountListings(ctx, q)
		if err != nil {
			t.Fatalf("CountListings: %v", err)
		}
		if total != 25 {
			t.Fatalf("want 25 listings, got %d", total)
		}
		rows, err := repo.ListListings(ctx, q)
		if err != nil {
			t.Fatalf("ListListings: %v", err)
		}
		if len(rows) != 10 {
			t.Fatalf("want a page of 10, got %d", len(rows))
		}
		if domain.TotalPages(total, q.Limit) != 3 {
			t.Fatalf("want 3 pages")
		}
	})

	t.Run("listing rollup", func(t *testing.T) {
		rows, err := repo.ListListings(ctx, domain.ListingsQuery{Page: domain.Page{Page: 1, Limit: 5}, City: "New York"})
		if err != nil || len(rows) != 1 {
			t.Fatalf("ListListings: %v %d", err, len(rows))
		}
		if rows[0].ReviewCount != 3 || rows[0].AverageRating == nil || *rows[0].AverageRating != 4 {
			t.Fatalf("unexpected rollup: %+v", rows[0])
		}
	})

	t.Run("duplicate review", func(t *testing.T) {
		err := repo.InsertReview(ctx, review(flat.ID, alice, domain.ModerationPending, 2))
		if !errors.Is(err, domain.ErrDuplicateReview) {
			t.Fatalf("want ErrDuplicateReview, got %v", err)
		}
	})

	t.Run("top reviewed excludes unreviewed", func(t *testing.T) {
		top, err := repo.TopReviewedProperties(ctx, 10)
		if err != nil {
			t.Fatalf("TopReviewedProperties: %v", err)
		}
		if len(top) != 1 || top[0].ID != flat.ID || top[0].ReviewCount != 3 {
			t.Fatalf("unexpected ranking: %+v", top)
		}
	})

	t.Run("revenue", func(t *testing.T) {
		total, units, err := repo.SoldRevenue(ctx, domain.Window{})
		if err != nil {
			t.Fatalf("SoldRevenue: %v", err)
		}
		if total != 1_000_000 || units != 1 {
			t.Fatalf("want 1,000,000 over 1 unit, got %v over %d", total, units)
		}
		old, _, err := repo.SoldRevenue(ctx, domain.Between(soldAt.AddDate(-1, 0, 0), soldAt.Add(-time.Hour)))
		if err != nil || old != 0 {
			t.Fatalf("window before the sale should be empty, got %v %v", old, err)
		}
		cities, err := repo.TopSellingCities(ctx, 5)
		if err != nil || len(cities) != 1 || cities[0].City != villa.City {
			t.Fatalf("TopSellingCities: %+v %v", cities, err)
		}
	})

	t.Run("price distribution", func(t *testing.T) {
		buckets, err := repo.PriceDistribution(ctx)
		if err != nil {
			t.Fatalf("PriceDistribution: %v", err)
		}
		got := map[string]int64{}
		for _, b := range buckets {
			got[b.PriceRange] = b.Count
		}
		if got["Under $500K"] != 24 || got["$500K-$1M"] != 1 {
			t.Fatalf("unexpected buckets: %v", got)
		}
	})

	t.Run("moderation is one-shot", func(t *testing.T) {
		rv := review(villa.ID, bob, domain.ModerationPending, 5)
		if err := repo.InsertReview(ctx, rv); err != nil {
			t.Fatalf("InsertReview: %v", err)
		}
		moved, err := repo.SetReviewStatus(ctx, rv.ID, domain.ModerationPending, domain.ModerationApproved)
		if err != nil || !moved {
			t.Fatalf("first moderation: %v %v", moved, err)
		}
		moved, err = repo.SetReviewStatus(ctx, rv.ID, domain.ModerationPending, domain.ModerationSpam)
		if err != nil || moved {
			t.Fatalf("second moderation must not apply: %v %v", moved, err)
		}
		st, err := repo.ReviewStatus(ctx, rv.ID)
		if err != nil || st != domain.ModerationApproved {
			t.Fatalf("status: %v %v", st, err)
		}
	})

	t.Run("sold_at round trip", func(t *testing.T) {
		if err := repo.UpdatePropertyStatus(ctx, villa.ID, domain.StatusForSale, nil); err != nil {
			t.Fatalf("UpdatePropertyStatus: %v", err)
		}
		got, err := repo.GetProperty(ctx, villa.ID)
		if err != nil || got.SoldAt != nil || got.Status != domain.StatusForSale {
			t.Fatalf("unexpected property: %+v %v", got, err)
		}
		if err := repo.UpdatePropertyStatus(ctx, "missing", domain.StatusSold, &soldAt); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("want ErrNotFound, got %v", err)
		}
	})
}

package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"real_estate/internal/domain"
)

var errBoom = errors.New("boom")

// ---- stats ----

type fakeStats struct {
	mu     sync.Mutex
	failOn string
	calls  map[string]int

	properties  func(domain.PropertyCount) int64
	revenue     func(domain.Window) (float64, int64)
	sells       func(domain.OfferStatus, domain.Window) int64
	blogs       func(domain.BlogStatus, domain.Window) int64
	users       func(domain.Window) int64
	comments    func(domain.ModerationStatus, domain.Window) int64
	reviews     func(domain.ModerationStatus, domain.Window) int64
	blogViews   int64
	subscribers int64

	byType      []domain.TypeCount
	byCity      []domain.CityCount
	buckets     []domain.PriceBucket
	categories  []domain.CategoryViews
	blogStatus  []domain.StatusCount
	topBlogs    []domain.BlogHighlight
	daily       []domain.DailyCount
	active      int64
	commentStat []domain.StatusCount
	reviewStat  []domain.StatusCount
	pendingC    []domain.CommentBrief
	pendingR    []domain.ReviewBrief
	ratings     domain.RatingAverages
	months      []domain.RevenueMonth
	monthsSince time.Time
	cityRevenue []domain.CityRevenue
	topReviewed []domain.ReviewedProperty
	topCities   []domain.CitySales
}

func (f *fakeStats) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
	if f.failOn == name {
		return errBoom
	}
	return nil
}

func (f *fakeStats) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeStats) CountProperties(ctx context.Context, c domain.PropertyCount) (int64, error) {
	if err := f.hit("CountProperties"); err != nil || f.properties == nil {
		return 0, err
	}
	return f.properties(c), nil
}

func (f *fakeStats) SoldRevenue(ctx context.Context, w domain.Window) (float64, int64, error) {
	if err := f.hit("SoldRevenue"); err != nil || f.revenue == nil {
		return 0, 0, err
	}
	total, units := f.revenue(w)
	return total, units, nil
}

func (f *fakeStats) CountSellSubmissions(ctx context.Context, st domain.OfferStatus, w domain.Window) (int64, error) {
	if err := f.hit("CountSellSubmissions"); err != nil || f.sells == nil {
		return 0, err
	}
	return f.sells(st, w), nil
}

func (f *fakeStats) CountBlogs(ctx context.Context, st domain.BlogStatus, w domain.Window) (int64, error) {
	if err := f.hit("CountBlogs"); err != nil || f.blogs == nil {
		return 0, err
	}
	return f.blogs(st, w), nil
}

func (f *fakeStats) SumBlogViews(ctx context.Context) (int64, error) {
	return f.blogViews, f.hit("SumBlogViews")
}

func (f *fakeStats) CountUsers(ctx context.Context, w domain.Window) (int64, error) {
	if err := f.hit("CountUsers"); err != nil || f.users == nil {
		return 0, err
	}
	return f.users(w), nil
}

func (f *fakeStats) CountComments(ctx context.Context, st domain.ModerationStatus, w domain.Window) (int64, error) {
	if err := f.hit("CountComments"); err != nil || f.comments == nil {
		return 0, err
	}
	return f.comments(st, w), nil
}

func (f *fakeStats) CountReviews(ctx context.Context, st domain.ModerationStatus, w domain.Window) (int64, error) {
	if err := f.hit("CountReviews"); err != nil || f.reviews == nil {
		return 0, err
	}
	return f.reviews(st, w), nil
}

func (f *fakeStats) CountNewsletterSubscribers(ctx context.Context) (int64, error) {
	return f.subscribers, f.hit("CountNewsletterSubscribers")
}

func (f *fakeStats) PropertiesByType(ctx context.Context) ([]domain.TypeCount, error) {
	return f.byType, f.hit("PropertiesByType")
}

func (f *fakeStats) PropertiesByCity(ctx context.Context, limit int) ([]domain.CityCount, error) {
	return f.byCity, f.hit("PropertiesByCity")
}

func (f *fakeStats) PriceDistribution(ctx context.Context) ([]domain.PriceBucket, error) {
	return f.buckets, f.hit("PriceDistribution")
}

func (f *fakeStats) BlogsByCategory(ctx context.Context) ([]domain.CategoryViews, error) {
	return f.categories, f.hit("BlogsByCategory")
}

func (f *fakeStats) BlogStatusBreakdown(ctx context.Context) ([]domain.StatusCount, error) {
	return f.blogStatus, f.hit("BlogStatusBreakdown")
}

func (f *fakeStats) TopBlogs(ctx context.Context, limit int) ([]domain.BlogHighlight, error) {
	return f.topBlogs, f.hit("TopBlogs")
}

func (f *fakeStats) DailyRegistrations(ctx context.Context, since time.Time) ([]domain.DailyCount, error) {
	return f.daily, f.hit("DailyRegistrations")
}

func (f *fakeStats) ActiveUsers(ctx context.Context, since time.Time) (int64, error) {
	return f.active, f.hit("ActiveUsers")
}

func (f *fakeStats) CommentStatusBreakdown(ctx context.Context) ([]domain.StatusCount, error) {
	return f.commentStat, f.hit("CommentStatusBreakdown")
}

func (f *fakeStats) ReviewStatusBreakdown(ctx context.Context) ([]domain.StatusCount, error) {
	return f.reviewStat, f.hit("ReviewStatusBreakdown")
}

func (f *fakeStats) PendingComments(ctx context.Context, limit int) ([]domain.CommentBrief, error) {
	return f.pendingC, f.hit("PendingComments")
}

func (f *fakeStats) PendingReviews(ctx context.Context, limit int) ([]domain.ReviewBrief, error) {
	return f.pendingR, f.hit("PendingReviews")
}

func (f *fakeStats) ApprovedRatingAverages(ctx context.Context) (domain.RatingAverages, error) {
	return f.ratings, f.hit("ApprovedRatingAverages")
}

func (f *fakeStats) RevenueByMonth(ctx context.Context, since time.Time) ([]domain.RevenueMonth, error) {
	f.mu.Lock()
	f.monthsSince = since
	f.mu.Unlock()
	return f.months, f.hit("RevenueByMonth")
}

func (f *fakeStats) RevenueByCity(ctx context.Context, limit int) ([]domain.CityRevenue, error) {
	return f.cityRevenue, f.hit("RevenueByCity")
}

func (f *fakeStats) TopReviewedProperties(ctx context.Context, limit int) ([]domain.ReviewedProperty, error) {
	return f.topReviewed, f.hit("TopReviewedProperties")
}

func (f *fakeStats) TopSellingCities(ctx context.Context, limit int) ([]domain.CitySales, error) {
	return f.topCities, f.hit("TopSellingCities")
}

func (f *fakeStats) RecentProperties(ctx context.Context, limit int) ([]domain.PropertyBrief, error) {
	return nil, f.hit("RecentProperties")
}

func (f *fakeStats) RecentBlogs(ctx context.Context, limit int) ([]domain.BlogHighlight, error) {
	return nil, f.hit("RecentBlogs")
}

func (f *fakeStats) RecentComments(ctx context.Context, limit int) ([]domain.CommentBrief, error) {
	return nil, f.hit("RecentComments")
}

func (f *fakeStats) RecentReviews(ctx context.Context, limit int) ([]domain.ReviewBrief, error) {
	return nil, f.hit("RecentReviews")
}

// ---- listings ----

type fakeListings struct {
	total int64
	rows  []domain.Listing
	last  domain.ListingsQuery
}

func (f *fakeListings) CountListings(ctx context.Context, q domain.ListingsQuery) (int64, error) {
	return f.total, nil
}

func (f *fakeListings) ListListings(ctx context.Context, q domain.ListingsQuery) ([]domain.Listing, error) {
	f.last = q
	return f.rows, nil
}

// ---- cache ----

// fakeCache stores JSON like the redis adapter so cached values never alias
// the repository's.
type fakeCache struct {
	mu      sync.Mutex
	store   map[string][]byte
	dropped []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func (c *fakeCache) DelPrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropped = append(c.dropped, prefix)
	for k := range c.store {
		if strings.HasPrefix(k, prefix) {
			delete(c.store, k)
		}
	}
	return nil
}

// ---- moderation ----

type fakeModeration struct {
	comments map[string]domain.ModerationStatus
	reviews  map[string]domain.ModerationStatus
	listQ    domain.CommentsQuery
}

func (f *fakeModeration) set(m map[string]domain.ModerationStatus, id string, from, to domain.ModerationStatus) bool {
	if cur, ok := m[id]; ok && cur == from {
		m[id] = to
		return true
	}
	return false
}

func (f *fakeModeration) get(m map[string]domain.ModerationStatus, id string) (domain.ModerationStatus, error) {
	cur, ok := m[id]
	if !ok {
		return "", domain.NotFound("comment")
	}
	return cur, nil
}

func (f *fakeModeration) SetCommentStatus(ctx context.Context, id string, from, to domain.ModerationStatus) (bool, error) {
	return f.set(f.comments, id, from, to), nil
}

func (f *fakeModeration) CommentStatus(ctx context.Context, id string) (domain.ModerationStatus, error) {
	return f.get(f.comments, id)
}

func (f *fakeModeration) SetReviewStatus(ctx context.Context, id string, from, to domain.ModerationStatus) (bool, error) {
	return f.set(f.reviews, id, from, to), nil
}

func (f *fakeModeration) ReviewStatus(ctx context.Context, id string) (domain.ModerationStatus, error) {
	return f.get(f.reviews, id)
}

func (f *fakeModeration) ListComments(ctx context.Context, q domain.CommentsQuery) ([]domain.CommentRow, int64, error) {
	f.listQ = q
	return nil, 0, nil
}

func (f *fakeModeration) ListReviews(ctx context.Context, q domain.ReviewsQuery) ([]domain.ReviewRow, int64, error) {
	return nil, 0, nil
}

// ---- properties & reviews ----

type fakeProperties struct {
	byID    map[string]domain.Property
	updated []domain.Property

	total      int64
	reviews    []domain.PublicReview
	lastQuery  domain.ListingsQuery
	lastSearch string
	err        error
}

func (f *fakeProperties) InsertProperty(ctx context.Context, p domain.Property) error {
	if f.byID == nil {
		f.byID = map[string]domain.Property{}
	}
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProperties) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	p, ok := f.byID[id]
	if !ok {
		return domain.Property{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeProperties) UpdatePropertyStatus(ctx context.Context, id string, st domain.PropertyStatus, soldAt *time.Time) error {
	p, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status, p.SoldAt = st, soldAt
	f.byID[id] = p
	f.updated = append(f.updated, p)
	return nil
}

func (f *fakeProperties) DeleteProperty(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeProperties) UpdateProperty(ctx context.Context, p domain.Property) error {
	if _, ok := f.byID[p.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[p.ID] = p
	f.updated = append(f.updated, p)
	return nil
}

func (f *fakeProperties) CountListings(ctx context.Context, q domain.ListingsQuery) (int64, error) {
	return f.total, f.err
}

func (f *fakeProperties) ListProperties(ctx context.Context, q domain.ListingsQuery) ([]domain.Property, error) {
	f.lastQuery = q
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Property
	for _, p := range f.byID {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProperties) SearchProperties(ctx context.Context, term string, limit int) ([]domain.Property, error) {
	f.lastSearch = term
	return nil, f.err
}

// RelatedProperties mirrors the SQL: other ids sharing city, type or zip.
func (f *fakeProperties) RelatedProperties(ctx context.Context, p domain.Property, limit int) ([]domain.Property, error) {
	var out []domain.Property
	for _, o := range f.byID {
		if o.ID == p.ID || len(out) == limit {
			continue
		}
		if o.City == p.City || o.Type == p.Type || o.ZipCode == p.ZipCode {
			out = append(out, o)
		}
	}
	return out, f.err
}

func (f *fakeProperties) ApprovedReviews(ctx context.Context, propertyID string) ([]domain.PublicReview, error) {
	var out []domain.PublicReview
	for _, r := range f.reviews {
		if r.PropertyID == propertyID && r.Status == domain.ModerationApproved {
			out = append(out, r)
		}
	}
	return out, f.err
}

// fakeReviews enforces one review per (property, user) like the unique index.
type fakeReviews struct {
	mu   sync.Mutex
	seen map[[2]string]bool
	err  error
}

func (f *fakeReviews) InsertReview(ctx context.Context, r domain.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.seen == nil {
		f.seen = map[[2]string]bool{}
	}
	k := [2]string{r.PropertyID, r.UserID}
	if f.seen[k] {
		return &domain.DuplicateReviewError{PropertyID: r.PropertyID, UserID: r.UserID}
	}
	f.seen[k] = true
	return nil
}

// ---- accounts ----

type fakeAccounts struct {
	admins    map[string]domain.Admin
	insertErr error
}

func (f *fakeAccounts) ListUsers(ctx context.Context, q domain.UsersQuery) ([]domain.User, int64, error) {
	return nil, 0, nil
}

func (f *fakeAccounts) GetUser(ctx context.Context, id string) (domain.User, error) {
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeAccounts) UserComments(ctx context.Context, userID string) ([]domain.Comment, error) {
	return nil, nil
}

func (f *fakeAccounts) UserReviews(ctx context.Context, userID string) ([]domain.Review, error) {
	return nil, nil
}

func (f *fakeAccounts) NewsletterByEmail(ctx context.Context, email string) (*domain.NewsletterSubscription, error) {
	return nil, nil
}

func (f *fakeAccounts) ListAdmins(ctx context.Context, p domain.Page) ([]domain.Admin, int64, error) {
	out := make([]domain.Admin, 0, len(f.admins))
	for _, a := range f.admins {
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAccounts) GetAdmin(ctx context.Context, id string) (domain.Admin, error) {
	a, ok := f.admins[id]
	if !ok {
		return domain.Admin{}, domain.ErrNotFound
	}
	return a, nil
}

func (f *fakeAccounts) AdminConflict(ctx context.Context, email, username, exceptID string) (string, error) {
	for id, a := range f.admins {
		if id == exceptID {
			continue
		}
		if email != "" && a.Email == email {
			return "email", nil
		}
		if username != "" && a.Username == username {
			return "username", nil
		}
	}
	return "", nil
}

func (f *fakeAccounts) InsertAdmin(ctx context.Context, a domain.Admin) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if f.admins == nil {
		f.admins = map[string]domain.Admin{}
	}
	f.admins[a.ID] = a
	return nil
}

func (f *fakeAccounts) UpdateAdmin(ctx context.Context, id string, u domain.StaffUpdate) error {
	a, ok := f.admins[id]
	if !ok {
		return domain.ErrNotFound
	}
	if u.Email != nil {
		a.Email = *u.Email
	}
	if u.Username != nil {
		a.Username = *u.Username
	}
	if u.Role != nil {
		a.Role = *u.Role
	}
	f.admins[id] = a
	return nil
}

func (f *fakeAccounts) DeleteAdmin(ctx context.Context, id string) error {
	if _, ok := f.admins[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.admins, id)
	return nil
}

type fakeAuth struct {
	created []string
	deleted []string
	// deleteCtx is the context of the last DeleteUser call.
	deleteCtx context.Context
}

func (f *fakeAuth) CreateUser(ctx context.Context, email, password string, meta map[string]any) (string, error) {
	id := "auth-" + email
	f.created = append(f.created, id)
	return id, nil
}

func (f *fakeAuth) DeleteUser(ctx context.Context, id string) error {
	f.deleteCtx = ctx
	if err := ctx.Err(); err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// ---- sell ----

type fakeSell struct {
	inserted []domain.SellSubmission
	statuses map[string]domain.OfferStatus
}

func (f *fakeSell) InsertSubmission(ctx context.Context, s domain.SellSubmission) error {
	f.inserted = append(f.inserted, s)
	return nil
}

func (f *fakeSell) ListSubmissions(ctx context.Context, q domain.SellQuery) ([]domain.SellSubmission, int64, error) {
	return f.inserted, int64(len(f.inserted)), nil
}

func (f *fakeSell) UpdateOfferStatus(ctx context.Context, id string, st domain.OfferStatus) error {
	if _, ok := f.statuses[id]; !ok {
		return domain.ErrNotFound
	}
	f.statuses[id] = st
	return nil
}

func (f *fakeSell) CountSellSubmissions(ctx context.Context, st domain.OfferStatus, w domain.Window) (int64, error) {
	var n int64
	for _, s := range f.inserted {
		if st == "" || s.OfferStatus == st {
			n++
		}
	}
	return n, nil
}

func ptr[T any](v T) *T { return &v }

// fixedNow is mid-month so every period is non-empty.
var fixedNow = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

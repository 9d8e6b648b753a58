package domain

import (
	"context"
	"time"
)

// StatsRepository exposes the aggregate queries behind the dashboard. Zero
// values in filters mean "no constraint".
type StatsRepository interface {
	// Snapshot counters
	CountProperties(ctx context.Context, f PropertyCount) (int64, error)
	SoldRevenue(ctx context.Context, sold Window) (total float64, units int64, err error)
	CountSellSubmissions(ctx context.Context, status OfferStatus, created Window) (int64, error)
	CountBlogs(ctx context.Context, status BlogStatus, published Window) (int64, error)
	SumBlogViews(ctx context.Context) (int64, error)
	CountUsers(ctx context.Context, created Window) (int64, error)
	CountComments(ctx context.Context, status ModerationStatus, created Window) (int64, error)
	CountReviews(ctx context.Context, status ModerationStatus, created Window) (int64, error)
	CountNewsletterSubscribers(ctx context.Context) (int64, error)

	// Breakdowns
	PropertiesByType(ctx context.Context) ([]TypeCount, error)
	PropertiesByCity(ctx context.Context, limit int) ([]CityCount, error)
	PriceDistribution(ctx context.Context) ([]PriceBucket, error)
	BlogsByCategory(ctx context.Context) ([]CategoryViews, error)
	BlogStatusBreakdown(ctx context.Context) ([]StatusCount, error)
	TopBlogs(ctx context.Context, limit int) ([]BlogHighlight, error)
	DailyRegistrations(ctx context.Context, since time.Time) ([]DailyCount, error)
	ActiveUsers(ctx context.Context, since time.Time) (int64, error)
	CommentStatusBreakdown(ctx context.Context) ([]StatusCount, error)
	ReviewStatusBreakdown(ctx context.Context) ([]StatusCount, error)
	PendingComments(ctx context.Context, limit int) ([]CommentBrief, error)
	PendingReviews(ctx context.Context, limit int) ([]ReviewBrief, error)
	ApprovedRatingAverages(ctx context.Context) (RatingAverages, error)

	// Revenue and rankings
	RevenueByMonth(ctx context.Context, since time.Time) ([]RevenueMonth, error)
	RevenueByCity(ctx context.Context, limit int) ([]CityRevenue, error)
	TopReviewedProperties(ctx context.Context, limit int) ([]ReviewedProperty, error)
	TopSellingCities(ctx context.Context, limit int) ([]CitySales, error)

	// Feed
	RecentProperties(ctx context.Context, limit int) ([]PropertyBrief, error)
	RecentBlogs(ctx context.Context, limit int) ([]BlogHighlight, error)
	RecentComments(ctx context.Context, limit int) ([]CommentBrief, error)
	RecentReviews(ctx context.Context, limit int) ([]ReviewBrief, error)
}

// PropertyCount filters CountProperties.
type PropertyCount struct {
	Status  PropertyStatus
	Created Window
	Sold    Window
}

type ListingRepository interface {
	// CountListings counts matching properties without joining reviews.
	CountListings(ctx context.Context, q ListingsQuery) (int64, error)
	ListListings(ctx context.Context, q ListingsQuery) ([]Listing, error)
}

type ModerationRepository interface {
	// SetCommentStatus moves a comment from -> to and reports whether a row
	// changed. The comment is left untouched unless it is currently in from.
	SetCommentStatus(ctx context.Context, id string, from, to ModerationStatus) (bool, error)
	CommentStatus(ctx context.Context, id string) (ModerationStatus, error)
	SetReviewStatus(ctx context.Context, id string, from, to ModerationStatus) (bool, error)
	ReviewStatus(ctx context.Context, id string) (ModerationStatus, error)

	ListComments(ctx context.Context, q CommentsQuery) ([]CommentRow, int64, error)
	ListReviews(ctx context.Context, q ReviewsQuery) ([]ReviewRow, int64, error)
}

type AccountRepository interface {
	ListUsers(ctx context.Context, q UsersQuery) ([]User, int64, error)
	GetUser(ctx context.Context, id string) (User, error)
	UserComments(ctx context.Context, userID string) ([]Comment, error)
	UserReviews(ctx context.Context, userID string) ([]Review, error)
	NewsletterByEmail(ctx context.Context, email string) (*NewsletterSubscription, error)

	ListAdmins(ctx context.Context, p Page) ([]Admin, int64, error)
	GetAdmin(ctx context.Context, id string) (Admin, error)
	// AdminConflict reports which of email/username already belongs to an
	// admin other than exceptID ("" when neither does).
	AdminConflict(ctx context.Context, email, username, exceptID string) (string, error)
	InsertAdmin(ctx context.Context, a Admin) error
	UpdateAdmin(ctx context.Context, id string, u StaffUpdate) error
	DeleteAdmin(ctx context.Context, id string) error
}

type SellRepository interface {
	InsertSubmission(ctx context.Context, s SellSubmission) error
	ListSubmissions(ctx context.Context, q SellQuery) ([]SellSubmission, int64, error)
	UpdateOfferStatus(ctx context.Context, id string, status OfferStatus) error
	CountSellSubmissions(ctx context.Context, status OfferStatus, created Window) (int64, error)
}

type PropertyRepository interface {
	InsertProperty(ctx context.Context, p Property) error
	GetProperty(ctx context.Context, id string) (Property, error)
	// UpdateProperty overwrites every editable column of p, sold_at included.
	UpdateProperty(ctx context.Context, p Property) error

	CountListings(ctx context.Context, q ListingsQuery) (int64, error)
	ListProperties(ctx context.Context, q ListingsQuery) ([]Property, error)
	SearchProperties(ctx context.Context, term string, limit int) ([]Property, error)
	// RelatedProperties returns others sharing p's city, type or zip code.
	RelatedProperties(ctx context.Context, p Property, limit int) ([]Property, error)
	ApprovedReviews(ctx context.Context, propertyID string) ([]PublicReview, error)
	// UpdatePropertyStatus sets status and sold_at together.
	UpdatePropertyStatus(ctx context.Context, id string, status PropertyStatus, soldAt *time.Time) error
	DeleteProperty(ctx context.Context, id string) error
}

type ReviewRepository interface {
	// InsertReview fails with a DuplicateReviewError when the user already
	// reviewed the property.
	InsertReview(ctx context.Context, r Review) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
	DelPrefix(ctx context.Context, prefix string) error
}

// AuthProvider manages identities at the external auth service.
type AuthProvider interface {
	CreateUser(ctx context.Context, email, password string, meta map[string]any) (string, error)
	DeleteUser(ctx context.Context, id string) error
}

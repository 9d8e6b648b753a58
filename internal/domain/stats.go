package domain

import "time"

// Trend compares a count in the current month with the previous one.
type Trend struct {
	ThisMonth int64   `json:"thisMonth"`
	LastMonth int64   `json:"lastMonth"`
	Change    float64 `json:"change"`
}

/********** dashboard snapshot **********/

type PropertySummary struct {
	Total          int64   `json:"total"`
	Available      int64   `json:"available"`
	Sold           int64   `json:"sold"`
	AddedThisMonth int64   `json:"addedThisMonth"`
	InventoryRate  float64 `json:"inventoryRate"`
	SoldThisMonth  int64   `json:"soldThisMonth"`
	SoldLastMonth  int64   `json:"soldLastMonth"`
	SalesChange    float64 `json:"salesChange"`
}

type SellingToUsSummary struct {
	ThisYear     int64   `json:"thisYear"`
	LastYear     int64   `json:"lastYear"`
	ThisMonth    int64   `json:"thisMonth"`
	LastMonth    int64   `json:"lastMonth"`
	Change       float64 `json:"change"`
	YearlyChange float64 `json:"yearlyChange"`
	Total        int64   `json:"total"`
	Pending      int64   `json:"pending"`
	OfferSent    int64   `json:"offerSent"`
	Accepted     int64   `json:"accepted"`
	Rejected     int64   `json:"rejected"`
}

type BlogSummary struct {
	Total        int64 `json:"total"`
	Published    int64 `json:"published"`
	Drafts       int64 `json:"drafts"`
	TotalViews   int64 `json:"totalViews"`
	AverageViews int64 `json:"averageViews"`
}

type UserSummary struct {
	Total        int64 `json:"total"`
	NewThisMonth int64 `json:"newThisMonth"`
}

type EngagementSummary struct {
	TotalComments         int64 `json:"totalComments"`
	PendingComments       int64 `json:"pendingComments"`
	TotalReviews          int64 `json:"totalReviews"`
	PendingReviews        int64 `json:"pendingReviews"`
	NewsletterSubscribers int64 `json:"newsletterSubscribers"`
}

type ActivityCounts struct {
	NewUsersThisMonth   int64 `json:"newUsersThisMonth"`
	NewCommentsThisWeek int64 `json:"newCommentsThisWeek"`
	NewReviewsThisWeek  int64 `json:"newReviewsThisWeek"`
}

type RevenueSummary struct {
	TotalRevenue         string `json:"totalRevenue"`
	MonthlyRevenue       string `json:"monthlyRevenue"`
	AveragePropertyPrice string `json:"averagePropertyPrice"`
}

// DashboardStats is the snapshot every admin sees.
type DashboardStats struct {
	Properties     PropertySummary    `json:"properties"`
	SellingToUs    SellingToUsSummary `json:"sellingToUs"`
	Blogs          BlogSummary        `json:"blogs"`
	Users          UserSummary        `json:"users"`
	Engagement     EngagementSummary  `json:"engagement"`
	RecentActivity ActivityCounts     `json:"recentActivity"`
}

// RevenueDashboardStats is the snapshot for roles allowed to view revenue.
type RevenueDashboardStats struct {
	DashboardStats
	Revenue RevenueSummary `json:"revenue"`
}

// DashboardView is either a DashboardStats or a RevenueDashboardStats.
type DashboardView interface {
	Snapshot() DashboardStats
}

func (d DashboardStats) Snapshot() DashboardStats { return d }

/********** property stats **********/

type TypeCount struct {
	Type         string  `json:"type"`
	Count        int64   `json:"count"`
	AveragePrice float64 `json:"averagePrice"`
}

type CityCount struct {
	City      string `json:"city"`
	Count     int64  `json:"count"`
	SoldCount int64  `json:"soldCount"`
}

type PriceBucket struct {
	PriceRange string `json:"priceRange"`
	Count      int64  `json:"count"`
}

type PropertyStats struct {
	ByType            []TypeCount   `json:"byType"`
	ByCity            []CityCount   `json:"byCity"`
	PriceDistribution []PriceBucket `json:"priceDistribution"`
	MonthlyTrend      Trend         `json:"monthlyTrend"`
}

/********** blog stats **********/

type CategoryViews struct {
	Category   string `json:"category"`
	Count      int64  `json:"count"`
	TotalViews int64  `json:"totalViews"`
}

type BlogHighlight struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	ViewCount   int64      `json:"viewCount"`
	Category    string     `json:"category"`
	PublishedAt *time.Time `json:"publishedAt"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type BlogStats struct {
	ByCategory      []CategoryViews `json:"byCategory"`
	TopPerforming   []BlogHighlight `json:"topPerforming"`
	StatusBreakdown []StatusCount   `json:"statusBreakdown"`
	MonthlyTrend    Trend           `json:"monthlyTrend"`
}

/********** user stats **********/

type DailyCount struct {
	Date     string `json:"date"`
	NewUsers int64  `json:"newUsers"`
}

type UserStats struct {
	RegistrationTrend []DailyCount `json:"registrationTrend"`
	ActiveUsers       int64        `json:"activeUsers"`
	MonthlyGrowth     Trend        `json:"monthlyGrowth"`
}

/********** content moderation **********/

type CommentBrief struct {
	ID        string           `json:"id"`
	BlogID    string           `json:"blogId"`
	Content   string           `json:"content"`
	Username  string           `json:"username"`
	Status    ModerationStatus `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
}

type ReviewBrief struct {
	ID         string           `json:"id"`
	PropertyID string           `json:"propertyId"`
	Content    string           `json:"content"`
	Name       *string          `json:"name"`
	Status     ModerationStatus `json:"status"`
	CreatedAt  time.Time        `json:"createdAt"`
}

type CommentModeration struct {
	StatusBreakdown []StatusCount  `json:"statusBreakdown"`
	PendingItems    []CommentBrief `json:"pendingItems"`
}

type ReviewModeration struct {
	StatusBreakdown []StatusCount `json:"statusBreakdown"`
	PendingItems    []ReviewBrief `json:"pendingItems"`
}

type ContentStats struct {
	Comments CommentModeration `json:"comments"`
	Reviews  ReviewModeration  `json:"reviews"`
}

type ModerationCounts struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Spam     int64 `json:"spam"`
}

type RatingAverages struct {
	Location  float64 `json:"location"`
	Condition float64 `json:"condition"`
	Value     float64 `json:"value"`
	Amenities float64 `json:"amenities"`
}

type ReviewCounts struct {
	ModerationCounts
	AverageRatings RatingAverages `json:"averageRatings"`
}

/********** revenue **********/

// RevenueMonth, CityRevenue and CitySales are raw aggregate rows; the
// reporting layer formats their money columns.
type RevenueMonth struct {
	Month   string
	Revenue float64
	Units   int64
}

type CityRevenue struct {
	City         string
	Revenue      float64
	UnitsSold    int64
	AveragePrice float64
}

type CitySales struct {
	City         string
	SoldCount    int64
	TotalRevenue float64
}

type RevenueOverview struct {
	TotalRevenue         string `json:"totalRevenue"`
	TotalPropertiesSold  int64  `json:"totalPropertiesSold"`
	AveragePropertyPrice string `json:"averagePropertyPrice"`
}

type MonthlyRevenue struct {
	Month          string `json:"month"`
	Revenue        string `json:"revenue"`
	PropertiesSold int64  `json:"propertiesSold"`
}

type CityRevenueView struct {
	City         string `json:"city"`
	Revenue      string `json:"revenue"`
	UnitsSold    int64  `json:"unitsSold"`
	AveragePrice string `json:"averagePrice"`
}

type RevenueStats struct {
	Overview     RevenueOverview   `json:"overview"`
	MonthlyTrend []MonthlyRevenue  `json:"monthlyTrend"`
	ByCity       []CityRevenueView `json:"byCity"`
}

/********** top performers **********/

type ReviewedProperty struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	City        string  `json:"city"`
	Price       float64 `json:"price"`
	ReviewCount int64   `json:"reviewCount"`
}

type CitySalesView struct {
	City         string `json:"city"`
	SoldCount    int64  `json:"soldCount"`
	TotalRevenue string `json:"totalRevenue"`
}

type TopPerformers struct {
	TopBlogs              []BlogHighlight    `json:"topBlogs"`
	TopReviewedProperties []ReviewedProperty `json:"topReviewedProperties"`
	TopSellingCities      []CitySalesView    `json:"topSellingCities"`
}

/********** recent activity feed **********/

type PropertyBrief struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	City      string    `json:"city"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
}

type RecentActivity struct {
	RecentProperties []PropertyBrief `json:"recentProperties"`
	RecentBlogs      []BlogHighlight `json:"recentBlogs"`
	RecentComments   []CommentBrief  `json:"recentComments"`
	RecentReviews    []ReviewBrief   `json:"recentReviews"`
}

/********** listings **********/

type ListingsQuery struct {
	Page
	Type      string
	Status    string
	Condition string
	City      string
	State     string
	ZipCode   string
	Bedrooms  *int
	Bathrooms *float64
	MinPrice  *float64
	MaxPrice  *float64

	// Catalog filters. Types and BedroomsIn match any listed value; Search
	// matches title, address, city or description.
	Types        []string
	BedroomsIn   []int
	MinBedrooms  *int
	MinBathrooms *float64
	MinSqft      *int
	Search       string
}

// Listing is a property with its review rollup. AverageRating is nil when
// the property has no reviews.
type Listing struct {
	Property
	AverageRating *float64 `json:"averageRating"`
	ReviewCount   int64    `json:"reviewCount"`
}

type ListingsPage struct {
	TotalItems  int64     `json:"totalItems"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
	Listings    []Listing `json:"listings"`
}

type CommentsQuery struct {
	Page
	Status string
	BlogID string
}

type ReviewsQuery struct {
	Page
	Status     string
	PropertyID string
}

type SellQuery struct {
	Page
	Status string
}

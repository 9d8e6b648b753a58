package domain

import "time"

type BlogStatus string

const (
	BlogDraft     BlogStatus = "draft"
	BlogPublished BlogStatus = "published"
)

type Blog struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Status      BlogStatus `json:"status"`
	ViewCount   int64      `json:"viewCount"`
	AuthorID    *string    `json:"authorId,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type Comment struct {
	ID        string           `json:"id"`
	BlogID    string           `json:"blogId"`
	UserID    string           `json:"userId"`
	Username  string           `json:"username"`
	Content   string           `json:"content"`
	Status    ModerationStatus `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// CommentRow is a comment with the title of the blog it was left on.
type CommentRow struct {
	Comment
	BlogTitle string `json:"blogTitle"`
}

type NewsletterSubscription struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	SubscribedAt   time.Time  `json:"subscribedAt"`
	UnsubscribedAt *time.Time `json:"unsubscribedAt,omitempty"`
}

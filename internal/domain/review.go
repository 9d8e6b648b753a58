package domain

import "time"

// ModerationStatus governs visibility of user generated content
// (comments and reviews).
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
	ModerationSpam     ModerationStatus = "spam"
)

var ModerationStatuses = []ModerationStatus{
	ModerationPending, ModerationApproved, ModerationRejected, ModerationSpam,
}

func ParseModerationStatus(s string) (ModerationStatus, bool) {
	for _, st := range ModerationStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// CanTransition reports whether content in state from may be moved to to.
// Moderation is one-shot: only pending content can be decided, and it can
// never be put back to pending.
func CanTransition(from, to ModerationStatus) bool {
	return from == ModerationPending && to != ModerationPending
}

type Review struct {
	ID              string           `json:"id"`
	PropertyID      string           `json:"propertyId"`
	UserID          string           `json:"userId"`
	Name            *string          `json:"name,omitempty"`
	Content         string           `json:"content"`
	LocationRating  *int             `json:"locationRating,omitempty"`
	ConditionRating *int             `json:"conditionRating,omitempty"`
	ValueRating     *int             `json:"valueRating,omitempty"`
	AmenitiesRating *int             `json:"amenitiesRating,omitempty"`
	Status          ModerationStatus `json:"status"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// ReviewRow is a review joined with the property and author it belongs to,
// as shown in the moderation list.
type ReviewRow struct {
	Review
	PropertyTitle string `json:"propertyTitle"`
	PropertyCity  string `json:"propertyCity"`
	Username      string `json:"username"`
	UserEmail     string `json:"userEmail"`
}

// PublicReview is an approved review as shown on a property page.
type PublicReview struct {
	Review
	Username string `json:"username"`
}

type NewReview struct {
	PropertyID      string
	Name            *string
	Content         string
	LocationRating  *int
	ConditionRating *int
	ValueRating     *int
	AmenitiesRating *int
}

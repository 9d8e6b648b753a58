package domain

import "time"

type OfferStatus string

const (
	OfferPending  OfferStatus = "Pending"
	OfferSent     OfferStatus = "Offer Sent"
	OfferAccepted OfferStatus = "Accepted"
	OfferRejected OfferStatus = "Rejected"
)

var OfferStatuses = []OfferStatus{OfferPending, OfferSent, OfferAccepted, OfferRejected}

func ParseOfferStatus(s string) (OfferStatus, bool) {
	for _, st := range OfferStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// SellSubmission is an owner's request to sell a property directly to us.
type SellSubmission struct {
	ID              string      `json:"id"`
	FullName        string      `json:"fullName"`
	PhoneNumber     string      `json:"phoneNumber"`
	EmailAddress    string      `json:"emailAddress"`
	PropertyType    string      `json:"propertyType"`
	Address         string      `json:"address"`
	City            string      `json:"city"`
	State           string      `json:"state"`
	ZipCode         string      `json:"zipCode"`
	Bedrooms        *int        `json:"bedrooms,omitempty"`
	Bathrooms       *float64    `json:"bathrooms,omitempty"`
	Sqft            *int        `json:"sqft,omitempty"`
	AskingPrice     *float64    `json:"askingPrice,omitempty"`
	Condition       string      `json:"condition"`
	Images          []string    `json:"images"`
	AdditionalNotes *string     `json:"additionalNotes,omitempty"`
	OfferStatus     OfferStatus `json:"offerStatus"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

type SellStats struct {
	Total     int64 `json:"total"`
	ThisMonth int64 `json:"thisMonth"`
	Pending   int64 `json:"pending"`
	OfferSent int64 `json:"offerSent"`
	Accepted  int64 `json:"accepted"`
	Rejected  int64 `json:"rejected"`
}

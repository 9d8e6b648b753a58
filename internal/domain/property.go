package domain

import "time"

type PropertyType string

const (
	TypeHouse      PropertyType = "House"
	TypeApartment  PropertyType = "Apartment"
	TypeCondo      PropertyType = "Condo"
	TypeLand       PropertyType = "Land"
	TypeCommercial PropertyType = "Commercial"
	TypeTownhouse  PropertyType = "Townhouse"
	TypeVilla      PropertyType = "Villa"
)

var PropertyTypes = []PropertyType{
	TypeHouse, TypeApartment, TypeCondo, TypeLand, TypeCommercial, TypeTownhouse, TypeVilla,
}

type PropertyStatus string

const (
	StatusForSale PropertyStatus = "For Sale"
	StatusForRent PropertyStatus = "For Rent"
	StatusSold    PropertyStatus = "Sold"
	StatusPending PropertyStatus = "Pending"
)

var PropertyStatuses = []PropertyStatus{StatusForSale, StatusForRent, StatusSold, StatusPending}

type PropertyCondition string

const (
	ConditionNew               PropertyCondition = "New"
	ConditionUsed              PropertyCondition = "Used"
	ConditionRenovated         PropertyCondition = "Renovated"
	ConditionUnderConstruction PropertyCondition = "Under Construction"
)

var PropertyConditions = []PropertyCondition{
	ConditionNew, ConditionUsed, ConditionRenovated, ConditionUnderConstruction,
}

// Property is a listing. SoldAt is set while Status is Sold and drives
// every period-scoped revenue and sales figure.
type Property struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Price       float64           `json:"price"`
	Address     string            `json:"address"`
	City        string            `json:"city"`
	State       string            `json:"state"`
	ZipCode     string            `json:"zipCode"`
	Type        PropertyType      `json:"type"`
	Status      PropertyStatus    `json:"status"`
	Bedrooms    *int              `json:"bedrooms,omitempty"`
	Bathrooms   *float64          `json:"bathrooms,omitempty"`
	Sqft        *int              `json:"sqft,omitempty"`
	YearBuilt   *int              `json:"yearBuilt,omitempty"`
	Condition   PropertyCondition `json:"condition"`
	Features    []string          `json:"features"`
	Images      []string          `json:"images"`
	SoldAt      *time.Time        `json:"soldAt,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func ParsePropertyType(s string) (PropertyType, bool) {
	for _, t := range PropertyTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

func ParsePropertyStatus(s string) (PropertyStatus, bool) {
	for _, st := range PropertyStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

func ParsePropertyCondition(s string) (PropertyCondition, bool) {
	for _, c := range PropertyConditions {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// PriceBand is one bucket of the price histogram. Bands are matched in
// order; the last band has no upper bound.
type PriceBand struct {
	Label     string
	Max       float64
	Inclusive bool
}

var PriceBands = []PriceBand{
	{Label: "Under $500K", Max: 500_000},
	{Label: "$500K-$1M", Max: 1_000_000, Inclusive: true},
	{Label: "$1M-$2M", Max: 2_000_000, Inclusive: true},
	{Label: "$2M-$5M", Max: 5_000_000, Inclusive: true},
	{Label: "Over $5M"},
}

func (b PriceBand) Unbounded() bool { return b.Max == 0 }

func (b PriceBand) Contains(price float64) bool {
	switch {
	case b.Unbounded():
		return true
	case b.Inclusive:
		return price <= b.Max
	default:
		return price < b.Max
	}
}

// PriceBandOf returns the label of the first band that contains price.
func PriceBandOf(price float64) string {
	for _, b := range PriceBands {
		if b.Contains(price) {
			return b.Label
		}
	}
	return PriceBands[len(PriceBands)-1].Label
}

// PropertyPage is one page of the public catalog.
type PropertyPage struct {
	TotalItems  int64      `json:"totalItems"`
	TotalPages  int        `json:"totalPages"`
	CurrentPage int        `json:"currentPage"`
	Properties  []Property `json:"properties"`
}

// PropertyDetail is a property with up to four others sharing its city, type
// or zip code, and its approved reviews.
type PropertyDetail struct {
	Property          Property       `json:"property"`
	RelatedProperties []Property     `json:"relatedProperties"`
	Reviews           []PublicReview `json:"reviews"`
}

// PropertyPatch is an admin edit. Nil fields are left unchanged.
type PropertyPatch struct {
	Title       *string
	Description *string
	Price       *float64
	Address     *string
	City        *string
	State       *string
	ZipCode     *string
	Type        *string
	Status      *string
	Bedrooms    *int
	Bathrooms   *float64
	Sqft        *int
	YearBuilt   *int
	Condition   *string
	Features    []string
	Images      []string
}

// Apply returns p with the patch's non-nil fields written over it.
func (u PropertyPatch) Apply(p Property) Property {
	setStr := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setStr(&p.Title, u.Title)
	setStr(&p.Description, u.Description)
	setStr(&p.Address, u.Address)
	setStr(&p.City, u.City)
	setStr(&p.State, u.State)
	setStr(&p.ZipCode, u.ZipCode)
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Type != nil {
		p.Type = PropertyType(*u.Type)
	}
	if u.Status != nil {
		p.Status = PropertyStatus(*u.Status)
	}
	if u.Condition != nil {
		p.Condition = PropertyCondition(*u.Condition)
	}
	if u.Bedrooms != nil {
		p.Bedrooms = u.Bedrooms
	}
	if u.Bathrooms != nil {
		p.Bathrooms = u.Bathrooms
	}
	if u.Sqft != nil {
		p.Sqft = u.Sqft
	}
	if u.YearBuilt != nil {
		p.YearBuilt = u.YearBuilt
	}
	if u.Features != nil {
		p.Features = u.Features
	}
	if u.Images != nil {
		p.Images = u.Images
	}
	return p
}

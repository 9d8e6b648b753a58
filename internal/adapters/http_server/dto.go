package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"real_estate/internal/domain"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads a JSON body into dst and runs its validate tags.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Invalid("request body is required")
		}
		return domain.Invalid("malformed JSON body")
	}
	return check(dst)
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	fields := make(map[string]string, len(ves))
	for _, fe := range ves {
		fields[fe.Field()] = describe(fe)
	}
	return &domain.ValidationError{Message: "validation failed", Fields: fields}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "url":
		return "must be a URL"
	}
	return "failed " + fe.Tag() + " check"
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type sellRequest struct {
	FullName        string   `json:"fullName" validate:"required,max=100"`
	PhoneNumber     string   `json:"phoneNumber" validate:"required"`
	EmailAddress    string   `json:"emailAddress" validate:"required,email"`
	PropertyType    string   `json:"propertyType" validate:"required"`
	Address         string   `json:"address" validate:"required,max=255"`
	City            string   `json:"city" validate:"max=120"`
	State           string   `json:"state" validate:"max=120"`
	ZipCode         string   `json:"zipCode" validate:"max=20"`
	Bedrooms        *int     `json:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms       *float64 `json:"bathrooms" validate:"omitempty,gte=0"`
	Sqft            *int     `json:"sqft" validate:"omitempty,gte=0"`
	AskingPrice     *float64 `json:"askingPrice"`
	Condition       string   `json:"condition" validate:"required"`
	Images          []string `json:"images" validate:"omitempty,max=20,dive,url"`
	AdditionalNotes *string  `json:"additionalNotes" validate:"omitempty,max=2000"`
}

func (s sellRequest) toDomain() domain.SellSubmission {
	return domain.SellSubmission{
		FullName: strings.TrimSpace(s.FullName), PhoneNumber: strings.TrimSpace(s.PhoneNumber),
		EmailAddress: strings.TrimSpace(s.EmailAddress), PropertyType: s.PropertyType,
		Address: s.Address, City: s.City, State: s.State, ZipCode: s.ZipCode,
		Bedrooms: s.Bedrooms, Bathrooms: s.Bathrooms, Sqft: s.Sqft, AskingPrice: s.AskingPrice,
		Condition: s.Condition, Images: s.Images, AdditionalNotes: s.AdditionalNotes,
	}
}

type reviewRequest struct {
	Name            *string `json:"name" validate:"omitempty,max=100"`
	Content         string  `json:"content" validate:"required,max=1000"`
	LocationRating  *int    `json:"locationRating" validate:"omitempty,gte=1,lte=5"`
	ConditionRating *int    `json:"conditionRating" validate:"omitempty,gte=1,lte=5"`
	ValueRating     *int    `json:"valueRating" validate:"omitempty,gte=1,lte=5"`
	AmenitiesRating *int    `json:"amenitiesRating" validate:"omitempty,gte=1,lte=5"`
}

type propertyRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"gte=0"`
	Address     string   `json:"address" validate:"max=255"`
	City        string   `json:"city" validate:"required,max=120"`
	State       string   `json:"state" validate:"max=120"`
	ZipCode     string   `json:"zipCode" validate:"max=20"`
	Type        string   `json:"type" validate:"required"`
	Status      string   `json:"status"`
	Bedrooms    *int     `json:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms   *float64 `json:"bathrooms" validate:"omitempty,gte=0"`
	Sqft        *int     `json:"sqft" validate:"omitempty,gte=0"`
	YearBuilt   *int     `json:"yearBuilt" validate:"omitempty,gte=1800,lte=2100"`
	Condition   string   `json:"condition"`
	Features    []string `json:"features"`
	Images      []string `json:"images" validate:"omitempty,dive,url"`
}

func (p propertyRequest) toDomain() domain.Property {
	return domain.Property{
		Title: strings.TrimSpace(p.Title), Description: p.Description, Price: p.Price,
		Address: p.Address, City: strings.TrimSpace(p.City), State: p.State, ZipCode: p.ZipCode,
		Type: domain.PropertyType(p.Type), Status: domain.PropertyStatus(p.Status),
		Bedrooms: p.Bedrooms, Bathrooms: p.Bathrooms, Sqft: p.Sqft, YearBuilt: p.YearBuilt,
		Condition: domain.PropertyCondition(p.Condition), Features: p.Features, Images: p.Images,
	}
}

type updatePropertyRequest struct {
	Title       *string  `json:"title" validate:"omitempty,max=255"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Address     *string  `json:"address" validate:"omitempty,max=255"`
	City        *string  `json:"city" validate:"omitempty,max=120"`
	State       *string  `json:"state" validate:"omitempty,max=120"`
	ZipCode     *string  `json:"zipCode" validate:"omitempty,max=20"`
	Type        *string  `json:"type"`
	Status      *string  `json:"status"`
	Bedrooms    *int     `json:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms   *float64 `json:"bathrooms" validate:"omitempty,gte=0"`
	Sqft        *int     `json:"sqft" validate:"omitempty,gte=0"`
	YearBuilt   *int     `json:"yearBuilt" validate:"omitempty,gte=1800,lte=2100"`
	Condition   *string  `json:"condition"`
	Features    []string `json:"features"`
	Images      []string `json:"images" validate:"omitempty,dive,url"`
}

func (u updatePropertyRequest) toDomain() domain.PropertyPatch {
	return domain.PropertyPatch{
		Title: u.Title, Description: u.Description, Price: u.Price,
		Address: u.Address, City: u.City, State: u.State, ZipCode: u.ZipCode,
		Type: u.Type, Status: u.Status, Condition: u.Condition,
		Bedrooms: u.Bedrooms, Bathrooms: u.Bathrooms, Sqft: u.Sqft, YearBuilt: u.YearBuilt,
		Features: u.Features, Images: u.Images,
	}
}

type createStaffRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Position string  `json:"position" validate:"required,max=100"`
	Role     string  `json:"role" validate:"omitempty,oneof=admin super_admin"`
	Avatar   *string `json:"avatar" validate:"omitempty,url"`
	Bio      *string `json:"bio" validate:"omitempty,max=1000"`
}

func (c createStaffRequest) toDomain() domain.NewStaff {
	role := domain.Role(c.Role)
	if role == "" {
		role = domain.RoleAdmin
	}
	return domain.NewStaff{
		Username: strings.TrimSpace(c.Username), Email: strings.TrimSpace(c.Email), Password: c.Password,
		Position: c.Position, Role: role, Avatar: c.Avatar, Bio: c.Bio,
	}
}

type updateStaffRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Position *string `json:"position" validate:"omitempty,max=100"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin super_admin"`
	Avatar   *string `json:"avatar" validate:"omitempty,url"`
	Bio      *string `json:"bio" validate:"omitempty,max=1000"`
}

func (u updateStaffRequest) toDomain() domain.StaffUpdate {
	out := domain.StaffUpdate{Username: u.Username, Email: u.Email, Position: u.Position, Avatar: u.Avatar, Bio: u.Bio}
	if u.Role != nil {
		r := domain.Role(*u.Role)
		out.Role = &r
	}
	return out
}

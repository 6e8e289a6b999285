package property

import (
	"bytes"
	"encoding/json"
	"strings"

	"estatehub/internal/pkg/validator"
)

// Filters narrows FindAll. Zero values mean "no constraint".
type Filters struct {
	City     string
	Type     Type
	MinPrice float64
	MaxPrice float64
}

// IsEmpty reports whether no filter is set.
func (f Filters) IsEmpty() bool {
	return f.City == "" && f.Type == "" && f.MinPrice == 0 && f.MaxPrice == 0
}

// CreatePropertyRequest is the POST /api/properties body.
type CreatePropertyRequest struct {
	Title     string  `json:"title" validate:"required,max=200"`
	City      string  `json:"city" validate:"required,max=100"`
	Price     float64 `json:"price" validate:"required,gt=0,lte=10000000"`
	Surface   int     `json:"surface" validate:"required,gt=0,lte=1000"`
	Bedrooms  *int    `json:"bedrooms" validate:"omitempty,gte=0,lte=10"`
	Bathrooms *int    `json:"bathrooms" validate:"omitempty,gte=0,lte=10"`
	Type      Type    `json:"type" validate:"required,oneof=apartment house villa studio"`
	ImageURL  string  `json:"image_url" validate:"omitempty,url,max=500"`
}

// Normalize trims text fields in place.
func (r *CreatePropertyRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.City = strings.TrimSpace(r.City)
	r.ImageURL = strings.TrimSpace(r.ImageURL)
}

// ToProperty maps the request onto a new entity. Zero bedroom/bathroom counts
// and an empty image URL are stored as absent.
func (r *CreatePropertyRequest) ToProperty() *Property {
	return &Property{
		Title:     r.Title,
		City:      r.City,
		Price:     r.Price,
		Surface:   r.Surface,
		Bedrooms:  positiveOrNil(r.Bedrooms),
		Bathrooms: positiveOrNil(r.Bathrooms),
		Type:      r.Type,
		ImageURL:  nonEmptyOrNil(r.ImageURL),
	}
}

// Field tracks whether a JSON key was present, and whether it was null.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

// Present reports a non-null value.
func (f Field[T]) Present() bool {
	return f.Set && !f.Null
}

// UpdatePropertyRequest is the PUT /api/properties/:id body. Keys that are
// absent leave the stored value untouched.
type UpdatePropertyRequest struct {
	Title     Field[string]  `json:"title"`
	City      Field[string]  `json:"city"`
	Price     Field[float64] `json:"price"`
	Surface   Field[int]     `json:"surface"`
	Bedrooms  Field[int]     `json:"bedrooms"`
	Bathrooms Field[int]     `json:"bathrooms"`
	Type      Field[Type]    `json:"type"`
	ImageURL  Field[string]  `json:"image_url"`
}

// Validate returns field -> failed rule. Required columns may be omitted but
// not nulled; bedrooms/bathrooms/image_url accept null.
func (r *UpdatePropertyRequest) Validate() map[string]string {
	errs := make(map[string]string)

	if r.Title.Set {
		if r.Title.Null {
			errs["Title"] = "required"
		} else if tag := validator.Var(strings.TrimSpace(r.Title.Value), "required,max=200"); tag != "" {
			errs["Title"] = tag
		}
	}
	if r.City.Set {
		if r.City.Null {
			errs["City"] = "required"
		} else if tag := validator.Var(strings.TrimSpace(r.City.Value), "required,max=100"); tag != "" {
			errs["City"] = tag
		}
	}
	if r.Price.Set {
		if r.Price.Null {
			errs["Price"] = "required"
		} else if tag := validator.Var(r.Price.Value, "gt=0,lte=10000000"); tag != "" {
			errs["Price"] = tag
		}
	}
	if r.Surface.Set {
		if r.Surface.Null {
			errs["Surface"] = "required"
		} else if tag := validator.Var(r.Surface.Value, "gt=0,lte=1000"); tag != "" {
			errs["Surface"] = tag
		}
	}
	if r.Bedrooms.Present() {
		if tag := validator.Var(r.Bedrooms.Value, "lte=10"); tag != "" {
			errs["Bedrooms"] = tag
		}
	}
	if r.Bathrooms.Present() {
		if tag := validator.Var(r.Bathrooms.Value, "lte=10"); tag != "" {
			errs["Bathrooms"] = tag
		}
	}
	if r.Type.Set {
		if r.Type.Null || !r.Type.Value.Valid() {
			errs["Type"] = "oneof"
		}
	}
	if r.ImageURL.Present() && strings.TrimSpace(r.ImageURL.Value) != "" {
		if tag := validator.Var(strings.TrimSpace(r.ImageURL.Value), "url,max=500"); tag != "" {
			errs["ImageURL"] = tag
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Columns renders the present keys as a gorm column map, applying the
// normalization rules: null or non-positive counts and empty image URLs
// become NULL. Nulls on required columns are rejected by Validate first.
func (r *UpdatePropertyRequest) Columns() map[string]any {
	cols := make(map[string]any)
	if r.Title.Present() {
		cols["title"] = strings.TrimSpace(r.Title.Value)
	}
	if r.City.Present() {
		cols["city"] = strings.TrimSpace(r.City.Value)
	}
	if r.Price.Present() {
		cols["price"] = r.Price.Value
	}
	if r.Surface.Present() {
		cols["surface"] = r.Surface.Value
	}
	if r.Type.Present() {
		cols["type"] = string(r.Type.Value)
	}
	if r.Bedrooms.Set {
		cols["bedrooms"] = nullableCount(r.Bedrooms)
	}
	if r.Bathrooms.Set {
		cols["bathrooms"] = nullableCount(r.Bathrooms)
	}
	if r.ImageURL.Set {
		if url := strings.TrimSpace(r.ImageURL.Value); r.ImageURL.Null || url == "" {
			cols["image_url"] = nil
		} else {
			cols["image_url"] = url
		}
	}
	return cols
}

func nullableCount(f Field[int]) any {
	if f.Null || f.Value <= 0 {
		return nil
	}
	return f.Value
}

func positiveOrNil(v *int) *int {
	if v == nil || *v <= 0 {
		return nil
	}
	n := *v
	return &n
}

func nonEmptyOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// DeleteResponse is returned by DELETE /api/properties/:id.
type DeleteResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

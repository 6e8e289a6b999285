package property

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Type is the closed set of property kinds.
type Type string

const (
	TypeApartment Type = "apartment"
	TypeHouse     Type = "house"
	TypeVilla     Type = "villa"
	TypeStudio    Type = "studio"
)

// Types lists every accepted Type in display order.
var Types = []Type{TypeApartment, TypeHouse, TypeVilla, TypeStudio}

func (t Type) Valid() bool {
	switch t {
	case TypeApartment, TypeHouse, TypeVilla, TypeStudio:
		return true
	}
	return false
}

// Property is a listed real-estate item.
// Bedrooms, Bathrooms and ImageURL are nil when the listing has no value.
type Property struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title     string    `json:"title" gorm:"type:varchar(200);not null"`
	City      string    `json:"city" gorm:"type:varchar(100);not null;index"`
	Price     float64   `json:"price" gorm:"type:decimal(12,2);not null"`
	Surface   int       `json:"surface" gorm:"not null"`
	Bedrooms  *int      `json:"bedrooms"`
	Bathrooms *int      `json:"bathrooms"`
	Type      Type      `json:"type" gorm:"type:varchar(50);not null"`
	ImageURL  *string   `json:"image_url" gorm:"type:varchar(500)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName возвращает имя таблицы в БД
func (Property) TableName() string {
	return "properties"
}

// BeforeCreate assigns a UUID unless the caller already set an id.
func (p *Property) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

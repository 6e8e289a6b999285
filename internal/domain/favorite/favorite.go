package favorite

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"estatehub/internal/domain/property"
)

// Favorite представляет связь пользователя с избранным объектом.
// Каждая запись означает, что пользователь добавил объект в свой список избранного.
type Favorite struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PropertyID string    `json:"property_id" gorm:"type:varchar(36);not null;index;uniqueIndex:idx_user_property,priority:2"`
	UserID     string    `json:"user_id" gorm:"type:varchar(100);not null;uniqueIndex:idx_user_property,priority:1"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`

	Property *property.Property `json:"-" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

// TableName возвращает имя таблицы в БД
func (Favorite) TableName() string {
	return "favorites"
}

func (f *Favorite) BeforeCreate(*gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// FavoriteWithProperty используется для ответа API с краткой информацией об объекте
type FavoriteWithProperty struct {
	Favorite
	PropertyTitle string  `json:"property_title"`
	PropertyCity  string  `json:"property_city"`
	PropertyPrice float64 `json:"property_price"`
	PropertyImage *string `json:"property_image"`
}

// Action is the outcome of a toggle.
type Action string

const (
	ActionAdded   Action = "added"
	ActionRemoved Action = "removed"
)

// ToggleResult reports what a toggle did. Favorite is set only when added.
type ToggleResult struct {
	Action   Action    `json:"action"`
	Favorite *Favorite `json:"favorite"`
}

package favorite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"estatehub/internal/database"
	"estatehub/internal/domain/property"
)

// Repository определяет методы для работы с избранным
type Repository interface {
	Add(ctx context.Context, userID, propertyID string) (*Favorite, bool, error)
	Remove(ctx context.Context, userID, propertyID string) (bool, error)
	Toggle(ctx context.Context, userID, propertyID string) (*ToggleResult, error)
	ListByUser(ctx context.Context, userID string) ([]FavoriteWithProperty, error)
	Exists(ctx context.Context, userID, propertyID string) (bool, error)
	Count(ctx context.Context, userID string) (int64, error)
}

// repository реализует Repository
type repository struct {
	db *gorm.DB
}

// NewRepository создаёт новый экземпляр репозитория
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Add добавляет объект в избранное пользователя.
// Повторное добавление не ошибка: возвращается существующая запись и created=false.
func (r *repository) Add(ctx context.Context, userID, propertyID string) (*Favorite, bool, error) {
	var (
		favorite *Favorite
		created  bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		favorite, created, err = add(tx, userID, propertyID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return favorite, created, nil
}

// Remove удаляет объект из избранного и сообщает, была ли запись.
func (r *repository) Remove(ctx context.Context, userID, propertyID string) (bool, error) {
	return remove(r.db.WithContext(ctx), userID, propertyID)
}

// Toggle flips the pair inside one transaction: an existing favorite is
// deleted, otherwise one is inserted. Losing an insert race to a concurrent
// toggle counts as "added".
func (r *repository) Toggle(ctx context.Context, userID, propertyID string) (*ToggleResult, error) {
	var result *ToggleResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		removed, err := remove(tx, userID, propertyID)
		if err != nil {
			return err
		}
		if removed {
			result = &ToggleResult{Action: ActionRemoved}
			return nil
		}

		favorite, _, err := add(tx, userID, propertyID)
		if err != nil {
			return err
		}
		result = &ToggleResult{Action: ActionAdded, Favorite: favorite}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListByUser возвращает избранное пользователя с краткими данными объекта.
// Новые сверху.
func (r *repository) ListByUser(ctx context.Context, userID string) ([]FavoriteWithProperty, error) {
	favorites := make([]FavoriteWithProperty, 0)
	err := r.db.WithContext(ctx).
		Table("favorites AS f").
		Select(`f.id, f.property_id, f.user_id, f.created_at,
			p.title AS property_title, p.city AS property_city,
			p.price AS property_price, p.image_url AS property_image`).
		Joins("JOIN properties p ON f.property_id = p.id").
		Where("f.user_id = ?", userID).
		Order("f.created_at DESC").
		Scan(&favorites).Error
	if err != nil {
		return nil, fmt.Errorf("list favorites for %s: %w", userID, err)
	}
	return favorites, nil
}

// Exists проверяет, есть ли объект в избранном у пользователя.
func (r *repository) Exists(ctx context.Context, userID, propertyID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Favorite{}).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return count > 0, nil
}

// Count возвращает количество избранных объектов у пользователя.
func (r *repository) Count(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Favorite{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count favorites: %w", err)
	}
	return count, nil
}

func remove(db *gorm.DB, userID, propertyID string) (bool, error) {
	result := db.Where("user_id = ? AND property_id = ?", userID, propertyID).Delete(&Favorite{})
	if result.Error != nil {
		return false, fmt.Errorf("remove favorite: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// addAttempts bounds how often add re-inserts a pair that a concurrent
// remove deleted between our insert and the lookup.
const addAttempts = 2

// add must run inside a transaction.
func add(tx *gorm.DB, userID, propertyID string) (*Favorite, bool, error) {
	var n int64
	if err := tx.Model(&property.Property{}).Where("id = ?", propertyID).Count(&n).Error; err != nil {
		return nil, false, fmt.Errorf("check property: %w", err)
	}
	if n == 0 {
		return nil, false, ErrPropertyNotFound
	}

	for range addAttempts {
		favorite := &Favorite{UserID: userID, PropertyID: propertyID}
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "property_id"}},
			DoNothing: true,
		}).Create(favorite)

		switch {
		case database.IsForeignKeyViolation(result.Error):
			return nil, false, ErrPropertyNotFound
		case database.IsUniqueViolation(result.Error):
			// fall through to the lookup below
		case result.Error != nil:
			return nil, false, fmt.Errorf("add favorite: %w", result.Error)
		}

		created := result.Error == nil && result.RowsAffected > 0

		stored, err := find(tx, userID, propertyID)
		if err != nil {
			return nil, false, err
		}
		if stored != nil {
			return stored, created, nil
		}
	}
	return nil, false, ErrConcurrentChange
}

func find(db *gorm.DB, userID, propertyID string) (*Favorite, error) {
	var f Favorite
	err := db.Where("user_id = ? AND property_id = ?", userID, propertyID).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find favorite: %w", err)
	}
	return &f, nil
}

package property

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"gorm.io/gorm"
)

// Repository определяет методы для работы с объектами недвижимости
type Repository interface {
	FindAll(ctx context.Context, f Filters) ([]Property, error)
	FindByID(ctx context.Context, id string) (*Property, error)
	Create(ctx context.Context, p *Property) error
	Update(ctx context.Context, id string, changes *UpdatePropertyRequest) (*Property, error)
	Delete(ctx context.Context, id string) (bool, error)
	Cities(ctx context.Context) ([]string, error)
}

// repository реализует Repository поверх gorm
type repository struct {
	db *gorm.DB
}

// NewRepository создаёт новый экземпляр репозитория
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// FindAll returns properties matching every set filter, newest first.
// Price bounds are inclusive.
func (r *repository) FindAll(ctx context.Context, f Filters) ([]Property, error) {
	q := r.db.WithContext(ctx).Model(&Property{})

	if f.City != "" {
		q = q.Where("city = ?", f.City)
	}
	if f.Type != "" {
		q = q.Where("type = ?", string(f.Type))
	}
	if f.MinPrice > 0 {
		q = q.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price <= ?", f.MaxPrice)
	}

	properties := make([]Property, 0)
	if err := q.Order("created_at DESC").Find(&properties).Error; err != nil {
		return nil, fmt.Errorf("find properties: %w", err)
	}
	return properties, nil
}

// FindByID returns (nil, nil) when the property does not exist.
func (r *repository) FindByID(ctx context.Context, id string) (*Property, error) {
	return findByID(r.db.WithContext(ctx), id)
}

func findByID(db *gorm.DB, id string) (*Property, error) {
	var p Property
	err := db.Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find property %s: %w", id, err)
	}
	return &p, nil
}

// Create inserts p and reloads it so the caller sees the stored values.
func (r *repository) Create(ctx context.Context, p *Property) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("create property: %w", err)
		}
		stored, err := findByID(tx, p.ID)
		if err != nil {
			return err
		}
		if stored != nil {
			*p = *stored
		}
		return nil
	})
}

// Update applies the present fields of changes. A missing id yields
// (nil, nil); a payload with no effective columns returns the stored row.
func (r *repository) Update(ctx context.Context, id string, changes *UpdatePropertyRequest) (*Property, error) {
	var updated *Property
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findByID(tx, id)
		if err != nil || existing == nil {
			return err
		}

		cols := changes.Columns()
		if len(cols) == 0 {
			updated = existing
			return nil
		}

		if err := tx.Model(&Property{}).Where("id = ?", id).Updates(cols).Error; err != nil {
			return fmt.Errorf("update property %s: %w", id, err)
		}

		updated, err = findByID(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the property; favorites referencing it go with it through
// the ON DELETE CASCADE constraint.
func (r *repository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Property{})
	if result.Error != nil {
		return false, fmt.Errorf("delete property %s: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Cities returns the distinct cities in ascending byte order.
func (r *repository) Cities(ctx context.Context) ([]string, error) {
	cities := make([]string, 0)
	err := r.db.WithContext(ctx).
		Model(&Property{}).
		Distinct().
		Order("city").
		Pluck("city", &cities).Error
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	// database collations differ; keep the contract independent of them
	slices.Sort(cities)
	return cities, nil
}

// Package seed fills an empty database with the demo catalog.
package seed

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"estatehub/internal/domain/favorite"
	"estatehub/internal/domain/property"
)

// DemoUserID owns the sample favorites.
const DemoUserID = "user123"

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

// Properties returns the sample catalog, ids "1".."5".
func Properties() []property.Property {
	return []property.Property{
		{
			ID: "1", Title: "Appartement lumineux avec balcon", City: "Paris",
			Price: 485000, Surface: 65, Bedrooms: intPtr(2), Bathrooms: intPtr(1),
			Type:     property.TypeApartment,
			ImageURL: strPtr("https://images.unsplash.com/photo-1502672260266-1c1ef2d93688?w=800&q=80"),
		},
		{
			ID: "2", Title: "Maison familiale avec jardin", City: "Lyon",
			Price: 720000, Surface: 145, Bedrooms: intPtr(4), Bathrooms: intPtr(2),
			Type:     property.TypeHouse,
			ImageURL: strPtr("https://images.unsplash.com/photo-1600596542815-ffad4c1539a9?w=800&q=80"),
		},
		{
			ID: "3", Title: "Studio moderne centre-ville", City: "Bordeaux",
			Price: 195000, Surface: 28, Bedrooms: intPtr(1), Bathrooms: intPtr(1),
			Type:     property.TypeStudio,
			ImageURL: strPtr("https://images.unsplash.com/photo-1522708323590-d24dbb6b0267?w=800&q=80"),
		},
		{
			ID: "4", Title: "Villa contemporaine vue mer", City: "Nice",
			Price: 1250000, Surface: 220, Bedrooms: intPtr(5), Bathrooms: intPtr(3),
			Type:     property.TypeVilla,
			ImageURL: strPtr("https://images.unsplash.com/photo-1613490493576-7fde63acd811?w=800&q=80"),
		},
		{
			ID: "5", Title: "Loft industriel rénové", City: "Nantes",
			Price: 380000, Surface: 95, Bedrooms: intPtr(2), Bathrooms: intPtr(1),
			Type:     property.TypeApartment,
			ImageURL: strPtr("https://images.unsplash.com/photo-1600607687939-ce8a6c25118c?w=800&q=80"),
		},
	}
}

// FavoritePropertyIDs are marked by DemoUserID.
var FavoritePropertyIDs = []string{"1", "3"}

// Stats summarises what Run inserted.
type Stats struct {
	Properties int
	Favorites  int
}

// Run wipes both tables and inserts the sample data in one transaction.
// Later ids get later timestamps so "newest first" lists them in reverse.
func Run(ctx context.Context, db *gorm.DB) (Stats, error) {
	var stats Stats
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM favorites").Error; err != nil {
			return fmt.Errorf("clear favorites: %w", err)
		}
		if err := tx.Exec("DELETE FROM properties").Error; err != nil {
			return fmt.Errorf("clear properties: %w", err)
		}

		base := time.Now().UTC().Add(-time.Hour)
		for i, p := range Properties() {
			p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
			if err := tx.Create(&p).Error; err != nil {
				return fmt.Errorf("insert property %s: %w", p.ID, err)
			}
			stats.Properties++
		}

		for i, id := range FavoritePropertyIDs {
			f := favorite.Favorite{
				UserID:     DemoUserID,
				PropertyID: id,
				CreatedAt:  base.Add(time.Duration(i) * time.Second),
			}
			if err := tx.Create(&f).Error; err != nil {
				return fmt.Errorf("insert favorite %s: %w", id, err)
			}
			stats.Favorites++
		}
		return nil
	})
	if err != nil {
		return Stats{}, err
	}
	return stats, nil
}

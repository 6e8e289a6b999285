package property

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estatehub/internal/database/dbtest"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func setupRepo(t *testing.T) Repository {
	t.Helper()
	return NewRepository(dbtest.New(t, &Property{}))
}

// seedCatalog inserts the listings in order; later entries are newer.
func seedCatalog(t *testing.T, repo Repository, props ...Property) {
	t.Helper()
	base := time.Now().UTC().Add(-time.Hour)
	for i := range props {
		props[i].CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(context.Background(), &props[i]))
	}
}

func sampleCatalog() []Property {
	return []Property{
		{ID: "1", Title: "Appartement lumineux", City: "Paris", Price: 485000, Surface: 65, Bedrooms: intPtr(2), Type: TypeApartment},
		{ID: "2", Title: "Maison familiale", City: "Lyon", Price: 720000, Surface: 145, Bedrooms: intPtr(4), Type: TypeHouse},
		{ID: "3", Title: "Studio moderne", City: "Bordeaux", Price: 195000, Surface: 28, Type: TypeStudio},
		{ID: "4", Title: "Villa vue mer", City: "Nice", Price: 1250000, Surface: 220, Type: TypeVilla},
		{ID: "5", Title: "Loft industriel", City: "Nantes", Price: 380000, Surface: 95, Type: TypeApartment},
	}
}

func ids(props []Property) []string {
	out := make([]string, 0, len(props))
	for _, p := range props {
		out = append(out, p.ID)
	}
	return out
}

func TestRepository_CreateAssignsIDAndRoundTrips(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	p := &Property{
		Title: "Maison test", City: "Lyon", Price: 500000, Surface: 120,
		Bedrooms: intPtr(3), Type: TypeHouse, ImageURL: strPtr("https://example.com/a.jpg"),
	}
	require.NoError(t, repo.Create(ctx, p))
	require.Len(t, p.ID, 36)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Maison test", got.Title)
	assert.Equal(t, "Lyon", got.City)
	assert.Equal(t, 500000.0, got.Price)
	assert.Equal(t, 120, got.Surface)
	require.NotNil(t, got.Bedrooms)
	assert.Equal(t, 3, *got.Bedrooms)
	assert.Nil(t, got.Bathrooms)
	assert.Equal(t, TypeHouse, got.Type)
	require.NotNil(t, got.ImageURL)
	assert.Equal(t, "https://example.com/a.jpg", *got.ImageURL)
}

func TestRepository_FindByIDMissing(t *testing.T) {
	repo := setupRepo(t)

	got, err := repo.FindByID(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepository_FindAll(t *testing.T) {
	repo := setupRepo(t)
	seedCatalog(t, repo, sampleCatalog()...)
	ctx := context.Background()

	cases := []struct {
		name string
		f    Filters
		want []string
	}{
		{name: "no filters newest first", f: Filters{}, want: []string{"5", "4", "3", "2", "1"}},
		{name: "city", f: Filters{City: "Paris"}, want: []string{"1"}},
		{name: "type", f: Filters{Type: TypeApartment}, want: []string{"5", "1"}},
		{name: "price range", f: Filters{MinPrice: 300000, MaxPrice: 800000}, want: []string{"5", "2", "1"}},
		{name: "inclusive bounds", f: Filters{MinPrice: 195000, MaxPrice: 380000}, want: []string{"5", "3"}},
		{name: "combined", f: Filters{Type: TypeApartment, MaxPrice: 400000}, want: []string{"5"}},
		{name: "no match", f: Filters{City: "Marseille"}, want: []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.FindAll(ctx, tc.f)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestRepository_PriceRangeWithoutParis(t *testing.T) {
	repo := setupRepo(t)
	seedCatalog(t, repo,
		Property{ID: "a", Title: "Studio", City: "Bordeaux", Price: 195000, Surface: 28, Type: TypeStudio},
		Property{ID: "b", Title: "Loft", City: "Nantes", Price: 380000, Surface: 95, Type: TypeApartment},
		Property{ID: "c", Title: "Maison", City: "Lyon", Price: 720000, Surface: 145, Type: TypeHouse},
		Property{ID: "d", Title: "Villa", City: "Nice", Price: 1250000, Surface: 220, Type: TypeVilla},
	)

	got, err := repo.FindAll(context.Background(), Filters{MinPrice: 300000, MaxPrice: 800000})
	require.NoError(t, err)

	prices := make([]float64, 0, len(got))
	for _, p := range got {
		prices = append(prices, p.Price)
	}
	assert.ElementsMatch(t, []float64{380000, 720000}, prices)
}

func TestRepository_Cities(t *testing.T) {
	repo := setupRepo(t)
	seedCatalog(t, repo,
		Property{Title: "A", City: "Paris", Price: 1, Surface: 1, Type: TypeStudio},
		Property{Title: "B", City: "Lyon", Price: 1, Surface: 1, Type: TypeStudio},
		Property{Title: "C", City: "Paris", Price: 1, Surface: 1, Type: TypeStudio},
		Property{Title: "D", City: "Bordeaux", Price: 1, Surface: 1, Type: TypeStudio},
	)

	cities, err := repo.Cities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Bordeaux", "Lyon", "Paris"}, cities)
}

func TestRepository_CitiesEmpty(t *testing.T) {
	repo := setupRepo(t)

	cities, err := repo.Cities(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, cities)
	assert.Empty(t, cities)
}

func decodeUpdate(t *testing.T, body string) *UpdatePropertyRequest {
	t.Helper()
	var req UpdatePropertyRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return &req
}

func TestRepository_UpdatePartial(t *testing.T) {
	repo := setupRepo(t)
	seedCatalog(t, repo, sampleCatalog()...)
	ctx := context.Background()

	got, err := repo.Update(ctx, "1", decodeUpdate(t, `{"price": 450000, "title": "Prix en baisse"}`))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 450000.0, got.Price)
	assert.Equal(t, "Prix en baisse", got.Title)
	assert.Equal(t, "Paris", got.City, "absent keys stay untouched")
	require.NotNil(t, got.Bedrooms)
	assert.Equal(t, 2, *got.Bedrooms)
}

func TestRepository_UpdateNormalizesCountsAndImage(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	seedCatalog(t, repo, Property{
		ID: "1", Title: "A", City: "Paris", Price: 100000, Surface: 40,
		Bedrooms: intPtr(2), Bathrooms: intPtr(1), Type: TypeApartment,
		ImageURL: strPtr("https://example.com/a.jpg"),
	})

	got, err := repo.Update(ctx, "1", decodeUpdate(t, `{"bedrooms": 0, "bathrooms": null, "image_url": ""}`))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.Bedrooms)
	assert.Nil(t, got.Bathrooms)
	assert.Nil(t, got.ImageURL)

	got, err = repo.Update(ctx, "1", decodeUpdate(t, `{"bedrooms": -3}`))
	require.NoError(t, err)
	assert.Nil(t, got.Bedrooms)
}

func TestRepository_UpdateNoChangesReturnsExisting(t *testing.T) {
	repo := setupRepo(t)
	seedCatalog(t, repo, sampleCatalog()...)

	got, err := repo.Update(context.Background(), "2", decodeUpdate(t, `{}`))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Maison familiale", got.Title)
}

func TestRepository_UpdateMissing(t *testing.T) {
	repo := setupRepo(t)

	got, err := repo.Update(context.Background(), "nope", decodeUpdate(t, `{"title": "x"}`))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepository_Delete(t *testing.T) {
	repo := setupRepo(t)
	seedCatalog(t, repo, sampleCatalog()...)
	ctx := context.Background()

	deleted, err := repo.Delete(ctx, "3")
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err := repo.FindByID(ctx, "3")
	require.NoError(t, err)
	assert.Nil(t, got)

	deleted, err = repo.Delete(ctx, "3")
	require.NoError(t, err)
	assert.False(t, deleted)
}

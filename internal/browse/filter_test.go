package browse

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estatehub/internal/domain/property"
)

func catalog() []property.Property {
	return []property.Property{
		{ID: "1", City: "Paris", Price: 485000, Type: property.TypeApartment},
		{ID: "2", City: "Lyon", Price: 720000, Type: property.TypeHouse},
		{ID: "3", City: "Bordeaux", Price: 195000, Type: property.TypeStudio},
		{ID: "4", City: "Nice", Price: 1250000, Type: property.TypeVilla},
		{ID: "5", City: "Nantes", Price: 380000, Type: property.TypeApartment},
		{ID: "6", City: "Paris", Price: 200000, Type: property.TypeStudio},
	}
}

func ids(props []property.Property) []string {
	out := make([]string, 0, len(props))
	for _, p := range props {
		out = append(out, p.ID)
	}
	return out
}

func TestPriceRange_Bounds(t *testing.T) {
	lo, hi, err := Price200k400k.Bounds()
	require.NoError(t, err)
	assert.Equal(t, 200000.0, lo)
	assert.Equal(t, 400000.0, hi)

	lo, hi, err = PriceOver1m.Bounds()
	require.NoError(t, err)
	assert.Equal(t, 1000000.0, lo)
	assert.True(t, math.IsInf(hi, 1))

	for _, bad := range []PriceRange{"cheap", "10-", "-5", "9-1", "x+"} {
		_, _, err := bad.Bounds()
		assert.Error(t, err, string(bad))
	}
}

func TestApply(t *testing.T) {
	cases := []struct {
		name string
		f    Filters
		want []string
	}{
		{name: "defaults keep everything", f: DefaultFilters(), want: []string{"1", "2", "3", "4", "5", "6"}},
		{name: "zero value keeps everything", f: Filters{}, want: []string{"1", "2", "3", "4", "5", "6"}},
		{name: "lower bucket inclusive", f: Filters{PriceRange: string(PriceUnder200k)}, want: []string{"3", "6"}},
		{name: "shared bound belongs to both", f: Filters{PriceRange: string(Price200k400k)}, want: []string{"5", "6"}},
		{name: "open upper bucket", f: Filters{PriceRange: string(PriceOver1m)}, want: []string{"4"}},
		{name: "type", f: Filters{Type: "apartment"}, want: []string{"1", "5"}},
		{name: "city", f: Filters{City: "Paris"}, want: []string{"1", "6"}},
		{name: "combined", f: Filters{PriceRange: string(Price400k600k), Type: "apartment", City: "Paris"}, want: []string{"1"}},
		{name: "no match", f: Filters{Type: "villa", City: "Paris"}, want: []string{}},
		{name: "unparseable range ignored", f: Filters{PriceRange: "cheap", City: "Nice"}, want: []string{"4"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(Apply(catalog(), tc.f)))
		})
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	list := catalog()
	before := ids(list)

	out := Apply(list, Filters{City: "Paris"})
	require.Len(t, out, 2)
	out[0].City = "changed"

	assert.Equal(t, before, ids(list))
	assert.Equal(t, "Paris", list[0].City)
}

func TestCities(t *testing.T) {
	assert.Equal(t, []string{"Bordeaux", "Lyon", "Nantes", "Nice", "Paris"}, Cities(catalog()))
	assert.Empty(t, Cities(nil))
}

func TestFilters_ValidateAndActive(t *testing.T) {
	assert.NoError(t, DefaultFilters().Validate())
	assert.False(t, DefaultFilters().Active())

	f := Filters{PriceRange: string(Price600k1m), Type: "villa", City: All}
	assert.NoError(t, f.Validate())
	assert.True(t, f.Active())

	assert.Error(t, Filters{PriceRange: "1-2-3"}.Validate())
	assert.Error(t, Filters{Type: "castle"}.Validate())
}

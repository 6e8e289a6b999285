package browse

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"estatehub/internal/domain/property"
)

// All is the wildcard value of every filter.
const All = "all"

// PriceRange is a bucket like "200000-400000" or "1000000+". Bounds are
// inclusive.
type PriceRange string

const (
	PriceUnder200k PriceRange = "0-200000"
	Price200k400k  PriceRange = "200000-400000"
	Price400k600k  PriceRange = "400000-600000"
	Price600k1m    PriceRange = "600000-1000000"
	PriceOver1m    PriceRange = "1000000+"
)

// PriceRanges lists the buckets offered to users, cheapest first.
var PriceRanges = []PriceRange{PriceUnder200k, Price200k400k, Price400k600k, Price600k1m, PriceOver1m}

// Bounds parses the bucket. The upper bound of "N+" is +Inf.
func (r PriceRange) Bounds() (lo, hi float64, err error) {
	s := string(r)
	if from, ok := strings.CutSuffix(s, "+"); ok {
		lo, err = strconv.ParseFloat(from, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("price range %q: %w", s, err)
		}
		return lo, math.Inf(1), nil
	}

	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, fmt.Errorf("price range %q: want MIN-MAX or MIN+", s)
	}
	if lo, err = strconv.ParseFloat(from, 64); err != nil {
		return 0, 0, fmt.Errorf("price range %q: %w", s, err)
	}
	if hi, err = strconv.ParseFloat(to, 64); err != nil {
		return 0, 0, fmt.Errorf("price range %q: %w", s, err)
	}
	if hi < lo {
		return 0, 0, fmt.Errorf("price range %q: upper bound below lower bound", s)
	}
	return lo, hi, nil
}

// Filters is the selection shown in the filter bar. Empty fields behave
// like All.
type Filters struct {
	PriceRange string
	Type       string
	City       string
}

func DefaultFilters() Filters {
	return Filters{PriceRange: All, Type: All, City: All}
}

// Active reports whether any filter narrows the list.
func (f Filters) Active() bool {
	return !isAll(f.PriceRange) || !isAll(f.Type) || !isAll(f.City)
}

// Validate rejects price ranges that do not parse and unknown types.
func (f Filters) Validate() error {
	if !isAll(f.PriceRange) {
		if _, _, err := PriceRange(f.PriceRange).Bounds(); err != nil {
			return err
		}
	}
	if !isAll(f.Type) && !property.Type(f.Type).Valid() {
		return fmt.Errorf("unknown property type %q", f.Type)
	}
	return nil
}

// Apply returns the properties matching every filter, in input order.
// list is never modified. A price range that does not parse is ignored;
// call Validate first to reject it.
func Apply(list []property.Property, f Filters) []property.Property {
	lo, hi := 0.0, math.Inf(1)
	byPrice := false
	if !isAll(f.PriceRange) {
		if l, h, err := PriceRange(f.PriceRange).Bounds(); err == nil {
			lo, hi, byPrice = l, h, true
		}
	}

	out := make([]property.Property, 0, len(list))
	for _, p := range list {
		if byPrice && (p.Price < lo || p.Price > hi) {
			continue
		}
		if !isAll(f.Type) && string(p.Type) != f.Type {
			continue
		}
		if !isAll(f.City) && p.City != f.City {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Cities returns the distinct cities of list, sorted.
func Cities(list []property.Property) []string {
	cities := make([]string, 0, len(list))
	for _, p := range list {
		cities = append(cities, p.City)
	}
	slices.Sort(cities)
	return slices.Compact(cities)
}

func isAll(v string) bool {
	return v == "" || v == All
}

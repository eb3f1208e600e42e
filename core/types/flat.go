// Package types - Flat recipes and grocery-list aggregation
package types

import (
	"cmp"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"recipe-cost/internal/errors"
)

// FlatRecipe maps atomic item names to required quantities.
// Compound names never appear as keys.
type FlatRecipe map[string]int64

// Unit returns the flat recipe of one unit of an atomic item
func Unit(item string) FlatRecipe {
	return FlatRecipe{item: 1}
}

// Items returns the item names in sorted order
func (f FlatRecipe) Items() []string {
	return sortedKeys(f)
}

// Clone returns an independent copy
func (f FlatRecipe) Clone() FlatRecipe {
	if f == nil {
		return nil
	}
	return maps.Clone(f)
}

// Equal reports whether two flat recipes hold the same quantities
func (f FlatRecipe) Equal(other FlatRecipe) bool {
	return maps.Equal(f, other)
}

// Key returns a canonical string form, stable across map iteration order
func (f FlatRecipe) Key() string {
	var b strings.Builder
	for i, item := range f.Items() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(item)
		b.WriteByte('=')
		b.WriteString(strconv.FormatInt(f[item], 10))
	}
	return b.String()
}

// Scale multiplies every quantity by n.
// A product outside the int64 range is a quantity overflow error.
func Scale(f FlatRecipe, n int64) (FlatRecipe, error) {
	scaled := make(FlatRecipe, len(f))
	for item, qty := range f {
		product, ok := mulQuantity(qty, n)
		if !ok {
			return nil, errors.QuantityOverflow(item)
		}
		scaled[item] = product
	}
	return scaled, nil
}

// Merge sums quantities per item across all flat recipes.
// Merge() is the empty recipe.
func Merge(flats ...FlatRecipe) (FlatRecipe, error) {
	merged := make(FlatRecipe)
	for _, f := range flats {
		for item, qty := range f {
			sum, ok := addQuantity(merged[item], qty)
			if !ok {
				return nil, errors.QuantityOverflow(item)
			}
			merged[item] = sum
		}
	}
	return merged, nil
}

func mulQuantity(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	c := a * b
	return c, c/b == a
}

func addQuantity(a, b int64) (int64, bool) {
	c := a + b
	return c, (c > a) == (b > 0)
}

// Distinct drops flat recipes identical to an earlier one, keeping order
func Distinct(flats []FlatRecipe) []FlatRecipe {
	seen := make(map[string]struct{}, len(flats))
	out := make([]FlatRecipe, 0, len(flats))
	for _, f := range flats {
		key := f.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f)
	}
	return out
}

func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	return slices.Sorted(maps.Keys(m))
}

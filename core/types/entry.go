// Package types - Recipe dataset types
package types

import "github.com/shopspring/decimal"

// Kind tags an input entry
type Kind string

const (
	// KindAtomic is a food item with a fixed unit cost
	KindAtomic Kind = "atomic"

	// KindCompound is one candidate recipe for a food item
	KindCompound Kind = "compound"
)

// String returns the string representation
func (k Kind) String() string {
	return string(k)
}

// Valid reports whether the kind is one the index builder understands
func (k Kind) Valid() bool {
	return k == KindAtomic || k == KindCompound
}

// Ingredient is one (name, quantity) pair of a recipe
type Ingredient struct {
	// Name is the ingredient item name
	Name string `json:"name" yaml:"name" toml:"name"`

	// Quantity is the number of units required per unit of the parent item
	Quantity int64 `json:"quantity" yaml:"quantity" toml:"quantity"`
}

// Recipe is an ordered list of ingredients producing one unit of an item
type Recipe []Ingredient

// Entry is one input record.
// Atomic entries carry Cost, compound entries carry Ingredients.
type Entry struct {
	// Kind selects the variant
	Kind Kind `json:"kind"`

	// Name is the food item name
	Name string `json:"name"`

	// Cost is the unit cost of an atomic item
	Cost decimal.Decimal `json:"cost,omitempty"`

	// Ingredients is the candidate recipe of a compound item
	Ingredients Recipe `json:"ingredients,omitempty"`
}

// Atomic creates an atomic entry
func Atomic(name string, cost decimal.Decimal) Entry {
	return Entry{Kind: KindAtomic, Name: name, Cost: cost}
}

// Compound creates a compound entry contributing one candidate recipe
func Compound(name string, ingredients ...Ingredient) Entry {
	return Entry{Kind: KindCompound, Name: name, Ingredients: ingredients}
}

// Need is shorthand for an ingredient
func Need(name string, quantity int64) Ingredient {
	return Ingredient{Name: name, Quantity: quantity}
}

// ForbiddenSet holds item names excluded from one resolution call.
// The zero value is the empty set.
type ForbiddenSet map[string]struct{}

// Forbid creates a forbidden set from names
func Forbid(names ...string) ForbiddenSet {
	set := make(ForbiddenSet, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Contains reports whether name is forbidden
func (f ForbiddenSet) Contains(name string) bool {
	_, ok := f[name]
	return ok
}

// Names returns the forbidden names in sorted order
func (f ForbiddenSet) Names() []string {
	return sortedKeys(f)
}

// Package catalog - Recipe index
// Collapses the flat entry list into the atomic-cost table and the recipe book.
// A Catalog is read-only once built and safe to share between resolvers.
package catalog

import (
	"fmt"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"recipe-cost/core/types"
	"recipe-cost/internal/logging"
)

// IssueKind classifies an entry the builder flagged
type IssueKind int

const (
	// IssueUnknownKind - entry tag is neither atomic nor compound (dropped)
	IssueUnknownKind IssueKind = iota
	// IssueNegativeCost - atomic cost below zero (kept)
	IssueNegativeCost
	// IssueEmptyRecipe - compound entry without ingredients (kept)
	IssueEmptyRecipe
	// IssueNonPositiveQuantity - ingredient quantity of zero or less (dropped)
	IssueNonPositiveQuantity
)

// String returns string representation
func (k IssueKind) String() string {
	switch k {
	case IssueUnknownKind:
		return "unknown_kind"
	case IssueNegativeCost:
		return "negative_cost"
	case IssueEmptyRecipe:
		return "empty_recipe"
	case IssueNonPositiveQuantity:
		return "non_positive_quantity"
	default:
		return "unknown"
	}
}

// Issue records one entry the builder flagged. Kept issues describe
// entries that were still indexed; the rest were dropped.
type Issue struct {
	Index  int
	Name   string
	Kind   IssueKind
	Detail string
	Kept   bool
}

// String returns a one-line description
func (i Issue) String() string {
	action := "dropped"
	if i.Kept {
		action = "kept"
	}
	return fmt.Sprintf("entry %d (%s): %s: %s (%s)", i.Index, i.Name, i.Kind, i.Detail, action)
}

// Catalog is the recipe index
type Catalog struct {
	atomic  map[string]decimal.Decimal
	recipes map[string][]types.Recipe
	issues  []Issue
}

// Build indexes entries. Later atomic entries overwrite earlier ones;
// compound entries append candidate recipes in input order.
// Negative costs and empty recipes are indexed and flagged; recipes with a
// non-positive ingredient quantity and entries of unknown kind are dropped.
func Build(entries []types.Entry) *Catalog {
	c := &Catalog{
		atomic:  make(map[string]decimal.Decimal),
		recipes: make(map[string][]types.Recipe),
	}

	for i, e := range entries {
		switch e.Kind {
		case types.KindAtomic:
			if e.Cost.IsNegative() {
				c.flag(Issue{Index: i, Name: e.Name, Kind: IssueNegativeCost, Detail: "cost " + e.Cost.String(), Kept: true})
			}
			c.atomic[e.Name] = e.Cost

		case types.KindCompound:
			if issue, bad := checkRecipe(e.Ingredients); bad {
				issue.Index, issue.Name = i, e.Name
				c.flag(issue)
				if !issue.Kept {
					continue
				}
			}
			recipe := make(types.Recipe, len(e.Ingredients))
			copy(recipe, e.Ingredients)
			c.recipes[e.Name] = append(c.recipes[e.Name], recipe)

		default:
			c.flag(Issue{Index: i, Name: e.Name, Kind: IssueUnknownKind, Detail: fmt.Sprintf("kind %q", e.Kind)})
		}
	}

	return c
}

func checkRecipe(recipe types.Recipe) (Issue, bool) {
	if len(recipe) == 0 {
		return Issue{Kind: IssueEmptyRecipe, Detail: "no ingredients, costs nothing", Kept: true}, true
	}
	for _, ing := range recipe {
		if ing.Quantity <= 0 {
			return Issue{
				Kind:   IssueNonPositiveQuantity,
				Detail: fmt.Sprintf("ingredient %q quantity %d", ing.Name, ing.Quantity),
			}, true
		}
	}
	return Issue{}, false
}

func (c *Catalog) flag(issue Issue) {
	c.issues = append(c.issues, issue)
	if issue.Kind == IssueUnknownKind {
		logging.Debug("ignoring entry", zap.Int("index", issue.Index), zap.String("detail", issue.Detail))
		return
	}
	msg := "rejected entry"
	if issue.Kept {
		msg = "suspicious entry"
	}
	logging.Warn(msg,
		zap.Int("index", issue.Index),
		zap.String("name", issue.Name),
		zap.Stringer("issue", issue.Kind),
		zap.String("detail", issue.Detail),
	)
}

// AtomicCost returns the unit cost of an atomic item
func (c *Catalog) AtomicCost(name string) (decimal.Decimal, bool) {
	cost, ok := c.atomic[name]
	return cost, ok
}

// IsAtomic reports whether name is atomic. Atomic names shadow any recipes.
func (c *Catalog) IsAtomic(name string) bool {
	_, ok := c.atomic[name]
	return ok
}

// Recipes returns the candidate recipes of name in input order.
// The returned slice must not be modified.
func (c *Catalog) Recipes(name string) []types.Recipe {
	return c.recipes[name]
}

// Known reports whether name is atomic or has at least one recipe
func (c *Catalog) Known(name string) bool {
	if c.IsAtomic(name) {
		return true
	}
	return len(c.recipes[name]) > 0
}

// Issues returns the entries the builder flagged
func (c *Catalog) Issues() []Issue {
	return c.issues
}

// Names returns every indexed item name in sorted order
func (c *Catalog) Names() []string {
	seen := make(map[string]struct{}, len(c.atomic)+len(c.recipes))
	for n := range c.atomic {
		seen[n] = struct{}{}
	}
	for n := range c.recipes {
		seen[n] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// CostOf prices a flat recipe from atomic costs.
// ok is false when a key is not an atomic item.
func (c *Catalog) CostOf(flat types.FlatRecipe) (decimal.Decimal, bool) {
	total := decimal.Zero
	for item, qty := range flat {
		cost, ok := c.atomic[item]
		if !ok {
			return decimal.Zero, false
		}
		total = total.Add(cost.Mul(decimal.NewFromInt(qty)))
	}
	return total, true
}

// Stats returns catalog statistics
func (c *Catalog) Stats() Stats {
	stats := Stats{
		Atomic: len(c.atomic),
		Issues: len(c.issues),
	}

	for name, recipes := range c.recipes {
		stats.Recipes += len(recipes)
		if c.IsAtomic(name) {
			stats.Shadowed++
			continue
		}
		stats.Compound++
	}

	return stats
}

// Stats holds catalog statistics
type Stats struct {
	Atomic   int `json:"atomic"`
	Compound int `json:"compound"`
	Recipes  int `json:"recipes"`
	Shadowed int `json:"shadowed"` // names with recipes that are ignored because the name is atomic
	Issues   int `json:"issues"`
}

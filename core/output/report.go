package output

import (
	"time"

	"github.com/shopspring/decimal"

	"recipe-cost/core/catalog"
	"recipe-cost/core/engine"
	"recipe-cost/core/types"
)

// Operation names the question a report answers
type Operation string

const (
	OpLowestCost Operation = "lowest_cost"
	OpCheapest   Operation = "cheapest_flat_recipe"
	OpAll        Operation = "all_flat_recipes"
	OpGrocery    Operation = "grocery_list"
	OpInspect    Operation = "inspect"
)

// Report is the rendered result of one operation
type Report struct {
	Operation Operation `json:"operation"`
	Item      string    `json:"item,omitempty"`
	Forbidden []string  `json:"forbidden,omitempty"`

	// Reachable is false when the item cannot be produced
	Reachable bool `json:"reachable"`

	// Cost is the lowest unit cost
	Cost *decimal.Decimal `json:"cost,omitempty"`

	// Lines is the cheapest flat recipe, priced per atomic item
	Lines []Line `json:"lines,omitempty"`

	// Choice is the winning candidate recipe index, -1 for atomic items
	Choice *int `json:"choice,omitempty"`

	// Alternatives lists enumerated flat recipes
	Alternatives []Alternative `json:"alternatives,omitempty"`

	// Enumerated is the number of flat recipes before truncation or dedup
	Enumerated int `json:"enumerated,omitempty"`

	// Grocery is the merged shopping list
	Grocery *engine.GroceryList `json:"grocery,omitempty"`

	// GroceryLines prices the merged shopping list
	GroceryLines []Line `json:"grocery_lines,omitempty"`

	// Catalog carries index statistics for inspect
	Catalog *CatalogSection `json:"catalog,omitempty"`

	Metadata Metadata `json:"metadata"`
}

// Line is one atomic item of a flat recipe
type Line struct {
	Item     string          `json:"item"`
	Quantity int64           `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Cost     decimal.Decimal `json:"cost"`
}

// Alternative is one enumerated flat recipe
type Alternative struct {
	Flat     types.FlatRecipe `json:"flat"`
	Cost     decimal.Decimal  `json:"cost"`
	Cheapest bool             `json:"cheapest"`
}

// CatalogSection summarizes a catalog
type CatalogSection struct {
	Stats  catalog.Stats `json:"stats"`
	Issues []string      `json:"issues,omitempty"`
}

// Metadata contains execution context
type Metadata struct {
	Timestamp string `json:"timestamp"`
	Duration  string `json:"duration"`
	Dataset   string `json:"dataset,omitempty"`

	// Fingerprint identifies the dataset content
	Fingerprint string `json:"fingerprint,omitempty"`

	Version string `json:"version"`
}

// NewMetadata stamps a report started at start
func NewMetadata(start time.Time, dataset, version string) Metadata {
	return Metadata{
		Timestamp: start.UTC().Format(time.RFC3339),
		Duration:  time.Since(start).String(),
		Dataset:   dataset,
		Version:   version,
	}
}

// CostReport reports LowestCost
func CostReport(item string, forbidden types.ForbiddenSet, cost decimal.Decimal, ok bool) *Report {
	r := &Report{Operation: OpLowestCost, Item: item, Forbidden: forbidden.Names(), Reachable: ok}
	if ok {
		r.Cost = &cost
	}
	return r
}

// PlanReport reports CheapestFlatRecipe
func PlanReport(cat *catalog.Catalog, plan engine.Plan, forbidden types.ForbiddenSet) *Report {
	r := &Report{Operation: OpCheapest, Item: plan.Item, Forbidden: forbidden.Names(), Reachable: plan.Reachable}
	if plan.Reachable {
		cost := plan.Cost
		choice := plan.Choice
		r.Cost = &cost
		r.Choice = &choice
		r.Lines = Lines(cat, plan.Flat)
	}
	return r
}

// AllReport reports AllFlatRecipes. limit <= 0 keeps everything.
func AllReport(cat *catalog.Catalog, item string, forbidden types.ForbiddenSet, flats []types.FlatRecipe, enumerated, limit int) *Report {
	r := &Report{
		Operation:  OpAll,
		Item:       item,
		Forbidden:  forbidden.Names(),
		Reachable:  len(flats) > 0,
		Enumerated: enumerated,
	}

	var best *decimal.Decimal
	alts := make([]Alternative, 0, len(flats))
	for _, f := range flats {
		cost, _ := cat.CostOf(f)
		alts = append(alts, Alternative{Flat: f, Cost: cost})
		if best == nil || cost.LessThan(*best) {
			c := cost
			best = &c
		}
	}
	for i := range alts {
		alts[i].Cheapest = alts[i].Cost.Equal(*best)
	}

	if limit > 0 && len(alts) > limit {
		alts = alts[:limit]
	}
	r.Alternatives = alts
	r.Cost = best
	return r
}

// GroceryReport reports a shopping list
func GroceryReport(cat *catalog.Catalog, list *engine.GroceryList, forbidden types.ForbiddenSet) *Report {
	total := list.Total
	return &Report{
		Operation:    OpGrocery,
		Forbidden:    forbidden.Names(),
		Reachable:    len(list.Unreachable) == 0,
		Cost:         &total,
		Grocery:      list,
		GroceryLines: Lines(cat, list.Items),
	}
}

// InspectReport reports catalog statistics
func InspectReport(cat *catalog.Catalog) *Report {
	section := &CatalogSection{Stats: cat.Stats()}
	for _, issue := range cat.Issues() {
		section.Issues = append(section.Issues, issue.String())
	}
	return &Report{Operation: OpInspect, Reachable: true, Catalog: section}
}

// Lines prices a flat recipe item by item in name order
func Lines(cat *catalog.Catalog, flat types.FlatRecipe) []Line {
	lines := make([]Line, 0, len(flat))
	for _, item := range flat.Items() {
		unit, _ := cat.AtomicCost(item)
		qty := flat[item]
		lines = append(lines, Line{
			Item:     item,
			Quantity: qty,
			UnitCost: unit,
			Cost:     unit.Mul(decimal.NewFromInt(qty)),
		})
	}
	return lines
}

// Package engine provides the recipe resolution engine.
// CLI is a thin wrapper around this engine.
package engine

import (
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"recipe-cost/core/catalog"
	"recipe-cost/core/types"
	"recipe-cost/internal/logging"
)

// Engine answers cost and flat-recipe questions over one catalog.
// It holds no per-call state and is safe for concurrent use.
type Engine struct {
	catalog *catalog.Catalog
	config  EngineConfig
	logger  *zap.Logger
}

// EngineConfig configures the resolution engine
type EngineConfig struct {
	// Memoize caches cost and cheapest-recipe results within one call.
	// Enumeration is never memoized.
	Memoize bool

	// MaxDepth bounds the resolution chain length
	MaxDepth int

	// Parallelism bounds concurrent orders in ShoppingList
	Parallelism int
}

// DefaultEngineConfig returns the defaults used by the CLI
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Memoize:     true,
		MaxDepth:    10000,
		Parallelism: 4,
	}
}

// NewEngine creates a new resolution engine
func NewEngine(cat *catalog.Catalog, config EngineConfig) *Engine {
	defaults := DefaultEngineConfig()
	if config.MaxDepth <= 0 {
		config.MaxDepth = defaults.MaxDepth
	}
	if config.Parallelism <= 0 {
		config.Parallelism = defaults.Parallelism
	}
	return &Engine{
		catalog: cat,
		config:  config,
		logger:  logging.Named("engine"),
	}
}

// FromEntries indexes entries and creates an engine over them
func FromEntries(entries []types.Entry, config EngineConfig) *Engine {
	return NewEngine(catalog.Build(entries), config)
}

// SetLogger replaces the engine logger
func (e *Engine) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	e.logger = logger
}

// Catalog returns the index the engine resolves against
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Plan is the cheapest way to produce one unit of an item
type Plan struct {
	Item string

	// Reachable is false when no recipe can produce the item.
	// Cost and Flat are unset in that case.
	Reachable bool

	Cost decimal.Decimal
	Flat types.FlatRecipe

	// Choice is the index of the winning candidate recipe, -1 for atomic items
	Choice int
}

// LowestCost returns the minimum unit cost of item.
// ok is false when item is unreachable under forbidden.
func (e *Engine) LowestCost(item string, forbidden types.ForbiddenSet) (cost decimal.Decimal, ok bool, err error) {
	r := e.begin("lowest_cost", item, forbidden)
	res, err := r.cost(item)
	r.finish(res.ok, err)
	if err != nil {
		return decimal.Zero, false, err
	}
	return res.cost, res.ok, nil
}

// CheapestFlatRecipe returns the atomic breakdown of the cheapest recipe for item.
// ok is false when item is unreachable under forbidden.
func (e *Engine) CheapestFlatRecipe(item string, forbidden types.ForbiddenSet) (types.FlatRecipe, bool, error) {
	plan, err := e.Cheapest(item, forbidden)
	if err != nil {
		return nil, false, err
	}
	return plan.Flat, plan.Reachable, nil
}

// Cheapest resolves the cheapest plan for item, pairing its cost with its flat recipe
func (e *Engine) Cheapest(item string, forbidden types.ForbiddenSet) (Plan, error) {
	r := e.begin("cheapest_flat_recipe", item, forbidden)
	res, err := r.plan(item)
	r.finish(res.ok, err)
	if err != nil {
		return Plan{Item: item, Choice: -1}, err
	}
	if !res.ok {
		return Plan{Item: item, Choice: -1}, nil
	}
	return Plan{
		Item:      item,
		Reachable: true,
		Cost:      res.cost,
		Flat:      res.flat.Clone(),
		Choice:    res.choice,
	}, nil
}

// AllFlatRecipes enumerates every flat recipe achievable for item.
// Duplicates from distinct derivations are kept. Empty means unreachable.
func (e *Engine) AllFlatRecipes(item string, forbidden types.ForbiddenSet) ([]types.FlatRecipe, error) {
	r := e.begin("all_flat_recipes", item, forbidden)
	flats, err := r.enumerate(item)
	r.finish(len(flats) > 0, err)
	if err != nil {
		return nil, err
	}
	if flats == nil {
		flats = []types.FlatRecipe{}
	}
	return flats, nil
}

// begin starts one top-level call
func (e *Engine) begin(op, item string, forbidden types.ForbiddenSet) *resolution {
	r := &resolution{
		catalog:   e.catalog,
		forbidden: maps.Clone(forbidden),
		maxDepth:  e.config.MaxDepth,
		onChain:   make(map[string]int),
		logger: e.logger.With(
			zap.String("request_id", uuid.NewString()),
			zap.String("op", op),
			zap.String("item", item),
		),
		started: time.Now(),
	}
	if e.config.Memoize {
		r.costs = make(map[string]costResult)
		r.plans = make(map[string]planResult)
	}
	r.logger.Debug("resolving", zap.Int("forbidden", len(forbidden)))
	return r
}

func (r *resolution) finish(reachable bool, err error) {
	if err != nil {
		r.logger.Warn("resolution failed", zap.Error(err), zap.Int("visits", r.visits))
		return
	}
	r.logger.Debug("resolved",
		zap.Bool("reachable", reachable),
		zap.Int("visits", r.visits),
		zap.Duration("duration", time.Since(r.started)),
	)
}

package engine

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"recipe-cost/core/catalog"
	"recipe-cost/core/types"
	"recipe-cost/internal/errors"
)

type costResult struct {
	cost decimal.Decimal
	ok   bool
}

type planResult struct {
	cost   decimal.Decimal
	flat   types.FlatRecipe
	choice int
	ok     bool
}

// resolution is the state of one top-level call: the forbidden set,
// the chain of items currently being expanded, and optional memo tables.
type resolution struct {
	catalog   *catalog.Catalog
	forbidden types.ForbiddenSet
	maxDepth  int

	chain   []string
	onChain map[string]int

	costs map[string]costResult
	plans map[string]planResult

	visits  int
	logger  *zap.Logger
	started time.Time
}

// enter pushes item onto the chain, failing on re-entry or depth overflow
func (r *resolution) enter(item string) error {
	r.visits++
	if pos, ok := r.onChain[item]; ok {
		cycle := make([]string, 0, len(r.chain)-pos+1)
		cycle = append(cycle, r.chain[pos:]...)
		cycle = append(cycle, item)
		return errors.CyclicRecipe(cycle)
	}
	if len(r.chain) >= r.maxDepth {
		return errors.DepthExceeded(item, r.maxDepth)
	}
	r.onChain[item] = len(r.chain)
	r.chain = append(r.chain, item)
	return nil
}

func (r *resolution) leave(item string) {
	delete(r.onChain, item)
	r.chain = r.chain[:len(r.chain)-1]
}

// cost is the OR-over-recipes / AND-over-ingredients minimum
func (r *resolution) cost(item string) (costResult, error) {
	if r.forbidden.Contains(item) {
		return costResult{}, nil
	}
	if cost, ok := r.catalog.AtomicCost(item); ok {
		return costResult{cost: cost, ok: true}, nil
	}
	recipes := r.catalog.Recipes(item)
	if len(recipes) == 0 {
		return costResult{}, nil
	}
	if res, ok := r.costs[item]; ok {
		return res, nil
	}

	if err := r.enter(item); err != nil {
		return costResult{}, err
	}
	defer r.leave(item)

	var best costResult
	for _, recipe := range recipes {
		total, ok, err := r.recipeCost(recipe)
		if err != nil {
			return costResult{}, err
		}
		// strict less keeps the earliest of equally cheap recipes
		if ok && (!best.ok || total.LessThan(best.cost)) {
			best = costResult{cost: total, ok: true}
		}
	}

	if r.costs != nil {
		r.costs[item] = best
	}
	return best, nil
}

// recipeCost sums quantity × cost, stopping at the first unreachable ingredient
func (r *resolution) recipeCost(recipe types.Recipe) (decimal.Decimal, bool, error) {
	total := decimal.Zero
	for _, ing := range recipe {
		res, err := r.cost(ing.Name)
		if err != nil {
			return decimal.Zero, false, err
		}
		if !res.ok {
			return decimal.Zero, false, nil
		}
		total = total.Add(res.cost.Mul(decimal.NewFromInt(ing.Quantity)))
	}
	return total, true, nil
}

// plan is cost() that also carries the flat breakdown of the winning recipe
func (r *resolution) plan(item string) (planResult, error) {
	if r.forbidden.Contains(item) {
		return planResult{}, nil
	}
	if cost, ok := r.catalog.AtomicCost(item); ok {
		return planResult{cost: cost, flat: types.Unit(item), choice: -1, ok: true}, nil
	}
	recipes := r.catalog.Recipes(item)
	if len(recipes) == 0 {
		return planResult{}, nil
	}
	if res, ok := r.plans[item]; ok {
		return res, nil
	}

	if err := r.enter(item); err != nil {
		return planResult{}, err
	}
	defer r.leave(item)

	best := planResult{choice: -1}
	for i, recipe := range recipes {
		candidate, err := r.recipePlan(recipe)
		if err != nil {
			return planResult{}, err
		}
		if candidate.ok && (!best.ok || candidate.cost.LessThan(best.cost)) {
			candidate.choice = i
			best = candidate
		}
	}

	if r.plans != nil {
		r.plans[item] = best
	}
	return best, nil
}

func (r *resolution) recipePlan(recipe types.Recipe) (planResult, error) {
	total := decimal.Zero
	parts := make([]types.FlatRecipe, 0, len(recipe))
	for _, ing := range recipe {
		sub, err := r.plan(ing.Name)
		if err != nil {
			return planResult{}, err
		}
		if !sub.ok {
			return planResult{}, nil
		}
		scaled, err := types.Scale(sub.flat, ing.Quantity)
		if err != nil {
			return planResult{}, err
		}
		total = total.Add(sub.cost.Mul(decimal.NewFromInt(ing.Quantity)))
		parts = append(parts, scaled)
	}
	flat, err := types.Merge(parts...)
	if err != nil {
		return planResult{}, err
	}
	return planResult{cost: total, flat: flat, ok: true}, nil
}

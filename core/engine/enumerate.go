package engine

import "recipe-cost/core/types"

// enumerate lists every flat recipe for item. Results are never memoized.
func (r *resolution) enumerate(item string) ([]types.FlatRecipe, error) {
	if r.forbidden.Contains(item) {
		return nil, nil
	}
	if r.catalog.IsAtomic(item) {
		return []types.FlatRecipe{types.Unit(item)}, nil
	}
	recipes := r.catalog.Recipes(item)
	if len(recipes) == 0 {
		return nil, nil
	}

	if err := r.enter(item); err != nil {
		return nil, err
	}
	defer r.leave(item)

	var all []types.FlatRecipe
	for _, recipe := range recipes {
		combos, err := r.enumerateRecipe(recipe)
		if err != nil {
			return nil, err
		}
		all = append(all, combos...)
	}
	return all, nil
}

// enumerateRecipe builds the cross-product of the ingredients' expansions.
// A recipe without ingredients yields the single empty flat recipe; one
// ingredient without expansions makes the whole recipe infeasible.
func (r *resolution) enumerateRecipe(recipe types.Recipe) ([]types.FlatRecipe, error) {
	combos := []types.FlatRecipe{{}}
	for _, ing := range recipe {
		subs, err := r.enumerate(ing.Name)
		if err != nil {
			return nil, err
		}
		if len(subs) == 0 {
			return nil, nil
		}

		scaled := make([]types.FlatRecipe, len(subs))
		for j, sub := range subs {
			if scaled[j], err = types.Scale(sub, ing.Quantity); err != nil {
				return nil, err
			}
		}

		if combos, err = crossMerge(combos, scaled); err != nil {
			return nil, err
		}
	}
	return combos, nil
}

// crossMerge merges every left recipe with every right recipe, left-major
func crossMerge(left, right []types.FlatRecipe) ([]types.FlatRecipe, error) {
	out := make([]types.FlatRecipe, 0, len(left)*len(right))
	for _, l := range left {
		for _, rr := range right {
			merged, err := types.Merge(l, rr)
			if err != nil {
				return nil, err
			}
			out = append(out, merged)
		}
	}
	return out, nil
}

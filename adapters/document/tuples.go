package document

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"recipe-cost/core/types"
)

// decodeTuples reads the positional form: [kind, name, cost] for atomic
// entries and [kind, name, [[ingredient, quantity], ...]] for compound ones.
// Entries of any other kind keep their tag and drop the payload.
func decodeTuples(data []byte) ([]types.Entry, error) {
	var rows [][]json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}

	entries := make([]types.Entry, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("entry %d: expected at least [kind, name]", i)
		}

		var kind, name string
		if err := json.Unmarshal(row[0], &kind); err != nil {
			return nil, fmt.Errorf("entry %d kind: %w", i, err)
		}
		if err := json.Unmarshal(row[1], &name); err != nil {
			return nil, fmt.Errorf("entry %d name: %w", i, err)
		}

		e := types.Entry{Kind: types.Kind(kind), Name: name}
		switch e.Kind {
		case types.KindAtomic:
			if len(row) != 3 {
				return nil, fmt.Errorf("entry %d: atomic needs [kind, name, cost]", i)
			}
			var cost decimal.Decimal
			if err := json.Unmarshal(row[2], &cost); err != nil {
				return nil, fmt.Errorf("entry %d cost: %w", i, err)
			}
			e.Cost = cost

		case types.KindCompound:
			if len(row) != 3 {
				return nil, fmt.Errorf("entry %d: compound needs [kind, name, ingredients]", i)
			}
			ings, err := decodeIngredientPairs(row[2])
			if err != nil {
				return nil, fmt.Errorf("entry %d ingredients: %w", i, err)
			}
			e.Ingredients = ings
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func decodeIngredientPairs(data json.RawMessage) ([]types.Ingredient, error) {
	var pairs [][]json.RawMessage
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, err
	}

	ings := make([]types.Ingredient, 0, len(pairs))
	for j, pair := range pairs {
		if len(pair) != 2 {
			return nil, fmt.Errorf("pair %d: expected [name, quantity]", j)
		}
		var ing types.Ingredient
		if err := json.Unmarshal(pair[0], &ing.Name); err != nil {
			return nil, fmt.Errorf("pair %d name: %w", j, err)
		}
		if err := json.Unmarshal(pair[1], &ing.Quantity); err != nil {
			return nil, fmt.Errorf("pair %d quantity: %w", j, err)
		}
		ings = append(ings, ing)
	}
	return ings, nil
}

package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"recipe-cost/core/types"
	"recipe-cost/internal/errors"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// bakery is a small graph with alternatives, nesting and a shadowed recipe
func bakery() []types.Entry {
	return []types.Entry{
		types.Atomic("milk", d(3)),
		types.Atomic("sugar", d(2)),
		types.Atomic("flour", d(1)),
		types.Atomic("eggs", d(2)),
		types.Atomic("butter", d(4)),
		types.Compound("butter", types.Need("milk", 5)),
		types.Compound("cake", types.Need("milk", 2), types.Need("sugar", 1)),
		types.Compound("cake", types.Need("sugar", 5)),
		types.Compound("dough", types.Need("flour", 3), types.Need("eggs", 1)),
		types.Compound("dough", types.Need("flour", 2), types.Need("butter", 1)),
		types.Compound("pie", types.Need("dough", 1), types.Need("sugar", 2)),
		types.Compound("dessert", types.Need("cake", 1), types.Need("pie", 1)),
		types.Compound("souffle", types.Need("eggs", 2), types.Need("truffle", 1)),
	}
}

func engines(entries []types.Entry) map[string]*Engine {
	return map[string]*Engine{
		"memoized": FromEntries(entries, EngineConfig{Memoize: true}),
		"plain":    FromEntries(entries, EngineConfig{Memoize: false}),
	}
}

func TestSingleRecipeScenario(t *testing.T) {
	entries := []types.Entry{
		types.Atomic("milk", d(3)),
		types.Atomic("sugar", d(2)),
		types.Compound("cake", types.Need("milk", 2), types.Need("sugar", 1)),
	}

	for name, e := range engines(entries) {
		t.Run(name, func(t *testing.T) {
			cost, ok, err := e.LowestCost("cake", nil)
			require.NoError(t, err)
			require.True(t, ok)
			assert.True(t, d(8).Equal(cost), "got %s", cost)

			flat, ok, err := e.CheapestFlatRecipe("cake", nil)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, types.FlatRecipe{"milk": 2, "sugar": 1}, flat)

			all, err := e.AllFlatRecipes("cake", nil)
			require.NoError(t, err)
			assert.Equal(t, []types.FlatRecipe{{"milk": 2, "sugar": 1}}, all)

			t.Run("milk forbidden", func(t *testing.T) {
				_, ok, err := e.LowestCost("cake", types.Forbid("milk"))
				require.NoError(t, err)
				assert.False(t, ok)

				all, err := e.AllFlatRecipes("cake", types.Forbid("milk"))
				require.NoError(t, err)
				assert.Empty(t, all)
				assert.NotNil(t, all)
			})
		})
	}
}

func TestAlternativeRecipes(t *testing.T) {
	for name, e := range engines(bakery()) {
		t.Run(name, func(t *testing.T) {
			plan, err := e.Cheapest("cake", nil)
			require.NoError(t, err)
			require.True(t, plan.Reachable)
			assert.True(t, d(8).Equal(plan.Cost))
			assert.Equal(t, types.FlatRecipe{"milk": 2, "sugar": 1}, plan.Flat)
			assert.Equal(t, 0, plan.Choice)

			plan, err = e.Cheapest("cake", types.Forbid("milk"))
			require.NoError(t, err)
			require.True(t, plan.Reachable)
			assert.True(t, d(10).Equal(plan.Cost))
			assert.Equal(t, types.FlatRecipe{"sugar": 5}, plan.Flat)
			assert.Equal(t, 1, plan.Choice)
		})
	}
}

func TestNestedResolution(t *testing.T) {
	for name, e := range engines(bakery()) {
		t.Run(name, func(t *testing.T) {
			plan, err := e.Cheapest("dessert", nil)
			require.NoError(t, err)
			require.True(t, plan.Reachable)
			assert.True(t, d(17).Equal(plan.Cost), "got %s", plan.Cost)
			assert.Equal(t, types.FlatRecipe{"milk": 2, "sugar": 3, "flour": 3, "eggs": 1}, plan.Flat)

			all, err := e.AllFlatRecipes("dessert", nil)
			require.NoError(t, err)
			assert.Equal(t, []types.FlatRecipe{
				{"milk": 2, "sugar": 3, "flour": 3, "eggs": 1},
				{"milk": 2, "sugar": 3, "flour": 2, "butter": 1},
				{"sugar": 7, "flour": 3, "eggs": 1},
				{"sugar": 7, "flour": 2, "butter": 1},
			}, all)
		})
	}
}

func TestUnknownAndForbiddenItems(t *testing.T) {
	e := FromEntries(bakery(), DefaultEngineConfig())

	tests := []struct {
		name      string
		item      string
		forbidden types.ForbiddenSet
	}{
		{name: "unknown item", item: "unicorn"},
		{name: "forbidden atomic", item: "milk", forbidden: types.Forbid("milk")},
		{name: "forbidden compound", item: "cake", forbidden: types.Forbid("cake")},
		{name: "every recipe blocked", item: "dough", forbidden: types.Forbid("flour")},
		{name: "unknown ingredient", item: "souffle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := e.LowestCost(tt.item, tt.forbidden)
			require.NoError(t, err)
			assert.False(t, ok)

			flat, ok, err := e.CheapestFlatRecipe(tt.item, tt.forbidden)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, flat)

			all, err := e.AllFlatRecipes(tt.item, tt.forbidden)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestAtomicPrecedence(t *testing.T) {
	e := FromEntries(bakery(), DefaultEngineConfig())
	atomicOnly := FromEntries([]types.Entry{types.Atomic("butter", d(4))}, DefaultEngineConfig())

	for _, eng := range []*Engine{e, atomicOnly} {
		cost, ok, err := eng.LowestCost("butter", nil)
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, d(4).Equal(cost))

		plan, err := eng.Cheapest("butter", nil)
		require.NoError(t, err)
		assert.Equal(t, types.FlatRecipe{"butter": 1}, plan.Flat)
		assert.Equal(t, -1, plan.Choice)

		all, err := eng.AllFlatRecipes("butter", nil)
		require.NoError(t, err)
		assert.Equal(t, []types.FlatRecipe{{"butter": 1}}, all)
	}

	// forbidding milk must not matter: butter's milk recipe is never consulted
	cost, ok, err := e.LowestCost("butter", types.Forbid("milk"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, d(4).Equal(cost))
}

func TestTieBreakKeepsFirstRecipe(t *testing.T) {
	entries := []types.Entry{
		types.Atomic("milk", d(3)),
		types.Atomic("sugar", d(2)),
		types.Compound("twin", types.Need("milk", 2)),
		types.Compound("twin", types.Need("sugar", 3)),
	}

	for name, e := range engines(entries) {
		t.Run(name, func(t *testing.T) {
			plan, err := e.Cheapest("twin", nil)
			require.NoError(t, err)
			assert.True(t, d(6).Equal(plan.Cost))
			assert.Equal(t, types.FlatRecipe{"milk": 2}, plan.Flat)
			assert.Equal(t, 0, plan.Choice)
		})
	}
}

func TestEnumerationKeepsDuplicates(t *testing.T) {
	e := FromEntries([]types.Entry{
		types.Atomic("milk", d(1)),
		types.Compound("shake", types.Need("milk", 1)),
		types.Compound("shake", types.Need("milk", 1)),
	}, DefaultEngineConfig())

	all, err := e.AllFlatRecipes("shake", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Len(t, types.Distinct(all), 1)
}

func TestFractionalCosts(t *testing.T) {
	e := FromEntries([]types.Entry{
		types.Atomic("tea", decimal.RequireFromString("0.10")),
		types.Atomic("lemon", decimal.RequireFromString("0.20")),
		types.Compound("brew", types.Need("tea", 3)),
		types.Compound("brew", types.Need("lemon", 1), types.Need("tea", 1)),
	}, DefaultEngineConfig())

	// 0.1*3 and 0.2+0.1 tie exactly in decimal arithmetic
	plan, err := e.Cheapest("brew", nil)
	require.NoError(t, err)
	assert.Equal(t, "0.3", plan.Cost.String())
	assert.Equal(t, 0, plan.Choice)
}

func TestCheapestMatchesLowestCostProperty(t *testing.T) {
	for name, e := range engines(bakery()) {
		t.Run(name, func(t *testing.T) {
			cat := e.Catalog()
			for _, item := range append(cat.Names(), "unicorn") {
				for _, forbidden := range []types.ForbiddenSet{nil, types.Forbid("milk"), types.Forbid("eggs", "butter")} {
					label := fmt.Sprintf("%s/%v", item, forbidden.Names())

					cost, ok, err := e.LowestCost(item, forbidden)
					require.NoError(t, err, label)

					flat, flatOK, err := e.CheapestFlatRecipe(item, forbidden)
					require.NoError(t, err, label)
					require.Equal(t, ok, flatOK, label)

					all, err := e.AllFlatRecipes(item, forbidden)
					require.NoError(t, err, label)
					require.Equal(t, ok, len(all) > 0, label)

					if !ok {
						continue
					}

					flatCost, priced := cat.CostOf(flat)
					require.True(t, priced, label)
					assert.True(t, cost.Equal(flatCost), "%s: flat %s vs lowest %s", label, flatCost, cost)

					achieved := false
					for _, f := range all {
						c, priced := cat.CostOf(f)
						require.True(t, priced, label)
						assert.True(t, c.GreaterThanOrEqual(cost), label)
						achieved = achieved || c.Equal(cost)
					}
					assert.True(t, achieved, "%s: no enumerated recipe reaches the lowest cost", label)
				}
			}
		})
	}
}

func TestCyclicRecipes(t *testing.T) {
	entries := []types.Entry{
		types.Atomic("milk", d(1)),
		types.Compound("a", types.Need("b", 1)),
		types.Compound("b", types.Need("a", 1)),
		types.Compound("b", types.Need("milk", 1)),
		types.Compound("loop", types.Need("loop", 2)),
		types.Compound("guarded", types.Need("unicorn", 1), types.Need("guarded", 1)),
	}

	for name, e := range engines(entries) {
		t.Run(name, func(t *testing.T) {
			_, _, err := e.LowestCost("a", nil)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeCyclicRecipe))
			assert.Contains(t, err.Error(), "a -> b -> a")

			_, _, err = e.CheapestFlatRecipe("loop", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "loop -> loop")

			_, err = e.AllFlatRecipes("b", nil)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeCyclicRecipe))

			// forbidding a member breaks the cycle
			cost, ok, err := e.LowestCost("a", types.Forbid("a"))
			require.NoError(t, err)
			assert.False(t, ok)
			assert.True(t, cost.IsZero())

			plan, err := e.Cheapest("b", types.Forbid("a"))
			require.NoError(t, err)
			assert.True(t, plan.Reachable)
			assert.Equal(t, types.FlatRecipe{"milk": 1}, plan.Flat)

			// the unreachable first ingredient stops evaluation before the self reference
			_, ok, err = e.LowestCost("guarded", nil)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestMaxDepth(t *testing.T) {
	entries := []types.Entry{
		types.Atomic("seed", d(1)),
		types.Compound("l1", types.Need("seed", 2)),
		types.Compound("l2", types.Need("l1", 2)),
		types.Compound("l3", types.Need("l2", 2)),
		types.Compound("l4", types.Need("l3", 2)),
	}

	shallow := FromEntries(entries, EngineConfig{MaxDepth: 3})
	_, _, err := shallow.LowestCost("l4", nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeDepthExceeded))

	cost, ok, err := shallow.LowestCost("l3", nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, d(8).Equal(cost))

	deep := FromEntries(entries, DefaultEngineConfig())
	flat, ok, err := deep.CheapestFlatRecipe("l4", nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.FlatRecipe{"seed": 16}, flat)
}

// doublingChain builds lN = 2 x l(N-1) over seed, so lN needs 2^N seeds
func doublingChain(levels int) []types.Entry {
	entries := []types.Entry{
		types.Atomic("seed", d(1)),
		types.Compound("l1", types.Need("seed", 2)),
	}
	for i := 2; i <= levels; i++ {
		entries = append(entries, types.Compound(fmt.Sprintf("l%d", i), types.Need(fmt.Sprintf("l%d", i-1), 2)))
	}
	return entries
}

func TestQuantityOverflow(t *testing.T) {
	for name, e := range engines(doublingChain(64)) {
		t.Run(name, func(t *testing.T) {
			// costs are exact decimals and do not overflow
			cost, ok, err := e.LowestCost("l64", nil)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "18446744073709551616", cost.String())

			flat, ok, err := e.CheapestFlatRecipe("l62", nil)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, types.FlatRecipe{"seed": 1 << 62}, flat)

			for _, item := range []string{"l63", "l64"} {
				plan, err := e.Cheapest(item, nil)
				require.Error(t, err, item)
				assert.True(t, errors.IsType(err, errors.TypeInput), item)
				assert.False(t, plan.Reachable)
				assert.Equal(t, -1, plan.Choice)

				_, err = e.AllFlatRecipes(item, nil)
				assert.True(t, errors.IsType(err, errors.TypeInput), item)
			}
		})
	}
}

func TestShoppingListQuantityOverflow(t *testing.T) {
	e := FromEntries(doublingChain(62), DefaultEngineConfig())
	ctx := context.Background()

	_, err := e.ShoppingList(ctx, []Order{{Item: "l62", Quantity: 2}}, nil)
	assert.True(t, errors.IsType(err, errors.TypeInput))

	_, err = e.ShoppingList(ctx, []Order{{Item: "l62", Quantity: 1}, {Item: "l62", Quantity: 1}}, nil)
	assert.True(t, errors.IsType(err, errors.TypeInput))

	list, err := e.ShoppingList(ctx, []Order{{Item: "l61", Quantity: 1}, {Item: "l61", Quantity: 1}}, nil)
	require.NoError(t, err)
	assert.Equal(t, types.FlatRecipe{"seed": 1 << 62}, list.Items)
}

func TestEmptyRecipe(t *testing.T) {
	entries := []types.Entry{
		types.Atomic("leaf", d(2)),
		types.Compound("water"),
		types.Compound("tea", types.Need("water", 3), types.Need("leaf", 1)),
	}

	for name, e := range engines(entries) {
		t.Run(name, func(t *testing.T) {
			cost, ok, err := e.LowestCost("water", nil)
			require.NoError(t, err)
			require.True(t, ok)
			assert.True(t, cost.IsZero())

			plan, err := e.Cheapest("water", nil)
			require.NoError(t, err)
			require.True(t, plan.Reachable)
			assert.Equal(t, types.FlatRecipe{}, plan.Flat)
			assert.Equal(t, 0, plan.Choice)

			flats, err := e.AllFlatRecipes("water", nil)
			require.NoError(t, err)
			assert.Equal(t, []types.FlatRecipe{{}}, flats)

			cost, ok, err = e.LowestCost("tea", nil)
			require.NoError(t, err)
			require.True(t, ok)
			assert.True(t, d(2).Equal(cost), "got %s", cost)

			flats, err = e.AllFlatRecipes("tea", nil)
			require.NoError(t, err)
			assert.Equal(t, []types.FlatRecipe{{"leaf": 1}}, flats)
		})
	}
}

func TestNegativeAtomicCostLastWriteWins(t *testing.T) {
	entries := []types.Entry{
		types.Atomic("milk", d(3)),
		types.Compound("milk", types.Need("cream", 1)),
		types.Atomic("milk", d(-1)),
		types.Compound("latte", types.Need("milk", 2)),
	}

	for name, e := range engines(entries) {
		t.Run(name, func(t *testing.T) {
			cost, ok, err := e.LowestCost("milk", nil)
			require.NoError(t, err)
			require.True(t, ok)
			assert.True(t, d(-1).Equal(cost), "got %s", cost)

			cost, ok, err = e.LowestCost("latte", nil)
			require.NoError(t, err)
			require.True(t, ok)
			assert.True(t, d(-2).Equal(cost), "got %s", cost)
		})
	}
}

func TestForbiddenSetNotMutated(t *testing.T) {
	e := FromEntries(bakery(), DefaultEngineConfig())
	forbidden := types.Forbid("milk")

	_, err := e.AllFlatRecipes("dessert", forbidden)
	require.NoError(t, err)
	assert.Equal(t, types.Forbid("milk"), forbidden)
}

func TestReturnedFlatIsIndependent(t *testing.T) {
	e := FromEntries(bakery(), DefaultEngineConfig())

	first, _, err := e.CheapestFlatRecipe("cake", nil)
	require.NoError(t, err)
	first["milk"] = 100

	second, _, err := e.CheapestFlatRecipe("cake", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second["milk"])
}

func TestShoppingList(t *testing.T) {
	e := FromEntries(bakery(), EngineConfig{Memoize: true, Parallelism: 2})

	list, err := e.ShoppingList(context.Background(), []Order{
		{Item: "cake", Quantity: 2},
		{Item: "pie", Quantity: 1},
		{Item: "unicorn", Quantity: 3},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, types.FlatRecipe{"milk": 4, "sugar": 4, "flour": 3, "eggs": 1}, list.Items)
	assert.True(t, d(25).Equal(list.Total), "got %s", list.Total)
	assert.Equal(t, []string{"unicorn"}, list.Unreachable)

	require.Len(t, list.Lines, 3)
	assert.Equal(t, "cake", list.Lines[0].Order.Item)
	assert.True(t, d(8).Equal(list.Lines[0].UnitCost))
	assert.True(t, d(16).Equal(list.Lines[0].Cost))
	assert.False(t, list.Lines[2].Reachable)
}

func TestShoppingListErrors(t *testing.T) {
	entries := append(bakery(), types.Compound("loop", types.Need("loop", 1)))
	e := FromEntries(entries, DefaultEngineConfig())

	_, err := e.ShoppingList(context.Background(), []Order{{Item: "cake", Quantity: 0}}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))

	_, err = e.ShoppingList(context.Background(), []Order{{Item: "cake", Quantity: 1}, {Item: "loop", Quantity: 1}}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeCyclicRecipe))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.ShoppingList(ctx, []Order{{Item: "cake", Quantity: 1}}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestShoppingListEmpty(t *testing.T) {
	e := FromEntries(bakery(), DefaultEngineConfig())

	list, err := e.ShoppingList(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, types.FlatRecipe{}, list.Items)
	assert.True(t, list.Total.IsZero())
}

func TestResolutionLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	e := FromEntries(bakery(), DefaultEngineConfig())
	e.SetLogger(zap.New(core))

	_, _, err := e.LowestCost("dessert", nil)
	require.NoError(t, err)

	resolved := logs.FilterMessage("resolved").All()
	require.Len(t, resolved, 1)
	fields := resolved[0].ContextMap()
	assert.Equal(t, "lowest_cost", fields["op"])
	assert.Equal(t, "dessert", fields["item"])
	assert.Equal(t, true, fields["reachable"])
	assert.NotEmpty(t, fields["request_id"])
}

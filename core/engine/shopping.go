package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"recipe-cost/core/types"
	"recipe-cost/internal/errors"
)

// Order asks for Quantity units of Item
type Order struct {
	Item     string `json:"item"`
	Quantity int64  `json:"quantity"`
}

// OrderLine is the resolved cheapest plan for one order
type OrderLine struct {
	Order Order `json:"order"`

	// Reachable is false when the item cannot be produced
	Reachable bool `json:"reachable"`

	// UnitCost is the cost of one unit, Cost the cost of the whole order
	UnitCost decimal.Decimal `json:"unit_cost"`
	Cost     decimal.Decimal `json:"cost"`

	// Flat is the scaled atomic breakdown of the order
	Flat types.FlatRecipe `json:"flat,omitempty"`
}

// GroceryList is the merged breakdown of several orders
type GroceryList struct {
	Lines       []OrderLine      `json:"lines"`
	Items       types.FlatRecipe `json:"items"`
	Total       decimal.Decimal  `json:"total"`
	Unreachable []string         `json:"unreachable,omitempty"`
}

// ShoppingList resolves each order's cheapest plan, scales it by the order
// quantity and merges everything into one grocery list. Orders are resolved
// concurrently; unreachable orders are reported, not treated as errors.
func (e *Engine) ShoppingList(ctx context.Context, orders []Order, forbidden types.ForbiddenSet) (*GroceryList, error) {
	for _, o := range orders {
		if o.Quantity <= 0 {
			return nil, errors.Newf(errors.TypeInput, "order for %q has non-positive quantity %d", o.Item, o.Quantity).
				WithContext("item", o.Item)
		}
	}

	lines := make([]OrderLine, len(orders))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Parallelism)

	for i, o := range orders {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			plan, err := e.Cheapest(o.Item, forbidden)
			if err != nil {
				return fmt.Errorf("resolving order %q: %w", o.Item, err)
			}
			line := OrderLine{Order: o, Reachable: plan.Reachable}
			if plan.Reachable {
				qty := decimal.NewFromInt(o.Quantity)
				line.UnitCost = plan.Cost
				line.Cost = plan.Cost.Mul(qty)
				if line.Flat, err = types.Scale(plan.Flat, o.Quantity); err != nil {
					return fmt.Errorf("resolving order %q: %w", o.Item, err)
				}
			}
			lines[i] = line
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	list := &GroceryList{Lines: lines, Total: decimal.Zero}
	flats := make([]types.FlatRecipe, 0, len(lines))
	for _, line := range lines {
		if !line.Reachable {
			list.Unreachable = append(list.Unreachable, line.Order.Item)
			continue
		}
		flats = append(flats, line.Flat)
		list.Total = list.Total.Add(line.Cost)
	}
	items, err := types.Merge(flats...)
	if err != nil {
		return nil, err
	}
	list.Items = items

	e.logger.Debug("shopping list resolved",
		zap.Int("orders", len(orders)),
		zap.Int("items", len(list.Items)),
		zap.Int("unreachable", len(list.Unreachable)),
		zap.Stringer("total", list.Total),
	)
	return list, nil
}

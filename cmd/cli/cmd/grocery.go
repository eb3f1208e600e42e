package cmd

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"recipe-cost/core/engine"
	"recipe-cost/core/output"
	"recipe-cost/internal/errors"
)

func newGroceryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "grocery <item[:qty]>...",
		Short: "Merge the cheapest flat recipes of several orders",
		Long: `Resolve each order to its cheapest flat recipe, scale it by the order
quantity and merge everything into one grocery list.

Examples:
  recipe-cost grocery cake:2 pie -d bakery.hcl`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := parseOrders(args)
			if err != nil {
				return err
			}
			eng, err := opts.loadEngine(cmd)
			if err != nil {
				return err
			}
			forbidden := opts.forbidden()
			list, err := eng.ShoppingList(cmd.Context(), orders, forbidden)
			if err != nil {
				return err
			}
			return opts.render(cmd, output.GroceryReport(eng.Catalog(), list, forbidden))
		},
	}
}

// parseOrders reads "item" or "item:qty" arguments
func parseOrders(args []string) ([]engine.Order, error) {
	orders := make([]engine.Order, 0, len(args))
	for _, arg := range args {
		item, qty := arg, int64(1)
		if i := strings.LastIndex(arg, ":"); i >= 0 {
			n, err := strconv.ParseInt(arg[i+1:], 10, 64)
			if err != nil {
				return nil, errors.Wrapf(errors.TypeInput, err, "invalid quantity in order %q", arg)
			}
			item, qty = arg[:i], n
		}
		if item == "" {
			return nil, errors.Newf(errors.TypeInput, "order %q has no item", arg)
		}
		orders = append(orders, engine.Order{Item: item, Quantity: qty})
	}
	return orders, nil
}

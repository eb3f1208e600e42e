package cmd

import (
	"github.com/spf13/cobra"

	"recipe-cost/core/output"
	"recipe-cost/core/types"
)

func newCostCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cost <item>",
		Short: "Print the lowest cost of an item",
		Long: `Print the lowest cost of producing one unit of an item.

Atomic items cost their listed price. Compound items cost the cheapest
of their recipes. Items passed with --forbid cannot be used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.loadEngine(cmd)
			if err != nil {
				return err
			}
			forbidden := opts.forbidden()
			cost, ok, err := eng.LowestCost(args[0], forbidden)
			if err != nil {
				return err
			}
			return opts.render(cmd, output.CostReport(args[0], forbidden, cost, ok))
		},
	}
}

func newCheapestCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cheapest <item>",
		Short: "Print the cheapest flat recipe of an item",
		Long: `Print the atomic ingredients of the cheapest way to produce an item.

When several recipes tie, the one listed first in the dataset wins.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.loadEngine(cmd)
			if err != nil {
				return err
			}
			forbidden := opts.forbidden()
			plan, err := eng.Cheapest(args[0], forbidden)
			if err != nil {
				return err
			}
			return opts.render(cmd, output.PlanReport(eng.Catalog(), plan, forbidden))
		},
	}
}

func newAllCmd(opts *rootOptions) *cobra.Command {
	var (
		distinct bool
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "all <item>",
		Short: "Print every flat recipe of an item",
		Long: `Print every flat recipe an item can be produced from.

The list may contain the same flat recipe more than once when different
recipe choices reduce to the same atomic ingredients. Use --distinct to
collapse them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.loadEngine(cmd)
			if err != nil {
				return err
			}
			forbidden := opts.forbidden()
			flats, err := eng.AllFlatRecipes(args[0], forbidden)
			if err != nil {
				return err
			}
			enumerated := len(flats)
			if distinct {
				flats = types.Distinct(flats)
			}
			return opts.render(cmd, output.AllReport(eng.Catalog(), args[0], forbidden, flats, enumerated, limit))
		},
	}

	cmd.Flags().BoolVar(&distinct, "distinct", false, "collapse identical flat recipes")
	cmd.Flags().IntVar(&limit, "limit", 0, "show at most n flat recipes (0 shows all)")
	return cmd
}

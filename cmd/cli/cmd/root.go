// Package cmd provides the CLI commands for recipe-cost.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	// dataset loaders register themselves with the scanner registry
	_ "recipe-cost/adapters/document"
	_ "recipe-cost/adapters/hcl"

	"recipe-cost/internal/config"
	"recipe-cost/internal/logging"
)

const version = "0.1.0"

// rootOptions holds flags shared by every subcommand
type rootOptions struct {
	cfgFile string
	verbose bool

	dataset string
	format  string
	forbid  []string

	start       time.Time
	fingerprint string
}

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "recipe-cost",
		Short: "Compute the cheapest way to produce items from recipes",
		Long: `recipe-cost resolves compound items down to atomic ingredients.

It answers three questions about an item: its lowest cost, the cheapest
flat recipe that achieves it, and every flat recipe it can be made from.
Items can be forbidden for a single query.

Examples:
  recipe-cost cost cake -d bakery.hcl
  recipe-cost cheapest dessert -d bakery.hcl -x eggs
  recipe-cost all cake -d bakery.yaml --format json
  recipe-cost grocery cake:2 pie -d bakery.hcl`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.start = time.Now()
			return opts.initConfig()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default is $HOME/.recipe-cost.json)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	flags.StringVarP(&opts.dataset, "dataset", "d", "", "recipe dataset file or directory (default from config)")
	flags.StringVarP(&opts.format, "format", "f", "", "output format (cli, json, markdown)")
	flags.StringArrayVarP(&opts.forbid, "forbid", "x", nil, "item that may not be used (repeatable)")

	root.AddCommand(
		newCostCmd(opts),
		newCheapestCmd(opts),
		newAllCmd(opts),
		newGroceryCmd(opts),
		newInspectCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	return newRootCmd().Execute()
}

func (o *rootOptions) initConfig() error {
	cfg := config.Get()
	if o.cfgFile != "" {
		loaded, err := config.Load(o.cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	} else if loaded, err := config.Load(config.DefaultPath()); err == nil {
		cfg = loaded
	}
	config.Set(cfg)

	logCfg := cfg.Logging
	if o.verbose {
		logCfg.Level = "debug"
	}
	if err := logging.Initialize(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "recipe-cost version %s\n", version)
		},
	}
}

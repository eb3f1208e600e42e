package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recipe-cost/core/catalog"
	"recipe-cost/core/determinism"
	"recipe-cost/core/engine"
	"recipe-cost/core/output"
	"recipe-cost/core/scanner"
	"recipe-cost/core/types"
	"recipe-cost/core/ui"
	"recipe-cost/internal/config"
	"recipe-cost/internal/errors"
	"recipe-cost/internal/logging"
)

// datasetPath returns the --dataset flag or the configured default
func (o *rootOptions) datasetPath() (string, error) {
	if o.dataset != "" {
		return o.dataset, nil
	}
	if path := config.Get().Dataset.Path; path != "" {
		return path, nil
	}
	return "", errors.Input("no dataset: pass --dataset or set dataset.path in the config file")
}

// loadEngine scans the dataset and builds an engine over it.
// Scan warnings and flagged entries go to stderr.
func (o *rootOptions) loadEngine(cmd *cobra.Command) (*engine.Engine, error) {
	path, err := o.datasetPath()
	if err != nil {
		return nil, err
	}

	cfg := config.Get()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := scanner.GetDefault().DetectAndScan(ctx, path, cfg.Dataset.Format)
	if err != nil {
		return nil, err
	}

	cat := catalog.Build(result.Entries)
	o.fingerprint = determinism.Fingerprint(result.Entries).String()

	stderr := ui.NewWriter(cmd.ErrOrStderr(), true)
	if o.verbose {
		stderr.SetVerbosity(2)
	}
	for _, w := range result.Warnings {
		stderr.Debug("%s", w.String())
	}
	if n := len(cat.Issues()); n > 0 {
		stderr.Warning("%d dataset entries were flagged, run inspect for details", n)
	}

	logging.Debug("engine ready",
		zap.String("dataset", path),
		zap.Int("entries", len(result.Entries)),
		zap.Int("issues", len(cat.Issues())),
		zap.String("fingerprint", o.fingerprint),
	)
	return engine.NewEngine(cat, engine.EngineConfig(cfg.Engine)), nil
}

func (o *rootOptions) forbidden() types.ForbiddenSet {
	return types.Forbid(o.forbid...)
}

// render writes report in the selected output format
func (o *rootOptions) render(cmd *cobra.Command, report *output.Report) error {
	cfg := config.Get()

	format := o.format
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	formatter, err := output.New(output.Format(format), output.Options{
		Places:  cfg.Output.CurrencyPlaces,
		NoColor: cfg.Output.NoColor,
	})
	if err != nil {
		return err
	}

	dataset, _ := o.datasetPath()
	report.Metadata = output.NewMetadata(o.start, dataset, version)
	report.Metadata.Fingerprint = o.fingerprint
	return formatter.Render(cmd.OutOrStdout(), report)
}

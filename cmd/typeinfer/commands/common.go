// Package commands implements the typeinfer subcommands.
package commands

import (
	"fmt"
	"iter"
	"slices"

	"github.com/spf13/cobra"

	"github.com/teranos/typeinfer/am"
	"github.com/teranos/typeinfer/conv"
	"github.com/teranos/typeinfer/converters"
	"github.com/teranos/typeinfer/display"
	"github.com/teranos/typeinfer/errors"
	"github.com/teranos/typeinfer/ingest"
	"github.com/teranos/typeinfer/logger"
)

// verbosity returns the -v count of the invocation
func verbosity(cmd *cobra.Command) int {
	v, _ := cmd.Flags().GetCount("verbose")
	return v
}

// loadConfig loads the configuration cascade (or the --config file), applies
// the command's flag overrides and validates the result.
func loadConfig(cmd *cobra.Command) (*am.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var (
		cfg *am.Config
		err error
	)
	if path != "" {
		cfg, err = am.LoadFromFile(path)
	} else {
		cfg, err = am.Load()
	}
	if err != nil {
		return nil, errors.WithHint(err, "run 'typeinfer am where' to see which files were read")
	}

	// Load caches the config; overrides must not leak into it
	copied := *cfg
	cfg = &copied
	applyFlagOverrides(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, errors.WithHint(err, "run 'typeinfer am validate' to check the configuration files")
	}

	files := am.ActiveConfigFiles()
	if path != "" {
		files = []string{path}
	}
	warnUnknownKeys(files)

	logger.SetTheme(cfg.GetOutputTheme())
	if logger.ShouldOutput(verbosity(cmd), logger.OutputConfig) {
		fmt.Fprintln(cmd.ErrOrStderr(), cfg.String())
	}
	return cfg, nil
}

// applyFlagOverrides copies explicitly set flags onto cfg. Flags the command
// does not define are ignored.
func applyFlagOverrides(cmd *cobra.Command, cfg *am.Config) {
	flags := cmd.Flags()
	if flags.Changed("limit") {
		cfg.Infer.Limit, _ = flags.GetInt("limit")
	}
	if flags.Changed("sample-size") {
		cfg.Infer.SampleSize, _ = flags.GetInt("sample-size")
	}
	if flags.Changed("order") {
		cfg.Infer.Order, _ = flags.GetStringSlice("order")
	}
	if flags.Changed("no-general-parser") {
		off, _ := flags.GetBool("no-general-parser")
		cfg.Infer.GeneralParser = !off
	}
	if flags.Changed("delimiter") {
		cfg.Input.Delimiter, _ = flags.GetString("delimiter")
	}
	if flags.Changed("no-header") {
		noHeader, _ := flags.GetBool("no-header")
		cfg.Input.Header = !noHeader
	}
	if flags.Changed("comment") {
		cfg.Input.Comment, _ = flags.GetString("comment")
	}
	if flags.Changed("trim-space") {
		cfg.Input.TrimSpace, _ = flags.GetBool("trim-space")
	}
}

func warnUnknownKeys(files []string) {
	for _, f := range files {
		unknown, err := am.CheckUnknownKeys(f)
		if err != nil {
			logger.Debugw("Could not check config keys", logger.FieldFile, f, logger.FieldError, err)
			continue
		}
		if len(unknown) > 0 {
			logger.Warnw("Unknown configuration keys are ignored",
				logger.FieldFile, f,
				"keys", unknown)
		}
	}
}

// newEngine builds an engine over the configured converter order
func newEngine(cfg *am.Config) (*conv.Engine, error) {
	return converters.NewEngine(cfg.ConverterOptions(), logger.ComponentLogger("conv"))
}

// batchOptions maps the configured limit and sample size onto the drivers
func batchOptions(cfg *am.Config) []conv.BatchOption {
	return []conv.BatchOption{
		conv.WithLimit(cfg.Infer.Limit),
		conv.WithSampleSize(cfg.Infer.SampleSize),
	}
}

// readValues returns args, or the values read from stdin when there are none.
// The returned func reports the read error once the sequence is drained.
func readValues(cmd *cobra.Command, args []string) (iter.Seq[string], func() error) {
	if len(args) > 0 {
		return slices.Values(args), func() error { return nil }
	}
	vr := ingest.NewValueReader(cmd.InOrStdin(), logger.ComponentLogger("ingest"))
	return vr.Values(), vr.Err
}

// addOutputFlags registers --format and --json
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", display.FormatTable, fmt.Sprintf("Output format: %v", display.Formats))
	cmd.Flags().BoolP("json", "j", false, "Output as JSON (shorthand for --format json)")
}

// addInferFlags registers the flags shared by the inference commands
func addInferFlags(cmd *cobra.Command) {
	cmd.Flags().Int("limit", 0, "Stop after this many values or rows (0 = all)")
	cmd.Flags().Int("sample-size", 10, "Samples kept per type (0 = counts only, -1 = all)")
	cmd.Flags().StringSlice("order", nil, "Converter try-order, e.g. int,float,date")
	cmd.Flags().Bool("no-general-parser", false, "Only accept the configured date and time layouts")
}

// noValues is the error for an empty value stream
func noValues() error {
	return errors.WithHint(
		errors.Mark(errors.New("no values given"), errors.ErrNoData),
		"pass values as arguments or pipe them on stdin, one or more per line")
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/typeinfer/display"
	"github.com/teranos/typeinfer/errors"
)

// InferCmd summarizes the types found in a series of values
var InferCmd = &cobra.Command{
	Use:   "infer [values...]",
	Short: "Infer the types of a series of values",
	Long: `Count how many values each converter accepts and keep a sample of each.
Values no converter accepts are counted as unknown.

Without arguments, values are read from stdin, split with shell quoting rules.

Examples:
  typeinfer infer 1 2 3.5 yes n/a
  seq 1 1000 | typeinfer infer --limit 100 --sample-size 3
  typeinfer infer --format yaml < column.txt`,
	RunE: runInfer,
}

func init() {
	inferFlags(InferCmd)
}

func inferFlags(cmd *cobra.Command) {
	addOutputFlags(cmd)
	addInferFlags(cmd)
}

func runInfer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	values, readErr := readValues(cmd, args)
	types, err := engine.InferSeries(values, batchOptions(cfg)...)
	if rerr := readErr(); rerr != nil {
		return rerr
	}
	if err != nil {
		if errors.IsNoData(err) {
			return noValues()
		}
		return err
	}

	out := cmd.OutOrStdout()
	summary := types.Summary()
	format := display.OutputFormat(cmd, cfg.GetOutputFormat())
	if format == display.FormatTable {
		return display.RenderTypes(out, "values", summary)
	}
	return display.Encode(out, format, "types", summary)
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/typeinfer/display"
	"github.com/teranos/typeinfer/logger"
	"github.com/teranos/typeinfer/stats"
)

// ConvertCmd converts values to the first type that accepts them
var ConvertCmd = &cobra.Command{
	Use:   "convert [values...]",
	Short: "Convert values to typed values",
	Long: `Convert each value with the first converter in the try-order that accepts it.
Values nobody accepts are passed through unchanged and shown as unknown.

Without arguments, values are read from stdin. Each line is split with shell
quoting rules, so "March 4, 2013" stays one value.

Examples:
  typeinfer convert -- -3 +0.4 true "5:40 PM"
  typeinfer convert --json 2013-03-01
  cat values.txt | typeinfer convert --values-only`,
	RunE: runConvert,
}

func init() {
	convertFlags(ConvertCmd)
}

func convertFlags(cmd *cobra.Command) {
	addOutputFlags(cmd)
	cmd.Flags().StringSlice("order", nil, "Converter try-order, e.g. int,float,date")
	cmd.Flags().Bool("no-general-parser", false, "Only accept the configured date and time layouts")
	cmd.Flags().Bool("values-only", false, "Print only the converted values, one per line")
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	values, readErr := readValues(cmd, args)
	out := cmd.OutOrStdout()

	if valuesOnly, _ := cmd.Flags().GetBool("values-only"); valuesOnly {
		for v, err := range engine.ConvertSeries(values) {
			if err != nil {
				return err
			}
			fmt.Fprintln(out, v)
		}
		return readErr()
	}

	trace := logger.ShouldOutput(verbosity(cmd), logger.OutputConversions)
	var rows []display.ConversionRow
	for v := range values {
		c, err := engine.ConvertWithTag(v)
		if err != nil {
			return err
		}
		if trace {
			tag := c.Tag
			if !c.Matched() {
				tag = stats.Unknown
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%q -> %s\n", v, tag)
		}
		rows = append(rows, display.ConversionRow{
			Input: v,
			Tag:   c.Tag,
			Value: c.Value,
			Type:  fmt.Sprintf("%T", c.Value),
		})
	}
	if err := readErr(); err != nil {
		return err
	}
	if len(rows) == 0 {
		return noValues()
	}

	format := display.OutputFormat(cmd, cfg.GetOutputFormat())
	if format == display.FormatTable {
		return display.RenderConversions(out, rows)
	}
	return display.Encode(out, format, "conversions", rows)
}

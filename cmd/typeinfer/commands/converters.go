package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/typeinfer/converters"
	"github.com/teranos/typeinfer/display"
)

// ConvertersCmd lists the configured try-order
var ConvertersCmd = &cobra.Command{
	Use:   "converters",
	Short: "Show the converter try-order",
	Long: `List the registered converters in the order they are tried, with the Go
type each one produces. The order comes from infer.order in am.toml or --order.`,
	Args: cobra.NoArgs,
	RunE: runConverters,
}

func init() {
	convertersFlags(ConvertersCmd)
}

func convertersFlags(cmd *cobra.Command) {
	addOutputFlags(cmd)
	cmd.Flags().StringSlice("order", nil, "Converter try-order, e.g. int,float,date")
}

func runConverters(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	order := engine.Registry().Order()
	rows := make([]display.ConverterRow, len(order))
	for i, tag := range order {
		rows[i] = display.ConverterRow{Priority: i, Tag: tag}
		if t, ok := converters.GoTypes[tag]; ok {
			rows[i].Type = t.String()
		}
	}

	out := cmd.OutOrStdout()
	format := display.OutputFormat(cmd, cfg.GetOutputFormat())
	if format == display.FormatTable {
		return display.RenderConverters(out, rows)
	}
	return display.Encode(out, format, "converters", rows)
}

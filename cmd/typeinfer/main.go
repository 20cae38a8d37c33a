package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/typeinfer/cmd/typeinfer/commands"
	"github.com/teranos/typeinfer/errors"
	"github.com/teranos/typeinfer/logger"
)

var rootCmd = &cobra.Command{
	Use:   "typeinfer",
	Short: "typeinfer - Convert strings to typed values and infer column types",
	Long: `typeinfer - Convert strings to typed values and infer column types.

Every value is offered to an ordered list of converters (int, float, bool,
time, datetime, date by default); the first one that accepts it decides its
type. Batches of values and whole tables are summarized per type with counts,
frequencies and samples.

Available commands:
  convert    - Convert values to typed values
  infer      - Summarize the types of a series of values
  profile    - Infer the type of every column of a table
  converters - Show the converter try-order
  am         - Manage typeinfer configuration ("I am")
  version    - Show version information

Examples:
  typeinfer convert 3 0.4 yes "March 4, 2013 5:40 PM"
  typeinfer infer 1 2 3.5 yes n/a
  typeinfer profile people.csv
  typeinfer am show`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			pterm.DisableColor()
		}

		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON to stderr")
	rootCmd.PersistentFlags().String("config", "", "Read configuration from this file instead of the am.toml cascade")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	// Add commands
	rootCmd.AddCommand(commands.ConvertCmd)
	rootCmd.AddCommand(commands.InferCmd)
	rootCmd.AddCommand(commands.ProfileCmd)
	rootCmd.AddCommand(commands.ConvertersCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "  hint: %s\n", hint)
		}
		os.Exit(1)
	}
}

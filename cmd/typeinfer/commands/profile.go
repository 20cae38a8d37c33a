package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/typeinfer/am"
	"github.com/teranos/typeinfer/display"
	"github.com/teranos/typeinfer/errors"
	"github.com/teranos/typeinfer/ingest"
	"github.com/teranos/typeinfer/internal/httpclient"
	"github.com/teranos/typeinfer/logger"
	"github.com/teranos/typeinfer/profile"
)

// ProfileCmd infers the type of every column of a delimited table
var ProfileCmd = &cobra.Command{
	Use:   "profile <file|url|->",
	Short: "Infer the type of every column of a table",
	Long: `Read a delimited table and report, per column, the dominant type, how often
each type occurs and a sample of the values behind it.

The input can be a local file, "-" for stdin, or anything go-getter can fetch
(https, s3, git, archives). A fetched directory is searched for the first
.csv, .tsv, .psv or .txt file.

Examples:
  typeinfer profile people.csv
  typeinfer profile --delimiter '\t' --no-header data.tsv
  typeinfer profile --format json https://example.com/data.csv
  typeinfer profile --schema --limit 1000 big.csv
  typeinfer profile --watch people.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runProfile,
}

func init() {
	profileFlags(ProfileCmd)
}

func profileFlags(cmd *cobra.Command) {
	addOutputFlags(cmd)
	addInferFlags(cmd)
	cmd.Flags().String("delimiter", ",", `Field delimiter (a single character, or "\t")`)
	cmd.Flags().Bool("no-header", false, "Treat the first row as data")
	cmd.Flags().String("comment", "", "Skip lines starting with this character")
	cmd.Flags().Bool("trim-space", false, "Trim whitespace around fields")
	cmd.Flags().Bool("schema", false, "Only print column names and their dominant type")
	cmd.Flags().Bool("watch", false, "Re-run when the file or the configuration changes")
	cmd.Flags().Bool("allow-private-hosts", false, "Allow fetching from localhost and private networks")
}

func runProfile(cmd *cobra.Command, args []string) error {
	input := args[0]
	watch, _ := cmd.Flags().GetBool("watch")
	if watch && (input == ingest.Stdin || ingest.IsRemote(input)) {
		return errors.WithHint(
			errors.NewInvalidInputError("--watch needs a local file, got %q", input),
			"download the table first, then watch the local copy")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := profileOnce(ctx, cmd, input); err != nil {
		return err
	}
	if !watch {
		return nil
	}
	return watchProfile(ctx, cmd, input)
}

func profileOnce(ctx context.Context, cmd *cobra.Command, input string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	emitter := display.NewEmitter(verbosity(cmd)).WithWriter(cmd.ErrOrStderr())

	var clientOpts []httpclient.Option
	if allow, _ := cmd.Flags().GetBool("allow-private-hosts"); allow {
		clientOpts = append(clientOpts, httpclient.AllowPrivateHosts())
	}
	src, err := ingest.Resolve(ctx, input, logger.ComponentLogger("ingest"),
		ingest.WithHTTPClient(httpclient.New(clientOpts...)))
	if err != nil {
		return err
	}
	defer src.Cleanup()
	if src.Fetched {
		emitter.Info(fmt.Sprintf("Fetched %s to %s", src.Input, src.LocalPath))
	}

	var r io.Reader = cmd.InOrStdin()
	if !src.IsStdin() {
		rc, err := src.Open()
		if err != nil {
			return err
		}
		defer rc.Close()
		r = rc
	}

	table := ingest.NewReader(r, readerOptions(cfg))
	report, err := profile.NewProfiler(engine, logger.ComponentLogger("profile")).Profile(ctx, table, profile.Options{
		Source:     src.Name(),
		Limit:      cfg.Infer.Limit,
		SampleSize: cfg.Infer.SampleSize,
	})
	if err != nil {
		return err
	}

	v := verbosity(cmd)
	if logger.ShouldOutput(v, logger.OutputSummary) {
		emitter.Info(fmt.Sprintf("Report %s: %d rows from %s", report.ID, report.Rows, report.Source))
	}
	if logger.ShouldOutput(v, logger.OutputTiming) {
		emitter.Info(fmt.Sprintf("Profiled in %dms", report.DurationMS))
	}

	out := cmd.OutOrStdout()
	format := display.OutputFormat(cmd, cfg.GetOutputFormat())
	if schema, _ := cmd.Flags().GetBool("schema"); schema {
		if format == display.FormatTable {
			return display.RenderSchema(out, report.Schema())
		}
		return display.Encode(out, format, "schema", report.Schema())
	}
	if format == display.FormatTable {
		return display.RenderReport(out, report)
	}
	return display.Encode(out, format, "report", report)
}

// watchProfile re-runs the profile whenever input or a config file changes
func watchProfile(ctx context.Context, cmd *cobra.Command, input string) error {
	paths := []string{input}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		paths = append(paths, path)
	} else {
		paths = append(paths, am.ActiveConfigFiles()...)
	}

	fw, err := am.NewFileWatcher(paths, am.WithLogger(logger.ComponentLogger("watch")))
	if err != nil {
		return err
	}
	defer fw.Close()

	emitter := display.NewEmitter(verbosity(cmd)).WithWriter(cmd.ErrOrStderr())
	fw.OnChange(func(path string) error {
		if logger.ShouldOutput(verbosity(cmd), logger.OutputProgress) {
			emitter.Stage("watch", filepath.Base(path)+" changed, profiling again")
		}
		am.Reset()
		if err := profileOnce(ctx, cmd, input); err != nil {
			emitter.Error("profile", err)
		}
		return nil
	})

	emitter.Stage("watch", fmt.Sprintf("watching %d files, Ctrl+C to stop", len(paths)))
	if err := fw.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func readerOptions(cfg *am.Config) ingest.ReaderOptions {
	opts := ingest.ReaderOptions{
		Delimiter: cfg.GetDelimiter(),
		Header:    cfg.Input.Header,
		TrimSpace: cfg.Input.TrimSpace,
	}
	if cfg.Input.Comment != "" {
		opts.Comment = []rune(cfg.Input.Comment)[0]
	}
	return opts
}

package commands

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/typeinfer/am"
	"github.com/teranos/typeinfer/display"
	"github.com/teranos/typeinfer/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage typeinfer configuration",
	Long: `am: manage typeinfer configuration ("I am")

Display and manage the converter order, date and time layouts, boolean words
and table input settings.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (TYPEINFER_* prefix)
3. Project config (./am.toml, searched up the directory tree)
4. User config (~/.typeinfer/am.toml)
5. System config (/etc/typeinfer/am.toml)
6. Default values

Examples:
  typeinfer am show                    # Show current configuration
  typeinfer am show --format json      # Show configuration in JSON format
  typeinfer am get infer.order         # Get specific config value
  typeinfer am validate                # Validate current configuration
  typeinfer am init                    # Write ./am.toml with the defaults`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the current typeinfer configuration from all sources",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., infer.order, input.delimiter)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Long:  "Validate the merged configuration and report unknown keys in each config file",
	RunE:  runAmValidate,
}

var amInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the defaults",
	Long: `Write am.toml with every setting at its default value.

The file goes to the current directory, or to ~/.typeinfer/am.toml with --user.
An existing file is only replaced with --force; the old one is kept as .back1.`,
	Args: cobra.NoArgs,
	RunE: runAmInit,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	Long: `Show the configuration cascade and which source set each value.

Lists all configuration sources in order of precedence, with the settings
each one contributes.`,
	RunE: runAmWhere,
}

var (
	configFormat string
	initForce    bool
	initUser     bool
)

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", display.FormatTOML, "Output format: toml, json, yaml")
	amInitCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing file")
	amInitCmd.Flags().BoolVar(&initUser, "user", false, "Write the user config instead of ./am.toml")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amInitCmd)
	AmCmd.AddCommand(amWhereCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	out := cmd.OutOrStdout()
	switch configFormat {
	case display.FormatTOML:
		data, err := am.MarshalTOML(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "# typeinfer configuration\n%s", data)
		return nil
	case display.FormatJSON, display.FormatYAML:
		return display.Encode(out, configFormat, "config", cfg)
	default:
		return errors.WithHint(
			errors.NewInvalidConfigError("unsupported format: %s", configFormat),
			"supported formats: toml, json, yaml")
	}
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	if _, err := am.Load(); err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if !am.IsSet(key) {
		return errors.WithHint(
			errors.NewNotFoundError("configuration key %q not found", key),
			"run 'typeinfer am show' to list every key")
	}

	fmt.Fprintln(cmd.OutOrStdout(), am.Get(key))
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}

	for _, f := range am.ActiveConfigFiles() {
		unknown, err := am.CheckUnknownKeys(f)
		if err != nil {
			return err
		}
		for _, key := range unknown {
			pterm.Warning.WithWriter(cmd.ErrOrStderr()).Printf("%s: unknown key %q is ignored\n", f, key)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
	return nil
}

func runAmInit(cmd *cobra.Command, args []string) error {
	path := am.ProjectConfigName
	if initUser {
		path = am.UserConfigPath()
		if path == "" {
			return errors.New("cannot determine the home directory")
		}
	}

	if err := am.WriteDefault(path, initForce); err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", abs)
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	intro, err := am.GetConfigIntrospection()
	if err != nil {
		return errors.Wrap(err, "failed to get config introspection")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  1. [DEFAULT]  Built-in defaults")
	fmt.Fprintln(out, "  2. [SYSTEM]   /etc/typeinfer/am.toml")
	fmt.Fprintln(out, "  3. [USER]     ~/.typeinfer/am.toml")
	fmt.Fprintln(out, "  4. [PROJECT]  ./am.toml (searches up directories)")
	fmt.Fprintln(out, "  5. [ENV]      TYPEINFER_* environment variables")
	fmt.Fprintln(out)

	type fileGroup struct {
		source   am.ConfigSource
		path     string
		settings []am.SettingInfo
	}

	// Group settings by the file (or env/default source) that set them
	groups := make(map[string]*fileGroup)
	for _, setting := range intro.Settings {
		path := setting.SourcePath
		if setting.Source == am.SourceDefault || setting.Source == am.SourceEnvironment {
			path = ""
		}
		key := path
		if key == "" {
			key = string(setting.Source)
		}
		if group, exists := groups[key]; exists {
			group.settings = append(group.settings, setting)
			continue
		}
		groups[key] = &fileGroup{source: setting.Source, path: path, settings: []am.SettingInfo{setting}}
	}

	sourceOrder := []am.ConfigSource{
		am.SourceDefault,
		am.SourceSystem,
		am.SourceUser,
		am.SourceProject,
		am.SourceEnvironment,
	}

	fmt.Fprintln(out, "Active configuration:")
	for _, source := range sourceOrder {
		var ordered []*fileGroup
		for _, group := range groups {
			if group.source == source {
				ordered = append(ordered, group)
			}
		}
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].path < ordered[j].path })

		for _, group := range ordered {
			switch {
			case group.path != "":
				fmt.Fprintf(out, "\n%s: %d settings from %s\n", source, len(group.settings), group.path)
			case source == am.SourceEnvironment:
				fmt.Fprintf(out, "\n%s: %d settings from environment variables\n", source, len(group.settings))
			default:
				fmt.Fprintf(out, "\n%s: %d settings\n", source, len(group.settings))
			}

			for _, setting := range group.settings {
				valueStr := fmt.Sprintf("%v", setting.Value)
				if len(valueStr) > 50 {
					valueStr = valueStr[:47] + "..."
				}
				fmt.Fprintf(out, "  %s = %s\n", setting.Key, valueStr)
			}
		}
	}

	return nil
}

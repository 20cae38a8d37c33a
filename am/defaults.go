package am

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/teranos/typeinfer/converters"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Inference defaults
	v.SetDefault("infer.sample_size", 10)
	v.SetDefault("infer.limit", 0) // 0 = scan everything
	v.SetDefault("infer.order", converters.DefaultOrder)
	v.SetDefault("infer.general_parser", true)

	// Layout tables
	v.SetDefault("formats.date", converters.DefaultDateLayouts)
	v.SetDefault("formats.time", converters.DefaultTimeLayouts)
	v.SetDefault("formats.separators", converters.DefaultSeparators)

	// Boolean words
	v.SetDefault("bool.true", converters.DefaultTrueWords)
	v.SetDefault("bool.false", converters.DefaultFalseWords)

	// Table input
	v.SetDefault("input.delimiter", ",")
	v.SetDefault("input.header", true)
	v.SetDefault("input.comment", "")
	v.SetDefault("input.trim_space", false)

	// Output
	v.SetDefault("output.format", FormatTable)
	v.SetDefault("output.theme", "everforest")
}

// BindEnvVars explicitly binds settings commonly overridden per invocation
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("infer.sample_size", "TYPEINFER_SAMPLE_SIZE")
	v.BindEnv("infer.limit", "TYPEINFER_LIMIT")
	v.BindEnv("output.format", "TYPEINFER_FORMAT")
	v.BindEnv("output.theme", "TYPEINFER_LOG_THEME")
}

// Defaults returns the built-in configuration
func Defaults() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// defaults always decode
		panic(err)
	}
	return cfg
}

// ConverterOptions maps the configuration onto the built-in converter table
func (c *Config) ConverterOptions() converters.Options {
	return converters.Options{
		DateLayouts:   c.Formats.Date,
		TimeLayouts:   c.Formats.Time,
		Separators:    c.Formats.Separators,
		GeneralParser: c.Infer.GeneralParser,
		TrueWords:     c.Bool.True,
		FalseWords:    c.Bool.False,
		Order:         c.Infer.Order,
	}
}

// GetOutputTheme returns the log theme (default: everforest)
func (c *Config) GetOutputTheme() string {
	if c.Output.Theme == "" {
		return "everforest"
	}
	return c.Output.Theme
}

// GetOutputFormat returns the report format (default: table)
func (c *Config) GetOutputFormat() string {
	if c.Output.Format == "" {
		return FormatTable
	}
	return c.Output.Format
}

// GetDelimiter returns the table delimiter as a rune, expanding "\t"
func (c *Config) GetDelimiter() rune {
	switch c.Input.Delimiter {
	case "":
		return ','
	case `\t`, "tab":
		return '\t'
	}
	return []rune(c.Input.Delimiter)[0]
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Infer: {SampleSize: %d, Limit: %d, Order: %v}, Input: {Delimiter: %q, Header: %t}, Output: {Format: %s}}",
		c.Infer.SampleSize, c.Infer.Limit, c.Infer.Order, c.Input.Delimiter, c.Input.Header, c.GetOutputFormat())
}

package am

import (
	"slices"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"github.com/teranos/typeinfer/converters"
	"github.com/teranos/typeinfer/errors"
	"github.com/teranos/typeinfer/stats"
	"github.com/teranos/typeinfer/version"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Sample size: -1 = unbounded, 0 = counts only, below -1 is invalid
	if c.Infer.SampleSize < stats.Unbounded {
		return errors.NewInvalidConfigError("infer.sample_size must be >= -1, got %d", c.Infer.SampleSize)
	}

	// Limit: 0 = no limit, negative = invalid
	if c.Infer.Limit < 0 {
		return errors.NewInvalidConfigError("infer.limit must be >= 0, got %d", c.Infer.Limit)
	}

	// Order: empty falls back to the built-in order, unknown or repeated tags are invalid
	for i, tag := range c.Infer.Order {
		if !converters.IsBuiltin(tag) {
			return errors.WithHintf(
				errors.NewInvalidConfigError("infer.order: unknown converter %q", tag),
				"built-in converters are %v", converters.DefaultOrder)
		}
		if slices.Contains(c.Infer.Order[:i], tag) {
			return errors.NewInvalidConfigError("infer.order: converter %q listed twice", tag)
		}
	}

	// Layout tables: empty disables the layout fallback, but blank entries are a typo
	for _, layouts := range []struct {
		key    string
		values []string
	}{
		{"formats.date", c.Formats.Date},
		{"formats.time", c.Formats.Time},
	} {
		if slices.Contains(layouts.values, "") {
			return errors.NewInvalidConfigError("%s contains an empty layout", layouts.key)
		}
	}
	if len(c.Formats.Date) > 0 && len(c.Formats.Time) > 0 && len(c.Formats.Separators) == 0 {
		return errors.NewInvalidConfigError("formats.separators cannot be empty when date and time layouts are set")
	}

	// Bool words must not be ambiguous
	for _, w := range c.Bool.True {
		if w == "" {
			return errors.NewInvalidConfigError("bool.true contains an empty word")
		}
		if slices.Contains(c.Bool.False, w) {
			return errors.NewInvalidConfigError("%q is listed in both bool.true and bool.false", w)
		}
	}
	if slices.Contains(c.Bool.False, "") {
		return errors.NewInvalidConfigError("bool.false contains an empty word")
	}

	// Delimiter: one character (or "\t")
	if d := c.Input.Delimiter; d != "" && d != `\t` && d != "tab" {
		if utf8.RuneCountInString(d) != 1 {
			return errors.NewInvalidConfigError("input.delimiter must be a single character, got %q", d)
		}
		if d == "\n" || d == "\r" || d == `"` {
			return errors.NewInvalidConfigError("input.delimiter cannot be %q", d)
		}
	}
	if utf8.RuneCountInString(c.Input.Comment) > 1 {
		return errors.NewInvalidConfigError("input.comment must be a single character, got %q", c.Input.Comment)
	}

	switch c.GetOutputFormat() {
	case FormatTable, FormatJSON, FormatYAML, FormatTOML:
	default:
		return errors.NewInvalidConfigError("output.format must be one of table, json, yaml, toml, got %q", c.Output.Format)
	}

	if err := version.CheckConstraint(version.Get().Version, c.Requires); err != nil {
		return errors.Mark(err, errors.ErrInvalidConfig)
	}

	return nil
}

// CheckUnknownKeys returns keys in the TOML file at path that no Config
// field decodes, e.g. misspelled settings that viper would silently ignore.
func CheckUnknownKeys(path string) ([]string, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}

	undecoded := md.Undecoded()
	keys := make([]string, 0, len(undecoded))
	for _, key := range undecoded {
		keys = append(keys, key.String())
	}
	slices.Sort(keys)
	return keys, nil
}

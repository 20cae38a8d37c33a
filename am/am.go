package am

// Config represents the typeinfer configuration
type Config struct {
	Infer    InferConfig   `mapstructure:"infer" toml:"infer" json:"infer" yaml:"infer"`
	Formats  FormatsConfig `mapstructure:"formats" toml:"formats" json:"formats" yaml:"formats"`
	Bool     BoolConfig    `mapstructure:"bool" toml:"bool" json:"bool" yaml:"bool"`
	Input    InputConfig   `mapstructure:"input" toml:"input" json:"input" yaml:"input"`
	Output   OutputConfig  `mapstructure:"output" toml:"output" json:"output" yaml:"output"`
	Requires string        `mapstructure:"requires" toml:"requires,omitempty" json:"requires,omitempty" yaml:"requires,omitempty"` // semver constraint on the typeinfer version
}

// InferConfig configures the inference drivers
type InferConfig struct {
	SampleSize    int      `mapstructure:"sample_size" toml:"sample_size" json:"sample_size" yaml:"sample_size"`          // samples kept per tag, -1 = unbounded
	Limit         int      `mapstructure:"limit" toml:"limit" json:"limit" yaml:"limit"`                                  // values/rows per pass, 0 = all
	Order         []string `mapstructure:"order" toml:"order" json:"order" yaml:"order"`                                  // converter try-order
	GeneralParser bool     `mapstructure:"general_parser" toml:"general_parser" json:"general_parser" yaml:"general_parser"` // try dateparse before the layout tables
}

// FormatsConfig holds the date and time layout tables (Go reference-time layouts)
type FormatsConfig struct {
	Date       []string `mapstructure:"date" toml:"date" json:"date" yaml:"date"`
	Time       []string `mapstructure:"time" toml:"time" json:"time" yaml:"time"`
	Separators []string `mapstructure:"separators" toml:"separators" json:"separators" yaml:"separators"` // between date and time
}

// BoolConfig holds the words recognized as booleans (case-insensitive)
type BoolConfig struct {
	True  []string `mapstructure:"true" toml:"true" json:"true" yaml:"true"`
	False []string `mapstructure:"false" toml:"false" json:"false" yaml:"false"`
}

// InputConfig configures how delimited tables are read
type InputConfig struct {
	Delimiter string `mapstructure:"delimiter" toml:"delimiter" json:"delimiter" yaml:"delimiter"` // single character, "\t" allowed
	Header    bool   `mapstructure:"header" toml:"header" json:"header" yaml:"header"`             // first row names the columns
	Comment   string `mapstructure:"comment" toml:"comment" json:"comment" yaml:"comment"`         // lines starting with this are skipped, "" = none
	TrimSpace bool   `mapstructure:"trim_space" toml:"trim_space" json:"trim_space" yaml:"trim_space"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Format string `mapstructure:"format" toml:"format" json:"format" yaml:"format"` // table, json, yaml, toml
	Theme  string `mapstructure:"theme" toml:"theme" json:"theme" yaml:"theme"`     // log color theme: gruvbox, everforest
}

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTOML  = "toml"
)

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)

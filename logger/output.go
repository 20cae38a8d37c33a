package logger

// OutputCategory defines a category of output that can be enabled/disabled.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT is printed by the CLI regardless of severity.
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults OutputCategory = iota // Reports, converted values
	OutputErrors                        // Errors with hints

	// Level 1 (-v)
	OutputProgress // Rows processed, watch re-runs
	OutputSummary  // Source resolution, report IDs

	// Level 2 (-vv)
	OutputConfig // Config values loaded/applied
	OutputTiming // Profile timing

	// Level 3 (-vvv)
	OutputConversions // Per-value conversion decisions
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults:     VerbosityUser,
	OutputErrors:      VerbosityUser,
	OutputProgress:    VerbosityInfo,
	OutputSummary:     VerbosityInfo,
	OutputConfig:      VerbosityDebug,
	OutputTiming:      VerbosityDebug,
	OutputConversions: VerbosityTrace,
}

// ShouldOutput reports whether category is enabled at verbosity.
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

var categoryNames = map[OutputCategory]string{
	OutputResults:     "results",
	OutputErrors:      "errors",
	OutputProgress:    "progress",
	OutputSummary:     "summary",
	OutputConfig:      "config",
	OutputTiming:      "timing",
	OutputConversions: "conversions",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}

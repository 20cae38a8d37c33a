package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across typeinfer.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"
	FieldOperation = "operation"

	// Conversion
	FieldTag      = "tag"
	FieldValue    = "value"
	FieldPriority = "priority"
	FieldOrder    = "order"

	// Batches
	FieldColumn     = "column"
	FieldColumns    = "columns"
	FieldRows       = "rows"
	FieldLimit      = "limit"
	FieldSampleSize = "sample_size"
	FieldReportID   = "report_id"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Files and sources
	FieldFile   = "file"
	FieldSource = "source"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	engine := conv.NewEngine(registry, logger.ComponentLogger("conv"))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	colLogger := logger.ChildLogger(baseLogger, logger.FieldColumn, name)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}

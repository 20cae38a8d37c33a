// Package profile runs column inference over a delimited table and builds a
// per-column report.
package profile

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/typeinfer/conv"
	"github.com/teranos/typeinfer/errors"
	"github.com/teranos/typeinfer/logger"
	"github.com/teranos/typeinfer/stats"
)

// Table is a source of rows with optional column names.
// Header may only be populated once Rows has started yielding.
type Table interface {
	Rows() iter.Seq[[]string]
	Header() []string
	Err() error
}

// Options configures one profiling pass
type Options struct {
	Source     string // display name of the input
	Limit      int    // rows to scan, <= 0 = all
	SampleSize int    // samples per tag, 0 = counts only, stats.Unbounded = all
}

// Column is the inference result for one column
type Column struct {
	Index    int    `json:"index" yaml:"index" toml:"index"`
	Name     string `json:"name" yaml:"name" toml:"name"`
	Dominant string `json:"dominant" yaml:"dominant" toml:"dominant"`
	// Mixed is set when more than one typed tag was seen
	Mixed   bool          `json:"mixed" yaml:"mixed" toml:"mixed"`
	Summary stats.Summary `json:"summary" yaml:"summary" toml:"summary"`

	types *stats.Types
}

// Types returns the underlying report
func (c Column) Types() *stats.Types {
	return c.types
}

// Report is the result of profiling one table
type Report struct {
	ID          string    `json:"id" yaml:"id" toml:"id"`
	Source      string    `json:"source" yaml:"source" toml:"source"`
	Rows        int       `json:"rows" yaml:"rows" toml:"rows"`
	Limit       int       `json:"limit,omitempty" yaml:"limit,omitempty" toml:"limit,omitempty"`
	SampleSize  int       `json:"sample_size" yaml:"sample_size" toml:"sample_size"`
	Order       []string  `json:"order" yaml:"order" toml:"order"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at" toml:"generated_at"`
	DurationMS  int64     `json:"duration_ms" yaml:"duration_ms" toml:"duration_ms"`
	Columns     []Column  `json:"columns" yaml:"columns" toml:"columns"`
}

// Profiler profiles tables with one engine
type Profiler struct {
	engine *conv.Engine
	logger *zap.SugaredLogger
}

// NewProfiler creates a profiler. A nil logger disables logging.
func NewProfiler(engine *conv.Engine, log *zap.SugaredLogger) *Profiler {
	return &Profiler{
		engine: engine,
		logger: logger.OrNop(log),
	}
}

// Profile infers every column of table. A table without data rows returns
// errors.ErrNoData. Cancelling ctx stops the scan between rows.
func (p *Profiler) Profile(ctx context.Context, table Table, opts Options) (*Report, error) {
	start := time.Now()
	id := uuid.NewString()
	log := p.logger.With(logger.FieldReportID, id)

	var ctxErr error
	rows := func(yield func([]string) bool) {
		for row := range table.Rows() {
			if err := ctx.Err(); err != nil {
				ctxErr = err
				return
			}
			if !yield(row) {
				return
			}
		}
	}

	columns, err := p.engine.InferMatrix(rows,
		conv.WithLimit(opts.Limit),
		conv.WithSampleSize(opts.SampleSize))
	if err != nil {
		return nil, errors.Wrapf(err, "profile %s", opts.Source)
	}
	if ctxErr != nil {
		return nil, errors.Wrap(ctxErr, "profile cancelled")
	}
	if err := table.Err(); err != nil {
		return nil, errors.Wrapf(err, "profile %s", opts.Source)
	}
	if len(columns) == 0 {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrNoData, "profile %s", opts.Source),
			"the table has no data rows; check --no-header and --delimiter")
	}

	report := &Report{
		ID:          id,
		Source:      opts.Source,
		Rows:        columns[0].Total(),
		Limit:       opts.Limit,
		SampleSize:  columns[0].Size(),
		Order:       p.engine.Registry().Order(),
		GeneratedAt: start.UTC(),
		Columns:     make([]Column, len(columns)),
	}

	header := table.Header()
	for i, types := range columns {
		report.Columns[i] = Column{
			Index:    i,
			Name:     columnName(header, i),
			Dominant: Dominant(types),
			Mixed:    typedTags(types) > 1,
			Summary:  types.Summary(),
			types:    types,
		}
	}
	report.DurationMS = time.Since(start).Milliseconds()

	log.Infow("Profiled table",
		logger.FieldSource, opts.Source,
		logger.FieldRows, report.Rows,
		logger.FieldColumns, len(report.Columns),
		logger.FieldDurationMS, report.DurationMS)
	return report, nil
}

// Dominant returns the most common tag, preferring a typed tag over
// stats.Unknown whenever the column has any typed values.
func Dominant(types *stats.Types) string {
	for _, c := range types.MostCommon(0) {
		if c.Tag != stats.Unknown {
			return c.Tag
		}
	}
	if types.Len() > 0 {
		return stats.Unknown
	}
	return ""
}

func typedTags(types *stats.Types) int {
	n := 0
	for _, tag := range types.Tags() {
		if tag != stats.Unknown {
			n++
		}
	}
	return n
}

func columnName(header []string, i int) string {
	if i < len(header) && header[i] != "" {
		return header[i]
	}
	return fmt.Sprintf("column_%d", i+1)
}

// Column returns the column named name
func (r *Report) Column(name string) (Column, bool) {
	for _, c := range r.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Schema maps column names to their dominant tag, in column order
func (r *Report) Schema() []Field {
	fields := make([]Field, len(r.Columns))
	for i, c := range r.Columns {
		fields[i] = Field{Name: c.Name, Tag: c.Dominant}
	}
	return fields
}

// Field is one entry of a Schema
type Field struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Tag  string `json:"tag" yaml:"tag" toml:"tag"`
}

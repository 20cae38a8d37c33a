package conv

import (
	"iter"

	"github.com/teranos/typeinfer/errors"
	"github.com/teranos/typeinfer/logger"
	"github.com/teranos/typeinfer/stats"
)

// DefaultSampleSize is the per-tag sample cap used by the batch drivers.
const DefaultSampleSize = 10

type batchOptions struct {
	limit      int
	sampleSize int
}

// BatchOption configures InferSeries and InferMatrix.
type BatchOption func(*batchOptions)

// WithLimit stops a pass after n values (series) or n rows (matrix).
// n <= 0 means no limit.
func WithLimit(n int) BatchOption {
	return func(o *batchOptions) {
		o.limit = n
	}
}

// WithSampleSize caps the samples kept per tag. Use stats.Unbounded for no cap.
func WithSampleSize(n int) BatchOption {
	return func(o *batchOptions) {
		o.sampleSize = n
	}
}

func newBatchOptions(opts []BatchOption) batchOptions {
	o := batchOptions{sampleSize: DefaultSampleSize}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// reached reports whether processed values have hit the limit.
func (o batchOptions) reached(processed int) bool {
	return o.limit > 0 && processed >= o.limit
}

// InferSeries infers the tag of every value and folds the results into one
// report. Exactly limit values are processed when a limit is set.
// A pass over zero values returns errors.ErrNoData instead of a report.
func (e *Engine) InferSeries(values iter.Seq[string], opts ...BatchOption) (*stats.Types, error) {
	o := newBatchOptions(opts)
	types := stats.New(o.sampleSize)

	processed := 0
	var err error
	for value := range values {
		var tag string
		if tag, err = e.Infer(value); err != nil {
			break
		}
		if err = types.Record(tag, processed, value); err != nil {
			break
		}
		processed++
		if o.reached(processed) {
			break
		}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "infer series at position %d", processed)
	}

	if processed == 0 {
		return nil, errors.ErrNoData
	}
	if err := types.Finalize(processed); err != nil {
		return nil, err
	}

	e.logger.Debugw("Inferred series",
		logger.FieldRows, processed,
		logger.FieldSampleSize, o.sampleSize)
	return types, nil
}

// InferMatrix infers tags column by column. The first row fixes the number
// of columns; each column gets its own report with the row index as
// position. A row wider than the first is rejected with
// errors.ErrInvalidInput; a shorter row only records the columns it has.
// Zero rows yield an empty slice.
func (e *Engine) InferMatrix(rows iter.Seq[[]string], opts ...BatchOption) ([]*stats.Types, error) {
	o := newBatchOptions(opts)
	var columns []*stats.Types

	processed := 0
	var err error
	for row := range rows {
		if processed == 0 {
			columns = make([]*stats.Types, len(row))
			for j := range columns {
				columns[j] = stats.New(o.sampleSize)
			}
		}
		if len(row) > len(columns) {
			err = errors.NewInvalidInputError("row %d has %d columns, expected at most %d", processed, len(row), len(columns))
			break
		}
		if err = e.recordRow(columns, processed, row); err != nil {
			break
		}
		processed++
		if o.reached(processed) {
			break
		}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "infer matrix at row %d", processed)
	}

	for _, col := range columns {
		if err := col.Finalize(processed); err != nil {
			return nil, err
		}
	}
	if columns == nil {
		columns = []*stats.Types{}
	}

	e.logger.Debugw("Inferred matrix",
		logger.FieldRows, processed,
		logger.FieldColumns, len(columns))
	return columns, nil
}

func (e *Engine) recordRow(columns []*stats.Types, position int, row []string) error {
	for j, value := range row {
		tag, err := e.Infer(value)
		if err != nil {
			return errors.Wrapf(err, "column %d", j)
		}
		if err := columns[j].Record(tag, position, value); err != nil {
			return err
		}
	}
	return nil
}

// ConvertSeries lazily converts each value. Iteration ends after the first
// converter defect has been yielded.
func (e *Engine) ConvertSeries(values iter.Seq[string]) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		for value := range values {
			v, err := e.Convert(value)
			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}

// ConvertMatrix lazily converts each row, preserving its shape. Iteration
// ends after the first converter defect has been yielded.
func (e *Engine) ConvertMatrix(rows iter.Seq[[]string]) iter.Seq2[[]any, error] {
	return func(yield func([]any, error) bool) {
		for row := range rows {
			out := make([]any, len(row))
			var err error
			for j, value := range row {
				if out[j], err = e.Convert(value); err != nil {
					err = errors.Wrapf(err, "column %d", j)
					break
				}
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(out, nil) {
				return
			}
		}
	}
}

// Package ingest resolves input tables and streams their rows and values
// into the inference drivers.
package ingest

import (
	"bufio"
	"encoding/csv"
	"io"
	"iter"
	"strings"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/teranos/typeinfer/errors"
	"github.com/teranos/typeinfer/logger"
)

// ReaderOptions configures how a delimited table is read
type ReaderOptions struct {
	Delimiter rune // 0 = ','
	Header    bool // first row names the columns
	Comment   rune // lines starting with this are skipped, 0 = none
	TrimSpace bool // trim leading and trailing whitespace in fields
}

// Reader streams the rows of a delimited table. Rows may be ragged.
type Reader struct {
	csv    *csv.Reader
	opts   ReaderOptions
	header []string
	err    error
}

// NewReader creates a table reader over r
func NewReader(r io.Reader, opts ReaderOptions) *Reader {
	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.Comment = opts.Comment
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false
	return &Reader{csv: cr, opts: opts}
}

// Header returns the column names. It is empty until the first row has been
// read, and always empty without ReaderOptions.Header.
func (r *Reader) Header() []string {
	return r.header
}

// Err returns the first read error. io.EOF is not an error.
func (r *Reader) Err() error {
	return r.err
}

// Rows yields data rows, skipping the header row when configured.
// Iteration stops at the first read error; check Err afterwards.
// A Reader can be iterated once.
func (r *Reader) Rows() iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		for {
			record, err := r.csv.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				r.err = errors.Wrap(err, "failed to read table")
				return
			}

			if r.opts.TrimSpace {
				for i := range record {
					record[i] = strings.TrimSpace(record[i])
				}
			}

			if r.opts.Header && r.header == nil {
				r.header = record
				continue
			}
			if !yield(record) {
				return
			}
		}
	}
}

// ValueReader streams whitespace-separated values from lines of text.
// Quoting follows shell rules so "March 4, 2013" stays one value.
type ValueReader struct {
	scanner *bufio.Scanner
	logger  *zap.SugaredLogger
	err     error
}

// NewValueReader creates a value reader over r
func NewValueReader(r io.Reader, log *zap.SugaredLogger) *ValueReader {
	return &ValueReader{
		scanner: bufio.NewScanner(r),
		logger:  logger.OrNop(log),
	}
}

// Values yields each value of each non-blank line
func (vr *ValueReader) Values() iter.Seq[string] {
	return func(yield func(string) bool) {
		for vr.scanner.Scan() {
			for _, v := range SplitValues(vr.scanner.Text(), vr.logger) {
				if !yield(v) {
					return
				}
			}
		}
		if err := vr.scanner.Err(); err != nil {
			vr.err = errors.Wrap(err, "failed to read values")
		}
	}
}

// Err returns the first read error
func (vr *ValueReader) Err() error {
	return vr.err
}

// SplitValues splits one line into values, respecting shell quoting.
// Unbalanced quotes fall back to a plain whitespace split.
func SplitValues(line string, log *zap.SugaredLogger) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	values, err := shellquote.Split(line)
	if err != nil {
		logger.OrNop(log).Debugw("Quote parsing failed, using simple split",
			logger.FieldValue, line,
			logger.FieldError, err)
		values = strings.Fields(line)
	}
	return values
}

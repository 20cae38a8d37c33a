// Package stats accumulates type-inference results over a batch of values.
//
// A Types report is built in three steps: created fresh for one pass,
// fed one Record per scanned value, then closed with a single Finalize call
// carrying the number of values scanned. After Finalize the report is
// read-only.
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/teranos/typeinfer/errors"
)

// Unknown is the tag recorded for values no converter matched.
const Unknown = "unknown"

// Unbounded disables the sample cap.
const Unbounded = -1

// Sample is one representative value and the position it was seen at.
type Sample struct {
	Position int    `json:"position" yaml:"position" toml:"position"`
	Value    string `json:"value" yaml:"value" toml:"value"`
}

// TypeInfo is the aggregate for one tag: how often it was seen and a
// bounded, duplicate-free sample of the values that produced it.
type TypeInfo struct {
	name   string
	count  int
	total  int
	size   int
	sample []Sample
	seen   map[string]struct{}
}

func newTypeInfo(name string, size, total int) *TypeInfo {
	return &TypeInfo{
		name:  name,
		size:  size,
		total: total,
		seen:  make(map[string]struct{}),
	}
}

// Name returns the tag this aggregate belongs to.
func (ti *TypeInfo) Name() string { return ti.name }

// Count returns how many values produced this tag.
func (ti *TypeInfo) Count() int { return ti.count }

// Total returns the number of values in the pass, or 0 before finalization.
func (ti *TypeInfo) Total() int { return ti.total }

// Size returns the sample cap (Unbounded for none).
func (ti *TypeInfo) Size() int { return ti.size }

// Sample returns a copy of the retained samples in first-seen order.
func (ti *TypeInfo) Sample() []Sample {
	out := make([]Sample, len(ti.sample))
	copy(out, ti.sample)
	return out
}

// Frequency returns count/total, or 0 when total is unset.
func (ti *TypeInfo) Frequency() float64 {
	if ti.total <= 0 {
		return 0
	}
	return float64(ti.count) / float64(ti.total)
}

func (ti *TypeInfo) String() string {
	return fmt.Sprintf("<TypeInfo: %s n=%d>", ti.name, ti.count)
}

func (ti *TypeInfo) incr() {
	ti.count++
}

// offer keeps value unless the cap is reached or the value was kept before.
func (ti *TypeInfo) offer(position int, value string) {
	if ti.size != Unbounded && len(ti.sample) >= ti.size {
		return
	}
	if _, dup := ti.seen[value]; dup {
		return
	}
	ti.seen[value] = struct{}{}
	ti.sample = append(ti.sample, Sample{Position: position, Value: value})
}

// TagCount pairs a tag with its count, as returned by MostCommon.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Types maps tags to their TypeInfo for one pass over a series or column.
// Tags keep the order in which they were first seen.
type Types struct {
	size      int
	total     int
	finalized bool
	order     []string
	types     map[string]*TypeInfo
}

// New creates an empty report whose TypeInfos cap their samples at size.
// A negative size means Unbounded.
func New(size int) *Types {
	if size < 0 {
		size = Unbounded
	}
	return &Types{
		size:  size,
		types: make(map[string]*TypeInfo),
	}
}

// Record counts one value under tag and offers it to that tag's sample.
// An empty tag is recorded as Unknown.
func (t *Types) Record(tag string, position int, value string) error {
	if t.finalized {
		return errors.Wrapf(errors.ErrFinalized, "record %q after total was set", tag)
	}
	if tag == "" {
		tag = Unknown
	}

	info, ok := t.types[tag]
	if !ok {
		info = newTypeInfo(tag, t.size, t.total)
		t.types[tag] = info
		t.order = append(t.order, tag)
	}
	info.incr()
	info.offer(position, value)
	return nil
}

// Finalize sets the pass total on the report and every TypeInfo.
// It may be called once.
func (t *Types) Finalize(total int) error {
	if t.finalized {
		return errors.Wrap(errors.ErrFinalized, "finalize")
	}
	if total < 0 {
		return errors.NewInvalidInputError("total must be >= 0, got %d", total)
	}
	t.total = total
	for _, info := range t.types {
		info.total = total
	}
	t.finalized = true
	return nil
}

// Finalized reports whether Finalize has been called.
func (t *Types) Finalized() bool { return t.finalized }

// Total returns the number of values in the pass, or 0 before finalization.
func (t *Types) Total() int { return t.total }

// Size returns the shared sample cap.
func (t *Types) Size() int { return t.size }

// Len returns the number of distinct tags seen.
func (t *Types) Len() int { return len(t.order) }

// Get returns the aggregate for tag.
func (t *Types) Get(tag string) (*TypeInfo, bool) {
	if tag == "" {
		tag = Unknown
	}
	info, ok := t.types[tag]
	return info, ok
}

// Tags returns the tags in first-seen order.
func (t *Types) Tags() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// MostCommon returns tags by descending count. Ties keep first-seen order.
// n <= 0 returns every tag.
func (t *Types) MostCommon(n int) []TagCount {
	counts := make([]TagCount, 0, len(t.order))
	for _, tag := range t.order {
		counts = append(counts, TagCount{Tag: tag, Count: t.types[tag].count})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if n > 0 && n < len(counts) {
		counts = counts[:n]
	}
	return counts
}

func (t *Types) String() string {
	common := t.MostCommon(0)
	parts := make([]string, 0, len(common))
	for _, c := range common {
		parts = append(parts, fmt.Sprintf("%s=%d", c.Tag, c.Count))
	}
	return fmt.Sprintf("<Types: %s>", strings.Join(parts, ", "))
}

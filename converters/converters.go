// Package converters provides the built-in converters and the default
// try-order used by the typeinfer CLI.
//
// Tags and the Go types they produce:
//
//	int       int64
//	float     float64
//	bool      bool
//	time      civil.Time
//	datetime  civil.DateTime
//	date      civil.Date
package converters

import (
	"reflect"
	"sync"

	"cloud.google.com/go/civil"

	"go.uber.org/zap"

	"github.com/teranos/typeinfer/conv"
	"github.com/teranos/typeinfer/errors"
)

// Built-in tags.
const (
	TagInt      = "int"
	TagFloat    = "float"
	TagBool     = "bool"
	TagTime     = "time"
	TagDateTime = "datetime"
	TagDate     = "date"
)

// DefaultOrder is the built-in try-order. Narrow types come first so "1"
// is an int rather than a float and a date-time is not claimed by date.
var DefaultOrder = []string{TagInt, TagFloat, TagBool, TagTime, TagDateTime, TagDate}

// GoTypes maps each built-in tag to the type of the values it produces.
var GoTypes = map[string]reflect.Type{
	TagInt:      reflect.TypeOf(int64(0)),
	TagFloat:    reflect.TypeOf(float64(0)),
	TagBool:     reflect.TypeOf(false),
	TagTime:     reflect.TypeOf(civil.Time{}),
	TagDateTime: reflect.TypeOf(civil.DateTime{}),
	TagDate:     reflect.TypeOf(civil.Date{}),
}

// Options configures the built-in table.
type Options struct {
	DateLayouts   []string
	TimeLayouts   []string
	Separators    []string
	GeneralParser bool
	TrueWords     []string
	FalseWords    []string
	// Order lists the tags to register, first tried first.
	Order []string
}

// DefaultOptions returns the built-in configuration.
func DefaultOptions() Options {
	return Options{
		DateLayouts:   clone(DefaultDateLayouts),
		TimeLayouts:   clone(DefaultTimeLayouts),
		Separators:    clone(DefaultSeparators),
		GeneralParser: true,
		TrueWords:     clone(DefaultTrueWords),
		FalseWords:    clone(DefaultFalseWords),
		Order:         clone(DefaultOrder),
	}
}

// Table builds every built-in converter for opts, keyed by tag.
func Table(opts Options) map[string]conv.Converter {
	dates := DateOptions{
		DateLayouts:   opts.DateLayouts,
		TimeLayouts:   opts.TimeLayouts,
		Separators:    opts.Separators,
		GeneralParser: opts.GeneralParser,
	}
	return map[string]conv.Converter{
		TagInt:      Int,
		TagFloat:    Float,
		TagBool:     Bool(opts.TrueWords, opts.FalseWords),
		TagTime:     Time(opts.TimeLayouts),
		TagDateTime: DateTime(dates),
		TagDate:     Date(dates),
	}
}

// IsBuiltin reports whether tag names a built-in converter.
func IsBuiltin(tag string) bool {
	for _, t := range DefaultOrder {
		if t == tag {
			return true
		}
	}
	return false
}

// NewRegistry registers the converters named in opts.Order. An empty order
// uses DefaultOrder.
func NewRegistry(opts Options) (*conv.Registry, error) {
	order := opts.Order
	if len(order) == 0 {
		order = DefaultOrder
	}

	table := Table(opts)
	reg := &conv.Registry{}
	for _, tag := range order {
		c, ok := table[tag]
		if !ok {
			return nil, errors.WithHintf(
				errors.NewInvalidConfigError("unknown converter %q in order", tag),
				"built-in converters are %v", DefaultOrder)
		}
		if reg.Has(tag) {
			return nil, errors.NewInvalidConfigError("converter %q listed twice in order", tag)
		}
		if err := reg.Register(tag, c); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// NewEngine builds an engine over a fresh registry for opts.
func NewEngine(opts Options, log *zap.SugaredLogger) (*conv.Engine, error) {
	reg, err := NewRegistry(opts)
	if err != nil {
		return nil, err
	}
	return conv.NewEngine(reg, log), nil
}

var (
	defaultOnce   sync.Once
	defaultEngine *conv.Engine
)

// Default returns a process-wide engine with the built-in options.
// Callers that mutate its registry affect every other caller.
func Default() *conv.Engine {
	defaultOnce.Do(func() {
		reg, err := NewRegistry(DefaultOptions())
		if err != nil {
			panic(err)
		}
		defaultEngine = conv.NewEngine(reg, nil)
	})
	return defaultEngine
}

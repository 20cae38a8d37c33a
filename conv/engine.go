// Package conv converts strings to typed values by trying an ordered set of
// converters, and infers the type tag of a value from the first converter
// that accepts it.
//
// Example:
//
//	reg := conv.MustNewRegistry(
//	    conv.Entry{Name: "int", Converter: converters.Int},
//	    conv.Entry{Name: "bool", Converter: converters.Bool},
//	)
//	engine := conv.NewEngine(reg, nil)
//	v, _ := engine.Convert("-3") // int64(-3)
//
// Batch drivers (InferSeries, InferMatrix) fold inferred tags into
// stats.Types reports.
package conv

import (
	"go.uber.org/zap"

	"github.com/teranos/typeinfer/errors"
	"github.com/teranos/typeinfer/logger"
)

// Conversion is a converted value together with the tag that produced it.
// Tag is empty when no converter matched and Value is the original input.
type Conversion struct {
	Value any
	Tag   string
}

// Matched reports whether a converter accepted the value.
func (c Conversion) Matched() bool {
	return c.Tag != ""
}

// Engine tries the converters of one Registry in order.
type Engine struct {
	registry *Registry
	logger   *zap.SugaredLogger
}

// NewEngine creates an engine over registry. A nil logger disables logging.
func NewEngine(registry *Registry, log *zap.SugaredLogger) *Engine {
	if registry == nil {
		registry = &Registry{}
	}
	return &Engine{
		registry: registry,
		logger:   logger.OrNop(log),
	}
}

// Registry returns the registry the engine reads from.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Convert returns the first successful conversion of value, or value
// unchanged when it is not a string or no converter accepts it.
func (e *Engine) Convert(value any) (any, error) {
	c, err := e.ConvertWithTag(value)
	if err != nil {
		return nil, err
	}
	return c.Value, nil
}

// ConvertWithTag is Convert that also reports which tag matched.
// A converter defect stops the walk and is returned as an error marked
// errors.ErrConverterDefect.
func (e *Engine) ConvertWithTag(value any) (Conversion, error) {
	s, ok := value.(string)
	if !ok {
		return Conversion{Value: value}, nil
	}

	for _, entry := range e.registry.Entries() {
		res := entry.Converter(s)
		switch res.Outcome {
		case OutcomeConverted:
			return Conversion{Value: res.Value, Tag: entry.Name}, nil
		case OutcomeMiss:
			continue
		case OutcomeDefect:
			e.logger.Debugw("Converter defect",
				logger.FieldTag, entry.Name,
				logger.FieldValue, s,
				logger.FieldError, res.Err)
			return Conversion{}, errors.WrapDefect(res.Err, entry.Name)
		default:
			return Conversion{}, errors.AssertionFailedf("converter %q returned unknown outcome %d", entry.Name, res.Outcome)
		}
	}

	return Conversion{Value: s}, nil
}

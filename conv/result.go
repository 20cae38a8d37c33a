package conv

import (
	"github.com/teranos/typeinfer/errors"
)

// Outcome discriminates the three ways a converter can finish.
type Outcome int

const (
	// OutcomeMiss means the value is not of the converter's type.
	// The engine moves on to the next candidate.
	OutcomeMiss Outcome = iota
	// OutcomeConverted means the converter produced a typed value.
	OutcomeConverted
	// OutcomeDefect means the converter itself failed. The engine stops.
	OutcomeDefect
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConverted:
		return "converted"
	case OutcomeDefect:
		return "defect"
	default:
		return "miss"
	}
}

// Result is what a Converter returns for one input string.
type Result struct {
	Outcome Outcome
	Value   any
	Err     error
}

// Converted wraps a successfully converted value.
func Converted(v any) Result {
	return Result{Outcome: OutcomeConverted, Value: v}
}

// Miss signals "this value is not of my type".
func Miss() Result {
	return Result{Outcome: OutcomeMiss}
}

// Defect signals a converter failure unrelated to the input's type.
func Defect(err error) Result {
	if err == nil {
		err = errors.New("converter reported a defect without an error")
	}
	return Result{Outcome: OutcomeDefect, Err: err}
}

// Converter attempts to turn a string into one specific typed value.
type Converter func(s string) Result

// ErrNoMatch is returned by functions adapted with Func to signal a miss.
var ErrNoMatch = errors.New("value does not match converter type")

// Func adapts a conventional (value, error) parse function into a Converter.
// Errors matching ErrNoMatch become misses; any other error is a defect.
func Func(fn func(s string) (any, error)) Converter {
	if fn == nil {
		return nil
	}
	return func(s string) Result {
		v, err := fn(s)
		switch {
		case err == nil:
			return Converted(v)
		case errors.Is(err, ErrNoMatch):
			return Miss()
		default:
			return Defect(err)
		}
	}
}

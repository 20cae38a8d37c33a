package converters

import (
	"strconv"
	"strings"

	"github.com/teranos/typeinfer/conv"
	"github.com/teranos/typeinfer/errors"
)

// Int converts base-10 integers with an optional sign. Surrounding
// whitespace is ignored. Values outside int64 are a miss.
func Int(s string) conv.Result {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return conv.Miss()
	}
	return conv.Converted(v)
}

// Float converts decimal and exponent notation, plus inf and nan.
// Surrounding whitespace is ignored. Hex floats are a miss; values too large
// for float64 convert to signed infinity.
func Float(s string) conv.Result {
	s = strings.TrimSpace(s)
	if isHex(s) {
		return conv.Miss()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return conv.Converted(v)
		}
		return conv.Miss()
	}
	return conv.Converted(v)
}

func isHex(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// DefaultTrueWords and DefaultFalseWords are matched case-insensitively.
var (
	DefaultTrueWords  = []string{"t", "true", "yes"}
	DefaultFalseWords = []string{"f", "false", "no"}
)

// Bool returns a converter matching the given words case-insensitively.
// The whole value must be one word.
func Bool(trueWords, falseWords []string) conv.Converter {
	words := make(map[string]bool, len(trueWords)+len(falseWords))
	for _, w := range falseWords {
		words[strings.ToLower(w)] = false
	}
	// true wins when a word is in both lists
	for _, w := range trueWords {
		words[strings.ToLower(w)] = true
	}

	return func(s string) conv.Result {
		v, ok := words[strings.ToLower(s)]
		if !ok || s == "" {
			return conv.Miss()
		}
		return conv.Converted(v)
	}
}

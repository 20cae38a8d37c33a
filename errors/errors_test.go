package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKeepsCause(t *testing.T) {
	original := New("original")
	wrapped := Wrapf(original, "wrapped: %d", 42)

	assert.Contains(t, wrapped.Error(), "wrapped: 42")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestSentinelHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"not found", NewNotFoundError("no converter for type %q", "uuid"), IsNotFoundError, true},
		{"wrapped not found", Wrap(NewNotFoundError("missing"), "lookup"), IsNotFoundError, true},
		{"invalid config", NewInvalidConfigError("type name cannot be empty"), IsInvalidConfigError, true},
		{"invalid config is not not-found", NewInvalidConfigError("bad"), IsNotFoundError, false},
		{"no data", Wrap(ErrNoData, "infer series"), IsNoData, true},
		{"defect", WrapDefect(New("boom"), "int"), IsConverterDefect, true},
		{"nil", nil, IsNotFoundError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}
}

func TestMarkedMessageIsUnchanged(t *testing.T) {
	err := NewNotFoundError("no converter for type %q", "uuid")
	assert.Equal(t, `no converter for type "uuid"`, err.Error())
}

type parseFailure struct {
	input string
}

func (e *parseFailure) Error() string {
	return "cannot parse " + e.input
}

func TestWrapDefectKeepsOriginal(t *testing.T) {
	original := &parseFailure{input: "x"}
	err := WrapDefect(original, "date")

	assert.Contains(t, err.Error(), `converter "date"`)
	assert.Contains(t, err.Error(), "cannot parse x")

	var target *parseFailure
	require.True(t, As(err, &target))
	assert.Equal(t, "x", target.input)
	assert.True(t, Is(err, ErrConverterDefect))
}

func TestWithHint(t *testing.T) {
	err := WithHintf(ErrNoData, "input had %d rows", 0)

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "input had 0 rows", hints[0])
	assert.True(t, Is(err, ErrNoData))
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithStack(nil))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, WithDetail(nil, "detail"))
}

func ExampleWrap() {
	err := Wrap(ErrNoData, "infer series")
	fmt.Println(err)
	// Output: infer series: no data
}

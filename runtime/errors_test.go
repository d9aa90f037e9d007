package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorStringIncludesPositionWhenKnown(t *testing.T) {
	err := NewTypeError("not callable", 3, 7)
	require.Equal(t, "TypeError at 3:7: not callable", err.Error())
}

func TestErrorStringOmitsPositionWhenZero(t *testing.T) {
	err := NewInternalError("stack underflow", 0, 0)
	require.Equal(t, "InternalError: stack underflow", err.Error())
}

func TestErrorIsNilSafe(t *testing.T) {
	var err *Error
	require.Equal(t, "Error: unknown", err.Error())
}

func TestErrorKindConstructors(t *testing.T) {
	cases := []struct {
		kind ErrorKind
		err  *Error
	}{
		{SyntaxErrorKind, NewSyntaxError("m", 0, 0)},
		{ReferenceErrorKind, NewReferenceError("m", 0, 0)},
		{TypeErrorKind, NewTypeError("m", 0, 0)},
		{RangeErrorKind, NewRangeError("m", 0, 0)},
		{InternalErrorKind, NewInternalError("m", 0, 0)},
	}
	for _, c := range cases {
		require.Equal(t, c.kind, c.err.Kind)
	}
}

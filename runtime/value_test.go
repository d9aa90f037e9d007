package runtime

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToStringVariants(t *testing.T) {
	require.Equal(t, "undefined", ToString(Undefined{}))
	require.Equal(t, "null", ToString(Null{}))
	require.Equal(t, "true", ToString(Boolean(true)))
	require.Equal(t, "false", ToString(Boolean(false)))
	require.Equal(t, "NaN", ToString(Number(math.NaN())))
	require.Equal(t, "Infinity", ToString(Number(math.Inf(1))))
	require.Equal(t, "-Infinity", ToString(Number(math.Inf(-1))))
	require.Equal(t, "3", ToString(Number(3)))
	require.Equal(t, "hello", ToString(String("hello")))
	require.Equal(t, "[object Object]", ToString(NewObject()))
	require.Equal(t, "[function]", ToString(&Function{}))
}

func TestToNumberVariants(t *testing.T) {
	require.True(t, math.IsNaN(ToNumber(Undefined{})))
	require.Equal(t, 0.0, ToNumber(Null{}))
	require.Equal(t, 1.0, ToNumber(Boolean(true)))
	require.Equal(t, 0.0, ToNumber(Boolean(false)))
	require.Equal(t, 0.0, ToNumber(String("")))
	require.Equal(t, 0.0, ToNumber(String("   ")))
	require.True(t, math.IsNaN(ToNumber(String("abc"))))
	require.Equal(t, 42.0, ToNumber(String(" 42 ")))
	require.True(t, math.IsNaN(ToNumber(NewObject())))
}

func TestToBooleanFalsySet(t *testing.T) {
	falsy := []Value{Undefined{}, Null{}, Boolean(false), Number(0), Number(math.NaN()), String("")}
	for _, v := range falsy {
		require.False(t, ToBoolean(v), "%#v should be falsy", v)
	}
	truthy := []Value{Boolean(true), Number(1), Number(-1), String("0"), NewObject(), &Function{}}
	for _, v := range truthy {
		require.True(t, ToBoolean(v), "%#v should be truthy", v)
	}
}

func TestTypeOf(t *testing.T) {
	require.Equal(t, "undefined", TypeOf(Undefined{}))
	require.Equal(t, "object", TypeOf(Null{}))
	require.Equal(t, "boolean", TypeOf(Boolean(true)))
	require.Equal(t, "number", TypeOf(Number(1)))
	require.Equal(t, "string", TypeOf(String("s")))
	require.Equal(t, "object", TypeOf(NewObject()))
	require.Equal(t, "function", TypeOf(&Function{}))
}

func TestStrictEquals(t *testing.T) {
	require.False(t, StrictEquals(Number(math.NaN()), Number(math.NaN())))
	require.True(t, StrictEquals(Number(0), Number(math.Copysign(0, -1))))
	require.True(t, StrictEquals(String("a"), String("a")))
	require.False(t, StrictEquals(Number(5), String("5")))

	o := NewObject()
	require.True(t, StrictEquals(o, o))
	require.False(t, StrictEquals(o, NewObject()))
}

func TestAbstractEquals(t *testing.T) {
	require.True(t, AbstractEquals(Null{}, Undefined{}))
	require.True(t, AbstractEquals(Number(5), String("5")))
	require.True(t, AbstractEquals(String("5"), Number(5)))
	require.True(t, AbstractEquals(Boolean(true), Number(1)))
	require.False(t, AbstractEquals(NewObject(), Number(1)))
}

func TestObjectPropertyWritableAndConfigurable(t *testing.T) {
	o := NewObject()
	o.Properties["ro"] = &PropertyDescriptor{Value: Number(1), Writable: false, Configurable: false}

	ok := o.SetProperty("ro", Number(2))
	require.False(t, ok)
	require.Equal(t, Number(1), o.GetProperty("ro"))

	require.False(t, o.Delete("ro"))
	require.True(t, o.HasOwnProperty("ro"))
}

func TestObjectPrototypeChainLookup(t *testing.T) {
	proto := NewObject()
	proto.SetProperty("greeting", String("hi"))
	child := NewObject()
	child.Prototype = proto

	require.Equal(t, String("hi"), child.GetProperty("greeting"))
	require.False(t, child.HasOwnProperty("greeting"))
}

func TestToInt32AndBitwiseConversion(t *testing.T) {
	require.Equal(t, int32(0), ToInt32(Undefined{}))
	require.Equal(t, int32(5), ToInt32(Number(5)))
	require.Equal(t, int32(-1), ToInt32(Number(4294967295)))
}

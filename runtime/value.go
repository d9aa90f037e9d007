// Package runtime implements the value algebra, environment chain,
// bytecode chunk, compiler and virtual machine.
package runtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is the tagged union of runtime values: Undefined, Null,
// Boolean, Number, String are plain Go value types copied by
// assignment; *Object and *Function are pointers shared by reference.
// Cloning is identity for all variants — Go's own copy semantics
// already give the shallow-clone behavior a caller would want, so
// there is no separate Clone method to implement.
type Value interface {
	value()
}

type Undefined struct{}
type Null struct{}
type Boolean bool
type Number float64
type String string

func (Undefined) value() {}
func (Null) value()      {}
func (Boolean) value()   {}
func (Number) value()    {}
func (String) value()    {}

// PropertyDescriptor is the payload of one Object record entry.
type PropertyDescriptor struct {
	Value        Value
	Writable     bool
	Enumerable   bool
	Configurable bool
}

// Object is a shared, mutable reference type: identity is pointer
// identity, and property lookup walks the Prototype chain.
type Object struct {
	Properties map[string]*PropertyDescriptor
	Prototype  *Object
}

func (*Object) value() {}

func NewObject() *Object {
	return &Object{Properties: make(map[string]*PropertyDescriptor)}
}

// GetProperty walks the prototype chain, returning Undefined if the
// key is absent anywhere on the chain.
func (o *Object) GetProperty(key string) Value {
	for cur := o; cur != nil; cur = cur.Prototype {
		if desc, ok := cur.Properties[key]; ok {
			return desc.Value
		}
	}
	return Undefined{}
}

// SetProperty assigns on the receiver only (never on the prototype
// chain). A read-only own property rejects the write and reports
// failure; the caller may ignore the result.
func (o *Object) SetProperty(key string, v Value) bool {
	if desc, ok := o.Properties[key]; ok {
		if !desc.Writable {
			return false
		}
		desc.Value = v
		return true
	}
	o.Properties[key] = &PropertyDescriptor{Value: v, Writable: true, Enumerable: true, Configurable: true}
	return true
}

func (o *Object) HasOwnProperty(key string) bool {
	_, ok := o.Properties[key]
	return ok
}

// Delete removes an own property; refuses non-configurable ones.
func (o *Object) Delete(key string) bool {
	desc, ok := o.Properties[key]
	if !ok {
		return true
	}
	if !desc.Configurable {
		return false
	}
	delete(o.Properties, key)
	return true
}

// Function is the callable variant: a chunk, its formal parameter
// names, and an optional captured environment. Env is nil for the
// constant-pool value a CreateFunction opcode reads from; at
// CreateFunction-execution time the VM pushes a copy (see withEnv)
// whose Env is whatever environment happens to be current, which is
// what makes two evaluations of the same function literal into
// distinct closures.
type Function struct {
	Chunk  *Chunk
	Params []string
	Env    *Environment
}

func (*Function) value() {}

// withEnv returns a new Function sharing Chunk/Params but bound to
// env — used by CreateFunction to capture the running environment
// without mutating the shared constant-pool value.
func (f *Function) withEnv(env *Environment) *Function {
	return &Function{Chunk: f.Chunk, Params: f.Params, Env: env}
}

// ToString is the ToString coercion: renders any value as its string form.
func ToString(v Value) string {
	switch x := v.(type) {
	case Undefined:
		return "undefined"
	case Null:
		return "null"
	case Boolean:
		if x {
			return "true"
		}
		return "false"
	case Number:
		return numberToString(float64(x))
	case String:
		return string(x)
	case *Object:
		return "[object Object]"
	case *Function:
		return "[function]"
	default:
		return "undefined"
	}
}

func numberToString(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

// ToNumber is the ToNumber coercion: parses strings, widens booleans.
func ToNumber(v Value) float64 {
	switch x := v.(type) {
	case Undefined:
		return math.NaN()
	case Null:
		return 0
	case Boolean:
		if x {
			return 1
		}
		return 0
	case Number:
		return float64(x)
	case String:
		trimmed := strings.TrimSpace(string(x))
		if trimmed == "" {
			return 0
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case *Object, *Function:
		return math.NaN()
	default:
		return math.NaN()
	}
}

// ToBoolean is the ToBoolean coercion: undefined, null, false, 0, NaN
// and "" are falsy, everything else is truthy.
func ToBoolean(v Value) bool {
	switch x := v.(type) {
	case Undefined:
		return false
	case Null:
		return false
	case Boolean:
		return bool(x)
	case Number:
		f := float64(x)
		return f != 0 && !math.IsNaN(f)
	case String:
		return x != ""
	default:
		return true
	}
}

// TypeOf reports a value's runtime type name, including the
// historical Null -> "object" quirk.
func TypeOf(v Value) string {
	switch v.(type) {
	case Undefined:
		return "undefined"
	case Null:
		return "object"
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case *Object:
		return "object"
	case *Function:
		return "function"
	default:
		return "undefined"
	}
}

// StrictEquals compares same-variant only: reference identity for
// Object/Function, IEEE equality for Number (so NaN !== NaN and
// +0 === -0 fall straight out of Go's == on float64).
func StrictEquals(a, b Value) bool {
	switch x := a.(type) {
	case Undefined:
		_, ok := b.(Undefined)
		return ok
	case Null:
		_, ok := b.(Null)
		return ok
	case Boolean:
		y, ok := b.(Boolean)
		return ok && x == y
	case Number:
		y, ok := b.(Number)
		return ok && float64(x) == float64(y)
	case String:
		y, ok := b.(String)
		return ok && x == y
	case *Object:
		y, ok := b.(*Object)
		return ok && x == y
	case *Function:
		y, ok := b.(*Function)
		return ok && x == y
	default:
		return false
	}
}

// AbstractEquals is the coercing `==` comparison.
func AbstractEquals(a, b Value) bool {
	_, aUndef := a.(Undefined)
	_, aNull := a.(Null)
	_, bUndef := b.(Undefined)
	_, bNull := b.(Null)
	if (aUndef || aNull) && (bUndef || bNull) {
		return true
	}

	aBool, aIsBool := a.(Boolean)
	bBool, bIsBool := b.(Boolean)
	if aIsBool {
		return AbstractEquals(Number(boolToFloat(bool(aBool))), b)
	}
	if bIsBool {
		return AbstractEquals(a, Number(boolToFloat(bool(bBool))))
	}

	_, aIsNum := a.(Number)
	_, aIsStr := a.(String)
	_, bIsNum := b.(Number)
	_, bIsStr := b.(String)
	if aIsNum && bIsStr {
		return AbstractEquals(a, Number(ToNumber(b)))
	}
	if aIsStr && bIsNum {
		return AbstractEquals(Number(ToNumber(a)), b)
	}

	return StrictEquals(a, b)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// ToInt32 / ToUint32 back the bitwise operators.
func ToInt32(v Value) int32 {
	f := ToNumber(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(uint32(int64(f)))
}

func ToUint32(v Value) uint32 {
	f := ToNumber(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return uint32(int64(f))
}

// valueString is a debug-only rendering used by Chunk.Disassemble;
// unlike ToString it never loses the variant's shape.
func valueString(v Value) string {
	switch x := v.(type) {
	case String:
		return fmt.Sprintf("%q", string(x))
	default:
		return ToString(v)
	}
}

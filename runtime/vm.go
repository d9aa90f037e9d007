package runtime

import (
	"math"
	"strconv"
)

// TraceFunc observes one instruction about to execute, for debugging.
type TraceFunc func(pc int, instr Instruction, stack []Value)

// Option configures a VM at construction time, in the usual
// functional-options style.
type Option func(*VM)

func WithTrace(fn TraceFunc) Option {
	return func(vm *VM) { vm.trace = fn }
}

// WithMaxCallDepth bounds recursive CallFunction nesting. Zero (the
// default) leaves recursion unbounded, deferring overflow to the
// host's own call stack; a positive value turns an excess call into a
// RangeError instead.
func WithMaxCallDepth(n int) Option {
	return func(vm *VM) { vm.maxCallDepth = n }
}

// VM is the stack-machine interpreter. Frames are not an explicit
// stack of structs: CallFunction recurses into Execute itself, saving
// and swapping the operand stack and environment around the recursive
// call and restoring them on the way back out, so a callee's stack
// residue has no path into the caller's frame.
type VM struct {
	stack        []Value
	env          *Environment
	trace        TraceFunc
	maxCallDepth int
	callDepth    int
}

func New(global *Environment, opts ...Option) *VM {
	vm := &VM{env: global}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

func (vm *VM) push(v Value) {
	vm.stack = append(vm.stack, v)
}

func (vm *VM) pop() (Value, *Error) {
	if len(vm.stack) == 0 {
		return nil, NewInternalError("stack underflow", 0, 0)
	}
	top := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return top, nil
}

// Execute runs chunk to completion against the VM's current
// environment and a fresh program counter, returning the value of
// Return or, on fall-through, the top of the stack (Undefined if
// empty).
func (vm *VM) Execute(chunk *Chunk) (Value, *Error) {
	pc := 0
	for pc < len(chunk.Instructions) {
		instr := chunk.Instructions[pc]
		if vm.trace != nil {
			vm.trace(pc, instr, vm.stack)
		}
		pc++

		switch instr.Op {
		case OpLoadConst:
			if instr.Operand < 0 || instr.Operand >= len(chunk.Constants) {
				return nil, NewInternalError("constant index out of range", instr.Line, 0)
			}
			vm.push(chunk.Constants[instr.Operand])

		case OpLoadVar:
			if v, ok := vm.env.Get(instr.Name); ok {
				vm.push(v)
			} else {
				vm.push(Undefined{})
			}

		case OpStoreVar:
			v, err := vm.pop()
			if err != nil {
				return nil, err
			}
			if !vm.env.Set(instr.Name, v) {
				vm.env.Define(instr.Name, v)
			}

		case OpPop:
			if _, err := vm.pop(); err != nil {
				return nil, err
			}

		case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpPower:
			if err := vm.execArith(instr.Op); err != nil {
				return nil, err
			}

		case OpNeg:
			a, err := vm.pop()
			if err != nil {
				return nil, err
			}
			vm.push(Number(-ToNumber(a)))

		case OpNot:
			a, err := vm.pop()
			if err != nil {
				return nil, err
			}
			vm.push(Boolean(!ToBoolean(a)))

		case OpBitNot:
			a, err := vm.pop()
			if err != nil {
				return nil, err
			}
			vm.push(Number(float64(^ToInt32(a))))

		case OpTypeof:
			a, err := vm.pop()
			if err != nil {
				return nil, err
			}
			vm.push(String(TypeOf(a)))

		case OpVoid:
			if _, err := vm.pop(); err != nil {
				return nil, err
			}
			vm.push(Undefined{})

		case OpEq, OpNotEq, OpStrictEq, OpStrictNotEq, OpLt, OpGt, OpLtEq, OpGtEq:
			if err := vm.execCompare(instr.Op); err != nil {
				return nil, err
			}

		case OpAnd:
			b, err := vm.pop()
			if err != nil {
				return nil, err
			}
			a, err := vm.pop()
			if err != nil {
				return nil, err
			}
			if !ToBoolean(a) {
				vm.push(a)
			} else {
				vm.push(b)
			}

		case OpOr:
			b, err := vm.pop()
			if err != nil {
				return nil, err
			}
			a, err := vm.pop()
			if err != nil {
				return nil, err
			}
			if ToBoolean(a) {
				vm.push(a)
			} else {
				vm.push(b)
			}

		case OpBitAnd, OpBitOr, OpBitXor, OpLeftShift, OpRightShift, OpUnsignedRightShift:
			if err := vm.execBitwise(instr.Op); err != nil {
				return nil, err
			}

		case OpJump:
			pc = instr.Operand

		case OpJumpIfFalse:
			v, err := vm.pop()
			if err != nil {
				return nil, err
			}
			if !ToBoolean(v) {
				pc = instr.Operand
			}

		case OpReturn:
			return vm.pop()

		case OpNewArray:
			vm.push(NewObject())

		case OpNewObject:
			vm.push(NewObject())

		case OpGetProperty:
			key, err := vm.pop()
			if err != nil {
				return nil, err
			}
			recv, err := vm.pop()
			if err != nil {
				return nil, err
			}
			obj, ok := recv.(*Object)
			if !ok {
				vm.push(Undefined{})
				continue
			}
			vm.push(obj.GetProperty(ToString(key)))

		case OpSetProperty:
			val, err := vm.pop()
			if err != nil {
				return nil, err
			}
			key, err := vm.pop()
			if err != nil {
				return nil, err
			}
			recv, err := vm.pop()
			if err != nil {
				return nil, err
			}
			obj, ok := recv.(*Object)
			if !ok {
				return nil, NewTypeError("cannot set property on non-object", instr.Line, 0)
			}
			obj.SetProperty(ToString(key), val)
			vm.push(recv)

		case OpArrayPush:
			idx, err := vm.pop()
			if err != nil {
				return nil, err
			}
			val, err := vm.pop()
			if err != nil {
				return nil, err
			}
			if len(vm.stack) == 0 {
				return nil, NewInternalError("stack underflow", instr.Line, 0)
			}
			recv := vm.stack[len(vm.stack)-1]
			obj, ok := recv.(*Object)
			if !ok {
				return nil, NewTypeError("array literal receiver is not an object", instr.Line, 0)
			}
			obj.SetProperty(ToString(idx), val)
			obj.SetProperty("length", Number(arrayLength(obj)))

		case OpObjectSetProperty:
			key, err := vm.pop()
			if err != nil {
				return nil, err
			}
			val, err := vm.pop()
			if err != nil {
				return nil, err
			}
			if len(vm.stack) == 0 {
				return nil, NewInternalError("stack underflow", instr.Line, 0)
			}
			recv := vm.stack[len(vm.stack)-1]
			obj, ok := recv.(*Object)
			if !ok {
				return nil, NewTypeError("object literal receiver is not an object", instr.Line, 0)
			}
			obj.SetProperty(ToString(key), val)

		case OpCreateFunction:
			if instr.Operand < 0 || instr.Operand >= len(chunk.Constants) {
				return nil, NewInternalError("constant index out of range", instr.Line, 0)
			}
			fnConst, ok := chunk.Constants[instr.Operand].(*Function)
			if !ok {
				return nil, NewTypeError("CreateFunction constant is not a function", instr.Line, 0)
			}
			vm.push(fnConst.withEnv(vm.env))

		case OpCallFunction:
			result, err := vm.execCall(instr)
			if err != nil {
				return nil, err
			}
			vm.push(result)

		default:
			return nil, NewInternalError("unknown opcode", instr.Line, 0)
		}
	}

	if len(vm.stack) == 0 {
		return Undefined{}, nil
	}
	return vm.pop()
}

// arrayLength counts an array-shaped Object's own properties other
// than "length" itself, so ArrayPush can recompute the count without
// the slot it is about to overwrite inflating it.
func arrayLength(o *Object) int {
	n := 0
	for key := range o.Properties {
		if key != "length" {
			n++
		}
	}
	return n
}

func (vm *VM) execArith(op OpCode) *Error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	if op == OpAdd {
		_, aStr := a.(String)
		_, bStr := b.(String)
		if aStr || bStr {
			vm.push(String(ToString(a) + ToString(b)))
			return nil
		}
	}
	x, y := ToNumber(a), ToNumber(b)
	switch op {
	case OpAdd:
		vm.push(Number(x + y))
	case OpSub:
		vm.push(Number(x - y))
	case OpMul:
		vm.push(Number(x * y))
	case OpDiv:
		vm.push(Number(x / y))
	case OpMod:
		vm.push(Number(math.Mod(x, y)))
	case OpPower:
		vm.push(Number(math.Pow(x, y)))
	}
	return nil
}

func (vm *VM) execCompare(op OpCode) *Error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	switch op {
	case OpEq:
		vm.push(Boolean(AbstractEquals(a, b)))
	case OpNotEq:
		vm.push(Boolean(!AbstractEquals(a, b)))
	case OpStrictEq:
		vm.push(Boolean(StrictEquals(a, b)))
	case OpStrictNotEq:
		vm.push(Boolean(!StrictEquals(a, b)))
	case OpLt, OpGt, OpLtEq, OpGtEq:
		x, y := ToNumber(a), ToNumber(b)
		if math.IsNaN(x) || math.IsNaN(y) {
			vm.push(Boolean(false))
			return nil
		}
		switch op {
		case OpLt:
			vm.push(Boolean(x < y))
		case OpGt:
			vm.push(Boolean(x > y))
		case OpLtEq:
			vm.push(Boolean(x <= y))
		case OpGtEq:
			vm.push(Boolean(x >= y))
		}
	}
	return nil
}

func (vm *VM) execBitwise(op OpCode) *Error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	x, y := ToInt32(a), ToInt32(b)
	switch op {
	case OpBitAnd:
		vm.push(Number(float64(x & y)))
	case OpBitOr:
		vm.push(Number(float64(x | y)))
	case OpBitXor:
		vm.push(Number(float64(x ^ y)))
	case OpLeftShift:
		shift := uint32(y) & 0x1f
		vm.push(Number(float64(x << shift)))
	case OpRightShift:
		shift := uint32(y) & 0x1f
		vm.push(Number(float64(x >> shift)))
	case OpUnsignedRightShift:
		shift := ToUint32(a)
		s := uint32(y) & 0x1f
		vm.push(Number(float64(shift >> s)))
	}
	return nil
}

// execCall implements CallFunction(n): pop n args in reverse then
// restore source order, pop the callee, bind parameters into a fresh
// child environment, swap in a clean stack and that environment,
// recurse into Execute on the callee's chunk, then restore the
// caller's stack and environment.
func (vm *VM) execCall(instr Instruction) (Value, *Error) {
	argc := instr.Operand
	args := make([]Value, argc)
	for i := argc - 1; i >= 0; i-- {
		v, err := vm.pop()
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	callee, err := vm.pop()
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(*Function)
	if !ok {
		return nil, NewTypeError("value is not callable", instr.Line, 0)
	}
	if vm.maxCallDepth > 0 && vm.callDepth >= vm.maxCallDepth {
		return nil, NewRangeError("maximum call depth exceeded", instr.Line, 0)
	}

	outer := fn.Env
	if outer == nil {
		outer = vm.env
	}
	callEnv := NewEnvironment(outer)
	for i, param := range fn.Params {
		if i < len(args) {
			callEnv.Define(param, args[i])
		}
		// missing arguments are left undefined: absent from callEnv, so
		// LoadVar's lookup-miss path yields Undefined naturally.
	}
	for i := len(fn.Params); i < len(args); i++ {
		callEnv.Define(extraArgName(i), args[i])
	}

	savedStack, savedEnv := vm.stack, vm.env
	vm.stack, vm.env = nil, callEnv
	vm.callDepth++
	result, callErr := vm.Execute(fn.Chunk)
	vm.callDepth--
	vm.stack, vm.env = savedStack, savedEnv

	if callErr != nil {
		return nil, callErr
	}
	return result, nil
}

func extraArgName(i int) string {
	return "arg" + strconv.Itoa(i)
}

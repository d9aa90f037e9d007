package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddConstInternsDuplicatePrimitives(t *testing.T) {
	c := NewChunk()
	i1 := c.addConst(Number(42))
	i2 := c.addConst(Number(42))
	i3 := c.addConst(String("42"))
	require.Equal(t, i1, i2)
	require.NotEqual(t, i1, i3)
	require.Len(t, c.Constants, 2)
}

func TestAddConstInternsEquivalentFunctions(t *testing.T) {
	c := NewChunk()
	body := NewChunk()
	body.emit(OpLoadConst, body.addConst(Number(1)), "", 0)
	body.emit(OpReturn, 0, "", 0)

	bodyCopy := NewChunk()
	bodyCopy.emit(OpLoadConst, bodyCopy.addConst(Number(1)), "", 0)
	bodyCopy.emit(OpReturn, 0, "", 0)

	i1 := c.addConst(&Function{Chunk: body, Params: []string{"x"}})
	i2 := c.addConst(&Function{Chunk: bodyCopy, Params: []string{"x"}})
	require.Equal(t, i1, i2, "structurally identical function literals intern to one constant")
}

func TestConstantPoolIsDeduplicated(t *testing.T) {
	c := NewChunk()
	values := []Value{Number(1), Number(2), Number(1), String("a"), String("a"), Boolean(true), Boolean(true)}
	for _, v := range values {
		c.addConst(v)
	}
	require.Len(t, c.Constants, 4, "only 1, 2, \"a\", true are distinct")
}

func TestDisassembleRendersOperands(t *testing.T) {
	c := NewChunk()
	idx := c.addConst(Number(7))
	c.emit(OpLoadConst, idx, "", 1)
	c.emit(OpStoreVar, 0, "x", 1)
	c.emit(OpJump, 0, "", 1)

	out := c.Disassemble()
	require.Contains(t, out, "LoadConst")
	require.Contains(t, out, "7")
	require.Contains(t, out, "StoreVar")
	require.Contains(t, out, "x")
	require.Contains(t, out, "Jump")
}

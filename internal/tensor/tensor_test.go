package tensor

import (
	"testing"

	"github.com/gitrdm/autoinfer/internal/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAbsTensorCopiesShape(t *testing.T) {
	shape := []symbol.Symbol{symbol.New(symbol.Input, 0)}
	tens := NewAbsTensor(shape, Float32)
	shape[0] = symbol.New(symbol.Input, 9)
	assert.Equal(t, symbol.New(symbol.Input, 0), tens.Shape[0], "NewAbsTensor must not alias the caller's slice")
}

func TestRank(t *testing.T) {
	s0, s1 := symbol.New(symbol.Input, 0), symbol.New(symbol.Input, 1)
	tens := NewAbsTensor([]symbol.Symbol{s0, s1}, Int64)
	assert.Equal(t, 2, tens.Rank())
}

func TestSubstitute(t *testing.T) {
	s0 := symbol.New(symbol.Input, 0)
	s1 := symbol.New(symbol.Input, 1)
	tens := NewAbsTensor([]symbol.Symbol{s0, s1}, Float32)
	out := tens.Substitute(map[symbol.Symbol]symbol.Symbol{s0: symbol.New(symbol.Output, 0)})
	assert.Equal(t, symbol.New(symbol.Output, 0), out.Shape[0])
	assert.Equal(t, s1, out.Shape[1])
	assert.Equal(t, s0, tens.Shape[0], "Substitute must not mutate the receiver")
}

func TestConcreteShape(t *testing.T) {
	s0 := symbol.New(symbol.Input, 0)
	tens := NewAbsTensor([]symbol.Symbol{s0}, Float32)
	shape, err := tens.ConcreteShape(map[symbol.Symbol]int{s0: 4})
	require.NoError(t, err)
	assert.Equal(t, []int{4}, shape)

	_, err = tens.ConcreteShape(map[symbol.Symbol]int{})
	assert.Error(t, err)
}

func TestAbsIntConcretize(t *testing.T) {
	lit := NewLiteralInt(7)
	v, err := lit.Concretize(nil)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	s0 := symbol.New(symbol.Input, 0)
	sym := NewSymbolicInt(s0)
	v, err = sym.Concretize(map[symbol.Symbol]int{s0: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = sym.Concretize(nil)
	assert.Error(t, err)
}

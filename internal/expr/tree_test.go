package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTreeEvaluateAndDisplay(t *testing.T) {
	tr := Tree{Height: 1, root: binNode(Add, argNode(0), litNode(2))}
	assert.Equal(t, 5, tr.Evaluate([]int{3}))
	assert.Equal(t, "s0+2", tr.Display())
}

func TestAddSubOrLeafRoot(t *testing.T) {
	leaf := Tree{root: argNode(0)}
	assert.True(t, leaf.AddSubOrLeafRoot())

	addRoot := Tree{root: binNode(Add, argNode(0), argNode(1))}
	assert.True(t, addRoot.AddSubOrLeafRoot())

	mulRoot := Tree{root: binNode(Mul, argNode(0), argNode(1))}
	assert.False(t, mulRoot.AddSubOrLeafRoot())
}

func TestRemap(t *testing.T) {
	tr := Tree{root: binNode(Add, argNode(0), argNode(1))}
	assert.Equal(t, "s3+s1", tr.Remap([]int{3, 1}))
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "+", Add.String())
	assert.Equal(t, "-", Sub.String())
	assert.Equal(t, "*", Mul.String())
	assert.Equal(t, "/", Div.String())
}

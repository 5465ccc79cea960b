package oracle

import (
	"testing"

	"github.com/gitrdm/autoinfer/internal/oi"
	"github.com/gitrdm/autoinfer/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func elementWiseInstance(t *testing.T) *oi.OpInstance {
	t.Helper()
	rec := oi.RawRecord{
		Name: "torch.relu",
		Args: []oi.RawArg{
			{Name: "a", Positional: true, IsTensor: true, Shape: []int{2, 3}, DType: tensor.Float32},
		},
		Outputs: []oi.RawArg{
			{IsTensor: true, Shape: []int{2, 3}, DType: tensor.Float32},
		},
	}
	inst, err := oi.NewBuilder(oi.IntPolicySymbolic).Build("torch.relu_0", rec)
	require.NoError(t, err)
	return inst
}

func TestDialectOracleAcceptsElementWise(t *testing.T) {
	inst := elementWiseInstance(t)
	out, err := NewDialectOracle().Invoke(inst, []int{2, 3})
	require.NoError(t, err)
	assert.True(t, out.Valid)
	assert.Equal(t, []int{2, 3}, out.Outputs)
}

func TestDialectOracleRejectsUnresolvableInput(t *testing.T) {
	inst := elementWiseInstance(t)
	out, err := NewDialectOracle().Invoke(inst, []int{2})
	require.NoError(t, err)
	assert.False(t, out.Valid)
}

func TestFuncAdaptsPlainFunction(t *testing.T) {
	var o Oracle = Func(func(inst *oi.OpInstance, inputValues []int) (Outcome, error) {
		return Outcome{Valid: true, Outputs: inputValues}, nil
	})
	out, err := o.Invoke(nil, []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, out.Outputs)
}

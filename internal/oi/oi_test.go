package oi

import (
	"testing"

	"github.com/gitrdm/autoinfer/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addRecord() RawRecord {
	return RawRecord{
		Name: "torch.add",
		Args: []RawArg{
			{Name: "input", Positional: true, IsTensor: true, Shape: []int{4, 8}, DType: tensor.Float32},
			{Name: "other", Positional: true, IsTensor: true, Shape: []int{4, 8}, DType: tensor.Float32},
			{Name: "alpha", IsInt: true, Int: 1},
		},
		Outputs: []RawArg{
			{IsTensor: true, Shape: []int{4, 8}, DType: tensor.Float32},
		},
	}
}

func TestBuildAssignsDenseSymbols(t *testing.T) {
	b := NewBuilder(IntPolicySymbolic)
	inst, err := b.Build("torch.add_0", addRecord())
	require.NoError(t, err)

	assert.Equal(t, "torch.add", inst.Name)
	assert.Len(t, inst.I(), 4, "each dim of each input tensor gets its own symbol, even when values coincide")
	assert.Len(t, inst.A(), 1, "the alpha attribute is symbolized under IntPolicySymbolic")
	assert.Len(t, inst.IA(), 5)
	assert.Len(t, inst.O(), 2)
	require.NoError(t, inst.Validate())
}

func TestBuildKeepLiteralDim(t *testing.T) {
	rec := RawRecord{
		Name: "torch.sum",
		Args: []RawArg{
			{Name: "input", Positional: true, IsTensor: true, Shape: []int{4, 8}, DType: tensor.Float32},
			{Name: "dim", IsInt: true, Int: 1},
		},
		Outputs: []RawArg{
			{IsTensor: true, Shape: []int{4}, DType: tensor.Float32},
		},
	}
	b := NewBuilder(IntPolicyFixDim)
	inst, err := b.Build("torch.sum_0", rec)
	require.NoError(t, err)

	assert.Len(t, inst.A(), 0, "dim is kept literal, not symbolized, under fix_dim")
	for _, arg := range inst.Args {
		if arg.Name == "dim" {
			assert.Equal(t, ArgOpaque, arg.Kind)
		}
	}
}

func TestKeepLiteralPerOperatorException(t *testing.T) {
	p := IntPolicyFixDim
	assert.True(t, p.KeepLiteral("torch.diag", "offset"))
	assert.False(t, p.KeepLiteral("torch.add", "offset"))
	assert.True(t, p.KeepLiteral("torch.add", "dim"))
}

func TestValidateAcceptsInstanceWithNoSymbols(t *testing.T) {
	inst := &OpInstance{Name: "broken"}
	err := inst.Validate()
	assert.NoError(t, err, "an OpInstance with no symbols at all is vacuously valid")
}

package mutator

import (
	"testing"

	"github.com/gitrdm/autoinfer/internal/config"
	"github.com/gitrdm/autoinfer/internal/invocdb"
	"github.com/gitrdm/autoinfer/internal/oi"
	"github.com/gitrdm/autoinfer/internal/tensor"
	"github.com/gitrdm/autoinfer/pkg/oracle"
	"github.com/stretchr/testify/require"
)

func buildInst(t *testing.T) *oi.OpInstance {
	t.Helper()
	b := oi.NewBuilder(oi.IntPolicySymbolic)
	inst, err := b.Build("torch.add_0", oi.RawRecord{
		Name: "torch.add",
		Args: []oi.RawArg{
			{Name: "input", Positional: true, IsTensor: true, Shape: []int{4}, DType: tensor.Float32},
		},
		Outputs: []oi.RawArg{
			{IsTensor: true, Shape: []int{4}, DType: tensor.Float32},
		},
	})
	require.NoError(t, err)
	return inst
}

func TestSkip(t *testing.T) {
	cfg := config.Default()
	cfg.SkipMutationAPIs = []string{"torch.dropout"}
	m := New(cfg, nil)
	require.True(t, m.Skip("torch.dropout"))
	require.False(t, m.Skip("torch.add"))
}

func TestMutateIdentityOracleFillsInvocDB(t *testing.T) {
	inst := buildInst(t)
	cfg := config.Default()
	o := oracle.Func(func(inst *oi.OpInstance, values []int) (oracle.Outcome, error) {
		if values[0] <= 0 {
			return oracle.Outcome{Valid: false}, nil
		}
		return oracle.Outcome{Valid: true, Outputs: []int{values[0]}}, nil
	})
	m := New(cfg, o)
	db := invocdb.New()
	seed := invocdb.Record{Inputs: ip(4), Outputs: ip(4)}

	require.NoError(t, m.Mutate(inst, db, seed))
	require.Greater(t, db.Count(""), 0)
	require.NoError(t, db.ValidityCheck())
}

func TestMutateUntilCapStopsAtSuccessCap(t *testing.T) {
	inst := buildInst(t)
	cfg := config.Default()
	cfg.MutatorSuccessCap = 1
	o := oracle.Func(func(inst *oi.OpInstance, values []int) (oracle.Outcome, error) {
		return oracle.Outcome{Valid: true, Outputs: []int{values[0]}}, nil
	})
	m := New(cfg, o)
	db := invocdb.New()
	records := []invocdb.Record{
		{Inputs: ip(4), Outputs: ip(4)},
		{Inputs: ip(8), Outputs: ip(8)},
	}
	require.NoError(t, m.MutateUntilCap(inst, db, records))
	// The first record is always mutated (its deltas yield successes 5,
	// 6 and 7); that already meets the cap of 1, so the second record is
	// skipped. Mutating it too would have added 9, 10 and 11.
	require.Equal(t, 3, db.Count("success"))
	require.NoError(t, db.ValidityCheck())
}

func ip(vs ...int) []*int {
	out := make([]*int, len(vs))
	for i, v := range vs {
		v := v
		out[i] = &v
	}
	return out
}

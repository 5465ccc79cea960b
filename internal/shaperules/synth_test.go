package shaperules

import (
	"testing"
	"time"

	"github.com/gitrdm/autoinfer/internal/config"
	"github.com/gitrdm/autoinfer/internal/expr"
	"github.com/gitrdm/autoinfer/internal/invocdb"
	"github.com/gitrdm/autoinfer/internal/oi"
	"github.com/gitrdm/autoinfer/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passthroughInstance(t *testing.T) *oi.OpInstance {
	t.Helper()
	rec := oi.RawRecord{
		Name: "torch.select_dim0",
		Args: []oi.RawArg{
			{Name: "a", Positional: true, IsInt: true, Int: 3},
			{Name: "b", Positional: true, IsInt: true, Int: 5},
		},
		Outputs: []oi.RawArg{
			{IsTensor: true, Shape: []int{3}, DType: tensor.Int64},
		},
	}
	inst, err := oi.NewBuilder(oi.IntPolicySymbolic).Build("torch.select_dim0_0", rec)
	require.NoError(t, err)
	return inst
}

func TestSynthesizeFindsIdentityRule(t *testing.T) {
	inst := passthroughInstance(t)
	db := invocdb.New()
	a, b, o := 3, 5, 3
	db.Add([]*int{&a, &b}, []*int{&o})
	a2, b2, o2 := 7, 2, 7
	db.Add([]*int{&a2, &b2}, []*int{&o2})
	db.Analyse()

	exprDB := expr.Build(1, 2, false)
	cfg := config.Default()
	cfg.ShapeRuleBudget = time.Second

	result := Synthesize(cfg, exprDB, inst, db)
	require.Len(t, result.OutputRules, 1)
	assert.Contains(t, result.OutputRules[0].Rules, "s0")
	assert.Equal(t, 2, result.InvocationCount)
}

func TestSynthesizeFallsBackToInputRankWhenNoTreeMatches(t *testing.T) {
	rec := oi.RawRecord{
		Name: "torch.cat",
		Args: []oi.RawArg{
			{Name: "a", Positional: true, IsInt: true, Int: 5},
			{Name: "b", Positional: true, IsInt: true, Int: 9},
			{Name: "c", Positional: true, IsInt: true, Int: 7},
		},
		Outputs: []oi.RawArg{
			{IsTensor: true, Shape: []int{3}, DType: tensor.Int64},
		},
	}
	inst, err := oi.NewBuilder(oi.IntPolicySymbolic).Build("torch.cat_0", rec)
	require.NoError(t, err)

	db := invocdb.New()
	a, b, c, o := 5, 9, 7, 3
	db.Add([]*int{&a, &b, &c}, []*int{&o})
	db.Analyse()

	exprDB := expr.Build(0, 3, false)
	cfg := config.Default()
	cfg.ShapeRuleBudget = time.Second

	result := Synthesize(cfg, exprDB, inst, db)
	require.Len(t, result.OutputRules, 1)
	assert.Equal(t, []string{"3"}, result.OutputRules[0].Rules)
}

func TestSubsetsGeneratesNondecreasingIndexOrder(t *testing.T) {
	got := subsets(3, 2)
	assert.Equal(t, [][]int{{0, 1}, {0, 2}, {1, 2}}, got)
}

func TestSubsetsOfSizeZeroIsSingleEmptySet(t *testing.T) {
	assert.Equal(t, [][]int{{}}, subsets(4, 0))
}

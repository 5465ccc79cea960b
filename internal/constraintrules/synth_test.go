package constraintrules

import (
	"context"
	"testing"
	"time"

	"github.com/gitrdm/autoinfer/internal/config"
	"github.com/gitrdm/autoinfer/internal/expr"
	"github.com/gitrdm/autoinfer/internal/invocdb"
	"github.com/gitrdm/autoinfer/internal/smt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDB() *invocdb.DB {
	db := invocdb.New()
	s0a, s1a, o := 1, 10, 1
	s0b, s1b, ob := 2, 10, 2
	s0c, s1c, oc := 3, 10, 3
	db.Add([]*int{&s0a, &s1a}, []*int{&o})
	db.Add([]*int{&s0b, &s1b}, []*int{&ob})
	db.Add([]*int{&s0c, &s1c}, []*int{&oc})

	fail0, fail1 := 0, 10
	db.Add([]*int{&fail0, &fail1}, nil)
	return db
}

func TestSynthesizeAdmitsConstantColumnRule(t *testing.T) {
	db := buildDB()
	exprDB := expr.Build(1, 2, false)
	cfg := config.Default()
	cfg.ConstraintRuleBudget = time.Second
	engine := smt.NewEngine(4, 4, 50*time.Millisecond)

	result := Synthesize(context.Background(), cfg, engine, exprDB, db)

	var sawConstantColumn bool
	for _, r := range result.Rules {
		if r.Expression == "s1-10" && r.Relation == smt.Eq {
			sawConstantColumn = true
		}
	}
	assert.True(t, sawConstantColumn, "s1 is constant across every success record")
}

func TestSynthesizeAdmitsSeparatingInequality(t *testing.T) {
	db := buildDB()
	exprDB := expr.Build(1, 2, false)
	cfg := config.Default()
	cfg.ConstraintRuleBudget = time.Second
	// The radius must reach the constant s1 = 10: with a smaller one the
	// bounded equivalence check finds s1-10 = 0 never true, sees every
	// conjunction containing it as equivalent, and prunes s0 > 0.
	engine := smt.NewEngine(16, 4, 50*time.Millisecond)

	result := Synthesize(context.Background(), cfg, engine, exprDB, db)

	var sawS0Bound bool
	for _, r := range result.Rules {
		if r.Relation != smt.Eq && r.Expression == "s0" {
			sawS0Bound = true
		}
	}
	assert.True(t, sawS0Bound, "s0 separates the one failing record from every success")
}

func TestSynthesizeReturnsEmptyResultWithNoSuccesses(t *testing.T) {
	db := invocdb.New()
	fail0 := 0
	db.Add([]*int{&fail0}, nil)

	exprDB := expr.Build(1, 1, false)
	cfg := config.Default()
	engine := smt.NewEngine(4, 4, 50*time.Millisecond)

	result := Synthesize(context.Background(), cfg, engine, exprDB, db)
	assert.Empty(t, result.Rules)
}

func TestSubsetsCoversEveryCombination(t *testing.T) {
	got := subsets(3, 1)
	require.Equal(t, [][]int{{0}, {1}, {2}}, got)
}

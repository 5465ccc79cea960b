// Package constraintrules implements the input-validity rule
// synthesiser of spec §4.6 (component C7): equality/inequality
// predicates that hold on every successful record and, for strict
// inequalities, fail on at least one failing record, with C2-checked
// minimality pruning.
//
// Grounded on strict_input_solve.py in original_source/: the same
// constant-column pass, the same root-restricted C1 walk, the same
// sign-list-per-depth rule, and the same RuleDatabase append-then-prune
// fixed point.
package constraintrules

import (
	"context"
	"fmt"
	"time"

	"github.com/gitrdm/autoinfer/internal/config"
	"github.com/gitrdm/autoinfer/internal/expr"
	"github.com/gitrdm/autoinfer/internal/invocdb"
	"github.com/gitrdm/autoinfer/internal/smt"
)

// Rule is one admitted input-validity predicate "expression rel 0"
// (spec §6, "Input-constraint file").
type Rule struct {
	Expression string
	Relation   smt.Relation
}

// Result is the full per-OI constraint-rule file payload.
type Result struct {
	Rules     []Rule
	TreeTried int
	Time      time.Duration
}

// ruleDB holds the admitted rule set and performs C2-checked
// minimality pruning after every append, matching
// strict_input_solve.py's RuleDatabase.Add.
type ruleDB struct {
	engine  *smt.Engine
	entries []entry
}

type entry struct {
	rule     Rule
	formula  smt.Formula
}

func (db *ruleDB) conjunctionExcept(skip int) smt.Formula {
	var fs []smt.Formula
	for i, e := range db.entries {
		if i != skip {
			fs = append(fs, e.formula)
		}
	}
	return smt.And(fs...)
}

func (db *ruleDB) conjunctionAll() smt.Formula {
	var fs []smt.Formula
	for _, e := range db.entries {
		fs = append(fs, e.formula)
	}
	return smt.And(fs...)
}

// Add appends a new candidate rule, then repeatedly tries to drop any
// rule (other than the first ever admitted) whose removal leaves the
// conjunction semantically unchanged, per spec §4.6's minimality-pruning
// pass.
func (db *ruleDB) Add(ctx context.Context, rule Rule, formula smt.Formula) {
	if len(db.entries) > 50 {
		return
	}
	db.entries = append(db.entries, entry{rule: rule, formula: formula})

	for {
		pruned := false
		full := db.conjunctionAll()
		for i := len(db.entries) - 1; i >= 1; i-- {
			without := db.conjunctionExcept(i)
			eq, err := db.engine.Equivalent(ctx, full, without)
			if err == nil && eq {
				db.entries = append(db.entries[:i], db.entries[i+1:]...)
				pruned = true
				break
			}
		}
		if !pruned {
			break
		}
	}
}

func (db *ruleDB) count() int { return len(db.entries) }

// Synthesize runs C7 against an OI's success/fail record sets.
func Synthesize(ctx context.Context, cfg *config.Config, engine *smt.Engine, exprDB *expr.Database, db *invocdb.DB) *Result {
	start := time.Now()
	successes := db.Success()
	fails := nonNegativeFails(db.Fail())
	if len(successes) == 0 {
		return &Result{Time: time.Since(start)}
	}
	inputLen := len(successes[0].Inputs)

	rdb := &ruleDB{engine: engine}
	deadline := start.Add(cfg.ConstraintRuleBudget)

	// Constant-column pass: s_i - v = 0 for every i constant across
	// all successes.
	for i := 0; i < inputLen; i++ {
		v := *successes[0].Inputs[i]
		constant := true
		for _, r := range successes {
			if *r.Inputs[i] != v {
				constant = false
				break
			}
		}
		if constant {
			exprText := fmt.Sprintf("s%d-%d", i, v)
			idx := i
			formula := smt.Formula{
				FreeVars: []int{idx},
				Eval: func(values map[int]int) bool {
					return smt.Eq.Holds(values[idx] - v)
				},
			}
			rdb.Add(ctx, Rule{Expression: exprText, Relation: smt.Eq}, formula)
		}
	}

	treeTried := 0
	for _, tree := range exprDB.Trees() {
		p := tree.ArgSet.Popcount()
		if p > inputLen {
			continue
		}
		if !tree.AddSubOrLeafRoot() {
			continue
		}
		treeTried++
		if time.Now().After(deadline) {
			break
		}

		relations := []smt.Relation{smt.Eq}
		if tree.Height <= 1 {
			relations = []smt.Relation{smt.Eq, smt.Gt, smt.Ge}
		}

		for _, subset := range subsets(inputLen, p) {
			for _, rel := range relations {
				if inspectAllRecords(successes, fails, subset, tree, rel) {
					exprStr := tree.Remap(subset)
					t := tree
					s := append([]int(nil), subset...)
					formula := smt.Formula{
						FreeVars: s,
						Eval: func(values map[int]int) bool {
							args := make([]int, len(s))
							for i, idx := range s {
								args[i] = values[idx]
							}
							return rel.Holds(t.Evaluate(args))
						},
					}
					rdb.Add(ctx, Rule{Expression: exprStr, Relation: rel}, formula)
				}
			}
		}
		if rdb.count() >= 50 {
			break
		}
	}

	res := &Result{TreeTried: treeTried}
	for _, e := range rdb.entries {
		res.Rules = append(res.Rules, e.rule)
	}
	res.Time = time.Since(start)
	return res
}

// inspectAllRecords reports whether tree/rel holds (`rel 0`) on every
// success record, and — for strict/non-strict inequalities — is
// violated on at least one failing record (separating power). Equality
// rules need no separating-power check (spec §4.6, §D.1).
func inspectAllRecords(successes, fails []invocdb.Record, subset []int, tree expr.Tree, rel smt.Relation) bool {
	for _, r := range successes {
		args := make([]int, len(subset))
		for i, idx := range subset {
			args[i] = *r.Inputs[idx]
		}
		if !rel.Holds(tree.Evaluate(args)) {
			return false
		}
	}
	if rel == smt.Eq {
		return true
	}
	for _, r := range fails {
		args := make([]int, len(subset))
		for i, idx := range subset {
			args[i] = *r.Inputs[idx]
		}
		if !rel.Holds(tree.Evaluate(args)) {
			return true
		}
	}
	return false
}

// nonNegativeFails returns the fail records whose input values are all
// non-negative (spec §4.6: "the subset of fail inputs whose values are
// all non-negative").
func nonNegativeFails(fails []invocdb.Record) []invocdb.Record {
	var out []invocdb.Record
	for _, r := range fails {
		ok := true
		for _, v := range r.Inputs {
			if v == nil || *v < 0 {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, r)
		}
	}
	return out
}

func subsets(n, p int) [][]int {
	if p == 0 {
		return [][]int{{}}
	}
	var out [][]int
	current := make([]int, 0, p)
	var dfs func(start int)
	dfs = func(start int) {
		if len(current) == p {
			cp := make([]int, p)
			copy(cp, current)
			out = append(out, cp)
			return
		}
		for next := start; next < n; next++ {
			current = append(current, next)
			dfs(next + 1)
			current = current[:len(current)-1]
		}
	}
	dfs(0)
	return out
}

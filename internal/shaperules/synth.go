// Package shaperules implements the shape-rule synthesiser of spec
// §4.5 (component C6): for every output symbol, find an
// arithmetic-tree + input-symbol-subset pair that reproduces the
// observed value across every success record.
//
// Grounded on symbl_int_solve.py's solve_inst in original_source/:
// the same height/popcount-ordered tree walk, the same
// alias-pruned subset generation, the same "first valid tree wins,
// then o_id is closed" acceptance rule, and the same input-rank
// passthrough fallback.
package shaperules

import (
	"strconv"
	"time"

	"github.com/gitrdm/autoinfer/internal/config"
	"github.com/gitrdm/autoinfer/internal/expr"
	"github.com/gitrdm/autoinfer/internal/invocdb"
	"github.com/gitrdm/autoinfer/internal/oi"
)

// OutputRuleSet is one output symbol's synthesis result.
type OutputRuleSet struct {
	OutputIndex int
	RuleCount   int
	TreeTried   int
	Rules       []string
}

// Result is the full per-OI shape-rule file payload (spec §6, "Shape
// rule file").
type Result struct {
	OutputRank      int
	InvocationCount int
	OutputRules     []OutputRuleSet
	Time            time.Duration
}

// subsets yields every size-p subset of {0,...,n-1} in the
// same nondecreasing-index order symbl_int_solve.py's gen_sym_set/dfs
// produces.
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

// Synthesize runs C6 against inst's invocation database, consuming
// db.Aliases (already populated by a prior invocdb.Analyse call) and
// exprDB's canonical enumeration order.
func Synthesize(cfg *config.Config, exprDB *expr.Database, inst *oi.OpInstance, db *invocdb.DB) *Result {
	start := time.Now()
	records := db.Success()
	outputRank := len(inst.O())
	inputLen := len(inst.IA())

	valid := make([][]string, outputRank)
	closed := make([]bool, outputRank)
	treeTried := 0

	deadline := start.Add(cfg.ShapeRuleBudget)

	for _, tree := range exprDB.Trees() {
		p := tree.ArgSet.Popcount()
		if p > inputLen {
			continue
		}
		treeTried++
		anyOpen := false
		for oID := 0; oID < outputRank; oID++ {
			if closed[oID] {
				continue
			}
			anyOpen = true
			for _, subset := range subsets(inputLen, p) {
				if db.CheckDuplicateSym(subset) {
					continue
				}
				if ruleHolds(tree, subset, oID, records, cfg.ZeroFilter) {
					valid[oID] = append(valid[oID], remapDisplay(tree, subset))
					closed[oID] = true
					break
				}
			}
		}
		if !anyOpen {
			break
		}
		if time.Now().After(deadline) {
			break
		}
	}

	// Input-rank passthrough fallback (spec §4.5).
	for oID := 0; oID < outputRank; oID++ {
		if closed[oID] {
			continue
		}
		allMatch := true
		for _, r := range records {
			if oID >= len(r.Outputs) || r.Outputs[oID] == nil || *r.Outputs[oID] != inputLen {
				allMatch = false
				break
			}
		}
		if allMatch && len(records) > 0 {
			valid[oID] = append(valid[oID], strconv.Itoa(inputLen))
		}
	}

	res := &Result{OutputRank: outputRank, InvocationCount: len(records)}
	for oID := 0; oID < outputRank; oID++ {
		res.OutputRules = append(res.OutputRules, OutputRuleSet{
			OutputIndex: oID,
			RuleCount:   len(valid[oID]),
			TreeTried:   treeTried,
			Rules:       valid[oID],
		})
	}
	res.Time = time.Since(start)
	return res
}

// ruleHolds evaluates tree over subset on every success record,
// honoring zero-filter, and reports whether it reproduces the
// record's oID-th output on every non-skipped record, with at least
// one record actually checked.
func ruleHolds(tree expr.Tree, subset []int, oID int, records []invocdb.Record, zeroFilter bool) bool {
	checkedAny := false
	for _, r := range records {
		if oID >= len(r.Outputs) || r.Outputs[oID] == nil {
			continue
		}
		args := make([]int, len(subset))
		hasZero := false
		for i, idx := range subset {
			if idx >= len(r.Inputs) || r.Inputs[idx] == nil {
				return false
			}
			args[i] = *r.Inputs[idx]
			if args[i] <= 0 {
				hasZero = true
			}
		}
		if zeroFilter && hasZero {
			continue
		}
		checkedAny = true
		if tree.Evaluate(args) != *r.Outputs[oID] {
			return false
		}
	}
	return checkedAny
}

// remapDisplay renders tree's local s0,s1,... placeholders against
// the subset's global symbol indices (spec §4.5: "tree_tried, rules:
// [string]" emits expressions over s0,s1,...").
func remapDisplay(tree expr.Tree, subset []int) string {
	return tree.Remap(subset)
}

// Package smt is the symbolic engine adapter of spec §4.2 (component
// C2): a thin wrapper exposing check-sat, semantic-equivalence, and
// model-value queries over integer arithmetic formulas.
//
// The reference implementation this spec was distilled from wraps
// Z3. No Go binding for an SMT solver appears anywhere in the
// example pack this module was grounded on (a real one requires cgo
// plus a native shared library, which this offline, build-free
// environment cannot vendor), so this adapter instead brute-forces
// each formula's free variables over a configurable bounded integer
// domain the way the teacher's finite-domain solver
// (pkg/minikanren/fd_solver.go, domain.go) enumerates bounded
// domains for its own constraints — the same search shape, applied
// to shape-rule formulas instead of puzzle variables. Spec §1's
// Non-goal (i) already scopes the whole system to empirical checking
// rather than soundness proofs, so a bounded decision procedure is a
// faithful implementation of "SMT-solver-checked" here.
package smt

import (
	"sort"
)

// Relation is the comparison an input-validity rule makes against
// zero (spec §3, Rule).
type Relation int

const (
	Eq Relation = iota
	Gt
	Ge
)

func (r Relation) String() string {
	switch r {
	case Eq:
		return "="
	case Gt:
		return ">"
	default:
		return "≥"
	}
}

// Holds reports whether value satisfies the relation against zero.
func (r Relation) Holds(value int) bool {
	switch r {
	case Eq:
		return value == 0
	case Gt:
		return value > 0
	default:
		return value >= 0
	}
}

// Formula is an integer-arithmetic predicate over a named set of free
// variables (symbol indices in the caller's sN namespace). Formulas
// are the unit C6/C7/C9 hand to the adapter for satisfiability and
// equivalence checks.
type Formula struct {
	FreeVars []int
	Eval     func(values map[int]int) bool
}

// freeVarSet returns the formula's free variables as a sorted,
// deduplicated slice.
func freeVarSet(vars ...[]int) []int {
	seen := make(map[int]bool)
	for _, vs := range vars {
		for _, v := range vs {
			seen[v] = true
		}
	}
	out := make([]int, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// And returns the conjunction of formulas. The result's free
// variables are the union of each operand's.
func And(formulas ...Formula) Formula {
	var all [][]int
	for _, f := range formulas {
		all = append(all, f.FreeVars)
	}
	return Formula{
		FreeVars: freeVarSet(all...),
		Eval: func(values map[int]int) bool {
			for _, f := range formulas {
				if !f.Eval(values) {
					return false
				}
			}
			return true
		},
	}
}

// Not returns the negation of f.
func Not(f Formula) Formula {
	return Formula{
		FreeVars: f.FreeVars,
		Eval:     func(values map[int]int) bool { return !f.Eval(values) },
	}
}

// Iff returns the biconditional of f and g.
func Iff(f, g Formula) Formula {
	return Formula{
		FreeVars: freeVarSet(f.FreeVars, g.FreeVars),
		Eval:     func(values map[int]int) bool { return f.Eval(values) == g.Eval(values) },
	}
}

// True is a formula with no free variables that always holds.
var True = Formula{Eval: func(map[int]int) bool { return true }}

package smt

import (
	"context"
	"time"
)

// Result is the three-valued outcome of a satisfiability check (spec
// §4.2, §9 "Exception-driven control flow → sum types"). Unknown must
// never be treated as Sat by a caller.
type Result int

const (
	Unsat Result = iota
	Sat
	Unknown
)

func (r Result) String() string {
	switch r {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// Engine is the bounded-domain adapter implementing C2's three
// operations. Every check runs under a wall-clock Timeout (spec
// §4.2); Radius bounds the per-variable search domain to
// [-Radius, Radius]; MaxFreeVars bounds the number of free variables
// an exhaustive search will attempt before degrading to Unknown — an
// explicit, documented limitation (this adapter does not attempt the
// full symbolic reasoning an unbounded SMT solver would) consistent
// with spec §1 Non-goal (i): the system never claimed soundness
// beyond empirical/limited checking.
type Engine struct {
	Radius      int
	MaxFreeVars int
	Timeout     time.Duration
}

// NewEngine builds an Engine with the given bounds.
func NewEngine(radius, maxFreeVars int, timeout time.Duration) *Engine {
	return &Engine{Radius: radius, MaxFreeVars: maxFreeVars, Timeout: timeout}
}

// CheckSat searches for an assignment to the conjunction of
// assumptions' free variables satisfying all of them, within the
// engine's radius and wall-clock timeout. It returns the model found
// on Sat.
func (e *Engine) CheckSat(ctx context.Context, assumptions ...Formula) (Result, map[int]int, error) {
	formula := And(assumptions...)
	if len(formula.FreeVars) > e.MaxFreeVars {
		return Unknown, nil, nil
	}

	deadline := time.Now().Add(e.Timeout)
	vars := formula.FreeVars
	values := make(map[int]int, len(vars))
	assignment := make([]int, len(vars))
	for i := range assignment {
		assignment[i] = -e.Radius
	}

	checks := 0
	for {
		select {
		case <-ctx.Done():
			return Unknown, nil, ctx.Err()
		default:
		}
		checks++
		if checks%4096 == 0 && time.Now().After(deadline) {
			return Unknown, nil, nil
		}

		for i, v := range vars {
			values[v] = assignment[i]
		}
		if formula.Eval(values) {
			model := make(map[int]int, len(values))
			for k, v := range values {
				model[k] = v
			}
			return Sat, model, nil
		}

		if !increment(assignment, e.Radius) {
			return Unsat, nil, nil
		}
	}
}

// increment advances assignment like a mixed-radix odometer over
// [-radius, radius] per digit, returning false once every combination
// has been visited.
func increment(assignment []int, radius int) bool {
	for i := len(assignment) - 1; i >= 0; i-- {
		if assignment[i] < radius {
			assignment[i]++
			return true
		}
		assignment[i] = -radius
	}
	return false
}

// Equivalent reports whether f and g are semantically equivalent,
// i.e. f <-> g is a tautology over the bounded domain — implemented
// as CheckSat(¬(f ↔ g)) == Unsat, per spec §4.2. A timeout or
// free-variable overflow (Unknown) is treated conservatively as "not
// proven equivalent", matching the adapter's documented soundness
// scope: it never promotes Unknown to a positive equivalence claim.
func (e *Engine) Equivalent(ctx context.Context, f, g Formula) (bool, error) {
	result, _, err := e.CheckSat(ctx, Not(Iff(f, g)))
	if err != nil {
		return false, err
	}
	return result == Unsat, nil
}

// ModelValue evaluates tree-derived formula fn against a model
// produced by a prior Sat result (spec §4.2: model_value on a prior
// sat result).
func ModelValue(model map[int]int, fn func(values map[int]int) int) int {
	return fn(model)
}

// Package oracle declares the external validity-test boundary spec
// §4.4 calls the "oracle": the framework-specific function that
// actually invokes an operator with a candidate input assignment and
// reports whether it succeeded, and with what output shape.
//
// The only implementation in this module is DialectOracle, a
// reference oracle backed by the dialect-rule registry; oracles that
// call into a real tensor framework live outside the module and are
// handed in by the caller of internal/mutator. The indirection mirrors the teacher's own pattern of depending on
// interfaces it declares rather than concrete external types
// (pkg/minikanren's Goal/Stream boundary).
package oracle

import "github.com/gitrdm/autoinfer/internal/oi"

// Outcome is one oracle invocation's result.
type Outcome struct {
	// Valid is false when the operator rejected the input (spec §3,
	// a fail-set record).
	Valid bool

	// Outputs holds the concrete output shape values, keyed by output
	// symbol index in declaration order, when Valid is true.
	Outputs []int
}

// Oracle invokes inst's underlying operator against a candidate
// assignment of input-symbol values (indexed s0, s1, ... in
// declaration order) and reports the outcome. Implementations must be
// safe to call from multiple goroutines with distinct inst values
// (spec §5: one worker per operator, no shared mutable oracle state
// across operators).
type Oracle interface {
	Invoke(inst *oi.OpInstance, inputValues []int) (Outcome, error)
}

// Func adapts a plain function to the Oracle interface.
type Func func(inst *oi.OpInstance, inputValues []int) (Outcome, error)

// Invoke calls f.
func (f Func) Invoke(inst *oi.OpInstance, inputValues []int) (Outcome, error) {
	return f(inst, inputValues)
}

// Package errs defines the closed set of error kinds the core raises
// across component boundaries (spec §7). Every error is a sentinel
// value so callers can classify a failure with errors.Is instead of
// string matching, the same discipline the teacher library uses for
// its own constraint errors (see constraint_types.go in the vendored
// gokanlogic tree).
package errs

import "errors"

// OracleError means the operator raised while being probed under a
// concrete input assignment. Whether it is recorded as a failing
// invocation or discarded depends on the sign of the inputs that were
// probed (spec §7): non-negative inputs become a fail-set entry,
// anything else is dropped silently.
var OracleError = errors.New("autoinfer: oracle invocation failed")

// RuleTransferError means a dialect rule's requires or type_transfer
// raised during C8 matching. On a success record this disqualifies
// the rule class; on a failing record it confirms the rule class
// instead (spec §7).
var RuleTransferError = errors.New("autoinfer: dialect rule transfer failed")

// ConstraintError means the symbolic engine adapter (C2) returned
// unsat or unknown for a candidate graph insertion. The candidate is
// dropped and generation continues; this is an expected, silently
// consumed signal rather than a fatal condition. A dialect rule
// class's TypeTransfer also returns it when the concrete input shapes
// cannot be transferred.
var ConstraintError = errors.New("autoinfer: insertion is unsatisfiable")

// BudgetExceeded means a wall-clock or solver-internal timeout fired.
// Partial results found before the deadline are still valid and are
// flushed to disk; the caller should treat this as a soft stop, not a
// failure.
var BudgetExceeded = errors.New("autoinfer: time budget exceeded")

// ShapeArityMismatch means a success record disagreed with its peers
// on the arity of I∪A (the input-shape-plus-attribute symbol set).
// This is fatal for the operator: its rule files are not written.
var ShapeArityMismatch = errors.New("autoinfer: inconsistent input arity across records")

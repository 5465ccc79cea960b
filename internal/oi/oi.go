// Package oi implements the Operator Instance model of spec §3/§4.3
// (component C3): the typed, immutable skeleton of one traced
// operator application. An OpInstance is created once on record
// ingestion and never mutated afterward (spec §3, Lifecycle).
package oi

import (
	"fmt"

	"github.com/gitrdm/autoinfer/internal/errs"
	"github.com/gitrdm/autoinfer/internal/symbol"
	"github.com/gitrdm/autoinfer/internal/tensor"
)

// IntPolicy controls whether an integer attribute argument is
// symbolized or kept as a literal, mirroring the original
// implementation's int_policy (spec SPEC_FULL.md §C). "fix" keeps
// every integer literal; "fix_dim" keeps only axis/dim-like
// arguments literal; "symb" symbolizes everything.
type IntPolicy int

const (
	IntPolicySymbolic IntPolicy = iota
	IntPolicyFix
	IntPolicyFixDim
)

// keepLiteralDims lists the per-operator argument-name exceptions the
// original hard-codes for operators whose "dim"/"axis"-shaped
// arguments don't follow the generic naming convention.
var keepLiteralDims = map[string][]string{
	"torch.movedim":         {"source", "destination"},
	"torch.Tensor.movedim":  {"source", "destination"},
	"torch.moveaxis":        {"source", "destination"},
	"torch.diag":            {"offset"},
	"torch.Tensor.diag":     {"offset"},
	"torch.diagonal":        {"offset"},
	"torch.Tensor.diagonal": {"offset"},
	"torch.diagonal_copy":   {"offset"},
}

// KeepLiteral reports whether an integer argument named argName
// should be kept as a literal rather than symbolized, for the given
// operator name and policy.
func (p IntPolicy) KeepLiteral(opName, argName string) bool {
	switch p {
	case IntPolicyFix:
		return true
	case IntPolicyFixDim:
		if argName == "dim" || argName == "axis" {
			return true
		}
		for _, exempt := range keepLiteralDims[opName] {
			if exempt == argName {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// ArgKind tags what an argument's abstract value represents.
type ArgKind int

const (
	ArgTensor ArgKind = iota
	ArgInt
	ArgOpaque
	ArgList
)

// Argument is one positional/keyword slot of an operator invocation
// (spec §3, OI field list).
type Argument struct {
	Name     string
	Positional bool
	Kind     ArgKind
	Tensor   tensor.AbsTensor
	Int      tensor.AbsInt
	Opaque   tensor.AbsValue
	List     []Argument // populated when Kind == ArgList
}

// OpInstance is the typed skeleton of one operator application (spec
// §3). Once built by the Builder in builder.go it is never modified;
// every derived projection (I, A, O) is computed on demand from the
// immutable fields.
type OpInstance struct {
	Name      string
	NameIndex string

	Args []Argument

	InputTensors  []tensor.AbsTensor
	OutputTensors []tensor.AbsTensor

	InputSymbToValue  map[symbol.Symbol]int
	OutputSymbToValue map[symbol.Symbol]int

	// inputOrder/outputOrder preserve the dense, monotonic symbol
	// assignment order (spec §3 invariant: "indices are dense [0,k)").
	inputOrder  []symbol.Symbol
	outputOrder []symbol.Symbol
}

// I returns every symbol appearing in an input tensor's shape, in
// assignment order (spec §3).
func (oi *OpInstance) I() []symbol.Symbol {
	var syms []symbol.Symbol
	seen := make(map[symbol.Symbol]bool)
	for _, t := range oi.InputTensors {
		for _, s := range t.Shape {
			if !seen[s] {
				seen[s] = true
				syms = append(syms, s)
			}
		}
	}
	return syms
}

// A returns the input symbols that are not in I — the attribute-only
// symbols (spec §3).
func (oi *OpInstance) A() []symbol.Symbol {
	inI := make(map[symbol.Symbol]bool)
	for _, s := range oi.I() {
		inI[s] = true
	}
	var out []symbol.Symbol
	for _, s := range oi.inputOrder {
		if !inI[s] {
			out = append(out, s)
		}
	}
	return out
}

// IA returns I∪A in assignment order — the full input-symbol vector
// every invocation-DB record is keyed by.
func (oi *OpInstance) IA() []symbol.Symbol {
	return oi.inputOrder
}

// O returns the output symbols, in assignment order (spec §3).
func (oi *OpInstance) O() []symbol.Symbol {
	return oi.outputOrder
}

// Validate checks the invariants spec §3 requires of a well-formed
// OpInstance: every symbol in I∪A has a concrete value, every symbol
// in O has a concrete value, and ranks agree with shape lengths.
func (oi *OpInstance) Validate() error {
	for _, s := range oi.IA() {
		if _, ok := oi.InputSymbToValue[s]; !ok {
			return fmt.Errorf("oi: input symbol %s has no recorded value: %w", s, errs.ShapeArityMismatch)
		}
	}
	for _, s := range oi.O() {
		if _, ok := oi.OutputSymbToValue[s]; !ok {
			return fmt.Errorf("oi: output symbol %s has no recorded value: %w", s, errs.ShapeArityMismatch)
		}
	}
	for _, t := range oi.InputTensors {
		for _, s := range t.Shape {
			if _, ok := oi.InputSymbToValue[s]; !ok {
				return fmt.Errorf("oi: tensor shape symbol %s unbound: %w", s, errs.ShapeArityMismatch)
			}
		}
	}
	return nil
}

func (oi *OpInstance) String() string {
	return fmt.Sprintf("OpInstance<%s>(I=%v A=%v O=%v)", oi.NameIndex, oi.I(), oi.A(), oi.O())
}

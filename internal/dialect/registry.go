// Package dialect implements the dialect-rule matcher of spec §4.7
// (component C8): a fixed catalogue of hand-written operator rule
// classes, each able to answer "does this class match the operator
// instance I was traced with" by replaying every success/fail record
// through its own requires()/type_transfer() predicates against
// concrete (record-derived) tensor shapes.
//
// The catalogue is grounded on nnsmith_rules.py's ATTR_FREE_RULES
// registry in original_source/ (element-wise, broadcasting-binary,
// and Triu/Tril rule classes are the ones nnsmith_rules.py names
// explicitly, including Triu/Tril's special-cased diagonal=1
// instantiation); the matcher loop itself mirrors solve_inst in that
// file.
package dialect

import (
	"github.com/gitrdm/autoinfer/internal/errs"
	"github.com/gitrdm/autoinfer/internal/tensor"
)

// ConcreteTensor is a fully-resolved tensor shape, the form a dialect
// rule class reasons over (nnsmith_rules.py's abs_to_concrete output).
type ConcreteTensor struct {
	Shape []int
	DType tensor.DType
}

func (t ConcreteTensor) Rank() int { return len(t.Shape) }

// RuleClass is one hand-written operator shape-function the matcher
// tries against a traced instance (spec §4.7).
type RuleClass interface {
	Name() string
	NInput() int
	NOutput() int

	// Requires reports the predicates a dialect imposes on the given
	// concrete input tensors; a false entry means the class rejects
	// this input.
	Requires(inputs []ConcreteTensor) []bool

	// TypeTransfer computes the class's predicted output tensors for
	// the given concrete inputs, or returns errs.ConstraintError when
	// the class's own shape function cannot apply.
	TypeTransfer(inputs []ConcreteTensor) ([]ConcreteTensor, error)
}

// Registry is the ordered catalogue the matcher walks, matching
// ATTR_FREE_RULES's fixed iteration order so that match-index output
// is deterministic across runs (spec §8).
var Registry = []RuleClass{
	ElementWiseUnary{},
	BcastBinary{},
	Triu{Diagonal: 1},
	Tril{Diagonal: 1},
	Transpose2D{},
}

// ElementWiseUnary is the simplest dialect: one input, one output,
// output shape and dtype identical to the input (spec glossary,
// "element-wise").
type ElementWiseUnary struct{}

func (ElementWiseUnary) Name() string                              { return "ElementWiseUnary" }
func (ElementWiseUnary) NInput() int                                { return 1 }
func (ElementWiseUnary) NOutput() int                               { return 1 }
func (ElementWiseUnary) Requires(inputs []ConcreteTensor) []bool    { return []bool{len(inputs) == 1} }

func (ElementWiseUnary) TypeTransfer(inputs []ConcreteTensor) ([]ConcreteTensor, error) {
	if len(inputs) != 1 {
		return nil, errs.ConstraintError
	}
	return []ConcreteTensor{inputs[0]}, nil
}

// BcastBinary is the NumPy-style broadcasting binary operator: two
// inputs, one output, whose rank is the max of the two input ranks
// and whose aligned trailing dimensions pairwise-broadcast (each pair
// equal, or one of them is 1). This is the rule class
// nnsmith_rules.py's ATTR_FREE_RULES leads with for binary arithmetic
// ops.
type BcastBinary struct{}

func (BcastBinary) Name() string { return "BcastBinaryOp" }
func (BcastBinary) NInput() int  { return 2 }
func (BcastBinary) NOutput() int { return 1 }

func (BcastBinary) Requires(inputs []ConcreteTensor) []bool {
	if len(inputs) != 2 {
		return []bool{false}
	}
	return []bool{inputs[0].DType == inputs[1].DType}
}

func (BcastBinary) TypeTransfer(inputs []ConcreteTensor) ([]ConcreteTensor, error) {
	if len(inputs) != 2 {
		return nil, errs.ConstraintError
	}
	a, b := inputs[0].Shape, inputs[1].Shape
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		da, db := dimFromEnd(a, i), dimFromEnd(b, i)
		switch {
		case da == 1:
			out[n-1-i] = db
		case db == 1:
			out[n-1-i] = da
		case da == db:
			out[n-1-i] = da
		default:
			return nil, errs.ConstraintError
		}
	}
	return []ConcreteTensor{{Shape: out, DType: inputs[0].DType}}, nil
}

func dimFromEnd(shape []int, i int) int {
	idx := len(shape) - 1 - i
	if idx < 0 {
		return 1
	}
	return shape[idx]
}

// Triu zeroes all elements below the given diagonal of a 2D+ tensor;
// shape and dtype pass through unchanged (spec glossary). Matches
// nnsmith_rules.py's special-cased `Triu(diagonal=1)` instantiation.
type Triu struct{ Diagonal int }

func (Triu) Name() string  { return "Triu" }
func (Triu) NInput() int   { return 1 }
func (Triu) NOutput() int  { return 1 }
func (Triu) Requires(inputs []ConcreteTensor) []bool {
	if len(inputs) != 1 {
		return []bool{false}
	}
	return []bool{inputs[0].Rank() >= 2}
}
func (Triu) TypeTransfer(inputs []ConcreteTensor) ([]ConcreteTensor, error) {
	if len(inputs) != 1 || inputs[0].Rank() < 2 {
		return nil, errs.ConstraintError
	}
	return []ConcreteTensor{inputs[0]}, nil
}

// Tril is Triu's lower-triangular twin.
type Tril struct{ Diagonal int }

func (Tril) Name() string  { return "Tril" }
func (Tril) NInput() int   { return 1 }
func (Tril) NOutput() int  { return 1 }
func (Tril) Requires(inputs []ConcreteTensor) []bool {
	if len(inputs) != 1 {
		return []bool{false}
	}
	return []bool{inputs[0].Rank() >= 2}
}
func (Tril) TypeTransfer(inputs []ConcreteTensor) ([]ConcreteTensor, error) {
	if len(inputs) != 1 || inputs[0].Rank() < 2 {
		return nil, errs.ConstraintError
	}
	return []ConcreteTensor{inputs[0]}, nil
}

// Transpose2D swaps the last two dimensions of a rank >= 2 tensor.
type Transpose2D struct{}

func (Transpose2D) Name() string { return "Transpose2D" }
func (Transpose2D) NInput() int  { return 1 }
func (Transpose2D) NOutput() int { return 1 }
func (Transpose2D) Requires(inputs []ConcreteTensor) []bool {
	if len(inputs) != 1 {
		return []bool{false}
	}
	return []bool{inputs[0].Rank() >= 2}
}
func (Transpose2D) TypeTransfer(inputs []ConcreteTensor) ([]ConcreteTensor, error) {
	if len(inputs) != 1 || inputs[0].Rank() < 2 {
		return nil, errs.ConstraintError
	}
	shape := append([]int(nil), inputs[0].Shape...)
	n := len(shape)
	shape[n-1], shape[n-2] = shape[n-2], shape[n-1]
	return []ConcreteTensor{{Shape: shape, DType: inputs[0].DType}}, nil
}

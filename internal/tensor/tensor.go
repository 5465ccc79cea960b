// Package tensor implements the abstract-value hierarchy of spec §3:
// abstract tensors, abstract integers, and opaque attribute values.
// Abstract tensors are value types — substitution returns a new
// tensor rather than mutating shape in place, per the re-architecture
// note in spec §9 ("Mutability of abstract tensors").
package tensor

import (
	"fmt"
	"strings"

	"github.com/gitrdm/autoinfer/internal/symbol"
)

// DType enumerates the element types the core tracks. The core never
// interprets dtype beyond equality/compatibility checks — concrete
// execution is an external collaborator's concern (spec §1).
type DType string

const (
	Float32 DType = "float32"
	Float64 DType = "float64"
	Int32   DType = "int32"
	Int64   DType = "int64"
	Bool    DType = "bool"
	Complex DType = "complex64"
)

// AbsTensor is the tuple (rank, shape, dtype) of spec §3. Rank is
// fixed once bound; shape is a sequence of symbol names of length
// rank.
type AbsTensor struct {
	Shape []symbol.Symbol
	DType DType
}

// NewAbsTensor builds an abstract tensor from its symbolic shape and
// dtype. Rank is derived from len(shape), matching the invariant in
// spec §3 that rank equals the length of the shape list.
func NewAbsTensor(shape []symbol.Symbol, dtype DType) AbsTensor {
	return AbsTensor{Shape: append([]symbol.Symbol(nil), shape...), DType: dtype}
}

// Rank returns the tensor's rank.
func (t AbsTensor) Rank() int { return len(t.Shape) }

// Substitute returns a new tensor with every shape symbol present in
// mapping replaced by its image; symbols absent from mapping are left
// untouched. The receiver is never modified.
func (t AbsTensor) Substitute(mapping map[symbol.Symbol]symbol.Symbol) AbsTensor {
	out := make([]symbol.Symbol, len(t.Shape))
	for i, s := range t.Shape {
		if repl, ok := mapping[s]; ok {
			out[i] = repl
		} else {
			out[i] = s
		}
	}
	return AbsTensor{Shape: out, DType: t.DType}
}

// ConcreteShape resolves every shape symbol against a concrete
// assignment, returning an error if a symbol is unbound.
func (t AbsTensor) ConcreteShape(values map[symbol.Symbol]int) ([]int, error) {
	out := make([]int, len(t.Shape))
	for i, s := range t.Shape {
		v, ok := values[s]
		if !ok {
			return nil, fmt.Errorf("tensor: symbol %s has no concrete value", s)
		}
		out[i] = v
	}
	return out, nil
}

func (t AbsTensor) String() string {
	parts := make([]string, len(t.Shape))
	for i, s := range t.Shape {
		parts[i] = s.String()
	}
	return fmt.Sprintf("AbsTensor<%d>(%s, %s)", t.Rank(), strings.Join(parts, ", "), t.DType)
}

// AbsIntKind distinguishes a symbolic integer attribute from an
// opaque literal one (spec §3, "Abstract attribute").
type AbsIntKind int

const (
	// IntSymbolic carries a reference to a symbol whose value is
	// looked up in the owning operator instance's symbol table.
	IntSymbolic AbsIntKind = iota
	// IntLiteral carries its value directly and is never symbolized.
	// oi.Builder does not produce it: integers kept literal under
	// int_policy "fix"/"fix_dim" become opaque AbsValue arguments.
	IntLiteral
)

// AbsInt is either an abstract integer (a symbol reference) or an
// opaque value carrying its literal, per spec §3.
type AbsInt struct {
	Kind    AbsIntKind
	Symbol  symbol.Symbol
	Literal int
}

// NewSymbolicInt builds a symbol-backed abstract integer.
func NewSymbolicInt(s symbol.Symbol) AbsInt {
	return AbsInt{Kind: IntSymbolic, Symbol: s}
}

// NewLiteralInt builds a literal abstract integer that is never
// exposed to the symbol namespaces.
func NewLiteralInt(v int) AbsInt {
	return AbsInt{Kind: IntLiteral, Literal: v}
}

// Concretize resolves the abstract integer to a concrete value.
func (a AbsInt) Concretize(values map[symbol.Symbol]int) (int, error) {
	if a.Kind == IntLiteral {
		return a.Literal, nil
	}
	v, ok := values[a.Symbol]
	if !ok {
		return 0, fmt.Errorf("tensor: symbol %s has no concrete value", a.Symbol)
	}
	return v, nil
}

func (a AbsInt) String() string {
	if a.Kind == IntLiteral {
		return fmt.Sprintf("%d", a.Literal)
	}
	return a.Symbol.String()
}

// AbsValue is an opaque attribute value carrying its literal Go
// value verbatim (strings, floats, enums, ...). It is never
// symbolized.
type AbsValue struct {
	Value any
}

// NewAbsValue wraps an arbitrary literal.
func NewAbsValue(v any) AbsValue { return AbsValue{Value: v} }

func (a AbsValue) String() string { return fmt.Sprintf("%v", a.Value) }

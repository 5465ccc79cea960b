package oi

import (
	"fmt"

	"github.com/gitrdm/autoinfer/internal/symbol"
	"github.com/gitrdm/autoinfer/internal/tensor"
)

// RawArg is one decoded argument from a record file (spec §6): a
// name, a positional flag, and a value that is either a concrete
// tensor shape+dtype, an integer, or an opaque literal. Nested lists
// are represented recursively via Children.
type RawArg struct {
	Name       string
	Positional bool

	IsTensor bool
	Shape    []int
	DType    tensor.DType

	IsInt bool
	Int   int

	Opaque any

	Children []RawArg // non-nil for list-valued arguments
}

// RawRecord is the decoded form of one record file: an operator name,
// its ordered argument list, and the concrete output tensors.
type RawRecord struct {
	Name    string
	Args    []RawArg
	Outputs []RawArg
}

// Builder constructs OpInstance values from RawRecords, assigning
// dense sN/oN symbols as it walks each argument (spec §3, "_add_input_arg").
type Builder struct {
	Policy IntPolicy
}

// NewBuilder returns a Builder using the given int policy.
func NewBuilder(policy IntPolicy) *Builder {
	return &Builder{Policy: policy}
}

// Build parses one raw record into an OpInstance, assigning symbol
// indices in traversal order for both the input and output namespace.
func (b *Builder) Build(nameIndex string, rec RawRecord) (*OpInstance, error) {
	inst := &OpInstance{
		Name:              rec.Name,
		NameIndex:         nameIndex,
		InputSymbToValue:  make(map[symbol.Symbol]int),
		OutputSymbToValue: make(map[symbol.Symbol]int),
	}

	for _, raw := range rec.Args {
		arg, err := b.buildArg(inst, rec.Name, raw)
		if err != nil {
			return nil, err
		}
		inst.Args = append(inst.Args, arg)
	}

	for _, out := range rec.Outputs {
		t, err := b.buildOutputTensor(inst, out)
		if err != nil {
			return nil, err
		}
		inst.OutputTensors = append(inst.OutputTensors, t)
	}

	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

func (b *Builder) buildArg(inst *OpInstance, opName string, raw RawArg) (Argument, error) {
	if raw.Children != nil {
		children := make([]Argument, len(raw.Children))
		for i, c := range raw.Children {
			child, err := b.buildArg(inst, opName, c)
			if err != nil {
				return Argument{}, err
			}
			children[i] = child
		}
		return Argument{Name: raw.Name, Positional: raw.Positional, Kind: ArgList, List: children}, nil
	}

	if raw.IsTensor {
		shape := make([]symbol.Symbol, len(raw.Shape))
		for i, dim := range raw.Shape {
			s := symbol.New(symbol.Input, len(inst.InputSymbToValue))
			inst.InputSymbToValue[s] = dim
			inst.inputOrder = append(inst.inputOrder, s)
			shape[i] = s
		}
		t := tensor.NewAbsTensor(shape, raw.DType)
		inst.InputTensors = append(inst.InputTensors, t)
		return Argument{Name: raw.Name, Positional: raw.Positional, Kind: ArgTensor, Tensor: t}, nil
	}

	if raw.IsInt && !b.Policy.KeepLiteral(opName, raw.Name) {
		s := symbol.New(symbol.Input, len(inst.InputSymbToValue))
		inst.InputSymbToValue[s] = raw.Int
		inst.inputOrder = append(inst.inputOrder, s)
		return Argument{Name: raw.Name, Positional: raw.Positional, Kind: ArgInt, Int: tensor.NewSymbolicInt(s)}, nil
	}

	var value any = raw.Opaque
	if raw.IsInt {
		value = raw.Int
	}
	return Argument{Name: raw.Name, Positional: raw.Positional, Kind: ArgOpaque, Opaque: tensor.NewAbsValue(value)}, nil
}

func (b *Builder) buildOutputTensor(inst *OpInstance, raw RawArg) (tensor.AbsTensor, error) {
	if !raw.IsTensor {
		return tensor.AbsTensor{}, fmt.Errorf("oi: non-tensor output is not supported")
	}
	shape := make([]symbol.Symbol, len(raw.Shape))
	for i, dim := range raw.Shape {
		s := symbol.New(symbol.Output, len(inst.OutputSymbToValue))
		inst.OutputSymbToValue[s] = dim
		inst.outputOrder = append(inst.outputOrder, s)
		shape[i] = s
	}
	return tensor.NewAbsTensor(shape, raw.DType), nil
}

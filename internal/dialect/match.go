package dialect

import (
	"github.com/gitrdm/autoinfer/internal/invocdb"
	"github.com/gitrdm/autoinfer/internal/oi"
)

// Match runs C8 against inst's invocation database: a rule class is
// reported as matching iff arities agree, it accepts and correctly
// predicts every success record's output shapes, and it rejects every
// non-negative failing record (spec §4.7).
func Match(inst *oi.OpInstance, db *invocdb.DB) []int {
	nInput := len(inst.InputTensors)
	nOutput := len(inst.OutputTensors)
	successes := db.Success()
	fails := nonNegativeFails(db.Fail())

	var matches []int
	for idx, class := range Registry {
		if class.NInput() != nInput || class.NOutput() != nOutput {
			continue
		}
		if matchesClass(class, inst, successes, fails) {
			matches = append(matches, idx)
		}
	}
	return matches
}

func matchesClass(class RuleClass, inst *oi.OpInstance, successes, fails []invocdb.Record) bool {
	for _, r := range successes {
		inputs, ok := concreteInputs(inst, r.Inputs)
		if !ok {
			return false
		}
		for _, req := range class.Requires(inputs) {
			if !req {
				return false
			}
		}
		outputs, err := class.TypeTransfer(inputs)
		if err != nil {
			return false
		}
		declared, ok := concreteOutputs(inst, r.Outputs)
		if !ok || !shapesEqual(outputs, declared) {
			return false
		}
	}
	for _, r := range fails {
		inputs, ok := concreteInputs(inst, r.Inputs)
		if !ok {
			continue
		}
		rejected := false
		for _, req := range class.Requires(inputs) {
			if !req {
				rejected = true
				break
			}
		}
		if !rejected {
			if _, err := class.TypeTransfer(inputs); err != nil {
				rejected = true
			}
		}
		if !rejected {
			return false
		}
	}
	return true
}

// ResolveInputs resolves inst's input tensors' shape symbols against a
// flat input-value vector indexed in inst.IA() order, for use by
// callers outside this package that need the same concrete-tensor
// projection the matcher itself uses (e.g. a reference oracle backed
// by this registry).
func ResolveInputs(inst *oi.OpInstance, values []int) ([]ConcreteTensor, bool) {
	ptrs := make([]*int, len(values))
	for i := range values {
		ptrs[i] = &values[i]
	}
	return concreteInputs(inst, ptrs)
}

// concreteInputs resolves inst's input tensors' shape symbols against
// a record's flat input-value vector (indexed in inst.IA() order).
func concreteInputs(inst *oi.OpInstance, values []*int) ([]ConcreteTensor, bool) {
	ia := inst.IA()
	valueOf := make(map[int]int, len(ia))
	for i, s := range ia {
		if i >= len(values) || values[i] == nil {
			return nil, false
		}
		valueOf[s.Index] = *values[i]
	}
	out := make([]ConcreteTensor, len(inst.InputTensors))
	for i, t := range inst.InputTensors {
		shape := make([]int, len(t.Shape))
		for j, s := range t.Shape {
			v, ok := valueOf[s.Index]
			if !ok {
				return nil, false
			}
			shape[j] = v
		}
		out[i] = ConcreteTensor{Shape: shape, DType: t.DType}
	}
	return out, true
}

// concreteOutputs resolves inst's output tensors' shape symbols
// against a record's flat output-value vector (indexed in inst.O()
// order).
func concreteOutputs(inst *oi.OpInstance, values []*int) ([]ConcreteTensor, bool) {
	o := inst.O()
	valueOf := make(map[int]int, len(o))
	for i, s := range o {
		if i >= len(values) || values[i] == nil {
			return nil, false
		}
		valueOf[s.Index] = *values[i]
	}
	out := make([]ConcreteTensor, len(inst.OutputTensors))
	for i, t := range inst.OutputTensors {
		shape := make([]int, len(t.Shape))
		for j, s := range t.Shape {
			v, ok := valueOf[s.Index]
			if !ok {
				return nil, false
			}
			shape[j] = v
		}
		out[i] = ConcreteTensor{Shape: shape, DType: t.DType}
	}
	return out, true
}

func shapesEqual(a, b []ConcreteTensor) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].DType != b[i].DType || len(a[i].Shape) != len(b[i].Shape) {
			return false
		}
		for j := range a[i].Shape {
			if a[i].Shape[j] != b[i].Shape[j] {
				return false
			}
		}
	}
	return true
}

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

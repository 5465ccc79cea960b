package oracle

import (
	"github.com/gitrdm/autoinfer/internal/dialect"
	"github.com/gitrdm/autoinfer/internal/oi"
)

// DialectOracle is a reference Oracle implementation for
// demonstration and testing: it answers a probe by replaying the
// candidate input assignment through the same dialect-rule registry
// C8 matches against, accepting the first class whose arity and
// Requires predicates hold and reporting its TypeTransfer output.
//
// cmd/autoinfer's stages always probe through DialectOracle, so they
// run end to end without a real framework backend; the DEVICE
// environment variable is not consulted when choosing the oracle.
type DialectOracle struct{}

// NewDialectOracle returns a DialectOracle.
func NewDialectOracle() DialectOracle { return DialectOracle{} }

// Invoke implements Oracle.
func (DialectOracle) Invoke(inst *oi.OpInstance, inputValues []int) (Outcome, error) {
	concreteInputs, ok := dialect.ResolveInputs(inst, inputValues)
	if !ok {
		return Outcome{Valid: false}, nil
	}
	for _, class := range dialect.Registry {
		if class.NInput() != len(concreteInputs) || class.NOutput() != len(inst.OutputTensors) {
			continue
		}
		rejected := false
		for _, req := range class.Requires(concreteInputs) {
			if !req {
				rejected = true
				break
			}
		}
		if rejected {
			continue
		}
		outputs, err := class.TypeTransfer(concreteInputs)
		if err != nil {
			continue
		}
		var flat []int
		for _, t := range outputs {
			flat = append(flat, t.Shape...)
		}
		return Outcome{Valid: true, Outputs: flat}, nil
	}
	return Outcome{Valid: false}, nil
}

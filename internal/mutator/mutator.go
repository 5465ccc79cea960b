// Package mutator implements component C5 of spec §4.4: given one
// recorded successful invocation, probe nearby input assignments
// through the oracle to grow the operator's invocation database with
// additional success and failure records the shape/constraint rule
// synthesisers can then generalize from.
//
// The schedule below is grounded on api_parsing.py's mutate/
// mutateTarget/add_new_input functions in original_source/: single
// symbol inequality probes, pairwise swap/inequality probes, then
// bounded subset-delta sweeps (all-subsets, single-symbol, pairwise),
// each gated by the same caps the original hard-codes.
package mutator

import (
	"github.com/gitrdm/autoinfer/internal/config"
	"github.com/gitrdm/autoinfer/internal/invocdb"
	"github.com/gitrdm/autoinfer/internal/oi"
	"github.com/gitrdm/autoinfer/internal/symbol"
	"github.com/gitrdm/autoinfer/pkg/oracle"
)

// Mutator drives the mutation schedule against one operator's oracle
// and invocation database, honoring the caps in cfg and the
// per-operator skip-list (spec §4.4, "skip_mutation_api").
type Mutator struct {
	cfg    *config.Config
	oracle oracle.Oracle
}

// New builds a Mutator bound to the given config and oracle.
func New(cfg *config.Config, o oracle.Oracle) *Mutator {
	return &Mutator{cfg: cfg, oracle: o}
}

// Skip reports whether opName is on the config's mutation skip-list
// (spec §4.4: some operators' semantics make input mutation unsafe or
// meaningless to probe, e.g. ones with side effects on global state).
func (m *Mutator) Skip(opName string) bool {
	for _, n := range m.cfg.SkipMutationAPIs {
		if n == opName {
			return true
		}
	}
	return false
}

// probe re-evaluates inst with the given input-symbol assignment
// (indexed 0..len(values)-1 as s0, s1, ...) through the oracle, and
// adds the record to db only when the output arity matches
// outputLen — an output of a different arity than the seed record
// indicates the oracle returned a result for a structurally different
// call shape, which add_new_input in the original rejects rather than
// recording as a same-shape variant.
func (m *Mutator) probe(inst *oi.OpInstance, db *invocdb.DB, values []int, outputLen int) error {
	outcome, err := m.oracle.Invoke(inst, values)
	if err != nil {
		return err
	}
	if !outcome.Valid {
		db.Add(intPtrs(values), nil)
		return nil
	}
	if len(outcome.Outputs) != outputLen {
		return nil
	}
	db.Add(intPtrs(values), intPtrs(outcome.Outputs))
	return nil
}

func intPtrs(vs []int) []*int {
	out := make([]*int, len(vs))
	for i, v := range vs {
		v := v
		out[i] = &v
	}
	return out
}

func copyValues(vs []int) []int {
	out := make([]int, len(vs))
	copy(out, vs)
	return out
}

// Mutate runs the full schedule against one seed record, adding every
// structurally-consistent probe outcome to db. seed.Inputs must have
// no nil entries (a seed record is always a fully concrete success
// record).
func (m *Mutator) Mutate(inst *oi.OpInstance, db *invocdb.DB, seed invocdb.Record) error {
	mutateCount := len(seed.Inputs)
	outputLen := len(seed.Outputs)
	base := make([]int, mutateCount)
	for i, p := range seed.Inputs {
		base[i] = *p
	}
	shapeSymbols := inst.I()
	isShapeSymbol := make(map[int]bool, len(shapeSymbols))
	for _, s := range shapeSymbols {
		isShapeSymbol[s.Index] = true
	}

	// 1-symbol inequality: shape symbols are skipped since "shape > 0"
	// is a trivial rule already implied by tensors having positive
	// extents.
	for i := 0; i < mutateCount; i++ {
		if isShapeSymbol[i] {
			continue
		}
		v := copyValues(base)
		v[i] = 0
		if err := m.probe(inst, db, v, outputLen); err != nil {
			return err
		}
		v = copyValues(base)
		v[i] = -2
		if err := m.probe(inst, db, v, outputLen); err != nil {
			return err
		}
	}

	// 2-symbol inequality / swap.
	for i := 0; i < mutateCount; i++ {
		for j := i + 1; j < mutateCount; j++ {
			v := copyValues(base)
			if v[i] == v[j] {
				v[j]++
				if err := m.probe(inst, db, v, outputLen); err != nil {
					return err
				}
			}
			v = copyValues(base)
			v[i], v[j] = v[j], v[i]
			if err := m.probe(inst, db, v, outputLen); err != nil {
				return err
			}
		}
	}

	if mutateCount <= m.cfg.MutatorAllSubsetsCap {
		for mask := symbol.Set(1); mask < symbol.Set(1)<<uint(mutateCount); mask++ {
			v := applyDelta(base, mask, 2)
			if err := m.probe(inst, db, v, outputLen); err != nil {
				return err
			}
		}
	}

	if mutateCount <= m.cfg.MutatorSingleCap {
		for i := 0; i < mutateCount; i++ {
			for delta := 1; delta <= 3; delta++ {
				v := applyDelta(base, symbol.SetOf(i), delta)
				if err := m.probe(inst, db, v, outputLen); err != nil {
					return err
				}
			}
		}
	}

	if mutateCount <= m.cfg.MutatorPairCap {
		for i := 0; i < mutateCount; i++ {
			for j := i + 1; j < mutateCount; j++ {
				for delta := 1; delta <= 2; delta++ {
					v := applyDelta(base, symbol.SetOf(i).Add(j), delta)
					if err := m.probe(inst, db, v, outputLen); err != nil {
						return err
					}
				}
			}
		}
	}

	return nil
}

// applyDelta returns base with delta added to every index named by
// mask (spec §4.4's mutateTarget).
func applyDelta(base []int, mask symbol.Set, delta int) []int {
	v := copyValues(base)
	for i := range v {
		if mask.Has(i) {
			v[i] += delta
		}
	}
	return v
}

// MutateUntilCap runs Mutate across records in order, stopping once
// the database's success count reaches the config's success cap —
// mirroring generate_inst_invocations' "mutated and
// OpDB.InvocationCount(type=success) >= 100" early exit, which only
// takes effect after at least one record has already been mutated.
func (m *Mutator) MutateUntilCap(inst *oi.OpInstance, db *invocdb.DB, records []invocdb.Record) error {
	mutatedOnce := false
	for _, rec := range records {
		if mutatedOnce && db.Count("success") >= m.cfg.MutatorSuccessCap {
			continue
		}
		if err := m.Mutate(inst, db, rec); err != nil {
			return err
		}
		mutatedOnce = true
	}
	return nil
}

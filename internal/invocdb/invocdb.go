// Package invocdb implements the per-operator invocation database of
// spec §4.3 (component C4): a store of success/failure shape tuples
// with de-duplication and symbol-aliasing analysis.
package invocdb

import (
	"fmt"
	"sort"

	"github.com/gitrdm/autoinfer/internal/errs"
)

// Record is one concrete invocation's input vector, and — for
// successes — its output vector. Values are ints; a nil in Inputs
// marks a non-integer attribute that could not be recorded as a
// shape/attribute symbol (spec §3, "value or ⊥").
type Record struct {
	Inputs  []*int
	Outputs []*int // nil for a fail-set entry
}

// key produces a de-duplication key for Add: two records with equal
// (Inputs, Outputs) tuples are the same record (spec §3).
func (r Record) key() string {
	return fmt.Sprintf("%v|%v", intSliceKey(r.Inputs), intSliceKey(r.Outputs))
}

func intSliceKey(vs []*int) string {
	s := ""
	for _, v := range vs {
		if v == nil {
			s += "_,"
		} else {
			s += fmt.Sprintf("%d,", *v)
		}
	}
	return s
}

// DB is one operator instance's invocation database: the disjoint
// success and fail sets of spec §3.
type DB struct {
	success map[string]Record
	fail    map[string]Record

	Aliases   [][2]int
	Related   [][]int
	Unrelated [][]int
}

// New returns an empty invocation database.
func New() *DB {
	return &DB{success: make(map[string]Record), fail: make(map[string]Record)}
}

// Add places a record into the success set (when outputs is non-nil)
// or the fail set otherwise, de-duplicating by tuple equality.
func (db *DB) Add(inputs []*int, outputs []*int) {
	r := Record{Inputs: inputs, Outputs: outputs}
	if outputs != nil {
		db.success[r.key()] = r
	} else {
		db.fail[r.key()] = Record{Inputs: inputs}
	}
}

// Count returns the cardinality of the success set ("success"), the
// fail set ("fail"), or both when kind is empty.
func (db *DB) Count(kind string) int {
	switch kind {
	case "success":
		return len(db.success)
	case "fail":
		return len(db.fail)
	default:
		return len(db.success) + len(db.fail)
	}
}

// Success returns the success records in a stable, sorted order (by
// key) so that downstream synthesis is deterministic.
func (db *DB) Success() []Record {
	return sortedRecords(db.success)
}

// Fail returns the fail records in a stable, sorted order.
func (db *DB) Fail() []Record {
	return sortedRecords(db.fail)
}

func sortedRecords(m map[string]Record) []Record {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Record, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}

// ValidityCheck verifies the invariant spec §4.3 states: every
// success input tuple has the same arity. A mismatch is fatal for the
// operator (spec §7, ShapeArityMismatch) — its rule files must not be
// written.
func (db *DB) ValidityCheck() error {
	arity := -1
	for _, r := range db.Success() {
		if arity == -1 {
			arity = len(r.Inputs)
			continue
		}
		if len(r.Inputs) != arity {
			return fmt.Errorf("invocdb: success record arity %d != %d: %w", len(r.Inputs), arity, errs.ShapeArityMismatch)
		}
	}
	return nil
}

// CheckDuplicateSym reports whether indices contains both members of
// any alias pair, used by the shape-rule synthesiser to prune
// subsets that would only ever reproduce an already-seen rule under
// the symbols' forced equality (spec §4.5).
func (db *DB) CheckDuplicateSym(indices []int) bool {
	inSet := make(map[int]bool, len(indices))
	for _, i := range indices {
		inSet[i] = true
	}
	for _, pair := range db.Aliases {
		if inSet[pair[0]] && inSet[pair[1]] {
			return true
		}
	}
	return false
}

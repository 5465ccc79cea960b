package invocdb

import "sort"

// Analyse computes Aliases, Related, and Unrelated from the current
// success set, grounded on api_parsing.py's OpDatabase.analyze_symbol:
//
//   - Aliases: pairs of input-symbol indices equal across every
//     success record (candidates for C6's alias-pruning).
//   - Unrelated[k]: input-symbol indices known NOT to influence output
//     k, either because the argument is non-integer (⊥) or because two
//     records differing in exactly that one argument produced the same
//     k-th output.
//   - Related[k]: input-symbol indices implicated in output k changing,
//     when one to three input symbols differ between two records and
//     output k differs between them.
//
// Analyse should be called once, after the invocation database has been
// fully populated (including by the mutator), and before C6/C7 run.
func (db *DB) Analyse() {
	records := db.Success()
	if len(records) == 0 {
		return
	}
	inputLen := len(records[0].Inputs)
	outputLen := 0
	for _, r := range records {
		if len(r.Outputs) > outputLen {
			outputLen = len(r.Outputs)
		}
	}

	db.Aliases = nil
	for i := 0; i < inputLen-1; i++ {
		for j := i + 1; j < inputLen; j++ {
			alias := true
			for _, r := range records {
				if !intPtrEq(r.Inputs[i], r.Inputs[j]) {
					alias = false
					break
				}
			}
			if alias {
				db.Aliases = append(db.Aliases, [2]int{i, j})
			}
		}
	}

	relatedSets := make([]map[int]bool, outputLen)
	unrelatedSets := make([]map[int]bool, outputLen)
	for k := range relatedSets {
		relatedSets[k] = make(map[int]bool)
		unrelatedSets[k] = make(map[int]bool)
	}

	for _, r := range records {
		for j, v := range r.Inputs {
			if v == nil {
				for k := range unrelatedSets {
					unrelatedSets[k][j] = true
				}
			}
		}
	}

	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			a, b := records[i], records[j]
			diff := diffIndices(a.Inputs, b.Inputs)
			cmpLen := len(a.Outputs)
			if len(b.Outputs) < cmpLen {
				cmpLen = len(b.Outputs)
			}
			if len(diff) > 0 && len(diff) <= 3 {
				for k := 0; k < cmpLen; k++ {
					if !intPtrEq(a.Outputs[k], b.Outputs[k]) {
						for _, argNum := range diff {
							relatedSets[k][argNum] = true
						}
					}
				}
			}
			if len(diff) == 1 {
				for k := 0; k < cmpLen; k++ {
					if intPtrEq(a.Outputs[k], b.Outputs[k]) {
						unrelatedSets[k][diff[0]] = true
					}
				}
			}
		}
	}

	db.Related = setsToSortedSlices(relatedSets)
	db.Unrelated = setsToSortedSlices(unrelatedSets)
}

func intPtrEq(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// diffIndices returns the indices at which a and b's input vectors
// differ, shorter-length-bounded (both vectors are always the same
// arity for one operator's records, but this is defensive).
func diffIndices(a, b []*int) []int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var out []int
	for i := 0; i < n; i++ {
		if !intPtrEq(a[i], b[i]) {
			out = append(out, i)
		}
	}
	return out
}

func setsToSortedSlices(sets []map[int]bool) [][]int {
	out := make([][]int, len(sets))
	for k, set := range sets {
		vals := make([]int, 0, len(set))
		for v := range set {
			vals = append(vals, v)
		}
		sort.Ints(vals)
		out[k] = vals
	}
	return out
}

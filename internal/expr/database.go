package expr

import (
	"sort"

	"github.com/gitrdm/autoinfer/internal/symbol"
)

// probeVector is the single fixed random-integer probe spec §3
// evaluates candidate trees against for canonicalization. The values
// are large and pairwise distinct so that two argument leaves never
// collide by accident. SPEC_FULL.md §D.3 records the decision to use
// exactly one probe vector (no collision-hardening second probe),
// since a second probe would change the canonical set's identity and
// spec §8 requires byte-identical rule files across reruns.
var probeVector = [...]int{104729, 105881, 104723, 101111, 103417}

// Database is the memoised, canonicalized set of expression trees
// produced by Build. Trees() returns them in the canonical
// enumeration order spec §8 requires: non-decreasing (height,
// popcount(ArgSet)), ties broken by deterministic generation order.
type Database struct {
	maxHeight int
	maxArgs   int
	enableDiv bool

	trees []Tree

	// byHeight[h] holds indices into trees for height exactly h, in
	// generation order, used to build taller trees out of shorter
	// ones.
	byHeight [][]int

	// bySlot[height][argSet] holds indices into trees for that exact
	// slot, supporting GetTree.
	bySlot map[int]map[symbol.Set][]int
}

// Build constructs the canonical expression-tree database for the
// given bounds. Build is deterministic: the same (maxHeight, maxArgs,
// enableDiv) always yields byte-identical trees in the same order.
func Build(maxHeight, maxArgs int, enableDiv bool) *Database {
	db := &Database{
		maxHeight: maxHeight,
		maxArgs:   maxArgs,
		enableDiv: enableDiv,
		byHeight:  make([][]int, maxHeight+1),
		bySlot:    make(map[int]map[symbol.Set][]int),
	}

	seen := make(map[symbol.Set]map[int]bool)

	accept := func(height int, argSet symbol.Set, root *Node) bool {
		val := root.eval(probeVector[:maxArgs])
		if seen[argSet] == nil {
			seen[argSet] = make(map[int]bool)
		}
		if seen[argSet][val] {
			return false
		}
		seen[argSet][val] = true
		idx := len(db.trees)
		db.trees = append(db.trees, Tree{Height: height, ArgSet: argSet, root: root})
		db.byHeight[height] = append(db.byHeight[height], idx)
		if db.bySlot[height] == nil {
			db.bySlot[height] = make(map[symbol.Set][]int)
		}
		db.bySlot[height][argSet] = append(db.bySlot[height][argSet], idx)
		return true
	}

	// Height 0: literal leaves and argument placeholders.
	for _, lit := range []int{1, 2} {
		accept(0, 0, litNode(lit))
	}
	for i := 0; i < maxArgs; i++ {
		accept(0, symbol.SetOf(i), argNode(i))
	}

	ops := []Op{Add, Sub, Mul}
	if enableDiv {
		ops = append(ops, Div)
	}

	for h := 1; h <= maxHeight; h++ {
		type candidate struct {
			argSet symbol.Set
			root   *Node
		}
		var raw []candidate

		combine := func(hl, hr int) {
			for _, li := range db.byHeight[hl] {
				left := db.trees[li]
				for _, ri := range db.byHeight[hr] {
					right := db.trees[ri]
					for _, op := range ops {
						if op == Div && right.root.eval(probeVector[:maxArgs]) == 0 {
							continue
						}
						node := binNode(op, left.root, right.root)
						if node.hasDivByZero(probeVector[:maxArgs]) {
							continue
						}
						raw = append(raw, candidate{argSet: left.ArgSet | right.ArgSet, root: node})
					}
				}
			}
		}
		// Every pair (hl, hr) with hl, hr <= h-1 and max(hl, hr) == h-1
		// becomes a height-h candidate (spec §4.1). Split into hl
		// fixed at h-1 (hr ranges over everything, including h-1
		// itself) and hr fixed at h-1 with hl strictly below, so each
		// ordered pair is visited exactly once.
		for hr := 0; hr <= h-1; hr++ {
			combine(h-1, hr)
		}
		for hl := 0; hl <= h-2; hl++ {
			combine(hl, h-1)
		}

		// Stable sort by popcount(argSet) ascending, preserving
		// generation order for ties, then run canonical dedup in
		// that order (spec §8: non-decreasing (height, popcount)).
		sort.SliceStable(raw, func(i, j int) bool {
			return raw[i].argSet.Popcount() < raw[j].argSet.Popcount()
		})
		for _, c := range raw {
			accept(h, c.argSet, c.root)
		}
	}

	return db
}

// Trees returns the full canonical set in enumeration order.
func (db *Database) Trees() []Tree {
	return db.trees
}

// GetTree returns the i-th tree for the given (height, argSet) slot.
func (db *Database) GetTree(height int, argSet symbol.Set, i int) (Tree, bool) {
	slot, ok := db.bySlot[height]
	if !ok {
		return Tree{}, false
	}
	indices, ok := slot[argSet]
	if !ok || i >= len(indices) {
		return Tree{}, false
	}
	return db.trees[indices[i]], true
}

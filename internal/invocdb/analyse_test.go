package invocdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyseDetectsAlias(t *testing.T) {
	db := New()
	// Inputs (s0, s1) always equal across every success record -> alias.
	db.Add(ip(4, 4), ip(4))
	db.Add(ip(8, 8), ip(8))
	db.Add(ip(2, 2), ip(2))
	db.Analyse()

	assert.Contains(t, db.Aliases, [2]int{0, 1})
}

func TestAnalyseRelatedAndUnrelated(t *testing.T) {
	db := New()
	db.Add(ip(4, 9), ip(4)) // baseline
	db.Add(ip(8, 9), ip(8)) // s0 differs, output differs -> s0 related
	db.Add(ip(4, 2), ip(4)) // s1 differs, output same -> s1 unrelated
	db.Analyse()

	assert.Contains(t, db.Related[0], 0)
	assert.Contains(t, db.Unrelated[0], 1)
}

func TestAnalyseEmptyDBIsNoop(t *testing.T) {
	db := New()
	db.Analyse()
	assert.Nil(t, db.Aliases)
}

package expr

import (
	"testing"

	"github.com/gitrdm/autoinfer/internal/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEnumeratesNonDecreasingOrder(t *testing.T) {
	db := Build(3, 2, true)
	require.NotEmpty(t, db.Trees())

	var lastHeight, lastPop int
	for i, tr := range db.Trees() {
		if i > 0 {
			pop := tr.ArgSet.Popcount()
			if tr.Height == lastHeight {
				assert.GreaterOrEqual(t, pop, lastPop)
			} else {
				assert.Greater(t, tr.Height, lastHeight)
			}
		}
		lastHeight, lastPop = tr.Height, tr.ArgSet.Popcount()
	}
}

func TestBuildRespectsMaxHeight(t *testing.T) {
	db := Build(2, 2, false)
	for _, tr := range db.Trees() {
		assert.LessOrEqual(t, tr.Height, 2)
	}
}

func TestBuildExcludesDivWhenDisabled(t *testing.T) {
	db := Build(2, 2, false)
	for _, tr := range db.Trees() {
		assert.NotContains(t, tr.Display(), "/")
	}
}

func TestGetTreeLookup(t *testing.T) {
	db := Build(3, 3, true)
	tr, ok := db.GetTree(1, symbol.SetOf(0, 1), 0)
	if ok {
		assert.Equal(t, 1, tr.Height)
		assert.Equal(t, 2, tr.ArgSet.Popcount())
	}
}

func TestGetTreeMissingSlot(t *testing.T) {
	db := Build(1, 1, false)
	_, ok := db.GetTree(99, symbol.SetOf(0), 0)
	assert.False(t, ok)
}

package graphgen

import (
	"context"
	"testing"
	"time"

	"github.com/gitrdm/autoinfer/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProducesAtLeastOnePlaceholder(t *testing.T) {
	cfg := config.Default()
	gen := New(cfg, 42, nil)

	graph, err := gen.Generate(context.Background(), Hybrid, 5, time.Second)
	require.NoError(t, err)
	assert.NotEmpty(t, graph.VarIDs())
}

func TestGenerateIsDeterministicForAGivenSeed(t *testing.T) {
	cfg := config.Default()

	gen1 := New(cfg, 7, nil)
	graph1, err := gen1.Generate(context.Background(), Hybrid, 5, time.Second)
	require.NoError(t, err)

	gen2 := New(cfg, 7, nil)
	graph2, err := gen2.Generate(context.Background(), Hybrid, 5, time.Second)
	require.NoError(t, err)

	assert.Equal(t, graph1.VarIDs(), graph2.VarIDs())
	assert.Equal(t, gen1.Model(), gen2.Model())
}

func TestGenerateRespectsMaxNodes(t *testing.T) {
	cfg := config.Default()
	gen := New(cfg, 3, nil)

	graph, err := gen.Generate(context.Background(), Hybrid, 3, 2*time.Second)
	require.NoError(t, err)
	assert.LessOrEqual(t, graph.NodeCount(), 3)
}

func TestConcreteShapeResolvesEveryDimension(t *testing.T) {
	cfg := config.Default()
	gen := New(cfg, 11, nil)

	graph, err := gen.Generate(context.Background(), Hybrid, 4, time.Second)
	require.NoError(t, err)

	for _, id := range graph.VarIDs() {
		v, ok := graph.Var(id)
		require.True(t, ok)
		shape := gen.ConcreteShape(v.Tensor)
		assert.Len(t, shape, v.Tensor.Rank())
		for _, dim := range shape {
			assert.Greater(t, dim, 0)
		}
	}
}

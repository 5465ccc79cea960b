package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/gitrdm/autoinfer/internal/config"
	"github.com/gitrdm/autoinfer/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunGenerateWritesGraphFile(t *testing.T) {
	outDir := t.TempDir()
	flags := &commonFlags{outDir: outDir, seed: 5}
	cfg := config.Default()
	cfg.GenTimeout = 500 * time.Millisecond

	out := runGenerate(context.Background(), cfg, flags, 0, 4)
	require.NoError(t, out.Err)

	path := store.OperatorFilePath(outDir, "graph_0000", "graph")
	_, err := os.Stat(path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	file, err := store.ReadGraphFile(data)
	require.NoError(t, err)
	assert.NotEmpty(t, file.Vars)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 5, cfg.MaxHeight)
	assert.Equal(t, 5, cfg.MaxArgs)
	assert.True(t, cfg.EnableDiv)
	assert.Equal(t, 32, cfg.Parallel)
	assert.Equal(t, "cpu", cfg.Device)
}

func TestLoadEmptyPathAppliesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().MaxHeight, cfg.MaxHeight)
}

func TestLoadOverlaysYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_height: 7\nparallel: 4\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxHeight)
	assert.Equal(t, 4, cfg.Parallel)
	// Untouched fields keep their defaults.
	assert.Equal(t, 5, cfg.MaxArgs)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("DEVICE", "cuda")
	t.Setenv("PARALLEL", "16")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "cuda", cfg.Device)
	assert.Equal(t, 16, cfg.Parallel)
}

func TestApplyEnvIgnoresInvalidParallel(t *testing.T) {
	t.Setenv("PARALLEL", "not-a-number")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Parallel, cfg.Parallel)
}

func TestWithDivDoesNotMutateReceiver(t *testing.T) {
	cfg := Default()
	clone := cfg.WithDiv(false)
	assert.True(t, cfg.EnableDiv)
	assert.False(t, clone.EnableDiv)
}

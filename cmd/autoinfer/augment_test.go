package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gitrdm/autoinfer/internal/config"
	"github.com/gitrdm/autoinfer/internal/mutator"
	"github.com/gitrdm/autoinfer/internal/oi"
	"github.com/gitrdm/autoinfer/internal/store"
	"github.com/gitrdm/autoinfer/internal/tensor"
	"github.com/gitrdm/autoinfer/pkg/oracle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeReluRecord(t *testing.T, dir string, name string, dim int) {
	t.Helper()
	rec := store.RecordFile{
		Name: "torch.relu",
		Args: []oi.RawArg{
			{Name: "a", Positional: true, IsTensor: true, Shape: []int{dim}, DType: tensor.Float32},
		},
		Outputs: []oi.RawArg{
			{IsTensor: true, Shape: []int{dim}, DType: tensor.Float32},
		},
	}
	require.NoError(t, store.WriteRecordFile(filepath.Join(dir, name+".rec"), rec))
}

func TestRunAugmentWritesInvocationDBFile(t *testing.T) {
	recordsRoot := t.TempDir()
	instDir := filepath.Join(recordsRoot, "torch.relu_0")
	require.NoError(t, os.MkdirAll(instDir, 0o755))
	writeReluRecord(t, instDir, "0", 4)

	outDir := t.TempDir()
	flags := &commonFlags{recordsDir: recordsRoot, outDir: outDir}

	cfg := config.Default()
	cfg.MutatorSuccessCap = 2
	cfg.MutatorAllSubsetsCap = 2
	cfg.MutatorSingleCap = 2
	cfg.MutatorPairCap = 2
	m := mutator.New(cfg, oracle.NewDialectOracle())

	out := runAugment(m, flags, instDir)
	require.NoError(t, out.Err)
	assert.Equal(t, "torch.relu", out.OpName)

	path := store.OperatorFilePath(outDir, "torch.relu_0", "invocdb")
	assert.FileExists(t, path)
}

func TestRunAugmentSkipsExcludedOperator(t *testing.T) {
	recordsRoot := t.TempDir()
	instDir := filepath.Join(recordsRoot, "torch.relu_0")
	require.NoError(t, os.MkdirAll(instDir, 0o755))
	writeReluRecord(t, instDir, "0", 4)

	outDir := t.TempDir()
	flags := &commonFlags{recordsDir: recordsRoot, outDir: outDir, onlyOp: []string{"torch.sigmoid"}}

	cfg := config.Default()
	m := mutator.New(cfg, oracle.NewDialectOracle())

	out := runAugment(m, flags, instDir)
	require.NoError(t, out.Err)

	path := store.OperatorFilePath(outDir, "torch.relu_0", "invocdb")
	assert.NoFileExists(t, path)
}

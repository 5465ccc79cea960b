package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gitrdm/autoinfer/internal/oi"
	"github.com/gitrdm/autoinfer/internal/store"
	"github.com/gitrdm/autoinfer/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRecord(t *testing.T, dir, name string, shape int) {
	t.Helper()
	rec := store.RecordFile{
		Name: "torch.relu",
		Args: []oi.RawArg{
			{Name: "input", Positional: true, IsTensor: true, Shape: []int{shape}, DType: tensor.Float32},
		},
		Outputs: []oi.RawArg{
			{IsTensor: true, Shape: []int{shape}, DType: tensor.Float32},
		},
	}
	data, err := store.Encode(store.KindRecord, rec)
	require.NoError(t, err)
	require.NoError(t, store.WriteAtomic(filepath.Join(dir, name), data))
}

func TestLoadDirBuildsTemplateAndSeeds(t *testing.T) {
	root := t.TempDir()
	instDir := filepath.Join(root, "torch.relu_0")
	require.NoError(t, os.MkdirAll(instDir, 0o755))
	writeRecord(t, instDir, "0.rec", 4)
	writeRecord(t, instDir, "1.rec", 8)

	inst, err := LoadDir(instDir, oi.IntPolicySymbolic)
	require.NoError(t, err)
	assert.Equal(t, "torch.relu_0", inst.NameIndex)
	assert.Equal(t, "torch.relu", inst.Inst.Name)
	assert.Equal(t, 2, inst.DB.Count("success"))
}

func TestLoadDirNoRecordsErrors(t *testing.T) {
	root := t.TempDir()
	_, err := LoadDir(root, oi.IntPolicySymbolic)
	assert.Error(t, err)
}

func TestDirsHonorsOnlyInstance(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "b"), 0o755))

	dirs, err := Dirs(root, nil)
	require.NoError(t, err)
	assert.Len(t, dirs, 2)

	dirs, err = Dirs(root, []string{"b"})
	require.NoError(t, err)
	require.Len(t, dirs, 1)
	assert.Equal(t, filepath.Join(root, "b"), dirs[0])
}

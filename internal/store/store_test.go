package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	A int
	B string
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	data, err := Encode(KindRecord, payload{A: 1, B: "x"})
	require.NoError(t, err)

	var out payload
	require.NoError(t, Decode(data, KindRecord, &out))
	assert.Equal(t, payload{A: 1, B: "x"}, out)
}

func TestDecodeRejectsWrongKind(t *testing.T) {
	data, err := Encode(KindRecord, payload{A: 1})
	require.NoError(t, err)

	var out payload
	err = Decode(data, KindInvocationDB, &out)
	assert.Error(t, err)
}

func TestWriteAtomicCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")
	require.NoError(t, WriteAtomic(path, []byte("hello")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no leftover temp file after a successful write")
}

func TestOperatorFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "torch.add_0.shaperules"), OperatorFilePath("out", "torch.add_0", "shaperules"))
}

package pipeline

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestSubmitAndCollectResults(t *testing.T) {
	p := New(2, discardLogger())
	ctx := context.Background()

	const n = 5
	for i := 0; i < n; i++ {
		i := i
		require.NoError(t, p.Submit(ctx, func() Outcome {
			return Outcome{OpName: "op", OpID: string(rune('a' + i))}
		}))
	}

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		out := <-p.Results()
		seen[out.OpID] = true
		assert.NoError(t, out.Err)
	}
	assert.Len(t, seen, n)

	p.Shutdown()
	_, ok := <-p.Results()
	assert.False(t, ok, "Results channel is closed after Shutdown")
}

func TestSubmitAfterShutdownFails(t *testing.T) {
	p := New(1, discardLogger())
	p.Shutdown()

	err := p.Submit(context.Background(), func() Outcome { return Outcome{} })
	assert.ErrorIs(t, err, ErrPoolShutdown)
}

func TestWorkerCountDefaultsToNumCPUWhenNonPositive(t *testing.T) {
	p := New(0, discardLogger())
	defer p.Shutdown()
	assert.Greater(t, p.WorkerCount(), 0)
}

func TestWorkerCountHonorsExplicitSize(t *testing.T) {
	p := New(3, discardLogger())
	defer p.Shutdown()
	assert.Equal(t, 3, p.WorkerCount())
}

// Package pipeline implements the offline rule-mining worker pool of spec
// §5: a fixed-size pool (default 32) runs one operator per worker, workers
// share no mutable state, and each operator's result is written to disk
// exactly once, atomically (write-then-rename).
//
// Adapted from internal/parallel/pool.go's StaticWorkerPool: the same
// fixed task-channel/worker-goroutine shape, generalized from a
// general-purpose func() task to one that carries an operator name and
// reports its own per-operator outcome back to the caller rather than
// through shared statistics.
package pipeline

import (
	"context"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrPoolShutdown is returned by Submit once Shutdown has been called.
var ErrPoolShutdown = errPoolShutdown{}

type errPoolShutdown struct{}

func (errPoolShutdown) Error() string { return "pipeline: worker pool has been shutdown" }

// Outcome is one operator's mining result, logged as the per-stage status
// line spec §7 requires ("<op-name> <op-id> {complete|error}").
type Outcome struct {
	OpName string
	OpID   string
	Err    error
}

// Task is the unit of work a Pool runs: mine every rule stage for one
// operator instance and return its outcome.
type Task func() Outcome

// Pool is a fixed-size worker pool with one operator in flight per
// worker at a time, matching spec §5's "batch over operators,
// embarrassingly parallel across operators, strictly sequential within
// one operator".
type Pool struct {
	maxWorkers   int
	taskChan     chan Task
	resultChan   chan Outcome
	workerWg     sync.WaitGroup
	shutdownChan chan struct{}
	once         sync.Once
	log          logrus.FieldLogger
}

// New builds a pool with the given worker count (falling back to
// runtime.NumCPU() when size <= 0, the same default StaticWorkerPool
// uses) and starts its workers immediately.
func New(size int, log logrus.FieldLogger) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	p := &Pool{
		maxWorkers:   size,
		taskChan:     make(chan Task, size*2),
		resultChan:   make(chan Outcome, size*2),
		shutdownChan: make(chan struct{}),
		log:          log,
	}
	for i := 0; i < size; i++ {
		p.workerWg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.workerWg.Done()
	for {
		select {
		case task, ok := <-p.taskChan:
			if !ok {
				return
			}
			out := task()
			p.logOutcome(out)
			select {
			case p.resultChan <- out:
			case <-p.shutdownChan:
				return
			}
		case <-p.shutdownChan:
			return
		}
	}
}

func (p *Pool) logOutcome(out Outcome) {
	status := "complete"
	entry := p.log.WithFields(logrus.Fields{"op": out.OpName, "op_id": out.OpID})
	if out.Err != nil {
		status = "error"
		entry = entry.WithError(out.Err)
	}
	entry.WithField("status", status).Info(out.OpName + " " + out.OpID + " " + status)
}

// Submit enqueues one operator's mining task, blocking until a worker
// slot opens, ctx is cancelled, or the pool has been shut down.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	select {
	case p.taskChan <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.shutdownChan:
		return ErrPoolShutdown
	}
}

// Results returns the channel every completed task's Outcome is
// delivered on, for a caller that wants to tally successes/failures
// across the batch.
func (p *Pool) Results() <-chan Outcome { return p.resultChan }

// Shutdown stops accepting new tasks, waits for every in-flight worker
// to drain, and closes Results().
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		close(p.shutdownChan)
		close(p.taskChan)
		p.workerWg.Wait()
		close(p.resultChan)
	})
}

// WorkerCount returns the pool's fixed worker count.
func (p *Pool) WorkerCount() int { return p.maxWorkers }

// QueueDepth returns the number of tasks currently buffered.
func (p *Pool) QueueDepth() int { return len(p.taskChan) }

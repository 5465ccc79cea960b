// Package stream implements the small lazy sequence spec §9's
// "architectural patterns, not literal code" note calls for: a
// channel-based producer/consumer. No other package of the module
// imports it; C1's enumeration and C9's insertion loop build their
// sequences directly.
//
// Grounded on the teacher's pkg/minikanren/stream.go ResultStream /
// ChannelResultStream: the same Take/Put/Close/Count shape, lifted
// from a fixed ConstraintStore element type to a generic one (the
// teacher predates Go generics; this module's go.mod does not, so the
// one-off "ConstraintStore" field is generalized to a type parameter
// rather than duplicated per element type).
package stream

import (
	"context"
	"sync/atomic"
)

// Stream is a lazy, thread-safe sequence of values of type T.
type Stream[T any] struct {
	ch     chan T
	count  int64
	closed int32
}

// New creates a stream with the given channel buffer size. A
// bufferSize of 0 creates an unbuffered channel, matching the
// teacher's NewChannelResultStream.
func New[T any](bufferSize int) *Stream[T] {
	return &Stream[T]{ch: make(chan T, bufferSize)}
}

// Put adds a value to the stream. Safe for concurrent producers.
func (s *Stream[T]) Put(ctx context.Context, v T) error {
	if atomic.LoadInt32(&s.closed) != 0 {
		return errClosed
	}
	select {
	case s.ch <- v:
		atomic.AddInt64(&s.count, 1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Take retrieves up to n values from the stream, returning what was
// collected and whether more values might still arrive.
func (s *Stream[T]) Take(ctx context.Context, n int) ([]T, bool, error) {
	var out []T
	for i := 0; i < n; i++ {
		select {
		case v, ok := <-s.ch:
			if !ok {
				return out, false, nil
			}
			out = append(out, v)
		case <-ctx.Done():
			return out, len(out) > 0, ctx.Err()
		}
	}
	return out, true, nil
}

// Close marks the stream as done; Take eventually reports hasMore =
// false once the buffer drains.
func (s *Stream[T]) Close() error {
	if atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		close(s.ch)
	}
	return nil
}

// Count returns the number of values ever Put into the stream.
func (s *Stream[T]) Count() int64 { return atomic.LoadInt64(&s.count) }

type streamError string

func (e streamError) Error() string { return string(e) }

const errClosed = streamError("stream: put on a closed stream")

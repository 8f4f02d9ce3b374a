// Package recordstream turns a JSON array document into a stream of typed records.
//
// A producer goroutine owns the input and parses it element by element.
// Each decoded element is handed over to the consumer through a rendezvous channel,
// so the producer is never more than one record ahead of the consumer,
// and the document is never held in memory as a whole.
//
// A parse failure ends the stream with a single terminal error.
// Records received before the failure remain valid.
package recordstream

import (
	"context"
	"errors"
	"io"
	"iter"

	"go.llib.dev/frameless/pkg/iterkit"
	"go.llib.dev/frameless/port/option"

	"go.llib.dev/recordstream/pkg/handoff"
)

// Record is a single unit handed over by the producer.
// Either Value is set, or Err holds the terminal failure of the stream.
type Record[T any] struct {
	Value T
	Err   error
}

// New starts a producer over r, and returns the consumer side of the stream.
// Elements are decoded with encoding/json semantics into T.
//
// The reader is owned by the producer from this point on,
// and it is closed when the producer finishes, if it implements io.Closer.
func New[T any](r io.Reader, opts ...Option) *Iterator[T] {
	return NewWith[T](r, nil, opts...)
}

// NewWith works like New, but uses decode to turn each raw array element into a record.
func NewWith[T any](r io.Reader, decode DecodeFunc[T], opts ...Option) *Iterator[T] {
	c := option.ToConfig[Config](opts)
	out, in := handoff.New[Record[T]]()
	p := &producer[T]{
		Input:  r,
		Out:    out,
		Config: c,
		Decode: decode,
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(c.Context)
	}()
	return &Iterator[T]{
		in:   in,
		ctx:  c.Context,
		done: done,
	}
}

// Collect reads the whole stream into a slice.
// On failure, the records read before the failure are returned alongside the error.
func Collect[T any](r io.Reader, opts ...Option) ([]T, error) {
	return iterkit.CollectPullIter[T](New[T](r, opts...))
}

var _ iterkit.PullIter[any] = (*Iterator[any])(nil)

// Iterator is the pull based consumer of a record stream.
// It is single use: once exhausted it keeps reporting exhaustion.
type Iterator[T any] struct {
	in   *handoff.Receiver[Record[T]]
	ctx  context.Context
	done <-chan struct{}

	value     T
	err       error
	exhausted bool
}

// Next blocks until the producer hands over the next record, or the stream ends.
// When the stream ended with an error, Next returns false and Err returns the error.
func (i *Iterator[T]) Next() bool {
	if i.exhausted {
		return false
	}
	if err := i.ctx.Err(); err != nil {
		i.err = err
		i.finish()
		return false
	}
	rec, err := i.in.Recv(i.ctx)
	if err != nil {
		if !errors.Is(err, handoff.ErrDisconnected) {
			i.err = err
		}
		i.finish()
		return false
	}
	if rec.Err != nil {
		i.err = rec.Err
		i.finish()
		return false
	}
	i.value = rec.Value
	return true
}

func (i *Iterator[T]) Value() T {
	return i.value
}

func (i *Iterator[T]) Err() error {
	return i.err
}

// Close stops the stream.
// The producer is told to stop, but Close doesn't wait for it,
// since the producer might be blocked in a read on the input.
// Use Wait to block until the input is released.
func (i *Iterator[T]) Close() error {
	i.finish()
	return nil
}

// Wait blocks until the producer has finished and released the input.
// It returns the ctx error if ctx is done first.
func (i *Iterator[T]) Wait(ctx context.Context) error {
	select {
	case <-i.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (i *Iterator[T]) finish() {
	i.exhausted = true
	_ = i.in.Close()
}

// Seq exposes the stream as a single use iter.Seq2.
// A terminal error is yielded as the last element.
// Breaking out of the range loop closes the stream.
func (i *Iterator[T]) Seq() iterkit.SingleUseErrSeq[T] {
	return iterkit.FromPullIter[T](i)
}

// Records exposes the stream as a single use sequence of Record values.
func (i *Iterator[T]) Records() iter.Seq[Record[T]] {
	return func(yield func(Record[T]) bool) {
		for v, err := range i.Seq() {
			if !yield(Record[T]{Value: v, Err: err}) {
				return
			}
		}
	}
}

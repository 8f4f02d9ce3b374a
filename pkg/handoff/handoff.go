// Package handoff implements a rendezvous channel between exactly one producer and one consumer.
//
// The channel holds at most one in-flight value:
// Send blocks until the Receiver takes the value,
// and Recv blocks until the Sender offers one.
// Both sides can be closed independently,
// which is how the other side learns that its peer is gone.
package handoff

import (
	"context"
	"sync"

	"go.llib.dev/frameless/pkg/errorkit"
)

const (
	// ErrDisconnected is returned when the other side of the channel is gone.
	// For the Receiver, it means the end of the stream.
	// For the Sender, it means nobody listens anymore.
	ErrDisconnected errorkit.Error = "handoff: disconnected"
	// ErrClosed is returned when Send is called on an already closed Sender.
	ErrClosed errorkit.Error = "handoff: closed"
)

// New returns the two endpoints of a rendezvous channel.
func New[T any]() (*Sender[T], *Receiver[T]) {
	l := &link[T]{
		values: make(chan T),
		done:   make(chan struct{}),
		eos:    make(chan struct{}),
	}
	return &Sender[T]{link: l}, &Receiver[T]{link: l}
}

type link[T any] struct {
	// values is unbuffered, every Send pairs up with a Recv.
	values chan T
	// done is closed when the receiver stops listening.
	done     chan struct{}
	doneOnce sync.Once
	// eos is closed when the sender has no more values.
	eos     chan struct{}
	eosOnce sync.Once
}

// Sender is the producing endpoint.
type Sender[T any] struct{ link *link[T] }

// Send blocks until the Receiver accepts v.
// It returns ErrDisconnected if the Receiver is closed, or the context error when ctx is done.
func (s *Sender[T]) Send(ctx context.Context, v T) error {
	select {
	case <-s.link.eos:
		return ErrClosed
	case <-s.link.done:
		return ErrDisconnected
	default:
	}
	select {
	case s.link.values <- v:
		return nil
	case <-s.link.done:
		return ErrDisconnected
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close signals the Receiver that no more values will come.
// Close is safe to call multiple times.
func (s *Sender[T]) Close() error {
	s.link.eosOnce.Do(func() { close(s.link.eos) })
	return nil
}

// Done is closed when the Receiver stops listening.
func (s *Sender[T]) Done() <-chan struct{} {
	return s.link.done
}

// Receiver is the consuming endpoint.
type Receiver[T any] struct{ link *link[T] }

// Recv blocks until a value is available.
// Once the Sender is closed and no value is pending, it returns ErrDisconnected.
// A done ctx interrupts the wait with the context error;
// this is the place to layer a timeout on top of the channel.
func (r *Receiver[T]) Recv(ctx context.Context) (T, error) {
	var zero T
	select {
	case <-r.link.done:
		return zero, ErrDisconnected
	default:
	}
	select {
	case v := <-r.link.values:
		return v, nil
	case <-r.link.eos:
		// a Send racing with Close still wins
		select {
		case v := <-r.link.values:
			return v, nil
		default:
			return zero, ErrDisconnected
		}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Close tells the Sender to stop trying.
// A blocked or future Send returns ErrDisconnected.
// Close is safe to call multiple times.
func (r *Receiver[T]) Close() error {
	r.link.doneOnce.Do(func() { close(r.link.done) })
	return nil
}

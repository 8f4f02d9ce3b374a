package handoff_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.llib.dev/recordstream/pkg/handoff"
	"go.llib.dev/testcase"
	"go.llib.dev/testcase/assert"
)

func TestNew(t *testing.T) {
	s := testcase.NewSpec(t)

	type endpoints struct {
		Sender   *handoff.Sender[string]
		Receiver *handoff.Receiver[string]
	}
	ch := testcase.Let(s, func(t *testcase.T) endpoints {
		sender, receiver := handoff.New[string]()
		t.Cleanup(func() {
			_ = sender.Close()
			_ = receiver.Close()
		})
		return endpoints{Sender: sender, Receiver: receiver}
	})

	s.Test("values are handed over in the order they were sent", func(t *testcase.T) {
		var exp []string
		for i, n := 0, t.Random.IntB(1, 7); i < n; i++ {
			exp = append(exp, t.Random.String())
		}

		sender, receiver := ch.Get(t).Sender, ch.Get(t).Receiver
		go func() {
			defer sender.Close()
			for _, v := range exp {
				if err := sender.Send(context.Background(), v); err != nil {
					return
				}
			}
		}()

		var got []string
		assert.Within(t, time.Second, func(ctx context.Context) {
			for {
				v, err := receiver.Recv(ctx)
				if err != nil {
					assert.ErrorIs(t, err, handoff.ErrDisconnected)
					return
				}
				got = append(got, v)
			}
		})
		assert.Equal(t, exp, got)
	})

	s.Test("Send blocks until the receiver takes the value", func(t *testcase.T) {
		sent := make(chan struct{})
		sender := ch.Get(t).Sender
		go func() {
			defer close(sent)
			_ = sender.Send(context.Background(), "foo")
		}()

		select {
		case <-sent:
			t.Fatal("Send returned before the value was received")
		case <-time.After(50 * time.Millisecond):
		}

		v, err := ch.Get(t).Receiver.Recv(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, "foo", v)

		assert.Within(t, time.Second, func(ctx context.Context) {
			<-sent
		})
	})

	s.When("the receiver is closed", func(s *testcase.Spec) {
		s.Before(func(t *testcase.T) {
			assert.NoError(t, ch.Get(t).Receiver.Close())
		})

		s.Then("Send reports disconnection", func(t *testcase.T) {
			err := ch.Get(t).Sender.Send(context.Background(), t.Random.String())
			assert.ErrorIs(t, err, handoff.ErrDisconnected)
		})

		s.Then("Recv reports disconnection", func(t *testcase.T) {
			_, err := ch.Get(t).Receiver.Recv(context.Background())
			assert.ErrorIs(t, err, handoff.ErrDisconnected)
		})

		s.Then("sender's done channel is closed", func(t *testcase.T) {
			assert.Within(t, time.Second, func(ctx context.Context) {
				<-ch.Get(t).Sender.Done()
			})
		})

		s.Then("closing again is fine", func(t *testcase.T) {
			assert.NoError(t, ch.Get(t).Receiver.Close())
		})
	})

	s.When("the receiver is closed while Send is blocked", func(s *testcase.Spec) {
		s.Then("the blocked Send returns with disconnection", func(t *testcase.T) {
			var (
				wg     sync.WaitGroup
				err    error
				sender = ch.Get(t).Sender
				value  = t.Random.String()
			)
			wg.Add(1)
			go func() {
				defer wg.Done()
				err = sender.Send(context.Background(), value)
			}()
			time.Sleep(10 * time.Millisecond)
			assert.NoError(t, ch.Get(t).Receiver.Close())

			assert.Within(t, time.Second, func(ctx context.Context) {
				wg.Wait()
			})
			assert.ErrorIs(t, err, handoff.ErrDisconnected)
		})
	})

	s.When("the sender is closed", func(s *testcase.Spec) {
		s.Before(func(t *testcase.T) {
			assert.NoError(t, ch.Get(t).Sender.Close())
		})

		s.Then("Recv yields end of stream", func(t *testcase.T) {
			assert.Within(t, time.Second, func(ctx context.Context) {
				_, err := ch.Get(t).Receiver.Recv(ctx)
				assert.ErrorIs(t, err, handoff.ErrDisconnected)
			})
		})

		s.Then("further Send calls fail", func(t *testcase.T) {
			err := ch.Get(t).Sender.Send(context.Background(), t.Random.String())
			assert.ErrorIs(t, err, handoff.ErrClosed)
		})
	})

	s.When("the context of a blocked call is done", func(s *testcase.Spec) {
		s.Then("Recv returns the context error", func(t *testcase.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
			defer cancel()
			_, err := ch.Get(t).Receiver.Recv(ctx)
			assert.ErrorIs(t, err, context.DeadlineExceeded)
		})

		s.Then("Send returns the context error", func(t *testcase.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			err := ch.Get(t).Sender.Send(ctx, t.Random.String())
			assert.ErrorIs(t, err, context.Canceled)
		})
	})
}

package recordstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"

	"go.llib.dev/frameless/pkg/jsonkit/jsontoken"
	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"

	"go.llib.dev/recordstream/pkg/handoff"
)

type producer[T any] struct {
	Input  io.Reader
	Out    *handoff.Sender[Record[T]]
	Config Config
	Decode DecodeFunc[T]

	index int
}

func (p *producer[T]) Run(ctx context.Context) {
	defer p.Out.Close()
	logger.Debug(ctx, "record stream started")

	itr := &jsontoken.ArrayIterator{Input: p.Input}
	err := p.stream(ctx, itr)
	closeErr := itr.Close()

	switch {
	case p.disconnected() || errors.Is(err, handoff.ErrDisconnected):
		logger.Debug(ctx, "record stream consumer disconnected", logging.Field("records", p.index))
		return
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		logger.Debug(ctx, "record stream cancelled", logging.Field("records", p.index))
		return
	case err == nil && closeErr != nil:
		err = closeErr
	case err != nil && closeErr != nil:
		logger.Warn(ctx, "failed to close record stream input", logging.ErrField(closeErr))
	}
	if err == nil {
		logger.Debug(ctx, "record stream finished", logging.Field("records", p.index))
		return
	}

	logger.Debug(ctx, "record stream failed",
		logging.ErrField(err),
		logging.Field("records", p.index))
	// a disconnected consumer is no longer interested in the error
	_ = p.Out.Send(ctx, Record[T]{Err: err})
}

func (p *producer[T]) stream(ctx context.Context, itr *jsontoken.ArrayIterator) error {
	// the array is not read any further once the consumer is gone
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-p.Out.Done():
			cancel()
		case <-ctx.Done():
		}
	}()
	itr.Context = ctx

	for itr.Next() {
		v, err := p.decode(itr.Value())
		if err != nil {
			return p.malformed(p.index, err)
		}
		if err := p.Out.Send(ctx, Record[T]{Value: v}); err != nil {
			return err
		}
		p.index++
	}
	err := itr.Err()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return err
	}
	index := p.index
	if errors.Is(err, jsontoken.ErrMalformed) || (p.index == 0 && errors.Is(err, io.EOF)) {
		index = -1
	}
	return p.malformed(index, err)
}

func (p *producer[T]) disconnected() bool {
	select {
	case <-p.Out.Done():
		return true
	default:
		return false
	}
}

func (p *producer[T]) decode(raw json.RawMessage) (T, error) {
	if p.Decode != nil {
		return p.Decode(raw)
	}
	var v T
	dec := json.NewDecoder(bytes.NewReader(raw))
	if p.Config.UseNumber {
		dec.UseNumber()
	}
	if p.Config.DisallowUnknownFields {
		dec.DisallowUnknownFields()
	}
	err := dec.Decode(&v)
	return v, err
}

func (p *producer[T]) malformed(index int, err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return &DecodeError{Index: index, Err: err}
}

// Package seeded provides stateful decoders for irregular JSON documents.
//
// A seeded decoder is scoped to a single nested shape of the document,
// and it carries a *Stats accumulator that is threaded down through the nested decoders
// for the duration of a single decode pass.
// Decoders work directly on the token stream of a json.Decoder,
// so sections of a document can be consumed without building a generic tree first.
//
// Any hard failure aborts the whole pass, and no partial result is returned.
// The only soft behaviours are the explicit skip rules of the individual decoders.
package seeded

import (
	"context"
	"encoding/json"
	"io"

	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"
)

// Decoder decodes the next JSON value from the token stream into T.
type Decoder[T any] interface {
	DecodeJSON(dec *json.Decoder) (T, error)
}

// DecoderFunc is a function based Decoder.
type DecoderFunc[T any] func(dec *json.Decoder) (T, error)

func (fn DecoderFunc[T]) DecodeJSON(dec *json.Decoder) (T, error) { return fn(dec) }

// Stats accumulates what happened during a single decode pass.
// It is owned by the caller of the pass, and must not be shared between passes or goroutines.
type Stats struct {
	RecordsSkipped int `json:"records_skipped"`
}

func (s *Stats) recordSkipped() {
	if s == nil {
		return
	}
	s.RecordsSkipped++
}

// Decode runs a decode pass over r with d.
func Decode[T any](r io.Reader, d Decoder[T]) (T, error) {
	return DecodeContext[T](context.Background(), r, d)
}

// DecodeContext runs a decode pass over r with d, and logs the outcome with the context's logging details.
func DecodeContext[T any](ctx context.Context, r io.Reader, d Decoder[T]) (T, error) {
	dec := json.NewDecoder(r)
	v, err := d.DecodeJSON(dec)
	if err != nil {
		logger.Debug(ctx, "seeded decode pass failed",
			logging.ErrField(err),
			logging.Field("offset", dec.InputOffset()))
		var zero T
		return zero, err
	}
	logger.Debug(ctx, "seeded decode pass finished", logging.Field("offset", dec.InputOffset()))
	return v, nil
}

// DecodeRaw runs d over an already materialised JSON value.
func DecodeRaw[T any](raw json.RawMessage, d Decoder[T]) (T, error) {
	return d.DecodeJSON(json.NewDecoder(bytesReader(raw)))
}

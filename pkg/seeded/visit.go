package seeded

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// VisitMap walks the members of the next JSON object.
// For each key, fn is called, and fn must consume exactly one value from dec.
func VisitMap(dec *json.Decoder, fn func(key string) error) error {
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		tkn, err := dec.Token()
		if err != nil {
			return unexpectedEOF(err)
		}
		key, ok := tkn.(string)
		if !ok {
			return ErrUnexpectedToken.F("expected object key but got %v", tkn)
		}
		if err := fn(key); err != nil {
			return err
		}
	}
	return expectDelim(dec, '}')
}

// VisitSeq walks the elements of the next JSON array.
// For each element, fn is called with its index, and fn must consume exactly one value from dec.
func VisitSeq(dec *json.Decoder, fn func(index int) error) error {
	if err := expectDelim(dec, '['); err != nil {
		return err
	}
	for i := 0; dec.More(); i++ {
		if err := fn(i); err != nil {
			return err
		}
	}
	return expectDelim(dec, ']')
}

// Skip consumes the next JSON value and throws it away.
// The value still has to be well-formed.
func Skip(dec *json.Decoder) error {
	var discard json.RawMessage
	return NextValue(dec, &discard)
}

// NextValue decodes the next JSON value into ptr.
func NextValue[T any](dec *json.Decoder, ptr *T) error {
	return unexpectedEOF(dec.Decode(ptr))
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tkn, err := dec.Token()
	if err != nil {
		return unexpectedEOF(err)
	}
	if got, ok := tkn.(json.Delim); !ok || got != want {
		return ErrUnexpectedToken.F("expected %q but got %v", want, tkn)
	}
	return nil
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func bytesReader(raw json.RawMessage) io.Reader {
	return bytes.NewReader(raw)
}

package seeded

import (
	"encoding/json"
	"errors"
	"io"
)

// UnknownKeys is the policy of a Schema towards keys it has no Field for.
type UnknownKeys int

const (
	// DiscardUnknown decodes the value of an unknown key and throws it away.
	DiscardUnknown UnknownKeys = iota
	// RejectUnknown fails the decode pass with an *UnexpectedKeyError.
	RejectUnknown
)

// Field describes a single recognised key of a JSON object.
// Decode must consume exactly one JSON value from the decoder.
type Field struct {
	Key      string
	Required bool
	Decode   func(dec *json.Decoder) error
}

// Schema decodes a JSON object by dispatching each key to its Field.
//
// Required fields are checked after the whole object is consumed,
// in the order they are listed.
// When a key is repeated, its value is decoded again and the last one wins.
type Schema struct {
	Name    string
	Fields  []Field
	Unknown UnknownKeys
}

func (s Schema) DecodeJSON(dec *json.Decoder) error {
	var (
		fields = make(map[string]Field, len(s.Fields))
		seen   = make(map[string]struct{}, len(s.Fields))
	)
	for _, f := range s.Fields {
		fields[f.Key] = f
	}
	err := VisitMap(dec, func(key string) error {
		f, ok := fields[key]
		if !ok {
			if s.Unknown == RejectUnknown {
				return &UnexpectedKeyError{Schema: s.Name, Key: key}
			}
			return Skip(dec)
		}
		if err := f.Decode(dec); err != nil {
			if isSyntaxError(err) {
				return err
			}
			return &FieldError{Schema: s.Name, Key: key, Err: err}
		}
		seen[key] = struct{}{}
		return nil
	})
	if err != nil {
		return err
	}
	for _, f := range s.Fields {
		if !f.Required {
			continue
		}
		if _, ok := seen[f.Key]; !ok {
			return &MissingFieldError{Schema: s.Name, Field: f.Key}
		}
	}
	return nil
}

// isSyntaxError tells if err is about the document itself rather than the value of a field.
func isSyntaxError(err error) bool {
	var serr *json.SyntaxError
	return errors.As(err, &serr) || errors.Is(err, io.ErrUnexpectedEOF)
}

// Into decodes the value with encoding/json semantics into ptr.
func Into[T any](ptr *T) func(*json.Decoder) error {
	return func(dec *json.Decoder) error {
		return NextValue(dec, ptr)
	}
}

// NotNull works like Into, but a JSON null fails with ErrUnexpectedNull
// instead of leaving ptr at its zero value.
func NotNull[T any](ptr *T) func(*json.Decoder) error {
	return func(dec *json.Decoder) error {
		var raw json.RawMessage
		if err := NextValue(dec, &raw); err != nil {
			return err
		}
		if isNull(raw) {
			return ErrUnexpectedNull
		}
		return json.Unmarshal(raw, ptr)
	}
}

// Text decodes a JSON string, and stores the result of parse into ptr.
// A JSON null is rejected.
func Text[T any](ptr *T, parse func(string) (T, error)) func(*json.Decoder) error {
	return func(dec *json.Decoder) error {
		var s string
		if err := NotNull(&s)(dec); err != nil {
			return err
		}
		v, err := parse(s)
		if err != nil {
			return err
		}
		*ptr = v
		return nil
	}
}

// OptionalText works like Text, but a JSON null leaves ptr as nil.
func OptionalText[T any](ptr **T, parse func(string) (T, error)) func(*json.Decoder) error {
	return func(dec *json.Decoder) error {
		var s *string
		if err := NextValue(dec, &s); err != nil {
			return err
		}
		if s == nil {
			*ptr = nil
			return nil
		}
		v, err := parse(*s)
		if err != nil {
			return err
		}
		*ptr = &v
		return nil
	}
}

// With decodes the value with d into ptr.
func With[T any](ptr *T, d Decoder[T]) func(*json.Decoder) error {
	return func(dec *json.Decoder) error {
		v, err := d.DecodeJSON(dec)
		if err != nil {
			return err
		}
		*ptr = v
		return nil
	}
}

// Nullable works like With, but a JSON null leaves ptr as nil.
func Nullable[T any](ptr **T, d Decoder[T]) func(*json.Decoder) error {
	return func(dec *json.Decoder) error {
		var raw json.RawMessage
		if err := NextValue(dec, &raw); err != nil {
			return err
		}
		if isNull(raw) {
			*ptr = nil
			return nil
		}
		v, err := DecodeRaw[T](raw, d)
		if err != nil {
			return err
		}
		*ptr = &v
		return nil
	}
}

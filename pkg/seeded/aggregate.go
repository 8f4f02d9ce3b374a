package seeded

import (
	"bytes"
	"encoding/json"
	"iter"
	"strconv"
)

// Aggregate is an insertion ordered mapping from keys to raw JSON values.
// Setting an existing key replaces its value, but keeps its original position.
type Aggregate struct {
	keys   []string
	values map[string]json.RawMessage
}

func (a *Aggregate) Set(key string, value json.RawMessage) {
	if a.values == nil {
		a.values = make(map[string]json.RawMessage)
	}
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
}

func (a Aggregate) Get(key string) (json.RawMessage, bool) {
	v, ok := a.values[key]
	return v, ok
}

func (a Aggregate) Len() int {
	return len(a.keys)
}

func (a Aggregate) Keys() []string {
	return append([]string(nil), a.keys...)
}

func (a Aggregate) All() iter.Seq2[string, json.RawMessage] {
	return func(yield func(string, json.RawMessage) bool) {
		for _, k := range a.keys {
			if !yield(k, a.values[k]) {
				return
			}
		}
	}
}

func (a Aggregate) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range a.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(a.values[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (a *Aggregate) UnmarshalJSON(data []byte) error {
	var out Aggregate
	dec := json.NewDecoder(bytes.NewReader(data))
	err := VisitMap(dec, func(key string) error {
		var raw json.RawMessage
		if err := NextValue(dec, &raw); err != nil {
			return err
		}
		out.Set(key, raw)
		return nil
	})
	if err != nil {
		return err
	}
	*a = out
	return nil
}

// AggregateDecoder folds a sequence of single key objects into one Aggregate.
//
// For each element of the sequence:
//   - non-objects and empty objects are discarded
//   - only the first member of an object is considered
//   - a null value is discarded, and counted in Stats.RecordsSkipped
//   - otherwise the member is set on the aggregate, and later keys overwrite earlier ones
//
// The result always holds exactly one Aggregate, even when the sequence is empty.
type AggregateDecoder struct {
	Stats *Stats
}

func (d AggregateDecoder) DecodeJSON(dec *json.Decoder) ([]Aggregate, error) {
	var agg Aggregate
	err := VisitSeq(dec, func(int) error {
		var raw json.RawMessage
		if err := NextValue(dec, &raw); err != nil {
			return err
		}
		key, value, ok, err := firstMember(raw)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if isNull(value) {
			d.Stats.recordSkipped()
			return nil
		}
		agg.Set(key, value)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return []Aggregate{agg}, nil
}

// IndexDecoder folds a sequence of objects into an Aggregate,
// keyed by the running index of the objects: "0", "1", ...
// Elements that are not objects are skipped, and they don't take up an index.
type IndexDecoder struct{}

func (IndexDecoder) DecodeJSON(dec *json.Decoder) (Aggregate, error) {
	var (
		agg Aggregate
		n   int
	)
	err := VisitSeq(dec, func(int) error {
		var raw json.RawMessage
		if err := NextValue(dec, &raw); err != nil {
			return err
		}
		if !isObject(raw) {
			return nil
		}
		agg.Set(strconv.Itoa(n), raw)
		n++
		return nil
	})
	return agg, err
}

// firstMember returns the first key value pair of raw, when raw is a non-empty object.
func firstMember(raw json.RawMessage) (string, json.RawMessage, bool, error) {
	if !isObject(raw) {
		return "", nil, false, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := expectDelim(dec, '{'); err != nil {
		return "", nil, false, err
	}
	if !dec.More() {
		return "", nil, false, nil
	}
	tkn, err := dec.Token()
	if err != nil {
		return "", nil, false, unexpectedEOF(err)
	}
	key, ok := tkn.(string)
	if !ok {
		return "", nil, false, ErrUnexpectedToken.F("expected object key but got %v", tkn)
	}
	var value json.RawMessage
	if err := NextValue(dec, &value); err != nil {
		return "", nil, false, err
	}
	return key, value, true, nil
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

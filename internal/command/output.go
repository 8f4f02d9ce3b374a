package command

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/theory/jsonpath"
	"go.llib.dev/frameless/pkg/errorkit"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	ErrInvalidSelect errorkit.Error = "invalid select expression"
	ErrNotDocument   errorkit.Error = "record is not a document"
)

type recordWriter interface {
	WriteRecord(raw json.RawMessage) error
}

func newRecordWriter(w io.Writer, format string) recordWriter {
	if format == "bson" {
		return bsonWriter{w: w}
	}
	return jsonlWriter{w: w}
}

// jsonlWriter writes each record compacted onto its own line.
type jsonlWriter struct{ w io.Writer }

func (jw jsonlWriter) WriteRecord(raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := jw.w.Write(buf.Bytes())
	return err
}

// bsonWriter writes each record as a BSON document.
// Only objects can be written.
type bsonWriter struct{ w io.Writer }

func (bw bsonWriter) WriteRecord(raw json.RawMessage) error {
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '{' {
		return ErrNotDocument.F("%.32s", trimmed)
	}
	var doc bson.Raw
	if err := bson.UnmarshalExtJSON(raw, false, &doc); err != nil {
		return err
	}
	_, err := bw.w.Write(doc)
	return err
}

// projection maps a record to what should be written out.
// A false result means the record has nothing to write.
type projection func(raw json.RawMessage) (json.RawMessage, bool, error)

func identity(raw json.RawMessage) (json.RawMessage, bool, error) { return raw, true, nil }

// newProjection selects the nodes of each record that match expr.
// A single match is written as is, multiple matches as an array.
func newProjection(expr string) (projection, error) {
	if expr == "" {
		return identity, nil
	}
	path, err := jsonpath.Parse(expr)
	if err != nil {
		return nil, ErrInvalidSelect.Wrap(err)
	}
	return func(raw json.RawMessage) (json.RawMessage, bool, error) {
		var data any
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, false, err
		}
		nodes := path.Select(data)
		switch len(nodes) {
		case 0:
			return nil, false, nil
		case 1:
			out, err := json.Marshal(nodes[0])
			return out, err == nil, err
		default:
			out, err := json.Marshal(nodes)
			return out, err == nil, err
		}
	}, nil
}

// dedup remembers the digest of every record it has seen.
type dedup map[uint64]struct{}

func (d dedup) Seen(raw json.RawMessage) bool {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		buf.Reset()
		buf.Write(raw)
	}
	sum := xxhash.Sum64(buf.Bytes())
	if _, ok := d[sum]; ok {
		return true
	}
	d[sum] = struct{}{}
	return false
}

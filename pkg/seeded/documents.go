package seeded

import (
	"context"
	"encoding/json"
	"io"

	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"
)

// DocumentSet is the top level shape of a document file:
//
//	{"documents": [{"k": v}, ...], "journal": <any>}
//
// Documents are folded by the AggregateDecoder.
// Journal is kept as is, and it is null when the key is absent.
type DocumentSet struct {
	Documents []Aggregate     `json:"documents"`
	Journal   json.RawMessage `json:"journal"`
}

// DocumentSetDecoder decodes a DocumentSet.
// Keys other than "documents" and "journal" fail the pass.
type DocumentSetDecoder struct {
	Stats *Stats
}

func (d DocumentSetDecoder) DecodeJSON(dec *json.Decoder) (DocumentSet, error) {
	var ds DocumentSet
	schema := Schema{
		Name:    "DocumentSet",
		Unknown: RejectUnknown,
		Fields: []Field{
			{Key: "documents", Decode: With[[]Aggregate](&ds.Documents, AggregateDecoder{Stats: d.Stats})},
			{Key: "journal", Decode: Into(&ds.Journal)},
		},
	}
	if err := schema.DecodeJSON(dec); err != nil {
		return DocumentSet{}, err
	}
	if ds.Journal == nil {
		ds.Journal = json.RawMessage("null")
	}
	return ds, nil
}

// DecodeDocumentSet decodes a DocumentSet from r.
// Skipped records are counted into stats, which may be nil.
func DecodeDocumentSet(ctx context.Context, r io.Reader, stats *Stats) (DocumentSet, error) {
	ds, err := DecodeContext[DocumentSet](ctx, r, DocumentSetDecoder{Stats: stats})
	if err != nil {
		return DocumentSet{}, err
	}
	if stats != nil && stats.RecordsSkipped > 0 {
		logger.Debug(ctx, "null valued records were skipped",
			logging.Field("records_skipped", stats.RecordsSkipped))
	}
	return ds, nil
}

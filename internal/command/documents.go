package command

import (
	"encoding/json"

	"go.llib.dev/frameless/pkg/cli"
	"go.llib.dev/frameless/pkg/errorkit"
	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"

	"go.llib.dev/recordstream/pkg/seeded"
)

// DocumentsCommand folds a document set, and prints the result with the decode stats.
type DocumentsCommand struct {
	ConfigPath  string `flag:"config" desc:"path of a YAML config file"`
	Compression string `flag:"compression" desc:"auto, none, gzip, zstd, s2 or lz4"`
	LogLevel    string `flag:"log-level" desc:"debug, info, warn or error"`

	Path string `arg:"0" required:"true" desc:"path of the document, - for stdin"`
}

func (cmd DocumentsCommand) Summary() string {
	return `aggregate a {"documents": [...], "journal": ...} document`
}

type documentsOutput struct {
	seeded.DocumentSet
	Stats seeded.Stats `json:"stats"`
}

func (cmd DocumentsCommand) ServeCLI(w cli.Response, r *cli.Request) {
	src := source{ConfigPath: cmd.ConfigPath, Compression: cmd.Compression, LogLevel: cmd.LogLevel}
	c, err := src.settings(nil)
	if err != nil {
		cli.HandleError(w, r, err)
		return
	}
	ctx := passContext(r.Context(), "documents", cmd.Path)
	err = func() (rErr error) {
		input, err := open(r, cmd.Path, c.Compression)
		if err != nil {
			return err
		}
		defer errorkit.Finish(&rErr, input.Close)

		var stats seeded.Stats
		ds, err := seeded.DecodeDocumentSet(ctx, input, &stats)
		if err != nil {
			return err
		}
		logger.Info(ctx, "document set decoded",
			logging.Field("documents", len(ds.Documents)),
			logging.Field("records_skipped", stats.RecordsSkipped))
		return json.NewEncoder(w).Encode(documentsOutput{DocumentSet: ds, Stats: stats})
	}()
	if err != nil {
		cli.HandleError(w, r, err)
	}
}

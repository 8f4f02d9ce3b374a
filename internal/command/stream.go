package command

import (
	"encoding/json"

	"go.llib.dev/frameless/pkg/cli"
	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"
	"golang.org/x/time/rate"

	"go.llib.dev/recordstream/internal/config"
	"go.llib.dev/recordstream/pkg/recordstream"
)

// StreamCommand prints the elements of a JSON array document one record per line.
type StreamCommand struct {
	ConfigPath  string `flag:"config" desc:"path of a YAML config file"`
	Compression string `flag:"compression" desc:"auto, none, gzip, zstd, s2 or lz4"`
	LogLevel    string `flag:"log-level" desc:"debug, info, warn or error"`

	Select string  `flag:"select" desc:"JSONPath expression applied to each record"`
	Rate   float64 `flag:"rate" desc:"max records printed per second, 0 means no limit"`
	Limit  int     `flag:"limit" desc:"stop after printing this many records, 0 means no limit"`
	Unique bool    `flag:"unique" desc:"skip records that were already printed"`
	Format string  `flag:"format" desc:"jsonl or bson"`

	Path string `arg:"0" required:"true" desc:"path of the document, - for stdin"`
}

func (cmd StreamCommand) Summary() string {
	return "stream the elements of a JSON array document"
}

func (cmd StreamCommand) ServeCLI(w cli.Response, r *cli.Request) {
	src := source{ConfigPath: cmd.ConfigPath, Compression: cmd.Compression, LogLevel: cmd.LogLevel}
	c, err := src.settings(func(c *config.Config) {
		if cmd.Select != "" {
			c.Select = cmd.Select
		}
		if cmd.Rate != 0 {
			c.Rate = cmd.Rate
		}
		if cmd.Limit != 0 {
			c.Limit = cmd.Limit
		}
		if cmd.Format != "" {
			c.Format = cmd.Format
		}
		c.Unique = c.Unique || cmd.Unique
	})
	if err != nil {
		cli.HandleError(w, r, err)
		return
	}
	project, err := newProjection(c.Select)
	if err != nil {
		cli.HandleError(w, r, err)
		return
	}

	ctx := passContext(r.Context(), "stream", cmd.Path)
	input, err := open(r, cmd.Path, c.Compression)
	if err != nil {
		cli.HandleError(w, r, err)
		return
	}

	records := recordstream.New[json.RawMessage](input, recordstream.WithContext(ctx))
	defer records.Close()

	var (
		limiter = newLimiter(c.Rate, c.Burst)
		out     = newRecordWriter(w, c.Format)
		seen    = dedup{}
		printed int
		skipped int
	)
	for records.Next() {
		raw, ok, err := project(records.Value())
		if err != nil {
			cli.HandleError(w, r, err)
			return
		}
		if !ok || (c.Unique && seen.Seen(raw)) {
			skipped++
			continue
		}
		if err := limiter.Wait(ctx); err != nil {
			cli.HandleError(w, r, err)
			return
		}
		if err := out.WriteRecord(raw); err != nil {
			cli.HandleError(w, r, err)
			return
		}
		printed++
		if 0 < c.Limit && c.Limit <= printed {
			logger.Debug(ctx, "record limit reached", logging.Field("limit", c.Limit))
			break
		}
	}
	if err := records.Err(); err != nil {
		logger.Error(ctx, "record stream failed", logging.ErrField(err))
		cli.HandleError(w, r, err)
		return
	}
	logger.Info(ctx, "record stream finished",
		logging.Field("printed", printed),
		logging.Field("skipped", skipped))
}

func newLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
}

// Package command holds the cli handlers of the recordstream command.
package command

import (
	"context"
	"io"

	"github.com/google/uuid"
	"go.llib.dev/frameless/pkg/cli"
	"go.llib.dev/frameless/pkg/enum"
	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"

	"go.llib.dev/recordstream/internal/config"
	"go.llib.dev/recordstream/pkg/docsource"
)

// Mux registers every command.
func Mux() *cli.Mux {
	var m cli.Mux
	m.Handle("stream", StreamCommand{})
	m.Handle("documents", DocumentsCommand{})
	m.Handle("chain", ChainCommand{})
	return &m
}

// source holds the flags every command has.
// Empty values leave the configured setting in place.
type source struct {
	ConfigPath  string
	Compression string
	LogLevel    string
}

// settings loads the configuration, and applies the flags that were given on top of it.
func (s source) settings(apply func(*config.Config)) (config.Config, error) {
	c, err := config.Load(s.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if s.Compression != "" {
		c.Compression = s.Compression
	}
	if s.LogLevel != "" {
		c.LogLevel = s.LogLevel
	}
	if apply != nil {
		apply(&c)
	}
	if err := enum.ValidateStruct(c); err != nil {
		return config.Config{}, err
	}
	logger.Configure(func(l *logging.Logger) {
		l.Level = logging.Level(c.LogLevel)
	})
	return c, nil
}

// open opens the document at path.
// The "-" path reads the body of the request.
func open(r *cli.Request, path string, compression string) (io.ReadCloser, error) {
	c, err := docsource.ParseCompression(compression)
	if err != nil {
		return nil, err
	}
	if path == docsource.Stdin && r.Body != nil {
		return docsource.Wrap(io.NopCloser(r.Body), c)
	}
	return docsource.Open(path, c)
}

// passContext tags the logs of a single decode pass.
func passContext(ctx context.Context, command, path string) context.Context {
	return logging.ContextWith(ctx,
		logging.Field("pass_id", uuid.NewString()),
		logging.Field("command", command),
		logging.Field("path", path))
}

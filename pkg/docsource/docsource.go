// Package docsource opens JSON documents from files or stdin,
// and transparently decompresses them.
package docsource

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"go.llib.dev/frameless/pkg/errorkit"
)

const ErrUnknownCompression errorkit.Error = "unknown compression"

// Compression names a supported compression format.
type Compression string

const (
	// Auto detects the compression from the file extension.
	Auto Compression = ""
	None Compression = "none"
	Gzip Compression = "gzip"
	Zstd Compression = "zstd"
	S2   Compression = "s2"
	LZ4  Compression = "lz4"
)

var extensions = map[string]Compression{
	".gz":  Gzip,
	".zst": Zstd,
	".sz":  S2,
	".s2":  S2,
	".lz4": LZ4,
}

// Detect tells the compression of a file by its extension.
func Detect(path string) Compression {
	if c, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return c
	}
	return None
}

// Stdin is the path that makes Open read the standard input.
const Stdin = "-"

// Open opens path for reading, and decompresses its content with c.
// Closing the returned reader closes both the decompressor and the file.
// The standard input is never closed.
func Open(path string, c Compression) (io.ReadCloser, error) {
	var f io.ReadCloser
	if path == Stdin {
		f = io.NopCloser(os.Stdin)
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		f = file
	}
	if c == Auto {
		c = Detect(path)
	}
	r, err := Wrap(f, c)
	if err != nil {
		return nil, errorkit.Merge(err, f.Close())
	}
	return r, nil
}

// Wrap decompresses r with c.
// The returned reader closes r when it is closed.
func Wrap(r io.ReadCloser, c Compression) (io.ReadCloser, error) {
	switch c {
	case None, Auto:
		return r, nil
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return &readCloser{Reader: zr, closers: []io.Closer{zr, r}}, nil
	case Zstd:
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return &readCloser{Reader: zr, closers: []io.Closer{zr.IOReadCloser(), r}}, nil
	case S2:
		return &readCloser{Reader: s2.NewReader(r), closers: []io.Closer{r}}, nil
	case LZ4:
		return &readCloser{Reader: lz4.NewReader(r), closers: []io.Closer{r}}, nil
	default:
		return nil, ErrUnknownCompression.F("%q", c)
	}
}

// ParseCompression accepts the names of the Compression constants, and "auto" or "" for Auto.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(s)); c {
	case Auto, "auto":
		return Auto, nil
	case None, Gzip, Zstd, S2, LZ4:
		return c, nil
	default:
		return "", ErrUnknownCompression.F("%q", s)
	}
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var errs []error
	for _, c := range rc.closers {
		errs = append(errs, c.Close())
	}
	return errorkit.Merge(errs...)
}

package recordstream

import (
	"context"
	"encoding/json"

	"go.llib.dev/frameless/port/option"
)

type Option interface {
	option.Option[Config]
}

type Config struct {
	// Context is used by the producer while it hands over records.
	// When it is done, the producer stops without sending a terminal error.
	//
	// Default: context.Background()
	Context context.Context
	// UseNumber causes the element decoding to unmarshal a number into an
	// interface value as a json.Number instead of as a float64.
	UseNumber bool
	// DisallowUnknownFields makes the default element decoding fail
	// when an object element has a key that doesn't match any field of the record type.
	DisallowUnknownFields bool
}

func (c *Config) Init() {
	c.Context = context.Background()
}

// WithContext sets the context the producer works with.
func WithContext(ctx context.Context) Option {
	return option.Func[Config](func(c *Config) {
		if ctx != nil {
			c.Context = ctx
		}
	})
}

func UseNumber() Option {
	return option.Func[Config](func(c *Config) { c.UseNumber = true })
}

func DisallowUnknownFields() Option {
	return option.Func[Config](func(c *Config) { c.DisallowUnknownFields = true })
}

// DecodeFunc turns a single raw array element into a record.
type DecodeFunc[T any] func(json.RawMessage) (T, error)

// Package config holds the settings of the recordstream command.
//
// Settings are resolved in layers: built-in defaults,
// then an optional YAML file, then environment variables.
// Command flags are applied on top by the commands themselves.
package config

import (
	"os"

	"github.com/goccy/go-yaml"
	"go.llib.dev/frameless/pkg/env"
	"go.llib.dev/frameless/pkg/errorkit"
)

const ErrInvalidFile errorkit.Error = "invalid config file"

type Config struct {
	LogLevel    string  `yaml:"log_level"   env:"RECORDSTREAM_LOG_LEVEL"   enum:"debug;info;warn;error;"`
	Compression string  `yaml:"compression" env:"RECORDSTREAM_COMPRESSION" enum:"auto;none;gzip;zstd;s2;lz4;"`
	Format      string  `yaml:"format"      env:"RECORDSTREAM_FORMAT"      enum:"jsonl;bson;"`
	Rate        float64 `yaml:"rate"        env:"RECORDSTREAM_RATE"`
	Burst       int     `yaml:"burst"       env:"RECORDSTREAM_BURST"`
	Limit       int     `yaml:"limit"       env:"RECORDSTREAM_LIMIT"`
	Select      string  `yaml:"select"      env:"RECORDSTREAM_SELECT"`
	Unique      bool    `yaml:"unique"      env:"RECORDSTREAM_UNIQUE"`
}

func Default() Config {
	return Config{
		LogLevel:    "info",
		Compression: "auto",
		Format:      "jsonl",
		Burst:       1,
	}
}

// Load resolves the configuration.
// An empty path skips the YAML layer.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return Config{}, ErrInvalidFile.Wrap(err)
		}
	}
	if err := env.Load(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}

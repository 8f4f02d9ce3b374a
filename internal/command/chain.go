package command

import (
	"encoding/json"

	"go.llib.dev/frameless/pkg/cli"
	"go.llib.dev/frameless/pkg/errorkit"

	"go.llib.dev/recordstream/pkg/chainconf"
)

// ChainCommand decodes a chain configuration file, and prints it in its canonical form.
type ChainCommand struct {
	ConfigPath  string `flag:"config" desc:"path of a YAML config file"`
	Compression string `flag:"compression" desc:"auto, none, gzip, zstd, s2 or lz4"`
	LogLevel    string `flag:"log-level" desc:"debug, info, warn or error"`

	Path string `arg:"0" required:"true" desc:"path of the chain file, - for stdin"`
}

func (cmd ChainCommand) Summary() string {
	return "decode a chain configuration file"
}

func (cmd ChainCommand) ServeCLI(w cli.Response, r *cli.Request) {
	src := source{ConfigPath: cmd.ConfigPath, Compression: cmd.Compression, LogLevel: cmd.LogLevel}
	c, err := src.settings(nil)
	if err != nil {
		cli.HandleError(w, r, err)
		return
	}
	ctx := passContext(r.Context(), "chain", cmd.Path)
	err = func() (rErr error) {
		input, err := open(r, cmd.Path, c.Compression)
		if err != nil {
			return err
		}
		defer errorkit.Finish(&rErr, input.Close)

		conf, err := chainconf.DecodeChainConfig(ctx, input)
		if err != nil {
			return err
		}
		return json.NewEncoder(w).Encode(conf)
	}()
	if err != nil {
		cli.HandleError(w, r, err)
	}
}

package main

import (
	"context"

	"go.llib.dev/frameless/pkg/cli"

	"go.llib.dev/recordstream/internal/command"
)

func main() {
	cli.Main(context.Background(), command.Mux())
}

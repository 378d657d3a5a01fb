// Command ytringtones is the installable form of the root package:
// go install github.com/ytget/yt-ringtones/cmd/ytringtones@latest
package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/ytget/yt-ringtones/internal/cli"
	"github.com/ytget/yt-ringtones/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(cli.Execute(cli.Options{
		Version: version,
		RunGUI: func(logger *zap.Logger) error {
			return ui.Run(version, logger)
		},
	}))
}

package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/ytget/yt-ringtones/internal/cli"
	"github.com/ytget/yt-ringtones/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	os.Exit(cli.Execute(cli.Options{
		Version: version,
		RunGUI: func(logger *zap.Logger) error {
			return ui.Run(version, logger)
		},
	}))
}

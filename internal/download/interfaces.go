package download

import (
	"context"

	"github.com/ytget/yt-ringtones/internal/runner"
)

// Downloader defines the interface for the download service.
type Downloader interface {
	Download(ctx context.Context, req Request) Result
	Install(ctx context.Context, withFFmpeg bool) (Installed, error)
}

// Backend runs the downloader for one request. The go-ytdlp backend is the
// production implementation; tests substitute fakes.
type Backend interface {
	Run(ctx context.Context, req Request) runner.Result
}

package transcode

import (
	"context"

	"github.com/ytget/yt-ringtones/internal/runner"
)

// Transcoder defines the interface for the ringtone service.
type Transcoder interface {
	MakeAndroid(ctx context.Context, req Request) (string, runner.Result)
	MakeIphone(ctx context.Context, req Request) (string, runner.Result)
}

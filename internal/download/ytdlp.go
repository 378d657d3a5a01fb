package download

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"

	"github.com/ytget/yt-ringtones/internal/config"
	"github.com/ytget/yt-ringtones/internal/runner"
)

// yt-dlp constants for the presets
const (
	RingtoneFormat     = "mp4"
	RingtoneTemplate   = "%(title)s.mp4"
	BestFormatSort     = "res,ext:mp4:m4a"
	BestRecodeVideo    = "mp4"
	BestTemplate       = "%(title)s.%(ext)s"
	PrintFinalFilepath = "after_move:filepath"
)

// YtdlpBackend runs yt-dlp through go-ytdlp
type YtdlpBackend struct {
	logger *zap.Logger
}

// NewCommand configures a go-ytdlp command for req. An empty or bare
// "yt-dlp" executable lets go-ytdlp resolve its cached install or PATH.
func NewCommand(req Request) *ytdlp.Command {
	dl := ytdlp.New().
		ForceOverwrites().
		NoPlaylist().
		Print(PrintFinalFilepath).
		NoSimulate()

	switch req.Preset {
	case config.PresetBest:
		dl = dl.FormatSort(BestFormatSort).
			RecodeVideo(BestRecodeVideo).
			Output(filepath.Join(req.Dir, BestTemplate))
	default:
		dl = dl.Format(RingtoneFormat).
			Output(filepath.Join(req.Dir, RingtoneTemplate))
	}

	if req.Executable != "" && req.Executable != config.DefaultYtDlpPath {
		dl = dl.SetExecutable(req.Executable)
	}
	return dl
}

// Run executes the command and maps go-ytdlp's result onto runner.Result
func (b *YtdlpBackend) Run(ctx context.Context, req Request) runner.Result {
	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	out := runner.Result{
		Command:  "yt-dlp " + req.URL,
		ExitCode: runner.ExitCodeNotStarted,
	}

	res, err := NewCommand(req).Run(ctx, req.URL)
	if res != nil {
		out.Command = runner.FormatCommandLine(res.Executable, res.Args)
		out.ExitCode = res.ExitCode
		out.Stdout = res.Stdout
		out.Stderr = res.Stderr
	}
	// A nil result or a negative exit code means the process never ran
	if err != nil && (res == nil || res.ExitCode < 0) {
		out.ExitCode = runner.ExitCodeNotStarted
		out.Err = fmt.Errorf("run yt-dlp: %w", err)
	} else if err != nil && res.ExitCode == 0 {
		logger.Warn("yt-dlp exited cleanly with an error", zap.Error(err))
	}

	logger.Debug("yt-dlp finished",
		zap.String("command", out.Command),
		zap.Int("exit_code", out.ExitCode),
		zap.Error(out.Err))
	return out
}

// YtdlpInstaller uses go-ytdlp's managed installers
type YtdlpInstaller struct{}

// InstallYtDlp downloads yt-dlp into go-ytdlp's cache
func (YtdlpInstaller) InstallYtDlp(ctx context.Context) (string, error) {
	resolved, err := ytdlp.Install(ctx, nil)
	if err != nil {
		return "", err
	}
	return resolved.Executable, nil
}

// InstallFFmpeg downloads an ffmpeg build into go-ytdlp's cache
func (YtdlpInstaller) InstallFFmpeg(ctx context.Context) (string, error) {
	resolved, err := ytdlp.InstallFFmpeg(ctx, nil)
	if err != nil {
		return "", err
	}
	return resolved.Executable, nil
}

// InstallFFprobe downloads an ffprobe build into go-ytdlp's cache
func (YtdlpInstaller) InstallFFprobe(ctx context.Context) (string, error) {
	resolved, err := ytdlp.InstallFFprobe(ctx, nil)
	if err != nil {
		return "", err
	}
	return resolved.Executable, nil
}

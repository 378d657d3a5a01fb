package download

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ytget/yt-ringtones/internal/config"
	"github.com/ytget/yt-ringtones/internal/runner"
)

// Request describes one download
type Request struct {
	URL        string
	Dir        string
	Preset     config.Preset
	Executable string
}

// Result is the outcome of one downloader run. Path is the file reported by
// yt-dlp itself; it is empty when nothing was printed.
type Result struct {
	Path string
	Run  runner.Result
}

// OK reports whether yt-dlp exited cleanly
func (r Result) OK() bool {
	return r.Run.OK()
}

// Installed lists executables placed by Install
type Installed struct {
	YtDlp   string
	FFmpeg  string
	FFprobe string
}

// Installer installs the managed tools
type Installer interface {
	InstallYtDlp(ctx context.Context) (string, error)
	InstallFFmpeg(ctx context.Context) (string, error)
	InstallFFprobe(ctx context.Context) (string, error)
}

// Service handles download operations
type Service struct {
	backend   Backend
	installer Installer
	logger    *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithBackend replaces the go-ytdlp backend
func WithBackend(b Backend) Option {
	return func(s *Service) {
		if b != nil {
			s.backend = b
		}
	}
}

// WithInstaller replaces the go-ytdlp installer
func WithInstaller(i Installer) Option {
	return func(s *Service) {
		if i != nil {
			s.installer = i
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a new download service
func NewService(opts ...Option) *Service {
	s := &Service{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.backend == nil {
		s.backend = &YtdlpBackend{logger: s.logger}
	}
	if s.installer == nil {
		s.installer = YtdlpInstaller{}
	}
	return s
}

// Download runs yt-dlp for req.URL and resolves the reported output path.
// The file's existence is left to the caller.
func (s *Service) Download(ctx context.Context, req Request) Result {
	req.URL = strings.TrimSpace(req.URL)
	if !req.Preset.Valid() {
		req.Preset = config.DefaultPreset
	}

	s.logger.Info("starting download",
		zap.String("url", req.URL),
		zap.String("dir", req.Dir),
		zap.String("preset", string(req.Preset)))

	res := Result{Run: s.backend.Run(ctx, req)}
	if !res.Run.OK() {
		s.logger.Warn("download failed",
			zap.String("url", req.URL),
			zap.Int("exit_code", res.Run.ExitCode),
			zap.String("reason", res.Run.Reason()))
		return res
	}

	res.Path = ParseOutputPath(res.Run.Stdout, req.Dir)
	s.logger.Info("download finished", zap.String("url", req.URL), zap.String("path", res.Path))
	return res
}

// Install installs yt-dlp and, when withFFmpeg is set, ffmpeg and ffprobe
func (s *Service) Install(ctx context.Context, withFFmpeg bool) (Installed, error) {
	var installed Installed
	var err error

	if installed.YtDlp, err = s.installer.InstallYtDlp(ctx); err != nil {
		return installed, fmt.Errorf("install yt-dlp: %w", err)
	}
	s.logger.Info("yt-dlp installed", zap.String("path", installed.YtDlp))
	if !withFFmpeg {
		return installed, nil
	}

	if installed.FFmpeg, err = s.installer.InstallFFmpeg(ctx); err != nil {
		return installed, fmt.Errorf("install ffmpeg: %w", err)
	}
	if installed.FFprobe, err = s.installer.InstallFFprobe(ctx); err != nil {
		return installed, fmt.Errorf("install ffprobe: %w", err)
	}
	s.logger.Info("ffmpeg installed",
		zap.String("ffmpeg", installed.FFmpeg),
		zap.String("ffprobe", installed.FFprobe))
	return installed, nil
}

// ParseOutputPath picks the file path yt-dlp printed for after_move:filepath.
// The last non-log line wins; relative paths are resolved against dir.
func ParseOutputPath(stdout, dir string) string {
	lines := strings.Split(strings.ReplaceAll(stdout, "\r\n", "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "[") || filepath.Ext(line) == "" {
			continue
		}
		if !filepath.IsAbs(line) && dir != "" {
			line = filepath.Join(dir, line)
		}
		return filepath.Clean(line)
	}
	return ""
}

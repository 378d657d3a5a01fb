package transcode

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ytget/yt-ringtones/internal/runner"
)

// FFmpeg constants for ringtone settings
const (
	// Shared flags
	OverwriteFlag = "-y"
	NoStdinFlag   = "-nostdin"

	// Android: best VBR mp3 of the first audio stream
	AndroidAudioQuality = "0"
	AndroidStreamMap    = "a"

	// iPhone: AAC in an mp4 container with the .m4r extension
	IphoneAudioCodec   = "aac"
	IphoneAudioBitrate = "128k"
	IphoneContainer    = "mp4"

	// Output names inside the downloads directory
	AndroidRingtoneName = "AndroidRingtone.mp3"
	IphoneRingtoneName  = "iPhoneRingtone.m4r"

	// Executable and probe constants
	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
)

// Request describes one ringtone conversion. Empty executables fall back to
// the service defaults.
type Request struct {
	Input   string
	OutDir  string
	Seconds int
	FFmpeg  string
	FFprobe string
}

// Service runs ffmpeg for the two ringtone formats
type Service struct {
	runner  runner.Runner
	ffmpeg  string
	ffprobe string
	logger  *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithFFmpeg overrides the ffmpeg executable
func WithFFmpeg(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.ffmpeg = path
		}
	}
}

// WithFFprobe overrides the ffprobe executable
func WithFFprobe(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.ffprobe = path
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

// NewService creates a ringtone service on top of r
func NewService(r runner.Runner, opts ...Option) *Service {
	s := &Service{
		runner:  r,
		ffmpeg:  FFmpegCommand,
		ffprobe: FFprobeCommand,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MakeAndroid cuts the first req.Seconds of req.Input's audio into
// <OutDir>/AndroidRingtone.mp3. The returned path is set even on failure.
func (s *Service) MakeAndroid(ctx context.Context, req Request) (string, runner.Result) {
	output := AndroidRingtonePath(req.OutDir)
	seconds := s.clipSeconds(ctx, req)
	return output, s.runner.Run(ctx, s.ffmpegFor(req), BuildAndroidArgs(req.Input, output, seconds)...)
}

// MakeIphone converts req.Input (the Android mp3) into <OutDir>/iPhoneRingtone.m4r
func (s *Service) MakeIphone(ctx context.Context, req Request) (string, runner.Result) {
	output := IphoneRingtonePath(req.OutDir)
	return output, s.runner.Run(ctx, s.ffmpegFor(req), BuildIphoneArgs(req.Input, output, req.Seconds)...)
}

// ProbeDuration returns the media duration in seconds using ffprobe
func (s *Service) ProbeDuration(ctx context.Context, ffprobe, path string) (float64, error) {
	if ffprobe == "" {
		ffprobe = s.ffprobe
	}
	res := s.runner.Run(ctx, ffprobe, BuildProbeArgs(path)...)
	if !res.OK() {
		return 0, fmt.Errorf("failed to run ffprobe: %s", res.Reason())
	}
	return ParseDuration(res.Stdout)
}

func (s *Service) ffmpegFor(req Request) string {
	if req.FFmpeg != "" {
		return req.FFmpeg
	}
	return s.ffmpeg
}

// clipSeconds shortens the clip for sources shorter than the requested
// length. Probe failures are not fatal; ffmpeg then gets the requested value.
func (s *Service) clipSeconds(ctx context.Context, req Request) int {
	input, seconds := req.Input, req.Seconds
	duration, err := s.ProbeDuration(ctx, req.FFprobe, input)
	if err != nil {
		s.logger.Debug("duration probe skipped", zap.String("input", input), zap.Error(err))
		return seconds
	}
	if whole := int(math.Ceil(duration)); whole > 0 && whole < seconds {
		s.logger.Info("source shorter than ringtone length",
			zap.String("input", input),
			zap.Float64("duration", duration),
			zap.Int("requested", seconds))
		return whole
	}
	return seconds
}

// BuildAndroidArgs builds the ffmpeg arguments for the mp3 ringtone
func BuildAndroidArgs(inputPath, outputPath string, seconds int) []string {
	return []string{
		OverwriteFlag,
		NoStdinFlag,
		"-i", inputPath,
		"-t", strconv.Itoa(seconds),
		"-q:a", AndroidAudioQuality,
		"-map", AndroidStreamMap,
		outputPath,
	}
}

// BuildIphoneArgs builds the ffmpeg arguments for the m4r ringtone
func BuildIphoneArgs(inputPath, outputPath string, seconds int) []string {
	return []string{
		OverwriteFlag,
		NoStdinFlag,
		"-i", inputPath,
		"-t", strconv.Itoa(seconds),
		"-acodec", IphoneAudioCodec,
		"-b:a", IphoneAudioBitrate,
		"-f", IphoneContainer,
		outputPath,
	}
}

// BuildProbeArgs builds the ffprobe arguments that print the duration only
func BuildProbeArgs(path string) []string {
	return []string{"-v", FFprobeLogLevel, "-show_entries", FFprobeShowEntries, "-of", FFprobeOutputFormat, path}
}

// ParseDuration parses ffprobe's duration output
func ParseDuration(output string) (float64, error) {
	durationStr := strings.TrimSpace(output)
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return duration, nil
}

// AndroidRingtonePath returns where the Android ringtone is written
func AndroidRingtonePath(dir string) string {
	return filepath.Join(dir, AndroidRingtoneName)
}

// IphoneRingtonePath returns where the iPhone ringtone is written
func IphoneRingtonePath(dir string) string {
	return filepath.Join(dir, IphoneRingtoneName)
}

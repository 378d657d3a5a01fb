package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ytget/yt-ringtones/internal/platform"
)

// Preset selects the downloader flags
type Preset string

const (
	// PresetRingtone downloads a single mp4 stream (-f mp4)
	PresetRingtone Preset = "ringtone"
	// PresetBest sorts by resolution and recodes to mp4
	PresetBest Preset = "best"
)

// Ringtone length bounds in seconds
const (
	MinRingtoneSeconds = 1
	MaxRingtoneSeconds = 40
)

// Default values
const (
	DefaultPreset          = PresetRingtone
	DefaultRingtoneSeconds = 20
	DefaultYtDlpPath       = "yt-dlp"
	DefaultFFmpegPath      = "ffmpeg"
	DefaultFFprobePath     = "ffprobe"
	DefaultStatusLogName   = "ytringtones.log"
	DefaultLogLevel        = "info"
	DefaultLanguage        = "system"
)

// Config is the resolved configuration for one run of the app.
type Config struct {
	DownloadDir     string `toml:"download_dir" comment:"Folder for videos, ringtones and readme.txt"`
	Preset          Preset `toml:"preset" comment:"Downloader preset: ringtone (-f mp4) or best (sort by resolution, recode to mp4)"`
	RingtoneSeconds int    `toml:"ringtone_seconds" comment:"Ringtone length in seconds (1-40)"`
	YtDlpPath       string `toml:"ytdlp_path" comment:"yt-dlp executable"`
	FFmpegPath      string `toml:"ffmpeg_path" comment:"ffmpeg executable"`
	FFprobePath     string `toml:"ffprobe_path" comment:"ffprobe executable"`
	StatusLog       string `toml:"status_log" comment:"Status log file; empty means <download_dir>/ytringtones.log"`
	LogLevel        string `toml:"log_level" comment:"debug, info, warn or error"`
	Language        string `toml:"language" comment:"system, en, ru or pt"`
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		DownloadDir:     platform.DefaultDownloadDir(),
		Preset:          DefaultPreset,
		RingtoneSeconds: DefaultRingtoneSeconds,
		YtDlpPath:       DefaultYtDlpPath,
		FFmpegPath:      DefaultFFmpegPath,
		FFprobePath:     DefaultFFprobePath,
		LogLevel:        DefaultLogLevel,
		Language:        DefaultLanguage,
	}
}

// WithDefaults fills empty fields from Default
func (c Config) WithDefaults() Config {
	d := Default()
	c.DownloadDir = strings.TrimSpace(c.DownloadDir)
	if c.DownloadDir == "" {
		c.DownloadDir = d.DownloadDir
	}
	if c.Preset == "" {
		c.Preset = d.Preset
	}
	if c.RingtoneSeconds == 0 {
		c.RingtoneSeconds = d.RingtoneSeconds
	}
	if strings.TrimSpace(c.YtDlpPath) == "" {
		c.YtDlpPath = d.YtDlpPath
	}
	if strings.TrimSpace(c.FFmpegPath) == "" {
		c.FFmpegPath = d.FFmpegPath
	}
	if strings.TrimSpace(c.FFprobePath) == "" {
		c.FFprobePath = d.FFprobePath
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = d.LogLevel
	}
	if strings.TrimSpace(c.Language) == "" {
		c.Language = d.Language
	}
	return c
}

// Validate checks the values a run depends on
func (c Config) Validate() error {
	if strings.TrimSpace(c.DownloadDir) == "" {
		return fmt.Errorf("download_dir is required")
	}
	if !c.Preset.Valid() {
		return fmt.Errorf("preset must be %q or %q, got %q", PresetRingtone, PresetBest, c.Preset)
	}
	if c.RingtoneSeconds < MinRingtoneSeconds || c.RingtoneSeconds > MaxRingtoneSeconds {
		return fmt.Errorf("ringtone_seconds must be between %d and %d, got %d", MinRingtoneSeconds, MaxRingtoneSeconds, c.RingtoneSeconds)
	}
	return nil
}

// StatusLogPath returns where status messages are appended
func (c Config) StatusLogPath() string {
	if p := strings.TrimSpace(c.StatusLog); p != "" {
		return p
	}
	return filepath.Join(c.DownloadDir, DefaultStatusLogName)
}

// Valid reports whether p is a known preset
func (p Preset) Valid() bool {
	return p == PresetRingtone || p == PresetBest
}

// PresetOptions returns the available presets in display order
func PresetOptions() []Preset {
	return []Preset{PresetRingtone, PresetBest}
}

// ClampSeconds keeps a ringtone length inside the supported range
func ClampSeconds(seconds int) int {
	if seconds < MinRingtoneSeconds {
		return MinRingtoneSeconds
	}
	if seconds > MaxRingtoneSeconds {
		return MaxRingtoneSeconds
	}
	return seconds
}

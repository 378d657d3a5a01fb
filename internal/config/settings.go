package config

import (
	"fyne.io/fyne/v2"
)

// Keys shared by Fyne preferences, the config file and flag bindings
const (
	KeyDownloadDir     = "download_dir"
	KeyPreset          = "preset"
	KeyRingtoneSeconds = "ringtone_seconds"
	KeyYtDlpPath       = "ytdlp_path"
	KeyFFmpegPath      = "ffmpeg_path"
	KeyFFprobePath     = "ffprobe_path"
	KeyStatusLog       = "status_log"
	KeyLogLevel        = "log_level"
	KeyLanguage        = "language"
)

// Settings manages application configuration stored in Fyne preferences
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		dir = Default().DownloadDir
		s.SetDownloadDirectory(dir)
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetPreset returns the configured downloader preset
func (s *Settings) GetPreset() Preset {
	preset := Preset(s.app.Preferences().String(KeyPreset))
	if !preset.Valid() {
		s.SetPreset(DefaultPreset)
		return DefaultPreset
	}
	return preset
}

// SetPreset sets the downloader preset; unknown values fall back to the default
func (s *Settings) SetPreset(preset Preset) {
	if !preset.Valid() {
		preset = DefaultPreset
	}
	s.app.Preferences().SetString(KeyPreset, string(preset))
}

// GetRingtoneSeconds returns the ringtone length
func (s *Settings) GetRingtoneSeconds() int {
	value := s.app.Preferences().Int(KeyRingtoneSeconds)
	if value <= 0 {
		s.SetRingtoneSeconds(DefaultRingtoneSeconds)
		return DefaultRingtoneSeconds
	}
	return value
}

// SetRingtoneSeconds sets the ringtone length, clamped to the supported range
func (s *Settings) SetRingtoneSeconds(seconds int) {
	s.app.Preferences().SetInt(KeyRingtoneSeconds, ClampSeconds(seconds))
}

// GetYtDlpPath returns the yt-dlp executable
func (s *Settings) GetYtDlpPath() string {
	return s.app.Preferences().StringWithFallback(KeyYtDlpPath, DefaultYtDlpPath)
}

// SetYtDlpPath sets the yt-dlp executable
func (s *Settings) SetYtDlpPath(path string) {
	if path == "" {
		path = DefaultYtDlpPath
	}
	s.app.Preferences().SetString(KeyYtDlpPath, path)
}

// GetFFmpegPath returns the ffmpeg executable
func (s *Settings) GetFFmpegPath() string {
	return s.app.Preferences().StringWithFallback(KeyFFmpegPath, DefaultFFmpegPath)
}

// SetFFmpegPath sets the ffmpeg executable
func (s *Settings) SetFFmpegPath(path string) {
	if path == "" {
		path = DefaultFFmpegPath
	}
	s.app.Preferences().SetString(KeyFFmpegPath, path)
}

// GetLogLevel returns the console log level
func (s *Settings) GetLogLevel() string {
	return s.app.Preferences().StringWithFallback(KeyLogLevel, DefaultLogLevel)
}

// SetLogLevel sets the console log level
func (s *Settings) SetLogLevel(level string) {
	s.app.Preferences().SetString(KeyLogLevel, level)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

// Config snapshots the preferences into an immutable Config
func (s *Settings) Config() Config {
	cfg := Config{
		DownloadDir:     s.GetDownloadDirectory(),
		Preset:          s.GetPreset(),
		RingtoneSeconds: s.GetRingtoneSeconds(),
		YtDlpPath:       s.GetYtDlpPath(),
		FFmpegPath:      s.GetFFmpegPath(),
		FFprobePath:     s.app.Preferences().StringWithFallback(KeyFFprobePath, DefaultFFprobePath),
		StatusLog:       s.app.Preferences().String(KeyStatusLog),
		LogLevel:        s.GetLogLevel(),
		Language:        s.GetLanguage(),
	}
	return cfg.WithDefaults()
}

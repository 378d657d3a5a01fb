package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. YTRINGTONES_PRESET
const EnvPrefix = "YTRINGTONES"

// ConfigFileName is the file looked up in DefaultConfigDir
const ConfigFileName = "config.toml"

// flagKeys maps CLI flag names to config keys
var flagKeys = map[string]string{
	"dir":        KeyDownloadDir,
	"preset":     KeyPreset,
	"seconds":    KeyRingtoneSeconds,
	"ytdlp":      KeyYtDlpPath,
	"ffmpeg":     KeyFFmpegPath,
	"ffprobe":    KeyFFprobePath,
	"status-log": KeyStatusLog,
	"log-level":  KeyLogLevel,
}

// DefaultConfigDir returns <user config dir>/ytringtones
func DefaultConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "ytringtones")
}

// DefaultConfigPath returns the config file used when --config is not given
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), ConfigFileName)
}

// Load resolves a Config from defaults, an optional TOML file, YTRINGTONES_*
// environment variables and changed flags, in increasing precedence. An
// explicit path must exist; the default path is optional.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	def := Default()
	v.SetDefault(KeyDownloadDir, def.DownloadDir)
	v.SetDefault(KeyPreset, string(def.Preset))
	v.SetDefault(KeyRingtoneSeconds, def.RingtoneSeconds)
	v.SetDefault(KeyYtDlpPath, def.YtDlpPath)
	v.SetDefault(KeyFFmpegPath, def.FFmpegPath)
	v.SetDefault(KeyFFprobePath, def.FFprobePath)
	v.SetDefault(KeyStatusLog, "")
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeyLanguage, def.Language)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigFile(DefaultConfigPath())
		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return Config{}, fmt.Errorf("read config %s: %w", DefaultConfigPath(), err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	cfg := Config{
		DownloadDir:     expandHome(v.GetString(KeyDownloadDir)),
		Preset:          Preset(strings.ToLower(strings.TrimSpace(v.GetString(KeyPreset)))),
		RingtoneSeconds: v.GetInt(KeyRingtoneSeconds),
		YtDlpPath:       v.GetString(KeyYtDlpPath),
		FFmpegPath:      v.GetString(KeyFFmpegPath),
		FFprobePath:     v.GetString(KeyFFprobePath),
		StatusLog:       expandHome(v.GetString(KeyStatusLog)),
		LogLevel:        v.GetString(KeyLogLevel),
		Language:        v.GetString(KeyLanguage),
	}.WithDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

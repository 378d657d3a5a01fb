package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/ytget/yt-ringtones/internal/platform"
)

// ErrConfigExists is returned by WriteSample when it would overwrite a file
var ErrConfigExists = errors.New("config file already exists")

const sampleHeader = "# ytringtones configuration\n# Flags and YTRINGTONES_* environment variables override these values.\n\n"

// SampleTOML renders cfg as a commented TOML document
func SampleTOML(cfg Config) ([]byte, error) {
	body, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return append([]byte(sampleHeader), body...), nil
}

// WriteSample writes a sample config to path. An existing file is kept unless
// overwrite is set.
func WriteSample(path string, cfg Config, overwrite bool) error {
	if !overwrite && platform.FileExists(path) {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	data, err := SampleTOML(cfg)
	if err != nil {
		return err
	}
	if err := platform.CreateDirectoryIfNotExists(filepath.Dir(path)); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, platform.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

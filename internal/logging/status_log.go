package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// StatusLog appends every user-visible status message to a plain-text file,
// one "time<TAB>message" line per entry. A nil *StatusLog discards messages.
type StatusLog struct {
	path   string
	file   *os.File
	logger *zap.Logger
}

// OpenStatusLog opens (or creates) the status log at path in append mode.
func OpenStatusLog(path string) (*StatusLog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("status log path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create status log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open status log %s: %w", path, err)
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(file), zapcore.InfoLevel)

	return &StatusLog{
		path:   path,
		file:   file,
		logger: zap.New(core),
	}, nil
}

// Path returns the file the log writes to
func (s *StatusLog) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Append records one status message. Multi-line tool output is flattened so
// each entry stays on a single line.
func (s *StatusLog) Append(message string) {
	if s == nil {
		return
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	message = strings.ReplaceAll(message, "\r\n", " | ")
	message = strings.ReplaceAll(message, "\n", " | ")
	s.logger.Info(message)
}

// Close flushes and closes the underlying file
func (s *StatusLog) Close() error {
	if s == nil {
		return nil
	}
	_ = s.logger.Sync()
	return s.file.Close()
}

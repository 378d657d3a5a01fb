package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ytget/yt-ringtones/internal/config"
	"github.com/ytget/yt-ringtones/internal/download"
	"github.com/ytget/yt-ringtones/internal/logging"
	"github.com/ytget/yt-ringtones/internal/model"
	"github.com/ytget/yt-ringtones/internal/runner"
	"github.com/ytget/yt-ringtones/internal/transcode"
	"github.com/ytget/yt-ringtones/internal/workflow"
)

type commandContext struct {
	opts       Options
	configPath string

	loaded bool
	config config.Config
	logger *zap.Logger
}

func newCommandContext(opts Options) *commandContext {
	return &commandContext{opts: opts}
}

// outcomeError marks a failed operation whose message was already printed
type outcomeError struct {
	outcome model.Outcome
}

func (e *outcomeError) Error() string {
	return e.outcome.Message
}

func (c *commandContext) ensureConfig(cmd *cobra.Command) (config.Config, error) {
	if c.loaded {
		return c.config, nil
	}
	cfg, err := config.Load(strings.TrimSpace(c.configPath), cmd.Flags())
	if err != nil {
		return config.Config{}, err
	}
	c.config = cfg
	c.loaded = true
	return cfg, nil
}

func (c *commandContext) ensureLogger(cmd *cobra.Command) (*zap.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	cfg, err := c.ensureConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Output: cmd.ErrOrStderr()})
	if err != nil {
		return nil, err
	}
	c.logger = logger
	return logger, nil
}

// orchestrator builds a workflow printing every status line to stdout
func (c *commandContext) orchestrator(cmd *cobra.Command, opts ...workflow.Option) (*workflow.Orchestrator, error) {
	cfg, err := c.ensureConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger(cmd)
	if err != nil {
		return nil, err
	}

	downloader := c.opts.Downloader
	if downloader == nil {
		downloader = download.NewService(download.WithLogger(logger))
	}
	transcoder := c.opts.Transcoder
	if transcoder == nil {
		transcoder = transcode.NewService(runner.New(logger),
			transcode.WithFFmpeg(cfg.FFmpegPath),
			transcode.WithFFprobe(cfg.FFprobePath),
			transcode.WithLogger(logger))
	}

	out := cmd.OutOrStdout()
	base := []workflow.Option{
		workflow.WithLogger(logger),
		workflow.WithStatusListener(func(message string) {
			writeLine(out, "%s", message)
		}),
	}
	return workflow.New(cfg, downloader, transcoder, append(base, opts...)...), nil
}

// finish reports the produced file and converts a failure into an error
func finish(cmd *cobra.Command, outcome model.Outcome) error {
	if !outcome.Success {
		return &outcomeError{outcome: outcome}
	}
	if outcome.OutputPath == "" {
		return nil
	}
	if info, err := os.Stat(outcome.OutputPath); err == nil && info.Mode().IsRegular() {
		writeLine(cmd.OutOrStdout(), "Saved %s (%s)", outcome.OutputPath, humanize.Bytes(uint64(info.Size())))
	}
	return nil
}

// IsOutcomeFailure reports whether err came from a failed operation
func IsOutcomeFailure(err error) bool {
	var failed *outcomeError
	return errors.As(err, &failed)
}

func closeQuietly(o *workflow.Orchestrator, logger *zap.Logger) {
	if err := o.Close(); err != nil && logger != nil {
		logger.Warn("close status log", zap.Error(err))
	}
}

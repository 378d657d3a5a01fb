package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"github.com/ytget/yt-ringtones/internal/config"
	"github.com/ytget/yt-ringtones/internal/download"
	"github.com/ytget/yt-ringtones/internal/platform"
	"github.com/ytget/yt-ringtones/internal/runner"
	"github.com/ytget/yt-ringtones/internal/transcode"
	"github.com/ytget/yt-ringtones/internal/workflow"
)

// Run opens the main window and blocks until it is closed
func Run(version string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(NewCompactTheme())

	settings := config.NewSettings(myApp)
	cfg := settings.Config()
	if err := cfg.Validate(); err != nil {
		logger.Warn("stored settings invalid, using defaults", zap.Error(err))
		cfg = config.Default()
	}
	if err := platform.CreateDirectoryIfNotExists(cfg.DownloadDir); err != nil {
		logger.Warn("failed to ensure downloads dir", zap.String("dir", cfg.DownloadDir), zap.Error(err))
	}

	exec := runner.New(logger)
	orchestrator := workflow.New(cfg,
		download.NewService(download.WithLogger(logger)),
		transcode.NewService(exec, transcode.WithLogger(logger)),
		workflow.WithLogger(logger))
	defer func() {
		if err := orchestrator.Close(); err != nil {
			logger.Warn("failed to close status log", zap.Error(err))
		}
	}()

	window := myApp.NewWindow(NewLocalization().GetText(KeyAppTitle))
	window.Resize(fyne.NewSize(WindowWidth, WindowHeight))
	NewRootUI(window, myApp, orchestrator, exec, logger)

	logger.Info("gui started",
		zap.String("version", version),
		zap.String("download_dir", cfg.DownloadDir),
		zap.String("preset", string(cfg.Preset)))
	window.ShowAndRun()
	return nil
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ytget/yt-ringtones/internal/model"
	"github.com/ytget/yt-ringtones/internal/platform"
	"github.com/ytget/yt-ringtones/internal/runner"
	"github.com/ytget/yt-ringtones/internal/workflow"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "download URL",
		Short: "Download a video into the downloads folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := ctx.orchestrator(cmd)
			if err != nil {
				return err
			}
			defer closeQuietly(orch, ctx.logger)
			return finish(cmd, orch.Download(commandCtx(cmd), args[0]))
		},
	}
}

func newRingtoneCommand(ctx *commandContext) *cobra.Command {
	ringtoneCmd := &cobra.Command{
		Use:   "ringtone",
		Short: "Build ringtones from the downloaded video",
	}

	var videoPath string
	androidCmd := &cobra.Command{
		Use:   "android",
		Short: "Cut AndroidRingtone.mp3 from the newest video",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := ctx.orchestrator(cmd)
			if err != nil {
				return err
			}
			defer closeQuietly(orch, ctx.logger)
			if videoPath != "" {
				if err := orch.UseVideo(videoPath); err != nil {
					return err
				}
			}
			return finish(cmd, orch.MakeAndroidRingtone(commandCtx(cmd)))
		},
	}
	androidCmd.Flags().StringVar(&videoPath, "video", "", "Video to cut instead of the newest one in the downloads folder")

	iphoneCmd := &cobra.Command{
		Use:   "iphone",
		Short: "Convert AndroidRingtone.mp3 into iPhoneRingtone.m4r",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := ctx.orchestrator(cmd)
			if err != nil {
				return err
			}
			defer closeQuietly(orch, ctx.logger)
			return finish(cmd, orch.MakeIphoneRingtone(commandCtx(cmd)))
		},
	}

	ringtoneCmd.AddCommand(androidCmd, iphoneCmd)
	return ringtoneCmd
}

func newAllCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "all URL",
		Short: "Download a video and build both ringtones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := ctx.orchestrator(cmd)
			if err != nil {
				return err
			}
			defer closeQuietly(orch, ctx.logger)

			c := commandCtx(cmd)
			steps := []func() model.Outcome{
				func() model.Outcome { return orch.Download(c, args[0]) },
				func() model.Outcome { return orch.MakeAndroidRingtone(c) },
				func() model.Outcome { return orch.MakeIphoneRingtone(c) },
			}
			for _, step := range steps {
				if err := finish(cmd, step()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newOpenCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "open",
		Short: "Open the downloads folder in the file manager",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}
			if err := platform.CreateDirectoryIfNotExists(cfg.DownloadDir); err != nil {
				return fmt.Errorf("create downloads folder: %w", err)
			}
			launcher := ctx.opts.Launcher
			if launcher == nil {
				logger, err := ctx.ensureLogger(cmd)
				if err != nil {
					return err
				}
				launcher = runner.New(logger)
			}
			if err := platform.OpenFolder(launcher, cfg.DownloadDir); err != nil {
				return fmt.Errorf("open folder: %w", err)
			}
			writeLine(cmd.OutOrStdout(), "Opened %s", cfg.DownloadDir)
			return nil
		},
	}
}

func newInstallCommand(ctx *commandContext) *cobra.Command {
	var withFFmpeg bool
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install yt-dlp (and optionally ffmpeg) into the managed cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := ctx.orchestrator(cmd, workflow.WithFFmpegInstall(withFFmpeg))
			if err != nil {
				return err
			}
			defer closeQuietly(orch, ctx.logger)
			return finish(cmd, orch.InstallDownloader(commandCtx(cmd)))
		},
	}
	cmd.Flags().BoolVar(&withFFmpeg, "with-ffmpeg", false, "Also install ffmpeg and ffprobe")
	return cmd
}

func commandCtx(cmd *cobra.Command) context.Context {
	if c := cmd.Context(); c != nil {
		return c
	}
	return context.Background()
}

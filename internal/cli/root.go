package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ytget/yt-ringtones/internal/download"
	"github.com/ytget/yt-ringtones/internal/platform"
	"github.com/ytget/yt-ringtones/internal/transcode"
)

// Options wires the command tree. Nil services select the real implementations.
type Options struct {
	Version    string
	RunGUI     func(logger *zap.Logger) error
	Downloader download.Downloader
	Transcoder transcode.Transcoder
	Launcher   platform.Launcher
}

// Execute runs the command line and returns the process exit code
func Execute(opts Options) int {
	cmd := NewRootCommand(opts)
	if err := cmd.Execute(); err != nil {
		if !IsOutcomeFailure(err) && !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	return 0
}

// NewRootCommand builds the command tree
func NewRootCommand(opts Options) *cobra.Command {
	ctx := newCommandContext(opts)

	rootCmd := &cobra.Command{
		Use:           "ytringtones",
		Short:         "Download YouTube videos and turn them into ringtones",
		Version:       opts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.RunGUI == nil {
				return cmd.Help()
			}
			logger, err := ctx.ensureLogger(cmd)
			if err != nil {
				return err
			}
			return opts.RunGUI(logger)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.configPath, "config", "c", "", "Configuration file path")
	flags.String("dir", "", "Downloads folder")
	flags.String("preset", "", "Downloader preset: ringtone or best")
	flags.Int("seconds", 0, "Ringtone length in seconds (1-40)")
	flags.String("ytdlp", "", "yt-dlp executable")
	flags.String("ffmpeg", "", "ffmpeg executable")
	flags.String("ffprobe", "", "ffprobe executable")
	flags.String("status-log", "", "Status log file")
	flags.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(newDownloadCommand(ctx))
	rootCmd.AddCommand(newRingtoneCommand(ctx))
	rootCmd.AddCommand(newAllCommand(ctx))
	rootCmd.AddCommand(newOpenCommand(ctx))
	rootCmd.AddCommand(newInstallCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

func writeLine(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ytget/yt-ringtones/internal/deps"
	"github.com/ytget/yt-ringtones/internal/runner"
	"github.com/ytget/yt-ringtones/internal/transcode"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools and show the active configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger(cmd)
			if err != nil {
				return err
			}

			reqs := deps.Requirements(cfg)
			statuses := deps.CheckBinaries(reqs)
			deps.ProbeVersions(commandCtx(cmd), runner.New(logger), reqs, statuses)

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				state := "ok"
				if !s.Available {
					state = "missing"
					if s.Optional {
						state = "missing (optional)"
					}
				}
				location := s.Path
				if location == "" {
					location = s.Detail
				}
				rows = append(rows, []string{s.Name, state, s.Version, location, s.Description})
			}
			fmt.Fprintln(out, renderTable(out, []string{"Tool", "Status", "Version", "Location", "Used for"}, rows, nil))

			files := [][]string{
				{"Downloads folder", cfg.DownloadDir, sizeOf(cfg.DownloadDir)},
				{"Status log", cfg.StatusLogPath(), sizeOf(cfg.StatusLogPath())},
				{"Android ringtone", transcode.AndroidRingtonePath(cfg.DownloadDir), sizeOf(transcode.AndroidRingtonePath(cfg.DownloadDir))},
				{"iPhone ringtone", transcode.IphoneRingtonePath(cfg.DownloadDir), sizeOf(transcode.IphoneRingtonePath(cfg.DownloadDir))},
			}
			fmt.Fprintln(out, renderTable(out, []string{"Item", "Path", "Size"}, files, []columnAlignment{alignLeft, alignLeft, alignRight}))
			writeLine(out, "Preset: %s, ringtone length: %ds", cfg.Preset, cfg.RingtoneSeconds)

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				names := make([]string, 0, len(missing))
				for _, m := range missing {
					names = append(names, m.Name)
				}
				return fmt.Errorf("missing required tools: %s (try `ytringtones install --with-ffmpeg`)", strings.Join(names, ", "))
			}
			return nil
		},
	}
}

// sizeOf renders a file size, "dir" for directories and "-" when absent
func sizeOf(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "-"
	}
	if info.IsDir() {
		return "dir"
	}
	return humanize.Bytes(uint64(info.Size()))
}

// Package deps reports whether the external tools the app drives are
// available.
package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ytget/yt-ringtones/internal/config"
	"github.com/ytget/yt-ringtones/internal/runner"
)

// Requirement defines an external dependency the app relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	VersionArg  string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Path        string
	Description string
	Version     string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the tools used with cfg
func Requirements(cfg config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "yt-dlp",
			Command:     cfg.YtDlpPath,
			Description: "Downloads videos",
			VersionArg:  "--version",
		},
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegPath,
			Description: "Builds Android and iPhone ringtones",
			VersionArg:  "-version",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobePath,
			Description: "Reads source duration before cutting",
			VersionArg:  "-version",
			Optional:    true,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := exec.LookPath(cmd)
		if err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Path = path
		status.Available = true
		results = append(results, status)
	}
	return results
}

// ProbeVersions fills Version for available tools with the first line of
// their version output. Failures leave Version empty.
func ProbeVersions(ctx context.Context, r runner.Runner, requirements []Requirement, statuses []Status) {
	for i := range statuses {
		if !statuses[i].Available || i >= len(requirements) || requirements[i].VersionArg == "" {
			continue
		}
		res := r.Run(ctx, statuses[i].Path, requirements[i].VersionArg)
		if !res.OK() {
			continue
		}
		statuses[i].Version = firstLine(res.Stdout)
	}
}

// MissingRequired returns the unavailable non-optional dependencies
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s)
		}
	}
	return missing
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

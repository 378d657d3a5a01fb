package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ExitCodeNotStarted is reported when the process never ran
const ExitCodeNotStarted = -1

// Result is what one external process invocation produced.
type Result struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error // set when the process could not be started or waited on
	Duration time.Duration
}

// OK reports whether the process ran and exited with status 0
func (r Result) OK() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Missing reports whether the executable could not be found
func (r Result) Missing() bool {
	return r.Err != nil && (errors.Is(r.Err, exec.ErrNotFound) || errors.Is(r.Err, exec.ErrDot) || errors.Is(r.Err, fs.ErrNotExist))
}

// Reason returns the text a user should see when the run failed: stderr,
// then stdout, then the start error.
func (r Result) Reason() string {
	if msg := strings.TrimSpace(r.Stderr); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(r.Stdout); msg != "" {
		return msg
	}
	if r.Err != nil {
		return r.Err.Error()
	}
	if r.ExitCode != 0 {
		return "exit status " + strconv.Itoa(r.ExitCode)
	}
	return ""
}

// Runner starts an external process and blocks until it exits.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) Result
}

// Exec runs processes with os/exec. The zero value is usable and logs nothing.
type Exec struct {
	logger *zap.Logger
}

// New creates an Exec runner logging through logger
func New(logger *zap.Logger) *Exec {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exec{logger: logger}
}

// Run executes name with args, capturing stdout and stderr separately.
// Stdin is left empty so tools that prompt fail instead of hanging.
func (e *Exec) Run(ctx context.Context, name string, args ...string) Result {
	logger := e.log()
	res := Result{
		Command:  FormatCommandLine(name, args),
		ExitCode: ExitCodeNotStarted,
	}

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("starting external command", zap.String("command", res.Command))
	start := time.Now()
	err := cmd.Run()
	res.Duration = time.Since(start)
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		res.Err = fmt.Errorf("start %s: %w", name, err)
	}

	fields := []zap.Field{
		zap.String("command", res.Command),
		zap.Int("exit_code", res.ExitCode),
		zap.Duration("duration", res.Duration),
	}
	if res.Err != nil {
		logger.Warn("external command failed to start", append(fields, zap.Error(res.Err))...)
	} else if res.ExitCode != 0 {
		logger.Info("external command exited non-zero", fields...)
	} else {
		logger.Debug("external command finished", fields...)
	}
	return res
}

// Start launches name detached from the caller, used for file managers that
// keep running after the call returns.
func (e *Exec) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}
	e.log().Debug("launched external command", zap.String("command", FormatCommandLine(name, args)))
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func (e *Exec) log() *zap.Logger {
	if e == nil || e.logger == nil {
		return zap.NewNop()
	}
	return e.logger
}

// FormatCommandLine renders a command for logs, quoting arguments with spaces
func FormatCommandLine(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteArg(name))
	for _, arg := range args {
		parts = append(parts, quoteArg(arg))
	}
	return strings.Join(parts, " ")
}

func quoteArg(arg string) string {
	if arg == "" {
		return `""`
	}
	if strings.ContainsAny(arg, " \t\n\"") {
		return strconv.Quote(arg)
	}
	return arg
}

package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
)

// File manager names tried on Linux when xdg-open is unavailable
var (
	LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}
)

// Launcher starts a process without waiting for it to exit
type Launcher interface {
	Start(name string, args ...string) error
}

// lookPath is replaced in tests
var lookPath = exec.LookPath

// OpenFolder opens dir in the system file manager
func OpenFolder(launcher Launcher, dir string) error {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	name, args, err := FolderCommand(runtime.GOOS, absPath)
	if err != nil {
		return err
	}
	return launcher.Start(name, args...)
}

// FolderCommand returns the command that opens dir on goos
func FolderCommand(goos, dir string) (string, []string, error) {
	switch goos {
	case OSDarwin:
		return OpenCommand, []string{dir}, nil
	case OSWindows:
		return ExplorerCommand, []string{dir}, nil
	case OSLinux, "freebsd", "openbsd", "netbsd":
		if _, err := lookPath(XDGOpenCommand); err == nil {
			return XDGOpenCommand, []string{dir}, nil
		}
		for _, fm := range LinuxFileManagers {
			if _, err := lookPath(fm); err == nil {
				return fm, []string{dir}, nil
			}
		}
		return "", nil, fmt.Errorf("no suitable file manager found")
	default:
		return "", nil, fmt.Errorf("unsupported operating system: %s", goos)
	}
}

package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File permissions
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// DefaultFolderName is the app folder created under the user's Downloads
const DefaultFolderName = "YT Ringtones"

// File extensions to skip: partial downloads and yt-dlp bookkeeping
var (
	SkippedExtensions = []string{".part", ".ytdl", ".temp"}
)

// ErrNotFound is returned when no file matches in the downloads directory
var ErrNotFound = errors.New("file not found")

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	downloadsDir := filepath.Join(homeDir, "Downloads")
	return downloadsDir, nil
}

// DefaultDownloadDir returns the app folder inside the user's Downloads,
// falling back to a relative "downloads" folder when there is no home dir
func DefaultDownloadDir() string {
	home, err := GetHomeDownloadsDir()
	if err != nil {
		return "downloads"
	}
	return filepath.Join(home, DefaultFolderName)
}

// FindByExtension returns the file in dir with the given extension (".mp4").
// When several match, the most recently modified wins, ties broken by name,
// so the choice is stable for the same directory contents.
func FindByExtension(dir, ext string) (string, error) {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: directory %s does not exist", ErrNotFound, dir)
		}
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	type candidate struct {
		path    string
		modUnix int64
	}
	var candidates []candidate

	for _, entry := range entries {
		if entry.IsDir() || isSkippedFile(entry.Name()) {
			continue
		}
		if strings.ToLower(filepath.Ext(entry.Name())) != ext {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{
			path:    filepath.Join(dir, entry.Name()),
			modUnix: info.ModTime().UnixNano(),
		})
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no %s file in %s", ErrNotFound, ext, dir)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].modUnix != candidates[j].modUnix {
			return candidates[i].modUnix > candidates[j].modUnix
		}
		return candidates[i].path < candidates[j].path
	})
	return candidates[0].path, nil
}

// FileExists reports whether path names an existing regular file
func FileExists(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// isSkippedFile reports temporary and metadata files left by the downloader
func isSkippedFile(filename string) bool {
	for _, ext := range SkippedExtensions {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return strings.HasPrefix(filename, ".")
}

package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// ReadmeFileName is written next to the downloads after every successful download
const ReadmeFileName = "readme.txt"

// ReadmeText is the fixed usage note; it does not depend on the video
const ReadmeText = "Android copy the .mp3 to the ringtones folder and reboot device. iPhone drag and drop the .m4r file in iTunes and sync device."

// WriteReadme (re)writes the usage note into dir and returns its path
func WriteReadme(dir string) (string, error) {
	path := filepath.Join(dir, ReadmeFileName)
	if err := os.WriteFile(path, []byte(ReadmeText), DefaultFilePermissions); err != nil {
		return "", fmt.Errorf("write %s: %w", ReadmeFileName, err)
	}
	return path, nil
}

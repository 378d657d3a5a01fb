// Package runner executes external command-line tools (ffmpeg, ffprobe, file
// managers) and reports the outcome as an explicit Result instead of an error.
package runner

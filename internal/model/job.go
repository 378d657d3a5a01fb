package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Operation identifies what a job asks the workflow to do
type Operation string

const (
	OpDownload          Operation = "download"
	OpAndroidRingtone   Operation = "android_ringtone"
	OpIphoneRingtone    Operation = "iphone_ringtone"
	OpInstallDownloader Operation = "install_downloader"
)

// Job id prefixes, one per operation
const (
	DownloadIDPrefix = "download-"
	RingtoneIDPrefix = "ringtone-"
	InstallIDPrefix  = "install-"
)

// String returns the string representation of Operation
func (op Operation) String() string {
	return string(op)
}

// NeedsURL reports whether the operation consumes the URL field
func (op Operation) NeedsURL() bool {
	return op == OpDownload
}

// Valid reports whether op is a known operation
func (op Operation) Valid() bool {
	switch op {
	case OpDownload, OpAndroidRingtone, OpIphoneRingtone, OpInstallDownloader:
		return true
	}
	return false
}

// Job is a single user request. It lives only until its external process exits.
type Job struct {
	ID         string
	Operation  Operation
	URL        string
	Status     TaskStatus
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewJob creates a pending job for op. The URL is trimmed; it is kept empty
// for operations that do not use it.
func NewJob(op Operation, url string) *Job {
	job := &Job{
		ID:        generateJobID(op),
		Operation: op,
		Status:    TaskStatusPending,
		StartedAt: time.Now(),
	}
	if op.NeedsURL() {
		job.URL = CleanURL(url)
	}
	return job
}

// CleanURL strips whitespace and control characters a paste can drag along
func CleanURL(raw string) string {
	cleaned := strings.ReplaceAll(raw, "\n", "")
	cleaned = strings.ReplaceAll(cleaned, "\r", "")
	cleaned = strings.ReplaceAll(cleaned, "\t", " ")
	return strings.TrimSpace(cleaned)
}

// generateJobID generates a unique job ID using UUID v7 so ids sort by creation time
func generateJobID(op Operation) string {
	prefix := DownloadIDPrefix
	switch op {
	case OpAndroidRingtone, OpIphoneRingtone:
		prefix = RingtoneIDPrefix
	case OpInstallDownloader:
		prefix = InstallIDPrefix
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(prefix+"%d", time.Now().UnixNano())
	}
	return prefix + id.String()
}

package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// TaskKind tells which streams a download task fetches
type TaskKind string

const (
	// TaskKindAudio downloads a single audio stream
	TaskKindAudio TaskKind = "audio"

	// TaskKindVideo downloads adaptive video and audio and merges them
	TaskKindVideo TaskKind = "video"
)

// DownloadTask represents a single URL being processed
type DownloadTask struct {
	ID         string
	URL        string
	Kind       TaskKind
	Status     TaskStatus
	Title      string        // video title
	Author     string        // channel name
	Duration   time.Duration // video length
	Views      int           // view count at fetch time
	Itag       int           // itag of the last selected stream
	Percent    int           // 0 to 100
	LastError  string        // last error message if any
	OutputPath string        // path to downloaded file
	FileSize   int64         // file size in bytes
	StartedAt  time.Time
	FinishedAt time.Time
}

// MuxTask represents one ffmpeg merge of a video and an audio file
type MuxTask struct {
	ID           string
	VideoPath    string
	AudioPath    string
	OutputPath   string
	Status       TaskStatus
	LastError    string // last error message if any
	Stderr       string // ffmpeg stderr, kept on failure
	// CleanupError is set when the merge succeeded but the inputs could not be removed
	CleanupError string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// DurationClock returns the duration as m:ss, minutes are not wrapped into hours
func (dt *DownloadTask) DurationClock() string {
	total := int(dt.Duration / time.Second)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// DurationSeconds returns the duration truncated to whole seconds
func (dt *DownloadTask) DurationSeconds() int {
	return int(dt.Duration / time.Second)
}

// SizeMB returns the file size in mebibytes
func (dt *DownloadTask) SizeMB() float64 {
	return float64(dt.FileSize) / (1024 * 1024)
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (dt *DownloadTask) GetDisplayTitle() string {
	if dt.Title != "" && !strings.HasPrefix(dt.Title, "http") {
		return dt.Title
	}

	if dt.OutputPath != "" {
		filename := filepath.Base(dt.OutputPath)
		if idx := strings.LastIndex(filename, "."); idx > 0 {
			filename = filename[:idx]
		}
		return filename
	}

	return dt.URL
}

// Fail marks the task as failed with the given error
func (dt *DownloadTask) Fail(err error) {
	dt.Status = TaskStatusError
	if err != nil {
		dt.LastError = err.Error()
	}
	dt.FinishedAt = time.Now()
}

// Complete marks the task as finished successfully
func (dt *DownloadTask) Complete() {
	dt.Status = TaskStatusCompleted
	dt.Percent = 100
	dt.FinishedAt = time.Now()
}

package model

// TaskStatus represents the status of a download or mux task
type TaskStatus string

const (
	// TaskStatusPending means the task is created but no work has started
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusFetching means video metadata is being fetched
	TaskStatusFetching TaskStatus = "Fetching"

	// TaskStatusDownloading means a stream is being written to disk
	TaskStatusDownloading TaskStatus = "Downloading"

	// TaskStatusMuxing means ffmpeg is merging video and audio
	TaskStatusMuxing TaskStatus = "Muxing"

	// TaskStatusUploading means the file is being sent to the chat
	TaskStatusUploading TaskStatus = "Uploading"

	// TaskStatusCompleted means the task finished successfully
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusError means the task failed with an error
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the task is in an active state
func (ts TaskStatus) IsActive() bool {
	switch ts {
	case TaskStatusFetching, TaskStatusDownloading, TaskStatusMuxing, TaskStatusUploading:
		return true
	}
	return false
}

// IsFinished returns true if the task is in a finished state (completed or error)
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusError
}

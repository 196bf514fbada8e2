package mux

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ytget/ytfetch/internal/log"
	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/platform"
)

// FFmpeg constants for merge settings
const (
	// Video stream is copied, audio is re-encoded to fit the mp4 container
	VideoCodec = "copy"
	AudioCodec = "aac"

	FFmpegCommand      = "ffmpeg"
	TaskIDPrefix       = "mux-"
	OutputExtensionMP4 = ".mp4"
)

// ExitError is returned when ffmpeg fails. Stderr holds its diagnostics.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("ffmpeg exited with code %d", e.Code)
	}
	return fmt.Sprintf("ffmpeg exited with code %d: %s", e.Code, lastLine(msg))
}

// Service merges separately downloaded video and audio streams
type Service struct {
	ffmpegPath string
	runner     Runner
	mu         sync.Mutex
	onUpdate   func(*model.MuxTask) // callback for progress output
	logger     zerolog.Logger
}

// NewService creates a merge service. An empty ffmpegPath means "ffmpeg" from PATH.
func NewService(ffmpegPath string) *Service {
	return NewServiceWithRunner(ffmpegPath, ExecRunner{})
}

// NewServiceWithRunner creates a merge service that runs commands through runner
func NewServiceWithRunner(ffmpegPath string, runner Runner) *Service {
	if ffmpegPath == "" {
		ffmpegPath = FFmpegCommand
	}
	return &Service{
		ffmpegPath: ffmpegPath,
		runner:     runner,
		logger:     log.WithComponent("mux"),
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.MuxTask)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = callback
}

// Merge combines videoPath and audioPath into outputPath.
// On success both inputs are removed; failing to remove them is reported in
// task.CleanupError only. On failure the inputs are kept and an *ExitError is
// returned when ffmpeg ran.
func (s *Service) Merge(ctx context.Context, videoPath, audioPath, outputPath string) (*model.MuxTask, error) {
	for _, input := range []string{videoPath, audioPath} {
		if !platform.FileExists(input) {
			return nil, fmt.Errorf("input file does not exist: %s", input)
		}
	}

	task := &model.MuxTask{
		ID:         generateTaskID(),
		VideoPath:  videoPath,
		AudioPath:  audioPath,
		OutputPath: outputPath,
		Status:     model.TaskStatusMuxing,
		StartedAt:  time.Now(),
	}
	s.notifyUpdate(task)

	args := BuildFFmpegArgs(videoPath, audioPath, outputPath)
	s.logger.Debug().Str("task_id", task.ID).Strs("args", args).Msg("running ffmpeg")

	stderr, err := s.runner.Run(ctx, s.ffmpegPath, args...)
	if err != nil {
		err = toExitError(err, stderr)
		task.Stderr = string(stderr)
		s.setTaskError(task, err)
		if rmErr := platform.RemoveIfExists(outputPath); rmErr != nil {
			s.logger.Warn().Err(rmErr).Str("path", outputPath).Msg("failed to remove partial output")
		}
		return task, err
	}

	task.Status = model.TaskStatusCompleted
	task.FinishedAt = time.Now()
	if err := removeInputs(videoPath, audioPath); err != nil {
		task.CleanupError = err.Error()
		s.logger.Warn().Err(err).Str("task_id", task.ID).Msg("could not delete temporary files")
	}
	s.notifyUpdate(task)

	s.logger.Info().Str("task_id", task.ID).Str("output", outputPath).Msg("merge completed")
	return task, nil
}

// BuildFFmpegArgs builds the ffmpeg command arguments
func BuildFFmpegArgs(videoPath, audioPath, outputPath string) []string {
	return []string{
		"-i", videoPath, // Video input
		"-i", audioPath, // Audio input
		"-c:v", VideoCodec,
		"-c:a", AudioCodec,
		"-y", // Overwrite output file
		outputPath,
	}
}

// OutputPath returns dir/<sanitized title>.mp4
func OutputPath(dir, title string) string {
	return filepath.Join(dir, platform.SafeFileName(title, "video")+OutputExtensionMP4)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct{}

// Run executes name with args and captures stderr
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.Bytes(), err
}

// setTaskError sets an error state for a task
func (s *Service) setTaskError(task *model.MuxTask, err error) {
	task.Status = model.TaskStatusError
	task.LastError = err.Error()
	task.FinishedAt = time.Now()
	s.notifyUpdate(task)
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.MuxTask) {
	s.mu.Lock()
	callback := s.onUpdate
	s.mu.Unlock()
	if callback != nil {
		callback(task)
	}
}

func toExitError(err error, stderr []byte) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode(), Stderr: string(stderr)}
	}
	var muxErr *ExitError
	if errors.As(err, &muxErr) {
		return muxErr
	}
	return fmt.Errorf("failed to run ffmpeg: %w", err)
}

func removeInputs(paths ...string) error {
	var errs []error
	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// generateTaskID generates a unique task ID using UUID v7
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}

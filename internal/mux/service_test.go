package mux

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/ytfetch/internal/model"
)

// fakeRunner records the command and optionally writes the output file
type fakeRunner struct {
	name   string
	args   []string
	stderr string
	err    error
	create bool
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.name = name
	f.args = args
	if f.create {
		if err := os.WriteFile(args[len(args)-1], []byte("merged"), 0o644); err != nil {
			return nil, err
		}
	}
	return []byte(f.stderr), f.err
}

func writeInputs(t *testing.T) (string, string, string) {
	t.Helper()
	dir := t.TempDir()
	video := filepath.Join(dir, "video_clip.mp4")
	audio := filepath.Join(dir, "audio_clip.m4a")
	require.NoError(t, os.WriteFile(video, []byte("v"), 0o644))
	require.NoError(t, os.WriteFile(audio, []byte("a"), 0o644))
	return video, audio, filepath.Join(dir, "clip.mp4")
}

func TestBuildFFmpegArgs(t *testing.T) {
	args := BuildFFmpegArgs("/v.mp4", "/a.m4a", "/out.mp4")

	expected := []string{"-i", "/v.mp4", "-i", "/a.m4a", "-c:v", "copy", "-c:a", "aac", "-y", "/out.mp4"}
	assert.Equal(t, expected, args)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("downloads", "Me at the zoo.mp4"), OutputPath("downloads", "Me at the zoo"))
	assert.Equal(t, filepath.Join("downloads", "Whats up.mp4"), OutputPath("downloads", "Whats up?"))
	assert.Equal(t, filepath.Join("downloads", "video.mp4"), OutputPath("downloads", "???"))
}

func TestMerge_SuccessRemovesInputs(t *testing.T) {
	video, audio, out := writeInputs(t)
	runner := &fakeRunner{create: true}
	service := NewServiceWithRunner("", runner)

	var statuses []model.TaskStatus
	service.SetUpdateCallback(func(task *model.MuxTask) { statuses = append(statuses, task.Status) })

	task, err := service.Merge(context.Background(), video, audio, out)
	require.NoError(t, err)

	assert.Equal(t, FFmpegCommand, runner.name)
	assert.Equal(t, BuildFFmpegArgs(video, audio, out), runner.args)
	assert.Equal(t, model.TaskStatusCompleted, task.Status)
	assert.Empty(t, task.CleanupError)
	assert.True(t, strings.HasPrefix(task.ID, TaskIDPrefix))
	assert.FileExists(t, out)
	assert.NoFileExists(t, video)
	assert.NoFileExists(t, audio)
	assert.Equal(t, []model.TaskStatus{model.TaskStatusMuxing, model.TaskStatusCompleted}, statuses)
}

func TestMerge_FailureKeepsInputs(t *testing.T) {
	video, audio, out := writeInputs(t)
	runner := &fakeRunner{
		stderr: "Input #0...\nInvalid data found when processing input",
		err:    &ExitError{Code: 1},
	}
	service := NewServiceWithRunner("/usr/bin/ffmpeg", runner)

	task, err := service.Merge(context.Background(), video, audio, out)
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)
	assert.Equal(t, "/usr/bin/ffmpeg", runner.name)
	assert.Contains(t, task.Stderr, "Invalid data found")
	assert.Equal(t, model.TaskStatusError, task.Status)
	assert.FileExists(t, video)
	assert.FileExists(t, audio)
	assert.NoFileExists(t, out)
}

func TestMerge_StartFailure(t *testing.T) {
	video, audio, out := writeInputs(t)
	runner := &fakeRunner{err: exec.ErrNotFound}
	service := NewServiceWithRunner("", runner)

	_, err := service.Merge(context.Background(), video, audio, out)
	assert.ErrorIs(t, err, exec.ErrNotFound)
	assert.FileExists(t, video)
	assert.FileExists(t, audio)
}

func TestMerge_MissingInput(t *testing.T) {
	video, _, out := writeInputs(t)
	runner := &fakeRunner{}
	service := NewServiceWithRunner("", runner)

	_, err := service.Merge(context.Background(), video, filepath.Join(t.TempDir(), "missing.m4a"), out)
	assert.Error(t, err)
	assert.Empty(t, runner.name, "ffmpeg must not run without inputs")
}

func TestExitError(t *testing.T) {
	err := &ExitError{Code: 1, Stderr: "line one\nmoov atom not found\n"}
	assert.Equal(t, "ffmpeg exited with code 1: moov atom not found", err.Error())

	err = &ExitError{Code: 69}
	assert.Equal(t, "ffmpeg exited with code 69", err.Error())
}

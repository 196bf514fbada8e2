package download

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/renameio/v2"
	"github.com/google/uuid"
	"github.com/kkdai/youtube/v2"
	"github.com/rs/zerolog"

	"github.com/ytget/ytfetch/internal/log"
	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/platform"
)

// Prefixes for temporary streams of a video download
const (
	VideoFilePrefix = "video_"
	AudioFilePrefix = "audio_"
)

// FilePermissions is the mode of downloaded files before umask
const FilePermissions = 0o644

// Service fetches metadata and writes streams into the download directory
type Service struct {
	client      Client
	downloadDir string
	mu          sync.Mutex
	onUpdate    func(*model.DownloadTask) // callback for progress output
	logger      zerolog.Logger
}

// NewService creates a new download service
func NewService(client Client, downloadDir string) *Service {
	return &Service{
		client:      client,
		downloadDir: downloadDir,
		logger:      log.WithComponent("download"),
	}
}

// NewTask creates a pending task for url
func NewTask(url string, kind model.TaskKind) *model.DownloadTask {
	return &model.DownloadTask{
		ID:        generateTaskID(),
		URL:       url,
		Kind:      kind,
		Status:    model.TaskStatusPending,
		StartedAt: time.Now(),
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.DownloadTask)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = callback
}

// Fetch validates the task URL and fills in the video metadata.
// Non-YouTube input is rejected before any network call.
func (s *Service) Fetch(ctx context.Context, task *model.DownloadTask) (*youtube.Video, error) {
	url, err := platform.ValidateURL(task.URL)
	if err != nil {
		task.Fail(err)
		return nil, err
	}
	task.URL = url
	task.Status = model.TaskStatusFetching
	s.notifyUpdate(task)

	video, err := s.client.GetVideoContext(ctx, url)
	if err != nil {
		err = fmt.Errorf("failed to fetch video info: %w", err)
		task.Fail(err)
		s.notifyUpdate(task)
		return nil, err
	}

	task.Title = video.Title
	task.Author = video.Author
	task.Duration = video.Duration
	task.Views = video.Views

	s.logger.Debug().
		Str("task_id", task.ID).
		Str("video_id", video.ID).
		Int("formats", len(video.Formats)).
		Msg("fetched video info")
	return video, nil
}

// DownloadFormat streams one format into the download directory. The file is
// named prefix + sanitized title + extension and replaced atomically.
func (s *Service) DownloadFormat(ctx context.Context, task *model.DownloadTask, video *youtube.Video, format *youtube.Format, prefix string) (string, error) {
	if format == nil {
		return "", youtube.ErrNoFormat
	}

	task.Status = model.TaskStatusDownloading
	task.Itag = format.ItagNo
	task.Percent = 0
	s.notifyUpdate(task)

	path := s.OutputPath(video.Title, prefix, format.MimeType)
	written, err := s.writeStream(ctx, task, video, format, path)
	if err != nil {
		err = fmt.Errorf("failed to download itag %d: %w", format.ItagNo, err)
		task.Fail(err)
		s.notifyUpdate(task)
		return "", err
	}

	task.OutputPath = path
	task.FileSize = written
	task.Percent = 100
	s.notifyUpdate(task)

	s.logger.Info().
		Str("task_id", task.ID).
		Int("itag", format.ItagNo).
		Int64("bytes", written).
		Str("path", path).
		Msg("stream downloaded")
	return path, nil
}

// OutputPath builds the destination of a stream in the download directory
func (s *Service) OutputPath(title, prefix, mimeType string) string {
	name := prefix + platform.SafeFileName(title, "video") + FileExtension(mimeType)
	return filepath.Join(s.downloadDir, name)
}

func (s *Service) writeStream(ctx context.Context, task *model.DownloadTask, video *youtube.Video, format *youtube.Format, path string) (int64, error) {
	stream, size, err := s.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return 0, err
	}
	defer stream.Close()

	pending, err := renameio.NewPendingFile(path,
		renameio.WithTempDir(s.downloadDir),
		renameio.WithPermissions(FilePermissions),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := pending.Cleanup(); cerr != nil {
			s.logger.Debug().Err(cerr).Str("path", path).Msg("pending file cleanup")
		}
	}()

	progress := &progressWriter{total: size, task: task, notify: s.notifyUpdate}
	written, err := io.Copy(io.MultiWriter(pending, progress), &contextReader{ctx: ctx, r: stream})
	if err != nil {
		return written, err
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return written, fmt.Errorf("failed to finalize file: %w", err)
	}
	return written, nil
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.DownloadTask) {
	s.mu.Lock()
	callback := s.onUpdate
	s.mu.Unlock()
	if callback != nil {
		callback(task)
	}
}

// progressWriter counts bytes and reports whole-percent changes
type progressWriter struct {
	total   int64
	written int64
	task    *model.DownloadTask
	notify  func(*model.DownloadTask)
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.written += int64(len(b))
	if p.total > 0 {
		percent := int(p.written * 100 / p.total)
		if percent > 100 {
			percent = 100
		}
		if percent != p.task.Percent {
			p.task.Percent = percent
			p.notify(p.task)
		}
	}
	return len(b), nil
}

// contextReader stops a copy once ctx is cancelled
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(b []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(b)
}

// generateTaskID generates a unique task ID
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("task-%d", time.Now().UnixNano())
	}
	return "task-" + id.String()
}

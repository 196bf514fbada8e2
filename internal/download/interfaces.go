package download

import (
	"context"
	"io"

	"github.com/kkdai/youtube/v2"

	"github.com/ytget/ytfetch/internal/model"
)

// Client is the part of *youtube.Client the service needs.
type Client interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
	GetStreamContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (io.ReadCloser, int64, error)
}

// Downloader defines the interface for the download service.
type Downloader interface {
	SetUpdateCallback(func(*model.DownloadTask))

	// Fetch validates the task URL and fills in the video metadata
	Fetch(ctx context.Context, task *model.DownloadTask) (*youtube.Video, error)

	// DownloadFormat writes one stream into the download directory and returns its path
	DownloadFormat(ctx context.Context, task *model.DownloadTask, video *youtube.Video, format *youtube.Format, prefix string) (string, error)
}

var (
	_ Client     = (*youtube.Client)(nil)
	_ Downloader = (*Service)(nil)
)

package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/ytget/ytfetch/internal/download"
	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/mux"
	"github.com/ytget/ytfetch/internal/platform"
)

// DefaultTestURL is used when the video prompt is left empty
const DefaultTestURL = "https://www.youtube.com/watch?v=jNQXAC9IVRw"

var videoHints = []string{
	"Make sure FFmpeg is installed",
	"Check your internet connection",
	"Verify the YouTube URL is correct",
}

// Video runs the video flow. An empty url is read from the input and an
// empty answer falls back to DefaultTestURL.
func (c *Console) Video(ctx context.Context, url string) error {
	c.banner("YouTube Video Downloader")

	url, err := c.readURL(url, "Enter YouTube URL (or press Enter for test video): ")
	if err != nil {
		return err
	}
	if url == "" {
		url = DefaultTestURL
		fmt.Fprintf(c.out, "Using test video: %s\n", url)
	}

	if url, err = platform.ValidateURL(url); err != nil {
		c.reportError(err)
		c.result(err, videoHints...)
		return err
	}

	if platform.IsPlaylistURL(url) {
		err = c.downloadPlaylist(ctx, url, c.DownloadVideo)
	} else {
		_, err = c.DownloadVideo(ctx, url)
		if err != nil {
			c.reportError(err)
		}
	}
	c.result(err, videoHints...)
	return err
}

// DownloadVideo downloads the best adaptive mp4 video and the best audio
// stream of url and merges them into <title>.mp4.
func (c *Console) DownloadVideo(ctx context.Context, url string) (string, error) {
	if c.muxer == nil {
		return "", errors.New("video download needs a muxer")
	}
	fmt.Fprintf(c.out, "Fetching video information for: %s\n", url)

	task := download.NewTask(url, model.TaskKindVideo)
	video, err := c.downloader.Fetch(ctx, task)
	if err != nil {
		return "", err
	}
	c.printVideoInfo(task)
	fmt.Fprintf(c.out, "Views: %s\n", humanize.Comma(int64(task.Views)))

	c.section("Available streams:")
	for i, f := range video.Formats {
		fmt.Fprintf(c.out, "%2d. %s\n", i, download.DescribeFormat(f))
	}

	c.section("Downloading video stream...")
	videoFormat, err := download.SelectVideoFormat(video.Formats)
	if err != nil {
		task.Fail(err)
		return "", err
	}
	videoPath, err := c.downloader.DownloadFormat(ctx, task, video, videoFormat, download.VideoFilePrefix)
	if err != nil {
		return "", err
	}
	successColor.Fprintf(c.out, "✓ Video downloaded: %s\n", videoPath)

	c.section("Downloading audio stream...")
	audioFormat, err := download.SelectBestAudioFormat(video.Formats)
	if err != nil {
		task.Fail(err)
		return "", err
	}
	audioPath, err := c.downloader.DownloadFormat(ctx, task, video, audioFormat, download.AudioFilePrefix)
	if err != nil {
		return "", err
	}
	successColor.Fprintf(c.out, "✓ Audio downloaded: %s\n", audioPath)

	c.section("Merging video and audio...")
	task.Status = model.TaskStatusMuxing
	output := mux.OutputPath(c.downloadDir, task.Title)
	result, err := c.muxer.Merge(ctx, videoPath, audioPath, output)
	if err != nil {
		task.Fail(err)
		return "", err
	}
	task.OutputPath = output
	task.Complete()

	successColor.Fprintf(c.out, "✓ Successfully merged! Output: %s\n", output)
	if result.CleanupError != "" {
		warningColor.Fprintf(c.out, "⚠ Warning: Could not delete temporary files: %s\n", result.CleanupError)
	} else {
		successColor.Fprintln(c.out, "✓ Temporary files cleaned up")
	}
	return output, nil
}

package console

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/ytget/ytfetch/internal/download"
	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/platform"
)

// Audio runs the audio-only flow. An empty url is read from the input.
func (c *Console) Audio(ctx context.Context, url string) error {
	c.banner("YouTube Audio Only Downloader")

	url, err := c.readURL(url, "Enter YouTube URL: ")
	if err != nil {
		return err
	}
	if url == "" {
		fmt.Fprintln(c.out, "No URL provided!")
		return ErrNoURL
	}

	if url, err = platform.ValidateURL(url); err != nil {
		c.reportError(err)
		c.result(err)
		return err
	}

	if platform.IsPlaylistURL(url) {
		err = c.downloadPlaylist(ctx, url, c.DownloadAudio)
	} else {
		_, err = c.DownloadAudio(ctx, url)
		if err != nil {
			c.reportError(err)
		}
	}
	c.result(err)
	return err
}

// DownloadAudio fetches url, lists its audio streams and downloads the
// preferred one, falling back to the highest bitrate.
func (c *Console) DownloadAudio(ctx context.Context, url string) (string, error) {
	fmt.Fprintf(c.out, "Fetching video information for: %s\n", url)

	task := download.NewTask(url, model.TaskKindAudio)
	video, err := c.downloader.Fetch(ctx, task)
	if err != nil {
		return "", err
	}
	c.printVideoInfo(task)

	c.section("Available audio streams:")
	for i, f := range download.AudioFormats(video.Formats) {
		fmt.Fprintf(c.out, "%d. %s\n", i, download.DescribeFormat(f))
	}

	format, preferred, err := download.SelectAudioFormat(video.Formats, c.audioItag)
	if err != nil {
		task.Fail(err)
		return "", err
	}
	if !preferred {
		fmt.Fprintln(c.out)
		warningColor.Fprintf(c.out, "⚠ itag=%d not found, getting best audio quality...\n", c.audioItag)
	}

	c.section("Downloading audio stream...")
	fmt.Fprintf(c.out, "Selected: %s\n", download.DescribeFormat(*format))

	path, err := c.downloader.DownloadFormat(ctx, task, video, format, "")
	if err != nil {
		return "", err
	}
	task.Complete()

	fmt.Fprintln(c.out)
	successColor.Fprintln(c.out, "✓ Audio downloaded successfully!")
	successColor.Fprintf(c.out, "✓ Location: %s (%s)\n", path, humanize.Bytes(uint64(task.FileSize)))
	return path, nil
}

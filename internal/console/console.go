package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/ytget/ytfetch/internal/download"
	"github.com/ytget/ytfetch/internal/log"
	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/mux"
)

// Banner widths
const (
	BannerWidth  = 60
	SectionWidth = 50
)

// ErrNoURL is returned when the user entered nothing at the prompt
var ErrNoURL = errors.New("no URL provided")

// ErrEmptyPlaylist is returned when a playlist resolves to no videos
var ErrEmptyPlaylist = errors.New("playlist has no videos")

var (
	successColor = color.New(color.FgGreen)
	failureColor = color.New(color.FgRed)
	warningColor = color.New(color.FgYellow)
	titleColor   = color.New(color.Bold)
)

// PlaylistParser resolves a playlist URL into its videos
type PlaylistParser interface {
	ParsePlaylist(ctx context.Context, url string) (*model.Playlist, error)
}

// Options configures a Console
type Options struct {
	In  io.Reader
	Out io.Writer

	// Interactive enables the prompt text and the progress line
	Interactive bool

	DownloadDir string
	AudioItag   int
}

// Console runs download flows and reports them as human readable text
type Console struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
	downloadDir string
	audioItag   int
	downloader  download.Downloader
	muxer       mux.Muxer
	playlists   PlaylistParser
	logger      zerolog.Logger
}

// New creates a console. muxer and playlists may be nil when the flow does
// not need them.
func New(opts Options, downloader download.Downloader, muxer mux.Muxer, playlists PlaylistParser) *Console {
	c := &Console{
		in:          bufio.NewReader(opts.In),
		out:         opts.Out,
		interactive: opts.Interactive,
		downloadDir: opts.DownloadDir,
		audioItag:   opts.AudioItag,
		downloader:  downloader,
		muxer:       muxer,
		playlists:   playlists,
		logger:      log.WithComponent("console"),
	}
	if c.interactive {
		downloader.SetUpdateCallback(c.showProgress)
		if muxer != nil {
			muxer.SetUpdateCallback(c.showMuxStatus)
		}
	}
	return c
}

// readURL returns url when set, otherwise asks for one
func (c *Console) readURL(url, prompt string) (string, error) {
	if url = strings.TrimSpace(url); url != "" {
		return url, nil
	}
	if c.interactive {
		fmt.Fprint(c.out, prompt)
	}
	line, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read URL: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// showProgress redraws a single progress line while a stream downloads
func (c *Console) showProgress(task *model.DownloadTask) {
	if task.Status != model.TaskStatusDownloading {
		return
	}
	fmt.Fprintf(c.out, "\r  %3d%%", task.Percent)
	if task.Percent >= 100 {
		fmt.Fprintln(c.out)
	}
}

// showMuxStatus prints when ffmpeg starts and how it ended
func (c *Console) showMuxStatus(task *model.MuxTask) {
	switch {
	case task.Status.IsActive():
		fmt.Fprintf(c.out, "Running ffmpeg: %s + %s\n", filepath.Base(task.VideoPath), filepath.Base(task.AudioPath))
	case task.Status.IsFinished():
		fmt.Fprintf(c.out, "FFmpeg: %s\n", task.Status)
	}
}

func (c *Console) banner(title string) {
	fmt.Fprintln(c.out, strings.Repeat("=", BannerWidth))
	titleColor.Fprintln(c.out, title)
	fmt.Fprintln(c.out, strings.Repeat("=", BannerWidth))
	fmt.Fprintln(c.out)
}

func (c *Console) section(title string) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, strings.Repeat("=", SectionWidth))
	fmt.Fprintln(c.out, title)
	fmt.Fprintln(c.out, strings.Repeat("=", SectionWidth))
}

func (c *Console) result(err error, hints ...string) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, strings.Repeat("=", BannerWidth))
	if err == nil {
		successColor.Fprintln(c.out, "✓ DOWNLOAD COMPLETED SUCCESSFULLY!")
		fmt.Fprintln(c.out, strings.Repeat("=", BannerWidth))
		return
	}
	failureColor.Fprintln(c.out, "✗ DOWNLOAD FAILED")
	fmt.Fprintln(c.out, strings.Repeat("=", BannerWidth))
	if len(hints) > 0 {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "Troubleshooting:")
		for i, hint := range hints {
			fmt.Fprintf(c.out, "%d. %s\n", i+1, hint)
		}
	}
}

func (c *Console) printVideoInfo(task *model.DownloadTask) {
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "Title: %s\n", task.GetDisplayTitle())
	fmt.Fprintf(c.out, "Author: %s\n", task.Author)
	fmt.Fprintf(c.out, "Duration: %d seconds\n", task.DurationSeconds())
}

// reportError prints the failure line that matches err
func (c *Console) reportError(err error) {
	var exitErr *mux.ExitError
	switch {
	case errors.As(err, &exitErr):
		failureColor.Fprintf(c.out, "✗ FFmpeg error: %s\n", strings.TrimSpace(exitErr.Stderr))
	case errors.Is(err, download.ErrNoVideoStream):
		failureColor.Fprintln(c.out, "✗ No suitable video stream found")
	case errors.Is(err, download.ErrNoAudioStream):
		failureColor.Fprintln(c.out, "✗ No suitable audio stream found")
	default:
		failureColor.Fprintf(c.out, "✗ Error: %v\n", err)
	}
	c.logger.Error().Err(err).Msg("download failed")
}

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/ytget/ytfetch/internal/config"
	"github.com/ytget/ytfetch/internal/console"
	"github.com/ytget/ytfetch/internal/download"
	"github.com/ytget/ytfetch/internal/mux"
	"github.com/ytget/ytfetch/internal/platform"
)

func cmdAudio(settings *config.Settings, d deps) *cli.Command {
	return &cli.Command{
		Name:      "audio",
		Usage:     "Download the audio track of a video or playlist",
		ArgsUsage: "[url]",
		Action: func(ctx context.Context, c *cli.Command) error {
			con, err := newConsole(settings, d)
			if err != nil {
				return err
			}
			return con.Audio(ctx, c.Args().First())
		},
	}
}

func cmdVideo(settings *config.Settings, d deps) *cli.Command {
	return &cli.Command{
		Name:      "video",
		Usage:     "Download the best video and audio streams and merge them with ffmpeg",
		ArgsUsage: "[url]",
		Action: func(ctx context.Context, c *cli.Command) error {
			con, err := newConsole(settings, d)
			if err != nil {
				return err
			}
			return con.Video(ctx, c.Args().First())
		},
	}
}

// newConsole builds the services behind the terminal flows
func newConsole(settings *config.Settings, d deps) (*console.Console, error) {
	player, err := settings.PlayerClient(config.DefaultClient)
	if err != nil {
		return nil, err
	}

	httpClient := download.NewHTTPClient(settings)
	downloader := download.NewService(download.NewYouTubeClient(httpClient, player), settings.DownloadDir)
	muxer := mux.NewService(settings.FFmpegPath)
	playlists := platform.NewYTDLPParserService(httpClient)
	if settings.Timeout > 0 {
		playlists.SetTimeout(settings.Timeout)
	}

	return console.New(console.Options{
		In:          d.in,
		Out:         d.out,
		Interactive: isTerminal(d.in),
		DownloadDir: settings.DownloadDir,
		AudioItag:   settings.AudioItag,
	}, downloader, muxer, playlists), nil
}

// isTerminal reports whether r is an interactive terminal
func isTerminal(r any) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printLine(c *cli.Command, format string, args ...any) {
	fmt.Fprintf(c.Root().Writer, format+"\n", args...)
}

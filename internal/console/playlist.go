package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/ytget/ytfetch/internal/model"
)

// downloadPlaylist runs fetch for every playlist entry in order. A failed
// entry is reported and skipped.
func (c *Console) downloadPlaylist(ctx context.Context, url string, fetch func(context.Context, string) (string, error)) error {
	if c.playlists == nil {
		return errors.New("playlist URLs are not supported here")
	}

	fmt.Fprintf(c.out, "Fetching playlist: %s\n", url)
	playlist, err := c.playlists.ParsePlaylist(ctx, url)
	if err != nil {
		c.reportError(err)
		return err
	}

	total := len(playlist.Videos)
	titleColor.Fprintf(c.out, "Playlist: %s (%d videos)\n", playlist.Title, total)
	if total == 0 {
		c.reportError(ErrEmptyPlaylist)
		return ErrEmptyPlaylist
	}

	for i, video := range playlist.Videos {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.section(fmt.Sprintf("[%d/%d] %s", i+1, total, video.Title))

		playlist.MarkVideo(video.ID, model.VideoStatusDownloading, "", nil)
		path, err := fetch(ctx, video.URL)
		if err != nil {
			c.reportError(err)
			playlist.MarkVideo(video.ID, model.VideoStatusError, "", err)
			continue
		}
		playlist.MarkVideo(video.ID, model.VideoStatusCompleted, path, nil)
	}

	done := playlist.CountByStatus(model.VideoStatusCompleted)
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "Downloaded %d of %d videos\n", done, total)
	if playlist.HasErrors() {
		return fmt.Errorf("%d of %d playlist videos failed", playlist.CountByStatus(model.VideoStatusError), total)
	}
	return nil
}

package platform

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/ytfetch/internal/model"
)

// Timeout constants
const (
	DefaultParseTimeout = 60 * time.Second
)

// Default values
const (
	DefaultPlaylistName = "Unknown Playlist"
)

// URL templates
const (
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// Playlist title constants
const (
	MinPrefixLength = 10
	PlaylistSuffix  = " Playlist"
)

// PlaylistItemsFunc lists the entries of a playlist by its ID
type PlaylistItemsFunc func(ctx context.Context, playlistID string) ([]*model.PlaylistVideo, error)

// YTDLPParserService handles parsing of YouTube playlists using library
type YTDLPParserService struct {
	timeout time.Duration
	items   PlaylistItemsFunc
}

// NewYTDLPParserService creates a new parser service. A nil httpClient uses
// the library default.
func NewYTDLPParserService(httpClient *http.Client) *YTDLPParserService {
	return &YTDLPParserService{
		timeout: DefaultParseTimeout,
		items:   ytdlpPlaylistItems(httpClient),
	}
}

// SetTimeout sets the timeout for parsing operations
func (y *YTDLPParserService) SetTimeout(timeout time.Duration) {
	y.timeout = timeout
}

// ParsePlaylist parses a YouTube playlist and returns video information
func (y *YTDLPParserService) ParsePlaylist(ctx context.Context, url string) (*model.Playlist, error) {
	playlistID := ExtractPlaylistID(url)
	if playlistID == "" {
		return nil, fmt.Errorf("could not extract playlist ID from URL: %s", url)
	}

	if y.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, y.timeout)
		defer cancel()
	}

	videos, err := y.items(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	playlist := model.NewPlaylist(playlistID, url)
	for _, v := range videos {
		playlist.AddVideo(v)
	}
	playlist.Title = y.extractPlaylistTitle(videos)

	return playlist, nil
}

func ytdlpPlaylistItems(httpClient *http.Client) PlaylistItemsFunc {
	return func(ctx context.Context, playlistID string) ([]*model.PlaylistVideo, error) {
		d := ytdlp.New()
		if httpClient != nil {
			d = d.WithHTTPClient(httpClient)
		}
		items, err := d.GetPlaylistItemsAll(ctx, playlistID, 0)
		if err != nil {
			return nil, err
		}

		videos := make([]*model.PlaylistVideo, 0, len(items))
		for _, it := range items {
			videos = append(videos, &model.PlaylistVideo{
				ID:        it.VideoID,
				Title:     it.Title,
				URL:       fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID),
				Status:    model.VideoStatusPending,
				UpdatedAt: time.Now(),
			})
		}
		return videos, nil
	}
}

// extractPlaylistTitle generates a title for the playlist based on videos
func (y *YTDLPParserService) extractPlaylistTitle(videos []*model.PlaylistVideo) string {
	if len(videos) == 0 {
		return DefaultPlaylistName
	}
	if len(videos) > 1 {
		commonPrefix := y.findCommonPrefix(videos[0].Title, videos[1].Title)
		if len(commonPrefix) > MinPrefixLength {
			return strings.TrimSpace(commonPrefix) + PlaylistSuffix
		}
	}
	return videos[0].Title + PlaylistSuffix
}

// findCommonPrefix finds the common prefix between two strings
func (y *YTDLPParserService) findCommonPrefix(s1, s2 string) string {
	minLen := min(len(s1), len(s2))
	for i := 0; i < minLen; i++ {
		if s1[i] != s2[i] {
			return s1[:i]
		}
	}
	return s1[:minLen]
}

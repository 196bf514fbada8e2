package download

import (
	"net/http"

	"github.com/kkdai/youtube/v2"
	ytclient "github.com/ytget/ytdlp/v2/client"

	"github.com/ytget/ytfetch/internal/config"
)

// NewHTTPClient builds the shared HTTP client with timeout and retries.
func NewHTTPClient(settings *config.Settings) *http.Client {
	c := ytclient.NewWith(ytclient.Config{
		Timeout:   settings.Timeout,
		Retries:   settings.Retries,
		UserAgent: config.DefaultUserAgent,
	})
	return c.HTTPClient
}

// NewYouTubeClient selects the player client and returns a metadata/stream client.
// The player client is process-wide in the upstream library, so the last call wins.
func NewYouTubeClient(httpClient *http.Client, player config.PlayerClient) *youtube.Client {
	UsePlayerClient(player)
	return &youtube.Client{HTTPClient: httpClient}
}

// UsePlayerClient switches the upstream default player client.
func UsePlayerClient(player config.PlayerClient) {
	switch player {
	case config.ClientWeb:
		youtube.DefaultClient = youtube.WebClient
	case config.ClientEmbedded:
		youtube.DefaultClient = youtube.EmbeddedClient
	default:
		youtube.DefaultClient = youtube.AndroidClient
	}
}

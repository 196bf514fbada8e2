package platform

import (
	"errors"
	"strings"
)

// Hosts accepted as YouTube links
const (
	YouTubeHost      = "youtube.com"
	YouTubeShortHost = "youtu.be"
)

// URL parameters and separators
const (
	PlaylistParam  = "list="
	VideoParam     = "v="
	ParamSeparator = "&"
)

// ErrUnsupportedURL is returned for input that is not a YouTube link.
var ErrUnsupportedURL = errors.New("not a YouTube link")

// IsSupportedURL reports whether s loosely looks like a YouTube link.
// The check is a substring match and makes no network call.
func IsSupportedURL(s string) bool {
	return strings.Contains(s, YouTubeHost) || strings.Contains(s, YouTubeShortHost)
}

// ValidateURL trims s and returns it, or ErrUnsupportedURL.
func ValidateURL(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !IsSupportedURL(s) {
		return "", ErrUnsupportedURL
	}
	return s, nil
}

// IsPlaylistURL reports whether the URL points at a playlist rather than at a
// single video. A watch URL or youtu.be/<id> link that also carries list= is
// a single video.
func IsPlaylistURL(url string) bool {
	if ExtractPlaylistID(url) == "" {
		return false
	}
	return !strings.Contains(url, VideoParam) && shortLinkID(url) == ""
}

// shortLinkID returns the video ID of a youtu.be/<id> link
func shortLinkID(url string) string {
	_, rest, found := strings.Cut(url, YouTubeShortHost+"/")
	if !found {
		return ""
	}
	if i := strings.IndexAny(rest, "?&#/"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

// ExtractPlaylistID extracts the first list= value from the URL.
func ExtractPlaylistID(url string) string {
	_, rest, found := strings.Cut(url, PlaylistParam)
	if !found {
		return ""
	}
	id, _, _ := strings.Cut(rest, ParamSeparator)
	return id
}

package download

import (
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/kkdai/youtube/v2"
)

var (
	// ErrNoAudioStream is returned when a video has no audio-only stream
	ErrNoAudioStream = errors.New("no audio stream available")

	// ErrNoVideoStream is returned when a video has no adaptive mp4 video stream
	ErrNoVideoStream = errors.New("no suitable video stream found")
)

// Mime type prefixes
const (
	audioMimePrefix = "audio/"
	videoMimePrefix = "video/"
	mp4VideoMime    = "video/mp4"
)

// IsAudioOnly reports whether the format carries audio and no picture
func IsAudioOnly(f youtube.Format) bool {
	return strings.HasPrefix(f.MimeType, audioMimePrefix)
}

// IsVideoOnly reports whether the format is an adaptive stream without audio
func IsVideoOnly(f youtube.Format) bool {
	return strings.HasPrefix(f.MimeType, videoMimePrefix) && f.AudioChannels == 0
}

// AudioFormats returns the audio-only streams in their original order
func AudioFormats(list youtube.FormatList) youtube.FormatList {
	return list.Select(IsAudioOnly)
}

// SelectAudioFormat returns the stream with the preferred itag when it is
// present, otherwise the audio-only stream with the highest bitrate.
// The second result is false when the fallback was used.
func SelectAudioFormat(list youtube.FormatList, itag int) (*youtube.Format, bool, error) {
	if matches := list.Itag(itag); len(matches) > 0 {
		return &matches[0], true, nil
	}
	best, err := SelectBestAudioFormat(list)
	return best, false, err
}

// SelectBestAudioFormat returns the audio-only stream with the highest bitrate
func SelectBestAudioFormat(list youtube.FormatList) (*youtube.Format, error) {
	var best *youtube.Format
	audio := AudioFormats(list)
	for i := range audio {
		if best == nil || audioBitrate(audio[i]) > audioBitrate(*best) {
			best = &audio[i]
		}
	}
	if best == nil {
		return nil, ErrNoAudioStream
	}
	return best, nil
}

// SelectVideoFormat returns the adaptive mp4 video stream with the highest resolution
func SelectVideoFormat(list youtube.FormatList) (*youtube.Format, error) {
	var best *youtube.Format
	video := list.Select(func(f youtube.Format) bool {
		return IsVideoOnly(f) && strings.HasPrefix(f.MimeType, mp4VideoMime)
	})
	for i := range video {
		f := &video[i]
		if best == nil || f.Height > best.Height ||
			(f.Height == best.Height && f.Bitrate > best.Bitrate) {
			best = f
		}
	}
	if best == nil {
		return nil, ErrNoVideoStream
	}
	return best, nil
}

// FileExtension maps a stream mime type to a file extension
func FileExtension(mimeType string) string {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mediaType = mimeType
	}
	switch mediaType {
	case "audio/mp4":
		return ".m4a"
	case "video/mp4":
		return ".mp4"
	case "audio/webm", "video/webm":
		return ".webm"
	case "video/3gpp":
		return ".3gp"
	}
	if _, sub, ok := strings.Cut(mediaType, "/"); ok && sub != "" {
		return "." + sub
	}
	return ".bin"
}

// DescribeFormat renders a one-line summary of a stream
func DescribeFormat(f youtube.Format) string {
	mediaType, params, err := mime.ParseMediaType(f.MimeType)
	if err != nil {
		mediaType = f.MimeType
	}

	var b strings.Builder
	fmt.Fprintf(&b, "itag=%d mime=%s", f.ItagNo, mediaType)
	if f.QualityLabel != "" {
		fmt.Fprintf(&b, " res=%s", f.QualityLabel)
	}
	if f.FPS > 0 {
		fmt.Fprintf(&b, " fps=%d", f.FPS)
	}
	if IsAudioOnly(f) || f.AudioChannels > 0 {
		fmt.Fprintf(&b, " abr=%dkbps", audioBitrate(f)/1000)
	}
	if codecs := params["codecs"]; codecs != "" {
		fmt.Fprintf(&b, " codecs=%s", codecs)
	}
	if !IsAudioOnly(f) && f.AudioChannels == 0 {
		b.WriteString(" (video only)")
	}
	return b.String()
}

func audioBitrate(f youtube.Format) int {
	if f.AverageBitrate > 0 {
		return f.AverageBitrate
	}
	return f.Bitrate
}

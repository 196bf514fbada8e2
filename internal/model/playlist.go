package model

import (
	"time"
)

// VideoStatus represents the status of a single video in playlist
type VideoStatus string

const (
	VideoStatusPending     VideoStatus = "pending"
	VideoStatusDownloading VideoStatus = "downloading"
	VideoStatusCompleted   VideoStatus = "completed"
	VideoStatusError       VideoStatus = "error"
)

// PlaylistVideo represents a single video in a playlist
type PlaylistVideo struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	URL        string      `json:"url"`
	Status     VideoStatus `json:"status"`
	Error      string      `json:"error,omitempty"`
	OutputPath string      `json:"output_path,omitempty"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Playlist represents a YouTube playlist with its videos
type Playlist struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	URL       string           `json:"url"`
	Videos    []*PlaylistVideo `json:"videos"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewPlaylist creates a new playlist instance
func NewPlaylist(id, url string) *Playlist {
	return &Playlist{
		ID:        id,
		URL:       url,
		Videos:    make([]*PlaylistVideo, 0),
		CreatedAt: time.Now(),
	}
}

// AddVideo adds a video to the playlist
func (p *Playlist) AddVideo(video *PlaylistVideo) {
	p.Videos = append(p.Videos, video)
}

// MarkVideo records the outcome of one playlist entry
func (p *Playlist) MarkVideo(videoID string, status VideoStatus, outputPath string, err error) {
	for _, video := range p.Videos {
		if video.ID != videoID {
			continue
		}
		video.Status = status
		video.OutputPath = outputPath
		if err != nil {
			video.Error = err.Error()
		}
		video.UpdatedAt = time.Now()
		return
	}
}

// CountByStatus returns how many videos are in the given status
func (p *Playlist) CountByStatus(status VideoStatus) int {
	n := 0
	for _, video := range p.Videos {
		if video.Status == status {
			n++
		}
	}
	return n
}

// HasErrors checks if any video has errors
func (p *Playlist) HasErrors() bool {
	return p.CountByStatus(VideoStatusError) > 0
}

package download

// Package download fetches video metadata, picks audio and video streams and
// writes them to disk through github.com/kkdai/youtube/v2. Files are written
// atomically so an interrupted transfer never leaves a half-written stream
// under the final name.

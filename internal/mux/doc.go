package mux

// Package mux merges a video-only and an audio-only file into one mp4 with
// an external ffmpeg binary.

package platform

// Package platform contains filesystem and URL helpers plus playlist listing
// through the ytdlp library.

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
)

// Player clients understood by the upstream library
type PlayerClient string

const (
	ClientAndroid  PlayerClient = "ANDROID"
	ClientWeb      PlayerClient = "WEB"
	ClientEmbedded PlayerClient = "EMBEDDED"
)

// Environment variable names
const (
	EnvDownloadDir = "YTFETCH_DOWNLOAD_DIR"
	EnvLogDir      = "YTFETCH_LOG_DIR"
	EnvLogLevel    = "YTFETCH_LOG_LEVEL"
	EnvClient      = "YTFETCH_CLIENT"
	EnvTimeout     = "YTFETCH_HTTP_TIMEOUT"
	EnvRetries     = "YTFETCH_HTTP_RETRIES"
	EnvAudioItag   = "YTFETCH_AUDIO_ITAG"
	EnvFFmpeg      = "YTFETCH_FFMPEG"
	EnvBotToken    = "TELEGRAM_BOT_TOKEN"
)

// Default values
const (
	DefaultDownloadDir = "downloads"
	DefaultLogDir      = "logs"
	DefaultLogLevel    = "info"
	DefaultClient      = ClientAndroid
	DefaultBotClient   = ClientWeb
	DefaultTimeout     = 30 * time.Second
	DefaultRetries     = 3
	DefaultAudioItag   = 140
	DefaultFFmpeg      = "ffmpeg"
	DefaultUserAgent   = "ytfetch/1.0"
)

// Settings holds the options shared by every subcommand
type Settings struct {
	DownloadDir string
	LogDir      string
	LogLevel    string
	Client      string
	Timeout     time.Duration
	Retries     int
	AudioItag   int
	FFmpegPath  string
}

// Flags returns CLI flags for the shared settings
func (s *Settings) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "download-dir",
			Usage:       "Directory for downloaded media",
			Value:       DefaultDownloadDir,
			Destination: &s.DownloadDir,
			Sources:     cli.EnvVars(EnvDownloadDir),
		},
		&cli.StringFlag{
			Name:        "log-dir",
			Usage:       "Directory for the rotating log file",
			Value:       DefaultLogDir,
			Destination: &s.LogDir,
			Sources:     cli.EnvVars(EnvLogDir),
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       DefaultLogLevel,
			Destination: &s.LogLevel,
			Sources:     cli.EnvVars(EnvLogLevel),
		},
		&cli.StringFlag{
			Name:        "client",
			Usage:       "Player client to impersonate (ANDROID, WEB, EMBEDDED)",
			Destination: &s.Client,
			Sources:     cli.EnvVars(EnvClient),
		},
		&cli.DurationFlag{
			Name:        "http-timeout",
			Usage:       "Timeout for a single HTTP request",
			Value:       DefaultTimeout,
			Destination: &s.Timeout,
			Sources:     cli.EnvVars(EnvTimeout),
		},
		&cli.IntFlag{
			Name:        "http-retries",
			Usage:       "Retries for failed HTTP requests",
			Value:       DefaultRetries,
			Destination: &s.Retries,
			Sources:     cli.EnvVars(EnvRetries),
		},
		&cli.IntFlag{
			Name:        "audio-itag",
			Usage:       "Preferred audio stream itag",
			Value:       DefaultAudioItag,
			Destination: &s.AudioItag,
			Sources:     cli.EnvVars(EnvAudioItag),
		},
		&cli.StringFlag{
			Name:        "ffmpeg",
			Usage:       "Path to the ffmpeg executable",
			Value:       DefaultFFmpeg,
			Destination: &s.FFmpegPath,
			Sources:     cli.EnvVars(EnvFFmpeg),
		},
	}
}

// PlayerClient returns the configured client, or fallback when none was set
func (s *Settings) PlayerClient(fallback PlayerClient) (PlayerClient, error) {
	if s.Client == "" {
		return fallback, nil
	}
	return ParsePlayerClient(s.Client)
}

// Validate checks values that flag parsing cannot
func (s *Settings) Validate() error {
	if s.DownloadDir == "" {
		return fmt.Errorf("download directory must not be empty")
	}
	if s.Retries < 0 {
		return fmt.Errorf("http retries must not be negative: %d", s.Retries)
	}
	if s.AudioItag <= 0 {
		return fmt.Errorf("audio itag must be positive: %d", s.AudioItag)
	}
	if s.Client != "" {
		if _, err := ParsePlayerClient(s.Client); err != nil {
			return err
		}
	}
	return nil
}

// ParsePlayerClient parses a client name case-insensitively
func ParsePlayerClient(name string) (PlayerClient, error) {
	switch c := PlayerClient(strings.ToUpper(strings.TrimSpace(name))); c {
	case ClientAndroid, ClientWeb, ClientEmbedded:
		return c, nil
	}
	return "", fmt.Errorf("unknown player client %q", name)
}

// Bot holds chat bot configuration
type Bot struct {
	Token string
}

// Flags returns CLI flags for bot configuration
func (b *Bot) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "token",
			Usage:       "Telegram bot token",
			Destination: &b.Token,
			Sources:     cli.EnvVars(EnvBotToken),
		},
	}
}

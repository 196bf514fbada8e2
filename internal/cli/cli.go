// Package cli wires settings, logging and services into the ytfetch commands.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ytget/ytfetch/internal/bot"
	"github.com/ytget/ytfetch/internal/config"
	"github.com/ytget/ytfetch/internal/log"
	"github.com/ytget/ytfetch/internal/platform"
)

// Version is reported by --version
var Version = "dev"

// deps holds what the commands take from the process
type deps struct {
	in          io.Reader
	out         io.Writer
	errOut      io.Writer
	newTelegram bot.Factory
}

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, deps{
		in:          os.Stdin,
		out:         os.Stdout,
		errOut:      os.Stderr,
		newTelegram: bot.NewTelegramAPI,
	})
}

func run(ctx context.Context, args []string, d deps) error {
	// Values from .env act as environment defaults, so load it before flags are parsed
	if err := config.LoadEnvFile(config.DefaultEnvFile); err != nil {
		return err
	}

	var settings config.Settings
	defer log.Close()

	app := &cli.Command{
		Name:      "ytfetch",
		Usage:     "Download YouTube audio and video from the terminal or a Telegram bot",
		Version:   Version,
		Flags:     settings.Flags(),
		Reader:    d.in,
		Writer:    d.out,
		ErrWriter: d.errOut,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := settings.Validate(); err != nil {
				return ctx, err
			}
			if err := platform.EnsureDirectories(settings.DownloadDir, settings.LogDir); err != nil {
				return ctx, err
			}
			err := log.Configure(log.Config{
				Level:  settings.LogLevel,
				Output: d.errOut,
				Dir:    settings.LogDir,
			})
			return ctx, err
		},
		Commands: []*cli.Command{
			cmdAudio(&settings, d),
			cmdVideo(&settings, d),
			cmdBot(&settings, d),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logger := log.Base()
		logger.Error().Err(err).Msg("CLI execution failed")
		return err
	}
	return nil
}

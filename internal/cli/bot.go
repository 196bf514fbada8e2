package cli

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/ytget/ytfetch/internal/bot"
	"github.com/ytget/ytfetch/internal/config"
	"github.com/ytget/ytfetch/internal/download"
	"github.com/ytget/ytfetch/internal/log"
)

func cmdBot(settings *config.Settings, d deps) *cli.Command {
	var botCfg config.Bot

	return &cli.Command{
		Name:  "bot",
		Usage: "Run the Telegram bot that replies to YouTube links with audio",
		Flags: botCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := log.WithComponent("bot")

			if botCfg.Token == "" {
				logger.Error().Msg("TELEGRAM_BOT_TOKEN not found in .env file!")
				printLine(c, "❌ Error: TELEGRAM_BOT_TOKEN not found in .env file!")
				return bot.ErrMissingToken
			}

			player, err := settings.PlayerClient(config.DefaultBotClient)
			if err != nil {
				return err
			}
			httpClient := download.NewHTTPClient(settings)
			downloader := download.NewService(download.NewYouTubeClient(httpClient, player), settings.DownloadDir)

			logger.Info().Msg("YouTube Audio Downloader Bot - Starting")
			logger.Info().Str("dir", settings.DownloadDir).Msg("Download directory")
			logger.Info().Str("dir", settings.LogDir).Msg("Log directory")

			printLine(c, "🤖 YouTube Audio Downloader Bot")
			printLine(c, "✅ Bot is running! Press Ctrl+C to stop.")

			err = bot.Run(ctx, botCfg.Token, d.newTelegram, downloader, settings.AudioItag)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			printLine(c, "\n👋 Bot stopped")
			return nil
		},
	}
}

package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ytget/ytfetch/internal/download"
	"github.com/ytget/ytfetch/internal/log"
)

// Long polling settings
const (
	UpdateTimeoutSeconds = 60
	UpdateOffset         = 0
)

// ErrMissingToken is returned by Run when no bot token is configured
var ErrMissingToken = errors.New("TELEGRAM_BOT_TOKEN not found")

// Factory creates an authenticated API client for token
type Factory func(token string) (Messenger, error)

// NewTelegramAPI connects to the Bot API and routes its logging to ours
func NewTelegramAPI(token string) (Messenger, error) {
	if err := tgbotapi.SetLogger(log.NewPrinter("telegram")); err != nil {
		return nil, err
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}
	return api, nil
}

// Run validates the token, connects and polls until ctx is done. Without a
// token it returns ErrMissingToken before newAPI is called.
func Run(ctx context.Context, token string, newAPI Factory, downloader download.Downloader, audioItag int) error {
	if strings.TrimSpace(token) == "" {
		return ErrMissingToken
	}

	api, err := newAPI(token)
	if err != nil {
		return err
	}

	b := New(api, downloader, audioItag)
	if err := b.RegisterCommands(); err != nil {
		b.logger.Warn().Err(err).Msg("failed to register bot commands")
	}
	return b.Serve(ctx)
}

// RegisterCommands publishes /start and /help in the Telegram command menu
func (b *Bot) RegisterCommands() error {
	cfg := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: CommandStart, Description: "Show the welcome message"},
		tgbotapi.BotCommand{Command: CommandHelp, Description: "Show help"},
	)
	_, err := b.api.Request(cfg)
	return err
}

// Serve long-polls for updates and handles them sequentially until ctx is
// done or the update channel closes.
func (b *Bot) Serve(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(UpdateOffset)
	cfg.Timeout = UpdateTimeoutSeconds

	updates := b.api.GetUpdatesChan(cfg)
	b.logger.Info().Msg("Starting bot polling...")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info().Msg("Bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

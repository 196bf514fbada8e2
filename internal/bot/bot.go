package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/ytget/ytfetch/internal/download"
	"github.com/ytget/ytfetch/internal/log"
	"github.com/ytget/ytfetch/internal/model"
	"github.com/ytget/ytfetch/internal/platform"
)

// Messenger is the part of *tgbotapi.BotAPI the bot talks to.
type Messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

var _ Messenger = (*tgbotapi.BotAPI)(nil)

// Bot answers chat messages
type Bot struct {
	api        Messenger
	downloader download.Downloader
	audioItag  int
	logger     zerolog.Logger
}

// New creates a bot on top of an authenticated API client
func New(api Messenger, downloader download.Downloader, audioItag int) *Bot {
	return &Bot{
		api:        api,
		downloader: downloader,
		audioItag:  audioItag,
		logger:     log.WithComponent("bot"),
	}
}

// HandleUpdate dispatches one update. Updates without a text message are ignored.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Text == "" {
		return
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case CommandStart:
			b.reply(msg, welcomeText(firstName(msg)))
			return
		case CommandHelp:
			b.reply(msg, helpText)
			return
		}
	}
	b.handleLink(ctx, msg)
}

// handleLink downloads the audio of a YouTube link and sends it back. The
// local file is removed whether or not the upload succeeded.
func (b *Bot) handleLink(ctx context.Context, msg *tgbotapi.Message) {
	url := strings.TrimSpace(msg.Text)
	if !platform.IsSupportedURL(url) {
		b.reply(msg, notYouTubeText)
		return
	}

	status, err := b.reply(msg, processingText)
	if err != nil {
		return
	}

	var audioPath string
	defer func() {
		if err := platform.RemoveIfExists(audioPath); err != nil {
			b.logger.Warn().Err(err).Str("path", audioPath).Msg("failed to remove audio file")
		}
	}()

	task := download.NewTask(url, model.TaskKindAudio)
	audioPath, err = b.sendAudio(ctx, msg, status.MessageID, task)
	if err != nil {
		b.logger.Error().Err(err).Str("task_id", task.ID).Msg("error processing request")
		if _, editErr := b.edit(msg.Chat.ID, status.MessageID, errorText(err)); editErr != nil {
			b.reply(msg, errorText(err))
		}
		return
	}

	b.logger.Info().
		Str("title", task.GetDisplayTitle()).
		Int64("user_id", userID(msg)).
		Msg("Successfully sent audio")
}

// sendAudio walks the status message through fetch, download and upload.
// It returns the local file path as soon as one exists so the caller can
// remove it.
func (b *Bot) sendAudio(ctx context.Context, msg *tgbotapi.Message, statusID int, task *model.DownloadTask) (string, error) {
	chatID := msg.Chat.ID

	if _, err := b.edit(chatID, statusID, fetchingText); err != nil {
		return "", err
	}

	video, err := b.downloader.Fetch(ctx, task)
	if err != nil {
		return "", err
	}

	if _, err := b.edit(chatID, statusID, downloadingText(task.Title, task.Author, task.DurationClock())); err != nil {
		return "", err
	}

	format, _, err := download.SelectAudioFormat(video.Formats, b.audioItag)
	if err != nil {
		return "", err
	}
	path, err := b.downloader.DownloadFormat(ctx, task, video, format, "")
	if err != nil {
		return "", err
	}

	size, err := platform.FileSize(path)
	if err != nil {
		return path, fmt.Errorf("failed to stat audio file: %w", err)
	}
	task.FileSize = size

	if _, err := b.edit(chatID, statusID, uploadingText(task.Title, task.SizeMB())); err != nil {
		return path, err
	}

	task.Status = model.TaskStatusUploading
	audio := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(path))
	audio.Title = task.Title
	audio.Performer = task.Author
	audio.Duration = task.DurationSeconds()
	if _, err := b.api.Send(audio); err != nil {
		return path, fmt.Errorf("failed to upload audio: %w", err)
	}

	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, statusID)); err != nil {
		return path, fmt.Errorf("failed to delete status message: %w", err)
	}
	task.Complete()
	return path, nil
}

// reply answers msg in its chat as a reply
func (b *Bot) reply(msg *tgbotapi.Message, text string) (tgbotapi.Message, error) {
	cfg := tgbotapi.NewMessage(msg.Chat.ID, text)
	cfg.ReplyToMessageID = msg.MessageID
	sent, err := b.api.Send(cfg)
	if err != nil {
		b.logger.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("failed to send reply")
	}
	return sent, err
}

// edit replaces the text of a message the bot sent earlier
func (b *Bot) edit(chatID int64, messageID int, text string) (tgbotapi.Message, error) {
	return b.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text))
}

func firstName(msg *tgbotapi.Message) string {
	if msg.From == nil {
		return ""
	}
	return msg.From.FirstName
}

func userID(msg *tgbotapi.Message) int64 {
	if msg.From == nil {
		return 0
	}
	return msg.From.ID
}

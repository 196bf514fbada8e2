package bot

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/kkdai/youtube/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/ytfetch/internal/model"
)

const testChatID int64 = 42

// fakeAPI records every config it accepted
type fakeAPI struct {
	mu        sync.Mutex
	sent      []tgbotapi.Chattable
	requests  []tgbotapi.Chattable
	failAudio error
	failEdits bool
	nextID    int
	uploaded  string
	updates   chan tgbotapi.Update
	stopped   bool
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch cfg := c.(type) {
	case tgbotapi.AudioConfig:
		if path, ok := cfg.File.(tgbotapi.FilePath); ok {
			f.uploaded = string(path)
		}
		if f.failAudio != nil {
			return tgbotapi.Message{}, f.failAudio
		}
	case tgbotapi.EditMessageTextConfig:
		if f.failEdits {
			return tgbotapi.Message{}, errors.New("message to edit not found")
		}
	}

	f.sent = append(f.sent, c)
	f.nextID++
	return tgbotapi.Message{MessageID: 100 + f.nextID, Chat: &tgbotapi.Chat{ID: testChatID}}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

// texts returns the text of every sent message and edit in order
func (f *fakeAPI) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.sent {
		switch cfg := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, cfg.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, cfg.Text)
		}
	}
	return out
}

// fakeDownloader writes a small audio file into dir
type fakeDownloader struct {
	dir         string
	fetchErr    error
	fetchCalls  int
	downloadErr error
	itag        int
}

func (f *fakeDownloader) SetUpdateCallback(func(*model.DownloadTask)) {}

func (f *fakeDownloader) Fetch(ctx context.Context, task *model.DownloadTask) (*youtube.Video, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	task.Title = "Me at the zoo"
	task.Author = "jawed"
	task.Duration = 79 * time.Second
	return &youtube.Video{
		Title: task.Title,
		Formats: youtube.FormatList{
			{ItagNo: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, AverageBitrate: 129000},
			{ItagNo: 251, MimeType: `audio/webm; codecs="opus"`, AverageBitrate: 140000},
		},
	}, nil
}

func (f *fakeDownloader) DownloadFormat(ctx context.Context, task *model.DownloadTask, video *youtube.Video, format *youtube.Format, prefix string) (string, error) {
	f.itag = format.ItagNo
	if f.downloadErr != nil {
		return "", f.downloadErr
	}
	path := filepath.Join(f.dir, video.Title+".m4a")
	if err := os.WriteFile(path, make([]byte, 1536*1024), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func textMessage(text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			MessageID: 7,
			From:      &tgbotapi.User{ID: 1001, FirstName: "Ada"},
			Chat:      &tgbotapi.Chat{ID: testChatID},
			Text:      text,
		},
	}
}

func commandMessage(command string) tgbotapi.Update {
	update := textMessage(command)
	update.Message.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(command)}}
	return update
}

func TestHandleUpdate_Start(t *testing.T) {
	api := &fakeAPI{}
	b := New(api, &fakeDownloader{dir: t.TempDir()}, 140)

	b.HandleUpdate(context.Background(), commandMessage("/start"))

	texts := api.texts()
	require.Len(t, texts, 1)
	assert.Equal(t, welcomeText("Ada"), texts[0])
	assert.Contains(t, texts[0], "👋 Hi Ada!")

	reply, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, 7, reply.ReplyToMessageID)
}

func TestHandleUpdate_Help(t *testing.T) {
	api := &fakeAPI{}
	b := New(api, &fakeDownloader{dir: t.TempDir()}, 140)

	b.HandleUpdate(context.Background(), commandMessage("/help@ytfetch_bot"))

	assert.Equal(t, []string{helpText}, api.texts())
}

func TestHandleUpdate_RejectsNonYouTubeText(t *testing.T) {
	api := &fakeAPI{}
	dl := &fakeDownloader{dir: t.TempDir()}
	b := New(api, dl, 140)

	b.HandleUpdate(context.Background(), textMessage("https://vimeo.com/123"))
	b.HandleUpdate(context.Background(), commandMessage("/unknown"))

	assert.Equal(t, []string{notYouTubeText, notYouTubeText}, api.texts())
	assert.Zero(t, dl.fetchCalls)
}

func TestHandleUpdate_IgnoresNonText(t *testing.T) {
	api := &fakeAPI{}
	b := New(api, &fakeDownloader{dir: t.TempDir()}, 140)

	b.HandleUpdate(context.Background(), tgbotapi.Update{UpdateID: 3})
	b.HandleUpdate(context.Background(), textMessage(""))

	assert.Empty(t, api.sent)
}

func TestHandleUpdate_SendsAudioAndRemovesFile(t *testing.T) {
	api := &fakeAPI{}
	dl := &fakeDownloader{dir: t.TempDir()}
	b := New(api, dl, 140)

	b.HandleUpdate(context.Background(), textMessage("  https://youtu.be/jNQXAC9IVRw "))

	assert.Equal(t, []string{
		processingText,
		fetchingText,
		"📺 Video: Me at the zoo\n👤 Author: jawed\n⏱ Duration: 1:19\n\n⬇️ Downloading audio...",
		"📺 Me at the zoo\n📦 Size: 1.50 MB\n\n📤 Uploading to Telegram...",
	}, api.texts())
	assert.Equal(t, 140, dl.itag)

	var audio tgbotapi.AudioConfig
	for _, c := range api.sent {
		if cfg, ok := c.(tgbotapi.AudioConfig); ok {
			audio = cfg
		}
	}
	assert.Equal(t, "Me at the zoo", audio.Title)
	assert.Equal(t, "jawed", audio.Performer)
	assert.Equal(t, 79, audio.Duration)
	assert.Equal(t, testChatID, audio.ChatID)

	require.Len(t, api.requests, 1)
	del, ok := api.requests[0].(tgbotapi.DeleteMessageConfig)
	require.True(t, ok)
	assert.Equal(t, 101, del.MessageID, "status message is deleted")

	assert.NotEmpty(t, api.uploaded)
	assert.NoFileExists(t, api.uploaded)
}

func TestHandleUpdate_LogsSentAudioOnce(t *testing.T) {
	var buf bytes.Buffer
	b := New(&fakeAPI{}, &fakeDownloader{dir: t.TempDir()}, 140)
	b.logger = zerolog.New(&buf)

	b.HandleUpdate(context.Background(), textMessage("https://youtu.be/jNQXAC9IVRw"))

	line := buf.String()
	assert.Contains(t, line, `"message":"Successfully sent audio"`)
	assert.Contains(t, line, `"title":"Me at the zoo"`)
	assert.Contains(t, line, `"user_id":1001`)
	assert.Equal(t, 1, strings.Count(line, "Me at the zoo"))
}

func TestHandleUpdate_UploadErrorRemovesFile(t *testing.T) {
	api := &fakeAPI{failAudio: errors.New("Request Entity Too Large")}
	dl := &fakeDownloader{dir: t.TempDir()}
	b := New(api, dl, 140)

	b.HandleUpdate(context.Background(), textMessage("https://www.youtube.com/watch?v=jNQXAC9IVRw"))

	texts := api.texts()
	require.NotEmpty(t, texts)
	assert.Equal(t, "❌ Error occurred:\nfailed to upload audio: Request Entity Too Large\n\nPlease try again or send a different link.", texts[len(texts)-1])
	assert.Empty(t, api.requests, "status message stays when upload fails")
	assert.NoFileExists(t, api.uploaded)
}

func TestHandleUpdate_EditFailureFallsBackToReply(t *testing.T) {
	api := &fakeAPI{failEdits: true}
	dl := &fakeDownloader{dir: t.TempDir()}
	b := New(api, dl, 140)

	b.HandleUpdate(context.Background(), textMessage("https://youtu.be/private"))

	// Edits fail, so the error is posted as a new reply
	texts := api.texts()
	require.Len(t, texts, 2)
	assert.Equal(t, processingText, texts[0])
	assert.Contains(t, texts[1], "❌ Error occurred:\n")

	last, ok := api.sent[len(api.sent)-1].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, 7, last.ReplyToMessageID)

	assert.Zero(t, dl.fetchCalls)
}

func TestHandleUpdate_FetchError(t *testing.T) {
	api := &fakeAPI{}
	dl := &fakeDownloader{dir: t.TempDir(), fetchErr: youtube.ErrVideoPrivate}
	b := New(api, dl, 140)

	b.HandleUpdate(context.Background(), textMessage("https://youtu.be/private"))

	texts := api.texts()
	assert.Equal(t, errorText(youtube.ErrVideoPrivate), texts[len(texts)-1])
	entries, err := os.ReadDir(dl.dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHandleUpdate_DownloadErrorReportsInStatus(t *testing.T) {
	api := &fakeAPI{}
	dl := &fakeDownloader{dir: t.TempDir(), downloadErr: errors.New("403 Forbidden")}
	b := New(api, dl, 140)

	b.HandleUpdate(context.Background(), textMessage("https://youtu.be/jNQXAC9IVRw"))

	texts := api.texts()
	assert.Equal(t, errorText(errors.New("403 Forbidden")), texts[len(texts)-1])
	edit, ok := api.sent[len(api.sent)-1].(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Equal(t, 101, edit.MessageID)
}

func TestRun_MissingToken(t *testing.T) {
	called := false
	factory := func(token string) (Messenger, error) {
		called = true
		return &fakeAPI{}, nil
	}

	err := Run(context.Background(), "  ", factory, &fakeDownloader{}, 140)
	assert.ErrorIs(t, err, ErrMissingToken)
	assert.False(t, called, "no API client without a token")
}

func TestRun_FactoryError(t *testing.T) {
	factory := func(token string) (Messenger, error) {
		return nil, errors.New("Not Found")
	}

	err := Run(context.Background(), "123:abc", factory, &fakeDownloader{}, 140)
	assert.EqualError(t, err, "Not Found")
}

func TestRun_PollsUntilCancelled(t *testing.T) {
	api := &fakeAPI{updates: make(chan tgbotapi.Update, 1)}
	api.updates <- commandMessage("/help")
	factory := func(token string) (Messenger, error) { return api, nil }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, "123:abc", factory, &fakeDownloader{dir: t.TempDir()}, 140) }()

	require.Eventually(t, func() bool { return len(api.texts()) == 1 }, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.True(t, api.stopped)
	require.NotEmpty(t, api.requests)
	_, ok := api.requests[0].(tgbotapi.SetMyCommandsConfig)
	assert.True(t, ok, "commands are registered before polling")
}

func TestServe_ClosedChannel(t *testing.T) {
	api := &fakeAPI{updates: make(chan tgbotapi.Update)}
	close(api.updates)
	b := New(api, &fakeDownloader{}, 140)

	assert.NoError(t, b.Serve(context.Background()))
}

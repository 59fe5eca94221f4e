package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/Behyna/streamstore/internal/chat"
	"github.com/Behyna/streamstore/internal/config"
	"github.com/Behyna/streamstore/pkg/httpclient"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	defaultUpdateTimeout = 10
	defaultMaxImageBytes = 5 << 20
	msgDownloadFailed    = "We could not download your image. Please send it again."
	msgImageTooLarge     = "This image is too large. Please send a smaller one."
)

// Handler turns an incoming chat message into a reply.
type Handler interface {
	Handle(ctx context.Context, in chat.Incoming) string
}

// Bot long-polls Telegram for updates and answers each message through the
// chat handler. Every update is handled on its own goroutine.
type Bot struct {
	api      API
	client   *Client
	handler  Handler
	http     httpclient.HTTPClient
	maxBytes int64
	timeout  int
	logger   *zap.Logger

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewBot(api API, client *Client, handler Handler, http httpclient.HTTPClient, cfg *config.Config,
	logger *zap.Logger) *Bot {
	timeout := cfg.Telegram.Timeout
	if timeout <= 0 {
		timeout = defaultUpdateTimeout
	}

	return &Bot{
		api:      api,
		client:   client,
		handler:  handler,
		http:     http,
		maxBytes: cfg.Storage.MaxUploadBytes,
		timeout:  timeout,
		logger:   logger,
	}
}

func (b *Bot) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.timeout
	updates := b.api.GetUpdatesChan(u)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for update := range updates {
			if update.Message == nil {
				continue
			}

			b.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer b.wg.Done()
				b.handleMessage(ctx, msg)
			}(update.Message)
		}
	}()

	b.logger.Info("Telegram bot started", zap.Int("timeout", b.timeout))
}

// Stop ends polling and waits for in-flight updates until ctx is done. The
// pending long poll may outlive ctx; handlers are cancelled either way.
func (b *Bot) Stop(ctx context.Context) error {
	var err error
	b.stopOnce.Do(func() {
		b.api.StopReceivingUpdates()

		done := make(chan struct{})
		go func() {
			b.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			err = ctx.Err()
			b.logger.Warn("Telegram bot stop timed out, abandoning in-flight updates", zap.Error(err))
		}

		if b.cancel != nil {
			b.cancel()
		}
		b.logger.Info("Telegram bot stopped")
	})
	return err
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	in := chat.Incoming{
		Phone:   strconv.FormatInt(msg.Chat.ID, 10),
		Text:    msg.Text,
		IsGroup: !msg.Chat.IsPrivate(),
	}
	if msg.From != nil {
		in.Name = strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName)
	}
	if in.Text == "" {
		in.Text = msg.Caption
	}

	if fileID := imageFileID(msg, b.maxBytes); fileID != "" && !in.IsGroup {
		data, contentType, err := b.download(ctx, fileID)
		if err != nil {
			b.logger.Warn("Failed to download chat image",
				zap.Int64("chatID", msg.Chat.ID),
				zap.String("fileID", fileID),
				zap.Error(err))
			if errors.Is(err, httpclient.ErrBodyTooLarge) {
				b.reply(ctx, in.Phone, msgImageTooLarge)
			} else {
				b.reply(ctx, in.Phone, msgDownloadFailed)
			}
			return
		}
		in.Image, in.ImageType = data, contentType
	}

	if reply := b.handler.Handle(ctx, in); reply != "" {
		b.reply(ctx, in.Phone, reply)
	}
}

func (b *Bot) download(ctx context.Context, fileID string) ([]byte, string, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, "", err
	}

	limit := b.maxBytes
	if limit <= 0 {
		limit = defaultMaxImageBytes
	}
	return b.http.Download(ctx, url, limit)
}

func (b *Bot) reply(ctx context.Context, chatID, text string) {
	if err := b.client.SendText(ctx, chatID, text); err != nil {
		b.logger.Error("Failed to send chat reply", zap.String("chatID", chatID), zap.Error(err))
	}
}

// imageFileID picks the largest photo size that fits within maxBytes, or an
// image sent as a document.
func imageFileID(msg *tgbotapi.Message, maxBytes int64) string {
	if len(msg.Photo) > 0 {
		best := msg.Photo[0]
		for _, size := range msg.Photo[1:] {
			if maxBytes > 0 && int64(size.FileSize) > maxBytes {
				continue
			}
			if size.FileSize >= best.FileSize {
				best = size
			}
		}
		return best.FileID
	}

	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		return msg.Document.FileID
	}
	return ""
}

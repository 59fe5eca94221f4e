package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Behyna/streamstore/internal/config"
	"github.com/Behyna/streamstore/internal/service"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

var _ service.Sender = (*Client)(nil)

// API is the part of tgbotapi.BotAPI the store uses.
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

func NewBotAPI(cfg *config.Config, logger *zap.Logger) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Error("Failed to connect to Telegram", zap.Error(err))
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	api.Debug = cfg.Telegram.Debug

	logger.Info("Connected to Telegram", zap.String("bot", api.Self.UserName))
	return api, nil
}

// Client sends messages through the bot. Users are addressed by chat ID,
// which the store keeps in the phone column.
type Client struct {
	api    API
	logger *zap.Logger
}

func NewClient(api API, logger *zap.Logger) *Client {
	return &Client{api: api, logger: logger}
}

func (c *Client) SendText(ctx context.Context, phone, text string) error {
	chatID, err := strconv.ParseInt(phone, 10, 64)
	if err != nil {
		return fmt.Errorf("chat id %q: %w", phone, service.ErrInvalidRecipient)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := c.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		if unreachable(err) {
			return fmt.Errorf("chat %d: %w: %w", chatID, err, service.ErrInvalidRecipient)
		}
		return fmt.Errorf("send to chat %d: %w", chatID, err)
	}
	return nil
}

// unreachable reports whether Telegram refused the chat itself, as when the
// user blocked the bot or the chat does not exist.
func unreachable(err error) bool {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusForbidden ||
		(apiErr.Code == http.StatusBadRequest && strings.Contains(strings.ToLower(apiErr.Message), "chat not found"))
}

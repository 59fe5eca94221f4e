package service

import (
	"context"
	"errors"
	"time"

	"github.com/Behyna/streamstore/internal/config"
	"github.com/Behyna/streamstore/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Sender delivers a text message to a user of the chat transport.
// Implementations return ErrInvalidRecipient when the address can never
// receive messages.
type Sender interface {
	SendText(ctx context.Context, phone, text string) error
}

type Notifier interface {
	Notify(ctx context.Context, phone, text string) error
}

type notifier struct {
	sender   Sender
	limiter  *rate.Limiter
	maxRetry int
	timeout  time.Duration
	backoff  time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

func NewNotifier(sender Sender, cfg *config.Config, logger *zap.Logger, metrics *metrics.Metrics) Notifier {
	maxRetry := cfg.Notifier.MaxRetry
	if maxRetry < 1 {
		maxRetry = 1
	}

	limit := rate.Inf
	burst := 1
	if cfg.Notifier.RatePerSecond > 0 {
		limit = rate.Limit(cfg.Notifier.RatePerSecond)
		burst = max(1, int(cfg.Notifier.RatePerSecond))
	}

	return &notifier{
		sender:   sender,
		limiter:  rate.NewLimiter(limit, burst),
		maxRetry: maxRetry,
		timeout:  cfg.Notifier.Timeout,
		backoff:  100 * time.Millisecond,
		logger:   logger,
		metrics:  metrics,
	}
}

func (n *notifier) Notify(ctx context.Context, phone, text string) error {
	var lastErr error
	for attempt := 1; attempt <= n.maxRetry; attempt++ {
		if err := n.limiter.Wait(ctx); err != nil {
			return err
		}

		lastErr = n.send(ctx, phone, text)
		if lastErr == nil {
			n.metrics.RecordNotification("sent")
			return nil
		}

		if errors.Is(lastErr, ErrInvalidRecipient) {
			n.logger.Warn("Non-retryable error encountered",
				zap.Error(lastErr),
				zap.Int("attempt", attempt),
				zap.String("phone", phone))
			n.metrics.RecordNotification("invalid_recipient")
			return lastErr
		}

		n.logger.Debug("Send attempt failed",
			zap.Error(lastErr),
			zap.Int("attempt", attempt),
			zap.String("phone", phone))

		if attempt < n.maxRetry {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * n.backoff):
			}
		}
	}

	n.logger.Error("Message not delivered after all retries",
		zap.Error(lastErr),
		zap.Int("maxRetries", n.maxRetry),
		zap.String("phone", phone))
	n.metrics.RecordNotification("failed")

	return lastErr
}

func (n *notifier) send(ctx context.Context, phone, text string) error {
	if n.timeout <= 0 {
		return n.sender.SendText(ctx, phone, text)
	}

	sendCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	return n.sender.SendText(sendCtx, phone, text)
}

// LogSender writes outbound messages to the log. It stands in for a chat
// transport when none is configured.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (l *LogSender) SendText(_ context.Context, phone, text string) error {
	l.logger.Info("Outbound message", zap.String("phone", phone), zap.String("text", text))
	return nil
}

package service

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/Behyna/streamstore/internal/config"
	"github.com/Behyna/streamstore/internal/ledger"
	"github.com/Behyna/streamstore/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type BroadcastService interface {
	Broadcast(ctx context.Context, text string) (BroadcastResult, error)
}

type broadcastService struct {
	store       ledger.Store
	notifier    Notifier
	concurrency int
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

func NewBroadcastService(store ledger.Store, notifier Notifier, cfg *config.Config, logger *zap.Logger,
	metrics *metrics.Metrics) BroadcastService {
	concurrency := cfg.Notifier.BroadcastConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &broadcastService{
		store:       store,
		notifier:    notifier,
		concurrency: concurrency,
		logger:      logger,
		metrics:     metrics,
	}
}

// Broadcast sends text to every registered user. Delivery failures are
// counted in the result; only a failure to load the recipients is an error.
func (b *broadcastService) Broadcast(ctx context.Context, text string) (BroadcastResult, error) {
	if strings.TrimSpace(text) == "" {
		return BroadcastResult{}, validationError(ErrEmptyText)
	}

	phones, err := b.store.ListUserPhones(ctx)
	if err != nil {
		return BroadcastResult{}, storeError(err)
	}

	var sent, failed atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(b.concurrency)

	for _, phone := range phones {
		g.Go(func() error {
			if err := b.notifier.Notify(ctx, phone, text); err != nil {
				failed.Add(1)
				b.logger.Warn("Broadcast delivery failed", zap.String("phone", phone), zap.Error(err))
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	result := BroadcastResult{Total: len(phones), Sent: int(sent.Load()), Failed: int(failed.Load())}
	b.metrics.RecordBroadcast(result.Sent, result.Failed)
	b.logger.Info("Broadcast finished",
		zap.Int("total", result.Total),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed))

	return result, nil
}

package worker

import (
	"context"
	"sync"
	"time"

	"github.com/Behyna/streamstore/internal/config"
	"github.com/Behyna/streamstore/internal/service"
	"go.uber.org/zap"
)

const defaultSweepInterval = time.Hour

// Sweeper expires overdue inventory once at start and then on every tick.
type Sweeper struct {
	inventory service.InventoryService
	interval  time.Duration
	now       func() time.Time
	logger    *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func NewSweeper(inventory service.InventoryService, cfg *config.Config, logger *zap.Logger) *Sweeper {
	interval := cfg.Sweeper.Interval
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	return &Sweeper{
		inventory: inventory,
		interval:  interval,
		now:       time.Now,
		logger:    logger,
		done:      make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	appCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.sweep(appCtx)
		for {
			select {
			case <-ticker.C:
				s.sweep(appCtx)
			case <-appCtx.Done():
				s.logger.Info("Sweeper context cancelled")
				return
			}
		}
	}()

	s.logger.Info("Expiry sweeper started", zap.Duration("interval", s.interval))
}

func (s *Sweeper) Stop() {
	s.once.Do(func() {
		if s.cancel == nil {
			return
		}
		s.cancel()
		<-s.done
		s.logger.Info("Expiry sweeper stopped")
	})
}

func (s *Sweeper) sweep(ctx context.Context) {
	if _, err := s.inventory.SweepExpired(ctx, s.now()); err != nil {
		s.logger.Error("Failed to sweep expired items", zap.Error(err))
	}
}

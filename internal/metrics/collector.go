package metrics

import (
	"context"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

const (
	defaultCollectInterval = 15 * time.Second
	samplerTimeout         = 5 * time.Second
)

// Sampler refreshes one group of gauges. A failing sampler is logged and
// retried on the next tick; it never stops the others.
type Sampler func(ctx context.Context) error

type namedSampler struct {
	name    string
	sampler Sampler
}

// Collector runs its samplers once on Start and then on every tick.
type Collector struct {
	logger   *zap.Logger
	interval time.Duration
	samplers []namedSampler

	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

func NewCollector(logger *zap.Logger, interval time.Duration) *Collector {
	if interval <= 0 {
		interval = defaultCollectInterval
	}
	return &Collector{logger: logger, interval: interval, done: make(chan struct{})}
}

// Register adds a sampler. It must be called before Start.
func (c *Collector) Register(name string, sampler Sampler) {
	c.samplers = append(c.samplers, namedSampler{name: name, sampler: sampler})
}

func (c *Collector) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	go c.loop(ctx)
	c.logger.Info("Metrics collector started",
		zap.Duration("interval", c.interval),
		zap.Int("samplers", len(c.samplers)))
}

func (c *Collector) Stop() {
	c.stopOnce.Do(func() {
		if c.cancel == nil {
			return
		}
		c.cancel()
		<-c.done
		c.logger.Info("Metrics collector stopped")
	})
}

func (c *Collector) loop(ctx context.Context) {
	defer close(c.done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.collect(ctx)
	for {
		select {
		case <-ticker.C:
			c.collect(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (c *Collector) collect(ctx context.Context) {
	for _, p := range c.samplers {
		samplerCtx, cancel := context.WithTimeout(ctx, samplerTimeout)
		err := p.sampler(samplerCtx)
		cancel()

		if err != nil {
			c.logger.Warn("Metrics sampler failed", zap.String("sampler", p.name), zap.Error(err))
		}
	}
}

// SystemSampler publishes uptime, goroutine and memory gauges measured from
// startedAt.
func SystemSampler(m *Metrics, logger *zap.Logger, startedAt time.Time) Sampler {
	m.SetServiceVersion(Version, "unknown", startedAt.Format("2006-01-02"))

	return func(context.Context) error {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(startedAt)
		m.UpdateSystemMetrics(uptime, &memStats)

		logger.Debug("System metrics snapshot",
			zap.Duration("uptime", uptime),
			zap.Int("goroutines", runtime.NumGoroutine()),
			zap.Uint64("alloc_mb", memStats.Alloc/1024/1024))
		return nil
	}
}

package worker

import (
	"context"

	"github.com/Behyna/streamstore/internal/metrics"
	"github.com/Behyna/streamstore/internal/service"
)

// StoreLevelsSampler publishes customer, stock and proof-queue gauges from the
// same summary the admin reports use.
func StoreLevelsSampler(stats service.StatsService, proofs service.ProofService, m *metrics.Metrics) metrics.Sampler {
	return func(ctx context.Context) error {
		summary, err := stats.Summary(ctx)
		if err != nil {
			return err
		}

		pending, err := proofs.ListPending(ctx)
		if err != nil {
			return err
		}

		m.SetStoreLevels(summary.TotalUsers, summary.AvailableItems, summary.SoldItems,
			summary.ExpiredItems, int64(len(pending)))
		return nil
	}
}

package service

import (
	"context"
	"time"

	"github.com/Behyna/streamstore/internal/ledger"
)

const recentSalesLimit = 10

type StatsService interface {
	Summary(ctx context.Context) (Summary, error)
}

type statsService struct {
	store ledger.Store
}

func NewStatsService(store ledger.Store) StatsService {
	return &statsService{store: store}
}

func (s *statsService) Summary(ctx context.Context) (Summary, error) {
	snap, err := s.store.Snapshot(ctx, recentSalesLimit)
	if err != nil {
		return Summary{}, storeError(err)
	}

	return Summary{
		TotalUsers:     snap.TotalUsers,
		AvailableItems: snap.AvailableItems,
		SoldItems:      snap.SoldItems,
		ExpiredItems:   snap.ExpiredItems,
		AverageBalance: snap.AverageBalance,
		RecentSales:    snap.RecentSales,
		GeneratedAt:    time.Now(),
	}, nil
}

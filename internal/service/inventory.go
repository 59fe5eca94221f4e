package service

import (
	"context"
	"strings"
	"time"

	"github.com/Behyna/streamstore/internal/config"
	"github.com/Behyna/streamstore/internal/ledger"
	"github.com/Behyna/streamstore/internal/metrics"
	"github.com/Behyna/streamstore/internal/model"
	"github.com/Behyna/streamstore/pkg/money"
	"go.uber.org/zap"
)

const DefaultItemPrice money.Amount = 2200

type InventoryService interface {
	AddItem(ctx context.Context, cmd AddItemCommand) (*model.InventoryItem, error)
	ListAvailable(ctx context.Context) ([]model.InventoryItem, error)
	ListAll(ctx context.Context) ([]model.InventoryItem, error)
	Sell(ctx context.Context, id int64, buyer string) (ledger.SaleResult, error)
	SweepExpired(ctx context.Context, today time.Time) (SweepResult, error)
	DefaultPrice() money.Amount
}

type inventoryService struct {
	store        ledger.Store
	defaultPrice money.Amount
	logger       *zap.Logger
	metrics      *metrics.Metrics
}

func NewInventoryService(store ledger.Store, cfg *config.Config, logger *zap.Logger,
	metrics *metrics.Metrics) InventoryService {
	price, err := money.Parse(cfg.Shop.DefaultPrice)
	if err != nil || !price.IsPositive() {
		logger.Warn("Invalid default price, using built-in default",
			zap.String("configured", cfg.Shop.DefaultPrice),
			zap.String("default", DefaultItemPrice.String()))
		price = DefaultItemPrice
	}

	return &inventoryService{store: store, defaultPrice: price, logger: logger, metrics: metrics}
}

func (s *inventoryService) DefaultPrice() money.Amount {
	return s.defaultPrice
}

func (s *inventoryService) AddItem(ctx context.Context, cmd AddItemCommand) (*model.InventoryItem, error) {
	platform := strings.TrimSpace(cmd.Platform)
	if platform == "" {
		return nil, validationError(ErrInvalidPlatform)
	}
	if cmd.Slot <= 0 {
		return nil, validationError(ErrInvalidSlot)
	}
	if _, err := time.Parse(model.DateLayout, cmd.ExpiresOn); err != nil {
		return nil, validationError(ErrInvalidExpiry)
	}
	if cmd.Price < 0 {
		return nil, validationError(ErrInvalidPrice)
	}

	price := cmd.Price
	if price == money.Zero {
		price = s.defaultPrice
	}

	item := &model.InventoryItem{
		Platform:  platform,
		Slot:      cmd.Slot,
		Email:     optional(cmd.Email),
		Password:  optional(cmd.Password),
		Price:     price,
		ExpiresOn: cmd.ExpiresOn,
	}

	if _, err := s.store.AddInventoryItem(ctx, item); err != nil {
		s.logger.Error("Failed to add inventory item",
			zap.String("platform", platform),
			zap.Int("slot", cmd.Slot),
			zap.Error(err))
		return nil, storeError(err)
	}

	s.logger.Info("Inventory item added",
		zap.Int64("itemID", item.ID),
		zap.String("platform", item.Platform),
		zap.Int("slot", item.Slot),
		zap.String("expiresOn", item.ExpiresOn),
		zap.String("price", item.Price.String()))

	return item, nil
}

func (s *inventoryService) ListAvailable(ctx context.Context) ([]model.InventoryItem, error) {
	items, err := s.store.ListAvailableInventory(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return items, nil
}

func (s *inventoryService) ListAll(ctx context.Context) ([]model.InventoryItem, error) {
	items, err := s.store.ListInventory(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return items, nil
}

func (s *inventoryService) Sell(ctx context.Context, id int64, buyer string) (ledger.SaleResult, error) {
	result, err := s.store.SellInventoryItem(ctx, id, buyer)
	if err != nil {
		return ledger.SaleResult{}, storeError(err)
	}
	return result, nil
}

// SweepExpired marks available items whose expiry date is before today as
// expired. Sold items are never touched.
func (s *inventoryService) SweepExpired(ctx context.Context, today time.Time) (SweepResult, error) {
	asOf := today.Format(model.DateLayout)

	count, err := s.store.ExpireOverdueInventory(ctx, asOf)
	if err != nil {
		s.logger.Error("Failed to sweep expired items", zap.String("asOf", asOf), zap.Error(err))
		return SweepResult{}, storeError(err)
	}

	s.metrics.RecordItemsExpired(count)
	if count > 0 {
		s.logger.Info("Expired items swept", zap.String("asOf", asOf), zap.Int64("count", count))
	}

	return SweepResult{AsOf: asOf, Expired: count}, nil
}

// GroupByPlatform groups items by platform, keeping the order in which each
// platform first appears and the order of items within it.
func GroupByPlatform(items []model.InventoryItem) []PlatformGroup {
	var groups []PlatformGroup
	index := make(map[string]int)

	for _, item := range items {
		i, ok := index[item.Platform]
		if !ok {
			i = len(groups)
			index[item.Platform] = i
			groups = append(groups, PlatformGroup{Platform: item.Platform})
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	return groups
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

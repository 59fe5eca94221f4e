package mocks

import (
	"context"
	"time"

	"github.com/Behyna/streamstore/internal/ledger"
	"github.com/Behyna/streamstore/internal/model"
	"github.com/Behyna/streamstore/internal/service"
	"github.com/Behyna/streamstore/pkg/money"
	"github.com/stretchr/testify/mock"
)

type InventoryService struct {
	mock.Mock
}

func (i *InventoryService) AddItem(ctx context.Context, cmd service.AddItemCommand) (*model.InventoryItem, error) {
	args := i.Called(ctx, cmd)
	item, _ := args.Get(0).(*model.InventoryItem)
	return item, args.Error(1)
}

func (i *InventoryService) ListAvailable(ctx context.Context) ([]model.InventoryItem, error) {
	args := i.Called(ctx)
	items, _ := args.Get(0).([]model.InventoryItem)
	return items, args.Error(1)
}

func (i *InventoryService) ListAll(ctx context.Context) ([]model.InventoryItem, error) {
	args := i.Called(ctx)
	items, _ := args.Get(0).([]model.InventoryItem)
	return items, args.Error(1)
}

func (i *InventoryService) Sell(ctx context.Context, id int64, buyer string) (ledger.SaleResult, error) {
	args := i.Called(ctx, id, buyer)
	return args.Get(0).(ledger.SaleResult), args.Error(1)
}

func (i *InventoryService) SweepExpired(ctx context.Context, today time.Time) (service.SweepResult, error) {
	args := i.Called(ctx, today)
	return args.Get(0).(service.SweepResult), args.Error(1)
}

func (i *InventoryService) DefaultPrice() money.Amount {
	return i.Called().Get(0).(money.Amount)
}

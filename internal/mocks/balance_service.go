package mocks

import (
	"context"

	"github.com/Behyna/streamstore/internal/model"
	"github.com/Behyna/streamstore/internal/service"
	"github.com/Behyna/streamstore/pkg/money"
	"github.com/stretchr/testify/mock"
)

type BalanceService struct {
	mock.Mock
}

func (b *BalanceService) AddBalance(ctx context.Context, cmd service.BalanceCommand) (service.BalanceResult, error) {
	args := b.Called(ctx, cmd)
	return args.Get(0).(service.BalanceResult), args.Error(1)
}

func (b *BalanceService) RemoveBalance(ctx context.Context, cmd service.BalanceCommand) (service.DebitOutcome, error) {
	args := b.Called(ctx, cmd)
	return args.Get(0).(service.DebitOutcome), args.Error(1)
}

func (b *BalanceService) GetBalance(ctx context.Context, phone string) (money.Amount, error) {
	args := b.Called(ctx, phone)
	return args.Get(0).(money.Amount), args.Error(1)
}

func (b *BalanceService) History(ctx context.Context, phone string) ([]model.Transaction, error) {
	args := b.Called(ctx, phone)
	txs, _ := args.Get(0).([]model.Transaction)
	return txs, args.Error(1)
}

func (b *BalanceService) Audit(ctx context.Context, phone string) (service.AuditResult, error) {
	args := b.Called(ctx, phone)
	return args.Get(0).(service.AuditResult), args.Error(1)
}

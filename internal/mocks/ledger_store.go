package mocks

import (
	"context"

	"github.com/Behyna/streamstore/internal/ledger"
	"github.com/Behyna/streamstore/internal/model"
	"github.com/Behyna/streamstore/pkg/money"
	"github.com/stretchr/testify/mock"
)

type LedgerStore struct {
	mock.Mock
}

func (l *LedgerStore) GetUser(ctx context.Context, phone string) (*model.User, error) {
	args := l.Called(ctx, phone)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (l *LedgerStore) CreateUserIfAbsent(ctx context.Context, phone, name string) (bool, error) {
	args := l.Called(ctx, phone, name)
	return args.Bool(0), args.Error(1)
}

func (l *LedgerStore) TouchLastInteraction(ctx context.Context, phone string) error {
	args := l.Called(ctx, phone)
	return args.Error(0)
}

func (l *LedgerStore) ListUsers(ctx context.Context) ([]model.User, error) {
	args := l.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (l *LedgerStore) ListUserPhones(ctx context.Context) ([]string, error) {
	args := l.Called(ctx)
	phones, _ := args.Get(0).([]string)
	return phones, args.Error(1)
}

func (l *LedgerStore) GetBalance(ctx context.Context, phone string) (money.Amount, error) {
	args := l.Called(ctx, phone)
	return args.Get(0).(money.Amount), args.Error(1)
}

func (l *LedgerStore) Credit(ctx context.Context, phone string, amount money.Amount, description string) (money.Amount, error) {
	args := l.Called(ctx, phone, amount, description)
	return args.Get(0).(money.Amount), args.Error(1)
}

func (l *LedgerStore) Debit(ctx context.Context, phone string, amount money.Amount, description string) (ledger.DebitResult, error) {
	args := l.Called(ctx, phone, amount, description)
	return args.Get(0).(ledger.DebitResult), args.Error(1)
}

func (l *LedgerStore) ListTransactions(ctx context.Context, phone string) ([]model.Transaction, error) {
	args := l.Called(ctx, phone)
	txs, _ := args.Get(0).([]model.Transaction)
	return txs, args.Error(1)
}

func (l *LedgerStore) LedgerSum(ctx context.Context, phone string) (money.Amount, error) {
	args := l.Called(ctx, phone)
	return args.Get(0).(money.Amount), args.Error(1)
}

func (l *LedgerStore) AddInventoryItem(ctx context.Context, item *model.InventoryItem) (int64, error) {
	args := l.Called(ctx, item)
	return args.Get(0).(int64), args.Error(1)
}

func (l *LedgerStore) ListAvailableInventory(ctx context.Context) ([]model.InventoryItem, error) {
	args := l.Called(ctx)
	items, _ := args.Get(0).([]model.InventoryItem)
	return items, args.Error(1)
}

func (l *LedgerStore) ListInventory(ctx context.Context) ([]model.InventoryItem, error) {
	args := l.Called(ctx)
	items, _ := args.Get(0).([]model.InventoryItem)
	return items, args.Error(1)
}

func (l *LedgerStore) GetInventoryItem(ctx context.Context, id int64) (*model.InventoryItem, error) {
	args := l.Called(ctx, id)
	item, _ := args.Get(0).(*model.InventoryItem)
	return item, args.Error(1)
}

func (l *LedgerStore) SellInventoryItem(ctx context.Context, id int64, buyer string) (ledger.SaleResult, error) {
	args := l.Called(ctx, id, buyer)
	return args.Get(0).(ledger.SaleResult), args.Error(1)
}

func (l *LedgerStore) ExpireOverdueInventory(ctx context.Context, asOf string) (int64, error) {
	args := l.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

func (l *LedgerStore) RecordPaymentProof(ctx context.Context, phone string, amount money.Amount, imageRef string) (int64, error) {
	args := l.Called(ctx, phone, amount, imageRef)
	return args.Get(0).(int64), args.Error(1)
}

func (l *LedgerStore) ListPendingProofs(ctx context.Context) ([]model.PaymentProof, error) {
	args := l.Called(ctx)
	proofs, _ := args.Get(0).([]model.PaymentProof)
	return proofs, args.Error(1)
}

func (l *LedgerStore) GetPaymentProof(ctx context.Context, id int64) (*model.PaymentProof, error) {
	args := l.Called(ctx, id)
	proof, _ := args.Get(0).(*model.PaymentProof)
	return proof, args.Error(1)
}

func (l *LedgerStore) DecidePaymentProof(ctx context.Context, id int64, status model.ProofStatus, note string) error {
	args := l.Called(ctx, id, status, note)
	return args.Error(0)
}

func (l *LedgerStore) GetConfig(ctx context.Context, key string) (string, bool, error) {
	args := l.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (l *LedgerStore) SetConfig(ctx context.Context, key, value string) error {
	args := l.Called(ctx, key, value)
	return args.Error(0)
}

func (l *LedgerStore) Snapshot(ctx context.Context, recentSales int) (ledger.Snapshot, error) {
	args := l.Called(ctx, recentSales)
	return args.Get(0).(ledger.Snapshot), args.Error(1)
}

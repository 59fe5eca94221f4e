package repository

import (
	"context"

	"github.com/Behyna/streamstore/internal/model"
	"github.com/Behyna/streamstore/pkg/money"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	ListByUser(ctx context.Context, phone string) ([]model.Transaction, error)
	SumByUser(ctx context.Context, phone string) (money.Amount, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (t *transactionRepository) Create(ctx context.Context, tx *model.Transaction) error {
	return GetTx(ctx, t.db).Create(tx).Error
}

func (t *transactionRepository) ListByUser(ctx context.Context, phone string) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := GetTx(ctx, t.db).Where("user_phone = ?", phone).
		Order("id DESC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (t *transactionRepository) SumByUser(ctx context.Context, phone string) (money.Amount, error) {
	var sum int64
	err := GetTx(ctx, t.db).Model(&model.Transaction{}).
		Where("user_phone = ?", phone).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&sum)
	if err != nil {
		return money.Zero, err
	}
	return money.Amount(sum), nil
}

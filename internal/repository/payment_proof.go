package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Behyna/streamstore/internal/model"
	"gorm.io/gorm"
)

var ErrProofNotFound = errors.New("PROOF_NOT_FOUND")

type PaymentProofRepository interface {
	Create(ctx context.Context, proof *model.PaymentProof) error
	GetByID(ctx context.Context, id int64) (*model.PaymentProof, error)
	ListPending(ctx context.Context) ([]model.PaymentProof, error)
	DecideIfPending(ctx context.Context, id int64, status model.ProofStatus, note string, at time.Time) (bool, error)
}

type paymentProofRepository struct {
	db *gorm.DB
}

func NewPaymentProofRepository(db *gorm.DB) PaymentProofRepository {
	return &paymentProofRepository{db: db}
}

func (r *paymentProofRepository) Create(ctx context.Context, proof *model.PaymentProof) error {
	return GetTx(ctx, r.db).Create(proof).Error
}

func (r *paymentProofRepository) GetByID(ctx context.Context, id int64) (*model.PaymentProof, error) {
	var proof model.PaymentProof
	err := GetTx(ctx, r.db).Where("id = ?", id).First(&proof).Error
	if err == nil {
		return &proof, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProofNotFound
	}

	return nil, err
}

func (r *paymentProofRepository) ListPending(ctx context.Context) ([]model.PaymentProof, error) {
	var proofs []model.PaymentProof
	err := GetTx(ctx, r.db).Preload("User").
		Where("status = ?", model.ProofStatusPending).
		Order("submitted_at DESC").
		Order("id DESC").
		Find(&proofs).Error
	if err != nil {
		return nil, err
	}
	return proofs, nil
}

func (r *paymentProofRepository) DecideIfPending(ctx context.Context, id int64, status model.ProofStatus, note string,
	at time.Time) (bool, error) {
	result := GetTx(ctx, r.db).Model(&model.PaymentProof{}).
		Where("id = ? AND status = ?", id, model.ProofStatusPending).
		Updates(map[string]interface{}{
			"status":       status,
			"note":         note,
			"processed_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

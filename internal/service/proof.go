package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Behyna/streamstore/internal/config"
	"github.com/Behyna/streamstore/internal/constants"
	"github.com/Behyna/streamstore/internal/ledger"
	"github.com/Behyna/streamstore/internal/metrics"
	"github.com/Behyna/streamstore/internal/model"
	"github.com/Behyna/streamstore/internal/repository"
	"github.com/Behyna/streamstore/internal/storage"
	"github.com/Behyna/streamstore/pkg/money"
	"go.uber.org/zap"
)

const defaultRejectNote = "invalid or unreadable proof"

type ProofService interface {
	Submit(ctx context.Context, cmd SubmitProofCommand) (*model.PaymentProof, error)
	ListPending(ctx context.Context) ([]model.PaymentProof, error)
	Approve(ctx context.Context, cmd ApproveProofCommand) (BalanceResult, error)
	Reject(ctx context.Context, cmd RejectProofCommand) error
	OpenImage(ctx context.Context, name string) (ProofImage, error)
}

type proofService struct {
	store     ledger.Store
	txManager repository.TxManager
	files     storage.ProofStore
	notifier  Notifier
	maxBytes  int64
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

func NewProofService(store ledger.Store, txManager repository.TxManager, files storage.ProofStore, notifier Notifier,
	cfg *config.Config, logger *zap.Logger, metrics *metrics.Metrics) ProofService {
	return &proofService{
		store:     store,
		txManager: txManager,
		files:     files,
		notifier:  notifier,
		maxBytes:  cfg.Storage.MaxUploadBytes,
		logger:    logger,
		metrics:   metrics,
	}
}

func (s *proofService) Submit(ctx context.Context, cmd SubmitProofCommand) (*model.PaymentProof, error) {
	if cmd.Amount < 0 {
		return nil, validationError(ErrInvalidAmount)
	}
	if len(cmd.Data) == 0 {
		return nil, validationError(ErrUnsupportedFile)
	}
	if s.maxBytes > 0 && int64(len(cmd.Data)) > s.maxBytes {
		return nil, validationError(ErrFileTooLarge)
	}

	contentType := cmd.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(cmd.Data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, validationError(ErrUnsupportedFile)
	}

	user, err := s.store.GetUser(ctx, cmd.Phone)
	if err != nil {
		return nil, storeError(err)
	}
	if user == nil {
		return nil, NewServiceError(constants.ErrCodeUserNotFound, ErrUserNotFound)
	}

	name, err := s.files.Save(cmd.Data, contentType)
	if err != nil {
		s.logger.Error("Failed to store payment proof image", zap.String("phone", cmd.Phone), zap.Error(err))
		return nil, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	id, err := s.store.RecordPaymentProof(ctx, cmd.Phone, cmd.Amount, name)
	if err != nil {
		s.logger.Error("Failed to record payment proof",
			zap.String("phone", cmd.Phone),
			zap.String("imageRef", name),
			zap.Error(err))
		if rmErr := s.files.Remove(name); rmErr != nil {
			s.logger.Warn("Failed to remove unrecorded proof image",
				zap.String("imageRef", name),
				zap.Error(rmErr))
		}
		return nil, storeError(err)
	}

	s.metrics.RecordProof(string(model.ProofStatusPending))
	s.logger.Info("Payment proof submitted",
		zap.Int64("proofID", id),
		zap.String("phone", cmd.Phone),
		zap.String("imageRef", name))

	proof, err := s.store.GetPaymentProof(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	return proof, nil
}

func (s *proofService) ListPending(ctx context.Context) ([]model.PaymentProof, error) {
	proofs, err := s.store.ListPendingProofs(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return proofs, nil
}

// Approve marks the proof approved and credits the user in one transaction.
// cmd.Amount overrides the amount recorded with the proof.
func (s *proofService) Approve(ctx context.Context, cmd ApproveProofCommand) (BalanceResult, error) {
	if cmd.Amount < 0 {
		return BalanceResult{}, validationError(ErrInvalidAmount)
	}

	proof, err := s.getProof(ctx, cmd.ID)
	if err != nil {
		return BalanceResult{}, err
	}

	amount := cmd.Amount
	if amount == money.Zero {
		amount = proof.Amount
	}
	if !amount.IsPositive() {
		return BalanceResult{}, validationError(ErrInvalidAmount)
	}

	var balance money.Amount
	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		note := fmt.Sprintf("approved amount: %s %s", constants.CurrencySymbol, amount)
		if err := s.store.DecidePaymentProof(ctx, proof.ID, model.ProofStatusApproved, note); err != nil {
			return err
		}

		var err error
		balance, err = s.store.Credit(ctx, proof.UserPhone, amount, fmt.Sprintf("top-up via payment proof #%d", proof.ID))
		return err
	})
	if err != nil {
		s.logger.Error("Failed to approve payment proof", zap.Int64("proofID", proof.ID), zap.Error(err))
		return BalanceResult{}, storeError(err)
	}

	s.metrics.RecordProof(string(model.ProofStatusApproved))
	s.logger.Info("Payment proof approved",
		zap.Int64("proofID", proof.ID),
		zap.String("phone", proof.UserPhone),
		zap.String("amount", amount.String()),
		zap.String("balance", balance.String()))

	s.notify(ctx, proof.UserPhone, fmt.Sprintf(
		"Your payment of %s %s was approved. New balance: %s %s",
		constants.CurrencySymbol, amount, constants.CurrencySymbol, balance))

	return BalanceResult{Phone: proof.UserPhone, Balance: balance}, nil
}

func (s *proofService) Reject(ctx context.Context, cmd RejectProofCommand) error {
	proof, err := s.getProof(ctx, cmd.ID)
	if err != nil {
		return err
	}

	note := strings.TrimSpace(cmd.Note)
	if note == "" {
		note = defaultRejectNote
	}

	if err := s.store.DecidePaymentProof(ctx, proof.ID, model.ProofStatusRejected, note); err != nil {
		return storeError(err)
	}

	s.metrics.RecordProof(string(model.ProofStatusRejected))
	s.logger.Info("Payment proof rejected", zap.Int64("proofID", proof.ID), zap.String("note", note))

	s.notify(ctx, proof.UserPhone, "Your payment proof was rejected: "+note)
	return nil
}

func (s *proofService) OpenImage(_ context.Context, name string) (ProofImage, error) {
	data, contentType, err := s.files.Open(name)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) || errors.Is(err, storage.ErrInvalidFileName) {
			return ProofImage{}, NewServiceError(constants.ErrCodeFileNotFound, err)
		}
		return ProofImage{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}
	return ProofImage{Data: data, ContentType: contentType}, nil
}

func (s *proofService) getProof(ctx context.Context, id int64) (*model.PaymentProof, error) {
	proof, err := s.store.GetPaymentProof(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if proof == nil {
		return nil, NewServiceError(constants.ErrCodeProofNotFound, ledger.ErrProofNotFound)
	}
	if proof.Status != model.ProofStatusPending {
		return nil, NewServiceError(constants.ErrCodeProofAlreadyDecided, ledger.ErrProofAlreadyDecided)
	}
	return proof, nil
}

func (s *proofService) notify(ctx context.Context, phone, text string) {
	if err := s.notifier.Notify(ctx, phone, text); err != nil {
		s.logger.Warn("Failed to notify user", zap.String("phone", phone), zap.Error(err))
	}
}

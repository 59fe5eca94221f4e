package service

import (
	"context"

	"github.com/Behyna/streamstore/internal/constants"
	"github.com/Behyna/streamstore/internal/ledger"
	"github.com/Behyna/streamstore/internal/metrics"
	"github.com/Behyna/streamstore/internal/model"
	"github.com/Behyna/streamstore/pkg/money"
	"go.uber.org/zap"
)

type BalanceService interface {
	AddBalance(ctx context.Context, cmd BalanceCommand) (BalanceResult, error)
	RemoveBalance(ctx context.Context, cmd BalanceCommand) (DebitOutcome, error)
	GetBalance(ctx context.Context, phone string) (money.Amount, error)
	History(ctx context.Context, phone string) ([]model.Transaction, error)
	Audit(ctx context.Context, phone string) (AuditResult, error)
}

type balanceService struct {
	store   ledger.Store
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewBalanceService(store ledger.Store, logger *zap.Logger, metrics *metrics.Metrics) BalanceService {
	return &balanceService{store: store, logger: logger, metrics: metrics}
}

func (s *balanceService) AddBalance(ctx context.Context, cmd BalanceCommand) (BalanceResult, error) {
	if !cmd.Amount.IsPositive() {
		return BalanceResult{}, validationError(ErrInvalidAmount)
	}

	balance, err := s.store.Credit(ctx, cmd.Phone, cmd.Amount, cmd.Description)
	if err != nil {
		s.logger.Error("Failed to credit balance",
			zap.String("phone", cmd.Phone),
			zap.Int64("amount", int64(cmd.Amount)),
			zap.Error(err))
		s.metrics.RecordBalanceOperation("credit", "error")
		return BalanceResult{}, storeError(err)
	}

	s.metrics.RecordBalanceOperation("credit", "success")
	s.logger.Info("Balance credited",
		zap.String("phone", cmd.Phone),
		zap.String("amount", cmd.Amount.String()),
		zap.String("balance", balance.String()),
		zap.String("description", cmd.Description))

	return BalanceResult{Phone: cmd.Phone, Balance: balance}, nil
}

func (s *balanceService) RemoveBalance(ctx context.Context, cmd BalanceCommand) (DebitOutcome, error) {
	if !cmd.Amount.IsPositive() {
		return DebitOutcome{}, validationError(ErrInvalidAmount)
	}

	result, err := s.store.Debit(ctx, cmd.Phone, cmd.Amount, cmd.Description)
	if err != nil {
		s.logger.Error("Failed to debit balance",
			zap.String("phone", cmd.Phone),
			zap.Int64("amount", int64(cmd.Amount)),
			zap.Error(err))
		s.metrics.RecordBalanceOperation("debit", "error")
		return DebitOutcome{}, storeError(err)
	}

	if !result.Succeeded {
		user, err := s.store.GetUser(ctx, cmd.Phone)
		if err != nil {
			return DebitOutcome{}, storeError(err)
		}
		if user == nil {
			return DebitOutcome{}, NewServiceError(constants.ErrCodeUserNotFound, ErrUserNotFound)
		}

		s.metrics.RecordBalanceOperation("debit", result.Reason)
		s.logger.Debug("Debit rejected",
			zap.String("phone", cmd.Phone),
			zap.String("reason", result.Reason),
			zap.String("balance", result.Balance.String()))
		return DebitOutcome{Succeeded: false, Balance: result.Balance, Required: cmd.Amount}, nil
	}

	s.metrics.RecordBalanceOperation("debit", "success")
	s.logger.Info("Balance debited",
		zap.String("phone", cmd.Phone),
		zap.String("amount", cmd.Amount.String()),
		zap.String("balance", result.Balance.String()),
		zap.String("description", cmd.Description))

	return DebitOutcome{Succeeded: true, Balance: result.Balance, Required: cmd.Amount}, nil
}

func (s *balanceService) GetBalance(ctx context.Context, phone string) (money.Amount, error) {
	balance, err := s.store.GetBalance(ctx, phone)
	if err != nil {
		return money.Zero, storeError(err)
	}
	return balance, nil
}

func (s *balanceService) History(ctx context.Context, phone string) ([]model.Transaction, error) {
	user, err := s.store.GetUser(ctx, phone)
	if err != nil {
		return nil, storeError(err)
	}
	if user == nil {
		return nil, NewServiceError(constants.ErrCodeUserNotFound, ErrUserNotFound)
	}

	txs, err := s.store.ListTransactions(ctx, phone)
	if err != nil {
		return nil, storeError(err)
	}
	return txs, nil
}

// Audit compares the stored balance against the sum of the user's ledger
// entries. The two must always be equal.
func (s *balanceService) Audit(ctx context.Context, phone string) (AuditResult, error) {
	user, err := s.store.GetUser(ctx, phone)
	if err != nil {
		return AuditResult{}, storeError(err)
	}
	if user == nil {
		return AuditResult{}, NewServiceError(constants.ErrCodeUserNotFound, ErrUserNotFound)
	}

	sum, err := s.store.LedgerSum(ctx, phone)
	if err != nil {
		return AuditResult{}, storeError(err)
	}

	result := AuditResult{
		Phone:      phone,
		Balance:    user.Balance,
		LedgerSum:  sum,
		Consistent: user.Balance == sum,
	}
	if !result.Consistent {
		s.logger.Error("Ledger mismatch",
			zap.String("phone", phone),
			zap.String("balance", user.Balance.String()),
			zap.String("ledger_sum", sum.String()))
	}

	return result, nil
}

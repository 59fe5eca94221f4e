package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Behyna/streamstore/internal/constants"
	"github.com/Behyna/streamstore/internal/ledger"
	"github.com/Behyna/streamstore/internal/mocks"
	"github.com/Behyna/streamstore/internal/model"
	"github.com/Behyna/streamstore/internal/service"
	"github.com/Behyna/streamstore/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBalance_AddBalance(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("Non-positive amount is rejected without touching the store", func(t *testing.T) {
		store := &mocks.LedgerStore{}
		svc := service.NewBalanceService(store, logger, newTestMetrics())

		for _, amount := range []money.Amount{0, -100} {
			_, err := svc.AddBalance(ctx, service.BalanceCommand{Phone: "1", Amount: amount})

			var serviceErr service.Error
			require.True(t, errors.As(err, &serviceErr))
			assert.Equal(t, constants.ErrCodeValidationFailed, serviceErr.Code)
			assert.ErrorIs(t, err, service.ErrInvalidAmount)
		}
		store.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Successful credit returns new balance", func(t *testing.T) {
		store := &mocks.LedgerStore{}
		svc := service.NewBalanceService(store, logger, newTestMetrics())

		store.On("Credit", ctx, "1", money.Amount(3000), "top-up").Return(money.Amount(4500), nil)

		result, err := svc.AddBalance(ctx, service.BalanceCommand{Phone: "1", Amount: 3000, Description: "top-up"})

		require.NoError(t, err)
		assert.Equal(t, service.BalanceResult{Phone: "1", Balance: 4500}, result)
		store.AssertExpectations(t)
	})

	t.Run("Unknown user maps to USER_NOT_FOUND", func(t *testing.T) {
		store := &mocks.LedgerStore{}
		svc := service.NewBalanceService(store, logger, newTestMetrics())

		store.On("Credit", ctx, "404", money.Amount(100), "").Return(money.Zero, ledger.ErrUserNotFound)

		_, err := svc.AddBalance(ctx, service.BalanceCommand{Phone: "404", Amount: 100})

		var serviceErr service.Error
		require.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeUserNotFound, serviceErr.Code)
	})

	t.Run("Persistence failure maps to OPERATION_FAILED", func(t *testing.T) {
		store := &mocks.LedgerStore{}
		svc := service.NewBalanceService(store, logger, newTestMetrics())

		store.On("Credit", ctx, "1", money.Amount(100), "").
			Return(money.Zero, errors.Join(ledger.ErrPersistence, errors.New("disk full")))

		_, err := svc.AddBalance(ctx, service.BalanceCommand{Phone: "1", Amount: 100})

		var serviceErr service.Error
		require.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeOperationFailed, serviceErr.Code)
		assert.ErrorIs(t, err, ledger.ErrPersistence)
	})
}

func TestBalance_RemoveBalance(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("Insufficient funds is an outcome, not an error", func(t *testing.T) {
		store := &mocks.LedgerStore{}
		svc := service.NewBalanceService(store, logger, newTestMetrics())

		store.On("Debit", ctx, "1", money.Amount(5000), "adjust").
			Return(ledger.DebitResult{Succeeded: false, Reason: ledger.ReasonInsufficientFunds, Balance: 1000}, nil)
		store.On("GetUser", ctx, "1").Return(&model.User{Phone: "1", Balance: 1000}, nil)

		outcome, err := svc.RemoveBalance(ctx, service.BalanceCommand{Phone: "1", Amount: 5000, Description: "adjust"})

		require.NoError(t, err)
		assert.False(t, outcome.Succeeded)
		assert.Equal(t, money.Amount(1000), outcome.Balance)
		assert.Equal(t, money.Amount(5000), outcome.Required)
		store.AssertExpectations(t)
	})

	t.Run("Unknown user is reported as not found", func(t *testing.T) {
		store := &mocks.LedgerStore{}
		svc := service.NewBalanceService(store, logger, newTestMetrics())

		store.On("Debit", ctx, "404", money.Amount(100), "").
			Return(ledger.DebitResult{Succeeded: false, Reason: ledger.ReasonInsufficientFunds}, nil)
		store.On("GetUser", ctx, "404").Return(nil, nil)

		_, err := svc.RemoveBalance(ctx, service.BalanceCommand{Phone: "404", Amount: 100})

		var serviceErr service.Error
		require.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeUserNotFound, serviceErr.Code)
	})

	t.Run("Successful debit", func(t *testing.T) {
		store := &mocks.LedgerStore{}
		svc := service.NewBalanceService(store, logger, newTestMetrics())

		store.On("Debit", ctx, "1", money.Amount(100), "").
			Return(ledger.DebitResult{Succeeded: true, Balance: 900}, nil)

		outcome, err := svc.RemoveBalance(ctx, service.BalanceCommand{Phone: "1", Amount: 100})

		require.NoError(t, err)
		assert.True(t, outcome.Succeeded)
		assert.Equal(t, money.Amount(900), outcome.Balance)
		store.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	})
}

func TestBalance_Scenarios(t *testing.T) {
	ctx := context.Background()

	t.Run("Debit on empty balance leaves it at zero", func(t *testing.T) {
		env := newTestEnv(t)
		env.user(t, "1", 0)
		svc := service.NewBalanceService(env.store, env.logger, env.metrics)

		outcome, err := svc.RemoveBalance(ctx, service.BalanceCommand{Phone: "1", Amount: 5000})

		require.NoError(t, err)
		assert.False(t, outcome.Succeeded)
		env.assertBalance(t, "1", 0)
	})

	t.Run("Credit then debit of the same amount", func(t *testing.T) {
		env := newTestEnv(t)
		env.user(t, "1", 0)
		svc := service.NewBalanceService(env.store, env.logger, env.metrics)

		_, err := svc.AddBalance(ctx, service.BalanceCommand{Phone: "1", Amount: 3000, Description: "top-up"})
		require.NoError(t, err)
		outcome, err := svc.RemoveBalance(ctx, service.BalanceCommand{Phone: "1", Amount: 3000, Description: "adjust"})
		require.NoError(t, err)
		assert.True(t, outcome.Succeeded)

		history, err := svc.History(ctx, "1")
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, money.Amount(-3000), history[0].Amount)
		assert.Equal(t, money.Amount(3000), history[1].Amount)

		audit, err := svc.Audit(ctx, "1")
		require.NoError(t, err)
		assert.True(t, audit.Consistent)
		assert.Equal(t, money.Zero, audit.Balance)
		env.assertBalance(t, "1", 0)
	})

	t.Run("History and audit of unknown user", func(t *testing.T) {
		env := newTestEnv(t)
		svc := service.NewBalanceService(env.store, env.logger, env.metrics)

		_, err := svc.History(ctx, "404")
		var serviceErr service.Error
		require.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeUserNotFound, serviceErr.Code)

		_, err = svc.Audit(ctx, "404")
		require.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeUserNotFound, serviceErr.Code)

		balance, err := svc.GetBalance(ctx, "404")
		require.NoError(t, err)
		assert.Equal(t, money.Zero, balance)
	})
}

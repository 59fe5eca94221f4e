package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Behyna/streamstore/internal/constants"
	"github.com/Behyna/streamstore/internal/mocks"
	"github.com/Behyna/streamstore/internal/model"
	"github.com/Behyna/streamstore/internal/service"
	"github.com/Behyna/streamstore/internal/storage"
	"github.com/Behyna/streamstore/pkg/money"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")

func newProofService(t *testing.T, env *testEnv, notifier service.Notifier) service.ProofService {
	t.Helper()

	files, err := storage.NewFileStore(afero.NewMemMapFs(), env.cfg.Storage.UploadDir)
	require.NoError(t, err)
	return service.NewProofService(env.store, env.txManager, files, notifier, env.cfg, env.logger, env.metrics)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()

	var serviceErr service.Error
	require.True(t, errors.As(err, &serviceErr), "expected service error, got %v", err)
	assert.Equal(t, code, serviceErr.Code)
}

func TestProof_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("Image is stored and recorded as pending", func(t *testing.T) {
		env := newTestEnv(t)
		env.user(t, "1", 0)
		svc := newProofService(t, env, &mocks.Notifier{})

		proof, err := svc.Submit(ctx, service.SubmitProofCommand{Phone: "1", Data: pngBytes})

		require.NoError(t, err)
		assert.Equal(t, model.ProofStatusPending, proof.Status)
		assert.Equal(t, money.Zero, proof.Amount)

		image, err := svc.OpenImage(ctx, proof.ImageRef)
		require.NoError(t, err)
		assert.Equal(t, "image/png", image.ContentType)
		assert.Equal(t, pngBytes, image.Data)

		pending, err := svc.ListPending(ctx)
		require.NoError(t, err)
		assert.Len(t, pending, 1)
	})

	t.Run("Rejected uploads", func(t *testing.T) {
		env := newTestEnv(t)
		env.user(t, "1", 0)
		svc := newProofService(t, env, &mocks.Notifier{})

		_, err := svc.Submit(ctx, service.SubmitProofCommand{Phone: "1", Data: []byte("%PDF-1.4"), ContentType: "application/pdf"})
		assertCode(t, err, constants.ErrCodeValidationFailed)
		assert.ErrorIs(t, err, service.ErrUnsupportedFile)

		_, err = svc.Submit(ctx, service.SubmitProofCommand{Phone: "1", Data: make([]byte, 2048), ContentType: "image/png"})
		assert.ErrorIs(t, err, service.ErrFileTooLarge)

		_, err = svc.Submit(ctx, service.SubmitProofCommand{Phone: "404", Data: pngBytes})
		assertCode(t, err, constants.ErrCodeUserNotFound)
	})

	t.Run("Missing image", func(t *testing.T) {
		env := newTestEnv(t)
		svc := newProofService(t, env, &mocks.Notifier{})

		_, err := svc.OpenImage(ctx, "nope.png")
		assertCode(t, err, constants.ErrCodeFileNotFound)
	})

	t.Run("Stored image is removed when recording fails", func(t *testing.T) {
		env := newTestEnv(t)
		store := &mocks.LedgerStore{}
		fs := afero.NewMemMapFs()
		files, err := storage.NewFileStore(fs, env.cfg.Storage.UploadDir)
		require.NoError(t, err)
		svc := service.NewProofService(store, env.txManager, files, &mocks.Notifier{}, env.cfg, env.logger, env.metrics)

		store.On("GetUser", ctx, "1").Return(&model.User{Phone: "1"}, nil)
		store.On("RecordPaymentProof", ctx, "1", money.Zero, mock.AnythingOfType("string")).
			Return(int64(0), errors.New("database is locked"))

		_, err = svc.Submit(ctx, service.SubmitProofCommand{Phone: "1", Data: pngBytes})

		assertCode(t, err, constants.ErrCodeOperationFailed)
		entries, err := afero.ReadDir(fs, env.cfg.Storage.UploadDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
		store.AssertExpectations(t)
	})
}

func TestProof_Decide(t *testing.T) {
	ctx := context.Background()

	t.Run("Approve credits the user and notifies", func(t *testing.T) {
		env := newTestEnv(t)
		env.user(t, "1", 1000)
		notifier := &mocks.Notifier{}
		svc := newProofService(t, env, notifier)

		notifier.On("Notify", ctx, "1", mock.MatchedBy(func(text string) bool {
			return assert.Contains(t, text, "R$ 30.00") && assert.Contains(t, text, "R$ 40.00")
		})).Return(nil)

		proof, err := svc.Submit(ctx, service.SubmitProofCommand{Phone: "1", Data: pngBytes})
		require.NoError(t, err)

		result, err := svc.Approve(ctx, service.ApproveProofCommand{ID: proof.ID, Amount: 3000})

		require.NoError(t, err)
		assert.Equal(t, money.Amount(4000), result.Balance)
		env.assertBalance(t, "1", 4000)

		stored, err := env.store.GetPaymentProof(ctx, proof.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ProofStatusApproved, stored.Status)
		require.NotNil(t, stored.Note)
		assert.Equal(t, "approved amount: R$ 30.00", *stored.Note)

		txs, err := env.store.ListTransactions(ctx, "1")
		require.NoError(t, err)
		assert.Contains(t, txs[0].Description, "payment proof #")

		_, err = svc.Approve(ctx, service.ApproveProofCommand{ID: proof.ID, Amount: 3000})
		assertCode(t, err, constants.ErrCodeProofAlreadyDecided)
		env.assertBalance(t, "1", 4000)
		notifier.AssertExpectations(t)
	})

	t.Run("Approve without any amount is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		env.user(t, "1", 0)
		notifier := &mocks.Notifier{}
		svc := newProofService(t, env, notifier)

		proof, err := svc.Submit(ctx, service.SubmitProofCommand{Phone: "1", Data: pngBytes})
		require.NoError(t, err)

		_, err = svc.Approve(ctx, service.ApproveProofCommand{ID: proof.ID})
		assertCode(t, err, constants.ErrCodeValidationFailed)
		env.assertBalance(t, "1", 0)
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Notification failure does not undo the approval", func(t *testing.T) {
		env := newTestEnv(t)
		env.user(t, "1", 0)
		notifier := &mocks.Notifier{}
		svc := newProofService(t, env, notifier)

		notifier.On("Notify", ctx, "1", mock.Anything).Return(errors.New("offline"))

		proof, err := svc.Submit(ctx, service.SubmitProofCommand{Phone: "1", Amount: 2200, Data: pngBytes})
		require.NoError(t, err)

		result, err := svc.Approve(ctx, service.ApproveProofCommand{ID: proof.ID})
		require.NoError(t, err)
		assert.Equal(t, money.Amount(2200), result.Balance)
	})

	t.Run("Reject uses default note", func(t *testing.T) {
		env := newTestEnv(t)
		env.user(t, "1", 0)
		notifier := &mocks.Notifier{}
		svc := newProofService(t, env, notifier)

		notifier.On("Notify", ctx, "1", "Your payment proof was rejected: invalid or unreadable proof").Return(nil)

		proof, err := svc.Submit(ctx, service.SubmitProofCommand{Phone: "1", Data: pngBytes})
		require.NoError(t, err)

		require.NoError(t, svc.Reject(ctx, service.RejectProofCommand{ID: proof.ID}))

		stored, err := env.store.GetPaymentProof(ctx, proof.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ProofStatusRejected, stored.Status)
		env.assertBalance(t, "1", 0)

		assertCode(t, svc.Reject(ctx, service.RejectProofCommand{ID: 999}), constants.ErrCodeProofNotFound)
		notifier.AssertExpectations(t)
	})
}

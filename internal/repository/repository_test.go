package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Behyna/streamstore/internal/model"
	"github.com/Behyna/streamstore/internal/repository"
	"github.com/Behyna/streamstore/pkg/database"
	"github.com/Behyna/streamstore/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewConnection(context.Background(),
		database.Config{Driver: database.DriverSQLite, Path: ":memory:", LogLevel: "silent"}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create if absent reports whether a row was inserted", func(t *testing.T) {
		repo := repository.NewUserRepository(newTestDB(t))

		created, err := repo.CreateIfAbsent(ctx, &model.User{Phone: "5511999990000", Name: "Ana"})
		require.NoError(t, err)
		assert.True(t, created)

		created, err = repo.CreateIfAbsent(ctx, &model.User{Phone: "5511999990000", Name: "Other"})
		require.NoError(t, err)
		assert.False(t, created)

		user, err := repo.GetByPhone(ctx, "5511999990000")
		require.NoError(t, err)
		assert.Equal(t, "Ana", user.Name)
		assert.Equal(t, money.Zero, user.Balance)
	})

	t.Run("missing user", func(t *testing.T) {
		repo := repository.NewUserRepository(newTestDB(t))

		_, err := repo.GetByPhone(ctx, "1")
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
		assert.ErrorIs(t, repo.IncreaseBalance(ctx, "1", 100), repository.ErrUserNotFound)
	})

	t.Run("conditional decrease never goes negative", func(t *testing.T) {
		repo := repository.NewUserRepository(newTestDB(t))
		_, err := repo.CreateIfAbsent(ctx, &model.User{Phone: "1", Name: "A"})
		require.NoError(t, err)
		require.NoError(t, repo.IncreaseBalance(ctx, "1", 1000))

		ok, err := repo.DecreaseBalanceIfSufficient(ctx, "1", 1001)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = repo.DecreaseBalanceIfSufficient(ctx, "1", 1000)
		require.NoError(t, err)
		assert.True(t, ok)

		user, err := repo.GetByPhone(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, money.Zero, user.Balance)
	})

	t.Run("list, count and average", func(t *testing.T) {
		repo := repository.NewUserRepository(newTestDB(t))
		for _, u := range []model.User{{Phone: "2", Name: "Bruno"}, {Phone: "1", Name: "Ana"}} {
			u := u
			_, err := repo.CreateIfAbsent(ctx, &u)
			require.NoError(t, err)
		}
		require.NoError(t, repo.IncreaseBalance(ctx, "1", 1000))

		users, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "Ana", users[0].Name)

		phones, err := repo.ListPhones(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2"}, phones)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		avg, err := repo.AverageBalance(ctx)
		require.NoError(t, err)
		assert.Equal(t, money.Amount(500), avg)
	})
}

func TestInventoryRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("mark sold succeeds once", func(t *testing.T) {
		db := newTestDB(t)
		users := repository.NewUserRepository(db)
		repo := repository.NewInventoryRepository(db)

		_, err := users.CreateIfAbsent(ctx, &model.User{Phone: "1", Name: "A"})
		require.NoError(t, err)

		item := model.InventoryItem{Platform: "netflix", Slot: 1, Price: 2200, Status: model.ItemStatusAvailable,
			ExpiresOn: "2099-01-01"}
		require.NoError(t, repo.Create(ctx, &item))

		ok, err := repo.MarkSold(ctx, item.ID, "1", time.Now())
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.MarkSold(ctx, item.ID, "1", time.Now())
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := repo.GetByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ItemStatusSold, got.Status)
		require.NotNil(t, got.Owner)
		assert.Equal(t, "1", *got.Owner)
		assert.NotNil(t, got.SoldAt)

		sales, err := repo.RecentSales(ctx, 10)
		require.NoError(t, err)
		require.Len(t, sales, 1)
		require.NotNil(t, sales[0].Buyer)
		assert.Equal(t, "A", sales[0].Buyer.Name)
	})

	t.Run("available listing is ordered by platform then slot", func(t *testing.T) {
		repo := repository.NewInventoryRepository(newTestDB(t))
		for _, it := range []model.InventoryItem{
			{Platform: "prime", Slot: 2},
			{Platform: "netflix", Slot: 3},
			{Platform: "netflix", Slot: 1},
		} {
			it := it
			it.Price, it.Status, it.ExpiresOn = 2200, model.ItemStatusAvailable, "2099-01-01"
			require.NoError(t, repo.Create(ctx, &it))
		}

		items, err := repo.ListAvailable(ctx)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "netflix", items[0].Platform)
		assert.Equal(t, 1, items[0].Slot)
		assert.Equal(t, 3, items[1].Slot)
		assert.Equal(t, "prime", items[2].Platform)
	})

	t.Run("missing item", func(t *testing.T) {
		repo := repository.NewInventoryRepository(newTestDB(t))
		_, err := repo.GetByID(ctx, 42)
		assert.ErrorIs(t, err, repository.ErrItemNotFound)
	})
}

func TestPaymentProofRepository_DecideIfPending(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	repo := repository.NewPaymentProofRepository(db)

	_, err := users.CreateIfAbsent(ctx, &model.User{Phone: "1", Name: "A"})
	require.NoError(t, err)

	proof := model.PaymentProof{UserPhone: "1", ImageRef: "a.png", Status: model.ProofStatusPending}
	require.NoError(t, repo.Create(ctx, &proof))

	pending, err := repo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.NotNil(t, pending[0].User)
	assert.Equal(t, "A", pending[0].User.Name)

	ok, err := repo.DecideIfPending(ctx, proof.ID, model.ProofStatusRejected, "blurry", time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DecideIfPending(ctx, proof.ID, model.ProofStatusApproved, "", time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByID(ctx, proof.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProofStatusRejected, got.Status)
	require.NotNil(t, got.Note)
	assert.Equal(t, "blurry", *got.Note)
}

func TestSettingRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSettingRepository(newTestDB(t))

	_, err := repo.Get(ctx, "greeting_template")
	assert.ErrorIs(t, err, repository.ErrSettingNotFound)

	require.NoError(t, repo.Set(ctx, "greeting_template", "hi"))
	require.NoError(t, repo.Set(ctx, "greeting_template", "hello"))

	value, err := repo.Get(ctx, "greeting_template")
	require.NoError(t, err)
	assert.Equal(t, "hello", value)
}

func TestTransactionManager_WithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("rolls back every write on error", func(t *testing.T) {
		db := newTestDB(t)
		tm := repository.NewTransactionManager(db)
		users := repository.NewUserRepository(db)
		txs := repository.NewTransactionRepository(db)

		_, err := users.CreateIfAbsent(ctx, &model.User{Phone: "1", Name: "A"})
		require.NoError(t, err)

		boom := errors.New("boom")
		err = tm.WithTx(ctx, func(ctx context.Context) error {
			require.NoError(t, users.IncreaseBalance(ctx, "1", 500))
			require.NoError(t, txs.Create(ctx, &model.Transaction{UserPhone: "1", Amount: 500,
				Kind: model.TransactionKindCredit}))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		user, err := users.GetByPhone(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, money.Zero, user.Balance)

		sum, err := txs.SumByUser(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, money.Zero, sum)
	})

	t.Run("nested calls join the outer transaction", func(t *testing.T) {
		db := newTestDB(t)
		tm := repository.NewTransactionManager(db)
		users := repository.NewUserRepository(db)

		_, err := users.CreateIfAbsent(ctx, &model.User{Phone: "1", Name: "A"})
		require.NoError(t, err)

		err = tm.WithTx(ctx, func(ctx context.Context) error {
			if err := tm.WithTx(ctx, func(ctx context.Context) error {
				return users.IncreaseBalance(ctx, "1", 500)
			}); err != nil {
				return err
			}
			return errors.New("outer failure")
		})
		assert.Error(t, err)

		user, err := users.GetByPhone(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, money.Zero, user.Balance)
	})

	t.Run("cancelled caller does not abort the transaction", func(t *testing.T) {
		db := newTestDB(t)
		tm := repository.NewTransactionManager(db)
		users := repository.NewUserRepository(db)

		_, err := users.CreateIfAbsent(ctx, &model.User{Phone: "1", Name: "A"})
		require.NoError(t, err)

		callerCtx, cancel := context.WithCancel(ctx)
		err = tm.WithTx(callerCtx, func(txCtx context.Context) error {
			cancel()
			return users.IncreaseBalance(txCtx, "1", 700)
		})
		require.NoError(t, err)

		user, err := users.GetByPhone(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, money.Amount(700), user.Balance)
	})
}

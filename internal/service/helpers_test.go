package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/Behyna/streamstore/internal/config"
	"github.com/Behyna/streamstore/internal/ledger"
	"github.com/Behyna/streamstore/internal/metrics"
	"github.com/Behyna/streamstore/internal/model"
	"github.com/Behyna/streamstore/internal/repository"
	"github.com/Behyna/streamstore/pkg/database"
	"github.com/Behyna/streamstore/pkg/money"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	store     ledger.Store
	txManager repository.TxManager
	cfg       *config.Config
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func testConfig() *config.Config {
	return &config.Config{
		Purchase: config.Purchase{Mode: config.PurchaseModeAtomic},
		Storage:  config.Storage{UploadDir: "uploads", MaxUploadBytes: 1024},
		Notifier: config.Notifier{MaxRetry: 3, Timeout: time.Second, BroadcastConcurrency: 4},
		Shop: config.Shop{
			DefaultPrice:  "22.00",
			PaymentKey:    "store@pix.example.com",
			PaymentType:   "email",
			PaymentHolder: "Stream Store",
			GreetAfter:    24 * time.Hour,
		},
	}
}

func newTestMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.NewRegistry())
}

func newTestEnv(t *testing.T) *testEnv {
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

	txManager := repository.NewTransactionManager(db)
	store := ledger.NewStore(
		txManager,
		repository.NewUserRepository(db),
		repository.NewTransactionRepository(db),
		repository.NewInventoryRepository(db),
		repository.NewPaymentProofRepository(db),
		repository.NewSettingRepository(db),
	)

	return &testEnv{
		store:     store,
		txManager: txManager,
		cfg:       testConfig(),
		metrics:   newTestMetrics(),
		logger:    zap.NewNop(),
	}
}

func (e *testEnv) user(t *testing.T, phone string, balance money.Amount) {
	t.Helper()
	ctx := context.Background()

	_, err := e.store.CreateUserIfAbsent(ctx, phone, "Customer")
	require.NoError(t, err)
	if balance > 0 {
		_, err = e.store.Credit(ctx, phone, balance, "top-up")
		require.NoError(t, err)
	}
}

func (e *testEnv) item(t *testing.T, platform string, price money.Amount) int64 {
	t.Helper()

	id, err := e.store.AddInventoryItem(context.Background(), &model.InventoryItem{
		Platform:  platform,
		Slot:      1,
		Price:     price,
		ExpiresOn: "2099-01-01",
	})
	require.NoError(t, err)
	return id
}

func (e *testEnv) assertBalance(t *testing.T, phone string, want money.Amount) {
	t.Helper()
	ctx := context.Background()

	balance, err := e.store.GetBalance(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, want, balance)

	sum, err := e.store.LedgerSum(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, balance, sum, "balance must equal the ledger sum")
}

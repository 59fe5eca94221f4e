package chat_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Behyna/streamstore/internal/auth"
	"github.com/Behyna/streamstore/internal/chat"
	"github.com/Behyna/streamstore/internal/config"
	"github.com/Behyna/streamstore/internal/constants"
	"github.com/Behyna/streamstore/internal/ledger"
	"github.com/Behyna/streamstore/internal/metrics"
	"github.com/Behyna/streamstore/internal/model"
	"github.com/Behyna/streamstore/internal/repository"
	"github.com/Behyna/streamstore/internal/service"
	"github.com/Behyna/streamstore/internal/storage"
	"github.com/Behyna/streamstore/pkg/database"
	"github.com/Behyna/streamstore/pkg/money"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	adminPhone    = "5511999999999"
	customerPhone = "5511888888888"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")

type chatEnv struct {
	router *chat.Router
	store  ledger.Store
	tokens *auth.TokenIssuer
	params chat.RouterParams
}

func testConfig() *config.Config {
	return &config.Config{
		API:      config.API{PublicURL: "http://localhost:8080/"},
		Admin:    config.Admin{Numbers: []string{"+55 11 99999-9999"}, PIN: "4321", JWTSecret: "test-secret"},
		Purchase: config.Purchase{Mode: config.PurchaseModeAtomic},
		Storage:  config.Storage{UploadDir: "uploads", MaxUploadBytes: 1024},
		Notifier: config.Notifier{MaxRetry: 1, Timeout: time.Second, BroadcastConcurrency: 2},
		Shop: config.Shop{
			DefaultPrice:  "22.00",
			PaymentKey:    "store@pix.example.com",
			PaymentType:   "email",
			PaymentHolder: "Stream Store",
			GreetAfter:    24 * time.Hour,
		},
	}
}

func newChatEnv(t *testing.T) *chatEnv {
	t.Helper()

	cfg := testConfig()
	logger := zap.NewNop()
	m := metrics.NewMetrics(prometheus.NewRegistry())

	db, err := database.NewConnection(context.Background(),
		database.Config{Driver: database.DriverSQLite, Path: ":memory:", LogLevel: "silent"}, logger)
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

	files, err := storage.NewFileStore(afero.NewMemMapFs(), cfg.Storage.UploadDir)
	require.NoError(t, err)

	admins := auth.NewAdminList(cfg)
	tokens := auth.NewTokenIssuer(cfg, admins)
	notifier := service.NewNotifier(service.NewLogSender(logger), cfg, logger, m)
	balance := service.NewBalanceService(store, logger, m)
	inventory := service.NewInventoryService(store, cfg, logger, m)
	users := service.NewUserService(store, cfg, logger)
	settings := service.NewSettingsService(store, cfg, logger)

	commands := chat.AdminCommandsParams{
		Config:    cfg,
		Admins:    admins,
		Tokens:    tokens,
		Users:     users,
		Balance:   balance,
		Inventory: inventory,
		Settings:  settings,
		Stats:     service.NewStatsService(store),
		Broadcast: service.NewBroadcastService(store, notifier, cfg, logger, m),
		Logger:    logger,
	}

	params := chat.RouterParams{
		Admins:    admins,
		Commands:  chat.NewAdminCommands(commands),
		Users:     users,
		Balance:   balance,
		Inventory: inventory,
		Purchase:  service.NewPurchaseService(store, txManager, balance, inventory, cfg, logger, m),
		Proofs:    service.NewProofService(store, txManager, files, notifier, cfg, logger, m),
		Settings:  settings,
		Responder: chat.NewFallbackResponder(),
		Logger:    logger,
		Metrics:   m,
	}

	return &chatEnv{
		router: chat.NewRouter(params),
		store:  store,
		tokens: tokens,
		params: params,
	}
}

func (e *chatEnv) send(text string) string {
	return e.router.Handle(context.Background(), chat.Incoming{Phone: customerPhone, Name: "Ana", Text: text})
}

func (e *chatEnv) admin(text string) string {
	return e.router.Handle(context.Background(), chat.Incoming{Phone: adminPhone, Name: "Boss", Text: text})
}

func (e *chatEnv) item(t *testing.T, platform string, slot int) int64 {
	t.Helper()

	email := fmt.Sprintf("user%d@streaming.example.com", slot)
	id, err := e.store.AddInventoryItem(context.Background(), &model.InventoryItem{
		Platform:  platform,
		Slot:      slot,
		Email:     &email,
		Price:     2200,
		ExpiresOn: "2099-01-01",
	})
	require.NoError(t, err)
	return id
}

func (e *chatEnv) credit(t *testing.T, phone string, amount money.Amount) {
	t.Helper()

	_, err := e.store.Credit(context.Background(), phone, amount, "top-up")
	require.NoError(t, err)
}

func TestRouter_GreetingThenCommands(t *testing.T) {
	env := newChatEnv(t)

	greeting := env.send("hello")
	assert.Contains(t, greeting, "Hello Ana!")
	assert.Contains(t, greeting, constants.CurrencySymbol+" 0.00")

	assert.Contains(t, env.send("hello"), "type *help*", "no second greeting within the window")
	assert.Contains(t, env.send("MENU"), "Choose an option")
	assert.Contains(t, env.send("  ajuda "), "How to use the store")
	assert.Contains(t, env.send("saldo"), "Your current balance is R$ 0.00")
	assert.Contains(t, env.send("info"), "SERVICE INFORMATION")
	assert.Contains(t, env.send("suporte"), "SUPPORT")
	assert.Contains(t, env.send("buy"), "buy ID")

	topUp := env.send("recarga")
	assert.Contains(t, topUp, "store@pix.example.com")
	assert.Contains(t, topUp, "Stream Store")
}

func TestRouter_IgnoresGroupsAndEmptyPhones(t *testing.T) {
	env := newChatEnv(t)

	assert.Empty(t, env.router.Handle(context.Background(), chat.Incoming{Phone: customerPhone, Text: "menu", IsGroup: true}))
	assert.Empty(t, env.router.Handle(context.Background(), chat.Incoming{Phone: "not-a-phone", Text: "menu"}))

	users, err := env.store.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestRouter_Purchase(t *testing.T) {
	env := newChatEnv(t)
	env.send("hi")

	assert.Equal(t, "There are no streaming screens available right now. Please try again later.", env.send("telas"))

	id := env.item(t, "Netflix", 3)
	screens := env.send("screens")
	assert.Contains(t, screens, "*NETFLIX*")
	assert.Contains(t, screens, fmt.Sprintf("ID: %d - Slot: 3 - Price: R$ 22.00", id))

	assert.Equal(t, "Insufficient balance. You need R$ 22.00 to buy this screen but have only R$ 0.00.",
		env.send(fmt.Sprintf("buy %d", id)))

	env.credit(t, customerPhone, 3000)

	completed := env.send(fmt.Sprintf("comprar tela %d", id))
	assert.Contains(t, completed, "PURCHASE COMPLETED")
	assert.Contains(t, completed, "user3@streaming.example.com")
	assert.Contains(t, completed, "Your balance: R$ 8.00")

	assert.Equal(t, "This screen is not available for purchase.", env.send(fmt.Sprintf("buy %d", id)))
	assert.Equal(t, "This screen is not available for purchase.", env.send("buy 999"))
}

type failingPurchase struct {
	err error
}

func (f failingPurchase) Purchase(context.Context, service.PurchaseCommand) (service.PurchaseResult, error) {
	return service.PurchaseResult{}, f.err
}

func TestRouter_PurchaseFailuresAreNotLeaked(t *testing.T) {
	env := newChatEnv(t)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "compensation failed",
			err: service.NewServiceError(constants.ErrCodeCompensationFailed,
				&service.CompensationError{UserPhone: customerPhone, Amount: 2200}),
			want: "refund needs a manual check",
		},
		{
			name: "persistence",
			err:  service.NewServiceError(constants.ErrCodeOperationFailed, assert.AnError),
			want: "Something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := env.params
			params.Purchase = failingPurchase{err: tt.err}
			router := chat.NewRouter(params)

			router.Handle(context.Background(), chat.Incoming{Phone: customerPhone, Text: "hi"})
			reply := router.Handle(context.Background(), chat.Incoming{Phone: customerPhone, Text: "buy 1"})
			assert.Contains(t, reply, tt.want)
			assert.NotContains(t, reply, assert.AnError.Error())
		})
	}
}

func TestRouter_PaymentProof(t *testing.T) {
	env := newChatEnv(t)

	reply := env.router.Handle(context.Background(), chat.Incoming{Phone: customerPhone, Image: pngBytes})
	assert.Contains(t, reply, "PAYMENT PROOF RECEIVED")

	reply = env.router.Handle(context.Background(), chat.Incoming{
		Phone: customerPhone, Image: []byte("not an image"), ImageType: "text/plain",
	})
	assert.Equal(t, "Only images are accepted as payment proof.", reply)

	reply = env.router.Handle(context.Background(), chat.Incoming{
		Phone: customerPhone, Image: append(append([]byte{}, pngBytes...), make([]byte, 2048)...),
	})
	assert.Equal(t, "This image is too large. Please send a smaller one.", reply)

	proofs, err := env.store.ListPendingProofs(context.Background())
	require.NoError(t, err)
	require.Len(t, proofs, 1)
	assert.Equal(t, customerPhone, proofs[0].UserPhone)
	assert.Equal(t, money.Zero, proofs[0].Amount)
}

func TestRouter_SlashFromCustomerIsNotAdmin(t *testing.T) {
	env := newChatEnv(t)
	env.send("hi")

	reply := env.send("/admin 4321")
	assert.NotContains(t, reply, "panel")
	assert.Contains(t, reply, "type *help*")
}

func TestAdminCommands_Panel(t *testing.T) {
	env := newChatEnv(t)

	assert.Equal(t, "Invalid PIN. Access denied.", env.admin("/admin 0000"))

	reply := env.admin("/admin 4321")
	require.Contains(t, reply, "http://localhost:8080/panel?token=")
	assert.Contains(t, reply, "expires in 30 minutes")

	link := reply[strings.Index(reply, "token=")+len("token="):]
	value := strings.Fields(link)[0]
	token, err := env.tokens.Parse(value)
	require.NoError(t, err)
	assert.Equal(t, adminPhone, token.Phone)
}

func TestAdminCommands_Inventory(t *testing.T) {
	env := newChatEnv(t)

	assert.Contains(t, env.admin("/add_item Netflix"), "Wrong format")
	assert.Equal(t, "The slot must be a positive number.", env.admin("/add_item Netflix zero 2099-01-01"))
	assert.Contains(t, env.admin("/add_tela Netflix 1 31/12/2099"), "Invalid date")

	reply := env.admin("/add_item Netflix 2 2099-01-01 a@b.example pw")
	assert.Contains(t, reply, "Netflix (slot 2) added")
	assert.Contains(t, reply, "Price: R$ 22.00")

	items, err := env.store.ListInventory(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Email)
	assert.Equal(t, "a@b.example", *items[0].Email)

	_, err = env.store.AddInventoryItem(context.Background(), &model.InventoryItem{
		Platform: "Old", Slot: 1, Price: 2200, ExpiresOn: "2000-01-01",
	})
	require.NoError(t, err)

	assert.Equal(t, "Expired items removed: 1", env.admin("/sweep_expired"))
	assert.Equal(t, "Expired items removed: 0", env.admin("/remover_expirados"))

	stock := env.admin("/reports stock")
	assert.Contains(t, stock, "Available: 1")
	assert.Contains(t, stock, "Expired: 1")
}

func TestAdminCommands_Balance(t *testing.T) {
	env := newChatEnv(t)
	env.send("hi")

	assert.Equal(t, "User not found.", env.admin("/balance @5511000000000"))
	assert.Equal(t, "Balance of Ana: R$ 0.00", env.admin("/saldo @"+customerPhone))
	assert.Equal(t, "Invalid value.", env.admin("/balance @"+customerPhone+" +abc"))
	assert.Equal(t, "Invalid value.", env.admin("/balance @"+customerPhone+" +200000000000000000"))
	assert.Contains(t, env.admin("/balance @"+customerPhone+" *5"), "Invalid operation")

	assert.Equal(t, "Added R$ 10.50 to Ana.\nNew balance: R$ 10.50", env.admin("/balance @"+customerPhone+" +10,50"))
	assert.Equal(t, "Insufficient balance. Ana has R$ 10.50.", env.admin("/balance @"+customerPhone+" -20"))
	assert.Equal(t, "Removed R$ 0.50 from Ana.\nNew balance: R$ 10.00", env.admin("/balance @"+customerPhone+" -0.5"))

	sum, err := env.store.LedgerSum(context.Background(), customerPhone)
	require.NoError(t, err)
	assert.Equal(t, money.Amount(1000), sum)
}

func TestAdminCommands_GreetingAndBroadcast(t *testing.T) {
	env := newChatEnv(t)
	env.send("hi")

	assert.Equal(t, "The greeting text cannot be empty.", env.admin("/edit_greeting"))
	assert.Equal(t, "Greeting message updated.", env.admin("/editar_boasvindas Welcome back [NAME], you have R$ [BALANCE]"))

	reply := env.router.Handle(context.Background(), chat.Incoming{Phone: "5511777777777", Name: "Bia", Text: "oi"})
	assert.Equal(t, "Welcome back Bia, you have R$ 0.00", reply)

	assert.Equal(t, "The broadcast text cannot be empty.", env.admin("/broadcast"))
	assert.Equal(t, "Broadcast finished: 2 sent, 0 failed, 2 total.", env.admin("/enviar_aviso new screens in stock"))

	summary := env.admin("/relatorios")
	assert.Contains(t, summary, "Users: 2")
	assert.Contains(t, env.admin("/reports users"), "Registered: 2")
}

func TestAdminCommands_Unknown(t *testing.T) {
	env := newChatEnv(t)

	assert.Equal(t, "Unknown admin command.", env.admin("/reboot"))
}

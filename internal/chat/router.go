package chat

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/Behyna/streamstore/internal/auth"
	"github.com/Behyna/streamstore/internal/constants"
	"github.com/Behyna/streamstore/internal/metrics"
	"github.com/Behyna/streamstore/internal/service"
	"github.com/Behyna/streamstore/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	commandAdmin    = "admin"
	commandProof    = "proof"
	commandGreeting = "greeting"
	commandBuy      = "buy"
	commandFallback = "fallback"
)

// Incoming is a message received from a chat transport.
type Incoming struct {
	Phone     string
	Name      string
	Text      string
	Image     []byte
	ImageType string
	IsGroup   bool
}

type commandFunc func(ctx context.Context, phone string) (string, error)

type RouterParams struct {
	fx.In

	Admins    *auth.AdminList
	Commands  *AdminCommands
	Users     service.UserService
	Balance   service.BalanceService
	Inventory service.InventoryService
	Purchase  service.PurchaseService
	Proofs    service.ProofService
	Settings  service.SettingsService
	Responder Responder
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
}

// Router turns customer and admin messages into replies. It never returns
// raw errors; failures become a message for the user and a log entry.
type Router struct {
	admins    *auth.AdminList
	adminCmds *AdminCommands
	users     service.UserService
	balances  service.BalanceService
	inventory service.InventoryService
	purchase  service.PurchaseService
	proofs    service.ProofService
	settings  service.SettingsService
	responder Responder
	logger    *zap.Logger
	metrics   *metrics.Metrics

	commands map[string]commandFunc
	aliases  map[string]string
}

func NewRouter(p RouterParams) *Router {
	r := &Router{
		admins:    p.Admins,
		adminCmds: p.Commands,
		users:     p.Users,
		balances:  p.Balance,
		inventory: p.Inventory,
		purchase:  p.Purchase,
		proofs:    p.Proofs,
		settings:  p.Settings,
		responder: p.Responder,
		logger:    p.Logger,
		metrics:   p.Metrics,
	}

	r.commands = map[string]commandFunc{
		"menu":    r.static(msgMenu),
		"topup":   r.topUp,
		"screens": r.screens,
		"info":    r.static(msgInfo),
		"support": r.static(msgSupport),
		"about":   r.static(msgAbout),
		"help":    r.static(msgHelp),
		"balance": r.balance,
		"buy":     r.static(msgBuyUsage),
	}
	r.aliases = map[string]string{
		"recarga":  "topup",
		"telas":    "screens",
		"suporte":  "support",
		"criador":  "about",
		"ajuda":    "help",
		"comandos": "help",
		"saldo":    "balance",
		"comprar":  "buy",
	}

	return r
}

// Handle processes one incoming message and returns the reply to send back.
// An empty reply means nothing should be sent.
func (r *Router) Handle(ctx context.Context, in Incoming) string {
	if in.IsGroup {
		return ""
	}

	phone := auth.NormalizePhone(in.Phone)
	if phone == "" {
		return ""
	}
	text := strings.TrimSpace(in.Text)

	if strings.HasPrefix(text, "/") && r.admins.Contains(phone) {
		r.metrics.RecordChatMessage(commandAdmin)
		return r.adminCmds.Handle(ctx, phone, text)
	}

	checkIn, err := r.users.CheckIn(ctx, service.CheckInCommand{Phone: phone, Name: in.Name})
	if err != nil {
		r.logger.Error("Failed to check in chat user", zap.String("phone", phone), zap.Error(err))
		return msgError
	}

	if len(in.Image) > 0 {
		r.metrics.RecordChatMessage(commandProof)
		return r.submitProof(ctx, phone, in)
	}

	if checkIn.ShouldGreet {
		r.metrics.RecordChatMessage(commandGreeting)
		return r.greeting(ctx, checkIn)
	}

	return r.dispatch(ctx, phone, text)
}

func (r *Router) dispatch(ctx context.Context, phone, text string) string {
	lower := strings.ToLower(text)

	if id, ok := parseBuy(lower); ok {
		r.metrics.RecordChatMessage(commandBuy)
		return r.buy(ctx, phone, id)
	}

	name := lower
	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}

	command, ok := r.commands[name]
	if !ok {
		r.metrics.RecordChatMessage(commandFallback)
		reply, err := r.responder.Respond(ctx, phone, text)
		if err != nil || reply == "" {
			return msgFallback
		}
		return reply
	}

	r.metrics.RecordChatMessage(name)
	reply, err := command(ctx, phone)
	if err != nil {
		r.logger.Error("Chat command failed",
			zap.String("phone", phone),
			zap.String("command", name),
			zap.Error(err))
		return msgError
	}
	return reply
}

func (r *Router) static(text string) commandFunc {
	return func(context.Context, string) (string, error) {
		return text, nil
	}
}

func (r *Router) balance(ctx context.Context, phone string) (string, error) {
	balance, err := r.balances.GetBalance(ctx, phone)
	if err != nil {
		return "", err
	}
	return balanceMessage(balance), nil
}

func (r *Router) topUp(ctx context.Context, _ string) (string, error) {
	key, err := r.settings.PaymentKey(ctx)
	if err != nil {
		return "", err
	}
	return topUpMessage(key), nil
}

func (r *Router) screens(ctx context.Context, phone string) (string, error) {
	items, err := r.inventory.ListAvailable(ctx)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return msgNoScreens, nil
	}

	balance, err := r.balances.GetBalance(ctx, phone)
	if err != nil {
		return "", err
	}
	return screensMessage(service.GroupByPlatform(items), balance), nil
}

func (r *Router) greeting(ctx context.Context, checkIn service.CheckInResult) string {
	template, err := r.settings.GreetingTemplate(ctx)
	if err != nil {
		r.logger.Warn("Failed to load greeting template, using default", zap.Error(err))
		template = service.DefaultGreetingTemplate
	}
	return service.RenderGreeting(template, checkIn.User.Name, checkIn.User.Balance.String())
}

func (r *Router) buy(ctx context.Context, phone string, id int64) string {
	result, err := r.purchase.Purchase(ctx, service.PurchaseCommand{ItemID: id, Buyer: phone})
	if err != nil {
		r.logger.Error("Chat purchase failed",
			zap.String("phone", phone),
			zap.Int64("itemID", id),
			zap.Error(err))

		var serviceErr service.Error
		if errors.As(err, &serviceErr) && serviceErr.Code == constants.ErrCodeCompensationFailed {
			return msgCompensationFailed
		}
		return msgError
	}

	switch result.Outcome {
	case service.OutcomeCompleted:
		return purchaseCompletedMessage(result.Item, result.Balance)
	case service.OutcomeInsufficientFunds:
		return insufficientFundsMessage(result.Required, result.Balance)
	case service.OutcomeItemUnavailable:
		return itemUnavailableMessage(result.Balance)
	default:
		return msgItemNotFound
	}
}

func (r *Router) submitProof(ctx context.Context, phone string, in Incoming) string {
	_, err := r.proofs.Submit(ctx, service.SubmitProofCommand{
		Phone:       phone,
		Amount:      money.Zero,
		Data:        in.Image,
		ContentType: in.ImageType,
	})
	switch {
	case err == nil:
		return msgProofReceived
	case errors.Is(err, service.ErrUnsupportedFile):
		return msgProofUnsupported
	case errors.Is(err, service.ErrFileTooLarge):
		return msgProofTooLarge
	default:
		r.logger.Error("Failed to submit payment proof from chat", zap.String("phone", phone), zap.Error(err))
		return msgProofFailed
	}
}

// parseBuy recognizes "buy <id>", "comprar <id>" and "comprar tela <id>".
func parseBuy(text string) (int64, bool) {
	fields := strings.Fields(text)
	switch {
	case len(fields) == 2 && (fields[0] == "buy" || fields[0] == "comprar"):
		return parseItemID(fields[1])
	case len(fields) == 3 && fields[0] == "comprar" && fields[1] == "tela":
		return parseItemID(fields[2])
	}
	return 0, false
}

func parseItemID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

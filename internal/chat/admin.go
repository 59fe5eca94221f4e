package chat

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Behyna/streamstore/internal/auth"
	"github.com/Behyna/streamstore/internal/config"
	"github.com/Behyna/streamstore/internal/constants"
	"github.com/Behyna/streamstore/internal/model"
	"github.com/Behyna/streamstore/internal/service"
	"github.com/Behyna/streamstore/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	msgAdminUnknown    = "Unknown admin command."
	msgAdminFailed     = "Could not process the command. Check the format and try again."
	msgAdminInvalidPIN = "Invalid PIN. Access denied."
	msgUserNotFound    = "User not found."
	msgInvalidValue    = "Invalid value."
	adminCredit        = "admin credit via chat"
	adminDebit         = "admin debit via chat"
	panelPath          = "/panel?token="
)

type adminFunc func(ctx context.Context, phone, args string) (string, error)

type AdminCommandsParams struct {
	fx.In

	Config    *config.Config
	Admins    *auth.AdminList
	Tokens    *auth.TokenIssuer
	Users     service.UserService
	Balance   service.BalanceService
	Inventory service.InventoryService
	Settings  service.SettingsService
	Stats     service.StatsService
	Broadcast service.BroadcastService
	Logger    *zap.Logger
}

// AdminCommands runs slash commands sent by allow-listed phones.
type AdminCommands struct {
	publicURL string
	admins    *auth.AdminList
	tokens    *auth.TokenIssuer
	users     service.UserService
	balances  service.BalanceService
	inventory service.InventoryService
	settings  service.SettingsService
	stats     service.StatsService
	broadcast service.BroadcastService
	logger    *zap.Logger
	now       func() time.Time

	commands map[string]adminFunc
}

func NewAdminCommands(p AdminCommandsParams) *AdminCommands {
	a := &AdminCommands{
		publicURL: strings.TrimRight(p.Config.API.PublicURL, "/"),
		admins:    p.Admins,
		tokens:    p.Tokens,
		users:     p.Users,
		balances:  p.Balance,
		inventory: p.Inventory,
		settings:  p.Settings,
		stats:     p.Stats,
		broadcast: p.Broadcast,
		logger:    p.Logger,
		now:       time.Now,
	}

	a.commands = map[string]adminFunc{
		"/admin":             a.panel,
		"/add_item":          a.addItem,
		"/add_tela":          a.addItem,
		"/balance":           a.balance,
		"/saldo":             a.balance,
		"/edit_greeting":     a.editGreeting,
		"/editar_boasvindas": a.editGreeting,
		"/reports":           a.reports,
		"/relatorios":        a.reports,
		"/sweep_expired":     a.sweep,
		"/remover_expirados": a.sweep,
		"/broadcast":         a.sendBroadcast,
		"/enviar_aviso":      a.sendBroadcast,
	}

	return a
}

func (a *AdminCommands) Handle(ctx context.Context, phone, text string) string {
	if !a.admins.Contains(phone) {
		return msgAdminUnknown
	}

	name, args, _ := strings.Cut(strings.TrimSpace(text), " ")
	name = strings.ToLower(name)

	command, ok := a.commands[name]
	if !ok {
		return msgAdminUnknown
	}

	reply, err := command(ctx, phone, strings.TrimSpace(args))
	if err != nil {
		a.logger.Error("Admin command failed",
			zap.String("admin", phone),
			zap.String("command", name),
			zap.Error(err))
		return adminErrorMessage(err)
	}

	a.logger.Info("Admin command executed", zap.String("admin", phone), zap.String("command", name))
	return reply
}

func (a *AdminCommands) panel(_ context.Context, phone, args string) (string, error) {
	if !a.admins.VerifyPIN(args) {
		a.logger.Warn("Admin panel requested with invalid PIN", zap.String("admin", phone))
		return msgAdminInvalidPIN, nil
	}

	token, err := a.tokens.Issue(phone)
	if err != nil {
		return "", err
	}

	minutes := int(token.ExpiresAt.Sub(a.now()).Round(time.Minute).Minutes())
	return fmt.Sprintf("Access granted.\n\nYour admin dashboard:\n%s%s%s\n\nThe link expires in %d minutes.",
		a.publicURL, panelPath, token.Value, minutes), nil
}

func (a *AdminCommands) addItem(ctx context.Context, _, args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) < 3 {
		return "Wrong format. Use: /add_item platform slot YYYY-MM-DD [email] [password]", nil
	}

	slot, err := strconv.Atoi(fields[1])
	if err != nil || slot <= 0 {
		return "The slot must be a positive number.", nil
	}
	if _, err := time.Parse(model.DateLayout, fields[2]); err != nil {
		return "Invalid date. Use YYYY-MM-DD (e.g. 2030-12-31).", nil
	}

	cmd := service.AddItemCommand{Platform: fields[0], Slot: slot, ExpiresOn: fields[2]}
	if len(fields) > 3 {
		cmd.Email = fields[3]
	}
	if len(fields) > 4 {
		cmd.Password = fields[4]
	}

	item, err := a.inventory.AddItem(ctx, cmd)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Item #%d %s (slot %d) added.\nValid until: %s\nPrice: %s",
		item.ID, item.Platform, item.Slot, item.ExpiresOn, formatAmount(item.Price)), nil
}

func (a *AdminCommands) balance(ctx context.Context, _, args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "Wrong format. Use: /balance @phone [+value|-value]", nil
	}

	target := auth.NormalizePhone(fields[0])
	user, err := a.users.Get(ctx, target)
	if err != nil {
		return "", err
	}

	if len(fields) == 1 {
		return fmt.Sprintf("Balance of %s: %s", user.Name, formatAmount(user.Balance)), nil
	}

	op := fields[1]
	if len(op) < 2 || (op[0] != '+' && op[0] != '-') {
		return "Invalid operation. Use +value to add or -value to remove balance.", nil
	}
	amount, err := money.Parse(op[1:])
	if err != nil || !amount.IsPositive() {
		return msgInvalidValue, nil
	}

	if op[0] == '+' {
		result, err := a.balances.AddBalance(ctx, service.BalanceCommand{
			Phone: target, Amount: amount, Description: adminCredit,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Added %s to %s.\nNew balance: %s",
			formatAmount(amount), user.Name, formatAmount(result.Balance)), nil
	}

	outcome, err := a.balances.RemoveBalance(ctx, service.BalanceCommand{
		Phone: target, Amount: amount, Description: adminDebit,
	})
	if err != nil {
		return "", err
	}
	if !outcome.Succeeded {
		return fmt.Sprintf("Insufficient balance. %s has %s.", user.Name, formatAmount(outcome.Balance)), nil
	}
	return fmt.Sprintf("Removed %s from %s.\nNew balance: %s",
		formatAmount(amount), user.Name, formatAmount(outcome.Balance)), nil
}

func (a *AdminCommands) editGreeting(ctx context.Context, _, args string) (string, error) {
	if args == "" {
		return "The greeting text cannot be empty.", nil
	}
	if err := a.settings.SetGreetingTemplate(ctx, args); err != nil {
		return "", err
	}
	return "Greeting message updated.", nil
}

func (a *AdminCommands) reports(ctx context.Context, _, args string) (string, error) {
	summary, err := a.stats.Summary(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("*SYSTEM REPORT*\n\n")

	switch strings.ToLower(args) {
	case "sales", "vendas":
		fmt.Fprintf(&b, "Sales\n- Sold items: %d\n", summary.SoldItems)
		for _, item := range summary.RecentSales {
			owner := ""
			if item.Owner != nil {
				owner = *item.Owner
			}
			fmt.Fprintf(&b, "- #%d %s %s to %s\n", item.ID, item.Platform, formatAmount(item.Price), owner)
		}
	case "users", "usuarios":
		fmt.Fprintf(&b, "Users\n- Registered: %d\n- Average balance: %s\n",
			summary.TotalUsers, formatAmount(summary.AverageBalance))
	case "stock", "estoque":
		fmt.Fprintf(&b, "Stock\n- Available: %d\n- Sold: %d\n- Expired: %d\n",
			summary.AvailableItems, summary.SoldItems, summary.ExpiredItems)
	default:
		fmt.Fprintf(&b, "Summary\n- Users: %d\n- Available items: %d\n- Sold items: %d\n- Expired items: %d\n- Average balance: %s\n",
			summary.TotalUsers, summary.AvailableItems, summary.SoldItems, summary.ExpiredItems,
			formatAmount(summary.AverageBalance))
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

func (a *AdminCommands) sweep(ctx context.Context, _, _ string) (string, error) {
	result, err := a.inventory.SweepExpired(ctx, a.now())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Expired items removed: %d", result.Expired), nil
}

func (a *AdminCommands) sendBroadcast(ctx context.Context, _, args string) (string, error) {
	if args == "" {
		return "The broadcast text cannot be empty.", nil
	}

	result, err := a.broadcast.Broadcast(ctx, args)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Broadcast finished: %d sent, %d failed, %d total.", result.Sent, result.Failed, result.Total), nil
}

func adminErrorMessage(err error) string {
	var serviceErr service.Error
	if !errors.As(err, &serviceErr) {
		return msgAdminFailed
	}

	switch serviceErr.Code {
	case constants.ErrCodeUserNotFound:
		return msgUserNotFound
	case constants.ErrCodeValidationFailed:
		return "Invalid value: " + strings.ToLower(strings.ReplaceAll(serviceErr.Cause.Error(), "_", " ")) + "."
	default:
		return msgAdminFailed
	}
}

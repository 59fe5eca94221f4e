package v1

import (
	"github.com/Behyna/streamstore/internal/api/v1/middleware"
	"github.com/Behyna/streamstore/internal/auth"
	"github.com/Behyna/streamstore/internal/constants"
	"github.com/Behyna/streamstore/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const defaultAdjustmentDescription = "admin adjustment via dashboard"

func (h *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := h.services.Users.List(c.UserContext())
	if err != nil {
		return err
	}

	return success(c, "users retrieved successfully", users)
}

func (h *Handler) GetUserBalance(c *fiber.Ctx) error {
	phone := auth.NormalizePhone(c.Params("phone"))

	user, err := h.services.Users.Get(c.UserContext(), phone)
	if err != nil {
		return err
	}

	return success(c, "user balance retrieved successfully", BalanceResponse{Phone: user.Phone, Balance: user.Balance})
}

func (h *Handler) ListUserTransactions(c *fiber.Ctx) error {
	txs, err := h.services.Balance.History(c.UserContext(), auth.NormalizePhone(c.Params("phone")))
	if err != nil {
		return err
	}

	return success(c, "transactions retrieved successfully", txs)
}

func (h *Handler) AuditUser(c *fiber.Ctx) error {
	result, err := h.services.Balance.Audit(c.UserContext(), auth.NormalizePhone(c.Params("phone")))
	if err != nil {
		return err
	}

	return success(c, "audit finished", result)
}

func (h *Handler) IncreaseUserBalance(c *fiber.Ctx) error {
	var handlerRequest UpdateBalanceRequest
	if ok, err := h.validate(c, &handlerRequest); !ok {
		return err
	}

	cmd := h.balanceCommand(c, handlerRequest)

	result, err := h.services.Balance.AddBalance(c.UserContext(), cmd)
	if err != nil {
		h.logger.Error("Error increasing user balance", zap.String("phone", cmd.Phone), zap.Error(err))
		return err
	}

	return success(c, constants.UserBalanceUpdated, result)
}

func (h *Handler) DecreaseUserBalance(c *fiber.Ctx) error {
	var handlerRequest UpdateBalanceRequest
	if ok, err := h.validate(c, &handlerRequest); !ok {
		return err
	}

	cmd := h.balanceCommand(c, handlerRequest)

	outcome, err := h.services.Balance.RemoveBalance(c.UserContext(), cmd)
	if err != nil {
		h.logger.Error("Error decreasing user balance", zap.String("phone", cmd.Phone), zap.Error(err))
		return err
	}
	if !outcome.Succeeded {
		return conflict(c, constants.ErrCodeInsufficientBalance, outcome)
	}

	return success(c, constants.UserBalanceUpdated, outcome)
}

func (h *Handler) balanceCommand(c *fiber.Ctx, request UpdateBalanceRequest) service.BalanceCommand {
	description := request.Description
	if description == "" {
		description = defaultAdjustmentDescription
	}

	admin, _ := c.Locals(middleware.AdminLocalKey).(string)
	h.logger.Info("Admin balance adjustment",
		zap.String("admin", admin),
		zap.String("phone", request.Phone),
		zap.String("amount", request.Amount))

	return service.BalanceCommand{
		Phone:       request.Phone,
		Amount:      optionalAmount(request.Amount),
		Description: description,
	}
}

func (h *Handler) Broadcast(c *fiber.Ctx) error {
	var handlerRequest BroadcastRequest
	if ok, err := h.validate(c, &handlerRequest); !ok {
		return err
	}

	result, err := h.services.Broadcast.Broadcast(c.UserContext(), handlerRequest.Text)
	if err != nil {
		return err
	}

	return success(c, constants.BroadcastSent, result)
}

func (h *Handler) Stats(c *fiber.Ctx) error {
	summary, err := h.services.Stats.Summary(c.UserContext())
	if err != nil {
		return err
	}

	return success(c, "summary generated", summary)
}

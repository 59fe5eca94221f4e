package v1

import (
	"errors"
	"strconv"

	"github.com/Behyna/streamstore/internal/api/contract"
	"github.com/Behyna/streamstore/internal/api/v1/middleware"
	"github.com/Behyna/streamstore/internal/api/validator"
	"github.com/Behyna/streamstore/internal/auth"
	"github.com/Behyna/streamstore/internal/constants"
	"github.com/Behyna/streamstore/internal/service"
	"github.com/Behyna/streamstore/pkg/money"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var errInvalidID = errors.New("INVALID_ID")

type Services struct {
	fx.In

	Balance   service.BalanceService
	Inventory service.InventoryService
	Purchase  service.PurchaseService
	Proofs    service.ProofService
	Settings  service.SettingsService
	Users     service.UserService
	Stats     service.StatsService
	Broadcast service.BroadcastService
}

type Handler struct {
	logger     *zap.Logger
	services   Services
	tokens     *auth.TokenIssuer
	XValidator validator.IXValidator
}

func NewHandler(logger *zap.Logger, services Services, tokens *auth.TokenIssuer,
	XValidator validator.IXValidator) *Handler {
	return &Handler{
		logger:     logger,
		services:   services,
		tokens:     tokens,
		XValidator: XValidator,
	}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

// Panel is the landing route of the link sent by the chat /admin command.
func (h *Handler) Panel(c *fiber.Ctx) error {
	token, err := h.tokens.Parse(middleware.TokenFromRequest(c))
	if err != nil {
		h.logger.Warn("Invalid panel token", zap.String("ip", c.IP()), zap.Error(err))
		return service.NewServiceError(constants.ErrCodeUnauthorized, err)
	}

	return c.JSON(contract.Response{
		Successful: true,
		Code:       "success",
		Message:    "session is valid",
		Result:     SessionResponse{Phone: token.Phone, ExpiresAt: token.ExpiresAt},
	})
}

// validate runs the request validator and writes the rejection when there is
// one. The returned bool reports whether the handler should go on.
func (h *Handler) validate(c *fiber.Ctx, request any) (bool, error) {
	responseError := h.XValidator.Validator(request, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Warn("Error Validator",
			zap.String("path", c.Path()),
			zap.String("message", responseError.Message))
		return false, c.JSON(responseError)
	}
	return true, nil
}

func success(c *fiber.Ctx, message string, result any) error {
	return c.JSON(contract.Response{Successful: true, Code: "success", Message: message, Result: result})
}

func contractCreated(message string, result any) contract.Response {
	return contract.Response{Successful: true, Code: "success", Message: message, Result: result}
}

func contractError(code string, result any) contract.Response {
	return contract.Response{Code: code, Message: constants.GetErrorMessage(code), Result: result}
}

func conflict(c *fiber.Ctx, code string, result any) error {
	return c.Status(fiber.StatusConflict).JSON(contractError(code, result))
}

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.NewServiceError(constants.ErrCodeValidationFailed, errInvalidID)
	}
	return id, nil
}

// optionalAmount parses an already validated amount, zero when empty.
func optionalAmount(value string) money.Amount {
	if value == "" {
		return money.Zero
	}
	amount, err := money.Parse(value)
	if err != nil {
		return money.Zero
	}
	return amount
}

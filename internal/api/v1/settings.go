package v1

import (
	"github.com/Behyna/streamstore/internal/constants"
	"github.com/Behyna/streamstore/internal/service"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetPaymentKey(c *fiber.Ctx) error {
	key, err := h.services.Settings.PaymentKey(c.UserContext())
	if err != nil {
		return err
	}

	return success(c, "payment key retrieved successfully", key)
}

func (h *Handler) SetPaymentKey(c *fiber.Ctx) error {
	var handlerRequest PaymentKeyRequest
	if ok, err := h.validate(c, &handlerRequest); !ok {
		return err
	}

	key := service.PaymentKey{Type: handlerRequest.Type, Key: handlerRequest.Key, Holder: handlerRequest.Holder}
	if err := h.services.Settings.SetPaymentKey(c.UserContext(), key); err != nil {
		return err
	}

	return success(c, constants.SettingUpdated, key)
}

func (h *Handler) GetGreeting(c *fiber.Ctx) error {
	text, err := h.services.Settings.GreetingTemplate(c.UserContext())
	if err != nil {
		return err
	}

	return success(c, "greeting retrieved successfully", fiber.Map{"text": text})
}

func (h *Handler) SetGreeting(c *fiber.Ctx) error {
	var handlerRequest GreetingRequest
	if ok, err := h.validate(c, &handlerRequest); !ok {
		return err
	}

	if err := h.services.Settings.SetGreetingTemplate(c.UserContext(), handlerRequest.Text); err != nil {
		return err
	}

	return success(c, constants.SettingUpdated, fiber.Map{"text": handlerRequest.Text})
}

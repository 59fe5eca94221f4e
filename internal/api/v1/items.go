package v1

import (
	"time"

	"github.com/Behyna/streamstore/internal/constants"
	"github.com/Behyna/streamstore/internal/model"
	"github.com/Behyna/streamstore/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (h *Handler) ListItems(c *fiber.Ctx) error {
	items, err := h.services.Inventory.ListAll(c.UserContext())
	if err != nil {
		return err
	}

	return success(c, "items retrieved successfully", items)
}

func (h *Handler) ListAvailableItems(c *fiber.Ctx) error {
	items, err := h.services.Inventory.ListAvailable(c.UserContext())
	if err != nil {
		return err
	}

	return success(c, "available items retrieved successfully", service.GroupByPlatform(items))
}

func (h *Handler) AddItem(c *fiber.Ctx) error {
	var handlerRequest AddItemRequest
	if ok, err := h.validate(c, &handlerRequest); !ok {
		return err
	}

	item, err := h.services.Inventory.AddItem(c.UserContext(), service.AddItemCommand{
		Platform:  handlerRequest.Platform,
		Slot:      handlerRequest.Slot,
		ExpiresOn: handlerRequest.ExpiresOn,
		Email:     handlerRequest.Email,
		Password:  handlerRequest.Password,
		Price:     optionalAmount(handlerRequest.Price),
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(contractCreated(constants.ItemCreated, item))
}

func (h *Handler) SweepItems(c *fiber.Ctx) error {
	var handlerRequest SweepRequest
	if ok, err := h.validate(c, &handlerRequest); !ok {
		return err
	}

	asOf := time.Now()
	if handlerRequest.AsOf != "" {
		asOf, _ = time.Parse(model.DateLayout, handlerRequest.AsOf)
	}

	result, err := h.services.Inventory.SweepExpired(c.UserContext(), asOf)
	if err != nil {
		return err
	}

	return success(c, constants.ItemsSwept, result)
}

// PurchaseItem buys an item on behalf of a customer. Only a completed
// purchase answers 200; the other outcomes carry the result with a 404 or 409.
func (h *Handler) PurchaseItem(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var handlerRequest PurchaseRequest
	if ok, err := h.validate(c, &handlerRequest); !ok {
		return err
	}

	result, err := h.services.Purchase.Purchase(c.UserContext(), service.PurchaseCommand{
		ItemID: id,
		Buyer:  handlerRequest.Buyer,
	})
	if err != nil {
		h.logger.Error("Purchase failed",
			zap.Int64("itemID", id),
			zap.String("buyer", handlerRequest.Buyer),
			zap.Error(err))
		return err
	}

	switch result.Outcome {
	case service.OutcomeItemNotFound:
		return c.Status(fiber.StatusNotFound).JSON(contractError(constants.ErrCodeItemNotFound, result))
	case service.OutcomeInsufficientFunds:
		return conflict(c, constants.ErrCodeInsufficientBalance, result)
	case service.OutcomeItemUnavailable:
		return conflict(c, constants.ErrCodeItemUnavailable, result)
	}

	return success(c, constants.PurchaseCompleted, result)
}

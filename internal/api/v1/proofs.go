package v1

import (
	"io"

	"github.com/Behyna/streamstore/internal/constants"
	"github.com/Behyna/streamstore/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const proofFileField = "file"

func (h *Handler) ListPendingProofs(c *fiber.Ctx) error {
	proofs, err := h.services.Proofs.ListPending(c.UserContext())
	if err != nil {
		return err
	}

	return success(c, "pending proofs retrieved successfully", proofs)
}

func (h *Handler) UploadProof(c *fiber.Ctx) error {
	var handlerRequest UploadProofRequest
	if ok, err := h.validate(c, &handlerRequest); !ok {
		return err
	}

	header, err := c.FormFile(proofFileField)
	if err != nil {
		return service.NewServiceError(constants.ErrCodeValidationFailed, service.ErrUnsupportedFile)
	}

	file, err := header.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, header.Size+1))
	if err != nil {
		return err
	}

	proof, err := h.services.Proofs.Submit(c.UserContext(), service.SubmitProofCommand{
		Phone:       handlerRequest.Phone,
		Amount:      optionalAmount(handlerRequest.Amount),
		Data:        data,
		ContentType: header.Header.Get(fiber.HeaderContentType),
	})
	if err != nil {
		h.logger.Warn("Proof upload rejected",
			zap.String("phone", handlerRequest.Phone),
			zap.Int64("size", header.Size),
			zap.Error(err))
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(contractCreated(constants.ProofSubmitted, ProofUploadResponse{Proof: proof}))
}

func (h *Handler) ApproveProof(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var handlerRequest ApproveProofRequest
	if ok, err := h.validate(c, &handlerRequest); !ok {
		return err
	}

	result, err := h.services.Proofs.Approve(c.UserContext(), service.ApproveProofCommand{
		ID:     id,
		Amount: optionalAmount(handlerRequest.Amount),
	})
	if err != nil {
		return err
	}

	return success(c, constants.ProofApproved, result)
}

func (h *Handler) RejectProof(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var handlerRequest RejectProofRequest
	if ok, err := h.validate(c, &handlerRequest); !ok {
		return err
	}

	if err := h.services.Proofs.Reject(c.UserContext(), service.RejectProofCommand{
		ID:   id,
		Note: handlerRequest.Note,
	}); err != nil {
		return err
	}

	return success(c, constants.ProofRejected, nil)
}

func (h *Handler) ProofFile(c *fiber.Ctx) error {
	image, err := h.services.Proofs.OpenImage(c.UserContext(), c.Params("name"))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, image.ContentType)
	return c.Send(image.Data)
}

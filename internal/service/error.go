package service

import (
	"errors"
	"fmt"

	"github.com/Behyna/streamstore/internal/constants"
	"github.com/Behyna/streamstore/internal/ledger"
	"github.com/Behyna/streamstore/pkg/money"
)

var (
	ErrInvalidAmount     = errors.New("INVALID_AMOUNT")
	ErrInvalidPlatform   = errors.New("INVALID_PLATFORM")
	ErrInvalidSlot       = errors.New("INVALID_SLOT")
	ErrInvalidExpiry     = errors.New("INVALID_EXPIRY_DATE")
	ErrInvalidPrice      = errors.New("INVALID_PRICE")
	ErrEmptyText         = errors.New("EMPTY_TEXT")
	ErrInvalidPaymentKey = errors.New("INVALID_PAYMENT_KEY")
	ErrInvalidPhone      = errors.New("INVALID_PHONE")
	ErrUnsupportedFile   = errors.New("UNSUPPORTED_FILE_TYPE")
	ErrFileTooLarge      = errors.New("FILE_TOO_LARGE")
	ErrUserNotFound      = errors.New("USER_NOT_FOUND")
	ErrItemNotFound      = errors.New("ITEM_NOT_FOUND")
	ErrInvalidRecipient  = errors.New("INVALID_RECIPIENT")
	errSaleNotCompleted  = errors.New("SALE_NOT_COMPLETED")
)

type Error struct {
	Code  string
	Cause error
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}

// CompensationError reports a purchase where the buyer was debited, the sale
// did not happen and the refund failed too. The balance is short by Amount
// until an operator credits it back.
type CompensationError struct {
	UserPhone string
	Amount    money.Amount
	SaleErr   error
	RefundErr error
}

func (e *CompensationError) Error() string {
	return fmt.Sprintf("refund of %s to %s failed after unsuccessful sale (%v): %v",
		e.Amount, e.UserPhone, e.SaleErr, e.RefundErr)
}

func (e *CompensationError) Unwrap() []error {
	return []error{e.SaleErr, e.RefundErr}
}

func validationError(cause error) error {
	return NewServiceError(constants.ErrCodeValidationFailed, cause)
}

// storeError maps a ledger error onto a service error code. Errors that
// already carry a code are returned unchanged.
func storeError(err error) error {
	var serviceErr Error
	if errors.As(err, &serviceErr) {
		return serviceErr
	}

	switch {
	case errors.Is(err, ledger.ErrUserNotFound):
		return NewServiceError(constants.ErrCodeUserNotFound, err)
	case errors.Is(err, ledger.ErrProofNotFound):
		return NewServiceError(constants.ErrCodeProofNotFound, err)
	case errors.Is(err, ledger.ErrProofAlreadyDecided):
		return NewServiceError(constants.ErrCodeProofAlreadyDecided, err)
	default:
		return NewServiceError(constants.ErrCodeOperationFailed, err)
	}
}

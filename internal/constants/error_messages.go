package constants

import "net/http"

const MessageErrorFormat = "The '%s' format is invalid"

const (
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeInvalidRequestBody  = "INVALID_REQUEST_BODY"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
	ErrCodeItemNotFound        = "ITEM_NOT_FOUND"
	ErrCodeItemUnavailable     = "ITEM_UNAVAILABLE"
	ErrCodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	ErrCodeProofNotFound       = "PROOF_NOT_FOUND"
	ErrCodeProofAlreadyDecided = "PROOF_ALREADY_DECIDED"
	ErrCodeFileNotFound        = "FILE_NOT_FOUND"
	ErrCodeOperationFailed     = "OPERATION_FAILED"
	ErrCodeCompensationFailed  = "COMPENSATION_FAILED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
	ErrCodeRouteNotFound       = "ROUTE_NOT_FOUND"
)

const (
	ErrMsgValidationFailed    = "validation failed"
	ErrMsgInvalidRequestBody  = "failed to parse request body"
	ErrMsgUnauthorized        = "missing, expired or invalid access token"
	ErrMsgUserNotFound        = "user not found"
	ErrMsgItemNotFound        = "item not found or not available"
	ErrMsgItemUnavailable     = "item was sold to someone else"
	ErrMsgInsufficientBalance = "insufficient balance"
	ErrMsgProofNotFound       = "payment proof not found"
	ErrMsgProofAlreadyDecided = "payment proof was already processed"
	ErrMsgFileNotFound        = "file not found"
	ErrMsgOperationFailed     = "operation failed"
	ErrMsgCompensationFailed  = "operation failed and needs manual review"
	ErrMsgInternalError       = "Internal server error"
	ErrMsgRouteNotFound       = "route not found"
)

var errorMessages = map[string]string{
	ErrCodeValidationFailed:    ErrMsgValidationFailed,
	ErrCodeInvalidRequestBody:  ErrMsgInvalidRequestBody,
	ErrCodeUnauthorized:        ErrMsgUnauthorized,
	ErrCodeUserNotFound:        ErrMsgUserNotFound,
	ErrCodeItemNotFound:        ErrMsgItemNotFound,
	ErrCodeItemUnavailable:     ErrMsgItemUnavailable,
	ErrCodeInsufficientBalance: ErrMsgInsufficientBalance,
	ErrCodeProofNotFound:       ErrMsgProofNotFound,
	ErrCodeProofAlreadyDecided: ErrMsgProofAlreadyDecided,
	ErrCodeFileNotFound:        ErrMsgFileNotFound,
	ErrCodeOperationFailed:     ErrMsgOperationFailed,
	ErrCodeCompensationFailed:  ErrMsgCompensationFailed,
	ErrCodeInternalError:       ErrMsgInternalError,
	ErrCodeRouteNotFound:       ErrMsgRouteNotFound,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgInternalError
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeInvalidRequestBody:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeUserNotFound, ErrCodeItemNotFound, ErrCodeProofNotFound, ErrCodeFileNotFound,
		ErrCodeRouteNotFound:
		return http.StatusNotFound
	case ErrCodeInsufficientBalance, ErrCodeItemUnavailable, ErrCodeProofAlreadyDecided:
		return http.StatusConflict
	case ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

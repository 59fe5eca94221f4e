package validator

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Behyna/streamstore/internal/api/contract"
	"github.com/Behyna/streamstore/internal/constants"
	"github.com/Behyna/streamstore/internal/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const (
	sep = " and "
)

type Error struct {
	Error       bool
	FailedField string
	Tag         string
	Value       interface{}
}

type IXValidator interface {
	Validator(data any, message string, c *fiber.Ctx) (responseErr contract.Response)
	Validate(data interface{}) []Error
}

type XValidator struct {
	validator *validator.Validate
	metrics   *metrics.Metrics
}

func NewXValidator(validate *validator.Validate, metrics *metrics.Metrics) (IXValidator, error) {
	for key, function := range valid {
		if err := validate.RegisterValidation(key, function); err != nil {
			return nil, fmt.Errorf("register %s validation: %w", key, err)
		}
	}

	return &XValidator{
		validator: validate,
		metrics:   metrics,
	}, nil
}

// Validator parses the request body into data, when there is one, and
// validates it. A non-empty Code in the returned response means the request
// was rejected and the status was already set on c.
func (x XValidator) Validator(data any, message string, c *fiber.Ctx) (responseErr contract.Response) {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(data); err != nil {
			c.Status(http.StatusBadRequest)
			return contract.Response{
				Code:    constants.ErrCodeInvalidRequestBody,
				Message: constants.GetErrorMessage(constants.ErrCodeInvalidRequestBody),
			}
		}
	}

	if errs := x.Validate(data); len(errs) > 0 && errs[0].Error {
		errMsgs := make([]string, 0, len(errs))
		for _, err := range errs {
			errMsgs = append(errMsgs, fmt.Sprintf(message, err.FailedField))

			if x.metrics != nil {
				x.metrics.RecordValidationError(err.FailedField, err.Tag)
			}
		}
		c.Status(http.StatusUnprocessableEntity)

		return contract.Response{
			Code:    constants.ErrCodeValidationFailed,
			Message: strings.Join(errMsgs, sep),
		}
	}

	return responseErr
}

func (x XValidator) Validate(data interface{}) []Error {
	var validationErrors []Error

	errs := x.validator.Struct(data)
	if errs != nil {
		var fieldErrs validator.ValidationErrors
		if !asValidationErrors(errs, &fieldErrs) {
			return []Error{{Error: true, FailedField: "body", Tag: "invalid"}}
		}
		for _, err := range fieldErrs {
			validationErrors = append(validationErrors, Error{
				Error:       true,
				FailedField: err.Field(),
				Tag:         err.Tag(),
				Value:       err.Value(),
			})
		}
	}
	return validationErrors
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = fieldErrs
	}
	return ok
}

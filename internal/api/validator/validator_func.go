package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	amountRegex = `^\d{1,12}([.,]\d{1,2})?$`
	phoneRegex  = `^\d{4,32}$`
)

const (
	AmountTag = "amount"
	PhoneTag  = "phone"
)

var (
	amountPattern = regexp.MustCompile(amountRegex)
	phonePattern  = regexp.MustCompile(phoneRegex)
)

var valid = map[string]func(fl validator.FieldLevel) bool{
	AmountTag: ValidateAmount,
	PhoneTag:  ValidatePhone,
}

// ValidateAmount accepts decimal strings with at most two fraction digits,
// using either a dot or a comma as separator.
func ValidateAmount(fl validator.FieldLevel) bool {
	return amountPattern.MatchString(fl.Field().String())
}

func ValidatePhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

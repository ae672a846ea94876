package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func ValidateRequest(req interface{}) error {
	return validate.Struct(req)
}

// fieldErrors flattens validator output to {"field": "reason"}.
func fieldErrors(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		field := strings.ToLower(fe.Field())
		if fe.Param() != "" {
			out[field] = fmt.Sprintf("failed on '%s=%s'", fe.Tag(), fe.Param())
		} else {
			out[field] = fmt.Sprintf("failed on '%s'", fe.Tag())
		}
	}
	return out
}

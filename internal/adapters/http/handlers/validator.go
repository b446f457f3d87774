// Package handlers translates HTTP requests into use case calls and
// use case results into the response envelope. No business logic lives
// here.
package handlers

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/finbridge/walletcore/internal/adapters/http/common"
)

var setupOnce sync.Once

// SetupValidator registers the custom validators with gin's binding
// engine. Field names in validation errors use the json tag.
func SetupValidator() {
	setupOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			// The DTO packages tag their rules with `validate`, not gin's
			// default `binding`.
			v.SetTagName("validate")
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
				if name == "-" {
					return ""
				}
				return name
			})

			_ = v.RegisterValidation("currency_code", validateCurrencyCode)
			_ = v.RegisterValidation("money_amount", validateMoneyAmount)
		}
	})
}

// validateCurrencyCode accepts a 3-letter uppercase ISO code. Whether
// the currency is actually supported is the domain's call.
func validateCurrencyCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) != 3 {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

// moneyPattern accepts positive decimal strings with at most two
// fractional digits, matching the ledger's precision.
var moneyPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

func validateMoneyAmount(fl validator.FieldLevel) bool {
	return moneyPattern.MatchString(fl.Field().String())
}

// HandleValidationErrors renders binding failures as a field-level 400.
func HandleValidationErrors(c *gin.Context, err error) {
	var fieldErrors []common.FieldError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldErr := range validationErrors {
			fieldErrors = append(fieldErrors, common.FieldError{
				Field:   fieldErr.Field(),
				Message: getValidationMessage(fieldErr),
				Code:    fieldErr.Tag(),
			})
		}
	}

	if len(fieldErrors) == 0 {
		common.BadRequestResponse(c, "Invalid request body: "+err.Error())
		return
	}

	common.ValidationErrorResponse(c, fieldErrors)
}

func getValidationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "uuid":
		return "Invalid UUID format"
	case "e164":
		return "Invalid phone number (use E.164, like +254712345678)"
	case "min":
		return "Value is too short (minimum: " + fe.Param() + ")"
	case "max":
		return "Value is too long (maximum: " + fe.Param() + ")"
	case "oneof":
		return "Value must be one of: " + fe.Param()
	case "currency_code":
		return "Invalid currency code (must be 3 uppercase letters)"
	case "money_amount":
		return "Invalid amount format (use a decimal like '100.50')"
	case "gt":
		return "Value must be greater than " + fe.Param()
	default:
		return "Invalid value"
	}
}

// BindJSON binds the request body and writes the 400 itself on failure.
// Returns true when binding succeeded.
func BindJSON[T any](c *gin.Context, req *T) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		HandleValidationErrors(c, err)
		return false
	}
	return true
}

// BindQuery binds query parameters.
func BindQuery[T any](c *gin.Context, req *T) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		HandleValidationErrors(c, err)
		return false
	}
	return true
}

package utils

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/beneficlub/backoffice/internal/domain/shared"
	"github.com/beneficlub/backoffice/internal/shared/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	RegisterValidations(validate)
}

// RegisterValidations installs JSON field naming and the Brazilian document
// and phone rules. The router also calls it on gin's binding engine so that
// ShouldBindJSON understands `binding:"cpf"` and friends.
func RegisterValidations(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return shared.IsValidCPF(fl.Field().String())
	})
	_ = v.RegisterValidation("cnpj", func(fl validator.FieldLevel) bool {
		return shared.IsValidCNPJ(fl.Field().String())
	})
	_ = v.RegisterValidation("document", func(fl validator.FieldLevel) bool {
		return shared.IsValidDocument(fl.Field().String())
	})
	_ = v.RegisterValidation("phone_br", func(fl validator.FieldLevel) bool {
		return shared.NormalizePhoneBR(fl.Field().String()) != ""
	})
}

// RegisterBindingValidations installs the rules on gin's default validator.
func RegisterBindingValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterValidations(v)
	}
}

// ValidateStruct validates s and folds every field error into one AppError.
func ValidateStruct(s any) error {
	return ValidationErrorFrom(validate.Struct(s))
}

// ValidationErrorFrom converts a binding or validation error into an
// AppError. Errors that are not validator errors (malformed JSON, wrong
// types) become a generic bad request.
func ValidationErrorFrom(err error) error {
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.NewBadRequestError("Invalid request body", err.Error())
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		messages = append(messages, getFieldErrorMessage(fieldError))
	}

	return errors.NewValidationError("Validation failed", strings.Join(messages, "; "))
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, param)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, param)
	case "cpf":
		return fmt.Sprintf("%s must be a valid CPF", field)
	case "cnpj":
		return fmt.Sprintf("%s must be a valid CNPJ", field)
	case "document":
		return fmt.Sprintf("%s must be a valid CPF or CNPJ", field)
	case "phone_br":
		return fmt.Sprintf("%s must be a valid Brazilian phone number", field)
	default:
		return fmt.Sprintf("%s failed validation for '%s'", field, fe.Tag())
	}
}

package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/solarcrm/pipeline-crm/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("stage", func(fl validator.FieldLevel) bool {
		return entity.Stage(fl.Field().String()).Valid()
	})
	return v
}

func ValidateLeadInput(input entity.LeadInput) []ValidationError {
	return collect(validate.Struct(input))
}

func ValidateLeadChanges(changes entity.LeadChanges) []ValidationError {
	return collect(validate.Struct(changes))
}

func ValidateUserInput(input entity.UserInput) []ValidationError {
	return collect(validate.Struct(input))
}

func ValidateUserChanges(changes entity.UserChanges) []ValidationError {
	return collect(validate.Struct(changes))
}

func collect(err error) []ValidationError {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Field: "-", Message: err.Error()}}
	}
	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{Field: fe.Field(), Message: describe(fe)})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "email":
		return "no es un correo válido"
	case "gte":
		return "no puede ser negativo"
	case "min":
		return "no puede estar vacío"
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "stage":
		return "etapa desconocida"
	default:
		return "es inválido"
	}
}

// asDomainError folds validation failures into one message, the way the
// backend reports its own rejections.
func asDomainError(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return &DomainError{
		Code:    "VALIDATION_ERROR",
		Message: "Datos inválidos: " + strings.Join(parts, ", "),
	}
}

package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"vidtube/internal/catalog"
	"vidtube/internal/models"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("video_category", func(fl validator.FieldLevel) bool {
		return catalog.IsCategory(fl.Field().String())
	})
	return v
}

// validationError turns the first failing field into a field-local AppError.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return models.NewInternalError(err)
	}
	fe := verrs[0]
	return models.NewFieldError(fe.Field(), describeFieldError(fe))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "video_category":
		return "must be one of " + strings.Join(catalog.Categories(), ", ")
	default:
		return "is invalid"
	}
}

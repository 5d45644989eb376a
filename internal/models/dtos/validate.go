package dtos

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"route-vending/tablegrid/internal/constants"

	"github.com/go-playground/validator/v10"
)

var dataKeyPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// requestValidate is shared by every request DTO. Initialized in init() with
// the custom rules below.
var requestValidate *validator.Validate

func init() {
	requestValidate = validator.New()
	requestValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = requestValidate.RegisterValidation("datakey", validateDataKey)
}

// validateDataKey accepts identifiers usable as a row field name.
func validateDataKey(fl validator.FieldLevel) bool {
	return dataKeyPattern.MatchString(fl.Field().String())
}

// Validate runs the struct tags on v and reports the first failing field as
// a constants.FieldError.
func Validate(v any) error {
	err := requestValidate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", constants.ErrValidation, err)
	}

	fe := verrs[0]
	return constants.NewFieldError(fe.Field(), describe(fe))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "latitude":
		return "must be a latitude between -90 and 90"
	case "longitude":
		return "must be a longitude between -180 and 180"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "datakey":
		return "must start with a letter and contain only letters, digits or underscores"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

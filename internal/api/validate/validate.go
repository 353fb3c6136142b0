// Package validate checks decoded request payloads with struct tags and turns
// the first failure into a model.ValidationError.
package validate

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dineguide/dineguide/internal/model"
	"github.com/dineguide/dineguide/internal/services"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = val.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return services.ValidSlug(fl.Field().String())
	})
	_ = val.RegisterValidation("rating", validRating)
	_ = val.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	return val
}

// validRating accepts whole numbers from 1 to 5 in any numeric field.
func validRating(fl validator.FieldLevel) bool {
	var f float64
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		f = fl.Field().Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f = float64(fl.Field().Int())
	default:
		return false
	}
	return f == math.Trunc(f) && f >= 1 && f <= 5
}

// Struct validates s and reports the first violated rule.
func Struct(s interface{}) error {
	return convert(v.Struct(s))
}

// Slug validates a slug taken from the request path.
func Slug(slug string) error {
	if err := v.Var(slug, "required,max=80,slug"); err != nil {
		return model.NewValidationError("slug", "slug must be lowercase letters, digits and hyphens")
	}
	return nil
}

func convert(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return model.NewValidationError("", err.Error())
	}
	fe := verrs[0]
	return model.NewValidationError(fe.Field(), message(fe))
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s exceeds %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "slug":
		return fmt.Sprintf("%s must be lowercase letters, digits and hyphens", field)
	case "rating":
		return fmt.Sprintf("%s must be an integer from 1 to 5", field)
	case "finite":
		return fmt.Sprintf("%s must be a valid price", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// Package validation wraps go-playground/validator with the custom tags used
// by the questionnaire: flavour, brewstyle, adventure and rating. Each tag
// checks a value against the fixed vocabularies in the models package.
package validation

import (
	"errors"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"

	"mspro-labs/bean-thinking/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError names one struct field that failed and the tag it failed on.
type FieldError struct {
	Field string
	Tag   string
}

// Get returns the singleton validator with the vocabulary tags registered.
func Get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		register(validate, "flavour", models.FlavourOptions)
		register(validate, "brewstyle", models.BrewStyles)
		register(validate, "adventure", models.AdventureLevels)
		register(validate, "rating", models.FeedbackRatings)
	})
	return validate
}

func register(v *validator.Validate, tag string, options []string) {
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return slices.Contains(options, fl.Field().String())
	})
}

// Struct validates s and flattens any failures into FieldErrors.
// A nil slice means s is valid.
func Struct(s any) ([]FieldError, error) {
	err := Get().Struct(s)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Tag: fe.Tag()})
	}
	return out, nil
}

// Var validates a single value against tag.
func Var(value any, tag string) bool {
	return Get().Var(value, tag) == nil
}

package formcheck

import "github.com/go-playground/validator/v10"

// ExerciseTag validates that a string field names an exercise the analyzer supports.
const ExerciseTag = "exercise"

func RegisterValidation(v *validator.Validate, a IAnalyzer) error {
	return v.RegisterValidation(ExerciseTag, func(fl validator.FieldLevel) bool {
		return a.Supports(fl.Field().String())
	})
}

package config

import (
	"github.com/AChakka/LiftMate/pkg/formcheck"
	"github.com/go-playground/validator/v10"
)

func NewValidator(analyzer formcheck.IAnalyzer) (*validator.Validate, error) {
	v := validator.New()
	if err := formcheck.RegisterValidation(v, analyzer); err != nil {
		return nil, err
	}
	return v, nil
}

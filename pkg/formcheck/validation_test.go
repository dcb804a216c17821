package formcheck

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestRegisterValidation(t *testing.T) {
	v := validator.New()
	if err := RegisterValidation(v, NewAnalyzer()); err != nil {
		t.Fatalf("register: %v", err)
	}

	type request struct {
		ExerciseType string `validate:"required,exercise"`
	}

	tests := []struct {
		exercise string
		valid    bool
	}{
		{"squat", true},
		{"Squat", true},
		{"deadlift", false},
		{"", false},
	}
	for _, tt := range tests {
		err := v.Struct(request{ExerciseType: tt.exercise})
		if (err == nil) != tt.valid {
			t.Errorf("%q: expected valid=%v, got %v", tt.exercise, tt.valid, err)
		}
	}
}

package form

import "github.com/AChakka/LiftMate/pkg/response"

var (
	ErrNoData              = response.NewError(400, "No data provided")
	ErrNoImage             = response.NewError(400, "No image provided")
	ErrNoExerciseType      = response.NewError(400, "No exercise type provided")
	ErrUnsupportedExercise = response.NewError(400, "Unsupported exercise type. Only 'squat' is supported.")
	ErrInvalidImage        = response.NewError(400, "Invalid image data")
	ErrPoseEstimation      = response.NewError(502, "pose estimation failed")
)

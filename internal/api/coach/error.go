package coach

import "github.com/AChakka/LiftMate/pkg/response"

var (
	ErrEmptyMessage          = response.NewError(400, "message is required")
	ErrCoachUnavailable      = response.NewError(503, "coach is not configured")
	ErrCoachFailed           = response.NewError(502, "coach failed to reply")
	ErrClassifierUnavailable = response.NewError(503, "exercise classifier is not configured")
	ErrClassificationFailed  = response.NewError(502, "failed to classify exercise")
	ErrInvalidImage          = response.NewError(400, "Invalid image data")
)

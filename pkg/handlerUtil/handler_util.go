package handlerUtil

import (
	"errors"

	"github.com/AChakka/LiftMate/internal/api/coach"
	"github.com/AChakka/LiftMate/internal/api/form"
	"github.com/AChakka/LiftMate/internal/api/workout"
	"github.com/AChakka/LiftMate/pkg/log"
	"github.com/AChakka/LiftMate/pkg/response"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

var errorCodes = []struct {
	err  error
	code string
}{
	// Workout domain errors
	{workout.ErrSessionNotFound, "SESSION_NOT_FOUND"},
	{workout.ErrSessionEnded, "SESSION_ENDED"},
	{workout.ErrInvalidSessionID, "INVALID_SESSION_ID"},
	{workout.ErrArchiveSession, "ARCHIVE_FAILED"},

	// Form domain errors
	{form.ErrNoData, "NO_DATA"},
	{form.ErrNoImage, "NO_IMAGE"},
	{form.ErrNoExerciseType, "NO_EXERCISE_TYPE"},
	{form.ErrUnsupportedExercise, "UNSUPPORTED_EXERCISE"},
	{form.ErrInvalidImage, "INVALID_IMAGE"},
	{form.ErrPoseEstimation, "POSE_ESTIMATION_FAILED"},

	// Coach domain errors
	{coach.ErrEmptyMessage, "EMPTY_MESSAGE"},
	{coach.ErrCoachUnavailable, "COACH_UNAVAILABLE"},
	{coach.ErrCoachFailed, "COACH_FAILED"},
	{coach.ErrClassifierUnavailable, "CLASSIFIER_UNAVAILABLE"},
	{coach.ErrClassificationFailed, "CLASSIFICATION_FAILED"},
}

// Code returns the machine-readable code for a known domain error.
func Code(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return ""
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	fields := log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}

	if errors.As(err, new(*response.Error)) {
		status := response.StatusCode(err)
		fields["code"] = status
		if status >= fiber.StatusInternalServerError {
			h.logger.WithFields(fields).Error("Operation failed with error response")
		} else {
			h.logger.WithFields(fields).Warn("Operation failed with error response")
		}
		return c.Status(status).JSON(ErrorResponse{
			Error: err.Error(),
			Code:  Code(err),
		})
	}

	h.logger.WithFields(fields).Error("Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "An error occurred",
		Code:    "INTERNAL_ERROR",
		Details: err.Error(),
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error: "Validation failed: " + err.Error(),
		Code:  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(ErrorResponse{
		Error: utils.StatusMessage(fiber.StatusRequestTimeout),
		Code:  "REQUEST_TIMEOUT",
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}

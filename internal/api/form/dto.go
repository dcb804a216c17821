package form

import "github.com/AChakka/LiftMate/internal/entity"

type AnalyzeFormRequest struct {
	Image        string `json:"image"`
	ExerciseType string `json:"exercise_type"`
	SessionID    string `json:"session_id" validate:"max=128"`
}

// StreamQuery is read from the query string of the streaming endpoint.
type StreamQuery struct {
	ExerciseType string `query:"exercise_type" validate:"required,exercise"`
	SessionID    string `query:"session_id" validate:"max=128"`
}

type AnalyzeFormResponse struct {
	Analysis  entity.FrameFeedback    `json:"analysis"`
	Keypoints entity.Keypoints        `json:"keypoints"`
	Timestamp float64                 `json:"timestamp"`
	Session   *entity.SessionSnapshot `json:"session"`
}

type VersionResponse struct {
	APIVersion         string   `json:"api_version"`
	ModelVersion       string   `json:"model_version"`
	SupportedExercises []string `json:"supported_exercises"`
}

type HealthResponse struct {
	Status    string  `json:"status"`
	Timestamp float64 `json:"timestamp"`
}

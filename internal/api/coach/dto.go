package coach

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type ChatRequest struct {
	Message   string        `json:"message"`
	History   []ChatMessage `json:"history" validate:"max=50,dive"`
	SessionID string        `json:"session_id" validate:"max=128"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type ClassifyExerciseRequest struct {
	Image string `json:"image" validate:"required"`
}

type ClassifyExerciseResponse struct {
	Exercise   string  `json:"exercise"`
	Confidence float64 `json:"confidence"`
	Supported  bool    `json:"supported"`
}

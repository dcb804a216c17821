package workout

import "github.com/AChakka/LiftMate/internal/entity"

type SessionSummaryResponse struct {
	SessionID    string            `json:"session_id"`
	ExerciseType string            `json:"exercise_type"`
	Duration     float64           `json:"duration"`
	FormQuality  float64           `json:"form_quality"`
	TotalFrames  int               `json:"total_frames"`
	TopIssues    []entity.TopIssue `json:"top_issues"`
	Completed    bool              `json:"completed"`
}

func NewSessionSummaryResponse(s entity.SessionSummary) SessionSummaryResponse {
	topIssues := s.TopIssues
	if topIssues == nil {
		topIssues = []entity.TopIssue{}
	}
	return SessionSummaryResponse{
		SessionID:    s.SessionID,
		ExerciseType: s.ExerciseType,
		Duration:     s.Duration,
		FormQuality:  s.FormQuality,
		TotalFrames:  s.TotalFrames,
		TopIssues:    topIssues,
		Completed:    s.Completed,
	}
}

package entity

import "time"

type FrameRecord struct {
	Timestamp time.Time     `json:"timestamp"`
	Keypoints Keypoints     `json:"keypoints"`
	Analysis  FrameFeedback `json:"analysis"`
}

type IssueStat struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type TopIssue struct {
	Issue      string  `json:"issue"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// SessionSnapshot is returned after every frame update.
type SessionSnapshot struct {
	SessionID    string               `json:"session_id"`
	Duration     float64              `json:"duration"`
	TotalFrames  int                  `json:"total_frames"`
	CommonIssues map[string]IssueStat `json:"common_issues"`
}

type SessionSummary struct {
	SessionID    string     `json:"session_id" db:"id"`
	ExerciseType string     `json:"exercise_type" db:"exercise_type"`
	Duration     float64    `json:"duration" db:"duration"`
	FormQuality  float64    `json:"form_quality" db:"form_quality"`
	TotalFrames  int        `json:"total_frames" db:"total_frames"`
	TopIssues    []TopIssue `json:"top_issues" db:"-"`
	Completed    bool       `json:"completed" db:"completed"`
	StartedAt    time.Time  `json:"started_at" db:"started_at"`
	LastUpdateAt time.Time  `json:"last_update_at" db:"last_update_at"`
}

package formcheck

import "github.com/AChakka/LiftMate/internal/entity"

type IAnalyzer interface {
	Analyze(keypoints entity.Keypoints, exerciseType string) entity.FrameFeedback
	Supports(exerciseType string) bool
	Exercises() []string
}

// JointAngles holds one value per tracked joint.
type JointAngles struct {
	Hip   float64 `json:"hip"`
	Knee  float64 `json:"knee"`
	Ankle float64 `json:"ankle"`
}

// EvaluateFunc applies an exercise's rules to one frame. A returned error is
// reported to the caller as a detection failure.
type EvaluateFunc func(keypoints entity.Keypoints, rs RuleSet) (entity.FrameFeedback, error)

// RuleSet bundles everything the analyzer needs for one exercise.
type RuleSet struct {
	Exercise   string
	Ideal      JointAngles
	Thresholds JointAngles
	Evaluate   EvaluateFunc
}

// Measurement keys reported in FrameFeedback.Measurements.
const (
	MeasurementHipAngle   = "hip_angle"
	MeasurementKneeAngle  = "knee_angle"
	MeasurementTorsoAngle = "torso_angle"
)

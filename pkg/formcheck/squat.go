package formcheck

import (
	"fmt"
	"math"

	"github.com/AChakka/LiftMate/internal/entity"
	"github.com/AChakka/LiftMate/pkg/geometry"
)

const (
	IssueHipAngle          = "Your Hip angle is incorrect FIX IT NOW."
	IssueKneesTooDeep      = "Your Knees are bending too much. Don't go so DEEP."
	IssueKneesNotDeep      = "Knees are not bending enough. Lower your squat position."
	IssueTorsoLean         = "Your torso is leaning too far forward keep your chest up."
	IssueHipImbalance      = "Hips are not level. Balance your weight evenly."
	IssueKneeImbalance     = "Knees are not tracking evenly. Ensure even weight distribution."
	IssueInsufficientDepth = "Not squatting deep enough. Lower your hips below your knees."
)

const (
	squatMaxTorsoLean     = 75.0
	squatMaxSideImbalance = 30.0
	// knees must not sit this many pixels above the hip line
	squatDepthMargin = 20.0
)

func Squat() RuleSet {
	return RuleSet{
		Exercise:   "squat",
		Ideal:      JointAngles{Hip: 90.0, Knee: 110.0, Ankle: 70.0},
		Thresholds: JointAngles{Hip: 45.0, Knee: 45.0, Ankle: 40.0},
		Evaluate:   evaluateSquat,
	}
}

type side struct {
	shoulder, hip, knee, ankle geometry.Point
}

func (s side) angles() (hip, knee, torso float64, err error) {
	if hip, err = geometry.JointAngle(s.shoulder, s.hip, s.knee); err != nil {
		return 0, 0, 0, fmt.Errorf("hip angle: %w", err)
	}
	if knee, err = geometry.JointAngle(s.hip, s.knee, s.ankle); err != nil {
		return 0, 0, 0, fmt.Errorf("knee angle: %w", err)
	}
	if torso, err = geometry.VerticalAngle(s.hip, s.shoulder); err != nil {
		return 0, 0, 0, fmt.Errorf("torso angle: %w", err)
	}
	return hip, knee, torso, nil
}

func resolveSide(kp entity.Keypoints, shoulder, hip, knee, ankle entity.Landmark) (side, error) {
	var s side
	var err error
	if s.shoulder, err = kp.At(shoulder); err != nil {
		return side{}, err
	}
	if s.hip, err = kp.At(hip); err != nil {
		return side{}, err
	}
	if s.knee, err = kp.At(knee); err != nil {
		return side{}, err
	}
	if s.ankle, err = kp.At(ankle); err != nil {
		return side{}, err
	}
	return s, nil
}

func evaluateSquat(kp entity.Keypoints, rs RuleSet) (entity.FrameFeedback, error) {
	left, err := resolveSide(kp, entity.LeftShoulder, entity.LeftHip, entity.LeftKnee, entity.LeftAnkle)
	if err != nil {
		return entity.FrameFeedback{}, err
	}
	right, err := resolveSide(kp, entity.RightShoulder, entity.RightHip, entity.RightKnee, entity.RightAnkle)
	if err != nil {
		return entity.FrameFeedback{}, err
	}

	hipLeft, kneeLeft, torsoLeft, err := left.angles()
	if err != nil {
		return entity.FrameFeedback{}, fmt.Errorf("left side %w", err)
	}
	hipRight, kneeRight, torsoRight, err := right.angles()
	if err != nil {
		return entity.FrameFeedback{}, fmt.Errorf("right side %w", err)
	}

	hipAngle := (hipLeft + hipRight) / 2
	kneeAngle := (kneeLeft + kneeRight) / 2
	torsoAngle := (torsoLeft + torsoRight) / 2

	issues := make([]string, 0, 6)

	if math.Abs(hipAngle-rs.Ideal.Hip) > rs.Thresholds.Hip {
		issues = append(issues, IssueHipAngle)
	}

	if math.Abs(kneeAngle-rs.Ideal.Knee) > rs.Thresholds.Knee {
		if kneeAngle < rs.Ideal.Knee {
			issues = append(issues, IssueKneesTooDeep)
		} else {
			issues = append(issues, IssueKneesNotDeep)
		}
	}

	if torsoAngle > squatMaxTorsoLean {
		issues = append(issues, IssueTorsoLean)
	}

	if math.Abs(hipLeft-hipRight) > squatMaxSideImbalance {
		issues = append(issues, IssueHipImbalance)
	}

	if math.Abs(kneeLeft-kneeRight) > squatMaxSideImbalance {
		issues = append(issues, IssueKneeImbalance)
	}

	hipY := (left.hip.Y + right.hip.Y) / 2
	kneeY := (left.knee.Y + right.knee.Y) / 2
	if kneeY <= hipY-squatDepthMargin {
		issues = append(issues, IssueInsufficientDepth)
	}

	return entity.FrameFeedback{
		Issues:  issues,
		Overall: Verdict(len(issues)),
		Measurements: map[string]float64{
			MeasurementHipAngle:   geometry.Round(hipAngle, 1),
			MeasurementKneeAngle:  geometry.Round(kneeAngle, 1),
			MeasurementTorsoAngle: geometry.Round(torsoAngle, 1),
		},
	}, nil
}

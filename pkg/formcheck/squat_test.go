package formcheck

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/AChakka/LiftMate/internal/entity"
)

const segmentLength = 100.0

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// buildSide places an upright torso at x and bends hip and knee by the
// requested joint angles.
func buildSide(x, hipDeg, kneeDeg float64) (shoulder, hip, knee, ankle entity.Keypoint) {
	hip = entity.Keypoint{x, 200}
	shoulder = entity.Keypoint{x, 200 - segmentLength}

	h := radians(hipDeg)
	thighX, thighY := math.Sin(h), -math.Cos(h)
	knee = entity.Keypoint{hip[0] + segmentLength*thighX, hip[1] + segmentLength*thighY}

	backX, backY := -thighX, -thighY
	k := radians(-kneeDeg)
	shinX := backX*math.Cos(k) - backY*math.Sin(k)
	shinY := backX*math.Sin(k) + backY*math.Cos(k)
	ankle = entity.Keypoint{knee[0] + segmentLength*shinX, knee[1] + segmentLength*shinY}
	return shoulder, hip, knee, ankle
}

func squatPose(hipLeft, kneeLeft, hipRight, kneeRight float64) entity.Keypoints {
	kp := make(entity.Keypoints, entity.LandmarkCount)
	for i := range kp {
		kp[i] = entity.Keypoint{float64(10 + i*7), 40}
	}

	kp[entity.LeftShoulder], kp[entity.LeftHip], kp[entity.LeftKnee], kp[entity.LeftAnkle] =
		buildSide(100, hipLeft, kneeLeft)
	kp[entity.RightShoulder], kp[entity.RightHip], kp[entity.RightKnee], kp[entity.RightAnkle] =
		buildSide(400, hipRight, kneeRight)
	return kp
}

func TestSquat_IdealPose(t *testing.T) {
	analyzer := NewAnalyzer()

	feedback := analyzer.Analyze(squatPose(90, 110, 90, 110), "squat")

	if len(feedback.Issues) != 0 {
		t.Fatalf("expected no issues, got %v", feedback.Issues)
	}
	if feedback.Overall != entity.VerdictGood {
		t.Errorf("expected overall good, got %s", feedback.Overall)
	}

	expected := map[string]float64{
		MeasurementHipAngle:   90.0,
		MeasurementKneeAngle:  110.0,
		MeasurementTorsoAngle: 0.0,
	}
	for key, want := range expected {
		got, ok := feedback.Measurements[key]
		if !ok {
			t.Errorf("missing measurement %s", key)
			continue
		}
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("expected %s=%v, got %v", key, want, got)
		}
	}
}

func TestSquat_Rules(t *testing.T) {
	tests := []struct {
		name      string
		keypoints entity.Keypoints
		issues    []string
		overall   entity.Verdict
	}{
		{
			name:      "hip angle deviates",
			keypoints: squatPose(150, 110, 150, 110),
			issues:    []string{IssueHipAngle},
			overall:   entity.VerdictGood,
		},
		{
			name:      "knees too deep",
			keypoints: squatPose(90, 50, 90, 50),
			issues:    []string{IssueKneesTooDeep},
			overall:   entity.VerdictGood,
		},
		{
			name:      "knees not deep enough",
			keypoints: squatPose(90, 170, 90, 170),
			issues:    []string{IssueKneesNotDeep},
			overall:   entity.VerdictGood,
		},
		{
			name:      "hips uneven",
			keypoints: squatPose(70, 110, 110, 110),
			issues:    []string{IssueHipImbalance},
			overall:   entity.VerdictGood,
		},
		{
			name:      "knees uneven",
			keypoints: squatPose(90, 90, 90, 130),
			issues:    []string{IssueKneeImbalance},
			overall:   entity.VerdictGood,
		},
		{
			name:      "knees above hips",
			keypoints: squatPose(60, 110, 60, 110),
			issues:    []string{IssueInsufficientDepth},
			overall:   entity.VerdictGood,
		},
		{
			name:      "two issues is fair",
			keypoints: squatPose(60, 50, 60, 50),
			issues:    []string{IssueKneesTooDeep, IssueInsufficientDepth},
			overall:   entity.VerdictFair,
		},
		{
			name:      "four issues is poor",
			keypoints: squatPose(20, 30, 80, 80),
			issues: []string{
				IssueKneesTooDeep,
				IssueHipImbalance,
				IssueKneeImbalance,
				IssueInsufficientDepth,
			},
			overall: entity.VerdictPoor,
		},
	}

	analyzer := NewAnalyzer()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feedback := analyzer.Analyze(tt.keypoints, "squat")

			if !reflect.DeepEqual(feedback.Issues, tt.issues) {
				t.Errorf("expected issues %v, got %v", tt.issues, feedback.Issues)
			}
			if feedback.Overall != tt.overall {
				t.Errorf("expected overall %s, got %s", tt.overall, feedback.Overall)
			}
			if len(feedback.Measurements) != 3 {
				t.Errorf("expected 3 measurements, got %v", feedback.Measurements)
			}
		})
	}
}

func TestSquat_TorsoLean(t *testing.T) {
	kp := squatPose(90, 110, 90, 110)
	// shoulders pitched almost horizontal in front of the hips
	kp[entity.LeftShoulder] = entity.Keypoint{kp[entity.LeftHip][0] - 100, kp[entity.LeftHip][1] - 10}
	kp[entity.RightShoulder] = entity.Keypoint{kp[entity.RightHip][0] - 100, kp[entity.RightHip][1] - 10}

	feedback := NewAnalyzer().Analyze(kp, "squat")

	found := false
	for _, issue := range feedback.Issues {
		if issue == IssueTorsoLean {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected torso lean issue, got %v", feedback.Issues)
	}
	if feedback.Measurements[MeasurementTorsoAngle] <= squatMaxTorsoLean {
		t.Errorf("expected torso angle above %v, got %v", squatMaxTorsoLean, feedback.Measurements[MeasurementTorsoAngle])
	}
}

func TestSquat_MeasurementsRounded(t *testing.T) {
	feedback := NewAnalyzer().Analyze(squatPose(93.37, 101.44, 93.37, 101.44), "squat")

	for key, v := range feedback.Measurements {
		if math.Abs(v*10-math.Round(v*10)) > 1e-6 {
			t.Errorf("measurement %s=%v is not rounded to one decimal", key, v)
		}
	}
	if got := feedback.Measurements[MeasurementHipAngle]; math.Abs(got-93.4) > 1e-9 {
		t.Errorf("expected hip angle 93.4, got %v", got)
	}
	if got := feedback.Measurements[MeasurementKneeAngle]; math.Abs(got-101.4) > 1e-9 {
		t.Errorf("expected knee angle 101.4, got %v", got)
	}
}

func TestSquat_DetectionFailures(t *testing.T) {
	degenerate := squatPose(90, 110, 90, 110)
	degenerate[entity.LeftKnee] = degenerate[entity.LeftHip]

	tests := []struct {
		name      string
		keypoints entity.Keypoints
		detail    string
	}{
		{name: "short keypoint set", keypoints: squatPose(90, 110, 90, 110)[:12], detail: "expected 17 keypoints, got 12"},
		{name: "no keypoints", keypoints: nil, detail: "expected 17 keypoints, got 0"},
		{name: "too many keypoints", keypoints: append(squatPose(90, 110, 90, 110), entity.Keypoint{1, 1}), detail: "got 18"},
		{name: "zero length limb", keypoints: degenerate, detail: "degenerate segment"},
	}

	analyzer := NewAnalyzer()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feedback := analyzer.Analyze(tt.keypoints, "squat")

			if feedback.Overall != entity.VerdictUnknown {
				t.Errorf("expected overall unknown, got %s", feedback.Overall)
			}
			if len(feedback.Issues) != 1 {
				t.Fatalf("expected exactly one issue, got %v", feedback.Issues)
			}
			if !strings.HasPrefix(feedback.Issues[0], "Could not detect all necessary joints: ") {
				t.Errorf("unexpected issue text %q", feedback.Issues[0])
			}
			if !strings.Contains(feedback.Issues[0], tt.detail) {
				t.Errorf("expected issue to mention %q, got %q", tt.detail, feedback.Issues[0])
			}
			if feedback.Measurements != nil {
				t.Errorf("expected no measurements, got %v", feedback.Measurements)
			}
			if !IsDetectionFailure(feedback) {
				t.Error("expected IsDetectionFailure to be true")
			}
		})
	}
}

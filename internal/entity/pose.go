package entity

import (
	"fmt"

	"github.com/AChakka/LiftMate/pkg/geometry"
)

type Landmark uint8

const (
	Nose Landmark = iota
	LeftEye
	RightEye
	LeftEar
	RightEar
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
)

// LandmarkCount is the number of keypoints in a canonical pose.
const LandmarkCount = 17

var landmarkNames = [LandmarkCount]string{
	"nose", "left_eye", "right_eye", "left_ear", "right_ear",
	"left_shoulder", "right_shoulder", "left_elbow", "right_elbow",
	"left_wrist", "right_wrist", "left_hip", "right_hip",
	"left_knee", "right_knee", "left_ankle", "right_ankle",
}

var landmarkIndex = func() map[string]Landmark {
	m := make(map[string]Landmark, LandmarkCount)
	for i, name := range landmarkNames {
		m[name] = Landmark(i)
	}
	return m
}()

func (l Landmark) String() string {
	if int(l) >= LandmarkCount {
		return fmt.Sprintf("landmark(%d)", l)
	}
	return landmarkNames[l]
}

func LandmarkByName(name string) (Landmark, bool) {
	l, ok := landmarkIndex[name]
	return l, ok
}

func LandmarkNames() []string {
	names := make([]string, LandmarkCount)
	copy(names, landmarkNames[:])
	return names
}

// Keypoint is an (x, y) image position. It serializes as a two-element array.
type Keypoint [2]float64

func (k Keypoint) Point() geometry.Point {
	return geometry.Point{X: k[0], Y: k[1]}
}

// Keypoints holds one frame's landmarks in canonical order.
type Keypoints []Keypoint

func (k Keypoints) Validate() error {
	if len(k) != LandmarkCount {
		return fmt.Errorf("expected %d keypoints, got %d", LandmarkCount, len(k))
	}
	return nil
}

func (k Keypoints) At(l Landmark) (geometry.Point, error) {
	if int(l) >= len(k) {
		return geometry.Point{}, fmt.Errorf("%s (index %d) missing from %d keypoints", l, l, len(k))
	}
	return k[l].Point(), nil
}

func (k Keypoints) Lookup(name string) (geometry.Point, error) {
	l, ok := LandmarkByName(name)
	if !ok {
		return geometry.Point{}, fmt.Errorf("%q is not a known landmark", name)
	}
	return k.At(l)
}

func (k Keypoints) Clone() Keypoints {
	if k == nil {
		return nil
	}
	out := make(Keypoints, len(k))
	copy(out, k)
	return out
}

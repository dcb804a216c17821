package pose

import (
	"github.com/AChakka/LiftMate/internal/entity"
	"github.com/AChakka/LiftMate/pkg/utils"
	"golang.org/x/net/context"
)

// standing pose in normalized image coordinates
var placeholderPose = [entity.LandmarkCount][2]float64{
	{0.5, 0.1},
	{0.48, 0.095},
	{0.52, 0.095},
	{0.465, 0.1},
	{0.535, 0.1},
	{0.45, 0.15},
	{0.55, 0.15},
	{0.4, 0.25},
	{0.6, 0.25},
	{0.35, 0.35},
	{0.65, 0.35},
	{0.45, 0.4},
	{0.55, 0.4},
	{0.43, 0.6},
	{0.57, 0.6},
	{0.42, 0.85},
	{0.58, 0.85},
}

type placeholderEstimator struct {
	utils utils.IUtils
}

// NewPlaceholderEstimator returns an estimator that ignores image content
// and places a fixed standing pose over the frame.
func NewPlaceholderEstimator(u utils.IUtils) IPoseEstimator {
	return &placeholderEstimator{utils: u}
}

func (p *placeholderEstimator) Extract(ctx context.Context, image []byte) (entity.Keypoints, error) {
	cfg, _, err := p.utils.DecodeImageConfig(image)
	if err != nil {
		return nil, err
	}

	w, h := float64(cfg.Width), float64(cfg.Height)
	kp := make(entity.Keypoints, entity.LandmarkCount)
	for i, pt := range placeholderPose {
		kp[i] = entity.Keypoint{pt[0] * w, pt[1] * h}
	}
	return kp, nil
}

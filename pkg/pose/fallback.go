package pose

import (
	"errors"

	"github.com/AChakka/LiftMate/internal/entity"
	"github.com/AChakka/LiftMate/pkg/log"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type fallbackEstimator struct {
	primary  IPoseEstimator
	fallback IPoseEstimator
	log      *logrus.Logger
}

// NewFallbackEstimator asks primary first and falls back when it fails or
// finds nobody in the frame.
func NewFallbackEstimator(primary, fallback IPoseEstimator, logger *logrus.Logger) IPoseEstimator {
	return &fallbackEstimator{
		primary:  primary,
		fallback: fallback,
		log:      logger,
	}
}

func (f *fallbackEstimator) Extract(ctx context.Context, image []byte) (entity.Keypoints, error) {
	kp, err := f.primary.Extract(ctx, image)
	if err == nil {
		return kp, nil
	}

	entry := log.WithRequestID(f.log, ctx).WithField("error", err.Error())
	if errors.Is(err, ErrNoDetection) {
		entry.Debug("No pose detected, using fallback estimator")
	} else {
		entry.Warn("Pose model failed, using fallback estimator")
	}

	return f.fallback.Extract(ctx, image)
}

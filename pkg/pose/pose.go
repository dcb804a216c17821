package pose

import (
	"errors"

	"github.com/AChakka/LiftMate/internal/entity"
	"golang.org/x/net/context"
)

var (
	ErrNoDetection      = errors.New("no person detected")
	ErrModelUnavailable = errors.New("pose model unavailable")
)

// IPoseEstimator turns one encoded image into image-space keypoints in
// canonical landmark order.
type IPoseEstimator interface {
	Extract(ctx context.Context, image []byte) (entity.Keypoints, error)
}

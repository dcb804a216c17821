package workoutService

import (
	"time"

	workoutRepository "github.com/AChakka/LiftMate/internal/api/workout/repository"
	"github.com/AChakka/LiftMate/internal/entity"
	"github.com/AChakka/LiftMate/pkg/redis"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IWorkoutService interface {
	CheckSession(ctx context.Context, sessionID string) error
	GetOrCreateSession(ctx context.Context, sessionID string, exerciseType string) (*Session, error)
	UpdateSession(ctx context.Context, session *Session, keypoints entity.Keypoints, analysis entity.FrameFeedback) (*entity.SessionSnapshot, error)
	GetSessionSummary(ctx context.Context, sessionID string) (*entity.SessionSummary, error)
	EndSession(ctx context.Context, sessionID string) (*entity.SessionSummary, error)
	SweepIdle(ctx context.Context, maxIdle time.Duration) int
}

type workoutService struct {
	log               *logrus.Logger
	registry          *Registry
	workoutRepository workoutRepository.Repository
	summaryCache      redis.ISummaryCache
	cacheTTL          time.Duration
}

// NewWorkoutService wires the live registry to the optional archive. A nil
// repository or cache keeps sessions purely in memory.
func NewWorkoutService(
	log *logrus.Logger,
	registry *Registry,
	wr workoutRepository.Repository,
	cache redis.ISummaryCache,
	cacheTTL time.Duration,
) IWorkoutService {
	return &workoutService{
		log:               log,
		registry:          registry,
		workoutRepository: wr,
		summaryCache:      cache,
		cacheTTL:          cacheTTL,
	}
}

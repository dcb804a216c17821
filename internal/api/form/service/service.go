package formService

import (
	"github.com/AChakka/LiftMate/internal/api/form"
	workoutService "github.com/AChakka/LiftMate/internal/api/workout/service"
	"github.com/AChakka/LiftMate/pkg/formcheck"
	"github.com/AChakka/LiftMate/pkg/pose"
	"github.com/AChakka/LiftMate/pkg/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const APIVersion = "0.2.0"

type IFormService interface {
	AnalyzeFrame(ctx context.Context, image []byte, exerciseType string, sessionID string) (*form.AnalyzeFormResponse, error)
	SupportsExercise(exerciseType string) bool
	Version() form.VersionResponse
}

type formService struct {
	log            *logrus.Logger
	estimator      pose.IPoseEstimator
	analyzer       formcheck.IAnalyzer
	utils          utils.IUtils
	workoutService workoutService.IWorkoutService
	modelVersion   string
}

func NewFormService(
	log *logrus.Logger,
	estimator pose.IPoseEstimator,
	analyzer formcheck.IAnalyzer,
	utils utils.IUtils,
	workoutService workoutService.IWorkoutService,
	modelVersion string,
) IFormService {
	return &formService{
		log:            log,
		estimator:      estimator,
		analyzer:       analyzer,
		utils:          utils,
		workoutService: workoutService,
		modelVersion:   modelVersion,
	}
}

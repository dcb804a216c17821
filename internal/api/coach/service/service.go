package coachService

import (
	"github.com/AChakka/LiftMate/internal/api/coach"
	workoutService "github.com/AChakka/LiftMate/internal/api/workout/service"
	"github.com/AChakka/LiftMate/pkg/formcheck"
	"github.com/AChakka/LiftMate/pkg/gemini"
	"github.com/AChakka/LiftMate/pkg/openai"
	"github.com/AChakka/LiftMate/pkg/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type ICoachService interface {
	Chat(ctx context.Context, req coach.ChatRequest) (*coach.ChatResponse, error)
	ClassifyExercise(ctx context.Context, image []byte) (*coach.ClassifyExerciseResponse, error)
}

type coachService struct {
	log            *logrus.Logger
	chatGPT        openai.IChatGPT
	gemini         gemini.IGemini
	analyzer       formcheck.IAnalyzer
	utils          utils.IUtils
	workoutService workoutService.IWorkoutService
}

// NewCoachService builds the coach. chatGPT and gemini may be nil, in which
// case the matching operation reports itself unavailable.
func NewCoachService(
	log *logrus.Logger,
	chatGPT openai.IChatGPT,
	gemini gemini.IGemini,
	analyzer formcheck.IAnalyzer,
	utils utils.IUtils,
	workoutService workoutService.IWorkoutService,
) ICoachService {
	return &coachService{
		log:            log,
		chatGPT:        chatGPT,
		gemini:         gemini,
		analyzer:       analyzer,
		utils:          utils,
		workoutService: workoutService,
	}
}

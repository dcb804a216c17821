package coachHandler

import (
	coachService "github.com/AChakka/LiftMate/internal/api/coach/service"
	"github.com/AChakka/LiftMate/internal/middleware"
	"github.com/AChakka/LiftMate/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type CoachHandler struct {
	log          *logrus.Logger
	validator    *validator.Validate
	middleware   middleware.Middleware
	coachService coachService.ICoachService
	utils        utils.IUtils
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	cs coachService.ICoachService,
	utils utils.IUtils,
) *CoachHandler {
	return &CoachHandler{
		log:          log,
		validator:    validator,
		middleware:   middleware,
		coachService: cs,
		utils:        utils,
	}
}

func (h *CoachHandler) Start(srv fiber.Router) {
	srv.Post("/coach/chat", h.middleware.NewRateLimiter, h.Chat)
	srv.Post("/classify_exercise", h.middleware.NewRateLimiter, h.ClassifyExercise)
}

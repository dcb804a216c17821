package workoutHandler

import (
	workoutService "github.com/AChakka/LiftMate/internal/api/workout/service"
	"github.com/AChakka/LiftMate/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type WorkoutHandler struct {
	log            *logrus.Logger
	middleware     middleware.Middleware
	workoutService workoutService.IWorkoutService
}

func New(
	log *logrus.Logger,
	middleware middleware.Middleware,
	workoutService workoutService.IWorkoutService,
) *WorkoutHandler {
	return &WorkoutHandler{
		log:            log,
		middleware:     middleware,
		workoutService: workoutService,
	}
}

func (h *WorkoutHandler) Start(srv fiber.Router) {
	session := srv.Group("/session")

	session.Get("/:id", h.middleware.NewRateLimiter, h.GetSessionSummary)
	session.Delete("/:id", h.middleware.NewRateLimiter, h.EndSession)
}

package formHandler

import (
	"github.com/AChakka/LiftMate/internal/api/form"
	formService "github.com/AChakka/LiftMate/internal/api/form/service"
	"github.com/AChakka/LiftMate/internal/middleware"
	"github.com/AChakka/LiftMate/pkg/handlerUtil"
	"github.com/AChakka/LiftMate/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

const streamQueryLocal = "form_stream_query"

type FormHandler struct {
	log         *logrus.Logger
	validator   *validator.Validate
	middleware  middleware.Middleware
	formService formService.IFormService
	utils       utils.IUtils
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	fs formService.IFormService,
	utils utils.IUtils,
) *FormHandler {
	return &FormHandler{
		log:         log,
		validator:   validator,
		middleware:  middleware,
		formService: fs,
		utils:       utils,
	}
}

func (h *FormHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		var query form.StreamQuery
		if err := c.QueryParser(&query); err != nil {
			return handlerUtil.New(h.log).HandleValidationError(c, h.middleware.GetRequestID(c), err, c.Path())
		}
		if err := h.validator.Struct(query); err != nil {
			return handlerUtil.New(h.log).HandleValidationError(c, h.middleware.GetRequestID(c), err, c.Path())
		}

		c.Locals(streamQueryLocal, query)
		return c.Next()
	}

	srv.Post("/analyze_form", h.middleware.NewRateLimiter, h.AnalyzeForm)
	srv.Use("/analyze_form/ws", wsMiddleware)
	srv.Get("/analyze_form/ws", websocket.New(h.handleStream))

	srv.Get("/version", h.Version)
	srv.Get("/health", h.Health)
}

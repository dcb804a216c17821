package coachHandler

import (
	"fmt"
	"time"

	"github.com/AChakka/LiftMate/internal/api/coach"
	contextPkg "github.com/AChakka/LiftMate/pkg/context"
	"github.com/AChakka/LiftMate/pkg/handlerUtil"
	"github.com/AChakka/LiftMate/pkg/log"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *CoachHandler) Chat(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req coach.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to parse chat request body")
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"session_id": req.SessionID,
		"history":    len(req.History),
	}).Debug("Processing coach chat request")

	res, err := h.coachService.Chat(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "coach_chat")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *CoachHandler) ClassifyExercise(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req coach.ClassifyExerciseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	image, err := h.utils.DecodeBase64Image(req.Image)
	if err != nil {
		return errHandler.Handle(ctx, requestID, fmt.Errorf("%w: %v", coach.ErrInvalidImage, err), ctx.Path(), "classify_exercise")
	}

	res, err := h.coachService.ClassifyExercise(c, image)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "classify_exercise")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

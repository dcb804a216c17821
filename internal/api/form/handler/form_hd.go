package formHandler

import (
	"errors"
	"fmt"
	"time"

	"github.com/AChakka/LiftMate/internal/api/form"
	contextPkg "github.com/AChakka/LiftMate/pkg/context"
	"github.com/AChakka/LiftMate/pkg/handlerUtil"
	"github.com/AChakka/LiftMate/pkg/log"
	"github.com/AChakka/LiftMate/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *FormHandler) AnalyzeForm(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 15*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req form.AnalyzeFormRequest
	if len(ctx.Body()) == 0 {
		return errHandler.Handle(ctx, requestID, form.ErrNoData, ctx.Path(), "analyze_form")
	}
	if err := ctx.BodyParser(&req); err != nil {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to parse analyze form request body")
		return errHandler.Handle(ctx, requestID, form.ErrNoData, ctx.Path(), "analyze_form")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	var image []byte
	if req.Image != "" {
		decoded, err := h.utils.DecodeBase64Image(req.Image)
		if err != nil {
			if errors.Is(err, utils.ErrEmptyImage) {
				return errHandler.Handle(ctx, requestID, form.ErrNoImage, ctx.Path(), "analyze_form")
			}
			return errHandler.Handle(ctx, requestID, fmt.Errorf("%w: %v", form.ErrInvalidImage, err), ctx.Path(), "analyze_form")
		}
		image = decoded
	}

	h.log.WithFields(log.Fields{
		"request_id":    requestID,
		"exercise_type": req.ExerciseType,
		"session_id":    req.SessionID,
	}).Debug("Processing analyze form request")

	res, err := h.formService.AnalyzeFrame(c, image, req.ExerciseType, req.SessionID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "analyze_form")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *FormHandler) Version(ctx *fiber.Ctx) error {
	return handlerUtil.New(h.log).HandleSuccess(ctx, fiber.StatusOK, h.formService.Version())
}

func (h *FormHandler) Health(ctx *fiber.Ctx) error {
	return handlerUtil.New(h.log).HandleSuccess(ctx, fiber.StatusOK, form.HealthResponse{
		Status:    "ok",
		Timestamp: float64(time.Now().UnixNano()) / float64(time.Second),
	})
}

package formHandler

import (
	"errors"
	"fmt"
	"time"

	"github.com/AChakka/LiftMate/internal/api/form"
	"github.com/AChakka/LiftMate/internal/api/workout"
	"github.com/AChakka/LiftMate/internal/middleware"
	contextPkg "github.com/AChakka/LiftMate/pkg/context"
	"github.com/AChakka/LiftMate/pkg/log"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
)

const (
	streamReadTimeout  = 60 * time.Second
	streamWriteTimeout = 10 * time.Second
	streamFrameTimeout = 15 * time.Second
)

func (h *FormHandler) handleStream(c *websocket.Conn) {
	query, _ := c.Locals(streamQueryLocal).(form.StreamQuery)
	requestID, _ := c.Locals(middleware.RequestIDKey).(string)
	sessionID := query.SessionID

	entry := h.log.WithFields(log.Fields{
		"request_id":    requestID,
		"exercise_type": query.ExerciseType,
	})
	entry.Info("Form stream client connected")
	defer entry.Info("Form stream client disconnected")

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			entry.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	for {
		if err := c.SetReadDeadline(time.Now().Add(streamReadTimeout)); err != nil {
			entry.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				entry.Errorf("Form stream error: %v", err)
			} else {
				entry.Info("Form stream connection closed")
			}
			break
		}

		var image []byte
		switch messageType {
		case websocket.BinaryMessage:
			image = message
		case websocket.TextMessage:
			image, err = h.utils.DecodeBase64Image(string(message))
			if err != nil {
				if !h.writeStreamError(c, fmt.Errorf("%w: %v", form.ErrInvalidImage, err)) {
					return
				}
				continue
			}
		default:
			entry.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		ctx, cancel := context.WithTimeout(contextPkg.WithRequestID(context.Background(), requestID), streamFrameTimeout)
		res, err := h.formService.AnalyzeFrame(ctx, image, query.ExerciseType, sessionID)
		cancel()

		if err != nil {
			entry.WithField("error", err.Error()).Warn("Error analyzing streamed frame")
			if !h.writeStreamError(c, err) {
				return
			}
			if errors.Is(err, workout.ErrSessionEnded) || errors.Is(err, workout.ErrInvalidSessionID) {
				_ = c.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
					time.Now().Add(5*time.Second))
				return
			}
			continue
		}

		// later frames land in the session the first one created
		sessionID = res.Session.SessionID

		if err := c.SetWriteDeadline(time.Now().Add(streamWriteTimeout)); err != nil {
			entry.Errorf("Error setting write deadline: %v", err)
			break
		}
		if err := c.WriteJSON(res); err != nil {
			entry.Errorf("Error writing JSON response: %v", err)
			break
		}
		if err := c.SetWriteDeadline(time.Time{}); err != nil {
			entry.Errorf("Error resetting write deadline: %v", err)
			break
		}
	}
}

// writeStreamError reports err to the client and returns false if the
// connection can no longer be written to.
func (h *FormHandler) writeStreamError(c *websocket.Conn, err error) bool {
	_ = c.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	if writeErr := c.WriteJSON(map[string]string{"error": err.Error()}); writeErr != nil {
		h.log.Errorf("Error sending error response: %v", writeErr)
		return false
	}
	_ = c.SetWriteDeadline(time.Time{})
	return true
}

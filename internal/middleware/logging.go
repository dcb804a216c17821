package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/AChakka/LiftMate/pkg/log"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

// payloads longer than this are replaced by their size in request logs
const maxLoggedFieldLength = 256

var sensitiveFields = []string{
	"password", "token", "secret", "key", "auth",
	"credential", "authorization", "api_key",
}

var payloadFields = []string{"image", "frame", "history"}

func LoggerConfig(logger *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID, ok := c.Locals(RequestIDKey).(string)
		if !ok || requestID == "" {
			requestID = "unknown"
		}

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()

		logFields := log.Fields{
			"request_id":    requestID,
			"method":        c.Method(),
			"path":          c.Path(),
			"status":        status,
			"latency_ms":    latency.Milliseconds(),
			"ip":            c.IP(),
			"user_agent":    c.Get("User-Agent"),
			"response_size": len(c.Response().Body()),
		}

		if body := c.Request().Body(); len(body) > 0 {
			logFields["request_body"] = sanitizeRequestBody(body)
		}

		entry := logger.WithFields(logFields)
		switch {
		case status >= 500:
			entry.Error("Server error")
		case status >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Success")
		}

		return err
	}
}

func sanitizeRequestBody(body []byte) string {
	var jsonBody map[string]interface{}
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(body, &jsonBody); err != nil {
		return "[non-JSON body]"
	}

	for field := range jsonBody {
		lower := strings.ToLower(field)
		for _, s := range sensitiveFields {
			if strings.Contains(lower, s) {
				jsonBody[field] = "[SECRET]"
			}
		}
	}

	for _, field := range payloadFields {
		v, exists := jsonBody[field]
		if !exists {
			continue
		}
		if s, ok := v.(string); ok && len(s) <= maxLoggedFieldLength {
			continue
		}
		raw, _ := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(v)
		jsonBody[field] = fmt.Sprintf("[%d bytes]", len(raw))
	}

	sanitized, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(jsonBody)
	if err != nil {
		return "[sanitization-failed]"
	}

	return string(sanitized)
}

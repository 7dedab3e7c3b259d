package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/penoFahmi/e-arsip-sub000/utils/logger"
	"github.com/sirupsen/logrus"
)

// RequestLogger writes one app log entry per request.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		fields := logrus.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     c.Response().StatusCode(),
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         c.IP(),
		}
		if rid, ok := c.Locals("requestid").(string); ok {
			fields["request_id"] = rid
		}
		if uid, ok := c.Locals(ContextUserIDKey).(uint); ok {
			fields["user_id"] = uid
		}

		entry := logger.App().WithFields(fields)
		switch status := c.Response().StatusCode(); {
		case err != nil:
			entry.WithError(err).Error("request failed")
		case status >= fiber.StatusInternalServerError:
			entry.Error("request")
		case status >= fiber.StatusBadRequest:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
		return err
	}
}

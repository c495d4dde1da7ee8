package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "X-Request-ID"
	LocalRequestID  = "request_id"
	// LocalError holds the underlying error of a failed request for the access log.
	LocalError = "request_error"
)

// RequestLogger assigns a request id and logs every request once it completes.
func RequestLogger(log *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalRequestID, rid)
		c.Set(HeaderRequestID, rid)

		err := c.Next()
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		fields := []interface{}{
			"method", c.Method(),
			"path", c.Path(),
			"ip", c.IP(),
			"status", status,
			"latency", time.Since(start),
			"request_id", rid,
		}
		cause, _ := c.Locals(LocalError).(error)
		if cause == nil {
			cause = err
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			log.Errorw("request failed", append(fields, "error", cause)...)
		case cause != nil:
			log.Infow("request", append(fields, "error", cause.Error())...)
		default:
			log.Infow("request", fields...)
		}
		return nil
	}
}

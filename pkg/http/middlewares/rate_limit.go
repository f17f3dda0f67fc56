package middlewares

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/oarkflow/contact/pkg/libs"
	"github.com/oarkflow/contact/pkg/security"
	"github.com/oarkflow/contact/pkg/utils"
)

// RateLimitWithMax limits each client to maxRequests per minute on the
// routes it guards. Attempts are counted per client address and path.
func RateLimitWithMax(m *libs.Manager, maxRequests int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		client := utils.GetClient(c)
		endpointID := fmt.Sprintf("%s:%s", client.IP, c.Path())

		limit := m.Limiter.CheckLimit(endpointID, maxRequests, time.Minute)
		if !limit.Allowed {
			m.Logger.Log(security.EventRateLimitExceeded, map[string]any{
				"userIP":    endpointID,
				"resetTime": security.Timestamp(limit.ResetTime),
			}, client)
			retryAfter := utils.RetryAfterSeconds(limit.ResetTime, time.Now())
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Too many requests",
				"message":     "Please wait before making another request",
				"retry_after": retryAfter,
			})
		}
		return c.Next()
	}
}

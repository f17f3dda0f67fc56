package utils

import (
	"math"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/oarkflow/contact/pkg/models"
)

func GetClientIP(c *fiber.Ctx) string {
	if xff := c.Get("X-Forwarded-For"); len(xff) > 0 {
		if comma := strings.IndexByte(xff, ','); comma > 0 {
			return strings.TrimSpace(xff[:comma])
		}
		return strings.TrimSpace(xff)
	}

	if xri := c.Get("X-Real-IP"); len(xri) > 0 {
		return strings.TrimSpace(xri)
	}

	ip := c.IP()
	if strings.Count(ip, ":") == 1 {
		return ip[:strings.IndexByte(ip, ':')]
	}
	return ip
}

// GetClient collects the client signals used for rate limiting and
// security log entries.
func GetClient(c *fiber.Ctx) models.Client {
	return models.Client{
		IP:        GetClientIP(c),
		UserAgent: c.Get(fiber.HeaderUserAgent),
		URL:       c.BaseURL() + c.OriginalURL(),
		Referrer:  c.Get(fiber.HeaderReferer),
	}
}

// WantsJSON reports whether the response should be JSON rather than HTML.
// A JSON request body counts as asking for JSON.
func WantsJSON(c *fiber.Ctx) bool {
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		return true
	}
	if c.Get(fiber.HeaderAccept) == "" {
		return false
	}
	return c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON
}

// RetryAfterSeconds rounds the wait until reset up to whole seconds, at
// least one.
func RetryAfterSeconds(reset, now time.Time) int {
	seconds := int(math.Ceil(reset.Sub(now).Seconds()))
	if seconds < 1 {
		return 1
	}
	return seconds
}

package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/oarkflow/contact/pkg/libs"
	"github.com/oarkflow/contact/pkg/security"
	"github.com/oarkflow/contact/pkg/utils"
)

var allowedContentTypes = []string{
	fiber.MIMEApplicationJSON,
	fiber.MIMEApplicationForm,
	fiber.MIMEMultipartForm,
}

// RequestValidation rejects requests whose path or query carries an attack
// pattern, logging them as suspicious activity, and POST requests with an
// unsupported body type.
func RequestValidation(m *libs.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if pattern := security.Suspicious(c.Path(), string(c.Request().URI().QueryString())); pattern != "" {
			m.Logger.Log(security.EventSuspiciousActivity, map[string]any{
				"path":    c.Path(),
				"pattern": pattern,
			}, utils.GetClient(c))
			return fiber.NewError(fiber.StatusBadRequest, "The request contains invalid characters.")
		}
		if c.Method() == fiber.MethodPost && !allowedContentType(c.Get(fiber.HeaderContentType)) {
			return fiber.NewError(fiber.StatusUnsupportedMediaType, "Unsupported content type for POST request.")
		}
		return c.Next()
	}
}

func allowedContentType(contentType string) bool {
	for _, allowed := range allowedContentTypes {
		if strings.Contains(contentType, allowed) {
			return true
		}
	}
	return false
}

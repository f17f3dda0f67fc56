package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/oarkflow/contact/pkg/http/responses"
	"github.com/oarkflow/contact/pkg/libs"
	"github.com/oarkflow/contact/pkg/models"
	"github.com/oarkflow/contact/pkg/security"
	"github.com/oarkflow/contact/pkg/utils"
)

func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// SecurityLogs returns the persisted security log, oldest entry first.
func SecurityLogs(m *libs.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entries := m.Logger.Entries()
		if entries == nil {
			entries = []security.Entry{}
		}
		return c.JSON(fiber.Map{
			"entries": entries,
			"count":   len(entries),
		})
	}
}

// ErrorHandler answers failed requests with JSON or the error page. Every
// failure gets an error id that is both logged and shown to the client; the
// raw error text is only shown outside production.
func ErrorHandler(r *responses.Renderer, cfg *libs.Config, log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "Internal Server Error"
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
			message = fiberErr.Message
		}
		errorID := fmt.Sprintf("ERR-%d-%d", time.Now().Unix(), status)
		if status >= fiber.StatusInternalServerError {
			log.Error("request failed", zap.String("error_id", errorID), zap.String("path", c.Path()), zap.Error(err))
		}
		if utils.WantsJSON(c) {
			c.Set("X-Error-Id", errorID)
			return responses.Error(c, status, message)
		}
		data := models.ErrorPageData{
			Title:      "Erreur",
			StatusCode: status,
			Message:    message,
			RetryURL:   utils.ContactURI,
			ErrorID:    errorID,
		}
		if status == fiber.StatusBadRequest || status == fiber.StatusForbidden {
			data.Description = utils.Message(cfg.Locale, utils.MsgSecurityError)
		}
		if cfg.Env != "production" {
			data.Technical = err.Error()
		}
		c.Status(status)
		return r.Render(c, utils.ErrorTemplate, data)
	}
}

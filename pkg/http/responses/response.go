package responses

import (
	"github.com/gofiber/fiber/v2"
)

// Renderer renders views through an explicit engine, or through the app
// engine when Views is nil.
type Renderer struct {
	Views  fiber.Views
	Layout string
}

func (r *Renderer) Render(c *fiber.Ctx, template string, data any, layouts ...string) error {
	if c == nil {
		return fiber.ErrBadRequest
	}
	if template == "" || r == nil {
		return c.JSON(data)
	}
	layout := r.Layout
	if len(layouts) > 0 {
		layout = layouts[0]
	}
	if layout != "" {
		layouts = []string{layout}
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	if r.Views == nil {
		return c.Render(template, data, layouts...)
	}
	return r.Views.Render(c.Response().BodyWriter(), template, data, layouts...)
}

// Error is the JSON body of a failed request.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
		"status":  status,
	})
}

package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"

	"github.com/oarkflow/contact/pkg/storage"
)

const sessionLocal = "contact_session"

// Session loads the request session before the handler runs and saves it
// once afterwards.
func Session(store *session.Store, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "session unavailable")
		}
		s := storage.NewSession(sess)
		c.Locals(sessionLocal, s)
		handlerErr := c.Next()
		if err := s.Save(); err != nil {
			log.Warn("session not saved", zap.Error(err))
		}
		return handlerErr
	}
}

// CurrentSession returns the session loaded by Session.
func CurrentSession(c *fiber.Ctx) (*storage.Session, bool) {
	s, ok := c.Locals(sessionLocal).(*storage.Session)
	return s, ok
}

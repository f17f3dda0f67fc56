package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/oarkflow/contact/pkg/errs"
	"github.com/oarkflow/contact/pkg/http/middlewares"
	"github.com/oarkflow/contact/pkg/http/requests"
	"github.com/oarkflow/contact/pkg/http/responses"
	"github.com/oarkflow/contact/pkg/libs"
	"github.com/oarkflow/contact/pkg/security"
	"github.com/oarkflow/contact/pkg/utils"
)

// ContactPage renders the contact form with the session CSRF token, the
// current notice and any input flashed back after a rejected submission.
func ContactPage(m *libs.Manager, r *responses.Renderer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := middlewares.CurrentSession(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		token := m.Tokens.GetOrCreate(sess)
		notice, hasNotice := m.Board.Notice(sess.ID())
		if utils.WantsJSON(c) {
			data := fiber.Map{"csrf_token": token}
			if hasNotice {
				data["notice"] = notice
			}
			return c.JSON(data)
		}
		old := oldInput(flash.Get(c))
		return r.Render(c, utils.ContactTemplate, fiber.Map{
			"Title":     m.Config.AppName,
			"CSRFField": security.CSRFTokenKey,
			"CSRFToken": token,
			"Notice":    notice,
			"HasNotice": hasNotice,
			"Old":       old,
			"Subjects":  security.Subjects,
			"URIs":      utils.GetURIs(),
		})
	}
}

// PostContact runs a submission. Browsers are redirected back to the form,
// JSON clients get the outcome with a matching status code.
func PostContact(m *libs.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := middlewares.CurrentSession(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		wantsJSON := utils.WantsJSON(c)
		var req requests.ContactRequest
		if err := c.BodyParser(&req); err != nil {
			message := utils.Message(m.Config.Locale, utils.MsgInvalidForm)
			if wantsJSON {
				return responses.Error(c, fiber.StatusBadRequest, message)
			}
			m.Board.Show(sess.ID(), libs.Notice{Kind: libs.NoticeError, Text: message})
			return c.Redirect(utils.ContactURI, fiber.StatusSeeOther)
		}

		outcome := m.Submitter.Submit(c.UserContext(), libs.Submission{
			Session: sess.ID(),
			Store:   sess,
			Client:  utils.GetClient(c),
			Form:    req,
		})
		if wantsJSON {
			return outcomeJSON(c, outcome)
		}
		if outcome.State == libs.StateValidationFailed {
			c = flash.WithData(c, req.Trimmed().Old())
		}
		return c.Redirect(utils.ContactURI, fiber.StatusSeeOther)
	}
}

// oldInput keeps the flashed string values of the contact fields.
func oldInput(flashed fiber.Map) map[string]string {
	old := make(map[string]string, len(utils.FieldMessageKeys))
	for field := range utils.FieldMessageKeys {
		value, _ := flashed[field].(string)
		old[field] = value
	}
	return old
}

func outcomeJSON(c *fiber.Ctx, outcome libs.Outcome) error {
	switch {
	case outcome.Err == nil:
		return c.JSON(fiber.Map{
			"state":   outcome.State,
			"message": outcome.Message,
			"data":    outcome.Data,
		})
	case errors.Is(outcome.Err, errs.ErrRateLimited):
		retryAfter := utils.RetryAfterSeconds(outcome.ResetTime, time.Now())
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"state":       outcome.State,
			"message":     outcome.Message,
			"retry_after": retryAfter,
			"reset_time":  security.Timestamp(outcome.ResetTime),
		})
	case errors.Is(outcome.Err, errs.ErrSubmissionInProgress):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"state":   outcome.State,
			"message": outcome.Err.Error(),
		})
	default:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"state":   outcome.State,
			"message": outcome.Message,
			"errors":  outcome.Errors,
		})
	}
}

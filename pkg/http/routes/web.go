package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oarkflow/contact/pkg/http/handlers"
	"github.com/oarkflow/contact/pkg/http/middlewares"
	"github.com/oarkflow/contact/pkg/http/responses"
	"github.com/oarkflow/contact/pkg/libs"
	"github.com/oarkflow/contact/pkg/utils"
)

const logsRequestsPerMinute = 30

// Setup registers the contact routes. Only the form routes load a session.
func Setup(prefix string, router fiber.Router, m *libs.Manager, r *responses.Renderer, store *session.Store) {
	route := router.Group(prefix)
	withSession := middlewares.Session(store, m.Log)
	route.Get(utils.HealthURI, handlers.HealthCheck)
	route.Get(utils.MetricsURI, adaptor.HTTPHandler(promhttp.Handler()))
	route.Get(utils.LandingURI, withSession, handlers.ContactPage(m, r))
	route.Get(utils.ContactURI, withSession, handlers.ContactPage(m, r))
	route.Post(utils.ContactURI, withSession, handlers.PostContact(m))
}

// SecurityRoutes exposes the persisted security log.
func SecurityRoutes(prefix string, router fiber.Router, m *libs.Manager) {
	route := router.Group(prefix)
	route.Get(utils.SecurityLogsURI, middlewares.RateLimitWithMax(m, logsRequestsPerMinute), handlers.SecurityLogs(m))
}

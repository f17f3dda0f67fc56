package utils

var (
	LandingURI      = "/"
	ContactURI      = "/contact"
	HealthURI       = "/health"
	MetricsURI      = "/metrics"
	SecurityLogsURI = "/api/security/logs"
)

var (
	ContactTemplate = "contact/index"
	ErrorTemplate   = "contact/error"
	LayoutTemplate  = "layouts/main"
)

func GetURIs() map[string]string {
	return map[string]string{
		"Landing":      LandingURI,
		"Contact":      ContactURI,
		"Health":       HealthURI,
		"Metrics":      MetricsURI,
		"SecurityLogs": SecurityLogsURI,
	}
}

var DefaultSessionName = "contact_session"

package config

// Defaults registers the application settings, each overridable by the named
// environment variable.
func Defaults(c *Config) {
	c.Add("app", map[string]any{
		"name":     c.Env("APP_NAME", "3TroisExperts"),
		"env":      c.Env("APP_ENV", "development"),
		"addr":     c.Env("APP_ADDR", ":3000"),
		"https":    c.Env("APP_HTTPS", false),
		"locale":   c.Env("APP_LOCALE", "fr"),
		"timezone": c.Env("APP_TIMEZONE", "Local"),
	})
	c.Add("security", map[string]any{
		"rate_limit_attempts": c.Env("CONTACT_RATE_LIMIT_ATTEMPTS", 5),
		"rate_limit_window":   c.Env("CONTACT_RATE_LIMIT_WINDOW", "1m"),
		"sweep_interval":      c.Env("CONTACT_SWEEP_INTERVAL", "5m"),
		"log_capacity":        c.Env("CONTACT_LOG_CAPACITY", 50),
		"csrf_enforce":        c.Env("CONTACT_CSRF_ENFORCE", false),
		"expose_logs":         c.Env("CONTACT_EXPOSE_LOGS", false),
		"headers":             c.Env("CONTACT_SECURITY_HEADERS", true),
	})
	c.Add("contact", map[string]any{
		"message_ttl":       c.Env("CONTACT_MESSAGE_TTL", "5s"),
		"store_submissions": c.Env("CONTACT_STORE_SUBMISSIONS", false),
	})
	c.Add("db", map[string]any{
		"driver":   c.Env("DB_DRIVER", "sqlite"),
		"dsn":      c.Env("DB_DSN", "contact.db"),
		"host":     c.Env("DB_HOST", "localhost"),
		"port":     c.Env("DB_PORT", 5432),
		"username": c.Env("DB_USERNAME", ""),
		"password": c.Env("DB_PASSWORD", ""),
		"database": c.Env("DB_DATABASE", "contact"),
	})
}

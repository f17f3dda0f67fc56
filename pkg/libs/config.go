package libs

import (
	"time"

	"github.com/oarkflow/contact/pkg/contracts"
)

type Config struct {
	AppName  string
	Env      string
	Addr     string
	HTTPS    bool
	Locale   string
	Location *time.Location

	RateLimitAttempts int
	RateLimitWindow   time.Duration
	SweepInterval     time.Duration
	LogCapacity       int
	CSRFEnforce       bool
	ExposeLogs        bool
	SecurityHeaders   bool

	MessageTTL       time.Duration
	StoreSubmissions bool

	DB DBConfig
}

type DBConfig struct {
	Driver   string
	DSN      string
	Host     string
	Port     int
	Username string
	Password string
	Database string
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		AppName:           "3TroisExperts",
		Env:               "development",
		Addr:              ":3000",
		Locale:            "fr",
		Location:          time.Local,
		RateLimitAttempts: 5,
		RateLimitWindow:   time.Minute,
		SweepInterval:     5 * time.Minute,
		LogCapacity:       50,
		SecurityHeaders:   true,
		MessageTTL:        5 * time.Second,
		DB: DBConfig{
			Driver:   "sqlite",
			DSN:      "contact.db",
			Host:     "localhost",
			Port:     5432,
			Database: "contact",
		},
	}
}

// --- Configuration Functions ---
func LoadConfig(cfg contracts.Config) *Config {
	d := DefaultConfig()
	location := d.Location
	if tz := cfg.GetString("app.timezone", "Local"); tz != "" && tz != "Local" {
		if loc, err := time.LoadLocation(tz); err == nil {
			location = loc
		}
	}
	return &Config{
		AppName:           cfg.GetString("app.name", d.AppName),
		Env:               cfg.GetString("app.env", d.Env),
		Addr:              cfg.GetString("app.addr", d.Addr),
		HTTPS:             cfg.GetBool("app.https", d.HTTPS),
		Locale:            cfg.GetString("app.locale", d.Locale),
		Location:          location,
		RateLimitAttempts: cfg.GetInt("security.rate_limit_attempts", d.RateLimitAttempts),
		RateLimitWindow:   cfg.GetDuration("security.rate_limit_window", d.RateLimitWindow),
		SweepInterval:     cfg.GetDuration("security.sweep_interval", d.SweepInterval),
		LogCapacity:       cfg.GetInt("security.log_capacity", d.LogCapacity),
		CSRFEnforce:       cfg.GetBool("security.csrf_enforce", d.CSRFEnforce),
		ExposeLogs:        cfg.GetBool("security.expose_logs", d.ExposeLogs),
		SecurityHeaders:   cfg.GetBool("security.headers", d.SecurityHeaders),
		MessageTTL:        cfg.GetDuration("contact.message_ttl", d.MessageTTL),
		StoreSubmissions:  cfg.GetBool("contact.store_submissions", d.StoreSubmissions),
		DB: DBConfig{
			Driver:   cfg.GetString("db.driver", d.DB.Driver),
			DSN:      cfg.GetString("db.dsn", d.DB.DSN),
			Host:     cfg.GetString("db.host", d.DB.Host),
			Port:     cfg.GetInt("db.port", d.DB.Port),
			Username: cfg.GetString("db.username", d.DB.Username),
			Password: cfg.GetString("db.password", d.DB.Password),
			Database: cfg.GetString("db.database", d.DB.Database),
		},
	}
}

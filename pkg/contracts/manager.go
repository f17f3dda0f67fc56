package contracts

import (
	"context"
	"time"

	"github.com/oarkflow/contact/pkg/models"
)

// Config is the read side of the application configuration.
type Config interface {
	Get(path string, defaultValue ...any) any
	GetString(path string, defaultValue ...any) string
	GetInt(path string, defaultValue ...any) int
	GetDuration(path string, defaultValue ...any) time.Duration
	GetBool(path string, defaultValue ...any) bool
}

// Dispatcher receives accepted, sanitized submissions.
type Dispatcher interface {
	Dispatch(ctx context.Context, submission models.SecureSubmission) error
}

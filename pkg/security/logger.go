package security

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/oarkflow/contact/pkg/contracts"
	"github.com/oarkflow/contact/pkg/errs"
	"github.com/oarkflow/contact/pkg/metrics"
	"github.com/oarkflow/contact/pkg/models"
)

const (
	// SecurityLogsKey is the durable storage key holding the JSON log array.
	SecurityLogsKey = "security_logs"

	// DefaultLogCapacity bounds the persisted log; the oldest entry goes first.
	DefaultLogCapacity = 50

	isoMillis = "2006-01-02T15:04:05.000Z"
)

// Security event tags.
const (
	EventRateLimitExceeded     = "rate_limit_exceeded"
	EventFormValidationFailed  = "form_validation_failed"
	EventFormSubmissionSuccess = "form_submission_success"
	EventCSRFTokenInvalid      = "csrf_token_invalid"
	EventSuspiciousActivity    = "suspicious_activity"
)

// Entry is one security log record. Entries are never modified once built.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Details   any    `json:"details"`
	UserAgent string `json:"userAgent"`
	URL       string `json:"url"`
	Referrer  string `json:"referrer"`
}

// Logger appends security events to a bounded log in durable storage and
// mirrors them to the structured process log. Logging is best-effort: a
// storage failure never reaches the caller.
type Logger struct {
	mu       sync.Mutex
	store    contracts.Storage
	log      *zap.Logger
	capacity int
	now      func() time.Time
}

type LoggerOption func(*Logger)

func WithLogCapacity(capacity int) LoggerOption {
	return func(l *Logger) {
		if capacity > 0 {
			l.capacity = capacity
		}
	}
}

func WithLogClock(now func() time.Time) LoggerOption {
	return func(l *Logger) { l.now = now }
}

func NewLogger(store contracts.Storage, log *zap.Logger, opts ...LoggerOption) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	l := &Logger{
		store:    store,
		log:      log,
		capacity: DefaultLogCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Log records event with its details and the client context, and returns
// the entry that was built.
func (l *Logger) Log(event string, details any, client models.Client) Entry {
	entry := Entry{
		Timestamp: Timestamp(l.now()),
		Event:     event,
		Details:   details,
		UserAgent: client.UserAgent,
		URL:       client.URL,
		Referrer:  client.Referrer,
	}
	metrics.SecurityEvents.WithLabelValues(event).Inc()
	l.log.Warn("security event",
		zap.String("event", event),
		zap.Any("details", details),
		zap.String("user_agent", client.UserAgent),
		zap.String("url", client.URL),
		zap.String("referrer", client.Referrer),
	)

	if err := l.persist(entry); err != nil {
		metrics.SecurityLogWriteFailures.Inc()
		l.log.Debug("security log not persisted", zap.Error(err))
	}
	return entry
}

// Timestamp formats t as an ISO-8601 UTC instant with milliseconds.
func Timestamp(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

// Entries returns the persisted log, oldest first. An unreadable log reads
// as empty.
func (l *Logger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries, _ := l.load()
	return entries
}

func (l *Logger) persist(entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load()
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &syntaxErr) && !errors.As(err, &typeErr) {
			return err
		}
		// A corrupt array is replaced rather than blocking every future write.
		entries = nil
	}
	entries = append(entries, entry)
	if over := len(entries) - l.capacity; over > 0 {
		entries = entries[over:]
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return l.store.SetItem(SecurityLogsKey, string(raw))
}

func (l *Logger) load() ([]Entry, error) {
	raw, err := l.store.GetItem(SecurityLogsKey)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

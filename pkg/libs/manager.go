package libs

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/oarkflow/contact/pkg/contracts"
	"github.com/oarkflow/contact/pkg/security"
)

// Manager owns the state shared by every request: the rate limiter, the
// security log, the notice board and the submitter built on top of them.
type Manager struct {
	Config *Config
	Log    *zap.Logger

	Limiter   *security.RateLimiter
	Tokens    *security.Tokens
	Logger    *security.Logger
	Validator *security.FormValidator
	Board     *Board
	Tracker   *SubmissionTracker
	Submitter *Submitter
}

type managerOptions struct {
	log        *zap.Logger
	now        func() time.Time
	random     io.Reader
	afterFunc  func(time.Duration, func())
	dispatcher contracts.Dispatcher
}

type Option func(*managerOptions)

// WithLog sets the process logger.
func WithLog(log *zap.Logger) Option {
	return func(o *managerOptions) { o.log = log }
}

// WithClock replaces time.Now for the limiter, the log and submission stamps.
func WithClock(now func() time.Time) Option {
	return func(o *managerOptions) { o.now = now }
}

// WithTokenReader draws CSRF token bytes from r.
func WithTokenReader(r io.Reader) Option {
	return func(o *managerOptions) { o.random = r }
}

// WithAfterFunc schedules notice clears through f.
func WithAfterFunc(f func(time.Duration, func())) Option {
	return func(o *managerOptions) { o.afterFunc = f }
}

// WithDispatcher sets where accepted submissions go. The default writes
// them to the process log.
func WithDispatcher(d contracts.Dispatcher) Option {
	return func(o *managerOptions) { o.dispatcher = d }
}

func NewManager(localStorage contracts.Storage, cfg *Config, opts ...Option) *Manager {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	o := &managerOptions{log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	if o.dispatcher == nil {
		o.dispatcher = LogDispatcher{Log: o.log}
	}

	tokens := security.NewTokens()
	if o.random != nil {
		tokens = security.NewTokensWithReader(o.random)
	}
	board := NewBoard(cfg.MessageTTL)
	if o.afterFunc != nil {
		board = NewBoardWithTimer(cfg.MessageTTL, o.afterFunc)
	}
	logger := security.NewLogger(localStorage, o.log.Named("security"),
		security.WithLogCapacity(cfg.LogCapacity),
		security.WithLogClock(o.now),
	)
	m := &Manager{
		Config:    cfg,
		Log:       o.log,
		Limiter:   security.NewRateLimiterWithClock(o.now),
		Tokens:    tokens,
		Logger:    logger,
		Validator: security.NewFormValidator(),
		Board:     board,
		Tracker:   NewSubmissionTracker(),
	}
	m.Submitter = &Submitter{
		cfg:        cfg,
		limiter:    m.Limiter,
		tokens:     m.Tokens,
		logger:     m.Logger,
		validator:  m.Validator,
		dispatcher: o.dispatcher,
		board:      m.Board,
		tracker:    m.Tracker,
		log:        o.log,
		now:        o.now,
	}
	return m
}

// Run sweeps idle rate limit identifiers until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	m.Limiter.Run(ctx, m.Config.SweepInterval, m.Config.RateLimitWindow)
}

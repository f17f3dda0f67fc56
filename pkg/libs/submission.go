package libs

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/oarkflow/xid/wuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/oarkflow/contact/pkg/contracts"
	"github.com/oarkflow/contact/pkg/errs"
	"github.com/oarkflow/contact/pkg/http/requests"
	"github.com/oarkflow/contact/pkg/metrics"
	"github.com/oarkflow/contact/pkg/models"
	"github.com/oarkflow/contact/pkg/security"
	"github.com/oarkflow/contact/pkg/utils"
)

const (
	identifierPrefix = "user_"
	identifierLength = 40
	resetTimeLayout  = "15:04:05"
)

// Submission is one contact form post together with the session it came from.
type Submission struct {
	Session string
	Store   contracts.Storage
	Client  models.Client
	Form    requests.ContactRequest
}

// Outcome describes how a submission ended. Err is nil only for accepted
// submissions.
type Outcome struct {
	State     State
	Message   string
	Errors    []string
	ResetTime time.Time
	Data      *models.SecureSubmission
	Err       error
}

// Notice returns the board notice matching the outcome.
func (o Outcome) Notice() Notice {
	if o.State == StateAccepted {
		return Notice{Kind: NoticeSuccess, Text: o.Message}
	}
	return Notice{Kind: NoticeError, Text: o.Message}
}

// Identifier derives the rate limit key of a client from its address and
// user agent.
func Identifier(client models.Client) string {
	sum := blake2b.Sum256([]byte(client.IP + "|" + client.UserAgent))
	return identifierPrefix + hex.EncodeToString(sum[:])[:identifierLength]
}

// Submitter runs a submission through rate limiting, validation,
// sanitization and dispatch, in that order. Any step may end the flow.
type Submitter struct {
	cfg        *Config
	limiter    *security.RateLimiter
	tokens     *security.Tokens
	logger     *security.Logger
	validator  *security.FormValidator
	dispatcher contracts.Dispatcher
	board      *Board
	tracker    *SubmissionTracker
	log        *zap.Logger
	now        func() time.Time
}

func (s *Submitter) Submit(ctx context.Context, sub Submission) Outcome {
	if !s.tracker.Begin(sub.Session) {
		return Outcome{State: StateSubmitting, Err: errs.ErrSubmissionInProgress}
	}
	defer s.tracker.End(sub.Session)

	outcome := s.submit(ctx, sub)
	metrics.Submissions.WithLabelValues(string(outcome.State)).Inc()
	s.board.Show(sub.Session, outcome.Notice())
	return outcome
}

func (s *Submitter) submit(ctx context.Context, sub Submission) Outcome {
	locale := s.cfg.Locale
	identifier := Identifier(sub.Client)
	limit := s.limiter.CheckLimit(identifier, s.cfg.RateLimitAttempts, s.cfg.RateLimitWindow)
	if !limit.Allowed {
		s.logger.Log(security.EventRateLimitExceeded, map[string]any{
			"userIP":    identifier,
			"resetTime": security.Timestamp(limit.ResetTime),
		}, sub.Client)
		reset := limit.ResetTime.In(s.cfg.Location).Format(resetTimeLayout)
		return Outcome{
			State:     StateRateLimited,
			Message:   fmt.Sprintf(utils.Message(locale, utils.MsgRateLimited), reset),
			ResetTime: limit.ResetTime,
			Err:       errs.ErrRateLimited,
		}
	}

	form := sub.Form.Trimmed()
	if messages := requests.Validate(s.validator, locale, form); len(messages) > 0 {
		s.logger.Log(security.EventFormValidationFailed, map[string]any{
			"errors": messages,
		}, sub.Client)
		return Outcome{
			State:   StateValidationFailed,
			Message: utils.Message(locale, utils.MsgValidationPrefix) + strings.Join(messages, ", "),
			Errors:  messages,
			Err:     errs.ErrValidationFailed,
		}
	}

	if s.cfg.CSRFEnforce && !s.tokens.Verify(sub.Store, form.CSRFToken) {
		s.logger.Log(security.EventCSRFTokenInvalid, map[string]any{}, sub.Client)
		message := utils.Message(locale, utils.MsgInvalidCSRF)
		return Outcome{
			State:   StateValidationFailed,
			Message: message,
			Errors:  []string{message},
			Err:     errs.ErrInvalidCSRFToken,
		}
	}

	data := models.SecureSubmission{
		ID:        wuid.New().Int64(),
		Name:      security.Sanitize(form.Name),
		Email:     security.Sanitize(form.Email),
		Phone:     security.Sanitize(form.Phone),
		Subject:   security.Sanitize(form.Subject),
		Message:   security.Sanitize(form.Message),
		CSRFToken: s.tokens.GetOrCreate(sub.Store),
		Timestamp: s.now().UnixMilli(),
	}
	s.logger.Log(security.EventFormSubmissionSuccess, map[string]any{
		"subject":  data.Subject,
		"hasPhone": data.Phone != "",
	}, sub.Client)
	if err := s.dispatcher.Dispatch(ctx, data); err != nil {
		s.log.Error("dispatch submission", zap.Int64("id", data.ID), zap.Error(err))
	}
	s.tokens.Rotate(sub.Store)
	return Outcome{
		State:   StateAccepted,
		Message: utils.Message(locale, utils.MsgSubmissionSuccess),
		Data:    &data,
	}
}

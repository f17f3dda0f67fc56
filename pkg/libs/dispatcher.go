package libs

import (
	"context"

	"go.uber.org/zap"

	"github.com/oarkflow/contact/pkg/contracts"
	"github.com/oarkflow/contact/pkg/models"
)

// LogDispatcher writes accepted submissions to the process log.
type LogDispatcher struct {
	Log *zap.Logger
}

func (d LogDispatcher) Dispatch(_ context.Context, s models.SecureSubmission) error {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("contact submission",
		zap.Int64("id", s.ID),
		zap.String("name", s.Name),
		zap.String("email", s.Email),
		zap.String("phone", s.Phone),
		zap.String("subject", s.Subject),
		zap.Int("message_length", len(s.Message)),
		zap.Int64("timestamp", s.Timestamp),
	)
	return nil
}

// SubmissionStore persists accepted submissions.
type SubmissionStore interface {
	InsertSubmission(s models.SecureSubmission) error
}

// DatabaseDispatcher stores submissions and then hands them to Next, if set.
type DatabaseDispatcher struct {
	Store SubmissionStore
	Next  contracts.Dispatcher
}

func (d DatabaseDispatcher) Dispatch(ctx context.Context, s models.SecureSubmission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.Store.InsertSubmission(s); err != nil {
		return err
	}
	if d.Next != nil {
		return d.Next.Dispatch(ctx, s)
	}
	return nil
}

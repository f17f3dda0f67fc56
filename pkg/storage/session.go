package storage

import (
	"fmt"

	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/oarkflow/contact/pkg/errs"
)

// Session adapts a fiber session to contracts.Storage. Writes are buffered
// in the session and reach the session store on Save, which must be called
// once at the end of the request; the session is released afterwards.
type Session struct {
	sess  *session.Session
	dirty bool
}

func NewSession(sess *session.Session) *Session {
	return &Session{sess: sess}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.sess.ID()
}

func (s *Session) GetItem(key string) (string, error) {
	value, ok := s.sess.Get(key).(string)
	if !ok {
		return "", errs.ErrNotFound
	}
	return value, nil
}

func (s *Session) SetItem(key, value string) error {
	s.sess.Set(key, value)
	s.dirty = true
	return nil
}

func (s *Session) RemoveItem(key string) error {
	s.sess.Delete(key)
	s.dirty = true
	return nil
}

// Save persists buffered writes. Fresh sessions are always saved so the
// client receives its session cookie.
func (s *Session) Save() error {
	if !s.dirty && !s.sess.Fresh() {
		return nil
	}
	if err := s.sess.Save(); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrStorageUnavailable, err)
	}
	return nil
}

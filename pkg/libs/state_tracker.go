package libs

import "sync"

// State is the position of a session in the submission flow.
type State string

const (
	StateIdle             State = "idle"
	StateSubmitting       State = "submitting"
	StateAccepted         State = "accepted"
	StateRateLimited      State = "rate_limited"
	StateValidationFailed State = "validation_failed"
)

// Track which sessions have a submission in flight
type SubmissionTracker struct {
	submitting map[string]struct{} // session ID -> in flight
	mu         sync.RWMutex
}

func NewSubmissionTracker() *SubmissionTracker {
	return &SubmissionTracker{
		submitting: make(map[string]struct{}),
	}
}

// Begin moves session to Submitting. It returns false when a submission of
// the same session is already in flight.
func (st *SubmissionTracker) Begin(session string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, busy := st.submitting[session]; busy {
		return false
	}
	st.submitting[session] = struct{}{}
	return true
}

// End returns session to Idle.
func (st *SubmissionTracker) End(session string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.submitting, session)
}

func (st *SubmissionTracker) State(session string) State {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if _, busy := st.submitting[session]; busy {
		return StateSubmitting
	}
	return StateIdle
}

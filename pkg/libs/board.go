package libs

import (
	"sync"
	"time"
)

const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)

// Notice is the message shown above the contact form.
type Notice struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// Board holds the current notice of each session. A notice is cleared a
// fixed delay after it was shown. Clear timers are never cancelled, so the
// timer of an older notice may clear a newer one.
type Board struct {
	mu        sync.RWMutex
	notices   map[string]Notice
	ttl       time.Duration
	afterFunc func(time.Duration, func())
}

func NewBoard(ttl time.Duration) *Board {
	return NewBoardWithTimer(ttl, func(d time.Duration, f func()) {
		time.AfterFunc(d, f)
	})
}

// NewBoardWithTimer schedules clears through afterFunc instead of
// time.AfterFunc.
func NewBoardWithTimer(ttl time.Duration, afterFunc func(time.Duration, func())) *Board {
	return &Board{
		notices:   make(map[string]Notice),
		ttl:       ttl,
		afterFunc: afterFunc,
	}
}

// Show replaces the notice of session and schedules its removal.
func (b *Board) Show(session string, notice Notice) {
	b.mu.Lock()
	b.notices[session] = notice
	b.mu.Unlock()
	if b.ttl > 0 {
		b.afterFunc(b.ttl, func() { b.Clear(session) })
	}
}

// Notice returns the current notice of session.
func (b *Board) Notice(session string) (Notice, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	notice, ok := b.notices[session]
	return notice, ok
}

func (b *Board) Clear(session string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.notices, session)
}

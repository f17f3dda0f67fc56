package libs

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// timers records scheduled callbacks so tests decide when they fire.
type timers struct {
	mu     sync.Mutex
	delays []time.Duration
	funcs  []func()
}

func (tm *timers) AfterFunc(d time.Duration, f func()) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.delays = append(tm.delays, d)
	tm.funcs = append(tm.funcs, f)
}

func (tm *timers) Fire(i int) {
	tm.mu.Lock()
	f := tm.funcs[i]
	tm.mu.Unlock()
	f()
}

func (tm *timers) Len() int {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return len(tm.funcs)
}

func TestBoardShowAndClear(t *testing.T) {
	tm := &timers{}
	board := NewBoardWithTimer(5*time.Second, tm.AfterFunc)

	board.Show("s1", Notice{Kind: NoticeSuccess, Text: "ok"})
	notice, ok := board.Notice("s1")
	require.True(t, ok)
	assert.Equal(t, Notice{Kind: NoticeSuccess, Text: "ok"}, notice)
	_, ok = board.Notice("s2")
	assert.False(t, ok)

	require.Equal(t, 1, tm.Len())
	assert.Equal(t, 5*time.Second, tm.delays[0])
	tm.Fire(0)
	_, ok = board.Notice("s1")
	assert.False(t, ok)
}

func TestBoardOlderTimerClearsNewerNotice(t *testing.T) {
	tm := &timers{}
	board := NewBoardWithTimer(5*time.Second, tm.AfterFunc)

	board.Show("s", Notice{Kind: NoticeError, Text: "first"})
	board.Show("s", Notice{Kind: NoticeSuccess, Text: "second"})
	tm.Fire(0)

	_, ok := board.Notice("s")
	assert.False(t, ok)
}

func TestBoardWithoutTTL(t *testing.T) {
	tm := &timers{}
	board := NewBoardWithTimer(0, tm.AfterFunc)
	board.Show("s", Notice{Kind: NoticeError, Text: "sticky"})
	assert.Equal(t, 0, tm.Len())
	board.Clear("s")
	_, ok := board.Notice("s")
	assert.False(t, ok)
}

func TestNewBoardClearsWithRealTimer(t *testing.T) {
	board := NewBoard(10 * time.Millisecond)
	board.Show("s", Notice{Kind: NoticeSuccess, Text: "ok"})
	assert.Eventually(t, func() bool {
		_, ok := board.Notice("s")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestSubmissionTracker(t *testing.T) {
	tracker := NewSubmissionTracker()
	assert.Equal(t, StateIdle, tracker.State("s"))
	require.True(t, tracker.Begin("s"))
	assert.Equal(t, StateSubmitting, tracker.State("s"))
	assert.False(t, tracker.Begin("s"))
	assert.True(t, tracker.Begin("other"))
	tracker.End("s")
	assert.Equal(t, StateIdle, tracker.State("s"))
}

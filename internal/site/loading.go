package site

import (
	"sync"
	"time"
)

// DefaultLoadingDelay is how long the splash screen is held before the page shows.
const DefaultLoadingDelay = 1500 * time.Millisecond

// Task is a scheduled unit of work that can be cancelled before it fires.
type Task interface {
	// Stop cancels the task. It reports false when the task already ran or was stopped.
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Task
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) Task {
	return time.AfterFunc(d, f)
}

// SystemScheduler schedules tasks on runtime timers.
var SystemScheduler Scheduler = timerScheduler{}

// LoadingGate is true from creation until its deferred task fires, then
// false forever. Teardown cancels the task; once torn down the gate never
// changes again, even if the timer was already in flight.
type LoadingGate struct {
	mu       sync.Mutex
	loading  bool
	tornDown bool
	task     Task
	done     chan struct{}
}

// NewLoadingGate starts the deferred task. A non-positive interval opens the
// gate immediately.
func NewLoadingGate(s Scheduler, interval time.Duration) *LoadingGate {
	g := &LoadingGate{loading: true, done: make(chan struct{})}
	if interval <= 0 {
		g.finish()
		return g
	}
	if s == nil {
		s = SystemScheduler
	}
	task := s.AfterFunc(interval, g.finish)
	g.mu.Lock()
	g.task = task
	g.mu.Unlock()
	return g
}

func (g *LoadingGate) finish() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.tornDown || !g.loading {
		return
	}
	g.loading = false
	close(g.done)
}

// IsLoading reports whether the splash should still be shown.
func (g *LoadingGate) IsLoading() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.loading
}

// Done is closed when loading finishes. It is never closed for a gate torn
// down while still loading.
func (g *LoadingGate) Done() <-chan struct{} {
	return g.done
}

// Teardown cancels the pending task. Calling it more than once is harmless.
func (g *LoadingGate) Teardown() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.tornDown {
		return
	}
	g.tornDown = true
	if g.task != nil {
		g.task.Stop()
	}
}

// TornDown reports whether Teardown has been called.
func (g *LoadingGate) TornDown() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tornDown
}

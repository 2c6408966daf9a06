// Package health tracks whether a remote dependency is answering, from the
// outcome of the calls that are made anyway. It never blocks a call.
package health

import (
	"sync"
	"time"

	"craftybot/internal/logger"
)

type State int

const (
	StateUnknown State = iota
	StateHealthy
	StateDegraded
	StateUnreachable
)

func (s State) String() string {
	switch s {
	case StateHealthy:
		return "healthy"
	case StateDegraded:
		return "degraded"
	case StateUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// Snapshot is a copy of the tracker state.
type Snapshot struct {
	Name        string    `json:"name"`
	State       string    `json:"state"`
	Failures    int       `json:"consecutive_failures"`
	LastSuccess time.Time `json:"last_success,omitempty"`
	LastFailure time.Time `json:"last_failure,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
}

// Tracker moves to degraded on the first failure and to unreachable after
// threshold consecutive failures. One success makes it healthy again.
type Tracker struct {
	mu          sync.Mutex
	name        string
	state       State
	failures    int
	threshold   int
	lastSuccess time.Time
	lastFailure time.Time
	lastErr     string
	now         func() time.Time
}

func NewTracker(name string, threshold int) *Tracker {
	if threshold <= 0 {
		threshold = 1
	}
	return &Tracker{name: name, threshold: threshold, now: time.Now}
}

func (t *Tracker) RecordSuccess() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failures = 0
	t.lastSuccess = t.now()
	t.transition(StateHealthy)
}

func (t *Tracker) RecordFailure(err error) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failures++
	t.lastFailure = t.now()
	if err != nil {
		t.lastErr = err.Error()
	}
	if t.failures >= t.threshold {
		t.transition(StateUnreachable)
		return
	}
	t.transition(StateDegraded)
}

func (t *Tracker) State() State {
	if t == nil {
		return StateUnknown
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Tracker) Snapshot() Snapshot {
	if t == nil {
		return Snapshot{State: StateUnknown.String()}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		Name:        t.name,
		State:       t.state.String(),
		Failures:    t.failures,
		LastSuccess: t.lastSuccess,
		LastFailure: t.lastFailure,
		LastError:   t.lastErr,
	}
}

func (t *Tracker) transition(to State) {
	from := t.state
	if from == to {
		return
	}
	t.state = to
	switch to {
	case StateHealthy:
		if from != StateUnknown {
			logger.Infof("%s recovered after %s", t.name, from)
		}
	default:
		logger.Warnf("%s state change: %s -> %s (failures=%d/%d, last error: %s)",
			t.name, from, to, t.failures, t.threshold, t.lastErr)
	}
}

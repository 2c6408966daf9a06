package poller

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"craftybot/internal/config"
	"craftybot/internal/gateway/crafty"
	"craftybot/internal/logger"
)

// markerScanLines is how much log a start session reads per tick when it is
// waiting for the ready marker. Progress messages only show the newest lines.
const markerScanLines = 100

// Fetcher is the subset of the panel client a session drives.
type Fetcher interface {
	GetStatus(ctx context.Context, target string) (crafty.StatusSnapshot, error)
	GetLogs(ctx context.Context, target string, tail int) ([]string, error)
	PerformAction(ctx context.Context, target string, action crafty.Action) error
}

// Outcome is how a session ended.
type Outcome int

const (
	OutcomeDone Outcome = iota
	OutcomeAlreadyInState
	OutcomeTimedOut
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDone:
		return "done"
	case OutcomeAlreadyInState:
		return "already_in_state"
	case OutcomeTimedOut:
		return "timed_out"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Phase tags a published update.
type Phase int

const (
	PhaseAlreadyInState Phase = iota
	PhaseProgress
	PhaseDone
	PhaseTimedOut
)

// Update is what a session hands to its publisher. Tick is 1-based; it is zero
// for the pre-check short-circuit.
type Update struct {
	Phase    Phase
	Action   crafty.Action
	Target   string
	Tick     int
	Budget   int
	Snapshot crafty.StatusSnapshot
	// ShowLines is how many of the newest log lines a progress view shows.
	ShowLines int
	// HasSnapshot is false for a tick whose status fetch failed and for a
	// timeout where no tick produced a snapshot.
	HasSnapshot bool
}

// Publisher receives updates in tick order. A publish error is logged and the
// session continues.
type Publisher func(ctx context.Context, u Update) error

// Session polls one server after a start or stop action until the terminal
// predicate holds or the tick budget runs out.
type Session struct {
	Target   string
	Action   crafty.Action
	Budget   int
	Interval time.Duration
	// LogLines is the tail requested per tick; ShowLines the part displayed.
	LogLines  int
	ShowLines int

	// Desired short-circuits the session before the action is sent.
	Desired Predicate
	// Terminal ends the session successfully on a tick.
	Terminal Predicate

	fetcher Fetcher
	clock   Clock
}

// Planner builds sessions from the poll configuration.
type Planner struct {
	cfg     config.PollConfig
	marker  *regexp.Regexp
	fetcher Fetcher
	clock   Clock
}

func NewPlanner(cfg config.PollConfig, fetcher Fetcher, clock Clock) (*Planner, error) {
	if fetcher == nil {
		return nil, errors.New("poller: fetcher is required")
	}
	if clock == nil {
		clock = RealClock{}
	}
	p := &Planner{cfg: cfg, fetcher: fetcher, clock: clock}
	if cfg.MarkerEnabled() {
		re, err := regexp.Compile(cfg.ReadyPattern)
		if err != nil {
			return nil, fmt.Errorf("poller: compile ready pattern: %w", err)
		}
		p.marker = re
	}
	return p, nil
}

// MarkerEnabled reports whether start sessions wait for the ready marker.
func (p *Planner) MarkerEnabled() bool { return p.marker != nil }

// Start returns a session that waits for the server to come up.
func (p *Planner) Start(target string) *Session {
	s := p.base(target, crafty.ActionStart)
	s.Budget = p.cfg.StartBudget()
	s.Desired = Running
	s.Terminal = Running
	if p.marker != nil {
		s.Terminal = ReadyMarker(p.marker)
		if s.LogLines < markerScanLines {
			s.LogLines = markerScanLines
		}
	}
	return s
}

// Stop returns a session that waits for the server to go down.
func (p *Planner) Stop(target string) *Session {
	s := p.base(target, crafty.ActionStop)
	s.Budget = p.cfg.StopTicks
	s.Desired = Stopped
	s.Terminal = Stopped
	return s
}

func (p *Planner) base(target string, action crafty.Action) *Session {
	return &Session{
		Target:    strings.TrimSpace(target),
		Action:    action,
		Interval:  p.cfg.Interval(),
		LogLines:  p.cfg.ProgressLogLines,
		ShowLines: p.cfg.ProgressLogLines,
		fetcher:   p.fetcher,
		clock:     p.clock,
	}
}

// Run executes the session: pre-check, issue the action once, then tick until
// a terminal outcome. The returned error is non-nil only for OutcomeFailed.
func (s *Session) Run(ctx context.Context, publish Publisher) (Outcome, error) {
	if s.fetcher == nil || s.clock == nil {
		return OutcomeFailed, errors.New("poller: session not built by a planner")
	}
	if publish == nil {
		publish = func(context.Context, Update) error { return nil }
	}

	pre, err := s.fetcher.GetStatus(ctx, s.Target)
	if err != nil {
		logger.Warnf("poller: pre-check %s %s failed: %v", s.Action, s.Target, err)
	} else if s.Desired != nil && s.Desired(pre) {
		s.emit(ctx, publish, Update{Phase: PhaseAlreadyInState, Snapshot: pre, HasSnapshot: true})
		return OutcomeAlreadyInState, nil
	}

	if err := s.fetcher.PerformAction(ctx, s.Target, s.Action); err != nil {
		return OutcomeFailed, err
	}

	var (
		last    crafty.StatusSnapshot
		hasLast bool
	)
	for tick := 1; tick <= s.Budget; tick++ {
		if err := s.clock.Sleep(ctx, s.Interval); err != nil {
			return OutcomeFailed, err
		}
		snap, ok := s.check(ctx, tick)
		if !ok {
			if ctx.Err() != nil {
				return OutcomeFailed, ctx.Err()
			}
			s.emit(ctx, publish, Update{Phase: PhaseProgress, Tick: tick})
			continue
		}
		last, hasLast = snap, true
		if s.Terminal != nil && s.Terminal(snap) {
			s.emit(ctx, publish, Update{Phase: PhaseDone, Tick: tick, Snapshot: snap, HasSnapshot: true})
			return OutcomeDone, nil
		}
		s.emit(ctx, publish, Update{Phase: PhaseProgress, Tick: tick, Snapshot: snap, HasSnapshot: true})
	}

	s.emit(ctx, publish, Update{Phase: PhaseTimedOut, Tick: s.Budget, Snapshot: last, HasSnapshot: hasLast})
	return OutcomeTimedOut, nil
}

// check fetches stats then logs. ok is false when stats could not be read.
func (s *Session) check(ctx context.Context, tick int) (crafty.StatusSnapshot, bool) {
	snap, err := s.fetcher.GetStatus(ctx, s.Target)
	if err != nil {
		logger.Warnf("poller: %s %s tick %d/%d status failed: %v", s.Action, s.Target, tick, s.Budget, err)
		return crafty.StatusSnapshot{}, false
	}
	lines, err := s.fetcher.GetLogs(ctx, s.Target, s.LogLines)
	if err != nil {
		logger.Warnf("poller: %s %s tick %d/%d logs failed: %v", s.Action, s.Target, tick, s.Budget, err)
		return snap, true
	}
	return snap.WithLogTail(lines), true
}

func (s *Session) emit(ctx context.Context, publish Publisher, u Update) {
	u.Action = s.Action
	u.Target = s.Target
	u.Budget = s.Budget
	u.ShowLines = s.ShowLines
	if err := publish(ctx, u); err != nil {
		logger.Warnf("poller: publish %s %s tick %d failed: %v", s.Action, s.Target, u.Tick, err)
	}
}

// Package scheduler drives sampling passes on a fixed cadence and on demand.
// At most one pass is ever in flight: requests arriving while a pass runs
// are coalesced into a single follow-up pass instead of queueing or running
// concurrently. The Idle/Running lifecycle is an explicit state machine.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/memtray/memtray/internal/models"
	"github.com/memtray/memtray/internal/snapshot"
)

const (
	stateIdle    = "idle"
	stateRunning = "running"

	eventBegin  = "begin"
	eventFinish = "finish"
)

const (
	// DefaultInterval drives automatic refresh ticks.
	DefaultInterval = 2 * time.Second

	// DefaultSettleDelay separates a termination request from the refresh
	// that observes it. Re-sampling immediately races the OS teardown and
	// may still show the process as alive.
	DefaultSettleDelay = time.Second

	// terminateTimeout bounds the fire-and-forget termination call.
	terminateTimeout = 5 * time.Second
)

// Builder produces one snapshot per sampling pass.
type Builder interface {
	Build(ctx context.Context) models.Snapshot
}

// Terminator asks the OS to end a process.
type Terminator interface {
	Terminate(ctx context.Context, pid models.Pid) error
}

// Scheduler owns the sampling loop. All passes run on the single goroutine
// inside Start; RefreshNow and Terminate are safe to call from any
// goroutine and never block on an in-flight pass.
type Scheduler struct {
	builder  Builder
	store    *snapshot.Store
	term     Terminator
	interval time.Duration
	settle   time.Duration
	logger   *zap.Logger

	machine *fsm.FSM
	mu      sync.Mutex
	pending bool
	kicks   chan struct{}
}

// New creates a Scheduler. Non-positive durations select the defaults.
func New(builder Builder, store *snapshot.Store, term Terminator, interval, settle time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	s := &Scheduler{
		builder:  builder,
		store:    store,
		term:     term,
		interval: interval,
		settle:   settle,
		logger:   logger,
		kicks:    make(chan struct{}, 1),
	}
	s.machine = fsm.NewFSM(
		stateIdle,
		fsm.Events{
			{Name: eventBegin, Src: []string{stateIdle}, Dst: stateRunning},
			{Name: eventFinish, Src: []string{stateRunning}, Dst: stateIdle},
		},
		fsm.Callbacks{},
	)
	return s
}

// Start runs the sampling loop until the context is cancelled. An initial
// pass runs immediately, then the ticker drives automatic refreshes.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.request()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.request()
		case <-s.kicks:
			s.runPass(ctx)
		}
	}
}

// RefreshNow requests a sampling pass. Accepted while Idle; while Running
// it coalesces into one follow-up pass after the in-flight one completes.
func (s *Scheduler) RefreshNow() {
	s.request()
}

// Terminate asks the OS to end pid's process, fire and forget, then
// schedules one refresh after the settle delay so the next listing can
// reflect the teardown.
func (s *Scheduler) Terminate(pid models.Pid) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), terminateTimeout)
		defer cancel()
		if err := s.term.Terminate(ctx, pid); err != nil {
			s.logger.Warn("termination request failed",
				zap.Int32("pid", pid),
				zap.Error(err))
		}
	}()
	time.AfterFunc(s.settle, s.request)
}

// request transitions Idle -> Running and kicks the loop, or records a
// pending follow-up when a pass is already running.
func (s *Scheduler) request() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.machine.Is(stateRunning) {
		s.pending = true
		return
	}
	if err := s.machine.Event(context.Background(), eventBegin); err != nil {
		return
	}
	select {
	case s.kicks <- struct{}{}:
	default:
	}
}

// runPass executes one full sampling pass and publishes the result.
func (s *Scheduler) runPass(ctx context.Context) {
	snap := s.builder.Build(ctx)
	s.store.Publish(snap)
	s.logger.Debug("published snapshot",
		zap.Int("applications", len(snap.Applications)),
		zap.Float64("host_usage_percent", snap.Host.UsagePercent))
	s.finish()
}

// finish transitions Running -> Idle and, if requests were coalesced during
// the pass, immediately begins the single follow-up pass.
func (s *Scheduler) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.machine.Event(context.Background(), eventFinish)
	if !s.pending {
		return
	}
	s.pending = false
	if err := s.machine.Event(context.Background(), eventBegin); err != nil {
		return
	}
	select {
	case s.kicks <- struct{}{}:
	default:
	}
}

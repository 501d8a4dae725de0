// Package scheduler implements the fixed-step, self-correcting tick
// loop: per-tick handlers run before cadenced subsystems, in
// registration order, on a single logical thread.
package scheduler

import (
	"fmt"
	"log"
	"math"
	"time"

	"terrasim/internal/simerr"
)

// DeltaGameSeconds is the fixed per-tick game-time advance.
const DeltaGameSeconds = 60

// StepContext is the immutable per-tick context passed to every
// handler and subsystem invocation.
type StepContext struct {
	GameTime        GameTime
	StepNumber      uint64
	DeltaGameSeconds float64
}

// GameTime is an opaque whole-minute counter since epoch, exposed as a
// calendar decomposition.
type GameTime struct {
	TotalMinutes uint64 `json:"totalMinutes"`
}

// Calendar decomposes GameTime into days/hours/minutes since epoch.
type Calendar struct {
	Days, Hours, Minutes uint64
}

// Decompose returns gt's calendar breakdown.
func (gt GameTime) Decompose() Calendar {
	days := gt.TotalMinutes / (24 * 60)
	rem := gt.TotalMinutes % (24 * 60)
	hours := rem / 60
	minutes := rem % 60
	return Calendar{Days: days, Hours: hours, Minutes: minutes}
}

// HandlerFunc is a per-tick handler.
type HandlerFunc func(ctx StepContext)

// SystemFunc is a cadenced subsystem handler.
type SystemFunc func(ctx StepContext)

type namedHandler struct {
	name string
	fn   HandlerFunc
}

type accumulator struct {
	accumulated    float64
	cadenceSeconds float64
	fn             SystemFunc // nil until bound by registerSystem
}

// Scheduler is the single-threaded fixed-step tick loop.
type Scheduler struct {
	deltaReal time.Duration

	handlers     []namedHandler
	handlerNames map[string]bool

	systemOrder []string
	accumulators map[string]*accumulator

	gameTime   GameTime
	stepNumber uint64

	running bool
	timer   *time.Timer
	stopCh  chan struct{}
}

// New constructs a paused scheduler with the given real-time tick
// interval.
func New(deltaReal time.Duration) *Scheduler {
	return &Scheduler{
		deltaReal:    deltaReal,
		handlerNames: make(map[string]bool),
		accumulators: make(map[string]*accumulator),
	}
}

// RegisterHandler registers a per-tick handler under name, returning an
// unregister closure. Re-registering an existing name fails with
// DuplicateName.
func (s *Scheduler) RegisterHandler(name string, fn HandlerFunc) (func(), error) {
	if s.handlerNames[name] {
		return nil, fmt.Errorf("handler %q already registered: %w", name, simerr.ErrDuplicateName)
	}
	s.handlerNames[name] = true
	s.handlers = append(s.handlers, namedHandler{name: name, fn: fn})

	return func() {
		delete(s.handlerNames, name)
		for i, h := range s.handlers {
			if h.name == name {
				s.handlers = append(s.handlers[:i], s.handlers[i+1:]...)
				break
			}
		}
	}, nil
}

// RegisterSystem registers a cadenced subsystem. If name already has an
// accumulator (e.g. from Restore), the handler binds to that
// accumulator instead of creating a new one, and cadenceSeconds is
// ignored in favor of the restored cadence.
func (s *Scheduler) RegisterSystem(name string, cadenceSeconds float64, fn SystemFunc) error {
	if math.IsNaN(cadenceSeconds) || math.IsInf(cadenceSeconds, 0) || cadenceSeconds <= 0 {
		return fmt.Errorf("cadence must be positive and finite: %w", simerr.ErrInvalidArgument)
	}

	if acc, ok := s.accumulators[name]; ok {
		if acc.fn != nil {
			return fmt.Errorf("system %q already registered: %w", name, simerr.ErrDuplicateName)
		}
		acc.fn = fn
		return nil
	}

	s.accumulators[name] = &accumulator{cadenceSeconds: cadenceSeconds, fn: fn}
	s.systemOrder = append(s.systemOrder, name)
	return nil
}

// Start schedules the first tick after the configured real interval. A
// no-op if already running.
func (s *Scheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	s.timer = time.AfterFunc(s.deltaReal, s.tick)
}

// Stop cancels the pending tick. A no-op if not running. A tick already
// in progress completes; only the next tick is suppressed.
func (s *Scheduler) Stop() {
	if !s.running {
		return
	}
	s.running = false
	if s.timer != nil {
		s.timer.Stop()
	}
}

// Running reports whether the scheduler has a pending tick scheduled.
func (s *Scheduler) Running() bool { return s.running }

func (s *Scheduler) tick() {
	tickStart := time.Now()

	s.gameTime.TotalMinutes++
	s.stepNumber++

	ctx := StepContext{
		GameTime:         s.gameTime,
		StepNumber:       s.stepNumber,
		DeltaGameSeconds: DeltaGameSeconds,
	}

	for _, h := range s.handlers {
		s.invokeHandler(h.name, h.fn, ctx)
	}

	for _, name := range s.systemOrder {
		acc := s.accumulators[name]
		if acc.fn == nil {
			continue
		}
		acc.accumulated += DeltaGameSeconds
		if acc.accumulated >= acc.cadenceSeconds {
			acc.accumulated -= acc.cadenceSeconds
			s.invokeSystem(name, acc.fn, ctx)
		}
	}

	tickDuration := time.Since(tickStart)
	next := s.deltaReal - tickDuration
	if next < 0 {
		next = 0
	}

	if s.running {
		s.timer = time.AfterFunc(next, s.tick)
	}
}

func (s *Scheduler) invokeHandler(name string, fn HandlerFunc, ctx StepContext) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("scheduler: handler %q failed at step %d: %v", name, ctx.StepNumber, r)
		}
	}()
	fn(ctx)
}

func (s *Scheduler) invokeSystem(name string, fn SystemFunc, ctx StepContext) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("scheduler: system %q failed at step %d: %v", name, ctx.StepNumber, r)
		}
	}()
	fn(ctx)
}

// Tick runs a single tick synchronously, bypassing the real-time timer.
// Intended for tests that need deterministic step-by-step control.
func (s *Scheduler) Tick() {
	s.tick()
}

// StepNumber returns the current step counter.
func (s *Scheduler) StepNumber() uint64 { return s.stepNumber }

// GameTimeNow returns the current game time.
func (s *Scheduler) GameTimeNow() GameTime { return s.gameTime }

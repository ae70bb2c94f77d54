// Package progress drives the timed generation progress indicator that gates
// the move from the generation step to the review step.
package progress

import (
	"log/slog"
	"sync"
	"time"
)

const (
	DefaultDuration    = 5000 * time.Millisecond
	DefaultSettleDelay = 500 * time.Millisecond
	DefaultFloor       = 5.0
)

// State is the observable animator state.
type State struct {
	Running  bool    `json:"running"`
	Progress float64 `json:"progress"`
}

// EventKind classifies an Event.
type EventKind string

const (
	EventArmed     EventKind = "armed"
	EventTick      EventKind = "tick"
	EventCompleted EventKind = "completed"
	EventCancelled EventKind = "cancelled"
)

// Event is delivered to subscribers on every state change.
type Event struct {
	Kind  EventKind `json:"kind"`
	State State     `json:"state"`
}

// Option configures an Animator.
type Option func(*Animator)

func WithDuration(d time.Duration) Option {
	return func(a *Animator) { a.duration = d }
}

func WithSettleDelay(d time.Duration) Option {
	return func(a *Animator) { a.settle = d }
}

func WithFloor(floor float64) Option {
	return func(a *Animator) { a.floor = floor }
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Animator) { a.logger = logger }
}

// Animator runs one 0..100% animation at a time. Every Arm and Cancel starts
// a new epoch; callbacks carrying an older epoch are discarded.
type Animator struct {
	sched    Scheduler
	duration time.Duration
	settle   time.Duration
	floor    float64
	logger   *slog.Logger

	mu         sync.Mutex
	epoch      uint64
	running    bool
	progress   float64
	startedAt  time.Time
	pending    Handle
	onComplete func()
	subs       map[int]chan Event
	nextSub    int
}

// New returns an idle animator at the floor value.
func New(sched Scheduler, opts ...Option) *Animator {
	a := &Animator{
		sched:    sched,
		duration: DefaultDuration,
		settle:   DefaultSettleDelay,
		floor:    DefaultFloor,
		logger:   slog.Default(),
		subs:     make(map[int]chan Event),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.progress = a.floor
	return a
}

// OnComplete sets the single consumer of the completion signal. It is called
// without any animator lock held.
func (a *Animator) OnComplete(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onComplete = fn
}

// State returns the current state.
func (a *Animator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return State{Running: a.running, Progress: a.progress}
}

// Arm starts the animation. It returns false if one is already running.
func (a *Animator) Arm() bool {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return false
	}
	a.epoch++
	epoch := a.epoch
	a.running = true
	a.progress = a.floor
	a.startedAt = a.sched.Now()
	a.pending = a.sched.ScheduleFrame(func(now time.Time) { a.tick(epoch, now) })
	ev := Event{Kind: EventArmed, State: State{Running: true, Progress: a.progress}}
	a.mu.Unlock()

	a.logger.Debug("progress armed", "epoch", epoch)
	a.publish(ev)
	return true
}

// Cancel stops the animation. No completion signal fires for the cancelled
// run, even if one of its callbacks was already dispatched.
func (a *Animator) Cancel() {
	a.mu.Lock()
	a.epoch++
	wasRunning := a.running
	if a.pending != nil {
		a.pending.Cancel()
		a.pending = nil
	}
	a.running = false
	a.progress = a.floor
	ev := Event{Kind: EventCancelled, State: State{Progress: a.progress}}
	a.mu.Unlock()

	if wasRunning {
		a.logger.Debug("progress cancelled")
		a.publish(ev)
	}
}

func (a *Animator) tick(epoch uint64, now time.Time) {
	a.mu.Lock()
	if epoch != a.epoch || !a.running {
		a.mu.Unlock()
		return
	}

	elapsed := now.Sub(a.startedAt)
	a.progress = min(100, float64(elapsed)/float64(a.duration)*100)
	if a.progress < 100 {
		a.pending = a.sched.ScheduleFrame(func(now time.Time) { a.tick(epoch, now) })
	} else {
		a.pending = a.sched.After(a.settle, func() { a.finish(epoch) })
	}
	ev := Event{Kind: EventTick, State: State{Running: true, Progress: a.progress}}
	a.mu.Unlock()

	a.publish(ev)
}

func (a *Animator) finish(epoch uint64) {
	a.mu.Lock()
	if epoch != a.epoch || !a.running {
		a.mu.Unlock()
		return
	}
	a.epoch++
	a.running = false
	a.progress = a.floor
	a.pending = nil
	onComplete := a.onComplete
	ev := Event{Kind: EventCompleted, State: State{Progress: a.progress}}
	a.mu.Unlock()

	a.logger.Debug("progress completed")
	a.publish(ev)
	if onComplete != nil {
		onComplete()
	}
}

// Subscribe returns a channel of state changes and a function that
// unsubscribes. Slow subscribers lose intermediate ticks, never the latest.
func (a *Animator) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	a.mu.Lock()
	id := a.nextSub
	a.nextSub++
	a.subs[id] = ch
	a.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			a.mu.Lock()
			delete(a.subs, id)
			a.mu.Unlock()
			close(ch)
		})
	}
}

func (a *Animator) publish(ev Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, ch := range a.subs {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
}

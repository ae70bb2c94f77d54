package progress

import (
	"slices"
	"sync"
	"time"
)

// DefaultFrameInterval approximates a 60 Hz display refresh.
const DefaultFrameInterval = 16 * time.Millisecond

// Handle cancels a scheduled callback.
type Handle interface {
	Cancel()
}

// Scheduler abstracts the time source and callback scheduling used by the
// Animator, so that it can run against the wall clock or a virtual clock.
type Scheduler interface {
	Now() time.Time
	// ScheduleFrame runs fn once at the next frame with the frame time.
	ScheduleFrame(fn func(now time.Time)) Handle
	// After runs fn once after d.
	After(d time.Duration, fn func()) Handle
}

// ClockScheduler schedules callbacks on wall clock timers.
type ClockScheduler struct {
	frame time.Duration
}

// NewClockScheduler returns a scheduler that ticks every frame. A zero frame
// uses DefaultFrameInterval.
func NewClockScheduler(frame time.Duration) *ClockScheduler {
	if frame <= 0 {
		frame = DefaultFrameInterval
	}
	return &ClockScheduler{frame: frame}
}

func (c *ClockScheduler) Now() time.Time { return time.Now() }

func (c *ClockScheduler) ScheduleFrame(fn func(now time.Time)) Handle {
	return timerHandle{time.AfterFunc(c.frame, func() { fn(time.Now()) })}
}

func (c *ClockScheduler) After(d time.Duration, fn func()) Handle {
	return timerHandle{time.AfterFunc(d, fn)}
}

type timerHandle struct {
	t *time.Timer
}

func (h timerHandle) Cancel() { h.t.Stop() }

// VirtualScheduler is a deterministic clock. Time only moves when Advance is
// called; due callbacks run in order on the calling goroutine.
type VirtualScheduler struct {
	mu           sync.Mutex
	now          time.Time
	frame        time.Duration
	ignoreCancel bool
	seq          uint64
	tasks        []*virtualTask
}

// VirtualOption configures a VirtualScheduler.
type VirtualOption func(*VirtualScheduler)

// WithFrameInterval sets the virtual frame length (default 10ms).
func WithFrameInterval(d time.Duration) VirtualOption {
	return func(v *VirtualScheduler) { v.frame = d }
}

// IgnoreCancel makes Cancel a no-op, so callbacks fire even after they were
// cancelled. Used to check that stale callbacks are discarded by their owner.
func IgnoreCancel() VirtualOption {
	return func(v *VirtualScheduler) { v.ignoreCancel = true }
}

func NewVirtualScheduler(start time.Time, opts ...VirtualOption) *VirtualScheduler {
	v := &VirtualScheduler{now: start, frame: 10 * time.Millisecond}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

type virtualTask struct {
	owner     *VirtualScheduler
	due       time.Time
	seq       uint64
	fn        func(now time.Time)
	cancelled bool
}

func (t *virtualTask) Cancel() {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if !t.owner.ignoreCancel {
		t.cancelled = true
	}
}

func (v *VirtualScheduler) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

func (v *VirtualScheduler) ScheduleFrame(fn func(now time.Time)) Handle {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.add(v.frame, fn)
}

func (v *VirtualScheduler) After(d time.Duration, fn func()) Handle {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.add(d, func(time.Time) { fn() })
}

func (v *VirtualScheduler) add(d time.Duration, fn func(time.Time)) *virtualTask {
	v.seq++
	t := &virtualTask{owner: v, due: v.now.Add(d), seq: v.seq, fn: fn}
	v.tasks = append(v.tasks, t)
	return t
}

// Advance moves the clock forward by d, running every callback that falls due.
// Callbacks scheduled while advancing run too if they fall due within d.
func (v *VirtualScheduler) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now.Add(d)
	v.mu.Unlock()

	for {
		v.mu.Lock()
		next := v.popDue(target)
		if next == nil {
			v.now = target
			v.mu.Unlock()
			return
		}
		v.now = next.due
		now := v.now
		v.mu.Unlock()

		next.fn(now)
	}
}

// popDue removes and returns the earliest live task due at or before target.
func (v *VirtualScheduler) popDue(target time.Time) *virtualTask {
	v.tasks = slices.DeleteFunc(v.tasks, func(t *virtualTask) bool { return t.cancelled })

	idx := -1
	for i, t := range v.tasks {
		if t.due.After(target) {
			continue
		}
		if idx < 0 || t.due.Before(v.tasks[idx].due) ||
			(t.due.Equal(v.tasks[idx].due) && t.seq < v.tasks[idx].seq) {
			idx = i
		}
	}
	if idx < 0 {
		return nil
	}
	t := v.tasks[idx]
	v.tasks = slices.Delete(v.tasks, idx, idx+1)
	return t
}

// Pending returns the number of live scheduled callbacks.
func (v *VirtualScheduler) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := 0
	for _, t := range v.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

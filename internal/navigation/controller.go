// Package navigation implements the wizard's step state machine: linear
// back/next transitions, direct jumps and the asynchronous hand-off from the
// generation step to the review step.
package navigation

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mdabutalebdev/cv-maker/internal/labels"
	"github.com/mdabutalebdev/cv-maker/internal/progress"
	"github.com/mdabutalebdev/cv-maker/internal/steps"
)

// ErrForwardDisabled is returned by Next on the review step.
var ErrForwardDisabled = errors.New("forward navigation is disabled on the review step")

// LockedStepError is returned in strict mode for jumps past the furthest
// step reached.
type LockedStepError struct {
	Step     steps.Step
	Furthest steps.Step
}

func (e *LockedStepError) Error() string {
	return fmt.Sprintf("step %s is locked (furthest reached: %s)", e.Step, e.Furthest)
}

// Animator is the progress indicator the controller arms on the generation step.
type Animator interface {
	Arm() bool
	Cancel()
	State() progress.State
	OnComplete(fn func())
}

// Option configures a Controller.
type Option func(*Controller)

// WithStart sets the initial step. Invalid steps fall back to Landing.
func WithStart(s steps.Step) Option {
	return func(c *Controller) {
		if s.Valid() {
			c.current = s
			c.furthest = s
		}
	}
}

// WithStrictJumps refuses direct jumps past the furthest step reached.
func WithStrictJumps(strict bool) Option {
	return func(c *Controller) { c.strict = strict }
}

func WithCatalog(catalog *labels.Catalog) Option {
	return func(c *Controller) { c.catalog = catalog }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// Controller owns the current step. The generating flag is owned by the
// animator and read through it.
type Controller struct {
	animator Animator
	catalog  *labels.Catalog
	logger   *slog.Logger
	strict   bool

	mu       sync.Mutex
	current  steps.Step
	furthest steps.Step
	onChange func(from, to steps.Step)
}

// New creates a controller at Landing and subscribes to animator completion.
func New(animator Animator, opts ...Option) *Controller {
	c := &Controller{
		animator: animator,
		logger:   slog.Default(),
		current:  steps.Landing,
		furthest: steps.Landing,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.catalog == nil {
		c.catalog = labels.English()
	}
	animator.OnComplete(c.generated)
	return c
}

// OnChange registers a callback invoked after every step change.
func (c *Controller) OnChange(fn func(from, to steps.Step)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Current returns the current step.
func (c *Controller) Current() steps.Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Furthest returns the furthest step reached.
func (c *Controller) Furthest() steps.Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.furthest
}

// Generating reports whether the generation animation is running.
func (c *Controller) Generating() bool {
	return c.animator.State().Running
}

// Back moves one step back, or to Landing from the first step. It always
// cancels the generation animation.
func (c *Controller) Back() steps.Step {
	c.animator.Cancel()

	c.mu.Lock()
	from := c.current
	switch {
	case c.current > steps.First:
		c.current--
	case c.current == steps.First:
		c.current = steps.Landing
	}
	to := c.current
	c.mu.Unlock()

	c.changed(from, to)
	return to
}

// Next advances one step. On the generation step it arms the animator and
// leaves the step unchanged; the animator's completion moves to review.
func (c *Controller) Next() (steps.Step, error) {
	c.mu.Lock()
	from := c.current
	switch {
	case c.current == steps.Review:
		c.mu.Unlock()
		return from, ErrForwardDisabled
	case c.current == steps.Generation:
		c.mu.Unlock()
		if c.animator.Arm() {
			c.logger.Info("resume generation started")
		}
		return from, nil
	default:
		c.current++
		c.furthest = max(c.furthest, c.current)
	}
	to := c.current
	c.mu.Unlock()

	c.changed(from, to)
	return to, nil
}

// Navigate jumps directly to target. Leaving the generation step cancels
// the animation. In strict mode jumps past the furthest step are refused.
func (c *Controller) Navigate(target steps.Step) error {
	if target != steps.Landing && !target.Valid() {
		return &steps.InvalidStepError{Raw: target.String()}
	}

	c.mu.Lock()
	if c.strict && target > c.furthest {
		furthest := c.furthest
		c.mu.Unlock()
		return &LockedStepError{Step: target, Furthest: furthest}
	}
	from := c.current
	c.current = target
	c.furthest = max(c.furthest, target)
	c.mu.Unlock()

	if from == steps.Generation && target != steps.Generation {
		c.animator.Cancel()
	}
	c.changed(from, target)
	return nil
}

func (c *Controller) generated() {
	c.mu.Lock()
	from := c.current
	if from != steps.Generation {
		c.mu.Unlock()
		c.logger.Debug("generation completed off the generation step; ignoring", "step", from)
		return
	}
	c.current = steps.Review
	c.furthest = steps.Review
	c.mu.Unlock()

	c.logger.Info("resume generation completed")
	c.changed(from, steps.Review)
}

func (c *Controller) changed(from, to steps.Step) {
	if from == to {
		return
	}
	c.logger.Debug("step changed", "from", from, "to", to)

	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn(from, to)
	}
}

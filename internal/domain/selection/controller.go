package selection

import (
	"fmt"
	"log/slog"

	"github.com/ganot/atelier/internal/domain/project"
)

// Direction is a carousel step. Only the sign is significant.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// Scheduler runs fn at some later point on the view's own event loop.
type Scheduler interface {
	Defer(fn func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(fn func())

// Defer calls f(fn).
func (f SchedulerFunc) Defer(fn func()) { f(fn) }

// Options wires a Controller to its view.
type Options struct {
	// Keys is the input surface the keyboard subscription is installed on.
	// Nil disables keyboard handling.
	Keys *KeyBus
	// Scheduler and Focus implement the deferred focus transfer to the
	// detail view after Open. Either being nil skips it.
	Scheduler Scheduler
	Focus     func() error
	Logger    *slog.Logger
}

// State is a snapshot of the selection.
type State struct {
	Project *project.Project
	Index   int
}

// Selected reports whether a project is open.
func (s State) Selected() bool {
	return s.Project != nil
}

// Image returns the image reference currently displayed, or "".
func (s State) Image() string {
	if s.Project == nil || s.Index < 0 || s.Index >= len(s.Project.Images) {
		return ""
	}
	return s.Project.Images[s.Index]
}

// Controller owns the selection state and its keyboard subscription.
type Controller struct {
	opts        Options
	state       State
	unsubscribe func()
}

// NewController creates a controller with nothing selected.
func NewController(opts Options) *Controller {
	return &Controller{opts: opts}
}

// State returns the current selection.
func (c *Controller) State() State {
	return c.state
}

// Selected reports whether a project is open.
func (c *Controller) Selected() bool {
	return c.state.Selected()
}

// Subscribed reports whether the keyboard subscription is installed.
func (c *Controller) Subscribed() bool {
	return c.unsubscribe != nil
}

// Open selects p, resets the carousel to its first image, installs the
// keyboard subscription and schedules the focus transfer.
func (c *Controller) Open(p *project.Project) error {
	if err := c.selectProject(p, 0); err != nil {
		return err
	}
	c.requestFocus()
	return nil
}

// Restore reinstates a previously persisted selection without moving focus.
// An index outside the project's image range falls back to 0.
func (c *Controller) Restore(p *project.Project, index int) error {
	if p != nil && (index < 0 || index >= len(p.Images)) {
		index = 0
	}
	return c.selectProject(p, index)
}

func (c *Controller) selectProject(p *project.Project, index int) error {
	if p == nil {
		return ErrNilProject
	}
	if len(p.Images) == 0 {
		return fmt.Errorf("%w: %s", ErrNoImages, p.ID)
	}
	c.state = State{Project: p, Index: index}
	c.subscribe()
	return nil
}

// Close clears the selection and removes the keyboard subscription.
func (c *Controller) Close() {
	c.state = State{}
	c.unsubscribeKeys()
}

// Navigate moves the carousel one image in direction, wrapping at both
// ends. It does nothing when no project is open.
func (c *Controller) Navigate(direction Direction) {
	if !c.state.Selected() {
		return
	}
	step := 0
	switch {
	case direction > 0:
		step = 1
	case direction < 0:
		step = -1
	}
	n := len(c.state.Project.Images)
	c.state.Index = (c.state.Index + step + n) % n
}

// JumpTo shows the image at index. It does nothing when no project is open.
func (c *Controller) JumpTo(index int) error {
	if !c.state.Selected() {
		return nil
	}
	if index < 0 || index >= len(c.state.Project.Images) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(c.state.Project.Images))
	}
	c.state.Index = index
	return nil
}

// HandleKey applies the detail-view key bindings and reports whether key
// was acted on.
func (c *Controller) HandleKey(key Key) bool {
	if !c.state.Selected() {
		return false
	}
	switch key {
	case KeyEscape:
		c.Close()
	case KeyArrowRight:
		c.Navigate(Forward)
	case KeyArrowLeft:
		c.Navigate(Backward)
	default:
		return false
	}
	return true
}

// Teardown releases the keyboard subscription when the hosting view goes
// away, whether or not a project is open.
func (c *Controller) Teardown() {
	c.Close()
}

func (c *Controller) subscribe() {
	if c.opts.Keys == nil || c.unsubscribe != nil {
		return
	}
	c.unsubscribe = c.opts.Keys.Subscribe(c.HandleKey)
}

func (c *Controller) unsubscribeKeys() {
	if c.unsubscribe == nil {
		return
	}
	c.unsubscribe()
	c.unsubscribe = nil
}

func (c *Controller) requestFocus() {
	if c.opts.Scheduler == nil || c.opts.Focus == nil {
		return
	}
	target := c.state.Project
	c.opts.Scheduler.Defer(func() {
		// The selection may have changed before the deferred call ran.
		if c.state.Project != target {
			return
		}
		if err := c.opts.Focus(); err != nil && c.opts.Logger != nil {
			c.opts.Logger.Debug("detail focus skipped", "project", target.ID, "error", err)
		}
	})
}

package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/mctransmit/internal/domain"
	"github.com/bft-labs/mctransmit/internal/ports"
	"github.com/bft-labs/mctransmit/pkg/log"
)

// Controller holds the current session, if any, and guarantees that at most
// one session transmits at a time. Start reads the inputs on demand.
//
// Start, Stop, Toggle and Restart are serialized. Running and Current never
// wait for them, so lifecycle event handlers may call the query methods but
// must not call back into Start, Stop, Toggle or Restart.
type Controller struct {
	op sync.Mutex // serializes Start, Stop, Toggle and Restart

	mu       sync.Mutex
	current  *Session
	previous *Session // last stopped session, until its handle is released

	input  ports.InputSource
	deps   SessionDeps
	logger log.Logger
}

// NewController creates a controller with no session.
func NewController(input ports.InputSource, deps SessionDeps) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Controller{
		input:  input,
		deps:   deps,
		logger: logger,
	}
}

// Start builds and starts a new session from the current inputs.
// Returns domain.ErrAlreadyRunning while another session is transmitting,
// or while a send abandoned by a forced Stop still holds its handle.
// A session halted by a send failure is released and replaced.
func (c *Controller) Start() (*Session, error) {
	c.op.Lock()
	defer c.op.Unlock()
	return c.startLocked()
}

// Stop stops the current session. Stop without a session is a no-op.
func (c *Controller) Stop() error {
	c.op.Lock()
	defer c.op.Unlock()
	return c.stopLocked()
}

// Toggle stops a transmitting session or starts a new one.
func (c *Controller) Toggle() error {
	c.op.Lock()
	defer c.op.Unlock()

	if c.Running() {
		return c.stopLocked()
	}
	_, err := c.startLocked()
	return err
}

// Restart stops the current session and starts a new one from fresh inputs.
// The previous session is fully stopped before the new one is built.
func (c *Controller) Restart() (*Session, error) {
	c.op.Lock()
	defer c.op.Unlock()

	if err := c.stopLocked(); err != nil {
		c.logger.Warn("previous session stopped with error", log.Err(err))
	}
	return c.startLocked()
}

// Running reports whether a session is transmitting.
func (c *Controller) Running() bool {
	s := c.Current()
	return s != nil && s.Running()
}

// Current returns the current session, or nil.
func (c *Controller) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Controller) setCurrent(s *Session) {
	c.mu.Lock()
	c.current = s
	c.mu.Unlock()
}

// startLocked is called with c.op held.
func (c *Controller) startLocked() (*Session, error) {
	if cur := c.Current(); cur != nil {
		if cur.Running() {
			return nil, domain.ErrAlreadyRunning
		}
		// Halted by a send failure: release it before replacing.
		_ = c.stopLocked()
	}
	if err := c.awaitRelease(); err != nil {
		return nil, err
	}

	sess, err := NewSession(c.input.Inputs(), c.deps)
	if err != nil {
		return nil, err
	}

	c.setCurrent(sess)
	if err := sess.Start(); err != nil {
		_ = sess.Stop()
		c.setCurrent(nil)
		return nil, err
	}
	return sess, nil
}

// stopLocked is called with c.op held. c.mu is not held while the session
// stops, so event handlers can still read Current.
func (c *Controller) stopLocked() error {
	sess := c.Current()
	if sess == nil {
		return nil
	}
	err := sess.Stop()

	c.mu.Lock()
	c.current = nil
	c.previous = sess
	c.mu.Unlock()
	return err
}

// awaitRelease waits up to the previous session's grace period for its
// handle to be closed, so that sends of two sessions never overlap.
func (c *Controller) awaitRelease() error {
	c.mu.Lock()
	prev := c.previous
	c.mu.Unlock()
	if prev == nil {
		return nil
	}

	timer := time.NewTimer(prev.scheduler.GracePeriod())
	defer timer.Stop()

	select {
	case <-prev.Released():
	case <-timer.C:
		return fmt.Errorf("%w: session %s still has a send in flight", domain.ErrAlreadyRunning, prev.ID())
	}

	c.mu.Lock()
	c.previous = nil
	c.mu.Unlock()
	return nil
}

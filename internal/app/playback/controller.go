package playback

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/rcplayer/internal/domain/session"
)

// Errors
var (
	ErrClosed = errors.New("controller is closed")
)

// Mounter makes an item the one currently displayed.
type Mounter interface {
	Mount(it *session.Item)
}

// View renders state that depends on the cursor.
type View interface {
	RenderList(s Snapshot)
	RenderMeta(s Snapshot)
}

// Config holds controller configuration.
type Config struct {
	EventBuffer int // Size of the Events channel buffer
}

// Controller owns the session and cursor. All transitions run in order on a
// single dispatch goroutine; public methods only enqueue.
type Controller struct {
	// Loop-owned state
	session *session.Session
	idx     int
	state   State

	// Published copy for readers on other goroutines
	snapMu sync.RWMutex
	snap   Snapshot

	mounter Mounter
	view    View

	// Dispatch queue
	qmu    sync.Mutex
	queue  []func()
	closed bool
	wake   chan struct{}

	// Events
	eventCh chan Event

	// Context
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewController creates a controller in StateEmpty and starts its dispatch loop.
func NewController(config Config, mounter Mounter, view View) *Controller {
	if config.EventBuffer <= 0 {
		config.EventBuffer = 32
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		state:   StateEmpty,
		snap:    Snapshot{State: StateEmpty},
		mounter: mounter,
		view:    view,
		wake:    make(chan struct{}, 1),
		eventCh: make(chan Event, config.EventBuffer),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go c.loop()
	return c
}

// Events returns the event channel. It is closed by Close.
func (c *Controller) Events() <-chan Event {
	return c.eventCh
}

// Post enqueues fn on the dispatch loop. It never blocks and may be called
// from the loop itself. Functions posted after Close are dropped.
func (c *Controller) Post(fn func()) {
	c.qmu.Lock()
	if c.closed {
		c.qmu.Unlock()
		return
	}
	c.queue = append(c.queue, fn)
	c.qmu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Flush waits until everything posted before the call has been applied.
// Must not be called from the dispatch loop.
func (c *Controller) Flush(ctx context.Context) error {
	c.qmu.Lock()
	closed := c.closed
	c.qmu.Unlock()
	if closed {
		return ErrClosed
	}

	done := make(chan struct{})
	c.Post(func() { close(done) })
	select {
	case <-done:
		return nil
	case <-c.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the state as of the last applied transition.
func (c *Controller) Snapshot() Snapshot {
	c.snapMu.RLock()
	defer c.snapMu.RUnlock()
	return c.snap
}

// GetState returns the current navigation state.
func (c *Controller) GetState() State {
	return c.Snapshot().State
}

// Reset installs a new session and moves the cursor to 0.
func (c *Controller) Reset(s *session.Session) {
	c.Post(func() { c.reset(s) })
}

// Select moves the cursor to i. Out-of-range indexes are ignored.
func (c *Controller) Select(i int) {
	c.Post(func() { c.selectIndex(i) })
}

// Advance moves the cursor forward, clamping at the last item.
func (c *Controller) Advance() {
	c.Post(c.advance)
}

// Retreat moves the cursor backward, clamping at the first item.
func (c *Controller) Retreat() {
	c.Post(c.retreat)
}

// Close stops the dispatch loop and closes the event channel.
func (c *Controller) Close() {
	c.qmu.Lock()
	if c.closed {
		c.qmu.Unlock()
		return
	}
	c.closed = true
	c.queue = nil
	c.qmu.Unlock()

	c.cancel()
	<-c.done
	close(c.eventCh)
}

func (c *Controller) reset(s *session.Session) {
	if s == nil {
		return
	}
	c.session = s
	c.idx = 0
	c.state = StateActive
	zlog.Info().Msgf("playback: session installed: session_id=%s items=%d", s.SessionID, s.Len())
	c.applyLocked(EventSessionReplaced)
}

func (c *Controller) selectIndex(i int) {
	if c.state != StateActive || i < 0 || i >= c.session.Len() {
		return
	}
	// Selecting the current item re-mounts it.
	c.idx = i
	c.applyLocked(EventIndexChanged)
}

func (c *Controller) advance() {
	if c.state != StateActive || c.idx >= c.session.Len()-1 {
		return
	}
	c.idx++
	c.applyLocked(EventIndexChanged)
}

func (c *Controller) retreat() {
	if c.state != StateActive || c.idx == 0 {
		return
	}
	c.idx--
	c.applyLocked(EventIndexChanged)
}

// applyLocked publishes the new state, mounts the current item and refreshes
// the views. Must be called on the dispatch loop.
func (c *Controller) applyLocked(t EventType) {
	snap := Snapshot{State: c.state, Session: c.session, Index: c.idx}

	c.snapMu.Lock()
	c.snap = snap
	c.snapMu.Unlock()

	if it, ok := snap.Current(); ok {
		c.mounter.Mount(it)
	}
	c.view.RenderList(snap)
	c.view.RenderMeta(snap)

	zlog.Debug().Msgf("playback: %s: index=%d len=%d", t, snap.Index, snap.Len())
	c.sendEventLocked(Event{Type: t, Snapshot: snap})
}

// sendEventLocked sends an event without blocking.
func (c *Controller) sendEventLocked(e Event) {
	select {
	case c.eventCh <- e:
	case <-c.ctx.Done():
	default:
		// Channel full, drop event
	}
}

func (c *Controller) loop() {
	defer close(c.done)
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-c.wake:
		}
		for {
			c.qmu.Lock()
			if len(c.queue) == 0 || c.closed {
				c.qmu.Unlock()
				break
			}
			fn := c.queue[0]
			c.queue = c.queue[1:]
			c.qmu.Unlock()

			c.run(fn)
		}
	}
}

func (c *Controller) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			zlog.Error().Msgf("playback: transition panicked: %v", r)
		}
	}()
	fn()
}

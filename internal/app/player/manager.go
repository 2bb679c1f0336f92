// Package player provides the player host that owns the playback session
// and drives the attached page.
package player

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/rcplayer/internal/app/bridge"
	"github.com/osa030/rcplayer/internal/app/builder"
	"github.com/osa030/rcplayer/internal/app/embed"
	"github.com/osa030/rcplayer/internal/app/feedback"
	"github.com/osa030/rcplayer/internal/app/notification"
	"github.com/osa030/rcplayer/internal/app/playback"
	"github.com/osa030/rcplayer/internal/app/remote"
	"github.com/osa030/rcplayer/internal/app/view"
	"github.com/osa030/rcplayer/internal/domain/session"
	"github.com/osa030/rcplayer/internal/infra/backend"
)

// Errors
var (
	ErrClosed = errors.New("player is closed")
)

// Backend is the recommendation backend used by the player.
type Backend interface {
	BuildSession(ctx context.Context, seedURL string, n int) (*session.Session, error)
	SubmitFeedback(ctx context.Context, fb backend.FeedbackRequest) error
}

// Config holds player settings.
type Config struct {
	DefaultN        int
	KeysEnabled     bool
	APILoadTimeout  time.Duration
	APIScriptURL    string
	FeedbackTimeout time.Duration
	QueueSize       int // Commands buffered per attached page
	Clock           clock.Clock // Defaults to the wall clock
}

// Manager composes the playback controller, embed selector, event bridge,
// feedback dispatcher and session builder, and is the single owner of their state.
type Manager struct {
	ctrl     *playback.Controller
	selector *embed.Selector
	bridge   *bridge.Bridge
	feedback *feedback.Dispatcher
	builder  *builder.Builder

	notifier *notification.Manager
	page     *remote.Page
	players  *remote.Players
	api      *remote.API

	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager creates a new player manager.
func NewManager(cfg Config, be Backend) (*Manager, error) {
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	notifier := notification.NewManager(cfg.QueueSize)
	page := remote.NewPage(notifier)

	m := &Manager{
		notifier: notifier,
		page:     page,
		players:  remote.NewPlayers(page),
		api: remote.NewAPI(page, remote.APIConfig{
			Clock:     cfg.Clock,
			Timeout:   cfg.APILoadTimeout,
			ScriptURL: cfg.APIScriptURL,
		}),
		ctx:    ctx,
		cancel: cancel,
	}

	// The selector re-enters the controller loop for async continuations,
	// so both are wired through closures over m.
	m.selector = embed.NewSelector(embed.Config{
		Container: page,
		Factory:   m.players,
		Loader:    embed.NewLoader(ctx, m.api),
		Vars:      embed.DefaultPlayerVars,
		Schedule:  func(fn func()) { m.ctrl.Post(fn) },
		OnEnded:   func() { m.ctrl.Advance() },
	})
	m.ctrl = playback.NewController(playback.Config{}, m.selector, remote.NewViews(page, renderer))
	m.feedback = feedback.NewDispatcher(m.ctrl, be, cfg.FeedbackTimeout)
	m.bridge = bridge.New(m.ctrl, m.feedback, cfg.KeysEnabled)
	m.builder = builder.New(be, m.ctrl, page, cfg.DefaultN)

	go m.watchEvents(m.ctrl.Events())

	return m, nil
}

// BuildSession builds a session from the raw seed and count inputs and installs it.
func (m *Manager) BuildSession(ctx context.Context, seedInput, nInput string) error {
	if err := m.builder.Build(ctx, seedInput, nInput); err != nil {
		return err
	}
	return m.ctrl.Flush(ctx)
}

// Select moves to the item at index i.
func (m *Manager) Select(i int) {
	m.ctrl.Select(i)
}

// Next moves to the next item.
func (m *Manager) Next() {
	m.ctrl.Advance()
}

// Prev moves to the previous item.
func (m *Manager) Prev() {
	m.ctrl.Retreat()
}

// Feedback reports action for the current item. Skip and block then advance.
// It returns false when there is no current item.
func (m *Manager) Feedback(ctx context.Context, action string) (bool, error) {
	var sent bool
	err := m.do(ctx, func() {
		sent = m.feedback.Send(action)
		if sent && feedback.Advances(action) {
			m.ctrl.Advance()
		}
	})
	return sent, err
}

// OpenExternal asks the page to open the current item's URL in a new tab.
func (m *Manager) OpenExternal(ctx context.Context) (string, error) {
	var url string
	err := m.do(ctx, func() {
		if it, ok := m.ctrl.Snapshot().Current(); ok {
			url = it.URL
			m.page.Open(url)
		}
	})
	return url, err
}

// Key applies a keyboard shortcut and reports whether it was handled.
func (m *Manager) Key(ctx context.Context, k bridge.Key) (bool, error) {
	var handled bool
	err := m.do(ctx, func() {
		handled = m.bridge.HandleKey(k)
	})
	return handled, err
}

// Message handles a cross-context message forwarded by the page.
func (m *Manager) Message(payload any) bool {
	return m.bridge.HandleMessage(payload)
}

// PlayerEnded handles an end-of-media report from the native player with handle.
func (m *Manager) PlayerEnded(handle string) bool {
	return m.players.Ended(handle)
}

// APIReady acknowledges that the page has loaded the native player API.
func (m *Manager) APIReady() {
	m.api.Ready()
}

// Snapshot returns the current navigation state.
func (m *Manager) Snapshot() playback.Snapshot {
	return m.ctrl.Snapshot()
}

// Flush waits until all queued transitions have been applied.
func (m *Manager) Flush(ctx context.Context) error {
	return m.ctrl.Flush(ctx)
}

// Attach subscribes stream and returns the state that rebuilds the page.
// Both happen on the dispatch loop so no command falls between them.
func (m *Manager) Attach(ctx context.Context, stream notification.Stream) (string, *notification.Command, error) {
	var (
		id    string
		state *notification.Command
	)
	err := m.do(ctx, func() {
		state = m.initialState()
		id = m.notifier.Subscribe(stream)
	})
	return id, state, err
}

// Detach removes a subscription created by Attach.
func (m *Manager) Detach(id string) {
	m.notifier.Unsubscribe(id)
}

// Done returns a channel closed when the manager is closed.
func (m *Manager) Done() <-chan struct{} {
	return m.ctx.Done()
}

// Close stops the controller and waits for in-flight feedback.
func (m *Manager) Close() {
	m.cancel()
	m.ctrl.Close()
	m.feedback.Close()
	m.notifier.Close()
	zlog.Info().Msg("player: closed")
}

// watchEvents pushes every navigation change to attached pages until the
// controller is closed.
func (m *Manager) watchEvents(events <-chan playback.Event) {
	for e := range events {
		zlog.Debug().Msgf("player: %s: index=%d len=%d", e.Type, e.Snapshot.Index, e.Snapshot.Len())
		m.notifier.Broadcast(&notification.Command{
			Type:  notification.CommandState,
			State: m.navState(e.Snapshot),
		})
	}
}

func (m *Manager) navState(snap playback.Snapshot) *notification.State {
	st := &notification.State{
		Active:      snap.Active(),
		Index:       snap.Index,
		Len:         snap.Len(),
		KeysEnabled: m.bridge.KeysEnabled(),
	}
	if snap.Session != nil {
		st.SessionID = snap.Session.SessionID
	}
	return st
}

func (m *Manager) initialState() *notification.Command {
	st := m.navState(m.ctrl.Snapshot())
	st.Bindings = bridge.Bindings()
	st.Replay = m.page.Replay(m.api.Command())
	st.BuildEnabled = m.page.BuildEnabled()
	return &notification.Command{
		Type:       notification.CommandInitialState,
		SequenceNo: m.notifier.NextSequenceNo(),
		State:      st,
	}
}

// do runs fn on the dispatch loop and waits for it.
func (m *Manager) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	m.ctrl.Post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-m.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

package remote

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/cockroachdb/errors"

	"github.com/osa030/rcplayer/internal/app/embed"
	"github.com/osa030/rcplayer/internal/app/notification"
)

// DefaultAPIScriptURL is the native player API script.
const DefaultAPIScriptURL = "https://www.youtube.com/iframe_api"

// ErrAPITimeout is returned when the page does not acknowledge the API in time.
var ErrAPITimeout = errors.New("timed out waiting for player API")

// API asks the page to load the native player API and waits for its acknowledgement.
type API struct {
	page      *Page
	clock     clock.Clock
	timeout   time.Duration
	scriptURL string

	mu      sync.Mutex
	waiters []chan struct{}
}

// APIConfig holds API loader settings.
type APIConfig struct {
	Clock     clock.Clock
	Timeout   time.Duration
	ScriptURL string
}

// NewAPI creates an API loader bound to page.
func NewAPI(page *Page, cfg APIConfig) *API {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.ScriptURL == "" {
		cfg.ScriptURL = DefaultAPIScriptURL
	}
	return &API{page: page, clock: cfg.Clock, timeout: cfg.Timeout, scriptURL: cfg.ScriptURL}
}

// Ensure API implements the interface.
var _ embed.APILoader = (*API)(nil)

// Command returns the load_api command.
func (a *API) Command() *notification.Command {
	return &notification.Command{Type: notification.CommandLoadAPI, URL: a.scriptURL}
}

// Load implements embed.APILoader.
func (a *API) Load(ctx context.Context) error {
	if !a.page.Attached() {
		return ErrNoPage
	}

	timer := a.clock.Timer(a.timeout)
	defer timer.Stop()

	ready := make(chan struct{})
	a.mu.Lock()
	a.waiters = append(a.waiters, ready)
	a.mu.Unlock()
	defer a.drop(ready)

	a.page.markAPIRequested()
	a.page.emit(*a.Command())

	select {
	case <-ready:
		return nil
	case <-timer.C:
		return ErrAPITimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ready acknowledges that the page has loaded the API.
func (a *API) Ready() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, ch := range a.waiters {
		close(ch)
	}
	a.waiters = nil
}

// waiting reports whether a load is waiting for acknowledgement.
func (a *API) waiting() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.waiters) > 0
}

func (a *API) drop(ch chan struct{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, w := range a.waiters {
		if w == ch {
			a.waiters = append(a.waiters[:i], a.waiters[i+1:]...)
			return
		}
	}
}

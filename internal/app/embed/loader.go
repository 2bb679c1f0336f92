package embed

import (
	"context"
	"sync"

	zlog "github.com/rs/zerolog/log"
)

// loadFlight is one in-flight API load shared by every waiter.
type loadFlight struct {
	done chan struct{}
	err  error
}

// Loader memoizes an APILoader. Concurrent callers share one in-flight load;
// a successful load is permanent, a failed one is forgotten so the next call retries.
type Loader struct {
	api APILoader
	ctx context.Context

	mu     sync.Mutex
	ready  bool
	flight *loadFlight
}

// NewLoader creates a memoized loader. ctx bounds the underlying loads.
func NewLoader(ctx context.Context, api APILoader) *Loader {
	return &Loader{api: api, ctx: ctx}
}

// Ready returns true once the API has loaded successfully.
func (l *Loader) Ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ready
}

// Load waits for the API to be loaded, starting the load if none is in flight.
// ctx only bounds the wait; cancelling it does not abort the shared load.
func (l *Loader) Load(ctx context.Context) error {
	l.mu.Lock()
	if l.ready {
		l.mu.Unlock()
		return nil
	}
	f := l.flight
	if f == nil {
		f = &loadFlight{done: make(chan struct{})}
		l.flight = f
		go l.run(f)
	}
	l.mu.Unlock()

	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loader) run(f *loadFlight) {
	zlog.Debug().Msg("embed: loading player API")
	err := l.api.Load(l.ctx)

	l.mu.Lock()
	f.err = err
	if err == nil {
		l.ready = true
	}
	l.flight = nil
	l.mu.Unlock()

	if err != nil {
		zlog.Warn().Msgf("embed: player API load failed: %v", err)
	} else {
		zlog.Info().Msg("embed: player API loaded")
	}
	close(f.done)
}

package embed

import (
	"context"
	"sync"
	"sync/atomic"
)

// fakeContainer records container operations.
type fakeContainer struct {
	resets  int
	sources []string
}

func (c *fakeContainer) Reset()               { c.resets++ }
func (c *fakeContainer) SetSource(url string) { c.sources = append(c.sources, url) }

// fakeControl is a native player double.
type fakeControl struct {
	factory   *fakeFactory
	loaded    []string
	destroyed bool
	onEnded   func()
}

func (p *fakeControl) LoadVideo(id string) error {
	p.loaded = append(p.loaded, id)
	return nil
}

func (p *fakeControl) Destroy() {
	if !p.destroyed {
		p.destroyed = true
		p.factory.live--
	}
}

// fakeFactory counts live control objects.
type fakeFactory struct {
	created []*fakeControl
	live    int
	err     error
}

func (f *fakeFactory) Create(_ Container, id string, _ PlayerVars, onEnded func()) (ControlObject, error) {
	if f.err != nil {
		return nil, f.err
	}
	p := &fakeControl{factory: f, loaded: []string{id}, onEnded: onEnded}
	f.created = append(f.created, p)
	f.live++
	return p, nil
}

// fakeAPI blocks each load until release is closed.
type fakeAPI struct {
	calls   atomic.Int32
	release chan struct{}
	mu      sync.Mutex
	errs    []error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{release: make(chan struct{})}
}

func (a *fakeAPI) Load(ctx context.Context) error {
	a.calls.Add(1)
	select {
	case <-a.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.errs) > 0 {
		err := a.errs[0]
		a.errs = a.errs[1:]
		return err
	}
	return nil
}

// readyLoader returns a loader whose API is already loaded.
func readyLoader() *Loader {
	api := newFakeAPI()
	close(api.release)
	l := NewLoader(context.Background(), api)
	_ = l.Load(context.Background())
	return l
}

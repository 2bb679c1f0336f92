package embed

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/rcplayer/internal/domain/session"
)

// harness drives a selector with an explicit loop queue.
type harness struct {
	sel       *Selector
	container *fakeContainer
	factory   *fakeFactory
	queue     chan func()
	ended     int
}

func newHarness(loader *Loader) *harness {
	h := &harness{
		container: &fakeContainer{},
		factory:   &fakeFactory{},
		queue:     make(chan func(), 16),
	}
	h.sel = NewSelector(Config{
		Container: h.container,
		Factory:   h.factory,
		Loader:    loader,
		Vars:      DefaultPlayerVars,
		Schedule:  func(fn func()) { h.queue <- fn },
		OnEnded:   func() { h.ended++ },
	})
	return h
}

// step runs the next scheduled continuation.
func (h *harness) step(t *testing.T) {
	t.Helper()
	select {
	case fn := <-h.queue:
		fn()
	case <-time.After(time.Second):
		t.Fatal("no continuation scheduled")
	}
}

func item(id, playURL string) *session.Item {
	return &session.Item{VideoID: id, URL: playURL, PlayURL: playURL}
}

const (
	nativeA  = "https://youtu.be/aaa111"
	nativeB  = "https://www.youtube.com/watch?v=bbb222"
	generic1 = "https://example.com/video/1"
)

func TestSelector_NativeToGenericAndBack(t *testing.T) {
	h := newHarness(readyLoader())

	h.sel.Mount(item("a", nativeA))
	assert.Equal(t, 1, h.factory.live)
	assert.True(t, h.sel.Live())

	h.sel.Mount(item("g", generic1))
	assert.Equal(t, 0, h.factory.live)
	assert.False(t, h.sel.Live())
	assert.Equal(t, 1, h.container.resets)
	require.Len(t, h.container.sources, 1)
	assert.Contains(t, h.container.sources[0], "example.com/video/1")

	h.sel.Mount(item("b", nativeB))
	assert.Equal(t, 1, h.factory.live)
	assert.Len(t, h.factory.created, 2)
	assert.Equal(t, []string{"bbb222"}, h.factory.created[1].loaded)
}

func TestSelector_ReusesLiveControlObject(t *testing.T) {
	h := newHarness(readyLoader())

	h.sel.Mount(item("a", nativeA))
	h.sel.Mount(item("b", nativeB))

	require.Len(t, h.factory.created, 1)
	assert.Equal(t, []string{"aaa111", "bbb222"}, h.factory.created[0].loaded)
	assert.Equal(t, 0, h.container.resets)
}

func TestSelector_GenericWithoutControlDoesNotResetContainer(t *testing.T) {
	h := newHarness(readyLoader())

	h.sel.Mount(item("g", generic1))
	h.sel.Mount(item("g2", "https://example.com/video/2"))

	assert.Equal(t, 0, h.container.resets)
	assert.Len(t, h.container.sources, 2)
	assert.Empty(t, h.factory.created)
}

func TestSelector_WaitsForAPIThenConstructs(t *testing.T) {
	api := newFakeAPI()
	h := newHarness(NewLoader(context.Background(), api))

	h.sel.Mount(item("a", nativeA))
	assert.False(t, h.sel.Live())

	close(api.release)
	h.step(t)

	assert.True(t, h.sel.Live())
	assert.Equal(t, 1, h.factory.live)
}

func TestSelector_SupersededNativeMountIsDiscarded(t *testing.T) {
	api := newFakeAPI()
	h := newHarness(NewLoader(context.Background(), api))

	h.sel.Mount(item("a", nativeA))
	h.sel.Mount(item("g", generic1))
	close(api.release)
	h.step(t)

	assert.Equal(t, 0, h.factory.live)
	assert.Empty(t, h.factory.created)
	assert.Len(t, h.container.sources, 1)
}

func TestSelector_OverlappingNativeMountsConstructOnce(t *testing.T) {
	api := newFakeAPI()
	h := newHarness(NewLoader(context.Background(), api))

	h.sel.Mount(item("a", nativeA))
	h.sel.Mount(item("b", nativeB))
	close(api.release)
	h.step(t)
	h.step(t)

	require.Len(t, h.factory.created, 1)
	assert.Equal(t, 1, h.factory.live)
	assert.Equal(t, []string{"bbb222"}, h.factory.created[0].loaded)
	assert.Equal(t, int32(1), api.calls.Load())
}

func TestSelector_APIFailureFallsBackToFrame(t *testing.T) {
	api := newFakeAPI()
	api.errs = []error{errors.New("timeout")}
	h := newHarness(NewLoader(context.Background(), api))

	h.sel.Mount(item("a", nativeA))
	close(api.release)
	h.step(t)

	assert.False(t, h.sel.Live())
	require.Len(t, h.container.sources, 1)
	assert.Contains(t, h.container.sources[0], "youtu.be/aaa111")
}

func TestSelector_CreateFailureFallsBackToFrame(t *testing.T) {
	h := newHarness(readyLoader())
	h.factory.err = errors.New("no container")

	h.sel.Mount(item("a", nativeA))

	assert.False(t, h.sel.Live())
	assert.Equal(t, 1, h.container.resets)
	assert.Len(t, h.container.sources, 1)
}

func TestSelector_EndedFromLivePlayerAdvances(t *testing.T) {
	h := newHarness(readyLoader())

	h.sel.Mount(item("a", nativeA))
	first := h.factory.created[0]

	first.onEnded()
	h.step(t)
	assert.Equal(t, 1, h.ended)

	// Once destroyed, late end-of-media reports are ignored.
	h.sel.Mount(item("g", generic1))
	first.onEnded()
	h.step(t)
	assert.Equal(t, 1, h.ended)
}

func TestSelector_CurrentTracksLatestRequest(t *testing.T) {
	h := newHarness(readyLoader())

	h.sel.Mount(item("a", nativeA))
	assert.Equal(t, KindNative, h.sel.Current().Kind)
	assert.Equal(t, "aaa111", h.sel.Current().VideoID)

	h.sel.Mount(item("g", generic1))
	assert.Equal(t, KindGeneric, h.sel.Current().Kind)
}

func TestSelector_GenericToNativeRecreatesContainer(t *testing.T) {
	tests := []struct {
		name  string
		ready bool
	}{
		{name: "api already loaded", ready: true},
		{name: "api loaded later", ready: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI()
			if tt.ready {
				close(api.release)
			}
			h := newHarness(NewLoader(context.Background(), api))
			if tt.ready {
				require.NoError(t, h.sel.loader.Load(context.Background()))
			}

			h.sel.Mount(item("g", generic1))
			assert.Equal(t, 0, h.container.resets)

			h.sel.Mount(item("a", nativeA))
			// The frame is torn down before the player exists.
			assert.Equal(t, 1, h.container.resets)

			if !tt.ready {
				close(api.release)
				h.step(t)
			}
			assert.Equal(t, 1, h.container.resets)
			assert.Equal(t, 1, h.factory.live)
			assert.Len(t, h.container.sources, 1)
		})
	}
}

func TestSelector_NativeAfterCreateFailureRecreatesContainer(t *testing.T) {
	h := newHarness(readyLoader())
	h.factory.err = errors.New("no page")

	h.sel.Mount(item("a", nativeA))
	require.Equal(t, 1, h.container.resets)

	h.factory.err = nil
	h.sel.Mount(item("b", nativeB))

	assert.Equal(t, 2, h.container.resets)
	assert.True(t, h.sel.Live())
}

package embed

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_ConcurrentCallersShareOneLoad(t *testing.T) {
	api := newFakeAPI()
	l := NewLoader(context.Background(), api)

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- l.Load(context.Background())
		}()
	}

	assert.Eventually(t, func() bool { return api.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, l.Ready())
	close(api.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), api.calls.Load())
	assert.True(t, l.Ready())

	// Completed load is reused.
	require.NoError(t, l.Load(context.Background()))
	assert.Equal(t, int32(1), api.calls.Load())
}

func TestLoader_FailedLoadIsRetried(t *testing.T) {
	api := newFakeAPI()
	api.errs = []error{errors.New("script blocked")}
	close(api.release)
	l := NewLoader(context.Background(), api)

	err := l.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "script blocked")
	assert.False(t, l.Ready())

	require.NoError(t, l.Load(context.Background()))
	assert.True(t, l.Ready())
	assert.Equal(t, int32(2), api.calls.Load())
}

func TestLoader_WaitBoundedByCallerContext(t *testing.T) {
	api := newFakeAPI()
	l := NewLoader(context.Background(), api)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Load(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The shared load keeps going and a later caller still gets it.
	close(api.release)
	require.NoError(t, l.Load(context.Background()))
	assert.Equal(t, int32(1), api.calls.Load())
}

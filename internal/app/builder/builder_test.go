package builder

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/rcplayer/internal/domain/session"
	"github.com/osa030/rcplayer/internal/infra/backend"
)

type fakeClient struct {
	mu    sync.Mutex
	seeds []string
	ns    []int
	resp  *session.Session
	err   error
	block chan struct{}
}

func (f *fakeClient) BuildSession(ctx context.Context, seedURL string, n int) (*session.Session, error) {
	f.mu.Lock()
	f.seeds = append(f.seeds, seedURL)
	f.ns = append(f.ns, n)
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	return f.resp, f.err
}

type fakeTarget struct {
	installed []*session.Session
}

func (f *fakeTarget) Reset(s *session.Session) { f.installed = append(f.installed, s) }

type fakeUI struct {
	mu      sync.Mutex
	alerts  []string
	toggles []bool
}

func (f *fakeUI) Alert(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, msg)
}

func (f *fakeUI) SetBuildEnabled(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggles = append(f.toggles, enabled)
}

func TestParseN(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{input: "", want: 25},
		{input: "10", want: 10},
		{input: " 7 ", want: 7},
		{input: "abc", want: 25},
		{input: "10abc", want: 10},
		{input: "12.9", want: 12},
		{input: "+4", want: 4},
		{input: "0", want: 0},
		{input: "-3", want: -3},
		{input: "-", want: 25},
		{input: "x10", want: 25},
		{input: "99999999999999999999", want: 25},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseN(tt.input, 25))
		})
	}
}

func TestBuild_Success(t *testing.T) {
	s := &session.Session{SessionID: "s9"}
	client := &fakeClient{resp: s}
	target := &fakeTarget{}
	ui := &fakeUI{}
	b := New(client, target, ui, 0)

	err := b.Build(context.Background(), "  https://www.youtube.com/watch?v=seed  ", "10")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://www.youtube.com/watch?v=seed"}, client.seeds)
	assert.Equal(t, []int{10}, client.ns)
	assert.Equal(t, []*session.Session{s}, target.installed)
	assert.Equal(t, []bool{false, true}, ui.toggles)
	assert.Empty(t, ui.alerts)
	assert.False(t, b.inFlight())
}

func TestBuild_EmptySeed(t *testing.T) {
	client := &fakeClient{}
	target := &fakeTarget{}
	ui := &fakeUI{}
	b := New(client, target, ui, 25)

	err := b.Build(context.Background(), "   ", "10")
	assert.ErrorIs(t, err, ErrSeedRequired)
	assert.Equal(t, []string{MsgSeedRequired}, ui.alerts)
	assert.Empty(t, client.seeds)
	assert.Empty(t, ui.toggles)
}

func TestBuild_DefaultN(t *testing.T) {
	client := &fakeClient{resp: &session.Session{SessionID: "s"}}
	b := New(client, &fakeTarget{}, &fakeUI{}, 25)

	require.NoError(t, b.Build(context.Background(), "seed", ""))
	require.NoError(t, b.Build(context.Background(), "seed", "many"))
	assert.Equal(t, []int{25, 25}, client.ns)
}

func TestBuild_Failure(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantAlert string
	}{
		{name: "http error body", err: &backend.HTTPError{StatusCode: 400, Body: "bad seed"}, wantAlert: "Failed to build session: bad seed"},
		{name: "network error", err: errors.New("dial tcp: connection refused"), wantAlert: "Failed to build session: dial tcp: connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := &fakeTarget{}
			ui := &fakeUI{}
			b := New(&fakeClient{err: tt.err}, target, ui, 25)

			err := b.Build(context.Background(), "seed", "5")
			require.Error(t, err)
			assert.Equal(t, []string{tt.wantAlert}, ui.alerts)
			assert.Empty(t, target.installed)
			assert.Equal(t, []bool{false, true}, ui.toggles)
		})
	}
}

func TestBuild_RejectsConcurrentBuild(t *testing.T) {
	client := &fakeClient{resp: &session.Session{SessionID: "s"}, block: make(chan struct{})}
	ui := &fakeUI{}
	b := New(client, &fakeTarget{}, ui, 25)

	done := make(chan error, 1)
	go func() { done <- b.Build(context.Background(), "seed", "5") }()

	assert.Eventually(t, b.inFlight, timeoutForTest, tickForTest)
	assert.ErrorIs(t, b.Build(context.Background(), "seed", "5"), ErrBuilding)

	close(client.block)
	require.NoError(t, <-done)
	assert.False(t, b.inFlight())
	assert.Len(t, client.seeds, 1)
}

const (
	timeoutForTest = time.Second
	tickForTest    = 5 * time.Millisecond
)

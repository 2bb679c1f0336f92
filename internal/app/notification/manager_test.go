package notification

import (
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

type recordingStream struct {
	mu   sync.Mutex
	cmds []*Command
	err  error
	hold chan struct{}
}

func (s *recordingStream) Send(cmd *Command) error {
	if s.hold != nil {
		<-s.hold
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cmds = append(s.cmds, cmd)
	return s.err
}

func (s *recordingStream) received() []*Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Command(nil), s.cmds...)
}

func TestManager_BroadcastStampsSequence(t *testing.T) {
	m := NewManager(0)
	a := &recordingStream{}
	b := &recordingStream{}
	m.Subscribe(a)
	m.Subscribe(b)

	m.Broadcast(&Command{Type: CommandRender, Target: "list"})
	m.Broadcast(&Command{Type: CommandAlert, Message: "hi"})

	for _, s := range []*recordingStream{a, b} {
		require.Eventually(t, func() bool { return len(s.received()) == 2 }, waitFor, tick)
		got := s.received()
		assert.Equal(t, uint64(1), got[0].SequenceNo)
		assert.Equal(t, CommandRender, got[0].Type)
		assert.Equal(t, uint64(2), got[1].SequenceNo)
	}
}

func TestManager_Unsubscribe(t *testing.T) {
	m := NewManager(0)
	s := &recordingStream{}
	id := m.Subscribe(s)
	assert.Equal(t, 1, m.SubscriberCount())

	m.Unsubscribe(id)
	m.Unsubscribe(id)
	assert.Equal(t, 0, m.SubscriberCount())

	m.Broadcast(&Command{Type: CommandOpen, URL: "https://example.com"})
	assert.Empty(t, s.received())
}

func TestManager_SlowSubscriberDoesNotBlockBroadcast(t *testing.T) {
	m := NewManager(4)
	slow := &recordingStream{hold: make(chan struct{})}
	broken := &recordingStream{err: errors.New("closed")}
	ok := &recordingStream{}
	m.Subscribe(slow)
	m.Subscribe(broken)
	m.Subscribe(ok)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			m.Broadcast(&Command{Type: CommandRender})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("broadcast blocked on slow subscriber")
	}

	require.Eventually(t, func() bool { return len(ok.received()) == 10 }, waitFor, tick)
	require.Eventually(t, func() bool { return len(broken.received()) == 10 }, waitFor, tick)

	// The slow subscriber keeps what fit in its queue, in order.
	close(slow.hold)
	require.Eventually(t, func() bool { return len(slow.received()) > 0 }, waitFor, tick)
	got := slow.received()
	assert.Less(t, len(got), 10)
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i].SequenceNo, got[i-1].SequenceNo)
	}
}

func TestManager_Close(t *testing.T) {
	m := NewManager(0)
	m.Subscribe(&recordingStream{})
	m.Close()
	assert.Equal(t, 0, m.SubscriberCount())

	assert.NotPanics(t, func() { m.Broadcast(&Command{Type: CommandAlert}) })
}

// Package notification broadcasts page commands to subscribed streams.
package notification

import (
	"sync"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
)

// DefaultQueueSize is the number of commands buffered per subscriber.
const DefaultQueueSize = 256

// Stream represents a command stream for a subscriber.
type Stream interface {
	Send(*Command) error
}

// subscription represents a subscriber's subscription. Commands are queued
// and written to the stream by the subscription's own goroutine.
type subscription struct {
	id      string
	stream  Stream
	queue   chan *Command
	done    chan struct{}
	dropped uint64
}

func (s *subscription) drain() {
	defer close(s.done)
	for cmd := range s.queue {
		if err := s.stream.Send(cmd); err != nil {
			zlog.Warn().Err(err).Msgf("notification: send failed: id=%s type=%s seq=%d", s.id, cmd.Type, cmd.SequenceNo)
		}
	}
}

// Manager manages command subscriptions and broadcasting.
type Manager struct {
	mu            sync.Mutex
	subscriptions map[string]*subscription
	sequenceNo    uint64
	queueSize     int
}

// NewManager creates a new notification manager. queueSize bounds the
// commands buffered for each subscriber.
func NewManager(queueSize int) *Manager {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Manager{
		subscriptions: make(map[string]*subscription),
		queueSize:     queueSize,
	}
}

// Subscribe adds a new subscription and returns the subscription ID.
func (m *Manager) Subscribe(stream Stream) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub := &subscription{
		id:     uuid.New().String(),
		stream: stream,
		queue:  make(chan *Command, m.queueSize),
		done:   make(chan struct{}),
	}
	m.subscriptions[sub.id] = sub
	go sub.drain()

	zlog.Debug().Msgf("notification: subscribed: id=%s", sub.id)
	return sub.id
}

// NextSequenceNo returns the next sequence number and increments the counter.
func (m *Manager) NextSequenceNo() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nextSequenceNoLocked()
}

func (m *Manager) nextSequenceNoLocked() uint64 {
	m.sequenceNo++
	return m.sequenceNo
}

// Unsubscribe removes a subscription. Commands already queued for it are
// still written.
func (m *Manager) Unsubscribe(subscriptionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub, ok := m.subscriptions[subscriptionID]; ok {
		delete(m.subscriptions, subscriptionID)
		close(sub.queue)
	}
	zlog.Debug().Msgf("notification: unsubscribed: id=%s", subscriptionID)
}

// Broadcast stamps cmd with the next sequence number and queues it for all
// subscribers. It never blocks; a subscriber whose queue is full misses cmd.
func (m *Manager) Broadcast(cmd *Command) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd.SequenceNo = m.nextSequenceNoLocked()
	for _, sub := range m.subscriptions {
		select {
		case sub.queue <- cmd:
		default:
			sub.dropped++
			zlog.Warn().Msgf("notification: queue full, command dropped: id=%s type=%s dropped=%d", sub.id, cmd.Type, sub.dropped)
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (m *Manager) SubscriberCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscriptions)
}

// Close removes all subscriptions.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, sub := range m.subscriptions {
		close(sub.queue)
		delete(m.subscriptions, id)
	}
}

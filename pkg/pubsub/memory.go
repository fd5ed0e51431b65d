package pubsub

import (
	"context"
	"sync"
)

type listener struct {
	ch   chan *Event
	done chan struct{} // closed together with ch
}

// MemoryPubSub is an in-process Bus and Subscriber.
// Suitable for single-instance deployments and tests.
type MemoryPubSub struct {
	subscribers map[string][]*listener // channel -> listeners
	mu          sync.RWMutex
	closed      bool
}

var (
	_ Bus        = (*MemoryPubSub)(nil)
	_ Subscriber = (*MemoryPubSub)(nil)
)

// NewMemoryPubSub creates a new in-memory pub/sub.
func NewMemoryPubSub() *MemoryPubSub {
	return &MemoryPubSub{
		subscribers: make(map[string][]*listener),
	}
}

// Publish delivers the event to every current subscriber of channel.
// Full subscriber buffers drop the event.
func (m *MemoryPubSub) Publish(ctx context.Context, channel string, event *Event) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers[channel] {
		eventCopy := *event
		select {
		case sub.ch <- &eventCopy:
		default:
		}
	}
	return nil
}

// Subscribe registers a listener on channel. The returned channel is closed
// on Unsubscribe, Close, or when ctx is done.
func (m *MemoryPubSub) Subscribe(ctx context.Context, channel string) (<-chan *Event, error) {
	sub := &listener{
		ch:   make(chan *Event, 100),
		done: make(chan struct{}),
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		sub.close()
		return sub.ch, nil
	}
	m.subscribers[channel] = append(m.subscribers[channel], sub)
	m.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			m.remove(channel, sub)
		case <-sub.done:
		}
	}()

	return sub.ch, nil
}

// Unsubscribe closes every listener on channel.
func (m *MemoryPubSub) Unsubscribe(ctx context.Context, channel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sub := range m.subscribers[channel] {
		sub.close()
	}
	delete(m.subscribers, channel)
	return nil
}

// Close closes all listeners.
func (m *MemoryPubSub) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for channel, listeners := range m.subscribers {
		for _, sub := range listeners {
			sub.close()
		}
		delete(m.subscribers, channel)
	}
	m.closed = true
	return nil
}

func (m *MemoryPubSub) remove(channel string, target *listener) {
	m.mu.Lock()
	defer m.mu.Unlock()

	listeners := m.subscribers[channel]
	for i, sub := range listeners {
		if sub == target {
			sub.close()
			m.subscribers[channel] = append(listeners[:i], listeners[i+1:]...)
			break
		}
	}
	if len(m.subscribers[channel]) == 0 {
		delete(m.subscribers, channel)
	}
}

// close runs once per listener, as it leaves the subscriber map.
func (l *listener) close() {
	close(l.ch)
	close(l.done)
}

// Package bus carries rep messages between chat channels and the agent
// loop: one inbound queue toward the agent, one outbound queue of replies.
package bus

import (
	"context"
	"sync"
	"time"
)

// Message is one rep message or assistant reply in transit.
type Message struct {
	ID        string
	Channel   string // "telegram", "internal"
	SenderID  string
	ChatID    string
	Text      string
	Timestamp time.Time
}

// queueDepth bounds each direction; a rep typing faster than the agent can
// answer blocks the channel rather than growing memory.
const queueDepth = 100

// Bus is the in-process message bus. Both directions share the same
// lifecycle: Close drains nothing and unblocks everyone.
type Bus struct {
	inbound  chan Message
	outbound chan Message
	done     chan struct{}
	once     sync.Once
}

// New creates a bus ready for publishing.
func New() *Bus {
	return &Bus{
		inbound:  make(chan Message, queueDepth),
		outbound: make(chan Message, queueDepth),
		done:     make(chan struct{}),
	}
}

func (b *Bus) put(ch chan Message, msg Message) {
	select {
	case <-b.done:
		// Dropped: the bus is shutting down.
	case ch <- msg:
	}
}

func (b *Bus) take(ctx context.Context, ch chan Message) (Message, bool) {
	select {
	case msg := <-ch:
		return msg, true
	case <-ctx.Done():
		return Message{}, false
	case <-b.done:
		return Message{}, false
	}
}

// PublishInbound queues a rep message for the agent. Messages published
// after Close are dropped without blocking.
func (b *Bus) PublishInbound(msg Message) { b.put(b.inbound, msg) }

// ConsumeInbound blocks until a rep message arrives, the context is
// cancelled, or the bus is closed. The second return value is false only
// when no message was delivered.
func (b *Bus) ConsumeInbound(ctx context.Context) (Message, bool) {
	return b.take(ctx, b.inbound)
}

// PublishOutbound queues an assistant reply for channel delivery.
func (b *Bus) PublishOutbound(msg Message) { b.put(b.outbound, msg) }

// SubscribeOutbound blocks until a reply is available, the context is
// cancelled, or the bus is closed.
func (b *Bus) SubscribeOutbound(ctx context.Context) (Message, bool) {
	return b.take(ctx, b.outbound)
}

// Close shuts the bus down. Safe to call more than once.
func (b *Bus) Close() {
	b.once.Do(func() { close(b.done) })
}

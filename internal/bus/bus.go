// Package bus provides the in-process message bus that decouples channels
// and alert sources from the agent core.
package bus

import (
	"log/slog"
	"sync"
	"time"
)

// MessageType distinguishes who originated a message. Only internal messages
// (typed by a human operator) can ever grant approval for protected actions.
type MessageType string

const (
	// MessageTypeInternal marks messages typed by a human operator.
	MessageTypeInternal MessageType = "internal"
	// MessageTypeExternal marks machine-originated messages such as
	// monitoring alerts. External messages never count as confirmations.
	MessageTypeExternal MessageType = "external"
)

// InboundMessage is a message flowing from a channel or alert source into
// the agent core.
type InboundMessage struct {
	Channel        string
	SenderID       string
	ChatID         string
	TraceID        string
	IdempotencyKey string
	Type           MessageType
	Content        string
	Metadata       map[string]string
	Timestamp      time.Time
}

// MessageType returns the origin type, defaulting to internal.
func (m *InboundMessage) MessageType() MessageType {
	if m.Type == "" {
		return MessageTypeInternal
	}
	return m.Type
}

// OutboundMessage is a response flowing from the agent core back to a channel.
type OutboundMessage struct {
	Channel string
	ChatID  string
	TraceID string
	TaskID  string
	Content string
}

// OutboundHandler delivers an outbound message on a specific channel.
type OutboundHandler func(msg *OutboundMessage)

// MessageBus routes messages between channels and the agent core.
type MessageBus struct {
	inbound  chan *InboundMessage
	outbound chan *OutboundMessage

	mu   sync.RWMutex
	subs map[string]OutboundHandler

	stopOnce sync.Once
	done     chan struct{}
}

// NewMessageBus creates a message bus with buffered queues.
func NewMessageBus() *MessageBus {
	return &MessageBus{
		inbound:  make(chan *InboundMessage, 100),
		outbound: make(chan *OutboundMessage, 100),
		subs:     make(map[string]OutboundHandler),
		done:     make(chan struct{}),
	}
}

// PublishInbound enqueues a message for the agent core. Drops the message
// with a warning if the queue is full, so a stalled core cannot block
// channel goroutines.
func (b *MessageBus) PublishInbound(msg *InboundMessage) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	select {
	case b.inbound <- msg:
	case <-b.done:
	default:
		slog.Warn("inbound queue full, dropping message",
			"channel", msg.Channel, "trace_id", msg.TraceID)
	}
}

// ConsumeInbound returns the channel of inbound messages for the agent core.
func (b *MessageBus) ConsumeInbound() <-chan *InboundMessage {
	return b.inbound
}

// PublishOutbound enqueues a response for delivery back to a channel.
func (b *MessageBus) PublishOutbound(msg *OutboundMessage) {
	select {
	case b.outbound <- msg:
	case <-b.done:
	default:
		slog.Warn("outbound queue full, dropping message",
			"channel", msg.Channel, "trace_id", msg.TraceID)
	}
}

// Subscribe registers a delivery handler for a channel name.
func (b *MessageBus) Subscribe(channel string, handler OutboundHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[channel] = handler
}

// DispatchOutbound delivers outbound messages to their subscribed channels
// until Stop is called. Run it in its own goroutine.
func (b *MessageBus) DispatchOutbound() {
	for {
		select {
		case msg := <-b.outbound:
			b.mu.RLock()
			handler, ok := b.subs[msg.Channel]
			b.mu.RUnlock()
			if !ok {
				slog.Warn("no subscriber for outbound channel", "channel", msg.Channel)
				continue
			}
			handler(msg)
		case <-b.done:
			return
		}
	}
}

// Stop shuts down the bus. Safe to call more than once.
func (b *MessageBus) Stop() {
	b.stopOnce.Do(func() { close(b.done) })
}

package bus

import (
	"sync"
	"testing"
	"time"
)

func TestPublishAndConsumeInbound(t *testing.T) {
	b := NewMessageBus()
	defer b.Stop()

	b.PublishInbound(&InboundMessage{Channel: "cli", Content: "hello"})

	select {
	case msg := <-b.ConsumeInbound():
		if msg.Content != "hello" {
			t.Errorf("content = %q", msg.Content)
		}
		if msg.Timestamp.IsZero() {
			t.Error("timestamp not set")
		}
	case <-time.After(time.Second):
		t.Fatal("no inbound message")
	}
}

func TestMessageTypeDefaultsToInternal(t *testing.T) {
	msg := &InboundMessage{}
	if msg.MessageType() != MessageTypeInternal {
		t.Errorf("default type = %q", msg.MessageType())
	}
	msg.Type = MessageTypeExternal
	if msg.MessageType() != MessageTypeExternal {
		t.Errorf("type = %q", msg.MessageType())
	}
}

func TestDispatchOutboundRoutesToSubscriber(t *testing.T) {
	b := NewMessageBus()
	defer b.Stop()

	var mu sync.Mutex
	var got []string
	b.Subscribe("slack", func(msg *OutboundMessage) {
		mu.Lock()
		got = append(got, msg.Content)
		mu.Unlock()
	})

	go b.DispatchOutbound()
	b.PublishOutbound(&OutboundMessage{Channel: "slack", Content: "incident resolved"})
	b.PublishOutbound(&OutboundMessage{Channel: "nobody", Content: "dropped"})

	deadline := time.After(time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("delivered %d messages, want 1", n)
		case <-time.After(10 * time.Millisecond):
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if got[0] != "incident resolved" {
		t.Errorf("delivered = %v", got)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	b := NewMessageBus()
	b.Stop()
	b.Stop()
}

func TestFullQueueDropsInsteadOfBlocking(t *testing.T) {
	b := NewMessageBus()
	defer b.Stop()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			b.PublishInbound(&InboundMessage{Channel: "cli"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("PublishInbound blocked on full queue")
	}
}
